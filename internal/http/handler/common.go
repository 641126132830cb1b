package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/relation-sync/internal/domain"
	"go.uber.org/zap"
)

const (
	msgInvalidBody = "Invalid request body"
	msgInvalidID   = "Invalid ID"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, detail string, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
		Errors: fields,
	})
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondResult renders a Synchronization Layer result. Successful results are
// written with status; failures are mapped to an HTTP status from their cause.
// A cancelled result means the client went away, so nothing is written.
func respondResult[T any](w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, res domain.Result[T]) {
	if res.Canceled {
		logger.Debug("request canceled before completion", zap.String("path", r.URL.Path))
		return
	}
	if res.Success {
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		respondJSON(w, status, res)
		return
	}
	if fields := res.ValidationErrors(); fields != nil {
		respondValidationError(w, res.Error, fields)
		return
	}
	respondWithError(w, statusFor(res.Err()), res.Error)
}

// statusFor maps a failure cause to the status the View layer sees
func statusFor(err error) int {
	if errors.Is(err, domain.ErrAuthRequired) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		switch gwErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
			return gwErr.Status
		default:
			return http.StatusBadGateway
		}
	}

	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrorTypeUnauthorized
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return domain.ErrorTypeBadGateway
	default:
		return domain.ErrorTypeInternal
	}
}

func decodeBody(r *http.Request, target interface{}) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// overlay returns an apply func that decodes raw onto an existing input, so
// only the fields present in the body change
func overlay[T any](raw json.RawMessage) func(*T) error {
	return func(v *T) error { return json.Unmarshal(raw, v) }
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt returns the positive integer query value for key, or 0
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return 0
	}
	return v
}

func queryInt64(r *http.Request, key string) *int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
