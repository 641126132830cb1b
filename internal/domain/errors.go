package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AuthRequiredMessage is surfaced verbatim when no credential can be resolved
const AuthRequiredMessage = "Authentication required"

var (
	// ErrAuthRequired is returned when no bearer credential is resolvable.
	// No Gateway call is made when this is returned.
	ErrAuthRequired = errors.New("authentication required")

	// ErrMalformedResponse is wrapped by GatewayError when a 2xx body does not decode
	ErrMalformedResponse = errors.New("malformed gateway response")

	// ErrDerivedItem is returned when an edit targets a task projection instead of an event
	ErrDerivedItem = errors.New("task-derived calendar items cannot be edited as events")
)

// GatewayError is a non-2xx (or malformed 2xx) response from the Gateway
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway returned status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("gateway returned status %d", e.Status)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NetworkError is a request that never produced a Gateway response
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request hit its deadline
func (e *NetworkError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ValidationError carries field-scoped, client-side validation messages.
// It never reaches the Gateway.
type ValidationError struct {
	Fields map[string]string
	// Err optionally names the rule that failed, for errors.Is
	Err error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewFieldError builds a ValidationError for a single field
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ErrorMessage picks the user-facing message for err.
// Gateway messages are used verbatim; otherwise fallback is returned.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrAuthRequired) {
		return AuthRequiredMessage
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		if len(vErr.Fields) == 1 {
			for _, msg := range vErr.Fields {
				return msg
			}
		}
		return "Please fix the highlighted fields"
	}
	return fallback
}

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeBadGateway   = "bad_gateway"
	ErrorTypeInternal     = "internal_error"
)
