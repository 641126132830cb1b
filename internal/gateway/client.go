// Package gateway is the HTTP client for the remote CRM REST API.
// It knows the wire format (bearer auth, JSON envelopes, error bodies) but
// nothing about stores or sessions.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 64 << 10

	// IdempotencyHeader carries the client-generated key sent with creates
	IdempotencyHeader = "Idempotency-Key"
)

// Client issues requests against the Gateway
type Client struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	idempotencyKeys bool
	logger          *zap.Logger
}

// Request describes one Gateway call
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Token is sent as a bearer credential when non-empty
	Token string
	// Idempotent marks creates that should carry an Idempotency-Key
	Idempotent bool
}

// NewClient creates a Gateway client from configuration
func NewClient(cfg *config.GatewayConfig, logger *zap.Logger) *Client {
	timeout := cfg.RequestTimeoutDuration()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:      &http.Client{},
		timeout:         timeout,
		idempotencyKeys: cfg.IdempotencyKeys,
		logger:          logger,
	}
}

// WithHTTPClient swaps the underlying transport client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Do sends req and returns the raw 2xx response body.
// Non-2xx responses become *domain.GatewayError carrying the body's message;
// transport failures and timeouts become *domain.NetworkError.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if req.Idempotent && c.idempotencyKeys {
		httpReq.Header.Set(IdempotencyHeader, uuid.New().String())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("gateway request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, &domain.NetworkError{Op: req.Method + " " + req.Path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("gateway request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.GatewayError{
			Status:  resp.StatusCode,
			Message: extractMessage(raw),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Op: req.Method + " " + req.Path, Err: err}
	}
	return raw, nil
}

// extractMessage pulls a human-readable message from an error body.
// The Gateway uses "message"; RFC 7807 style "detail" and "error" are accepted too.
func extractMessage(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Detail != "":
		return body.Detail
	default:
		return body.Error
	}
}

// envelope is the {success, data, pagination} wrapper used by the Gateway
type envelope struct {
	Success    *bool              `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *domain.Pagination `json:"pagination"`
	Message    string             `json:"message"`
	Error      string             `json:"error"`
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

func (e envelope) failure(status int) error {
	msg := e.Message
	if msg == "" {
		msg = e.Error
	}
	return &domain.GatewayError{Status: status, Message: msg}
}

// DecodeList decodes a list envelope
func DecodeList[T any](raw []byte) ([]T, *domain.Pagination, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, malformed(err)
	}
	if env.failed() {
		return nil, nil, env.failure(http.StatusOK)
	}
	items := []T{}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, nil, malformed(err)
		}
	}
	return items, env.Pagination, nil
}

// DecodeOne decodes a single record, either wrapped in an envelope or bare
func DecodeOne[T any](raw []byte) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return zero, malformed(errors.New("expected a JSON object"))
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return zero, malformed(err)
	}
	if env.failed() {
		return zero, env.failure(http.StatusOK)
	}

	payload := trimmed
	if env.Success != nil && len(env.Data) > 0 {
		payload = env.Data
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, malformed(err)
	}
	return out, nil
}

// CheckAck validates the body of a call that returns no record
func CheckAck(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return malformed(err)
	}
	if env.failed() {
		return env.failure(http.StatusOK)
	}
	return nil
}

func malformed(err error) error {
	return &domain.GatewayError{
		Status: http.StatusOK,
		Err:    fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err),
	}
}
