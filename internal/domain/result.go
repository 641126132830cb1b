package domain

import (
	"context"
	"errors"
)

// Empty is the payload of operations that return no data (delete)
type Empty struct{}

// Result is the tagged outcome of every Synchronization Layer operation.
// Operations never return a Go error past their boundary; failures are
// folded into Success=false with a user-facing Error message.
type Result[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`

	// Canceled is set when the caller's context was cancelled before the
	// operation completed. Callers treat it as a no-op, not a failure.
	Canceled bool `json:"-"`

	cause error
}

// Ok builds a successful result
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OkPage builds a successful list result with pagination
func OkPage[T any](data []T, p *Pagination) Result[[]T] {
	if data == nil {
		data = []T{}
	}
	return Result[[]T]{Success: true, Data: data, Pagination: p}
}

// Fail builds a failed result from err, using fallback when err has no Gateway message
func Fail[T any](ctx context.Context, err error, fallback string) Result[T] {
	r := Result[T]{
		Success: false,
		Error:   ErrorMessage(err, fallback),
		cause:   err,
	}
	if ctx != nil && errors.Is(ctx.Err(), context.Canceled) {
		r.Canceled = true
	}
	return r
}

// FailList builds a failed list result with empty, non-nil data
func FailList[T any](ctx context.Context, err error, fallback string) Result[[]T] {
	r := Fail[[]T](ctx, err, fallback)
	r.Data = []T{}
	return r
}

// Map converts the data of a successful result, keeping failures as they are
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	out := Result[U]{
		Success:    r.Success,
		Pagination: r.Pagination,
		Error:      r.Error,
		Canceled:   r.Canceled,
		cause:      r.cause,
	}
	if r.Success {
		out.Data = fn(r.Data)
	}
	return out
}

// Err returns the underlying cause of a failed result, or nil on success
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	if r.cause != nil {
		return r.cause
	}
	return errors.New(r.Error)
}

// ValidationErrors returns field errors when the failure was client-side validation
func (r Result[T]) ValidationErrors() map[string]string {
	var vErr *ValidationError
	if errors.As(r.cause, &vErr) {
		return vErr.Fields
	}
	return nil
}
