package session

import (
	"context"
	"strings"
)

type contextKey string

const (
	tokenContextKey   contextKey = "sessionToken"
	processContextKey contextKey = "processCredential"
)

// WithToken attaches a request-scoped credential
func WithToken(ctx context.Context, token string) context.Context {
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext returns the request-scoped credential, if any
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok && token != ""
}

// BearerToken extracts the credential from an Authorization header value
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// WithProcessCredential lets Resolve fall back to the process-wide token when
// ctx carries no request credential. Background jobs use it; the HTTP API
// never does, so an anonymous request cannot borrow another user's session.
func WithProcessCredential(ctx context.Context) context.Context {
	return context.WithValue(ctx, processContextKey, true)
}

func usesProcessCredential(ctx context.Context) bool {
	v, _ := ctx.Value(processContextKey).(bool)
	return v
}
