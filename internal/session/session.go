// Package session holds the credential used to authorize Gateway calls.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/straye-as/relation-sync/internal/domain"
)

// Resolver supplies the bearer credential for a call. ok is false when no
// usable credential exists.
type Resolver interface {
	Resolve(ctx context.Context) (token string, ok bool)
}

// Session is the process-wide credential and the user it belongs to
type Session struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
	now   func() time.Time
}

// New creates an empty session
func New() *Session {
	return &Session{now: time.Now}
}

// Set installs a credential and its user
func (s *Session) Set(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	if user != nil {
		u := *user
		s.user = &u
	} else {
		s.user = nil
	}
}

// Clear forgets the credential
func (s *Session) Clear() {
	s.Set("", nil)
}

// ClearIf forgets the credential only while it is still token
func (s *Session) ClearIf(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.token != strings.TrimSpace(token) {
		return false
	}
	s.token = ""
	s.user = nil
	return true
}

// Token returns the stored credential
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user, or nil
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Resolve implements Resolver. A request-scoped token wins; the stored token
// is only used for contexts marked with WithProcessCredential. Expired JWTs
// resolve as absent.
func (s *Session) Resolve(ctx context.Context) (string, bool) {
	token, ok := TokenFromContext(ctx)
	if !ok && usesProcessCredential(ctx) {
		token = s.Token()
	}
	if token == "" || Expired(token, s.now()) {
		return "", false
	}
	return token, true
}

// Expired reports whether token is a JWT whose exp claim is at or before now.
// Opaque tokens never expire locally; the Gateway remains the authority.
func Expired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Static resolves to a fixed token; useful for jobs and tests
type Static string

// Resolve implements Resolver
func (s Static) Resolve(ctx context.Context) (string, bool) {
	if token, ok := TokenFromContext(ctx); ok {
		return token, true
	}
	return string(s), s != ""
}
