package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/http/handler"
	"github.com/straye-as/relation-sync/internal/http/middleware"
	"github.com/straye-as/relation-sync/internal/store"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubVerifier struct {
	calls int
	ok    bool
}

func (v *stubVerifier) CurrentUser(ctx context.Context) domain.Result[domain.User] {
	v.calls++
	if v.ok {
		return domain.Ok(domain.User{ID: "1", Username: "ann"})
	}
	return domain.Fail[domain.User](ctx, domain.ErrAuthRequired, domain.AuthRequiredMessage)
}

func newTestRouter(verifier *stubVerifier) http.Handler {
	cfg := &config.Config{
		Session:   config.SessionConfig{CookieName: "token"},
		Server:    config.ServerConfig{RequestTimeout: 5},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 100},
	}
	log := zap.NewNop()
	state := handler.NewStateHandler(store.NewClientStore(), store.NewTaskStore(), store.NewCalendarStore(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	rt := NewRouter(cfg, log, nil, middleware.NewRateLimiter(&cfg.RateLimit, log), verifier, Handlers{State: state})
	return rt.Setup()
}

func TestRouter_StateRoutesRequireCredential(t *testing.T) {
	verifier := &stubVerifier{ok: true}
	h := newTestRouter(verifier)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/state/clients", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, verifier.calls)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state/clients", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "tok"})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, verifier.calls)
}

func TestRouter_StateRoutesRejectUnknownCredential(t *testing.T) {
	verifier := &stubVerifier{}
	h := newTestRouter(verifier)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer stolen")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 1, verifier.calls)
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(&stubVerifier{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
