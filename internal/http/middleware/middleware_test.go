package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tokenEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := session.TokenFromContext(r.Context())
		_, _ = w.Write([]byte(token))
	})
}

func TestCredentials(t *testing.T) {
	h := Credentials("token")(tokenEcho())

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "cookie", cookie: "from-cookie", want: "from-cookie"},
		{name: "bearer header", header: "Bearer from-header", want: "from-header"},
		{name: "cookie wins", cookie: "from-cookie", header: "Bearer from-header", want: "from-cookie"},
		{name: "none", want: ""},
		{name: "malformed header", header: "Basic abc", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Body.String())
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal_error")
}

func TestLogging_RequestID(t *testing.T) {
	var seen string
	h := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "upstream-id", seen)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            600,
		ContentSecurityPolicy: "default-src 'self'",
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
	}
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
	assert.Equal(t, "max-age=600; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestRateLimiter(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, WhitelistPaths: []string{"/health", "/static/*"}}
	rl := NewRateLimiter(cfg, zap.NewNop())
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if token != "" {
			req = req.WithContext(session.WithToken(req.Context(), token))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, hit("/api/v1/clients", ""))
	assert.Equal(t, http.StatusOK, hit("/api/v1/clients", ""))
	assert.Equal(t, http.StatusTooManyRequests, hit("/api/v1/clients", ""))

	// whitelisted paths and other credentials have their own budget
	assert.Equal(t, http.StatusOK, hit("/health", ""))
	assert.Equal(t, http.StatusOK, hit("/static/app.js", ""))
	assert.Equal(t, http.StatusOK, hit("/api/v1/clients", "tok"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", clientIP(req))

	req.Header.Set("X-Real-IP", "10.1.1.1")
	assert.Equal(t, "10.1.1.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestCORSPolicy(t *testing.T) {
	assert.Equal(t, corsAllowAny, corsPolicy([]string{"*"}, "production"))
	assert.Equal(t, corsExplicit, corsPolicy([]string{"https://crm.example.com"}, "production"))
	assert.Equal(t, corsAllowAny, corsPolicy(nil, "development"))
	assert.Equal(t, corsDenyAll, corsPolicy(nil, "production"))
}

func TestCORS_EchoesAllowedOrigin(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins:   []string{"https://crm.example.com"},
		AllowedMethods:   []string{"GET"},
		AllowCredentials: true,
	}
	h := CORS(cfg, "production", zap.NewNop())(tokenEcho())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://crm.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type verifierFunc func(ctx context.Context) domain.Result[domain.User]

func (f verifierFunc) CurrentUser(ctx context.Context) domain.Result[domain.User] { return f(ctx) }

func TestRequireCredential(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		result domain.Result[domain.User]
		want   int
		calls  int
	}{
		{name: "no credential", want: http.StatusUnauthorized},
		{name: "accepted", token: "tok", result: domain.Ok(domain.User{ID: "1"}), want: http.StatusOK, calls: 1},
		{
			name:   "rejected by gateway",
			token:  "tok",
			result: domain.Fail[domain.User](context.Background(), &domain.GatewayError{Status: http.StatusUnauthorized}, "no"),
			want:   http.StatusUnauthorized,
			calls:  1,
		},
		{
			name:   "gateway unavailable",
			token:  "tok",
			result: domain.Fail[domain.User](context.Background(), &domain.GatewayError{Status: http.StatusServiceUnavailable}, "down"),
			want:   http.StatusBadGateway,
			calls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			verifier := verifierFunc(func(ctx context.Context) domain.Result[domain.User] {
				calls++
				token, _ := session.TokenFromContext(ctx)
				assert.Equal(t, tt.token, token)
				return tt.result
			})
			h := RequireCredential(verifier, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/state/clients", nil)
			if tt.token != "" {
				req = req.WithContext(session.WithToken(req.Context(), tt.token))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			assert.Equal(t, tt.calls, calls)
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	var hasDeadline bool
	h := RequestTimeout(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, hasDeadline)
	assert.Equal(t, http.StatusOK, rr.Code)

	h = RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
}
