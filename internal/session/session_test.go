package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestSession_Resolve(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty session is unauthenticated", func(t *testing.T) {
		s := New()
		_, ok := s.Resolve(context.Background())
		assert.False(t, ok)
	})

	t.Run("opaque token passes through", func(t *testing.T) {
		s := New()
		s.Set("opaque-token", nil)
		token, ok := s.Resolve(WithProcessCredential(context.Background()))
		assert.True(t, ok)
		assert.Equal(t, "opaque-token", token)
	})

	t.Run("stored token is never lent to an anonymous request", func(t *testing.T) {
		s := New()
		s.Set("alice-token", &domain.User{ID: "1", Username: "alice"})
		_, ok := s.Resolve(context.Background())
		assert.False(t, ok)
	})

	t.Run("request token overrides stored token", func(t *testing.T) {
		s := New()
		s.Set("stored", nil)
		token, ok := s.Resolve(WithToken(context.Background(), "from-cookie"))
		assert.True(t, ok)
		assert.Equal(t, "from-cookie", token)
	})

	t.Run("expired jwt resolves as absent", func(t *testing.T) {
		s := New()
		s.now = func() time.Time { return now }
		s.Set(signed(t, now.Add(-time.Minute)), nil)
		_, ok := s.Resolve(WithProcessCredential(context.Background()))
		assert.False(t, ok)
	})

	t.Run("live jwt resolves", func(t *testing.T) {
		s := New()
		s.now = func() time.Time { return now }
		live := signed(t, now.Add(time.Hour))
		s.Set(live, nil)
		token, ok := s.Resolve(WithProcessCredential(context.Background()))
		assert.True(t, ok)
		assert.Equal(t, live, token)
	})

	t.Run("clear forgets token and user", func(t *testing.T) {
		s := New()
		s.Set("x", &domain.User{ID: "1", Username: "ann"})
		s.Clear()
		assert.Empty(t, s.Token())
		assert.Nil(t, s.User())
	})
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}

func TestStatic_Resolve(t *testing.T) {
	_, ok := Static("").Resolve(context.Background())
	assert.False(t, ok)
	token, ok := Static("svc").Resolve(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "svc", token)
}

func newTestManager(t *testing.T, handler http.HandlerFunc) (*Manager, *Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw := gateway.NewClient(&config.GatewayConfig{BaseURL: srv.URL, RequestTimeout: 5}, zap.NewNop())
	s := New()
	return NewManager(gw, s, zap.NewNop()), s
}

func TestManager_Login(t *testing.T) {
	t.Run("stores token after fetching user", func(t *testing.T) {
		m, s := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case gateway.PathLogin:
				var req domain.LoginRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "ann", req.Username)
				_, _ = w.Write([]byte(`{"token":"tok-1"}`))
			case gateway.PathMe:
				assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
				_, _ = w.Write([]byte(`{"id":7,"username":"ann"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})

		res := m.Login(context.Background(), "ann", "pw")
		require.True(t, res.Success, res.Error)
		assert.Equal(t, "tok-1", res.Data.Token)
		assert.Equal(t, "7", res.Data.User.ID)
		assert.Equal(t, "tok-1", s.Token())
		assert.Equal(t, "ann", s.User().Username)
	})

	t.Run("gateway message is surfaced verbatim", func(t *testing.T) {
		m, s := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
		})
		res := m.Login(context.Background(), "ann", "bad")
		assert.False(t, res.Success)
		assert.Equal(t, "Invalid credentials", res.Error)
		assert.Empty(t, s.Token())
	})

	t.Run("user lookup failure leaves session empty", func(t *testing.T) {
		m, s := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == gateway.PathLogin {
				_, _ = w.Write([]byte(`{"token":"tok-1"}`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		})
		res := m.Login(context.Background(), "ann", "pw")
		assert.False(t, res.Success)
		assert.Equal(t, "Failed to fetch user data", res.Error)
		assert.Empty(t, s.Token())
	})

	t.Run("missing credentials never reach the gateway", func(t *testing.T) {
		var calls int32
		m, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		})
		res := m.Login(context.Background(), "", "")
		assert.False(t, res.Success)
		assert.Contains(t, res.ValidationErrors(), "username")
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})
}

func TestManager_CurrentUser(t *testing.T) {
	var calls int32
	m, s := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"id":"u-9","username":"bob"}`))
	})

	res := m.CurrentUser(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, domain.AuthRequiredMessage, res.Error)

	s.Set("tok", &domain.User{ID: "1", Username: "ann"})
	res = m.CurrentUser(context.Background())
	assert.False(t, res.Success, "the stored user is not visible without a credential")
	assert.Equal(t, domain.AuthRequiredMessage, res.Error)

	res = m.CurrentUser(WithProcessCredential(context.Background()))
	require.True(t, res.Success)
	assert.Equal(t, "ann", res.Data.Username)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	res = m.CurrentUser(WithToken(context.Background(), "cookie-token"))
	require.True(t, res.Success)
	assert.Equal(t, "bob", res.Data.Username)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	m.Logout(WithToken(context.Background(), "tok"))
	assert.Empty(t, s.Token())
}

func TestManager_LogoutHooks(t *testing.T) {
	m, s := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {})
	s.Set("tok", &domain.User{ID: "1"})

	var order []string
	m.OnLogout(func() {
		order = append(order, "stores")
		assert.Empty(t, s.Token(), "hooks run after the session is cleared")
	})
	m.OnLogout(func() { order = append(order, "snapshots") })

	res := m.Logout(WithToken(context.Background(), "tok"))
	assert.True(t, res.Success)
	assert.Equal(t, []string{"stores", "snapshots"}, order)
}

func TestManager_LogoutOnlyEndsOwnSession(t *testing.T) {
	m, s := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {})
	s.Set("alice-token", &domain.User{ID: "1", Username: "alice"})
	hooks := 0
	m.OnLogout(func() { hooks++ })

	res := m.Logout(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, domain.AuthRequiredMessage, res.Error)

	res = m.Logout(WithToken(context.Background(), "mallory-token"))
	assert.True(t, res.Success)
	assert.Equal(t, "alice-token", s.Token())
	assert.Zero(t, hooks)

	res = m.Logout(WithToken(context.Background(), "alice-token"))
	assert.True(t, res.Success)
	assert.Empty(t, s.Token())
	assert.Equal(t, 1, hooks)
}

func TestServiceAccount(t *testing.T) {
	var logins int32
	m, s := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case gateway.PathLogin:
			atomic.AddInt32(&logins, 1)
			_, _ = w.Write([]byte(`{"token":"svc-token"}`))
		case gateway.PathMe:
			_, _ = w.Write([]byte(`{"id":1,"username":"sync"}`))
		}
	})
	ctx := context.Background()

	unconfigured := NewServiceAccount(m, "sync", "")
	assert.Error(t, unconfigured.Authenticate(ctx))
	assert.Equal(t, int32(0), atomic.LoadInt32(&logins))

	acct := NewServiceAccount(m, "sync", "pw")
	assert.False(t, acct.Ready(ctx))
	require.NoError(t, acct.Authenticate(ctx))
	assert.True(t, acct.Ready(ctx))
	assert.Equal(t, "svc-token", s.Token())
}
