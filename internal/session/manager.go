package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/gateway"
	"github.com/straye-as/relation-sync/internal/logger"
	"go.uber.org/zap"
)

const (
	msgLoginFailed = "Login failed"
	msgFetchUser   = "Failed to fetch user data"
	msgCredentials = "Username and password are required"
	msgNotSignedIn = domain.AuthRequiredMessage
)

// Login is the outcome of a successful sign-in
type Login struct {
	Token string       `json:"-"`
	User  *domain.User `json:"user"`
}

// Manager signs users in and out against the Gateway
type Manager struct {
	gw       *gateway.Client
	session  *Session
	logger   *zap.Logger
	onLogout []func()
}

// NewManager creates a session manager
func NewManager(gw *gateway.Client, session *Session, logger *zap.Logger) *Manager {
	return &Manager{gw: gw, session: session, logger: logger}
}

// Session returns the managed session
func (m *Manager) Session() *Session {
	return m.session
}

// Login exchanges credentials for a token, then loads the user it belongs to.
// The session is only updated when both steps succeed.
func (m *Manager) Login(ctx context.Context, username, password string) domain.Result[Login] {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Fail[Login](ctx, &domain.ValidationError{Fields: missingCredentials(username, password)}, msgCredentials)
	}

	raw, err := m.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   gateway.PathLogin,
		Body:   domain.LoginRequest{Username: username, Password: password},
	})
	if err != nil {
		m.logger.Warn("login rejected", zap.String("username", username), zap.Error(err))
		return domain.Fail[Login](ctx, err, msgLoginFailed)
	}
	resp, err := gateway.DecodeOne[domain.LoginResponse](raw)
	if err == nil && resp.Token == "" {
		err = &domain.GatewayError{Status: http.StatusOK, Err: errors.New("login response has no token")}
	}
	if err != nil {
		return domain.Fail[Login](ctx, err, msgLoginFailed)
	}

	user, err := m.fetchUser(ctx, resp.Token)
	if err != nil {
		return domain.Fail[Login](ctx, err, msgFetchUser)
	}

	m.session.Set(resp.Token, &user)
	logger.WithUser(m.logger, user.ID, user.Username).Info("signed in")
	return domain.Ok(Login{Token: resp.Token, User: &user})
}

// OnLogout registers fn to run after the session is cleared
func (m *Manager) OnLogout(fn func()) {
	m.onLogout = append(m.onLogout, fn)
}

// Logout ends the caller's session. The process-wide credential is cleared,
// and the logout hooks run, only when the caller presents that credential.
func (m *Manager) Logout(ctx context.Context) domain.Result[domain.Empty] {
	token, ok := TokenFromContext(ctx)
	if !ok && usesProcessCredential(ctx) {
		token = m.session.Token()
		ok = token != ""
	}
	if !ok {
		return domain.Fail[domain.Empty](ctx, domain.ErrAuthRequired, msgNotSignedIn)
	}
	if !m.session.ClearIf(token) {
		return domain.Ok(domain.Empty{})
	}
	for _, fn := range m.onLogout {
		fn()
	}
	m.logger.Info("signed out")
	return domain.Ok(domain.Empty{})
}

// CurrentUser returns the user for the resolvable credential
func (m *Manager) CurrentUser(ctx context.Context) domain.Result[domain.User] {
	token, ok := m.session.Resolve(ctx)
	if !ok {
		return domain.Fail[domain.User](ctx, domain.ErrAuthRequired, msgNotSignedIn)
	}
	if _, scoped := TokenFromContext(ctx); !scoped {
		if u := m.session.User(); u != nil {
			return domain.Ok(*u)
		}
	}
	user, err := m.fetchUser(ctx, token)
	if err != nil {
		return domain.Fail[domain.User](ctx, err, msgFetchUser)
	}
	return domain.Ok(user)
}

func (m *Manager) fetchUser(ctx context.Context, token string) (domain.User, error) {
	raw, err := m.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: gateway.PathMe, Token: token})
	if err != nil {
		return domain.User{}, err
	}
	return gateway.DecodeOne[domain.User](raw)
}

func missingCredentials(username, password string) map[string]string {
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "Username is required"
	}
	if password == "" {
		fields["password"] = "Password is required"
	}
	return fields
}
