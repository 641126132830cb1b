package handler

import (
	"net/http"
	"time"

	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/session"
	"go.uber.org/zap"
)

type SessionHandler struct {
	manager *session.Manager
	cfg     *config.SessionConfig
	secure  bool
	logger  *zap.Logger
}

// NewSessionHandler creates the session handler. secure marks the credential
// cookie Secure, which production deployments require.
func NewSessionHandler(manager *session.Manager, cfg *config.SessionConfig, secure bool, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, cfg: cfg, secure: secure, logger: logger}
}

// Login godoc
// @Summary Sign in
// @Description Exchanges credentials for a bearer token and stores it in an HttpOnly cookie
// @Tags Session
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.Result[session.Login]
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /session [post]
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	res := h.manager.Login(r.Context(), req.Username, req.Password)
	if res.Success {
		http.SetCookie(w, h.cookie(res.Data.Token, 0))
	}
	respondResult(w, r, h.logger, http.StatusOK, res)
}

// Logout godoc
// @Summary Sign out
// @Description Clears the cookie. The shared session and stores are only reset when the caller owns them.
// @Tags Session
// @Success 204
// @Failure 401 {object} domain.APIError
// @Router /session [delete]
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	res := h.manager.Logout(r.Context())
	if res.Success {
		http.SetCookie(w, h.cookie("", -1))
	}
	respondResult(w, r, h.logger, http.StatusNoContent, res)
}

// Me godoc
// @Summary Current user
// @Tags Session
// @Produce json
// @Success 200 {object} domain.Result[domain.User]
// @Failure 401 {object} domain.APIError
// @Router /session/me [get]
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.logger, http.StatusOK, h.manager.CurrentUser(r.Context()))
}

func (h *SessionHandler) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    value,
		Path:     h.cfg.CookiePath,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
