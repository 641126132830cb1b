package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/session"
	"go.uber.org/zap"
)

// CredentialVerifier confirms a request credential with the Gateway
type CredentialVerifier interface {
	CurrentUser(ctx context.Context) domain.Result[domain.User]
}

// RequireCredential guards routes that serve store contents without making a
// Gateway call of their own. The request must carry a credential and the
// Gateway must accept it.
func RequireCredential(verifier CredentialVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.TokenFromContext(r.Context()); !ok {
				writeProblem(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, domain.AuthRequiredMessage)
				return
			}

			res := verifier.CurrentUser(r.Context())
			switch {
			case res.Canceled:
				return
			case res.Success:
				next.ServeHTTP(w, r)
			case credentialRejected(res.Err()):
				writeProblem(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, res.Error)
			default:
				logger.Warn("credential check failed",
					zap.String("path", r.URL.Path),
					zap.Error(res.Err()))
				writeProblem(w, http.StatusBadGateway, domain.ErrorTypeBadGateway, res.Error)
			}
		})
	}
}

func credentialRejected(err error) bool {
	if errors.Is(err, domain.ErrAuthRequired) {
		return true
	}
	var gwErr *domain.GatewayError
	return errors.As(err, &gwErr) &&
		(gwErr.Status == http.StatusUnauthorized || gwErr.Status == http.StatusForbidden)
}

func writeProblem(w http.ResponseWriter, status int, errType, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   errType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
