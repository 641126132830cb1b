package middleware

import (
	"net/http"

	"github.com/straye-as/relation-sync/internal/session"
)

// Credentials scopes the request's bearer credential onto its context. The
// HttpOnly cookie is preferred; an Authorization header is accepted for
// non-browser callers. Requests with neither fall back to the process session.
func Credentials(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(cookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				token = session.BearerToken(r.Header.Get("Authorization"))
			}
			if token != "" {
				r = r.WithContext(session.WithToken(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}
