package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/straye-as/relation-sync/internal/config"
	"go.uber.org/zap"
)

// CORS returns the cross-origin middleware. The session cookie is only sent
// cross-origin when AllowCredentials is set, so origins are always echoed back
// explicitly rather than answered with "*".
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch policy := corsPolicy(cfg.AllowedOrigins, environment); policy {
	case corsAllowAny:
		if !isLocalEnvironment(environment) {
			logger.Warn("CORS allows any origin outside development",
				zap.String("environment", environment))
		} else {
			logger.Info("CORS allows any origin", zap.String("environment", environment))
		}
		options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
			return origin != ""
		}
	case corsExplicit:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS restricted to configured origins",
			zap.Strings("origins", cfg.AllowedOrigins))
	default:
		// an empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests are rejected",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

type originPolicy int

const (
	corsDenyAll originPolicy = iota
	corsAllowAny
	corsExplicit
)

func corsPolicy(origins []string, environment string) originPolicy {
	switch {
	case slices.Contains(origins, "*"):
		return corsAllowAny
	case len(origins) > 0:
		return corsExplicit
	case isLocalEnvironment(environment):
		return corsAllowAny
	default:
		return corsDenyAll
	}
}

func isLocalEnvironment(environment string) bool {
	return environment == "" || environment == "development" || environment == "local"
}
