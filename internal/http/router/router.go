package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/database"
	"github.com/straye-as/relation-sync/internal/http/handler"
	"github.com/straye-as/relation-sync/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers groups the route handlers
type Handlers struct {
	Session   *handler.SessionHandler
	Clients   *handler.ClientHandler
	Tasks     *handler.TaskHandler
	Calendar  *handler.CalendarHandler
	Dashboard *handler.DashboardHandler
	State     *handler.StateHandler
}

type Router struct {
	cfg         *config.Config
	logger      *zap.Logger
	db          *gorm.DB
	rateLimiter *middleware.RateLimiter
	verifier    middleware.CredentialVerifier
	handlers    Handlers
}

// NewRouter creates the router. db may be nil when snapshots are disabled.
// verifier confirms credentials for the store-backed routes.
func NewRouter(cfg *config.Config, logger *zap.Logger, db *gorm.DB, rateLimiter *middleware.RateLimiter, verifier middleware.CredentialVerifier, handlers Handlers) *Router {
	return &Router{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		rateLimiter: rateLimiter,
		verifier:    verifier,
		handlers:    handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(middleware.Credentials(rt.cfg.Session.CookieName))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness includes the snapshot database when one is configured
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]interface{}{}
		status := http.StatusOK
		if rt.db != nil {
			if err := database.HealthCheck(r.Context(), rt.db); err != nil {
				rt.logger.Error("Database health check failed", zap.Error(err))
				checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
				status = http.StatusServiceUnavailable
			} else {
				checks["database"] = map[string]interface{}{"status": "healthy"}
			}
		}
		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		respond(w, status, map[string]interface{}{"status": overall, "checks": checks})
	})

	h := rt.handlers
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequestTimeout(rt.cfg.Server.RequestTimeoutDuration()))

		// Session
		r.Route("/session", func(r chi.Router) {
			r.Post("/", h.Session.Login)
			r.Delete("/", h.Session.Logout)
			r.Get("/me", h.Session.Me)
		})

		// Store-backed reads make no Gateway call of their own
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCredential(rt.verifier, rt.logger))
			r.Get("/dashboard", h.Dashboard.GetSummary)
			r.Get("/state/{store}", h.State.Get)
		})

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.Clients.List)
			r.Post("/", h.Clients.Create)
			r.Get("/{id}", h.Clients.GetByID)
			r.Put("/{id}", h.Clients.Update)
			r.Patch("/{id}", h.Clients.Patch)
			r.Delete("/{id}", h.Clients.Delete)
		})

		// Tasks
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.Tasks.List)
			r.Post("/", h.Tasks.Create)
			r.Get("/{id}", h.Tasks.GetByID)
			r.Put("/{id}", h.Tasks.Update)
			r.Patch("/{id}", h.Tasks.Patch)
			r.Delete("/{id}", h.Tasks.Delete)
		})

		// Calendar
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", h.Calendar.List)
			r.Post("/", h.Calendar.Create)
			r.Get("/{id}", h.Calendar.GetByID)
			r.Put("/{id}", h.Calendar.Update)
			r.Patch("/{id}", h.Calendar.Patch)
			r.Delete("/{id}", h.Calendar.Delete)
		})
	})

	return r
}
