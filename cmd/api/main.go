package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/controller"
	"github.com/straye-as/relation-sync/internal/database"
	"github.com/straye-as/relation-sync/internal/gateway"
	"github.com/straye-as/relation-sync/internal/http/handler"
	"github.com/straye-as/relation-sync/internal/http/middleware"
	"github.com/straye-as/relation-sync/internal/http/router"
	"github.com/straye-as/relation-sync/internal/jobs"
	"github.com/straye-as/relation-sync/internal/logger"
	"github.com/straye-as/relation-sync/internal/repository"
	"github.com/straye-as/relation-sync/internal/service"
	"github.com/straye-as/relation-sync/internal/session"
	"github.com/straye-as/relation-sync/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
		zap.String("gateway", basicCfg.Gateway.BaseURL),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Snapshot database is optional; without it there is no warm start
	db, snapshots := openSnapshots(cfg, log)

	// Gateway and session
	gw := gateway.NewClient(&cfg.Gateway, log)
	sess := session.New()
	sessionManager := session.NewManager(gw, sess, log)

	// Synchronization Layer
	clientService := service.NewClientService(gw, sess, log)
	taskService := service.NewTaskService(gw, sess, log)
	calendarService := service.NewCalendarService(gw, taskService, sess, cfg.Gateway.CalendarTaskPageSize, log)

	// Entity Stores
	clientStore := store.NewClientStore()
	taskStore := store.NewTaskStore()
	calendarStore := store.NewCalendarStore(time.Now())

	// Controllers
	clientController := controller.NewClientController(clientService, clientStore, snapshots, log)
	taskController := controller.NewTaskController(taskService, taskStore, snapshots, log)
	calendarController := controller.NewCalendarController(calendarService, calendarStore, snapshots, log)

	warmed := map[string]bool{
		controller.SnapshotClients:  clientController.Warm(ctx),
		controller.SnapshotTasks:    taskController.Warm(ctx),
		controller.SnapshotCalendar: calendarController.Warm(ctx),
	}
	log.Info("Stores initialized", zap.Any("warm_start", warmed))

	scopes := controller.NewScopes()

	// Logging out forgets everything the previous session loaded
	sessionManager.OnLogout(func() {
		controller.ForgetAll(scopes, clientStore, taskStore, calendarStore)
		if repo, ok := snapshots.(*repository.SnapshotRepository); ok {
			if err := repo.Clear(context.Background()); err != nil {
				log.Warn("failed to clear snapshots on logout", zap.Error(err))
			}
		}
	})

	// Background refresh
	var scheduler *jobs.Scheduler
	if cfg.Refresh.Enabled {
		scheduler = jobs.NewScheduler(log)
		refreshJob := newRefreshJob(cfg, sessionManager, scopes, log,
			clientController, taskController, calendarController)
		if err := scheduler.AddJob(jobs.RefreshJobName, cfg.Refresh.Cron, refreshJob.Run); err != nil {
			log.Error("Failed to register refresh job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with store refresh job",
				zap.String("cron_expr", cfg.Refresh.Cron),
				zap.Duration("timeout", cfg.Refresh.TimeoutDuration()),
				zap.Bool("service_account", cfg.ServiceAccount.Configured()),
			)
		}
	} else {
		log.Info("Store refresh disabled")
	}

	// Handlers
	handlers := router.Handlers{
		Session:   handler.NewSessionHandler(sessionManager, &cfg.Session, cfg.App.IsProduction(), log),
		Clients:   handler.NewClientHandler(clientController, log),
		Tasks:     handler.NewTaskHandler(taskController, log),
		Calendar:  handler.NewCalendarHandler(calendarController, log),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(clientStore, taskStore, calendarStore), log),
		State:     handler.NewStateHandler(clientStore, taskStore, calendarStore),
	}

	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	rt := router.NewRouter(cfg, log, db, rateLimiter, sessionManager, handlers)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Cancel in-flight refreshes, then wait for the scheduler
		scopes.CloseAll()
		if scheduler != nil {
			stopCtx := scheduler.Stop()
			<-stopCtx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// openSnapshots connects the snapshot database and applies migrations. Any
// failure disables snapshots rather than stopping the service.
func openSnapshots(cfg *config.Config, log *zap.Logger) (*gorm.DB, controller.SnapshotStore) {
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		log.Warn("Snapshot database unavailable, continuing without warm start", zap.Error(err))
		return nil, nil
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.Driver); err != nil {
			log.Warn("Snapshot migrations failed, continuing without warm start", zap.Error(err))
			return nil, nil
		}
	}
	log.Info("Snapshot database ready", zap.String("driver", cfg.Database.Driver))
	return db, repository.NewSnapshotRepository(db)
}

func newRefreshJob(
	cfg *config.Config,
	sessionManager *session.Manager,
	scopes *controller.Scopes,
	log *zap.Logger,
	clients *controller.ClientController,
	tasks *controller.TaskController,
	cal *controller.CalendarController,
) *jobs.RefreshJob {
	var auth jobs.Authenticator
	if cfg.ServiceAccount.Configured() {
		auth = session.NewServiceAccount(sessionManager, cfg.ServiceAccount.Username, cfg.ServiceAccount.Password)
	}

	scoped := func(name string, reload func(context.Context) error) jobs.Reloader {
		view := "refresh:" + name
		return jobs.ReloaderFunc(func(ctx context.Context) error {
			ctx = scopes.Open(session.WithProcessCredential(ctx), view)
			defer scopes.Close(view)
			return reload(ctx)
		})
	}

	return jobs.NewRefreshJob(auth, log.Named("refresh"), cfg.Refresh.TimeoutDuration()).
		Register(controller.SnapshotClients, scoped(controller.SnapshotClients, func(ctx context.Context) error {
			return jobs.ResultError(clients.Reload(ctx))
		})).
		Register(controller.SnapshotTasks, scoped(controller.SnapshotTasks, func(ctx context.Context) error {
			return jobs.ResultError(tasks.Reload(ctx))
		})).
		Register(controller.SnapshotCalendar, scoped(controller.SnapshotCalendar, func(ctx context.Context) error {
			return jobs.ResultError(cal.Reload(ctx))
		}))
}
