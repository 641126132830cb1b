package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/straye-as/relation-sync/internal/domain"
	"go.uber.org/zap"
)

// RefreshJobName is the name of the store refresh job
const RefreshJobName = "store_refresh"

// DefaultRefreshTimeout bounds one run when no timeout is configured
const DefaultRefreshTimeout = 60 * time.Second

// Reloader re-runs the last list query of one store
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader
type ReloaderFunc func(ctx context.Context) error

func (f ReloaderFunc) Reload(ctx context.Context) error {
	return f(ctx)
}

// Authenticator ensures the session holds a credential before a run
type Authenticator interface {
	// Ready reports whether a credential is resolvable
	Ready(ctx context.Context) bool
	// Authenticate obtains a credential, typically via a service account
	Authenticate(ctx context.Context) error
}

// RefreshJob reloads every registered store from the Gateway so lists
// stay fresh while no view is actively loading them.
type RefreshJob struct {
	auth      Authenticator
	reloaders []namedReloader
	logger    *zap.Logger
	timeout   time.Duration
}

type namedReloader struct {
	name string
	r    Reloader
}

// RunSummary reports the outcome of one refresh run
type RunSummary struct {
	Refreshed []string
	Failed    map[string]error
	Skipped   bool
}

// NewRefreshJob creates a refresh job. auth may be nil when the session is
// managed elsewhere.
func NewRefreshJob(auth Authenticator, logger *zap.Logger, timeout time.Duration) *RefreshJob {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &RefreshJob{auth: auth, logger: logger, timeout: timeout}
}

// Register adds a store to the refresh run. Stores reload in registration order.
func (j *RefreshJob) Register(name string, r Reloader) *RefreshJob {
	j.reloaders = append(j.reloaders, namedReloader{name: name, r: r})
	return j
}

// Run executes one refresh. This is called by the scheduler.
func (j *RefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce reloads each registered store. A failing store does not stop the others.
func (j *RefreshJob) RunOnce(ctx context.Context) RunSummary {
	start := time.Now()
	summary := RunSummary{Failed: make(map[string]error)}

	if j.auth != nil && !j.auth.Ready(ctx) {
		if err := j.auth.Authenticate(ctx); err != nil {
			j.logger.Warn("skipping store refresh, no credential available", zap.Error(err))
			summary.Skipped = true
			return summary
		}
	}

	for _, nr := range j.reloaders {
		if err := nr.r.Reload(ctx); err != nil {
			summary.Failed[nr.name] = err
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				j.logger.Warn("store refresh interrupted", zap.String("store", nr.name), zap.Error(err))
				break
			}
			j.logger.Warn("store refresh failed", zap.String("store", nr.name), zap.Error(err))
			continue
		}
		summary.Refreshed = append(summary.Refreshed, nr.name)
	}

	j.logger.Info("store refresh completed",
		zap.Strings("refreshed", summary.Refreshed),
		zap.Int("failed", len(summary.Failed)),
		zap.Duration("duration", time.Since(start)))

	return summary
}

// ResultError turns a sync result into a plain error for reloaders
func ResultError[T any](res domain.Result[T]) error {
	if res.Success {
		return nil
	}
	if res.Canceled {
		return context.Canceled
	}
	return res.Err()
}
