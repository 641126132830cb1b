package controller

import (
	"context"

	"go.uber.org/zap"
)

// Snapshot entity names
const (
	SnapshotClients  = "clients"
	SnapshotTasks    = "tasks"
	SnapshotCalendar = "calendar"

	snapshotKey = "list"
)

// SnapshotStore persists the last successfully loaded lists for warm starts.
// Snapshots are never authoritative; the Gateway always wins.
type SnapshotStore interface {
	Save(ctx context.Context, entity, key string, payload any) error
	Load(ctx context.Context, entity, key string, out any) (bool, error)
}

// listSnapshot is the persisted shape of one store's list
type listSnapshot[T any, P any] struct {
	List  []T `json:"list"`
	Extra P   `json:"extra"`
}

func saveSnapshot(ctx context.Context, snaps SnapshotStore, log *zap.Logger, entity string, payload any) {
	if snaps == nil {
		return
	}
	if err := snaps.Save(context.WithoutCancel(ctx), entity, snapshotKey, payload); err != nil {
		log.Warn("failed to save snapshot", zap.String("entity", entity), zap.Error(err))
	}
}

func loadSnapshot(ctx context.Context, snaps SnapshotStore, log *zap.Logger, entity string, out any) bool {
	if snaps == nil {
		return false
	}
	found, err := snaps.Load(ctx, entity, snapshotKey, out)
	if err != nil {
		log.Warn("failed to load snapshot", zap.String("entity", entity), zap.Error(err))
		return false
	}
	return found
}
