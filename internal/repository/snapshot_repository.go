package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/straye-as/relation-sync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository persists store snapshots as JSON rows keyed by entity and key
type SnapshotRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

// Save upserts the payload for entity/key
func (r *SnapshotRepository) Save(ctx context.Context, entity, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s/%s: %w", entity, key, err)
	}

	row := domain.StoreSnapshot{
		Entity:    entity,
		Key:       key,
		Payload:   string(data),
		UpdatedAt: r.now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity"}, {Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}

// Load decodes the stored payload into out. It reports false when no snapshot exists.
func (r *SnapshotRepository) Load(ctx context.Context, entity, key string, out any) (bool, error) {
	var row domain.StoreSnapshot
	err := r.db.WithContext(ctx).
		Where("entity = ? AND snapshot_key = ?", entity, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(row.Payload), out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %s/%s: %w", entity, key, err)
	}
	return true, nil
}

// UpdatedAt returns when entity/key was last saved
func (r *SnapshotRepository) UpdatedAt(ctx context.Context, entity, key string) (time.Time, bool, error) {
	var row domain.StoreSnapshot
	err := r.db.WithContext(ctx).
		Select("updated_at").
		Where("entity = ? AND snapshot_key = ?", entity, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return row.UpdatedAt, true, nil
}

// Clear removes every snapshot. Called on logout so the next user never warms from another session.
func (r *SnapshotRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.StoreSnapshot{}).Error
}
