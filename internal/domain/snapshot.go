package domain

import "time"

// StoreSnapshot is the last successfully loaded list of one store, kept so
// views can render something before the first Gateway round-trip completes
type StoreSnapshot struct {
	Entity    string    `gorm:"column:entity;primaryKey"`
	Key       string    `gorm:"column:snapshot_key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName overrides the table name
func (StoreSnapshot) TableName() string {
	return "store_snapshots"
}
