package sync

import (
	"context"
	"time"

	"cafedesk/internal/shared/apperror"
	"cafedesk/internal/store"

	"errors"

	"gorm.io/gorm"
)

// SyncMetadata records per-collection bookkeeping; the id is the collection
// name.
type SyncMetadata struct {
	ID           string `gorm:"type:varchar(60);primaryKey"`
	LastPulledAt *time.Time
	LastPushedAt *time.Time
	PulledCount  int64 `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

func (SyncMetadata) TableName() string {
	return "sync_metadata"
}

// MigrationLog summarizes one bulk migration run.
type MigrationLog struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	Collection string `gorm:"type:varchar(60);not null;index"`
	Total      int    `gorm:"not null"`
	Pushed     int    `gorm:"not null"`
	Failed     int    `gorm:"not null"`
	StartedAt  time.Time
	FinishedAt time.Time
	DurationMs int64
	CreatedAt  time.Time
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

func markPulled(ctx context.Context, db *gorm.DB, collection string, count int64, at time.Time) error {
	err := store.Update[SyncMetadata](ctx, db, collection, map[string]any{
		"last_pulled_at": at,
		"pulled_count":   count,
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return store.Add(ctx, db, &SyncMetadata{
			ID:           collection,
			LastPulledAt: &at,
			PulledCount:  count,
		})
	}
	return err
}

func markPushed(ctx context.Context, db *gorm.DB, collection string, at time.Time) error {
	err := store.Update[SyncMetadata](ctx, db, collection, map[string]any{
		"last_pushed_at": at,
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return store.Add(ctx, db, &SyncMetadata{
			ID:           collection,
			LastPushedAt: &at,
		})
	}
	return err
}
