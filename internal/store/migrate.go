package store

import (
	"context"
	"time"

	"cafedesk/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration is an explicit, versioned schema step. Versions run in ascending
// order exactly once; the ledger records what has been applied.
type Migration struct {
	Version int
	Name    string
	Run     func(tx *gorm.DB) error
}

type AppliedMigration struct {
	Version   int    `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(120);not null"`
	AppliedAt time.Time
}

func (AppliedMigration) TableName() string {
	return "applied_migrations"
}

// Initialize brings the schema up to date. Safe to call on every start;
// already-applied versions are skipped.
func Initialize(ctx context.Context, db *gorm.DB, migrations []Migration) error {
	logger := zap.L().Named("store.migrate")

	if err := db.WithContext(ctx).AutoMigrate(&AppliedMigration{}); err != nil {
		return apperror.Wrap(err, apperror.CodeStorageUnavailable, "The local store could not be opened", 503)
	}

	var applied []AppliedMigration
	if err := db.WithContext(ctx).Find(&applied).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeStorageUnavailable, "The local store could not be opened", 503)
	}

	done := make(map[int]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, m := range migrations {
		if done[m.Version] {
			continue
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Run(tx); err != nil {
				return err
			}
			return tx.Create(&AppliedMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			logger.Error("migration failed",
				zap.Int("version", m.Version),
				zap.String("name", m.Name),
				zap.Error(err),
			)
			return apperror.Wrap(err, apperror.CodeStorageUnavailable, "Schema migration failed", 503)
		}

		logger.Info("migration applied",
			zap.Int("version", m.Version),
			zap.String("name", m.Name),
		)
	}

	return nil
}
