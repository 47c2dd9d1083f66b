package sync

import (
	"context"
	"fmt"
	"time"

	"cafedesk/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrator pushes a full local snapshot of a collection to the mirror in
// batches that respect the remote per-commit ceiling.
type Migrator struct {
	db       *gorm.DB
	registry *Registry
	mirror   MirrorClient
	logger   *zap.Logger
}

func NewMigrator(db *gorm.DB, registry *Registry, mirror MirrorClient, logger ...*zap.Logger) *Migrator {
	l := zap.L().Named("sync.migration")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sync.migration")
	}
	return &Migrator{db: db, registry: registry, mirror: mirror, logger: l}
}

// MigrateCollection exports every local record of the collection and bulk
// writes them upward. Batch failures abort the run and surface to the caller;
// the partial progress is recorded in migration_logs either way.
func (m *Migrator) MigrateCollection(ctx context.Context, collection string) (*MigrationLog, error) {
	binding, ok := m.registry.Get(collection)
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}
	if binding.ExportAll == nil {
		return nil, fmt.Errorf("collection %s does not support bulk migration", collection)
	}

	startedAt := time.Now().UTC()

	docs, err := binding.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", collection, err)
	}

	logEntry := &MigrationLog{
		ID:         uuid.NewString(),
		Collection: collection,
		Total:      len(docs),
		StartedAt:  startedAt,
	}

	var pushErr error
	for start := 0; start < len(docs); start += MaxBatchOps {
		end := start + MaxBatchOps
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		if err := m.mirror.BulkWrite(ctx, collection, batch); err != nil {
			logEntry.Failed = len(docs) - logEntry.Pushed
			pushErr = fmt.Errorf("bulk write %s [%d:%d]: %w", collection, start, end, err)
			break
		}
		logEntry.Pushed += len(batch)

		m.logger.Info("migration batch pushed",
			zap.String("collection", collection),
			zap.Int("batch_size", len(batch)),
			zap.Int("pushed", logEntry.Pushed),
			zap.Int("total", logEntry.Total),
		)
	}

	logEntry.FinishedAt = time.Now().UTC()
	logEntry.DurationMs = logEntry.FinishedAt.Sub(startedAt).Milliseconds()

	if err := store.Add(ctx, m.db, logEntry); err != nil {
		m.logger.Warn("record migration log failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
	}

	if pushErr != nil {
		m.logger.Error("migration failed",
			zap.String("collection", collection),
			zap.Int("pushed", logEntry.Pushed),
			zap.Int("failed", logEntry.Failed),
			zap.Error(pushErr),
		)
		return logEntry, pushErr
	}

	if err := markPushed(ctx, m.db, collection, logEntry.FinishedAt); err != nil {
		m.logger.Warn("update push metadata failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
	}

	m.logger.Info("migration finished",
		zap.String("collection", collection),
		zap.Int("total", logEntry.Total),
		zap.Int64("duration_ms", logEntry.DurationMs),
	)
	return logEntry, nil
}
