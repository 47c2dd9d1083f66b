package sync

import (
	"context"
	"encoding/json"
	"time"

	"cafedesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProcessOutbox drains pending push items on a fixed poll interval until ctx
// is cancelled. Each item is written to the mirror with merge semantics;
// failures stay in the outbox with a retry backoff instead of being dropped.
// When a Kafka writer is given, every successful push is also announced on
// the mirror-changes topic so listening instances converge without waiting
// for the next pull.
func ProcessOutbox(
	ctx context.Context,
	gormDB *gorm.DB,
	repo OutboxRepository,
	mirror MirrorClient,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("sync.push")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("push worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("push worker stopped")
			return
		case <-ticker.C:
			if err := drainPending(ctx, gormDB, repo, mirror, writer, log); err != nil {
				log.Error("drain outbox failed", zap.Error(err))
			}
		}
	}
}

func drainPending(
	ctx context.Context,
	gormDB *gorm.DB,
	repo OutboxRepository,
	mirror MirrorClient,
	writer *kafkago.Writer,
	logger *zap.Logger,
) error {
	items, err := repo.ListPending(ctx, 50)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	logger.Info("processing pending sync items", zap.Int("count", len(items)))

	pushed := make(map[string]time.Time)

	for _, item := range items {
		// A snapshot with a newer one still queued behind it is retired
		// without a push: per-record ordering holds even when this item is
		// a backed-off retry and the newer snapshot already went out.
		newer, err := repo.HasNewerSnapshot(ctx, item)
		if err != nil {
			logger.Error("check newer snapshot failed",
				zap.String("outbox_id", item.ID),
				zap.Error(err),
			)
			continue
		}
		if newer {
			if err := repo.MarkSuperseded(ctx, item.ID); err != nil {
				logger.Error("mark sync item superseded failed",
					zap.String("outbox_id", item.ID),
					zap.Error(err),
				)
			}
			continue
		}

		if err := mirror.Merge(ctx, item.Collection, item.RecordKey, item.Payload); err != nil {
			logger.Error("push to mirror failed",
				zap.String("outbox_id", item.ID),
				zap.String("collection", item.Collection),
				zap.String("record_key", item.RecordKey),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, item.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, item.ID); err != nil {
			logger.Error("mark sync item sent failed",
				zap.String("outbox_id", item.ID),
				zap.Error(err),
			)
			continue
		}

		pushed[item.Collection] = time.Now().UTC()

		announceChange(ctx, writer, item, logger)

		logger.Info("sync item pushed",
			zap.String("outbox_id", item.ID),
			zap.String("collection", item.Collection),
			zap.String("record_key", item.RecordKey),
		)
	}

	for collection, at := range pushed {
		if err := markPushed(ctx, gormDB, collection, at); err != nil {
			logger.Warn("update push metadata failed",
				zap.String("collection", collection),
				zap.Error(err),
			)
		}
	}

	return nil
}

// announceChange is best effort: the pull loop covers anyone who misses it.
func announceChange(ctx context.Context, writer *kafkago.Writer, item OutboxItem, logger *zap.Logger) {
	if writer == nil {
		return
	}

	event := events.MirrorChangeEvent{
		Collection: item.Collection,
		ChangeType: events.ChangeModified,
		Key:        item.RecordKey,
		Data:       item.Payload,
		OccurredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := writer.WriteMessages(ctx, kafkago.Message{
		Topic: events.MirrorChangesTopic,
		Key:   []byte(item.Collection + ":" + item.RecordKey),
		Value: value,
	}); err != nil {
		logger.Warn("announce change failed",
			zap.String("collection", item.Collection),
			zap.String("record_key", item.RecordKey),
			zap.Error(err),
		)
	}
}
