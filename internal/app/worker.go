package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafedesk/internal/shared/connection"
	"cafedesk/internal/sync"

	"github.com/bsm/redislock"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunWorker runs the background sync loops: the outbox drain that pushes
// local writes to the mirror, and the periodic pull that folds remote state
// back in. Blocks until SIGINT or SIGTERM.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	mirror, err := sync.NewMirrorClient()
	if err != nil {
		return err
	}

	// The change announcements are optional; without a broker the pull loop
	// alone keeps instances converged.
	var kafkaWriter *kafkago.Writer
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		kafkaWriter, err = connection.ConnectKafkaWithRetry(broker, 5)
		if err != nil {
			return err
		}
		defer kafkaWriter.Close()
	} else {
		logger.Warn("KAFKA_BROKER not set, change announcements disabled")
	}

	outboxRepo := sync.NewOutboxRepository(sqlDB)
	registry := buildSyncRegistry(gormDB)
	puller := sync.NewPuller(gormDB, registry, mirror, redislock.New(rdb))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sync.ProcessOutbox(
		ctx,
		gormDB,
		outboxRepo,
		mirror,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runPullLoop(ctx, puller, pullInterval(), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func runPullLoop(ctx context.Context, puller *sync.Puller, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("pull loop started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("pull loop stopped")
			return
		case <-ticker.C:
			summary, err := puller.Pull(ctx)
			if err != nil {
				if errors.Is(err, sync.ErrPullInFlight) {
					continue
				}
				logger.Error("periodic pull failed", zap.Error(err))
				continue
			}
			logger.Info("periodic pull finished",
				zap.Any("collections", summary.Collections),
				zap.Int("errors", summary.Errors),
			)
		}
	}
}

func pullInterval() time.Duration {
	if raw := os.Getenv("SYNC_PULL_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		zap.L().Warn("invalid SYNC_PULL_INTERVAL, using default", zap.String("value", raw))
	}
	return 5 * time.Minute
}
