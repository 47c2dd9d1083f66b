package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cafedesk/internal/shared/connection"
	"cafedesk/internal/sync"

	"go.uber.org/zap"
)

// RunConsumer runs the mirror change listener: remote change notifications
// from the broker are applied to the local store as they arrive, so this
// instance converges without waiting for the next periodic pull. Blocks
// until SIGINT or SIGTERM.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	registry := buildSyncRegistry(gormDB)
	listener := sync.NewListener(kafkaBroker, "cafedesk-mirror-sync", registry, logger)
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.Error("mirror change listener exited", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
