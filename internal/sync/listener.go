package sync

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"cafedesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Listener consumes remote change notifications and applies them to the
// local store through the registered bindings. It complements the periodic
// pull: the pull guarantees convergence, the listener narrows the window.
type Listener struct {
	reader   *kafkago.Reader
	registry *Registry
	logger   *zap.Logger
}

func NewListener(broker, groupID string, registry *Registry, logger ...*zap.Logger) *Listener {
	l := zap.L().Named("sync.listener")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sync.listener")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    events.MirrorChangesTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Listener{reader: reader, registry: registry, logger: l}
}

// Run blocks until ctx is cancelled. Malformed or unbound messages are
// committed and skipped; apply failures are also committed because the
// periodic pull will re-deliver the same state.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Info("mirror change listener started", zap.String("topic", events.MirrorChangesTopic))

	for {
		msg, err := l.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				l.logger.Info("mirror change listener stopped")
				return nil
			}
			l.logger.Error("fetch message failed", zap.Error(err))
			continue
		}

		l.handleMessage(ctx, msg)

		if err := l.reader.CommitMessages(ctx, msg); err != nil {
			l.logger.Error("commit message failed", zap.Error(err))
		}
	}
}

func (l *Listener) handleMessage(ctx context.Context, msg kafkago.Message) {
	var event events.MirrorChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		l.logger.Warn("malformed change event skipped",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	if event.ChangeType != events.ChangeAdded && event.ChangeType != events.ChangeModified {
		l.logger.Debug("ignoring change type",
			zap.String("collection", event.Collection),
			zap.String("change_type", event.ChangeType),
		)
		return
	}

	binding, ok := l.registry.Get(event.Collection)
	if !ok {
		l.logger.Warn("change event for unbound collection skipped",
			zap.String("collection", event.Collection),
		)
		return
	}

	doc := Document{Key: event.Key, Data: event.Data, Revision: event.Revision}
	if err := binding.Apply(ctx, doc); err != nil {
		l.logger.Error("apply change event failed",
			zap.String("collection", event.Collection),
			zap.String("key", event.Key),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("change event applied",
		zap.String("collection", event.Collection),
		zap.String("key", event.Key),
		zap.String("change_type", event.ChangeType),
	)
}

func (l *Listener) Close() error {
	return l.reader.Close()
}
