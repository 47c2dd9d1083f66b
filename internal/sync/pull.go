package sync

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pullLockKey = "cafedesk:sync:pull"
	pullLockTTL = 5 * time.Minute
)

// ErrPullInFlight reports that another pull already holds the lock; the
// request is a no-op, not queued.
var ErrPullInFlight = errors.New("a pull is already in flight")

type PullSummary struct {
	Collections map[string]int64 `json:"collections"`
	Errors      int              `json:"errors"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
}

type Puller struct {
	db       *gorm.DB
	registry *Registry
	mirror   MirrorClient
	locker   *redislock.Client
	logger   *zap.Logger
}

func NewPuller(
	db *gorm.DB,
	registry *Registry,
	mirror MirrorClient,
	locker *redislock.Client,
	logger ...*zap.Logger,
) *Puller {
	l := zap.L().Named("sync.pull")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sync.pull")
	}
	return &Puller{db: db, registry: registry, mirror: mirror, locker: locker, logger: l}
}

// Pull mirrors every bound collection from the remote store into the local
// one: present records are shallow-merge updated, absent ones added, and
// nothing is ever deleted. Only one pull runs at a time; the lock TTL bounds
// how long a stuck run can block the next attempt. Per-collection failures
// are logged and swallowed so one bad collection cannot abort the rest.
func (p *Puller) Pull(ctx context.Context) (PullSummary, error) {
	lock, err := p.locker.Obtain(ctx, pullLockKey, pullLockTTL, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			p.logger.Info("pull skipped, another pull in flight")
			return PullSummary{}, ErrPullInFlight
		}
		return PullSummary{}, err
	}
	defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()

	summary := PullSummary{
		Collections: make(map[string]int64),
		StartedAt:   time.Now().UTC(),
	}

	for _, binding := range p.registry.All() {
		count, err := p.pullCollection(ctx, binding)
		summary.Collections[binding.Collection] = count
		if err != nil {
			summary.Errors++
			p.logger.Error("pull collection failed",
				zap.String("collection", binding.Collection),
				zap.Int64("applied", count),
				zap.Error(err),
			)
			continue
		}

		now := time.Now().UTC()
		if err := markPulled(ctx, p.db, binding.Collection, count, now); err != nil {
			p.logger.Warn("update pull metadata failed",
				zap.String("collection", binding.Collection),
				zap.Error(err),
			)
		}

		p.logger.Info("collection pulled",
			zap.String("collection", binding.Collection),
			zap.Int64("applied", count),
		)
	}

	summary.FinishedAt = time.Now().UTC()
	return summary, nil
}

func (p *Puller) pullCollection(ctx context.Context, binding Binding) (int64, error) {
	var applied int64
	err := p.mirror.FetchAll(ctx, binding.Collection, func(doc Document) error {
		if doc.Key == "" {
			p.logger.Warn("remote document missing key, skipped",
				zap.String("collection", binding.Collection),
			)
			return nil
		}
		if err := binding.Apply(ctx, doc); err != nil {
			p.logger.Warn("apply remote document failed, skipped",
				zap.String("collection", binding.Collection),
				zap.String("key", doc.Key),
				zap.Error(err),
			)
			return nil
		}
		applied++
		return nil
	})
	return applied, err
}
