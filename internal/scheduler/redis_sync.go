package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/index"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
)

const jobRedisSync = "redis_sync"

// Snapshotter returns the full persisted state.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]*domain.Game, []*domain.Review, []*domain.User, error)
}

// RedisSyncer loads games, reviews and users from Redis into the memory index on startup.
type RedisSyncer struct {
	store  Snapshotter
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store Snapshotter,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync replaces the index content with the Redis snapshot.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing catalog from redis to memory")

	games, reviews, users, err := rs.store.Snapshot(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues(jobRedisSync, metrics.OutcomeError).Inc()
		return err
	}

	rs.index.Replace(games, reviews, users)
	metrics.SyncRuns.WithLabelValues(jobRedisSync, metrics.OutcomeOK).Inc()
	metrics.CatalogSize.Set(float64(len(games)))

	if len(games) == 0 {
		rs.logger.Info("no games found in redis")
	}
	rs.logger.Info("synced catalog from redis",
		logger.Int("games", len(games)),
		logger.Int("reviews", len(reviews)),
		logger.Int("users", len(users)))

	return nil
}
