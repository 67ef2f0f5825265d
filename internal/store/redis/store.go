// Package redis persists games, reviews and users in Redis and caches remote payloads.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// DefaultPayloadTTL is the lifetime of a cached remote payload.
const DefaultPayloadTTL = 6 * time.Hour

// Store handles Redis operations for the catalog, reviews, users and the payload cache.
type Store struct {
	client     *redis.Client
	payloadTTL time.Duration
}

// NewStore creates a new Redis store. payloadTTL <= 0 uses DefaultPayloadTTL.
func NewStore(client *redis.Client, payloadTTL time.Duration) *Store {
	if payloadTTL <= 0 {
		payloadTTL = DefaultPayloadTTL
	}
	return &Store{client: client, payloadTTL: payloadTTL}
}

// Games returns the GameRepository backed by s.
func (s *Store) Games() *GameRepo { return &GameRepo{s: s} }

// Reviews returns the ReviewRepository backed by s.
func (s *Store) Reviews() *ReviewRepo { return &ReviewRepo{s: s} }

// Users returns the UserRepository backed by s.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Snapshot loads every game, review and user. Entries that fail to decode are skipped.
func (s *Store) Snapshot(ctx context.Context) ([]*domain.Game, []*domain.Review, []*domain.User, error) {
	games, err := s.Games().FindAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	reviews, err := s.Reviews().FindAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	users, err := loadAll[domain.User](ctx, s, keyAllUsers, userKey)
	if err != nil {
		return nil, nil, nil, err
	}
	return games, reviews, users, nil
}

// get decodes the JSON value at key into a new T. A missing key returns (nil, nil).
func get[T any](ctx context.Context, s *Store, key string) (*T, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return &v, nil
}

// loadAll reads every member of the set at setKey through MGET.
func loadAll[T any](ctx context.Context, s *Store, setKey string, keyOf func(string) string) ([]*T, error) {
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get members of %s: %w", setKey, err)
	}
	return mget[T](ctx, s, ids, keyOf)
}

func mget[T any](ctx context.Context, s *Store, ids []string, keyOf func(string) string) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyOf(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %d entries: %w", len(keys), err)
	}

	out := make([]*T, 0, len(values))
	for _, raw := range values {
		str, ok := raw.(string)
		if !ok {
			// Skip entries removed since the set was read
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}
