package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// GetPayload returns a cached remote payload. A miss is (nil, false, nil).
func (s *Store) GetPayload(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, payloadKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached payload: %w", err)
	}
	return data, true, nil
}

// SetPayload caches a remote payload for the store's payload TTL.
func (s *Store) SetPayload(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, payloadKey(key), payload, s.payloadTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache payload: %w", err)
	}
	return nil
}
