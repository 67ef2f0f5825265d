package redis

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

type UserRepo struct{ s *Store }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := get[domain.User](ctx, r.s, userKey(id))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound(domain.KindUser, id)
	}
	return u, nil
}

// Save stores or replaces u.
func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	_, err = r.s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(u.ID), data, 0)
		pipe.SAdd(ctx, keyAllUsers, u.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
