package redis

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// ReviewRepo stores reviews with per-game and per-user-and-game index sets.
type ReviewRepo struct{ s *Store }

var _ domain.ReviewRepository = (*ReviewRepo)(nil)

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	rv, err := get[domain.Review](ctx, r.s, reviewKey(id))
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, domain.NotFound(domain.KindReview, id)
	}
	return rv, nil
}

func (r *ReviewRepo) FindByUserAndGame(ctx context.Context, userID string, gameID int64) ([]*domain.Review, error) {
	return r.fromSet(ctx, reviewsByUserGameKey(userID, gameID))
}

func (r *ReviewRepo) FindByGame(ctx context.Context, gameID int64) ([]*domain.Review, error) {
	return r.fromSet(ctx, reviewsByGameKey(gameID))
}

func (r *ReviewRepo) FindAll(ctx context.Context) ([]*domain.Review, error) {
	return r.fromSet(ctx, keyAllReviews)
}

// Save stores a new review, assigning a UUID when ID is empty.
func (r *ReviewRepo) Save(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	data, err := json.Marshal(rv)
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}

	created, err := r.s.client.SetNX(ctx, reviewKey(rv.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	if !created {
		return domain.Conflict(domain.RuleUniqueness, "review %s already exists", rv.ID)
	}

	_, err = r.s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, keyAllReviews, rv.ID)
		pipe.SAdd(ctx, reviewsByGameKey(rv.GameID), rv.ID)
		pipe.SAdd(ctx, reviewsByUserGameKey(rv.UserID, rv.GameID), rv.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index review: %w", err)
	}
	return nil
}

// Update replaces a stored review. Owner and game never change, so the indexes stay.
func (r *ReviewRepo) Update(ctx context.Context, rv *domain.Review) error {
	data, err := json.Marshal(rv)
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}
	ok, err := r.s.client.SetXX(ctx, reviewKey(rv.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if !ok {
		return domain.NotFound(domain.KindReview, rv.ID)
	}
	return nil
}

// fromSet loads the reviews listed in a set, oldest first.
func (r *ReviewRepo) fromSet(ctx context.Context, setKey string) ([]*domain.Review, error) {
	reviews, err := loadAll[domain.Review](ctx, r.s, setKey, reviewKey)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(reviews, func(a, b *domain.Review) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return reviews, nil
}
