package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
)

const decisionAccepted = "accepted"

// Service accepts review submissions and edits. A review reaches the repository
// only after it passed construction and every rule group.
type Service struct {
	reviews   domain.ReviewRepository
	users     domain.UserRepository
	games     domain.GameRepository
	validator *Validator
	log       logger.Logger
}

func NewService(reviews domain.ReviewRepository, users domain.UserRepository, games domain.GameRepository, validator *Validator, log logger.Logger) *Service {
	return &Service{
		reviews:   reviews,
		users:     users,
		games:     games,
		validator: validator,
		log:       log,
	}
}

// Submit creates a review written by actorID. An empty UserID in the input defaults to the actor.
func (s *Service) Submit(ctx context.Context, actorID string, in domain.Review) (*domain.Review, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if in.UserID == "" {
		in.UserID = actor.ID
	}
	in.ID = ""

	if _, err := s.games.FindByID(ctx, in.GameID); err != nil {
		return nil, err
	}

	r, err := domain.NewReview(in)
	if err != nil {
		return nil, err
	}
	if err := s.decide(ctx, r, actor, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	if err := s.reviews.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	s.log.Info("review submitted",
		logger.String("review_id", r.ID),
		logger.String("user_id", r.UserID),
		logger.Int64("game_id", r.GameID),
		logger.Float64("quality", r.QualityScore()),
	)
	return r, nil
}

// Update applies p to review reviewID on behalf of actorID and re-validates the merged review.
func (s *Service) Update(ctx context.Context, actorID, reviewID string, p domain.ReviewPatch) (*domain.Review, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	merged, err := existing.Update(p)
	if err != nil {
		return nil, err
	}
	if err := s.decide(ctx, merged, actor, existing); err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("review updated",
		logger.String("review_id", merged.ID),
		logger.String("actor_id", actor.ID),
	)
	return merged, nil
}

func (s *Service) actor(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, id)
	if domain.IsNotFound(err) {
		return nil, domain.ErrUnauthorized
	}
	return u, err
}

func (s *Service) decide(ctx context.Context, r *domain.Review, actor *domain.User, existing *domain.Review) error {
	err := s.validator.Validate(ctx, r, actor, existing)

	var conflict *domain.ConflictError
	switch {
	case err == nil:
		metrics.ReviewDecisions.WithLabelValues(decisionAccepted).Inc()
	case errors.As(err, &conflict):
		metrics.ReviewDecisions.WithLabelValues(conflict.Rule).Inc()
		s.log.Info("review rejected",
			logger.String("user_id", r.UserID),
			logger.Int64("game_id", r.GameID),
			logger.String("rule", conflict.Rule),
			logger.String("reason", conflict.Reason),
		)
	}
	return err
}
