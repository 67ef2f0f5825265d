// Package review validates and stores user reviews.
package review

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
)

// Validator applies the review rule groups. Each rejection is a *domain.ConflictError
// whose Rule names the group that fired.
type Validator struct {
	reviews domain.ReviewRepository
	policy  ContentPolicy
	log     logger.Logger
}

// NewValidator builds a Validator. A nil policy means DefaultPolicy.
func NewValidator(reviews domain.ReviewRepository, policy ContentPolicy, log logger.Logger) *Validator {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Validator{reviews: reviews, policy: policy, log: log}
}

// Validate runs every group in order: permission, uniqueness, quality, abuse, consistency.
// existing is the stored review on update and nil on create.
func (v *Validator) Validate(ctx context.Context, r *domain.Review, actor *domain.User, existing *domain.Review) error {
	if err := v.ValidatePermissions(r, actor, existing); err != nil {
		return err
	}
	if err := v.ValidateUniqueness(ctx, r); err != nil {
		return err
	}
	if err := checkQuality(r); err != nil {
		return err
	}
	if err := v.policy.Check(r.Title, r.Content); err != nil {
		return err
	}
	return v.ValidateConsistency(r)
}

// ValidateUniqueness rejects a second review by the same user for the same game.
// A review with an ID is an update and does not collide with itself.
func (v *Validator) ValidateUniqueness(ctx context.Context, r *domain.Review) error {
	existing, err := v.reviews.FindByUserAndGame(ctx, r.UserID, r.GameID)
	if err != nil {
		return fmt.Errorf("lookup reviews: %w", err)
	}
	for _, e := range existing {
		if r.ID == "" || e.ID != r.ID {
			return domain.Conflict(domain.RuleUniqueness, "User has already reviewed this game")
		}
	}
	return nil
}

// ValidatePermissions checks the acting user may write r.
// Admins may edit reviews they do not own.
func (v *Validator) ValidatePermissions(r *domain.Review, actor *domain.User, existing *domain.Review) error {
	switch {
	case actor == nil:
		return domain.ErrUnauthorized
	case !actor.IsActive:
		return domain.Conflict(domain.RulePermission, "Inactive users cannot create or update reviews")
	case !actor.EmailVerified:
		return domain.Conflict(domain.RulePermission, "Email verification required to create reviews")
	}

	if existing == nil {
		if r.UserID != actor.ID {
			return domain.Conflict(domain.RulePermission, "User ID mismatch in review")
		}
		return nil
	}
	if existing.UserID != actor.ID && !actor.IsAdmin {
		return domain.Conflict(domain.RulePermission, "Users can only edit their own reviews")
	}
	return nil
}

// ValidateConsistency checks ratings, play experience, pros and cons, tags and
// recommended player counts agree with each other.
func (v *Validator) ValidateConsistency(r *domain.Review) error {
	checks := []func(*domain.Review) error{
		checkRatings,
		checkPlayExperience,
		checkProsCons,
		checkTags,
		checkRecommendedPlayers,
	}
	for _, check := range checks {
		if err := check(r); err != nil {
			return err
		}
	}

	if n := r.PlayerCountPlayed; n != nil && len(r.RecommendedPlayers) > 0 && !slices.Contains(r.RecommendedPlayers, strconv.Itoa(*n)) {
		v.log.Warn("player count played not among recommended players",
			logger.String("review_id", r.ID),
			logger.Int("played", *n),
			logger.Strings("recommended", r.RecommendedPlayers),
		)
	}
	return nil
}
