package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
)

const jobSeed = "seed"

// Catalog registers games: remote ones by id, site-local ones as given.
type Catalog interface {
	Register(ctx context.Context, externalID int64) (domain.ReconciliationDecision, error)
	Create(ctx context.Context, g domain.Game) (*domain.Game, error)
}

// Result counts what a seeding run did.
type Result struct {
	Users    int
	Games    int // site-local games created
	Admitted int
	Existing int // entries already present, left untouched
	Flagged  int
	Rejected int
	Failed   int
}

// Seeder applies a Plan. Entries already present are skipped, so a run is safe to repeat.
type Seeder struct {
	plan    *Plan
	catalog Catalog
	games   domain.GameRepository
	users   domain.UserRepository
	logger  logger.Logger
}

func NewSeeder(plan *Plan, catalog Catalog, games domain.GameRepository, users domain.UserRepository, log logger.Logger) *Seeder {
	return &Seeder{plan: plan, catalog: catalog, games: games, users: users, logger: log}
}

// Run seeds users first, then site-local games, then remote ids one at a time.
// Only a cancelled context or a storage failure on users stops the run.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	if err := s.seedUsers(ctx, &res); err != nil {
		metrics.SyncRuns.WithLabelValues(jobSeed, metrics.OutcomeError).Inc()
		return res, err
	}
	s.seedLocalGames(ctx, &res)

	for _, id := range s.plan.ExternalIDs {
		if err := ctx.Err(); err != nil {
			metrics.SyncRuns.WithLabelValues(jobSeed, metrics.OutcomeError).Inc()
			return res, err
		}
		s.seedRemote(ctx, id, &res)
	}

	metrics.SyncRuns.WithLabelValues(jobSeed, metrics.OutcomeOK).Inc()
	s.logger.Info("seed applied",
		logger.Int("users", res.Users),
		logger.Int("games", res.Games),
		logger.Int("admitted", res.Admitted),
		logger.Int("existing", res.Existing),
		logger.Int("flagged", res.Flagged),
		logger.Int("rejected", res.Rejected),
		logger.Int("failed", res.Failed),
		logger.Duration("duration", time.Since(start)))
	return res, nil
}

func (s *Seeder) seedUsers(ctx context.Context, res *Result) error {
	for _, u := range s.plan.Users {
		_, err := s.users.FindByID(ctx, u.ID)
		switch {
		case err == nil:
			res.Existing++
			continue
		case !domain.IsNotFound(err):
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}

		u.CreatedAt = time.Now().UTC()
		if err := s.users.Save(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		res.Users++
	}
	return nil
}

func (s *Seeder) seedLocalGames(ctx context.Context, res *Result) {
	for _, g := range s.plan.Games {
		if g.BGGID != "" {
			if _, err := s.games.FindByExternalID(ctx, g.BGGID); err == nil {
				res.Existing++
				continue
			}
		}

		_, err := s.catalog.Create(ctx, g)
		var conflict *domain.ConflictError
		switch {
		case err == nil:
			res.Games++
		case errors.As(err, &conflict):
			res.Flagged++
			s.logger.Info("seed game not created",
				logger.String("name", g.Name),
				logger.String("reason", conflict.Reason))
		default:
			res.Failed++
			s.logger.Warn("seed game failed", logger.String("name", g.Name), logger.Error(err))
		}
	}
}

func (s *Seeder) seedRemote(ctx context.Context, id int64, res *Result) {
	if _, err := s.games.FindByExternalID(ctx, strconv.FormatInt(id, 10)); err == nil {
		res.Existing++
		return
	}

	d, err := s.catalog.Register(ctx, id)
	switch {
	case err != nil:
		res.Failed++
		s.logger.Warn("seed id failed", logger.Int64("external_id", id), logger.Error(err))
	case d.Kind == domain.DecisionAdmit:
		res.Admitted++
	case d.Kind == domain.DecisionFlagDuplicate:
		res.Flagged++
		s.logger.Info("seed id flagged as duplicate",
			logger.Int64("external_id", id),
			logger.String("reason", d.Reason))
	default:
		res.Rejected++
	}
}
