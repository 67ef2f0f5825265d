// Package reconcile decides whether a remote catalog record may enter the catalog.
package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
	"github.com/MrSnakeDoc/bgr/internal/similarity"
	"github.com/MrSnakeDoc/bgr/internal/taxonomy"
)

// CatalogSource fetches records from the remote catalog.
// A nil record with a nil error means the remote does not know the id.
type CatalogSource interface {
	Thing(ctx context.Context, id int64, withVersions bool) (*domain.CatalogRecord, error)
}

// Service is the game reconciliation service.
type Service struct {
	source  CatalogSource
	games   domain.GameRepository
	mapper  *taxonomy.Mapper
	matcher *similarity.Matcher
	log     logger.Logger

	inflight singleflight.Group
}

// NewService wires the reconciliation pipeline.
func NewService(source CatalogSource, games domain.GameRepository, mapper *taxonomy.Mapper, matcher *similarity.Matcher, log logger.Logger) *Service {
	return &Service{
		source:  source,
		games:   games,
		mapper:  mapper,
		matcher: matcher,
		log:     log,
	}
}

// Reconcile fetches externalID and decides how it would enter the catalog. Nothing is persisted.
//
// The decision is Reject only for an unusable id. A record the remote does not know,
// or returns without identifiers, is a not found error.
func (s *Service) Reconcile(ctx context.Context, externalID int64) (domain.ReconciliationDecision, error) {
	runID := uuid.NewString()
	start := time.Now()

	if externalID <= 0 {
		d := domain.Reject(fmt.Sprintf("invalid external id %d", externalID))
		s.record(runID, externalID, d, start)
		return d, nil
	}

	rec, err := s.source.Thing(ctx, externalID, true)
	if err != nil {
		s.log.Warn("catalog fetch failed",
			logger.String("run_id", runID),
			logger.Int64("external_id", externalID),
			logger.Error(err),
		)
		return domain.ReconciliationDecision{}, err
	}
	if rec == nil {
		return domain.ReconciliationDecision{}, domain.NotFound(domain.KindGame, externalID)
	}
	if strings.TrimSpace(rec.Name) == "" {
		return domain.ReconciliationDecision{}, &domain.MalformedCatalogDataError{
			ExternalID: strconv.FormatInt(externalID, 10),
			Reason:     "record has no name",
		}
	}

	r := resolve(rec, s.mapper)
	game, err := domain.NewGame(r.game)
	if err != nil {
		return domain.ReconciliationDecision{}, err
	}
	if err := CheckConsistency(game); err != nil {
		return domain.ReconciliationDecision{}, err
	}

	self, err := s.games.FindByExternalID(ctx, game.BGGID)
	switch {
	case domain.IsNotFound(err):
		self = nil
	case err != nil:
		return domain.ReconciliationDecision{}, fmt.Errorf("find game by external id: %w", err)
	default:
		game.ID = self.ID
		game.CreatedAt = self.CreatedAt
	}

	scanStart := time.Now()
	similar, err := s.matcher.FindSimilar(ctx, game)
	metrics.SimilarityScanDuration.Observe(time.Since(scanStart).Seconds())
	if err != nil {
		return domain.ReconciliationDecision{}, fmt.Errorf("similarity scan: %w", err)
	}

	others := excludeSelf(similar, self)

	var d domain.ReconciliationDecision
	if len(others) > 0 {
		ids := make([]int64, 0, len(others))
		names := make([]string, 0, len(others))
		for _, o := range others {
			ids = append(ids, o.ID)
			names = append(names, o.Name)
		}
		d = domain.FlagDuplicate(game, ids, "Similar games already exist: "+strings.Join(names, ", "))
	} else {
		d = domain.Admit(game)
		d.Updated = self != nil
	}
	d.Identity = &r.identity

	s.record(runID, externalID, d, start)
	return d, nil
}

// Register reconciles externalID and persists an admitted game, updating it in place
// when it is already in the catalog. Concurrent calls for one id share a single run.
func (s *Service) Register(ctx context.Context, externalID int64) (domain.ReconciliationDecision, error) {
	v, err, _ := s.inflight.Do(strconv.FormatInt(externalID, 10), func() (any, error) {
		d, err := s.Reconcile(ctx, externalID)
		if err != nil || d.Kind != domain.DecisionAdmit {
			return d, err
		}

		now := time.Now().UTC()
		d.Game.UpdatedAt = now
		if d.Updated {
			err = s.games.Update(ctx, d.Game)
		} else {
			d.Game.CreatedAt = now
			err = s.games.Save(ctx, d.Game)
		}
		if err != nil {
			return domain.ReconciliationDecision{}, fmt.Errorf("persist game %s: %w", d.Game.BGGID, err)
		}

		s.log.Info("game registered",
			logger.Int64("id", d.Game.ID),
			logger.String("bgg_id", d.Game.BGGID),
			logger.String("name", d.Game.Name),
			logger.Bool("updated", d.Updated),
		)
		return d, nil
	})
	if err != nil {
		return domain.ReconciliationDecision{}, err
	}
	return v.(domain.ReconciliationDecision), nil
}

// Create registers a game that does not come from the remote catalog.
func (s *Service) Create(ctx context.Context, g domain.Game) (*domain.Game, error) {
	game, err := domain.NewGame(g)
	if err != nil {
		return nil, err
	}
	if err := CheckConsistency(game); err != nil {
		return nil, err
	}
	if err := s.ValidateGameUniqueness(ctx, game); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	game.CreatedAt, game.UpdatedAt = now, now
	if err := s.games.Save(ctx, game); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	return game, nil
}

// ValidateGameUniqueness rejects g when another game owns its catalog id or has a similar name.
func (s *Service) ValidateGameUniqueness(ctx context.Context, g *domain.Game) error {
	if g.BGGID != "" {
		if err := CheckCatalogID(ctx, s.games, g.BGGID, g.ID); err != nil {
			return err
		}
	}

	similar, err := s.matcher.FindSimilar(ctx, g)
	if err != nil {
		return fmt.Errorf("similarity scan: %w", err)
	}
	for _, o := range similar {
		if g.ID != 0 && o.ID == g.ID {
			return nil
		}
	}
	if len(similar) > 0 {
		names := make([]string, 0, len(similar))
		for _, o := range similar {
			names = append(names, o.Name)
		}
		return domain.Conflict(domain.RuleDuplicate, "Similar games already exist: %s", strings.Join(names, ", "))
	}
	return nil
}

func excludeSelf(similar []*domain.Game, self *domain.Game) []*domain.Game {
	if self == nil {
		return similar
	}
	out := similar[:0:0]
	for _, g := range similar {
		if g.ID != self.ID {
			out = append(out, g)
		}
	}
	return out
}

func (s *Service) record(runID string, externalID int64, d domain.ReconciliationDecision, start time.Time) {
	metrics.ReconcileDecisions.WithLabelValues(string(d.Kind)).Inc()
	fields := []logger.Field{
		logger.String("run_id", runID),
		logger.Int64("external_id", externalID),
		logger.String("decision", string(d.Kind)),
		logger.Duration("duration", time.Since(start)),
	}
	if d.Reason != "" {
		fields = append(fields, logger.String("reason", d.Reason))
	}
	if d.Identity != nil {
		fields = append(fields, logger.String("display_name", d.Identity.Name))
	}
	s.log.Info("reconciliation decided", fields...)
}
