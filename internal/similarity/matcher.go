package similarity

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
)

// Default thresholds. A match must be strictly above the threshold.
const (
	DefaultNameThreshold      = 0.85
	DefaultLocalizedThreshold = 0.90
)

// minChunk keeps small catalogs on a single goroutine.
const minChunk = 256

// Thresholds configures FindSimilar. Localized titles are short, so they get the stricter bar.
type Thresholds struct {
	Name      float64
	Localized float64
}

// DefaultThresholds returns 0.85 / 0.90.
func DefaultThresholds() Thresholds {
	return Thresholds{Name: DefaultNameThreshold, Localized: DefaultLocalizedThreshold}
}

// Matcher finds existing games resembling a candidate.
type Matcher struct {
	games      domain.GameRepository
	thresholds Thresholds
	workers    int
	logger     logger.Logger
}

// NewMatcher builds a matcher over games.
func NewMatcher(games domain.GameRepository, th Thresholds, log logger.Logger) *Matcher {
	return &Matcher{
		games:      games,
		thresholds: th,
		workers:    runtime.GOMAXPROCS(0),
		logger:     log,
	}
}

// Thresholds returns the configured thresholds.
func (m *Matcher) Thresholds() Thresholds { return m.thresholds }

// FindSimilar returns the games resembling candidate. An exact normalized-name hit
// in the repository short-circuits the full scan.
func (m *Matcher) FindSimilar(ctx context.Context, candidate *domain.Game) ([]*domain.Game, error) {
	if key := Normalize(candidate.Name); key != "" {
		exact, err := m.games.FindByNormalizedName(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("find by normalized name: %w", err)
		}
		if len(exact) > 0 {
			return exact, nil
		}
	}

	all, err := m.games.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return m.Scan(ctx, candidate, all)
}

// Scan scores every game in all against candidate, in parallel chunks.
// Result order follows all; duplicates are removed.
func (m *Matcher) Scan(ctx context.Context, candidate *domain.Game, all []*domain.Game) ([]*domain.Game, error) {
	c := newProbe(candidate)

	chunk := max(minChunk, (len(all)+m.workers-1)/max(m.workers, 1))
	parts := make([][]*domain.Game, (len(all)+chunk-1)/chunk)

	g, ctx := errgroup.WithContext(ctx)
	for i := range parts {
		lo, hi := i*chunk, min((i+1)*chunk, len(all))
		g.Go(func() error {
			for j, existing := range all[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				if existing == nil || existing.Name == "" {
					m.logger.Warn("skipping malformed game during similarity scan",
						logger.Int("index", lo+j))
					continue
				}
				if c.matches(existing, m.thresholds) {
					parts[i] = append(parts[i], existing)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var out []*domain.Game
	for _, p := range parts {
		for _, game := range p {
			if seen[game.ID] {
				continue
			}
			seen[game.ID] = true
			out = append(out, game)
		}
	}
	return out, nil
}

// FindSimilar is the pure form of Matcher.FindSimilar over an in-memory list.
func FindSimilar(candidate *domain.Game, all []*domain.Game, th Thresholds) []*domain.Game {
	key := Normalize(candidate.Name)
	var exact []*domain.Game
	for _, g := range all {
		if g != nil && key != "" && Normalize(g.Name) == key {
			exact = append(exact, g)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	c := newProbe(candidate)
	seen := make(map[int64]bool)
	var out []*domain.Game
	for _, g := range all {
		if g == nil || g.Name == "" || seen[g.ID] {
			continue
		}
		if c.matches(g, th) {
			seen[g.ID] = true
			out = append(out, g)
		}
	}
	return out
}

// probe caches the candidate's normalized titles.
type probe struct {
	name      string
	localized string
}

func newProbe(g *domain.Game) probe {
	return probe{name: Normalize(g.Name), localized: Normalize(g.JapaneseName)}
}

func (p probe) matches(g *domain.Game, th Thresholds) bool {
	if ratio(p.name, Normalize(g.Name)) > th.Name {
		return true
	}
	if p.localized == "" || g.JapaneseName == "" {
		return false
	}
	return ratio(p.localized, Normalize(g.JapaneseName)) > th.Localized
}
