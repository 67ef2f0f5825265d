package stats

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// RankedGame pairs a game with the value it was ranked by.
type RankedGame struct {
	Game          *domain.Game `json:"game"`
	AverageRating float64      `json:"average_rating"`
	ReviewCount   int          `json:"review_count"`
}

// Published keeps the published reviews.
func Published(reviews []*domain.Review) []*domain.Review {
	out := make([]*domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.IsPublished {
			out = append(out, r)
		}
	}
	return out
}

// GameAverageRating is the mean overall score of the published reviews, 0 without any.
func GameAverageRating(reviews []*domain.Review) float64 {
	return averageOf(Published(reviews), func(r *domain.Review) float64 { return r.OverallScore })
}

// TopRatedGames ranks games by average published rating, best first. Games without
// published reviews are left out; equal ratings keep game ID order.
func TopRatedGames(games []*domain.Game, reviews []*domain.Review, limit int) []RankedGame {
	return rank(games, reviews, limit, func(a, b RankedGame) int {
		return cmp.Compare(b.AverageRating, a.AverageRating)
	})
}

// MostReviewedGames ranks games by published review count, most first.
func MostReviewedGames(games []*domain.Game, reviews []*domain.Review, limit int) []RankedGame {
	return rank(games, reviews, limit, func(a, b RankedGame) int {
		return cmp.Compare(b.ReviewCount, a.ReviewCount)
	})
}

func rank(games []*domain.Game, reviews []*domain.Review, limit int, by func(a, b RankedGame) int) []RankedGame {
	byGame := map[int64][]*domain.Review{}
	for _, r := range Published(reviews) {
		byGame[r.GameID] = append(byGame[r.GameID], r)
	}

	sorted := slices.Clone(games)
	slices.SortFunc(sorted, func(a, b *domain.Game) int { return cmp.Compare(a.ID, b.ID) })

	out := make([]RankedGame, 0, len(byGame))
	for _, g := range sorted {
		rs := byGame[g.ID]
		if len(rs) == 0 {
			continue
		}
		out = append(out, RankedGame{
			Game:          g,
			AverageRating: averageOf(rs, func(r *domain.Review) float64 { return r.OverallScore }),
			ReviewCount:   len(rs),
		})
	}
	slices.SortStableFunc(out, by)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ─────────────────────────────
// Repository backed service
// ─────────────────────────────

// Service answers statistics queries from the repositories.
type Service struct {
	games   domain.GameRepository
	reviews domain.ReviewRepository
}

func NewService(games domain.GameRepository, reviews domain.ReviewRepository) *Service {
	return &Service{games: games, reviews: reviews}
}

// GameStatistics aggregates the published reviews of gameID. The game must exist.
func (s *Service) GameStatistics(ctx context.Context, gameID int64) (GameStatistics, error) {
	if _, err := s.games.FindByID(ctx, gameID); err != nil {
		return GameStatistics{}, err
	}
	reviews, err := s.reviews.FindByGame(ctx, gameID)
	if err != nil {
		return GameStatistics{}, err
	}
	return Aggregate(gameID, Published(reviews)), nil
}

// TopRated ranks the catalog by average rating.
func (s *Service) TopRated(ctx context.Context, limit int) ([]RankedGame, error) {
	games, reviews, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return TopRatedGames(games, reviews, limit), nil
}

// MostReviewed ranks the catalog by review count.
func (s *Service) MostReviewed(ctx context.Context, limit int) ([]RankedGame, error) {
	games, reviews, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return MostReviewedGames(games, reviews, limit), nil
}

func (s *Service) load(ctx context.Context) ([]*domain.Game, []*domain.Review, error) {
	var (
		games   []*domain.Game
		reviews []*domain.Review
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		games, err = s.games.FindAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = s.reviews.FindAll(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return games, reviews, nil
}
