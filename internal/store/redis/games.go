package redis

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/similarity"
)

// GameRepo stores games as JSON documents with secondary indexes on the
// external id and the normalized names.
type GameRepo struct{ s *Store }

var _ domain.GameRepository = (*GameRepo)(nil)

func (r *GameRepo) FindByID(ctx context.Context, id int64) (*domain.Game, error) {
	g, err := get[domain.Game](ctx, r.s, gameKey(id))
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.NotFound(domain.KindGame, id)
	}
	return g, nil
}

func (r *GameRepo) FindByExternalID(ctx context.Context, bggID string) (*domain.Game, error) {
	id, err := r.owner(ctx, bggID)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, domain.NotFound(domain.KindGame, bggID)
	}
	return r.FindByID(ctx, id)
}

func (r *GameRepo) FindByNormalizedName(ctx context.Context, name string) ([]*domain.Game, error) {
	norm := similarity.Normalize(name)
	if norm == "" {
		return nil, nil
	}
	ids, err := r.s.client.SMembers(ctx, gameNameKey(norm)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games named %q: %w", norm, err)
	}
	games, err := mget[domain.Game](ctx, r.s, ids, gameKeyString)
	if err != nil {
		return nil, err
	}
	sortGames(games)
	return games, nil
}

// FindAll returns every game ordered by ID.
func (r *GameRepo) FindAll(ctx context.Context) ([]*domain.Game, error) {
	games, err := loadAll[domain.Game](ctx, r.s, keyAllGames, gameKeyString)
	if err != nil {
		return nil, err
	}
	sortGames(games)
	return games, nil
}

// Save stores a new game. A zero ID is assigned from a counter.
// The external id is claimed atomically; a taken id is a duplicate conflict.
func (r *GameRepo) Save(ctx context.Context, g *domain.Game) error {
	if g.ID == 0 {
		id, err := r.s.client.Incr(ctx, keyGameSeq).Result()
		if err != nil {
			return fmt.Errorf("failed to allocate game id: %w", err)
		}
		g.ID = id
	}

	if g.BGGID != "" {
		claimed, err := r.s.client.SetNX(ctx, gameBGGKey(g.BGGID), g.ID, 0).Result()
		if err != nil {
			return fmt.Errorf("failed to claim BGG ID %s: %w", g.BGGID, err)
		}
		if !claimed {
			owner, err := r.owner(ctx, g.BGGID)
			if err != nil {
				return err
			}
			if owner != g.ID {
				return domain.Conflict(domain.RuleDuplicate, "BGG ID %s is already used by game %d", g.BGGID, owner)
			}
		}
	}

	return r.write(ctx, g, nil)
}

// Update replaces an existing game and moves its indexes.
func (r *GameRepo) Update(ctx context.Context, g *domain.Game) error {
	old, err := r.FindByID(ctx, g.ID)
	if err != nil {
		return err
	}
	return r.write(ctx, g, old)
}

func (r *GameRepo) write(ctx context.Context, g *domain.Game, old *domain.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game %d: %w", g.ID, err)
	}
	id := strconv.FormatInt(g.ID, 10)

	_, err = r.s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if old != nil {
			for _, key := range nameKeys(old) {
				pipe.SRem(ctx, key, id)
			}
			if old.BGGID != "" && old.BGGID != g.BGGID {
				pipe.Del(ctx, gameBGGKey(old.BGGID))
			}
		}
		pipe.Set(ctx, gameKey(g.ID), data, 0)
		pipe.SAdd(ctx, keyAllGames, id)
		if g.BGGID != "" {
			pipe.Set(ctx, gameBGGKey(g.BGGID), id, 0)
		}
		for _, key := range nameKeys(g) {
			pipe.SAdd(ctx, key, id)
		}
		pipe.Eval(ctx, `if tonumber(redis.call("GET", KEYS[1]) or "0") < tonumber(ARGV[1]) then redis.call("SET", KEYS[1], ARGV[1]) end return 0`,
			[]string{keyGameSeq}, g.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game %d: %w", g.ID, err)
	}
	return nil
}

// owner returns the game ID holding bggID, or 0.
func (r *GameRepo) owner(ctx context.Context, bggID string) (int64, error) {
	id, err := r.s.client.Get(ctx, gameBGGKey(bggID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to resolve BGG ID %s: %w", bggID, err)
	}
	return id, nil
}

func nameKeys(g *domain.Game) []string {
	var keys []string
	for _, name := range []string{g.Name, g.JapaneseName} {
		if norm := similarity.Normalize(name); norm != "" && !slices.Contains(keys, gameNameKey(norm)) {
			keys = append(keys, gameNameKey(norm))
		}
	}
	return keys
}

func gameKeyString(id string) string { return prefixGame + id }

func sortGames(games []*domain.Game) {
	slices.SortFunc(games, func(a, b *domain.Game) int { return cmp.Compare(a.ID, b.ID) })
}
