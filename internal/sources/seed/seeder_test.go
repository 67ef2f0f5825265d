package seed

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/index"
	"github.com/MrSnakeDoc/bgr/internal/logger"
)

// fakeCatalog admits ids listed in admit, flags those in flag and fails the rest.
type fakeCatalog struct {
	games    domain.GameRepository
	admit    map[int64]bool
	flag     map[int64]bool
	register []int64
	created  []string
}

func (c *fakeCatalog) Register(ctx context.Context, id int64) (domain.ReconciliationDecision, error) {
	c.register = append(c.register, id)
	switch {
	case c.admit[id]:
		g := &domain.Game{Name: "Game " + strconv.FormatInt(id, 10), BGGID: strconv.FormatInt(id, 10)}
		if err := c.games.Save(ctx, g); err != nil {
			return domain.ReconciliationDecision{}, err
		}
		return domain.Admit(g), nil
	case c.flag[id]:
		return domain.FlagDuplicate(nil, []int64{1}, "similar"), nil
	default:
		return domain.ReconciliationDecision{}, errors.New("remote unavailable")
	}
}

func (c *fakeCatalog) Create(ctx context.Context, g domain.Game) (*domain.Game, error) {
	c.created = append(c.created, g.Name)
	if g.Name == "Dupe" {
		return nil, domain.Conflict(domain.RuleDuplicate, "Similar games already exist: Dupe")
	}
	if err := c.games.Save(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func newSeedPlan() *Plan {
	return &Plan{
		ExternalIDs: []int64{224517, 266192, 13},
		Games: []domain.Game{
			{Name: "Hanamikoji", BGGID: "jp-1"},
			{Name: "Dupe"},
		},
		Users: []domain.User{
			{ID: "admin", Email: "admin@example.com", IsActive: true, IsAdmin: true},
		},
	}
}

func TestSeederRun(t *testing.T) {
	ctx := context.Background()
	idx := index.NewMemoryIndex()
	cat := &fakeCatalog{
		games: idx.Games(),
		admit: map[int64]bool{224517: true},
		flag:  map[int64]bool{266192: true},
	}

	res, err := NewSeeder(newSeedPlan(), cat, idx.Games(), idx.Users(), logger.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 1, Games: 1, Admitted: 1, Flagged: 2, Failed: 1}, res)

	u, err := idx.Users().FindByID(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = idx.Games().FindByExternalID(ctx, "jp-1")
	assert.NoError(t, err)
	_, err = idx.Games().FindByExternalID(ctx, "224517")
	assert.NoError(t, err)
}

func TestSeederRunIsRepeatable(t *testing.T) {
	ctx := context.Background()
	idx := index.NewMemoryIndex()
	cat := &fakeCatalog{games: idx.Games(), admit: map[int64]bool{224517: true, 266192: true, 13: true}}
	s := NewSeeder(newSeedPlan(), cat, idx.Games(), idx.Users(), logger.Nop())

	_, err := s.Run(ctx)
	require.NoError(t, err)
	cat.register, cat.created = nil, nil

	res, err := s.Run(ctx)
	require.NoError(t, err)

	// user, jp-1 and the three remote ids are found; "Dupe" has no id to look up.
	assert.Equal(t, 5, res.Existing)
	assert.Equal(t, 1, res.Flagged)
	assert.Empty(t, cat.register)
	assert.Equal(t, []string{"Dupe"}, cat.created)
	assert.Equal(t, 4, idx.GameCount())
}

func TestSeederRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx := index.NewMemoryIndex()
	cat := &fakeCatalog{games: idx.Games()}
	res, err := NewSeeder(newSeedPlan(), cat, idx.Games(), idx.Users(), logger.Nop()).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, cat.register)
	assert.Equal(t, 1, res.Users)
}
