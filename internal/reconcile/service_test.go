package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/index"
	"github.com/MrSnakeDoc/bgr/internal/localize"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/similarity"
	"github.com/MrSnakeDoc/bgr/internal/taxonomy"
)

type fakeSource struct {
	records map[int64]*domain.CatalogRecord
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeSource) Thing(_ context.Context, id int64, withVersions bool) (*domain.CatalogRecord, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	c := *rec
	if !withVersions {
		c.Versions = nil
	}
	return &c, nil
}

func wingspan() *domain.CatalogRecord {
	return &domain.CatalogRecord{
		ExternalID:    266192,
		Name:          "Wingspan",
		Names:         []domain.AlternateName{{Type: "primary", Value: "Wingspan"}},
		YearPublished: domain.IntPtr(2019),
		MinPlayers:    domain.IntPtr(1),
		MaxPlayers:    domain.IntPtr(5),
		PlayingTime:   domain.IntPtr(70),
		MinAge:        domain.IntPtr(10),
		ImageURL:      "https://cf.geekdo-images.com/wingspan.jpg",
		Categories:    []string{"Animals", "Card Game", "Animals"},
		Mechanics:     []string{"Open Drafting", "Dice Rolling"},
		Publishers:    []string{"Stonemaier Games", "Arclight Games"},
		AverageRating: domain.FloatPtr(8.04),
		RatingCount:   domain.IntPtr(95000),
		BestPlayerCounts:        []int{3},
		RecommendedPlayerCounts: []int{1, 2, 3},
		Versions: []domain.VersionEntry{
			{ID: 1, Name: "English first edition", Publishers: []string{"Stonemaier Games"}},
			{ID: 2, Name: "ウイングスパン", Publishers: []string{"Arclight Games"}, YearPublished: domain.IntPtr(2019), ImageURL: "https://cf.geekdo-images.com/wingspan_ja.jpg"},
		},
	}
}

type fixture struct {
	svc    *Service
	source *fakeSource
	idx    *index.MemoryIndex
}

func newFixture(records ...*domain.CatalogRecord) *fixture {
	log := logger.New("error", false)
	src := &fakeSource{records: map[int64]*domain.CatalogRecord{}}
	for _, r := range records {
		src.records[r.ExternalID] = r
	}
	idx := index.NewMemoryIndex()
	games := idx.Games()
	matcher := similarity.NewMatcher(games, similarity.DefaultThresholds(), log)
	return &fixture{
		svc:    NewService(src, games, taxonomy.Default(), matcher, log),
		source: src,
		idx:    idx,
	}
}

func (f *fixture) seed(t *testing.T, games ...domain.Game) {
	t.Helper()
	for _, g := range games {
		g := g
		require.NoError(t, f.idx.Games().Save(context.Background(), &g))
	}
}

func TestReconcileAdmitsNewGame(t *testing.T) {
	f := newFixture(wingspan())

	d, err := f.svc.Reconcile(context.Background(), 266192)
	require.NoError(t, err)
	require.Equal(t, domain.DecisionAdmit, d.Kind)
	assert.False(t, d.Updated)

	g := d.Game
	assert.Equal(t, "266192", g.BGGID)
	assert.Equal(t, "Wingspan", g.Name)
	assert.Equal(t, "ウイングスパン", g.JapaneseName)
	assert.Equal(t, "アークライト", g.JapanesePublisher)
	assert.Equal(t, "2019-01-01", g.JapaneseReleaseDate)
	assert.Equal(t, "https://cf.geekdo-images.com/wingspan_ja.jpg", g.JapaneseImageURL)
	assert.Equal(t, []string{"Animals", "Card Game"}, g.BGGCategories)
	assert.Equal(t, []string{"動物", "カードゲーム"}, g.SiteCategories)
	assert.Equal(t, []string{"ドラフト", "ダイスロール"}, g.SiteMechanics)
	assert.Equal(t, []string{"ソロ向き", "ペア向き"}, g.PlayerCountTags)
	assert.Equal(t, []string{"Stonemaier Games", "アークライト"}, g.Publishers)

	require.NotNil(t, d.Identity)
	assert.Equal(t, localize.ReasonLocalizedName, d.Identity.Reason)
	assert.Equal(t, 0, f.idx.GameCount(), "Reconcile must not persist")
}

func TestReconcileUpdatesInPlace(t *testing.T) {
	f := newFixture(wingspan())
	f.seed(t, domain.Game{Name: "Wingspan", BGGID: "266192", JapaneseName: "ウイングスパン"})

	d, err := f.svc.Reconcile(context.Background(), 266192)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAdmit, d.Kind, "a record must not collide with itself")
	assert.True(t, d.Updated)
	assert.Equal(t, int64(1), d.Game.ID)
}

func TestReconcileFlagsSimilarGames(t *testing.T) {
	f := newFixture(wingspan())
	f.seed(t,
		domain.Game{Name: "Azul", BGGID: "230802"},
		domain.Game{Name: "Wingspan!", BGGID: "jp-1"},
	)

	d, err := f.svc.Reconcile(context.Background(), 266192)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionFlagDuplicate, d.Kind)
	assert.Equal(t, []int64{2}, d.CandidateIDs)
	assert.Contains(t, d.Reason, "Wingspan!")
	require.NotNil(t, d.Game)
}

func TestReconcileFlagsLocalizedMatch(t *testing.T) {
	f := newFixture(wingspan())
	f.seed(t, domain.Game{Name: "Flügelschlag Deluxe Edition", JapaneseName: "ウイングスパン", BGGID: "jp-2"})

	d, err := f.svc.Reconcile(context.Background(), 266192)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionFlagDuplicate, d.Kind)
}

func TestReconcileRejectsInvalidID(t *testing.T) {
	f := newFixture()

	for _, id := range []int64{0, -5} {
		d, err := f.svc.Reconcile(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.DecisionReject, d.Kind)
		assert.NotEmpty(t, d.Reason)
	}
	assert.Equal(t, int32(0), f.source.calls.Load())
}

func TestReconcileErrors(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Reconcile(context.Background(), 42)
	assert.True(t, domain.IsNotFound(err), "unknown remote id: %v", err)

	f.source.records[43] = &domain.CatalogRecord{ExternalID: 43, Name: "  "}
	_, err = f.svc.Reconcile(context.Background(), 43)
	var malformed *domain.MalformedCatalogDataError
	assert.True(t, errors.As(err, &malformed))

	f.source.records[44] = &domain.CatalogRecord{ExternalID: 44, Name: "Broken", MinPlayers: domain.IntPtr(5), MaxPlayers: domain.IntPtr(2)}
	_, err = f.svc.Reconcile(context.Background(), 44)
	var invalid *domain.ValidationError
	assert.True(t, errors.As(err, &invalid))

	f.source.err = &domain.RemoteAPIError{StatusCode: 503}
	_, err = f.svc.Reconcile(context.Background(), 266192)
	var remote *domain.RemoteAPIError
	assert.True(t, errors.As(err, &remote))
}

func TestReconcileTreatsVendorZeroAsUnknown(t *testing.T) {
	rec := &domain.CatalogRecord{
		ExternalID:    7,
		Name:          "Go",
		YearPublished: domain.IntPtr(-2200),
		MinPlayers:    domain.IntPtr(0),
		MaxPlayers:    domain.IntPtr(2),
	}
	f := newFixture(rec)

	d, err := f.svc.Reconcile(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, d.Game.YearPublished)
	assert.Nil(t, d.Game.MinPlayers)
}

func TestRegisterPersistsAndUpdates(t *testing.T) {
	f := newFixture(wingspan())
	ctx := context.Background()

	d, err := f.svc.Register(ctx, 266192)
	require.NoError(t, err)
	require.Equal(t, domain.DecisionAdmit, d.Kind)
	assert.Equal(t, int64(1), d.Game.ID)
	created := d.Game.CreatedAt
	assert.False(t, created.IsZero())

	d, err = f.svc.Register(ctx, 266192)
	require.NoError(t, err)
	assert.True(t, d.Updated)
	assert.Equal(t, 1, f.idx.GameCount())

	stored, err := f.idx.Games().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created, stored.CreatedAt)
}

func TestRegisterDoesNotPersistFlagged(t *testing.T) {
	f := newFixture(wingspan())
	f.seed(t, domain.Game{Name: "Wingspan", BGGID: "jp-9"})

	d, err := f.svc.Register(context.Background(), 266192)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionFlagDuplicate, d.Kind)
	assert.Equal(t, 1, f.idx.GameCount())
}

func TestRegisterSharesConcurrentRuns(t *testing.T) {
	f := newFixture(wingspan())
	f.source.delay = 100 * time.Millisecond

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Register(context.Background(), 266192)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.source.calls.Load())
	assert.Equal(t, 1, f.idx.GameCount())
}

func TestCreateLocalGame(t *testing.T) {
	f := newFixture()
	f.seed(t, domain.Game{Name: "Azul", BGGID: "230802"})
	ctx := context.Background()

	g, err := f.svc.Create(ctx, domain.Game{Name: "ito", BGGID: "jp-1", JapaneseName: "イト", MinPlayers: domain.IntPtr(2), MaxPlayers: domain.IntPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), g.ID)

	_, err = f.svc.Create(ctx, domain.Game{Name: "AZUL", BGGID: "jp-2"})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "Similar games already exist: Azul", conflict.Reason)

	_, err = f.svc.Create(ctx, domain.Game{Name: "Something else", BGGID: "230802"})
	require.True(t, errors.As(err, &conflict))
	assert.Contains(t, conflict.Reason, "already used by game: Azul")

	_, err = f.svc.Create(ctx, domain.Game{Name: ""})
	var invalid *domain.ValidationError
	assert.True(t, errors.As(err, &invalid))
}
