package index

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

func TestNewMemoryIndex(t *testing.T) {
	index := NewMemoryIndex()
	if index == nil {
		t.Fatal("NewMemoryIndex() returned nil")
	}
	if index.GameCount() != 0 || index.ReviewCount() != 0 {
		t.Errorf("NewMemoryIndex() should start empty")
	}
}

func TestGameSaveAssignsIDs(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryIndex().Games()

	a := &domain.Game{Name: "Wingspan", BGGID: "266192"}
	b := &domain.Game{Name: "Azul", BGGID: "230802"}
	if err := games.Save(ctx, a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := games.Save(ctx, b); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("Save() assigned ids %d, %d; want 1, 2", a.ID, b.ID)
	}

	got, err := games.FindByExternalID(ctx, "230802")
	if err != nil {
		t.Fatalf("FindByExternalID() error = %v", err)
	}
	if got.Name != "Azul" {
		t.Errorf("FindByExternalID() = %q, want Azul", got.Name)
	}
}

func TestGameSaveRejectsTakenExternalID(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryIndex().Games()

	if err := games.Save(ctx, &domain.Game{Name: "Wingspan", BGGID: "266192"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := games.Save(ctx, &domain.Game{Name: "Wingspan copy", BGGID: "266192"}); err == nil {
		t.Error("Save() with a taken bgg id should fail")
	}
}

func TestGameLookupsReturnCopies(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryIndex().Games()

	g := &domain.Game{Name: "Azul", SiteCategories: []string{"パズル"}}
	_ = games.Save(ctx, g)
	g.Name = "mutated"

	got, _ := games.FindByID(ctx, g.ID)
	if got.Name != "Azul" {
		t.Errorf("stored game changed through caller pointer: %q", got.Name)
	}
	got.SiteCategories[0] = "changed"

	again, _ := games.FindByID(ctx, g.ID)
	if again.SiteCategories[0] != "パズル" {
		t.Errorf("stored game changed through returned slice")
	}
}

func TestGameNotFound(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryIndex().Games()

	if _, err := games.FindByID(ctx, 42); !domain.IsNotFound(err) {
		t.Errorf("FindByID() error = %v, want not found", err)
	}
	if _, err := games.FindByExternalID(ctx, "42"); !domain.IsNotFound(err) {
		t.Errorf("FindByExternalID() error = %v, want not found", err)
	}
	if err := games.Update(ctx, &domain.Game{ID: 42, Name: "x"}); !domain.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}
}

func TestFindByNormalizedName(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryIndex().Games()
	_ = games.Save(ctx, &domain.Game{Name: "The Castle"})
	_ = games.Save(ctx, &domain.Game{Name: "Wingspan", JapaneseName: "ウイングスパン"})
	_ = games.Save(ctx, &domain.Game{Name: "Castles of Burgundy"})

	tests := []struct {
		query string
		want  []string
	}{
		{"castle", []string{"The Castle"}},
		{"CASTLE!", []string{"The Castle"}},
		{"ウイングスパン", []string{"Wingspan"}},
		{"", nil},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := games.FindByNormalizedName(ctx, tt.query)
			if err != nil {
				t.Fatalf("FindByNormalizedName() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("FindByNormalizedName(%q) = %d games, want %d", tt.query, len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("FindByNormalizedName(%q)[%d] = %q, want %q", tt.query, i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestReviewStore(t *testing.T) {
	ctx := context.Background()
	reviews := NewMemoryIndex().Reviews()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &domain.Review{UserID: "u1", GameID: 1, Title: "first", CreatedAt: base}
	second := &domain.Review{UserID: "u2", GameID: 1, Title: "second", CreatedAt: base.Add(time.Hour)}
	other := &domain.Review{UserID: "u1", GameID: 2, Title: "other", CreatedAt: base}
	for _, r := range []*domain.Review{second, first, other} {
		if err := reviews.Save(ctx, r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if r.ID == "" {
			t.Fatal("Save() should assign an id")
		}
	}

	byGame, _ := reviews.FindByGame(ctx, 1)
	if len(byGame) != 2 || byGame[0].Title != "first" {
		t.Errorf("FindByGame() should return both reviews oldest first, got %+v", byGame)
	}

	mine, _ := reviews.FindByUserAndGame(ctx, "u1", 1)
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Errorf("FindByUserAndGame() = %+v", mine)
	}

	first.Title = "edited"
	if err := reviews.Update(ctx, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := reviews.FindByID(ctx, first.ID)
	if got.Title != "edited" {
		t.Errorf("Update() not applied, title = %q", got.Title)
	}

	if err := reviews.Update(ctx, &domain.Review{ID: "missing"}); !domain.IsNotFound(err) {
		t.Errorf("Update() of unknown review error = %v", err)
	}
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryIndex().Users()

	if _, err := users.FindByID(ctx, "u1"); !domain.IsNotFound(err) {
		t.Errorf("FindByID() error = %v, want not found", err)
	}
	_ = users.Save(ctx, &domain.User{ID: "u1", Email: "a@example.com", IsActive: true})
	u, err := users.FindByID(ctx, "u1")
	if err != nil || !u.IsActive {
		t.Errorf("FindByID() = %+v, %v", u, err)
	}
}

func TestReplace(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()
	_ = index.Games().Save(ctx, &domain.Game{Name: "old"})

	index.Replace(
		[]*domain.Game{{ID: 7, Name: "Azul", BGGID: "230802"}, {ID: 3, Name: "Catan", BGGID: "13"}},
		[]*domain.Review{{ID: "r1", GameID: 7}},
		[]*domain.User{{ID: "u1"}},
	)

	if index.GameCount() != 2 || index.ReviewCount() != 1 {
		t.Fatalf("Replace() counts = %d games, %d reviews", index.GameCount(), index.ReviewCount())
	}
	if index.GetLastReload().IsZero() {
		t.Error("Replace() should set last reload")
	}

	g := &domain.Game{Name: "Wingspan"}
	_ = index.Games().Save(ctx, g)
	if g.ID != 8 {
		t.Errorf("Save() after Replace() assigned %d, want 8", g.ID)
	}

	all, _ := index.Games().FindAll(ctx)
	if all[0].ID != 3 || all[1].ID != 7 || all[2].ID != 8 {
		t.Errorf("FindAll() should be ordered by id")
	}
}

func TestConcurrentAccess(t *testing.T) {
	index := NewMemoryIndex()
	games := index.Games()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = games.Save(ctx, &domain.Game{Name: "game"})
		}()
		go func() {
			defer wg.Done()
			_, _ = games.FindAll(ctx)
			_ = index.GameCount()
		}()
	}
	wg.Wait()

	if index.GameCount() != 50 {
		t.Errorf("GameCount() = %d, want 50", index.GameCount())
	}
}
