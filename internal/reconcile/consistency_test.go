package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/index"
)

func TestCheckConsistency(t *testing.T) {
	many := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("tag-%d", i)
		}
		return out
	}

	tests := []struct {
		name    string
		game    domain.Game
		wantErr string
	}{
		{"valid", domain.Game{Name: "Azul", ImageURL: "https://x/y.png"}, ""},
		{"players inverted", domain.Game{MinPlayers: domain.IntPtr(4), MaxPlayers: domain.IntPtr(2)}, "Minimum players"},
		{"year too old", domain.Game{YearPublished: domain.IntPtr(1799)}, "before 1800"},
		{"year too far", domain.Game{YearPublished: domain.IntPtr(domain.MaxCatalogYear() + 1)}, "future"},
		{"negative time", domain.Game{PlayingTime: domain.IntPtr(-1)}, "Playing time"},
		{"age out of range", domain.Game{MinAge: domain.IntPtr(120)}, "Minimum age"},
		{"duplicate vendor category", domain.Game{BGGCategories: []string{"Dice", "Dice"}}, "BGG categories contain duplicates"},
		{"duplicate site mechanic", domain.Game{SiteMechanics: []string{"協力", "協力"}}, "Site mechanics contain duplicates"},
		{"too many categories", domain.Game{SiteCategories: many(11)}, "more than 10 site categories"},
		{"too many mechanics", domain.Game{SiteMechanics: many(16)}, "more than 15 site mechanics"},
		{"ftp image", domain.Game{ImageURL: "ftp://x/y.png"}, "HTTP or HTTPS"},
		{"garbage thumbnail", domain.Game{ThumbnailURL: "not a url"}, "not a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConsistency(&tt.game)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var conflict *domain.ConflictError
			require.True(t, errors.As(err, &conflict), "got %v", err)
			assert.Equal(t, domain.RuleConsistency, conflict.Rule)
			assert.Contains(t, conflict.Reason, tt.wantErr)
		})
	}
}

func TestCheckCatalogID(t *testing.T) {
	ctx := context.Background()
	games := index.NewMemoryIndex().Games()
	owner := &domain.Game{Name: "Catan", BGGID: "13"}
	require.NoError(t, games.Save(ctx, owner))

	tests := []struct {
		name    string
		bggID   string
		selfID  int64
		wantErr bool
	}{
		{"local id", "jp-12", 0, false},
		{"bad local id", "jp-abc", 0, true},
		{"empty", "", 0, true},
		{"not a number", "abc", 0, true},
		{"negative", "-1", 0, true},
		{"free id", "14", 0, false},
		{"owned by another game", "13", 0, true},
		{"owned by itself", "13", owner.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCatalogID(ctx, games, tt.bggID, tt.selfID)
			if tt.wantErr {
				var conflict *domain.ConflictError
				assert.True(t, errors.As(err, &conflict), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
