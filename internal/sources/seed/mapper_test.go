package seed

import (
	"testing"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

func TestMap(t *testing.T) {
	unverified := false
	f := &File{
		Games: []int64{224517, 0, 266192, 224517},
		LocalGames: []LocalGame{
			{Name: "Hanamikoji", BGGID: "jp-1", MinPlayers: domain.IntPtr(2), MaxPlayers: domain.IntPtr(2)},
			{Name: "", BGGID: "jp-2"},
			{Name: "Broken", MinPlayers: domain.IntPtr(4), MaxPlayers: domain.IntPtr(2)},
		},
		Users: []User{
			{ID: "admin", Email: "admin@example.com", IsAdmin: true},
			{ID: "guest", Email: "guest@example.com", EmailVerified: &unverified, Inactive: true},
			{ID: "admin", Email: "other@example.com"},
			{ID: "nomail"},
		},
	}

	p, err := Map(f)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if want := []int64{224517, 266192}; len(p.ExternalIDs) != 2 || p.ExternalIDs[0] != want[0] || p.ExternalIDs[1] != want[1] {
		t.Errorf("ExternalIDs = %v, want %v", p.ExternalIDs, want)
	}
	if len(p.Games) != 1 || p.Games[0].Name != "Hanamikoji" {
		t.Errorf("Games = %+v", p.Games)
	}
	if len(p.Users) != 2 {
		t.Fatalf("Users = %+v", p.Users)
	}
	if admin := p.Users[0]; !admin.IsAdmin || !admin.IsActive || !admin.EmailVerified {
		t.Errorf("admin = %+v, want active verified admin", admin)
	}
	if guest := p.Users[1]; guest.IsActive || guest.EmailVerified {
		t.Errorf("guest = %+v, want inactive unverified", guest)
	}

	// 0, duplicate 224517, nameless game, min > max, duplicate admin, missing email
	if len(p.Skipped) != 6 {
		t.Errorf("Skipped = %d entries, want 6: %v", len(p.Skipped), p.Skipped)
	}
}

func TestMapEmpty(t *testing.T) {
	if _, err := Map(&File{Games: []int64{-1}}); err == nil {
		t.Error("Map() with no valid entry should return error")
	}
	if _, err := Map(&File{}); err == nil {
		t.Error("Map() with empty file should return error")
	}
}
