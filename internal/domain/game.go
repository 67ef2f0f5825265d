package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Game is an admitted catalog entry.
//
// Vendor taxonomy (BGG*) and site taxonomy (Site*) are kept side by side;
// each list is duplicate free.
type Game struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is assigned by the repository on Save.
	ID int64 `json:"id"`

	// BGGID is the remote catalog id, or "jp-<n>" for site-local entries.
	BGGID string `json:"bgg_id,omitempty"`

	Name         string `json:"name" validate:"required,max=500"`
	JapaneseName string `json:"japanese_name,omitempty" validate:"max=500"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Description         string `json:"description,omitempty"`
	YearPublished       *int   `json:"year_published,omitempty" validate:"omitempty,catalogyear"`
	JapaneseReleaseDate string `json:"japanese_release_date,omitempty"`
	MinPlayers          *int   `json:"min_players,omitempty" validate:"omitempty,gte=1"`
	MaxPlayers          *int   `json:"max_players,omitempty" validate:"omitempty,gte=1"`
	PlayingTime         *int   `json:"playing_time,omitempty" validate:"omitempty,gte=0"`
	MinPlayTime         *int   `json:"min_play_time,omitempty" validate:"omitempty,gte=0"`
	MaxPlayTime         *int   `json:"max_play_time,omitempty" validate:"omitempty,gte=0"`
	MinAge              *int   `json:"min_age,omitempty" validate:"omitempty,gte=0,lte=99"`
	ImageURL            string `json:"image_url,omitempty"`
	ThumbnailURL        string `json:"thumbnail_url,omitempty"`
	JapaneseImageURL    string `json:"japanese_image_url,omitempty"`

	// ─────────────────────────────
	// People
	// ─────────────────────────────

	Designers         []string `json:"designers,omitempty"`
	Publishers        []string `json:"publishers,omitempty"`
	JapanesePublisher string   `json:"japanese_publisher,omitempty"`

	// ─────────────────────────────
	// Taxonomy
	// ─────────────────────────────

	BGGCategories   []string `json:"bgg_categories,omitempty" validate:"unique"`
	BGGMechanics    []string `json:"bgg_mechanics,omitempty" validate:"unique"`
	SiteCategories  []string `json:"site_categories,omitempty" validate:"unique"`
	SiteMechanics   []string `json:"site_mechanics,omitempty" validate:"unique"`
	PlayerCountTags []string `json:"player_count_tags,omitempty" validate:"unique"`

	BestPlayerCounts        []int `json:"best_player_counts,omitempty"`
	RecommendedPlayerCounts []int `json:"recommended_player_counts,omitempty"`

	// ─────────────────────────────
	// Community
	// ─────────────────────────────

	RatingAverage *float64 `json:"rating_average,omitempty" validate:"omitempty,gte=0,lte=10"`
	RatingCount   int      `json:"rating_count,omitempty" validate:"gte=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGame validates g and returns an independent copy of it.
func NewGame(g Game) (*Game, error) {
	g.Name = strings.TrimSpace(g.Name)
	g.JapaneseName = strings.TrimSpace(g.JapaneseName)

	var extra []FieldError
	if g.MinPlayers != nil && g.MaxPlayers != nil && *g.MinPlayers > *g.MaxPlayers {
		extra = append(extra, fieldError("min_players", "ltefield", "min_players must not exceed max_players"))
	}
	if g.MinPlayTime != nil && g.MaxPlayTime != nil && *g.MinPlayTime > *g.MaxPlayTime {
		extra = append(extra, fieldError("min_play_time", "ltefield", "min_play_time must not exceed max_play_time"))
	}

	if err := validateStruct("game", &g, extra...); err != nil {
		return nil, err
	}

	out := g.Clone()
	return &out, nil
}

// Clone returns a deep copy of g.
func (g Game) Clone() Game {
	c := g
	c.YearPublished = cloneInt(g.YearPublished)
	c.MinPlayers = cloneInt(g.MinPlayers)
	c.MaxPlayers = cloneInt(g.MaxPlayers)
	c.PlayingTime = cloneInt(g.PlayingTime)
	c.MinPlayTime = cloneInt(g.MinPlayTime)
	c.MaxPlayTime = cloneInt(g.MaxPlayTime)
	c.MinAge = cloneInt(g.MinAge)
	if g.RatingAverage != nil {
		v := *g.RatingAverage
		c.RatingAverage = &v
	}
	c.Designers = slices.Clone(g.Designers)
	c.Publishers = slices.Clone(g.Publishers)
	c.BGGCategories = slices.Clone(g.BGGCategories)
	c.BGGMechanics = slices.Clone(g.BGGMechanics)
	c.SiteCategories = slices.Clone(g.SiteCategories)
	c.SiteMechanics = slices.Clone(g.SiteMechanics)
	c.PlayerCountTags = slices.Clone(g.PlayerCountTags)
	c.BestPlayerCounts = slices.Clone(g.BestPlayerCounts)
	c.RecommendedPlayerCounts = slices.Clone(g.RecommendedPlayerCounts)
	return c
}

// HasJapaneseName reports whether a localized title is known.
func (g *Game) HasJapaneseName() bool { return g.JapaneseName != "" }

// ExternalID returns the numeric remote id, or 0 for site-local entries.
func (g *Game) ExternalID() int64 {
	id, err := strconv.ParseInt(g.BGGID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
