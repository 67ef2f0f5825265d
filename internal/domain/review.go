package domain

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Review limits.
const (
	MaxReviewTitle   = 200
	MaxReviewContent = 10000
	MaxCustomTags    = 10
	MaxProsCons      = 10
)

// Review is a user's assessment of one game. Reviews are only changed through Update,
// which re-validates the merged state.
type Review struct {
	ID     string `json:"id"`
	UserID string `json:"user_id" validate:"required"`
	GameID int64  `json:"game_id" validate:"gt=0"`

	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content,omitempty" validate:"max=10000"`

	// ─────────────────────────────
	// Ratings
	// ─────────────────────────────

	OverallScore   float64 `json:"overall_score" validate:"gte=1,lte=10"`
	RuleComplexity int     `json:"rule_complexity" validate:"gte=1,lte=5"`
	LuckFactor     int     `json:"luck_factor" validate:"gte=1,lte=5"`
	Interaction    int     `json:"interaction" validate:"gte=1,lte=5"`
	Downtime       int     `json:"downtime" validate:"gte=1,lte=5"`

	// ─────────────────────────────
	// Play experience
	// ─────────────────────────────

	PlayTimeActual     *int     `json:"play_time_actual,omitempty" validate:"omitempty,gte=1,lte=1440"`
	PlayerCountPlayed  *int     `json:"player_count_played,omitempty" validate:"omitempty,gte=1,lte=20"`
	RecommendedPlayers []string `json:"recommended_players,omitempty"`

	Mechanics  []string `json:"mechanics,omitempty"`
	Categories []string `json:"categories,omitempty"`
	CustomTags []string `json:"custom_tags,omitempty" validate:"max=10,dive,min=1,max=50"`
	Pros       []string `json:"pros,omitempty" validate:"max=10,dive,min=1,max=200"`
	Cons       []string `json:"cons,omitempty" validate:"max=10,dive,min=1,max=200"`

	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewReview trims free text fields, validates r and returns a copy.
func NewReview(r Review) (*Review, error) {
	r = r.normalized()

	var extra []FieldError
	seen := make(map[string]bool, len(r.CustomTags))
	for _, tag := range r.CustomTags {
		key := strings.ToLower(tag)
		if seen[key] {
			extra = append(extra, fieldError("custom_tags", "unique", "custom_tags must be unique (case-insensitive): "+tag))
			break
		}
		seen[key] = true
	}

	if err := validateStruct("review", &r, extra...); err != nil {
		return nil, err
	}

	out := r.Clone()
	return &out, nil
}

// ReviewPatch holds the fields an update may change. Nil means unchanged.
type ReviewPatch struct {
	Title              *string   `json:"title,omitempty"`
	Content            *string   `json:"content,omitempty"`
	OverallScore       *float64  `json:"overall_score,omitempty"`
	RuleComplexity     *int      `json:"rule_complexity,omitempty"`
	LuckFactor         *int      `json:"luck_factor,omitempty"`
	Interaction        *int      `json:"interaction,omitempty"`
	Downtime           *int      `json:"downtime,omitempty"`
	PlayTimeActual     *int      `json:"play_time_actual,omitempty"`
	PlayerCountPlayed  *int      `json:"player_count_played,omitempty"`
	RecommendedPlayers *[]string `json:"recommended_players,omitempty"`
	Mechanics          *[]string `json:"mechanics,omitempty"`
	Categories         *[]string `json:"categories,omitempty"`
	CustomTags         *[]string `json:"custom_tags,omitempty"`
	Pros               *[]string `json:"pros,omitempty"`
	Cons               *[]string `json:"cons,omitempty"`
	IsPublished        *bool     `json:"is_published,omitempty"`
}

// Update merges p into a copy of r and validates the whole result.
// UserID and GameID cannot change.
func (r *Review) Update(p ReviewPatch) (*Review, error) {
	m := r.Clone()
	setIf(&m.Title, p.Title)
	setIf(&m.Content, p.Content)
	setIf(&m.OverallScore, p.OverallScore)
	setIf(&m.RuleComplexity, p.RuleComplexity)
	setIf(&m.LuckFactor, p.LuckFactor)
	setIf(&m.Interaction, p.Interaction)
	setIf(&m.Downtime, p.Downtime)
	setIf(&m.RecommendedPlayers, p.RecommendedPlayers)
	setIf(&m.Mechanics, p.Mechanics)
	setIf(&m.Categories, p.Categories)
	setIf(&m.CustomTags, p.CustomTags)
	setIf(&m.Pros, p.Pros)
	setIf(&m.Cons, p.Cons)
	setIf(&m.IsPublished, p.IsPublished)
	if p.PlayTimeActual != nil {
		m.PlayTimeActual = cloneInt(p.PlayTimeActual)
	}
	if p.PlayerCountPlayed != nil {
		m.PlayerCountPlayed = cloneInt(p.PlayerCountPlayed)
	}
	m.UpdatedAt = now()

	return NewReview(m)
}

// SubScores returns complexity, luck, interaction and downtime in that order.
func (r *Review) SubScores() [4]int {
	return [4]int{r.RuleComplexity, r.LuckFactor, r.Interaction, r.Downtime}
}

// HasDetailedRatings reports whether every sub-score is set.
func (r *Review) HasDetailedRatings() bool {
	for _, s := range r.SubScores() {
		if s <= 0 {
			return false
		}
	}
	return true
}

// HasPlayExperience reports whether the reviewer recorded how the game was played.
func (r *Review) HasPlayExperience() bool {
	return r.PlayTimeActual != nil || r.PlayerCountPlayed != nil
}

// QualityScore rates how informative the review is, from 0 to 4.
// Title length contributes up to 1, content length up to 2, feature completeness up to 2;
// the 0..5 raw total is scaled to 0..4 and rounded to one decimal.
func (r *Review) QualityScore() float64 {
	var raw float64

	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen >= 10 {
		raw += 0.5
	}
	if titleLen >= 20 {
		raw += 0.5
	}

	contentLen := utf8.RuneCountInString(r.Content)
	for _, step := range []int{100, 500, 1000, 2000} {
		if contentLen >= step {
			raw += 0.5
		}
	}

	var features float64
	for _, present := range []bool{
		len(r.RecommendedPlayers) > 0,
		len(r.Mechanics) > 0,
		len(r.Categories) > 0,
		r.PlayTimeActual != nil,
		r.PlayerCountPlayed != nil,
	} {
		if present {
			features += 0.3
		}
	}
	if len(r.Pros) > 0 {
		features += 0.25
	}
	if len(r.Cons) > 0 {
		features += 0.25
	}
	raw += math.Min(features, 2)

	return math.Round(raw/5*4*10) / 10
}

func (r Review) normalized() Review {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.CustomTags = trimAll(r.CustomTags)
	r.Pros = trimAll(r.Pros)
	r.Cons = trimAll(r.Cons)
	r.RecommendedPlayers = trimAll(r.RecommendedPlayers)
	return r
}

// Clone returns a deep copy of r.
func (r Review) Clone() Review {
	c := r
	c.PlayTimeActual = cloneInt(r.PlayTimeActual)
	c.PlayerCountPlayed = cloneInt(r.PlayerCountPlayed)
	c.RecommendedPlayers = slices.Clone(r.RecommendedPlayers)
	c.Mechanics = slices.Clone(r.Mechanics)
	c.Categories = slices.Clone(r.Categories)
	c.CustomTags = slices.Clone(r.CustomTags)
	c.Pros = slices.Clone(r.Pros)
	c.Cons = slices.Clone(r.Cons)
	return c
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
