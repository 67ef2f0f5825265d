package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReview() Review {
	return Review{
		UserID:         "user-1",
		GameID:         42,
		Title:          "  A thoughtful engine builder  ",
		Content:        "Plenty to think about every turn.",
		OverallScore:   8.5,
		RuleComplexity: 3,
		LuckFactor:     2,
		Interaction:    3,
		Downtime:       2,
	}
}

func TestNewReview(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *Review)
		wantField string
	}{
		{name: "valid", mutate: func(r *Review) {}},
		{name: "missing user", mutate: func(r *Review) { r.UserID = "" }, wantField: "user_id"},
		{name: "non positive game", mutate: func(r *Review) { r.GameID = 0 }, wantField: "game_id"},
		{name: "blank title", mutate: func(r *Review) { r.Title = "   " }, wantField: "title"},
		{name: "title too long", mutate: func(r *Review) { r.Title = strings.Repeat("x", 201) }, wantField: "title"},
		{name: "title of 200 runes", mutate: func(r *Review) { r.Title = strings.Repeat("あ", 200) }},
		{name: "content too long", mutate: func(r *Review) { r.Content = strings.Repeat("y", 10001) }, wantField: "content"},
		{name: "overall below 1", mutate: func(r *Review) { r.OverallScore = 0.5 }, wantField: "overall_score"},
		{name: "overall above 10", mutate: func(r *Review) { r.OverallScore = 10.1 }, wantField: "overall_score"},
		{name: "real valued overall", mutate: func(r *Review) { r.OverallScore = 7.3 }},
		{name: "sub score out of range", mutate: func(r *Review) { r.LuckFactor = 6 }, wantField: "luck_factor"},
		{name: "play time too long", mutate: func(r *Review) { r.PlayTimeActual = IntPtr(1441) }, wantField: "play_time_actual"},
		{name: "player count too high", mutate: func(r *Review) { r.PlayerCountPlayed = IntPtr(21) }, wantField: "player_count_played"},
		{
			name:      "too many tags",
			mutate:    func(r *Review) { r.CustomTags = strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",") },
			wantField: "custom_tags",
		},
		{
			name:      "tags unique case insensitive",
			mutate:    func(r *Review) { r.CustomTags = []string{"Family", "family"} },
			wantField: "custom_tags",
		},
		{
			name:      "empty pro after trim",
			mutate:    func(r *Review) { r.Pros = []string{"  "} },
			wantField: "pros[0]",
		},
		{
			name:      "con too long",
			mutate:    func(r *Review) { r.Cons = []string{strings.Repeat("z", 201)} },
			wantField: "cons[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validReview()
			tt.mutate(&in)

			r, err := NewReview(in)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(in.Title), r.Title)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.True(t, verr.HasField(tt.wantField), "fields = %+v", verr.Fields)
		})
	}
}

func TestReviewUpdate(t *testing.T) {
	r, err := NewReview(validReview())
	require.NoError(t, err)

	title := "Even better after five plays"
	updated, err := r.Update(ReviewPatch{Title: &title, PlayTimeActual: IntPtr(75)})
	require.NoError(t, err)

	assert.Equal(t, title, updated.Title)
	assert.Equal(t, 75, *updated.PlayTimeActual)
	assert.Equal(t, r.UserID, updated.UserID)
	assert.Equal(t, r.GameID, updated.GameID)
	assert.Equal(t, "A thoughtful engine builder", r.Title, "original must stay untouched")

	bad := 11.0
	_, err = r.Update(ReviewPatch{OverallScore: &bad})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasField("overall_score"))
}

func TestReviewQualityScore(t *testing.T) {
	tests := []struct {
		name   string
		review Review
		want   float64
	}{
		{
			name:   "bare review",
			review: Review{Title: "short"},
			want:   0,
		},
		{
			name:   "long title only",
			review: Review{Title: strings.Repeat("t", 20)},
			want:   0.8,
		},
		{
			name: "everything",
			review: Review{
				Title:              strings.Repeat("t", 25),
				Content:            strings.Repeat("c", 2500),
				RecommendedPlayers: []string{"3"},
				Mechanics:          []string{"ドラフト"},
				Categories:         []string{"パズル"},
				PlayTimeActual:     IntPtr(60),
				PlayerCountPlayed:  IntPtr(3),
				Pros:               []string{"tight"},
				Cons:               []string{"long setup"},
			},
			want: 4,
		},
		{
			name: "medium content with pros",
			review: Review{
				Title:   strings.Repeat("t", 12),
				Content: strings.Repeat("c", 600),
				Pros:    []string{"good"},
			},
			// 0.5 + 1.0 + 0.25 = 1.75 -> 1.4
			want: 1.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.review.QualityScore()
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 4.0)
		})
	}
}

func TestReviewExperienceHelpers(t *testing.T) {
	r := validReview()
	assert.True(t, r.HasDetailedRatings())
	assert.False(t, r.HasPlayExperience())

	r.PlayerCountPlayed = IntPtr(4)
	assert.True(t, r.HasPlayExperience())

	r.Downtime = 0
	assert.False(t, r.HasDetailedRatings())
}
