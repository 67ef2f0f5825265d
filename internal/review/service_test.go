package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/index"
	"github.com/MrSnakeDoc/bgr/internal/logger"
)

type fixture struct {
	idx *index.MemoryIndex
	svc *Service
}

func newFixture(t *testing.T, policy ContentPolicy) fixture {
	t.Helper()
	ctx := context.Background()
	idx := index.NewMemoryIndex()

	idx.Games().Put(&domain.Game{ID: 1, BGGID: "266192", Name: "Wingspan", MinPlayers: domain.IntPtr(1), MaxPlayers: domain.IntPtr(5)})
	for _, u := range []domain.User{
		{ID: "alice", Email: "alice@example.com", IsActive: true, EmailVerified: true},
		{ID: "bob", Email: "bob@example.com", IsActive: true, EmailVerified: true},
		{ID: "root", Email: "root@example.com", IsActive: true, EmailVerified: true, IsAdmin: true},
		{ID: "idle", Email: "idle@example.com", IsActive: false, EmailVerified: true},
		{ID: "fresh", Email: "fresh@example.com", IsActive: true, EmailVerified: false},
	} {
		require.NoError(t, idx.Users().Save(ctx, &u))
	}

	v := NewValidator(idx.Reviews(), policy, logger.Nop())
	return fixture{
		idx: idx,
		svc: NewService(idx.Reviews(), idx.Users(), idx.Games(), v, logger.Nop()),
	}
}

func goodReview() domain.Review {
	return domain.Review{
		GameID:         1,
		Title:          "Lovely engine builder with birds",
		Content:        "Every round you feel your engine grow a little more, and the last round is tense.",
		OverallScore:   8,
		RuleComplexity: 3,
		LuckFactor:     2,
		Interaction:    3,
		Downtime:       3,
		Pros:           []string{"beautiful art", "satisfying combos"},
		Cons:           []string{"long setup"},
	}
}

func conflictRule(t *testing.T, err error) string {
	t.Helper()
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	return conflict.Rule
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	r, err := f.svc.Submit(ctx, "alice", goodReview())
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "alice", r.UserID)
	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, 1, f.idx.ReviewCount())

	stored, err := f.idx.Reviews().FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Title, stored.Title)

	_, err = f.svc.Submit(ctx, "alice", goodReview())
	assert.Equal(t, domain.RuleUniqueness, conflictRule(t, err))
	assert.EqualError(t, err, "User has already reviewed this game")

	_, err = f.svc.Submit(ctx, "bob", goodReview())
	require.NoError(t, err)
	assert.Equal(t, 2, f.idx.ReviewCount())
}

func TestSubmitRejected(t *testing.T) {
	tests := []struct {
		name   string
		actor  string
		edit   func(r *domain.Review)
		rule   string
		reason string
	}{
		{"inactive", "idle", nil, domain.RulePermission, "Inactive users cannot create or update reviews"},
		{"unverified", "fresh", nil, domain.RulePermission, "Email verification required to create reviews"},
		{"someone else's name", "alice", func(r *domain.Review) { r.UserID = "bob" }, domain.RulePermission, "User ID mismatch in review"},
		{"short title", "alice", func(r *domain.Review) { r.Title = "Meh" }, domain.RuleQuality,
			"Review title should be at least 5 characters for better quality"},
		{"repetitive", "alice", func(r *domain.Review) { r.Content = strings.Repeat("a ", 30) }, domain.RuleQuality,
			"Review content has too much repetition"},
		{"contact", "alice", func(r *domain.Review) { r.Content += " Mail me: seller@example.com" }, domain.RuleAbuse,
			"Review cannot contain contact information"},
		{"inconsistent ratings", "alice", func(r *domain.Review) {
			r.OverallScore, r.RuleComplexity, r.LuckFactor, r.Interaction, r.Downtime = 9, 1, 1, 5, 5
		}, domain.RuleConsistency, "High overall score inconsistent with detailed ratings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			in := goodReview()
			if tt.edit != nil {
				tt.edit(&in)
			}

			_, err := f.svc.Submit(context.Background(), tt.actor, in)
			assert.Equal(t, tt.rule, conflictRule(t, err))
			assert.EqualError(t, err, tt.reason)
			assert.Zero(t, f.idx.ReviewCount())
		})
	}
}

func TestSubmitLookupErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.svc.Submit(ctx, "", goodReview())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Submit(ctx, "ghost", goodReview())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	in := goodReview()
	in.GameID = 99
	_, err = f.svc.Submit(ctx, "alice", in)
	assert.True(t, domain.IsNotFound(err))

	in = goodReview()
	in.OverallScore = 11
	_, err = f.svc.Submit(ctx, "alice", in)
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.HasField("overall_score"))
}

type denyAll struct{ calls int }

func (d *denyAll) Check(title, content string) error {
	d.calls++
	return domain.Conflict(domain.RuleAbuse, "blocked")
}

func TestSubmitUsesPolicy(t *testing.T) {
	policy := &denyAll{}
	f := newFixture(t, policy)

	_, err := f.svc.Submit(context.Background(), "alice", goodReview())
	assert.EqualError(t, err, "blocked")
	assert.Equal(t, 1, policy.calls)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	r, err := f.svc.Submit(ctx, "alice", goodReview())
	require.NoError(t, err)

	title := "Still a lovely engine builder"
	updated, err := f.svc.Update(ctx, "alice", r.ID, domain.ReviewPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, r.ID, updated.ID)
	assert.Equal(t, 1, f.idx.ReviewCount())

	_, err = f.svc.Update(ctx, "bob", r.ID, domain.ReviewPatch{Title: &title})
	assert.Equal(t, domain.RulePermission, conflictRule(t, err))
	assert.EqualError(t, err, "Users can only edit their own reviews")

	admin := "Moderated engine builder review"
	updated, err = f.svc.Update(ctx, "root", r.ID, domain.ReviewPatch{Title: &admin})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.UserID)

	short := "Bad"
	_, err = f.svc.Update(ctx, "alice", r.ID, domain.ReviewPatch{Title: &short})
	assert.Equal(t, domain.RuleQuality, conflictRule(t, err))

	stored, err := f.idx.Reviews().FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, admin, stored.Title)

	_, err = f.svc.Update(ctx, "alice", "missing", domain.ReviewPatch{Title: &title})
	assert.True(t, domain.IsNotFound(err))
}

func TestValidatorRequiresActor(t *testing.T) {
	v := NewValidator(nil, nil, nil)
	err := v.ValidatePermissions(&domain.Review{}, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
