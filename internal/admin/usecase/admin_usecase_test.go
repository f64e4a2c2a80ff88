package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	authdomain "examprep-backend/internal/auth/domain"
	authrepo "examprep-backend/internal/auth/repository"
	contentdomain "examprep-backend/internal/content/domain"
	contentrepo "examprep-backend/internal/content/repository"
	"examprep-backend/pkg/apperror"
	"examprep-backend/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type prefixHasher struct{}

func (prefixHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

type fixture struct {
	uc     AdminUsecase
	users  authrepo.UserRepository
	papers contentrepo.PaperRepository
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	f := &fixture{
		users:  authrepo.NewUserRepository(s),
		papers: contentrepo.NewPaperRepository(s),
		now:    time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC),
	}
	f.uc = NewAdminUsecase(f.users, f.papers, contentrepo.NewGuideRepository(s), prefixHasher{}, zap.NewNop(),
		WithClock(func() time.Time { return f.now }))

	require.NoError(t, f.users.Create(context.Background(), &authdomain.User{
		Profile: authdomain.Profile{
			ID: "u1", FullName: "Ada", Email: "ada@x.com",
			Role: authdomain.RoleUser, SubscriptionStatus: authdomain.SubscriptionFree, Streak: 4,
		},
		Password: "hashed:old",
	}))
	return f
}

func TestSaveUser_MergesPatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	profile, err := f.uc.SaveUser(ctx, "u1", json.RawMessage(`{"id":"other","fullName":"Ada L","role":"admin"}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, "Ada L", profile.FullName)
	assert.Equal(t, authdomain.RoleAdmin, profile.Role)
	assert.Equal(t, 4, profile.Streak)

	stored, err := f.users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hashed:old", stored.Password)
}

func TestSaveUser_CreatesAndHashesPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	profile, err := f.uc.SaveUser(ctx, "", json.RawMessage(`{"fullName":"Bob","email":" Bob@X.com ","password":"Secret123"}`))
	require.NoError(t, err)
	assert.Equal(t, "1715333400000", profile.ID)
	assert.Equal(t, "bob@x.com", profile.Email)
	assert.Equal(t, authdomain.RoleUser, profile.Role)
	assert.Equal(t, authdomain.SubscriptionFree, profile.SubscriptionStatus)
	assert.Equal(t, "2024-05-10T09:30:00.000Z", profile.CreatedAt)

	stored, err := f.users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "hashed:Secret123", stored.Password)
}

func TestSaveUser_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name  string
		patch string
		kind  apperror.Kind
	}{
		{name: "not an object", patch: `[1,2]`, kind: apperror.KindValidation},
		{name: "missing email", patch: `{"fullName":"No Mail"}`, kind: apperror.KindValidation},
		{name: "duplicate email", patch: `{"email":"ADA@x.com"}`, kind: apperror.KindConflict},
		{name: "bad role", patch: `{"email":"c@x.com","role":"root"}`, kind: apperror.KindValidation},
		{name: "bad subscription", patch: `{"email":"c@x.com","subscriptionStatus":"gold"}`, kind: apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.SaveUser(ctx, "", json.RawMessage(tt.patch))
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpdateSubscriptionAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	profile, err := f.uc.UpdateSubscription(ctx, "u1", authdomain.SubscriptionPremium)
	require.NoError(t, err)
	assert.Equal(t, authdomain.SubscriptionPremium, profile.SubscriptionStatus)

	_, err = f.uc.UpdateSubscription(ctx, "missing", authdomain.SubscriptionTrial)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, f.uc.DeleteUser(ctx, "u1"))
	assert.ErrorIs(t, f.uc.DeleteUser(ctx, "u1"), ErrUserNotFound)
}

func TestPapersAndQuestions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	paper, err := f.uc.SavePaper(ctx, "", json.RawMessage(`{"title":"Physics 2022","subject":"Physics"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, paper.ID)
	assert.NotNil(t, paper.Questions)
	assert.Equal(t, "2024-05-10T09:30:00.000Z", paper.CreatedAt)

	f.now = f.now.Add(time.Minute)
	updated, err := f.uc.SavePaper(ctx, paper.ID, json.RawMessage(`{"duration":60}`))
	require.NoError(t, err)
	assert.Equal(t, "Physics 2022", updated.Title)
	assert.Equal(t, 60, updated.Duration)
	assert.Equal(t, "2024-05-10T09:31:00.000Z", updated.UpdatedAt)

	withQ, err := f.uc.SaveQuestion(ctx, paper.ID, json.RawMessage(`{"text":"What is force?"}`))
	require.NoError(t, err)
	require.Len(t, withQ.Questions, 1)
	q := withQ.Questions[0]
	assert.Equal(t, paper.ID+"-q-1715333460000", q.ID)

	withQ, err = f.uc.SaveQuestion(ctx, paper.ID, json.RawMessage(`{"id":"`+q.ID+`","explanation":"mass times acceleration"}`))
	require.NoError(t, err)
	require.Len(t, withQ.Questions, 1)
	assert.Equal(t, "What is force?", withQ.Questions[0].Text)
	assert.Equal(t, "mass times acceleration", withQ.Questions[0].Explanation)

	_, err = f.uc.SaveQuestion(ctx, "missing", json.RawMessage(`{"text":"x"}`))
	assert.ErrorIs(t, err, ErrPaperNotFound)

	stats := f.uc.Stats(ctx)
	assert.Equal(t, Stats{Users: 1, Papers: 1, Questions: 1, Guides: 0}, stats)

	require.NoError(t, f.uc.DeletePaper(ctx, paper.ID))
	assert.ErrorIs(t, f.uc.DeletePaper(ctx, paper.ID), ErrPaperNotFound)
	assert.Empty(t, f.uc.ListPapers(ctx))
}

func TestGuides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	guide, err := f.uc.SaveGuide(ctx, "g1", json.RawMessage(`{"title":"Algebra basics","topic":"Math"}`))
	require.NoError(t, err)
	assert.Equal(t, "g1", guide.ID)

	_, err = f.uc.SaveGuide(ctx, "g1", json.RawMessage(`{"content":"x + 1"}`))
	require.NoError(t, err)

	guides := f.uc.ListGuides(ctx)
	require.Len(t, guides, 1)
	assert.Equal(t, contentdomain.Guide{
		ID: "g1", Title: "Algebra basics", Topic: "Math", Content: "x + 1",
		CreatedAt: "2024-05-10T09:30:00.000Z", UpdatedAt: "2024-05-10T09:30:00.000Z",
	}, guides[0])

	require.NoError(t, f.uc.DeleteGuide(ctx, "g1"))
	assert.ErrorIs(t, f.uc.DeleteGuide(ctx, "g1"), ErrGuideNotFound)
}
