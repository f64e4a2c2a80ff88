package repository

import (
	"context"
	"testing"

	authdomain "examprep-backend/internal/auth/domain"
	"examprep-backend/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id, email string) *authdomain.User {
	return &authdomain.User{
		Profile: authdomain.Profile{
			ID:    id,
			Email: email,
			Role:  authdomain.RoleUser,
		},
		Password: "$2a$04$hash",
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore())

	require.NoError(t, repo.Create(ctx, newUser("1", "a@x.com")))
	require.NoError(t, repo.Create(ctx, newUser("2", "b@x.com")))

	u, err := repo.FindByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "$2a$04$hash", u.Password)

	missing, err := repo.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.Nil(t, missing)

	u.FullName = "Ada"
	require.NoError(t, repo.Update(ctx, u))
	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FullName)

	assert.ErrorIs(t, repo.Update(ctx, newUser("9", "z@x.com")), ErrUserNotFound)

	require.NoError(t, repo.Delete(ctx, "1"))
	assert.ErrorIs(t, repo.Delete(ctx, "1"), ErrUserNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2", all[0].ID)
}
