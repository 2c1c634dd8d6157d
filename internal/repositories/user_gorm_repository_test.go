package repositories_test

import (
	"context"
	"testing"

	"resto/internal/models"
	"resto/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "chef", Email: "chef@example.com", Password: "hash", Role: models.RoleStaff}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "chef@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.GetByUsername(ctx, "chef")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	dup := &models.User{Username: "chef", Email: "other@example.com", Password: "hash", Role: models.RoleStaff}
	assert.ErrorIs(t, repo.Create(ctx, dup), models.ErrDuplicate)

	user.Username = "headchef"
	require.NoError(t, repo.Update(ctx, user))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "headchef", got.Username)
}
