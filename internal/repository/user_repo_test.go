package repository

import (
	"context"
	"testing"

	"photogallery/internal/entity"
	"photogallery/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryGetOrCreateByEmailCreatesProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, created, err := repo.GetOrCreateByEmail(ctx, "jane@x.com", "jane")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, entity.UserRoleUser, user.Role)
	require.NotNil(t, user.Profile)
	assert.False(t, user.Profile.IsProfileComplete)
	assert.Equal(t, entity.GenderOther, user.Profile.Gender)

	again, created, err := repo.GetOrCreateByEmail(ctx, "jane@x.com", "ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "jane", again.Username)

	var profiles int64
	require.NoError(t, db.Model(&entity.UserProfile{}).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)
}

func TestUserRepositoryLookups(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()

	user, _, err := repo.GetOrCreateByEmail(ctx, "jane@x.com", "jane")
	require.NoError(t, err)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.NotNil(t, byID.Profile)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := repo.UsernameExists(ctx, "jane")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.UsernameExists(ctx, "john")
	require.NoError(t, err)
	assert.False(t, exists)

	users, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestProfileRepositoryUpdatesAndCompletes(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user, _, err := users.GetOrCreateByEmail(ctx, "jane@x.com", "jane")
	require.NoError(t, err)

	profile, err := profiles.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Profile.ID, profile.ID)

	require.NoError(t, profiles.UpdateFields(ctx, profile.ID, map[string]any{"name": "Jane"}))
	require.NoError(t, profiles.MarkComplete(ctx, profile.ID))

	stored, err := profiles.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Name)
	assert.True(t, stored.IsProfileComplete)
	assert.Equal(t, entity.GenderOther, stored.Gender)
}
