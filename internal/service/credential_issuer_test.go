package service

import (
	"context"
	"testing"
	"time"

	"photogallery/internal/entity"
	"photogallery/internal/repository"
	"photogallery/internal/testutil"
	"photogallery/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T, ttl time.Duration) (*TokenService, repository.UserRepository, *testutil.FixedClock) {
	t.Helper()
	db := testutil.NewDB(t)
	clock := &testutil.FixedClock{Current: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)}
	users := repository.NewUserRepository(db)
	jwt := &utils.JWTManager{Secret: []byte("test-secret"), Issuer: "photogallery", Now: clock.Now}
	return NewTokenService(repository.NewTokenRepository(db), users, jwt, clock, ttl), users, clock
}

func createUser(t *testing.T, users repository.UserRepository, email string) *entity.User {
	t.Helper()
	user, created, err := users.GetOrCreateByEmail(context.Background(), email, utils.UsernameFromEmail(email))
	require.NoError(t, err)
	require.True(t, created)
	return user
}

func TestIssueOrGetReturnsSameToken(t *testing.T) {
	tokens, users, clock := newTokenService(t, 0)
	user := createUser(t, users, "a@x.com")

	first, err := tokens.IssueOrGet(context.Background(), user)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := tokens.IssueOrGet(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	owner, err := tokens.Authenticate(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner.ID)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	tokens, users, _ := newTokenService(t, 0)
	user := createUser(t, users, "a@x.com")

	token, err := tokens.IssueOrGet(context.Background(), user)
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(context.Background(), user.ID))

	_, err = tokens.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	fresh, err := tokens.IssueOrGet(context.Background(), user)
	require.NoError(t, err)
	assert.NotEqual(t, token, fresh)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	tokens, _, _ := newTokenService(t, 0)
	for _, bearer := range []string{"", "abc", "a.b.c"} {
		_, err := tokens.Authenticate(context.Background(), bearer)
		assert.ErrorIs(t, err, ErrUnauthorized, bearer)
	}
}

func TestExpiredTokenIsReplaced(t *testing.T) {
	tokens, users, clock := newTokenService(t, time.Hour)
	user := createUser(t, users, "a@x.com")

	old, err := tokens.IssueOrGet(context.Background(), user)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = tokens.Authenticate(context.Background(), old)
	assert.ErrorIs(t, err, ErrUnauthorized)

	fresh, err := tokens.IssueOrGet(context.Background(), user)
	require.NoError(t, err)
	assert.NotEqual(t, old, fresh)

	owner, err := tokens.Authenticate(context.Background(), fresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner.ID)
}
