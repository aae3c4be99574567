package repository

import (
	"testing"
	"time"

	authdomain "mail-calendar-agent/internal/auth/domain"
	"mail-calendar-agent/pkg/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) UserRepository {
	return NewUserRepository(dbtest.New(t, &authdomain.User{}))
}

func TestFindByEmailMissing(t *testing.T) {
	user, err := newTestRepo(t).FindByEmail("nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at1", RefreshToken: "rt1"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "rt1", created.RefreshToken)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	updated, err := repo.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at2", TokenExpiry: &expiry})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "at2", updated.AccessToken)
	assert.Equal(t, "rt1", updated.RefreshToken, "refresh token kept when none supplied")
	require.NotNil(t, updated.TokenExpiry)
	assert.True(t, expiry.Equal(*updated.TokenExpiry))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertReplacesRefreshToken(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at1", RefreshToken: "rt1"})
	require.NoError(t, err)

	updated, err := repo.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at2", RefreshToken: "rt2"})

	require.NoError(t, err)
	assert.Equal(t, "rt2", updated.RefreshToken)
}

func TestUpdateTokens(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at1", RefreshToken: "rt1"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTokens("a@example.com", "at9", "", nil))

	user, err := repo.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "at9", user.AccessToken)
	assert.Equal(t, "rt1", user.RefreshToken)
}

func TestList(t *testing.T) {
	repo := newTestRepo(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := repo.Upsert(&authdomain.User{Email: email, AccessToken: "x"})
		require.NoError(t, err)
	}

	all, err := repo.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := repo.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
