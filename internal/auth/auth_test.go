package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-7labs/solitaire-lite/assets"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	migs, err := assets.Migrations()
	require.NoError(t, err)
	for _, m := range migs {
		_, err := db.Exec(m.SQL)
		require.NoError(t, err, m.Name)
	}
	return db
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		user, pw string
		ok       bool
	}{
		{"alice", "password1", true},
		{"al", "password1", false},
		{"alice!", "password1", false},
		{"alice", "short", false},
		{"a_b_c_123", "12345678", true},
	}
	for _, c := range cases {
		err := validateSignup(c.user, c.pw)
		if c.ok {
			assert.NoError(t, err, c.user)
		} else {
			assert.Error(t, err, c.user)
		}
	}
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(openTestDB(t))

	u, err := users.Create(ctx, "  alice ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = users.Create(ctx, "ALICE", "password2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := users.Authenticate(ctx, "Alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = users.Authenticate(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = users.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(openTestDB(t))
	u, err := users.Create(ctx, "bob", "password1")
	require.NoError(t, err)

	require.NoError(t, users.RecordStart(ctx, u.ID, false))
	require.NoError(t, users.RecordWin(ctx, u.ID, 90*time.Second))
	require.NoError(t, users.RecordStart(ctx, u.ID, false))
	require.NoError(t, users.RecordWin(ctx, u.ID, 120*time.Second))

	got, err := users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, 2, got.Wins)
	assert.Equal(t, 2, got.Streak)
	assert.Equal(t, int64(90_000), got.BestMs)

	require.NoError(t, users.RecordStart(ctx, u.ID, true))
	got, err = users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.GamesPlayed)
	assert.Equal(t, 0, got.Streak)

	assert.ErrorIs(t, users.RecordWin(ctx, "ghost", time.Second), ErrNoUser)
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	s, exp, err := tokens.Sign("id-1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := tokens.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, "alice", c.Username)

	_, err = NewTokens("other", time.Hour).Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := NewTokens("secret", -time.Minute).Sign("id-1", "alice")
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
