package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Axelware/Life-dashboard/internal/errors"
	"github.com/Axelware/Life-dashboard/internal/testutil"
)

// setupUsersTable creates a throwaway users table matching the shape the bot
// maintains, scoped to this test run.
func setupUsersTable(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			spotify_refresh_token TEXT
		)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "DELETE FROM users")
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM users")
	})
}

func TestUserRepoSpotifyRefreshToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("close db: %v", err)
		}
	}()
	setupUsersTable(t, db)

	ctx := context.Background()
	repo := NewUserRepo(db)

	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, spotify_refresh_token)
		VALUES (7, 'spotify-refresh'), (8, NULL)`)
	require.NoError(t, err)

	t.Run("linked user", func(t *testing.T) {
		token, err := repo.SpotifyRefreshToken(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "spotify-refresh", token)
	})

	t.Run("known user without a linked account", func(t *testing.T) {
		token, err := repo.SpotifyRefreshToken(ctx, 8)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.SpotifyRefreshToken(ctx, 999)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	})
}
