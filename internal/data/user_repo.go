// Package data provides database repositories. The users table is owned by
// the bot process; the dashboard only reads from it.
package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/Axelware/Life-dashboard/internal/data/pgxutil"
	apperrors "github.com/Axelware/Life-dashboard/internal/errors"
)

// UserRepo provides read access to bot-owned user rows.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userSpotifyTokenQuery = `
	SELECT spotify_refresh_token
	FROM users
	WHERE id = $1`

// SpotifyRefreshToken returns the stored Spotify refresh token for a user.
// An unknown user maps to a NotFound AppError; a known user without a
// linked account yields an empty string.
func (r *UserRepo) SpotifyRefreshToken(ctx context.Context, userID int64) (string, error) {
	var token *string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, userSpotifyTokenQuery, userID).Scan(&token)
	})
	if err != nil {
		return "", apperrors.MapDBError(err)
	}
	if token == nil {
		return "", nil
	}
	return *token, nil
}
