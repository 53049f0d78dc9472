package ports

// Package ports defines interfaces (hexagonal ports) for the identity cache
// and its collaborators. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
)

// SessionStore persists and retrieves per-browser session records.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// IdentityClient talks to the remote identity provider on behalf of a user.
// It covers exactly the three upstream calls the session caches make.
type IdentityClient interface {
	// RefreshToken exchanges a refresh token for a new credential pair.
	// The returned Token has no ObtainedAt stamp; the caller owns the clock.
	RefreshToken(ctx context.Context, refreshToken string) (domainauth.Token, error)

	// CurrentUser fetches the profile of the token's owner.
	CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error)

	// CurrentUserGuilds fetches the full guild list of the token's owner.
	CurrentUserGuilds(ctx context.Context, accessToken string) ([]domainauth.Guild, error)
}

// BotLink is the IPC channel to the bot process.
type BotLink interface {
	// MutualGuildIDs returns the IDs of guilds the user shares with the bot.
	MutualGuildIDs(ctx context.Context, userID int64) ([]int64, error)

	// Links returns the bot's public URLs (support server, invite, ...).
	Links(ctx context.Context) (map[string]string, error)
}

// UserRepository reads bot-owned user rows holding third-party credentials.
type UserRepository interface {
	// SpotifyRefreshToken returns the stored Spotify refresh token for a
	// user, or an empty string when the account is not linked.
	SpotifyRefreshToken(ctx context.Context, userID int64) (string, error)
}
