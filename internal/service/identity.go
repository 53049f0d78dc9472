// Package service contains the business logic layer for the dashboard: the
// session-backed identity caches and their orchestration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
	apperrors "github.com/Axelware/Life-dashboard/internal/errors"
	"github.com/Axelware/Life-dashboard/internal/ports"
)

// IdentityCacheConfig holds the staleness knobs for the session caches.
type IdentityCacheConfig struct {
	// TokenExpiryMargin is subtracted from the token lifetime so a refresh
	// happens slightly before the provider's own expiry.
	TokenExpiryMargin time.Duration

	// UserTTL is how long a cached profile stays fresh.
	UserTTL time.Duration

	// GuildTTL is how long a cached guild entry stays fresh. The guild
	// list is refetched in full once any entry lapses.
	GuildTTL time.Duration
}

// DefaultIdentityCacheConfig returns an IdentityCacheConfig with sensible defaults.
func DefaultIdentityCacheConfig() IdentityCacheConfig {
	return IdentityCacheConfig{
		TokenExpiryMargin: 30 * time.Second,
		UserTTL:           5 * time.Minute,
		GuildTTL:          5 * time.Minute,
	}
}

// IdentityServiceOptions groups dependencies for IdentityService.
type IdentityServiceOptions struct {
	Discord  ports.IdentityClient
	Sessions ports.SessionStore
	Bot      ports.BotLink
	Config   IdentityCacheConfig
	Logger   *slog.Logger
	Now      func() time.Time // optional, defaults to time.Now
}

// IdentityService owns the per-session identity caches: the OAuth token,
// the user profile, and the guild list. Each layer returns cached data
// while it is fresh, performs exactly one upstream fetch when it is not,
// and persists the result back to the session store in a single write.
//
// A nil return with a nil error consistently means "not logged in".
type IdentityService struct {
	discord  ports.IdentityClient
	sessions ports.SessionStore
	bot      ports.BotLink
	cfg      IdentityCacheConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewIdentityService constructs a new IdentityService.
func NewIdentityService(opts IdentityServiceOptions) *IdentityService {
	cfg := opts.Config
	if cfg == (IdentityCacheConfig{}) {
		cfg = DefaultIdentityCacheConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &IdentityService{
		discord:  opts.Discord,
		sessions: opts.Sessions,
		bot:      opts.Bot,
		cfg:      cfg,
		logger:   logger,
		now:      now,
	}
}

// Token returns the session's OAuth token, refreshing it first when it has
// expired. An unexpired token is returned without any network call; an
// expired one triggers exactly one refresh request.
//
// A definitive rejection by the provider (4xx or an error field) clears
// the stored token so the next request forces a full re-login; transient
// failures leave the stale token in place for a later retry.
func (s *IdentityService) Token(ctx context.Context, sess *domainauth.Session) (*domainauth.Token, error) {
	if sess.Token == nil {
		return nil, nil
	}

	if !sess.Token.Expired(s.now(), s.cfg.TokenExpiryMargin) {
		tok := *sess.Token
		return &tok, nil
	}

	fresh, err := s.discord.RefreshToken(ctx, sess.Token.RefreshToken)
	if err != nil {
		var upstream *apperrors.UpstreamError
		if errors.As(err, &upstream) && upstream.Definitive() {
			sess.Token = nil
			if saveErr := s.sessions.Save(ctx, *sess); saveErr != nil {
				err = errors.Join(err, fmt.Errorf("clear rejected token: %w", saveErr))
			}
		}
		return nil, err
	}

	fresh.ObtainedAt = s.now().UTC()
	sess.Token = &fresh
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("save refreshed token: %w", err)
	}

	tok := fresh
	return &tok, nil
}

// User returns the session's cached profile, fetching it from the identity
// endpoint when absent or stale. The token is re-derived before any fetch,
// so a stale access token is refreshed first.
func (s *IdentityService) User(ctx context.Context, sess *domainauth.Session) (*domainauth.User, error) {
	if sess.Token == nil {
		return nil, nil
	}

	if sess.User != nil && !sess.User.Expired(s.now(), s.cfg.UserTTL) {
		user := *sess.User
		return &user, nil
	}

	return s.fetchUser(ctx, sess)
}

func (s *IdentityService) fetchUser(ctx context.Context, sess *domainauth.Session) (*domainauth.User, error) {
	token, err := s.Token(ctx, sess)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	user, err := s.discord.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	user.FetchedAt = s.now().UTC()
	sess.User = &user
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("save fetched user: %w", err)
	}

	out := user
	return &out, nil
}

// Guilds returns the session's cached guild list in fetch order. The whole
// list is refetched in one bulk call once any entry is stale; there is no
// per-guild refresh.
func (s *IdentityService) Guilds(ctx context.Context, sess *domainauth.Session) ([]domainauth.Guild, error) {
	if sess.Token == nil {
		return nil, nil
	}

	if len(sess.Guilds) > 0 && !s.anyGuildExpired(sess.Guilds) {
		out := make([]domainauth.Guild, len(sess.Guilds))
		copy(out, sess.Guilds)
		return out, nil
	}

	return s.fetchGuilds(ctx, sess)
}

func (s *IdentityService) anyGuildExpired(guilds []domainauth.Guild) bool {
	now := s.now()
	for _, g := range guilds {
		if g.Expired(now, s.cfg.GuildTTL) {
			return true
		}
	}
	return false
}

func (s *IdentityService) fetchGuilds(ctx context.Context, sess *domainauth.Session) ([]domainauth.Guild, error) {
	token, err := s.Token(ctx, sess)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	guilds, err := s.discord.CurrentUserGuilds(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	fetchedAt := s.now().UTC()
	for i := range guilds {
		guilds[i].FetchedAt = fetchedAt
	}
	sess.Guilds = guilds
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("save fetched guilds: %w", err)
	}

	out := make([]domainauth.Guild, len(guilds))
	copy(out, guilds)
	return out, nil
}

// RelatedGuilds partitions the user's guild list into mutual/non-mutual
// sets by asking the bot which guilds it shares with the user. guildID is
// optional (0 means "no specific guild") and is looked up only within the
// mutual set; a guild the bot is not in stays absent from the result even
// when the user belongs to it.
//
// When the session yields no guilds (not logged in) the all-nil result is
// returned without any IPC call. When the bot does not answer, the mutual
// set degrades to empty so the dashboard still renders.
func (s *IdentityService) RelatedGuilds(ctx context.Context, sess *domainauth.Session, userID, guildID int64) (domainauth.RelatedGuilds, error) {
	var related domainauth.RelatedGuilds

	guilds, err := s.Guilds(ctx, sess)
	if err != nil {
		return related, err
	}
	if len(guilds) == 0 {
		return related, nil
	}

	mutualIDs, err := s.bot.MutualGuildIDs(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "bot link unavailable, treating all guilds as non-mutual",
			"user_id", userID, "error", err)
		mutualIDs = nil
	}

	mutual := make(map[int64]struct{}, len(mutualIDs))
	for _, id := range mutualIDs {
		mutual[id] = struct{}{}
	}

	related.MutualGuilds = make([]domainauth.Guild, 0, len(mutual))
	related.NonMutualGuilds = make([]domainauth.Guild, 0, len(guilds))
	for _, g := range guilds {
		if _, ok := mutual[g.ID]; ok {
			related.MutualGuilds = append(related.MutualGuilds, g)
		} else {
			related.NonMutualGuilds = append(related.NonMutualGuilds, g)
		}
	}

	if guildID != 0 {
		related.Guild = domainauth.FindGuild(related.MutualGuilds, guildID)
	}

	return related, nil
}
