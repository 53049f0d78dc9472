package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
	apperrors "github.com/Axelware/Life-dashboard/internal/errors"
	"github.com/Axelware/Life-dashboard/internal/ports"
)

// UserSource resolves the authenticated user for a session.
// *IdentityService satisfies it.
type UserSource interface {
	User(ctx context.Context, sess *domainauth.Session) (*domainauth.User, error)
}

// SpotifyConfig holds the Spotify application credentials.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

// SpotifyServiceOptions groups dependencies for SpotifyService.
type SpotifyServiceOptions struct {
	Users    ports.UserRepository
	Identity UserSource
	Config   SpotifyConfig
	Logger   *slog.Logger
}

// SpotifyService resolves per-user Spotify credentials from refresh tokens
// the bot stores in Postgres. Token sources are cached process-wide by
// Discord user ID; concurrent first-time lookups for the same user are
// collapsed through singleflight, and a repeated build would only
// overwrite the entry with an equivalent one.
type SpotifyService struct {
	users    ports.UserRepository
	identity UserSource
	conf     *oauth2.Config
	logger   *slog.Logger

	mu    sync.RWMutex
	creds map[int64]oauth2.TokenSource
	group singleflight.Group
}

// NewSpotifyService constructs a new SpotifyService.
func NewSpotifyService(opts SpotifyServiceOptions) *SpotifyService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SpotifyService{
		users:    opts.Users,
		identity: opts.Identity,
		conf: &oauth2.Config{
			ClientID:     opts.Config.ClientID,
			ClientSecret: opts.Config.ClientSecret,
			Endpoint:     spotify.Endpoint,
		},
		logger: logger,
		creds:  make(map[int64]oauth2.TokenSource),
	}
}

// Credentials returns an oauth2 token source for the session's user, or
// nil when the session is not logged in or the user has no Spotify account
// linked. The token source refreshes itself on demand.
func (s *SpotifyService) Credentials(ctx context.Context, sess *domainauth.Session) (oauth2.TokenSource, error) {
	user, err := s.identity.User(ctx, sess)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	s.mu.RLock()
	source, ok := s.creds[user.ID]
	s.mu.RUnlock()
	if ok {
		return source, nil
	}

	v, err, _ := s.group.Do(strconv.FormatInt(user.ID, 10), func() (any, error) {
		refreshToken, err := s.users.SpotifyRefreshToken(ctx, user.ID)
		if err != nil {
			if apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("load spotify refresh token: %w", err)
		}
		if refreshToken == "" {
			return nil, nil
		}

		// The token source outlives this request, so it is not bound to ctx.
		built := s.conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})

		s.mu.Lock()
		s.creds[user.ID] = built
		s.mu.Unlock()

		return built, nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	out, _ := v.(oauth2.TokenSource)
	return out, nil
}

// Forget drops the cached token source for a user, forcing the next access
// to reload the refresh token from the database.
func (s *SpotifyService) Forget(userID int64) {
	s.mu.Lock()
	delete(s.creds, userID)
	s.mu.Unlock()
}
