// Package httpx contains the HTTP surface of the dashboard: routing,
// handlers, middleware, and JSON helpers.
package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Axelware/Life-dashboard/internal/ports"
)

// RouterServices groups the dependencies NewRouter wires into handlers.
type RouterServices struct {
	Login    LoginServiceInterface
	Identity IdentityServiceInterface
	Spotify  SpotifyServiceInterface
	Sessions ports.SessionStore

	// Links are the bot's public URLs merged into /api/servers responses.
	Links map[string]string

	CookieDomain  string
	SessionTTL    time.Duration
	SecureCookies bool
	Logger        *slog.Logger
}

// NewRouter builds the HTTP route table.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	auth := &AuthHandlers{
		Login:        services.Login,
		CookieDomain: services.CookieDomain,
		SessionTTL:   services.SessionTTL,
		Secure:       services.SecureCookies,
		Logger:       logger,
	}
	guilds := &GuildHandlers{
		Identity: services.Identity,
		Sessions: services.Sessions,
		Links:    services.Links,
		Logger:   logger,
	}
	spotify := &SpotifyHandlers{
		Spotify: services.Spotify,
		Guilds:  guilds,
		Logger:  logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /login", auth.HandleLogin)
	mux.HandleFunc("GET /callback", auth.HandleCallback)
	mux.HandleFunc("GET /logout", auth.HandleLogout)

	mux.HandleFunc("GET /api/profile", guilds.HandleProfile)
	mux.HandleFunc("GET /api/servers", guilds.HandleServers)
	mux.HandleFunc("GET /api/servers/{guild_id}", guilds.HandleServer)
	mux.HandleFunc("GET /api/spotify", spotify.HandleSpotify)

	mux.HandleFunc("GET /healthz", HandleHealth)
	mux.HandleFunc("HEAD /healthz", HandleHealth)

	return mux
}
