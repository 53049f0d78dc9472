package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
)

// SpotifyServiceInterface resolves per-user Spotify credentials.
type SpotifyServiceInterface interface {
	Credentials(ctx context.Context, sess *domainauth.Session) (oauth2.TokenSource, error)
}

// SpotifyHandlers exposes the user's Spotify link status.
type SpotifyHandlers struct {
	Spotify SpotifyServiceInterface
	Guilds  *GuildHandlers
	Logger  *slog.Logger
}

type spotifyResponse struct {
	Linked bool `json:"linked"`
}

// HandleSpotify reports whether the authenticated user has a Spotify account
// linked through the bot.
func (h *SpotifyHandlers) HandleSpotify(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Guilds.loadSession(w, r)
	if !ok {
		return
	}

	source, err := h.Spotify.Credentials(r.Context(), &sess)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "resolve spotify credentials", "error", err)
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, spotifyResponse{Linked: source != nil})
}
