package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	redisadapter "github.com/Axelware/Life-dashboard/internal/adapters/redis"
	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
	"github.com/Axelware/Life-dashboard/internal/ports"
)

// IdentityServiceInterface defines the identity cache operations handlers
// depend on.
type IdentityServiceInterface interface {
	User(ctx context.Context, sess *domainauth.Session) (*domainauth.User, error)
	RelatedGuilds(ctx context.Context, sess *domainauth.Session, userID, guildID int64) (domainauth.RelatedGuilds, error)
}

// GuildHandlers serves the authenticated dashboard API: the user's profile
// and their guilds partitioned by shared bot membership.
type GuildHandlers struct {
	Identity IdentityServiceInterface
	Sessions ports.SessionStore
	Links    map[string]string
	Logger   *slog.Logger
}

type profileResponse struct {
	User *domainauth.User `json:"user"`
}

// HandleProfile returns the authenticated user's profile.
func (h *GuildHandlers) HandleProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	user, err := h.Identity.User(r.Context(), &sess)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "fetch profile", "error", err)
		WriteServiceError(w, err)
		return
	}
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	WriteJSON(w, http.StatusOK, profileResponse{User: user})
}

type serversResponse struct {
	Links           map[string]string  `json:"links"`
	User            *domainauth.User   `json:"user"`
	MutualGuilds    []domainauth.Guild `json:"mutual_guilds"`
	NonMutualGuilds []domainauth.Guild `json:"non_mutual_guilds"`
	Guild           *domainauth.Guild  `json:"guild,omitempty"`
}

// HandleServers returns all of the user's guilds, split into the ones the
// bot shares with them and the rest.
func (h *GuildHandlers) HandleServers(w http.ResponseWriter, r *http.Request) {
	h.serveServers(w, r, 0)
}

// HandleServer returns the guilds plus the one guild from the path, which
// must be a guild the bot shares with the user.
func (h *GuildHandlers) HandleServer(w http.ResponseWriter, r *http.Request) {
	guildID, err := strconv.ParseInt(r.PathValue("guild_id"), 10, 64)
	if err != nil || guildID <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_guild_id",
			Err:     errors.New("guild_id must be a positive integer"),
		})
		return
	}
	h.serveServers(w, r, guildID)
}

func (h *GuildHandlers) serveServers(w http.ResponseWriter, r *http.Request, guildID int64) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	user, err := h.Identity.User(r.Context(), &sess)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "fetch user", "error", err)
		WriteServiceError(w, err)
		return
	}
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	related, err := h.Identity.RelatedGuilds(r.Context(), &sess, user.ID, guildID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "fetch guilds", "error", err)
		WriteServiceError(w, err)
		return
	}

	if guildID != 0 && related.Guild == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "guild_not_available",
			Err:     errors.New("that server doesn't exist or you don't have access to it."),
		})
		return
	}

	WriteJSON(w, http.StatusOK, serversResponse{
		Links:           h.Links,
		User:            user,
		MutualGuilds:    related.MutualGuilds,
		NonMutualGuilds: related.NonMutualGuilds,
		Guild:           related.Guild,
	})
}

// loadSession resolves the request's session from its cookie. When there is
// no usable session the browser is redirected to /login and false returned.
func (h *GuildHandlers) loadSession(w http.ResponseWriter, r *http.Request) (domainauth.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return domainauth.Session{}, false
	}

	sess, err := h.Sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, redisadapter.ErrNotFound) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return domainauth.Session{}, false
		}
		h.Logger.ErrorContext(r.Context(), "load session", "error", err)
		WriteServiceError(w, err)
		return domainauth.Session{}, false
	}
	return sess, true
}
