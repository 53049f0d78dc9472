package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
	"github.com/Axelware/Life-dashboard/internal/service"
)

// sessionCookieName is the cookie carrying the opaque session ID.
const sessionCookieName = "session_id"

// LoginServiceInterface defines the login flow operations handlers depend on.
type LoginServiceInterface interface {
	Begin(ctx context.Context) (*service.BeginLoginResult, error)
	Complete(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers contains the OAuth2 login flow endpoints.
type AuthHandlers struct {
	Login        LoginServiceInterface
	CookieDomain string
	SessionTTL   time.Duration
	Secure       bool
	Logger       *slog.Logger
}

// HandleLogin starts the OAuth2 flow: it creates a session, sets the session
// cookie, and redirects the browser to the provider's authorize page.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Login.Begin(r.Context())
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "begin login", "error", err)
		WriteServiceError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.ID)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// HandleCallback completes the OAuth2 flow from the provider redirect.
func (h *AuthHandlers) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_callback",
			Err:     errors.New("code and state query parameters are required"),
		})
		return
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "no_session",
			Err:     errors.New("no login session, start again at /login"),
		})
		return
	}

	_, err = h.Login.Complete(r.Context(), service.CompleteLoginInput{
		SessionID: cookie.Value,
		Code:      code,
		State:     state,
	})
	if err != nil {
		if errors.Is(err, service.ErrStateMismatch) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_state", Err: err})
			return
		}
		h.Logger.ErrorContext(r.Context(), "complete login", "error", err)
		WriteServiceError(w, err)
		return
	}

	http.Redirect(w, r, "/api/servers", http.StatusFound)
}

// HandleLogout deletes the session and clears the cookie.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.Login.Logout(r.Context(), cookie.Value); err != nil {
			h.Logger.ErrorContext(r.Context(), "logout", "error", err)
			WriteServiceError(w, err)
			return
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
