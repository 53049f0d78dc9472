package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
	"github.com/Axelware/Life-dashboard/internal/ports"
)

// CodeExchanger is the slice of oauth2.Config the login flow needs.
type CodeExchanger interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// ErrStateMismatch is returned when the callback state does not match the
// state stored at login start.
var ErrStateMismatch = errors.New("oauth state mismatch")

// LoginServiceOptions groups dependencies for LoginService.
type LoginServiceOptions struct {
	OAuth    CodeExchanger
	Sessions ports.SessionStore
	Now      func() time.Time // optional, defaults to time.Now
}

// LoginService runs the OAuth2 authorization code flow: it creates the
// session with its anti-CSRF state, and turns the callback code into the
// session's first token.
type LoginService struct {
	oauth    CodeExchanger
	sessions ports.SessionStore
	now      func() time.Time
}

// NewLoginService constructs a new LoginService.
func NewLoginService(opts LoginServiceOptions) *LoginService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &LoginService{oauth: opts.OAuth, sessions: opts.Sessions, now: now}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	Session domainauth.Session
}

// Begin creates a fresh session holding a one-shot state token and returns
// the provider authorize URL to redirect the browser to.
func (s *LoginService) Begin(ctx context.Context) (*BeginLoginResult, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	sess := domainauth.Session{
		ID:    uuid.NewString(),
		State: state,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: s.oauth.AuthCodeURL(state),
		Session: sess,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	SessionID string
	Code      string
	State     string
}

// Complete verifies the callback state against the session, exchanges the
// authorization code for a token, and stores the credential in the session.
// The state is consumed either way; any identity data cached under a
// previous login is discarded.
func (s *LoginService) Complete(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}

	sess, err := s.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.State == "" || sess.State != input.State {
		return nil, ErrStateMismatch
	}

	token, err := s.oauth.Exchange(ctx, input.Code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	obtainedAt := s.now().UTC()
	expiresIn := int(token.ExpiresIn)
	if expiresIn <= 0 && !token.Expiry.IsZero() {
		expiresIn = int(token.Expiry.Sub(obtainedAt).Seconds())
	}

	sess.State = ""
	sess.Token = &domainauth.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    expiresIn,
		ObtainedAt:   obtainedAt,
	}
	sess.User = nil
	sess.Guilds = nil

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &sess, nil
}

// Logout removes a session.
func (s *LoginService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateState generates a cryptographically secure URL-safe state token.
func generateState() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
