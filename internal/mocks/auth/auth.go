package auth

// Package auth contains simple hand-written test doubles for the identity
// ports. These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"

	redisadapter "github.com/Axelware/Life-dashboard/internal/adapters/redis"
	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
	"github.com/Axelware/Life-dashboard/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.IdentityClient = (*MockIdentityClient)(nil)
	_ ports.BotLink        = (*MockBotLink)(nil)
	_ ports.UserRepository = (*MockUserRepository)(nil)
)

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session

	SaveCalls int
	SaveErr   error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// Stored returns the stored copy of a session, for assertions.
func (m *MemorySessionStore) Stored(id string) (domainauth.Session, bool) {
	sess, ok := m.sessions[id]
	return sess, ok
}

// ErrNotFound is returned by mocks when an entity is not present. It aliases
// the redis adapter's sentinel so code matching on that error behaves the
// same against the mock store.
var ErrNotFound = redisadapter.ErrNotFound

// MockIdentityClient simulates the identity provider with scripted returns
// and call counters.
type MockIdentityClient struct {
	RefreshTokenFunc      func(ctx context.Context, refreshToken string) (domainauth.Token, error)
	CurrentUserFunc       func(ctx context.Context, accessToken string) (domainauth.User, error)
	CurrentUserGuildsFunc func(ctx context.Context, accessToken string) ([]domainauth.Guild, error)

	RefreshCalls int
	UserCalls    int
	GuildCalls   int
}

func (m *MockIdentityClient) RefreshToken(ctx context.Context, refreshToken string) (domainauth.Token, error) {
	m.RefreshCalls++
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return domainauth.Token{}, errors.New("RefreshTokenFunc not set")
}

func (m *MockIdentityClient) CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error) {
	m.UserCalls++
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, accessToken)
	}
	return domainauth.User{}, errors.New("CurrentUserFunc not set")
}

func (m *MockIdentityClient) CurrentUserGuilds(ctx context.Context, accessToken string) ([]domainauth.Guild, error) {
	m.GuildCalls++
	if m.CurrentUserGuildsFunc != nil {
		return m.CurrentUserGuildsFunc(ctx, accessToken)
	}
	return nil, errors.New("CurrentUserGuildsFunc not set")
}

// MockBotLink simulates the bot IPC channel.
type MockBotLink struct {
	MutualIDs    []int64
	MutualErr    error
	LinksMap     map[string]string
	LinksErr     error
	MutualCalls  int
	LinksCalls   int
	LastUserID   int64
}

func (m *MockBotLink) MutualGuildIDs(_ context.Context, userID int64) ([]int64, error) {
	m.MutualCalls++
	m.LastUserID = userID
	if m.MutualErr != nil {
		return nil, m.MutualErr
	}
	return m.MutualIDs, nil
}

func (m *MockBotLink) Links(_ context.Context) (map[string]string, error) {
	m.LinksCalls++
	if m.LinksErr != nil {
		return nil, m.LinksErr
	}
	return m.LinksMap, nil
}

// MockUserRepository returns scripted Spotify refresh tokens.
type MockUserRepository struct {
	Tokens map[int64]string
	Err    error
	Calls  int
}

func (m *MockUserRepository) SpotifyRefreshToken(_ context.Context, userID int64) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Tokens[userID], nil
}
