package auth

// Package auth contains domain-level types for authentication and per-session
// identity caching. It is pure and free of framework/adapter concerns.

import "time"

// Token is the Discord OAuth2 credential pair cached in a session.
// ObtainedAt and ExpiresIn jointly determine expiry.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	ObtainedAt   time.Time `json:"obtained_at"`
}

// Expired reports whether the access token has outlived its lifetime.
// margin is subtracted from the lifetime to avoid racing the provider's
// own expiry clock.
func (t Token) Expired(now time.Time, margin time.Duration) bool {
	lifetime := time.Duration(t.ExpiresIn)*time.Second - margin
	return !now.Before(t.ObtainedAt.Add(lifetime))
}

// User is the authenticated Discord user's cached profile.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Avatar        string    `json:"avatar"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Expired reports whether the cached profile is older than ttl.
func (u User) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(u.FetchedAt.Add(ttl))
}

// Guild is one cached entry of the user's guild list.
type Guild struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Owner       bool      `json:"owner"`
	Permissions string    `json:"permissions"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Expired reports whether this guild entry is older than ttl.
func (g Guild) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(g.FetchedAt.Add(ttl))
}

// RelatedGuilds partitions a user's guilds by shared bot membership.
// All three fields are nil when the session holds no usable token.
type RelatedGuilds struct {
	MutualGuilds    []Guild `json:"mutual_guilds"`
	NonMutualGuilds []Guild `json:"non_mutual_guilds"`
	Guild           *Guild  `json:"guild"`
}

// Session is the server-side record we persist per browser.
// ID is an opaque session identifier (random URL-safe string).
// Token, User, and Guilds are optional cached identity data; each is
// absent until the matching first successful fetch.
//
// Guilds is a slice rather than a map keyed by guild ID so the original
// fetch order survives a round-trip through the store (Go map iteration
// order is randomized); guild IDs are unique within the list.
type Session struct {
	ID     string  `json:"id"`
	State  string  `json:"state,omitempty"`
	Token  *Token  `json:"token,omitempty"`
	User   *User   `json:"user,omitempty"`
	Guilds []Guild `json:"guilds,omitempty"`
}

// FindGuild returns the guild with the given ID, or nil.
func FindGuild(guilds []Guild, id int64) *Guild {
	for i := range guilds {
		if guilds[i].ID == id {
			return &guilds[i]
		}
	}
	return nil
}
