package config

import "time"

// CacheConfig contains the staleness configuration for per-session identity
// data and the session lifetime itself.
type CacheConfig struct {
	// UserTTL is how long a cached profile stays fresh.
	UserTTL time.Duration `env:"CACHE_USER_TTL" envDefault:"5m"`

	// GuildTTL is how long a cached guild entry stays fresh. The list is
	// refetched in full once any entry lapses.
	GuildTTL time.Duration `env:"CACHE_GUILD_TTL" envDefault:"5m"`

	// TokenExpiryMargin is subtracted from the OAuth token lifetime so a
	// refresh happens before the provider's own expiry.
	TokenExpiryMargin time.Duration `env:"CACHE_TOKEN_EXPIRY_MARGIN" envDefault:"30s"`

	// SessionTTL is how long an untouched session survives in Redis.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"336h"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.UserTTL <= 0 {
		c.UserTTL = 5 * time.Minute
	}
	if c.GuildTTL <= 0 {
		c.GuildTTL = 5 * time.Minute
	}
	if c.TokenExpiryMargin < 0 {
		c.TokenExpiryMargin = 0
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 336 * time.Hour
	}
}
