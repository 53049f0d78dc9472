package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Discord and Spotify application credentials
//   - database.go: Database and Redis configuration
//   - cache.go: Identity cache TTLs and session lifetime
//   - http.go: HTTP server configuration
//   - ipc.go: Bot IPC configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or ENVIRONMENT=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// InviteLink is the bot invite URL served alongside the links the bot
	// reports over IPC.
	InviteLink string `env:"INVITE_LINK"`

	// Application credentials
	Discord DiscordConfig `envPrefix:"DISCORD_"`
	Spotify SpotifyConfig `envPrefix:"SPOTIFY_"`

	// Storage configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Bot IPC configuration
	IPC IPCConfig `envPrefix:"IPC_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Cache.Sanitize()
	c.IPC.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and ENVIRONMENT variables so either spelling
// enables development behavior.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
		c.IsDev = environment == "development" || environment == "dev"
	}
}
