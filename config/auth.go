package config

// DiscordConfig contains the Discord OAuth2 application configuration.
type DiscordConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/callback"`
	Scope        string `env:"SCOPE"        envDefault:"identify guilds"`

	// APIBaseURL overrides the Discord API root. Leave empty outside tests.
	APIBaseURL string `env:"API_BASE_URL"`
}

// SpotifyConfig contains the Spotify application credentials used to build
// per-user token sources from stored refresh tokens.
type SpotifyConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}
