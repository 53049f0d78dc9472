package config

// DBConfig contains PostgreSQL database configuration. The schema is owned
// by the bot process; the dashboard connects read-only in practice.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"life"`
	Password string `env:"PASSWORD" envDefault:"life"`
	Name     string `env:"NAME"     envDefault:"life"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// RedisConfig contains Redis configuration. Redis backs both the session
// store and the IPC channel to the bot.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
