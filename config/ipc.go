package config

import "time"

// IPCConfig contains configuration for the Redis-backed IPC channel to the
// bot process.
type IPCConfig struct {
	// Queue is the Redis list the bot consumes requests from.
	Queue string `env:"QUEUE" envDefault:"ipc:requests"`

	// Timeout bounds how long one request waits for the bot's reply.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to IPC configuration values.
func (c *IPCConfig) Sanitize() {
	if c.Queue == "" {
		c.Queue = "ipc:requests"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}
