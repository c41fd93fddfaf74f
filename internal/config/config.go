// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped with this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// IndexStrategy selects the key index: hash or sorted.
	IndexStrategy string `koanf:"index_strategy" validate:"oneof=hash sorted"`

	// HistoryEnabled turns undo/redo snapshots on.
	HistoryEnabled bool `koanf:"history_enabled"`

	// HistoryLimit caps the undo stack; 0 keeps every snapshot.
	HistoryLimit int `koanf:"history_limit" validate:"gte=0"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gt=0"`

	// SeedDemo loads the sample roster at startup.
	SeedDemo bool `koanf:"seed_demo"`
}

// Option applies a configuration option to the Config.
type Option func(*Config)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(c *Config) {
		if addr != "" {
			c.Addr = addr
		}
	}
}

// WithIndexStrategy overrides the index strategy.
func WithIndexStrategy(strategy string) Option {
	return func(c *Config) {
		if strategy != "" {
			c.IndexStrategy = strategy
		}
	}
}

// New creates a Config with defaults, then applies opts.
func New(opts ...Option) *Config {
	c := &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		IndexStrategy:       "hash",
		HistoryEnabled:      true,
		HistoryLimit:        0,
		MaxLeaderboardLimit: 100,
		SeedDemo:            false,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
