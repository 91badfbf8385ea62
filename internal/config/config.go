// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and ALUMNI_* env vars over the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataFile points to a YAML fixture file. Empty uses the embedded seed.
	DataFile string `koanf:"data_file"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ActivityQueueSize bounds the in-memory activity queue.
	ActivityQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of activity workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the activity-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// BonusMinScore is the score an alumni mentor must exceed to earn the
	// bonus tier.
	BonusMinScore int `koanf:"bonus_min_score"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DataFile:            "",
		MaxLeaderboardLimit: 100,
		ActivityQueueSize:   10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		BonusMinScore:       100,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.MaxLeaderboardLimit <= 0:
		return invalid("max_leaderboard_limit must be positive")
	case c.ActivityQueueSize <= 0:
		return invalid("queue_size must be positive")
	case c.WorkerCount <= 0:
		return invalid("worker_count must be positive")
	case c.DedupeSize <= 0:
		return invalid("dedupe_size must be positive")
	case c.BonusMinScore < 0:
		return invalid("bonus_min_score must not be negative")
	}
	return nil
}
