// Package config defines all configuration structures for the patent
// portfolio pipeline. No I/O or parsing logic lives here, only plain data
// types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PipelineConfig holds the merge pipeline's tunables.
type PipelineConfig struct {
	// MasterFile is the xlsx file holding the canonical dataset.
	MasterFile string `mapstructure:"master_file"`

	// StateFile is the JSON file recording run history.
	StateFile string `mapstructure:"state_file"`

	// RulesFile optionally overrides the built-in rule tables. Empty means
	// the built-in Qatar rule set is used.
	RulesFile string `mapstructure:"rules_file"`

	// WatchRules enables hot-reloading of RulesFile on change.
	WatchRules bool `mapstructure:"watch_rules"`

	// ResourceIDFloor is the ResourceId assigned to the first record merged
	// into an empty dataset.
	ResourceIDFloor int64 `mapstructure:"resource_id_floor"`
}

// LensConfig holds Lens.org API parameters.
type LensConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIToken    string        `mapstructure:"api_token"`
	MaxResults  int           `mapstructure:"max_results"`
	BatchSize   int           `mapstructure:"batch_size"`
	RatePerSec  float64       `mapstructure:"rate_per_sec"`
	RetryWait   time.Duration `mapstructure:"retry_wait"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// EPOConfig holds EPO Open Patent Services parameters.
type EPOConfig struct {
	AuthURL        string        `mapstructure:"auth_url"`
	SearchURL      string        `mapstructure:"search_url"`
	BiblioURL      string        `mapstructure:"biblio_url"`
	ConsumerKey    string        `mapstructure:"consumer_key"`
	ConsumerSecret string        `mapstructure:"consumer_secret"`
	Query          string        `mapstructure:"query"`
	MaxResults     int           `mapstructure:"max_results"`
	BatchSize      int           `mapstructure:"batch_size"`
	RatePerSec     float64       `mapstructure:"rate_per_sec"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// ─────────────────────────────────────────────────────────────────────────────
// Root config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object for every binary in this module.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Lens     LensConfig     `mapstructure:"lens"`
	EPO      EPOConfig      `mapstructure:"epo"`
	Log      LogConfig      `mapstructure:"log"`
}

// Validate checks cross-field consistency. It assumes ApplyDefaults has
// already run, so zero values here mean genuinely invalid configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release, or test", c.Server.Mode)
	}

	if c.Pipeline.MasterFile == "" {
		return fmt.Errorf("pipeline.master_file is required")
	}
	if c.Pipeline.ResourceIDFloor <= 0 {
		return fmt.Errorf("pipeline.resource_id_floor must be positive")
	}

	if c.Lens.BatchSize <= 0 || c.EPO.BatchSize <= 0 {
		return fmt.Errorf("extractor batch sizes must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn, or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}

	return nil
}
