package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "IP"

// configKeys lists every settable key. Viper only surfaces environment
// variables to Unmarshal for keys it already knows about, so each key is
// bound explicitly; AutomaticEnv alone is not enough for env-only loading.
var configKeys = []string{
	"server.port", "server.mode", "server.read_timeout",
	"server.write_timeout", "server.shutdown_timeout",
	"pipeline.master_file", "pipeline.state_file", "pipeline.rules_file",
	"pipeline.watch_rules", "pipeline.resource_id_floor",
	"lens.base_url", "lens.api_token", "lens.max_results", "lens.batch_size",
	"lens.rate_per_sec", "lens.retry_wait", "lens.http_timeout",
	"epo.auth_url", "epo.search_url", "epo.biblio_url", "epo.consumer_key", "epo.consumer_secret",
	"epo.query", "epo.max_results", "epo.batch_size", "epo.rate_per_sec",
	"epo.http_timeout",
	"log.level", "log.format",
}

// newViper builds a pre-configured Viper instance: YAML file type, IP_ env
// prefix, automatic env binding, and a key replacer mapping "." to "_" so
// nested keys like "pipeline.master_file" resolve to IP_PIPELINE_MASTER_FILE.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges IP_* environment variable
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from IP_* environment variables with
// no config file required.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk. A change that fails to parse or
// validate is skipped, so the application never adopts a broken config.
// Watch is non-blocking; viper manages the watch goroutine.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read errors are ignored; callers load the config first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error. Intended for main(), where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
