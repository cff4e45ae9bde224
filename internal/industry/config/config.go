// Package config loads server configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the server configuration. Flags override file values.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database path.
	DBPath string `yaml:"db_path"`

	// UpstreamURL is the world API base URL. When set and the local
	// database is empty, blueprint data is fetched live.
	UpstreamURL string `yaml:"upstream_url"`

	// UpstreamCacheTTL bounds how long upstream responses are reused.
	UpstreamCacheTTL Duration `yaml:"upstream_cache_ttl"`

	// RepoCacheSize is the entry count per in-process lookup cache.
	RepoCacheSize int `yaml:"repo_cache_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:             ":8080",
		DBPath:           "data/industry/industry.db",
		UpstreamCacheTTL: Duration(5 * time.Minute),
		RepoCacheSize:    4096,
		LogLevel:         "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
