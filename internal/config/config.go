// Package config loads the service configuration from a YAML file,
// falling back to built-in defaults when no file exists.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// SyncConfig controls the background calendar sync.
type SyncConfig struct {
	// IntervalMinutes is how often the batch sync runs.
	IntervalMinutes int `yaml:"interval_minutes"`
	// FetchTimeoutSeconds bounds each feed request so one hung feed
	// cannot stall a batch.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// DataDir holds the SQLite database.
	DataDir string `yaml:"data_dir"`
	// StaticDir holds the built frontend assets.
	StaticDir string `yaml:"static_dir"`

	Sync SyncConfig `yaml:"sync"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:    ":8090",
		DataDir:   "./data",
		StaticDir: "./static",
		Sync: SyncConfig{
			IntervalMinutes:     60,
			FetchTimeoutSeconds: 30,
		},
	}
}

// Load reads the config file at path. A missing file is not an error:
// defaults are returned. A present but unreadable or invalid file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Sync.IntervalMinutes <= 0 {
		cfg.Sync.IntervalMinutes = 60
	}
	if cfg.Sync.FetchTimeoutSeconds <= 0 {
		cfg.Sync.FetchTimeoutSeconds = 30
	}

	return cfg, nil
}
