package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/fraudwatch/internal/logging"
)

// Config controls the demo API server.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`

	// SeedCount transactions are generated into an empty store at startup.
	// 0 disables seeding.
	SeedCount int `yaml:"seed_count"`

	// PushIntervalSeconds is how often stats snapshots are pushed to
	// connected WebSocket clients.
	PushIntervalSeconds int `yaml:"push_interval_seconds"`

	Logger logging.Logger `yaml:"-"`
}

// DefaultConfig returns the demo defaults: in-process SQLite file, the
// original 200-transaction sample set, 30s stats pushes.
func DefaultConfig() Config {
	return Config{
		ListenAddr:          ":8080",
		DBPath:              "fraudwatch.db",
		SeedCount:           200,
		PushIntervalSeconds: 30,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults are returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// PushInterval returns the stats push cadence as a duration.
func (c Config) PushInterval() time.Duration {
	if c.PushIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.PushIntervalSeconds) * time.Second
}
