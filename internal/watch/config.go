package watch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/fraudwatch/internal/logging"
)

// Config wires a watcher Controller.
type Config struct {
	// Endpoint is the fraud API base URL.
	Endpoint string `yaml:"endpoint"`

	// PagePath is the dashboard page this watcher fronts. Polling only
	// activates when it contains the marker.
	PagePath string `yaml:"page_path"`

	// Marker overrides the default activation marker when non-empty.
	Marker string `yaml:"marker"`

	// IntervalSeconds is the polling period.
	IntervalSeconds int `yaml:"interval_seconds"`

	Logger logging.Logger `yaml:"-"`
}

// DefaultConfig points at a local demo server with the standard 30s cycle.
func DefaultConfig() Config {
	return Config{
		Endpoint:        "http://localhost:8080",
		PagePath:        "/dashboard",
		IntervalSeconds: 30,
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

// Interval returns the polling period as a duration.
func (c Config) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}
