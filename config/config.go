package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the service.
type Config struct {
	Host          string        `env:"HOST" envDefault:"0.0.0.0"`
	Port          int           `env:"PORT" envDefault:"8080"`
	SnapshotPath  string        `env:"SNAPSHOT_PATH" envDefault:"data/library.db"`
	SaveDebounce  time.Duration `env:"SAVE_DEBOUNCE" envDefault:"500ms"`
	RenderTimeout time.Duration `env:"RENDER_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
