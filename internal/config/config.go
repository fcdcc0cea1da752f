package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all process configuration, populated from the environment.
// A .env file is honored through godotenv autoloading in main.
type Config struct {
	Handle       string `env:"APP_HANDLE,required"`
	Password     string `env:"APP_PASSWORD,required"`
	PDSHost      string `env:"PDS_HOST" envDefault:"https://bsky.social"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/database.db"`
	MediaDir     string `env:"MEDIA_DIR" envDefault:"media"`
	Port         int    `env:"PORT" envDefault:"8080"`

	// IngestInterval is the pause between notification polls. Dispatch is not
	// configurable: due times are matched by exact minute, so the dispatcher
	// must run once per minute.
	IngestInterval time.Duration `env:"INGEST_INTERVAL" envDefault:"3s"`
}

// Load parses the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
