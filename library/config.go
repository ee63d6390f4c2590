package library

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings sourced from the environment. Flags on
// the binaries override individual fields.
type Config struct {
	// DataFile is the path of the flat data file.
	DataFile string `env:"LIBRARY_DATA_FILE" envDefault:"library.dat"`
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `env:"LIBRARY_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses environment variables into a Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
