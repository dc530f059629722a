package config

import (
	"github.com/caarlos0/env/v11"

	"tabulite/internal/errors"
)

// Config represents the complete application configuration.
type Config struct {
	// Port is the web shell listen port.
	Port string `env:"PORT" envDefault:"8080"`
	// WorkDir is where per-request conversion workspaces are created.
	// Empty means the system temp directory.
	WorkDir string `env:"WORK_DIR"`
	// PreviewRows bounds the per-table preview in reports.
	PreviewRows int `env:"PREVIEW_ROWS" envDefault:"5"`
	// MaxUploadBytes caps accepted upload size (default 50 MiB).
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`
	// SessionTTLMinutes is how long a staged conversion stays downloadable.
	SessionTTLMinutes int `env:"SESSION_TTL_MINUTES" envDefault:"30"`
	// LogLevel is the minimum log severity.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogConsole switches to the human-readable log encoder.
	LogConsole bool `env:"LOG_CONSOLE" envDefault:"false"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment configuration")
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.SessionTTLMinutes <= 0 {
		return errors.ConfigInvalid("SESSION_TTL_MINUTES must be positive")
	}
	return nil
}
