package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the server's environment configuration. The signing key is
// required: a process without it must fail at boot, never at request time.
type Config struct {
	Address         string `env:"ADDRESS" envDefault:":8080"`
	DatabaseDSN     string `env:"DATABASE_DSN" envDefault:"file:inkpost.db?_journal_mode=WAL&_busy_timeout=5000"`
	SigningKey      string `env:"SIGNING_KEY,required"`
	TokenExpiration int    `env:"TOKEN_EXPIRATION" envDefault:"24"`
	Issuer          string `env:"TOKEN_ISSUER" envDefault:"inkpost"`
	Debug           bool   `env:"DEBUG" envDefault:"false"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
