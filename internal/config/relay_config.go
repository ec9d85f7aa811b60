package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// RelayConfig holds configuration for the standalone outbox relay.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	DatabaseURL  string        `env:"DB_CONNECTION_STRING,notEmpty"`
	HealthPort   string        `env:"RELAY_HEALTH_PORT" envDefault:"8090"`
	PollInterval time.Duration `env:"RELAY_POLL_INTERVAL" envDefault:"90s"`
	LogFile      string        `env:"LOG_FILE"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	Version      string        `env:"APP_VERSION" envDefault:"unknown"`

	Broker BrokerConfig
}

func LoadRelayConfig() (*RelayConfig, error) {
	var cfg RelayConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if !cfg.Broker.Enabled() {
		return nil, errors.New("parse env: RABBITMQ_URL is required by the relay")
	}
	return &cfg, nil
}
