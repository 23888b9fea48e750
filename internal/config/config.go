// Package config loads server configuration from the environment
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the ScribeStore server.
// Environment variables are parsed from the SCRIBESTORE_ prefix.
type Config struct {
	// HTTP API port
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Observability (metrics, health, pprof) port
	MetricsPort int `envconfig:"METRICS_PORT" default:"9090"`

	// Directory holding persisted document JSON files
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"true"`

	// Search defaults
	SearchContextSize int `envconfig:"SEARCH_CONTEXT_SIZE" default:"50"`
	SearchMaxResults  int `envconfig:"SEARCH_MAX_RESULTS" default:"100"`

	// Version history bound applied to new documents
	MaxVersions int `envconfig:"MAX_VERSIONS" default:"10"`
}

// New loads configuration from the environment and validates it.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SCRIBESTORE", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.MetricsPort <= 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.MetricsPort)
	}
	if c.HTTPPort == c.MetricsPort {
		return fmt.Errorf("HTTP and metrics ports must differ, both are %d", c.HTTPPort)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	if c.SearchContextSize < 0 {
		return fmt.Errorf("search context size must not be negative: %d", c.SearchContextSize)
	}
	if c.SearchMaxResults < 1 {
		return fmt.Errorf("search max results must be at least 1: %d", c.SearchMaxResults)
	}
	if c.MaxVersions < 1 {
		return fmt.Errorf("max versions must be at least 1: %d", c.MaxVersions)
	}
	return nil
}
