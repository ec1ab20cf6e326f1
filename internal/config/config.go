// Package config provides configuration loading and validation from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// GatewayConfig holds configuration for the gateway binary.
type GatewayConfig struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	ListenAddr        string        `env:"LISTEN_ADDR" envDefault:":8080"`
	MetricsListenAddr string        `env:"METRICS_LISTEN_ADDR" envDefault:"localhost:9090"`
	JWTAccessSecret   string        `env:"JWT_ACCESS_SECRET"`
	UpstreamAPIURL    string        `env:"UPSTREAM_API_URL"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
}

// APIConfig holds configuration for the backend API binary.
type APIConfig struct {
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	ListenAddr        string `env:"LISTEN_ADDR" envDefault:":8081"`
	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR" envDefault:"localhost:9091"`
	JWTAccessSecret   string `env:"JWT_ACCESS_SECRET"`
	DatabasePath      string `env:"DATABASE_PATH" envDefault:"/data/portal.db"`
}

// LoadGateway parses gateway configuration from the environment.
func LoadGateway() (*GatewayConfig, error) {
	cfg := &GatewayConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// LoadAPI parses backend API configuration from the environment.
func LoadAPI() (*APIConfig, error) {
	cfg := &APIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks all gateway configuration constraints.
func (c *GatewayConfig) Validate() error {
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET environment variable is required")
	}
	if c.UpstreamAPIURL == "" {
		return fmt.Errorf("UPSTREAM_API_URL environment variable is required")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

// Validate checks all backend API configuration constraints.
func (c *APIConfig) Validate() error {
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET environment variable is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return nil
}
