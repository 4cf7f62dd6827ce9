// Package config provides environment-based configuration for the server:
// HTTP bind address, database, model endpoint, and the auth settings.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds everything the HTTP server needs to start.
type ServerConfig struct {
	Port           int    // HTTP listen port
	DatabaseURL    string // PostgreSQL connection URL
	ModelEndpoint  string // Base URL of the model endpoint (no trailing path)
	Model          string // Model identifier sent with every generate call
	FrontendOrigin string // Origin allowed by CORS
}

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort           = 5000
	DefaultModelEndpoint  = "http://127.0.0.1:11434"
	DefaultModel          = "gpt-oss:120b-cloud"
	DefaultFrontendOrigin = "http://localhost:3000"
)

// NewServerConfig reads the server configuration from environment variables:
// PORT, DATABASE_URL (required), MODEL_API_URL, MODEL, FRONTEND_URL.
func NewServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:           DefaultPort,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ModelEndpoint:  envOr("MODEL_API_URL", DefaultModelEndpoint),
		Model:          envOr("MODEL", DefaultModel),
		FrontendOrigin: envOr("FRONTEND_URL", DefaultFrontendOrigin),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.ModelEndpoint == "" {
		return fmt.Errorf("MODEL_API_URL cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("MODEL cannot be empty")
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
