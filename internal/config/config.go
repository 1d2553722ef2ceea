// Package config provides environment-driven configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds configuration for the HTTP server process.
type ServerConfig struct {
	Port        int
	DatabaseURL string
	LogLevel    string // debug, info, warn, error
	LogFormat   string // console or json
	GitHubToken string // optional, lifts GitHub API rate limits
}

// NewServerConfig creates a server configuration from environment variables.
// It reads DATABASE_URL (required), PORT (default: 8080), LOG_LEVEL
// (default: info), LOG_FORMAT (default: console), and optionally GITHUB_TOKEN.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080" // default
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}

	config := &ServerConfig{
		Port:        port,
		DatabaseURL: databaseURL,
		LogLevel:    getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvDefault("LOG_FORMAT", "console"),
		GitHubToken: os.Getenv("GITHUB_TOKEN"), // empty if not set
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q (must be console or json)", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
