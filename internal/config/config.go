package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Transport selects how the chat proxy reaches the agent collaborator.
type Transport string

const (
	TransportLocal  Transport = "local"
	TransportRemote Transport = "remote"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Single operator identity and token signing material.
	JWTSecret        string
	AuthUsername     string
	AuthPasswordHash string

	CORSAllowedOrigins []string

	// Agent collaborator settings.
	AgentTransport Transport
	AgentBaseURL   string
	AgentAppName   string
	AgentTimeout   time.Duration
}

// defaultCORSOrigins covers the local frontend dev servers.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:8080",
}

// Load reads configuration from environment variables. A .env file is
// loaded first if present (for development). Missing required values are
// returned as errors so the caller can refuse to start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		AuthUsername:     os.Getenv("SIMPLE_AUTH_USERNAME"),
		AuthPasswordHash: os.Getenv("SIMPLE_AUTH_PASSWORD_HASH"),
		AgentBaseURL:     strings.TrimRight(os.Getenv("AGENT_BASE_URL"), "/"),
		AgentAppName:     getEnv("AGENT_APP_NAME", "agent"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if cfg.AuthUsername == "" {
		return nil, fmt.Errorf("SIMPLE_AUTH_USERNAME is required")
	}
	if cfg.AuthPasswordHash == "" {
		return nil, fmt.Errorf("SIMPLE_AUTH_PASSWORD_HASH is required")
	}

	// Parse allowed origins (comma-separated), falling back to the local
	// dev servers.
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, entry := range strings.Split(origins, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, entry)
			}
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, defaultCORSOrigins...)
	}

	// Transport defaults to remote when a base URL is configured.
	switch t := Transport(os.Getenv("AGENT_TRANSPORT")); t {
	case TransportLocal, TransportRemote:
		cfg.AgentTransport = t
	case "":
		if cfg.AgentBaseURL != "" {
			cfg.AgentTransport = TransportRemote
		} else {
			cfg.AgentTransport = TransportLocal
		}
	default:
		return nil, fmt.Errorf("AGENT_TRANSPORT must be %q or %q, got %q", TransportLocal, TransportRemote, t)
	}

	if cfg.AgentTransport == TransportRemote && cfg.AgentBaseURL == "" {
		return nil, fmt.Errorf("AGENT_BASE_URL is required for remote agent transport")
	}

	timeout := getEnv("AGENT_TIMEOUT", "60s")
	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		return nil, fmt.Errorf("invalid AGENT_TIMEOUT %q", timeout)
	}
	cfg.AgentTimeout = d

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
