package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SIMPLE_AUTH_USERNAME", "operator")
	t.Setenv("SIMPLE_AUTH_PASSWORD_HASH", "$2a$10$fakehash")
}

func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "ENV", "CORS_ALLOWED_ORIGINS", "AGENT_TRANSPORT", "AGENT_BASE_URL", "AGENT_APP_NAME", "AGENT_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	clearOptional(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development env by default")
	}
	if len(cfg.CORSAllowedOrigins) != 3 {
		t.Fatalf("expected 3 default CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.AgentTransport != TransportLocal {
		t.Fatalf("expected local transport without base URL, got %q", cfg.AgentTransport)
	}
	if cfg.AgentAppName != "agent" {
		t.Fatalf("expected default app name, got %q", cfg.AgentAppName)
	}
	if cfg.AgentTimeout != 60*time.Second {
		t.Fatalf("expected 60s default timeout, got %v", cfg.AgentTimeout)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	required := []string{"JWT_SECRET_KEY", "SIMPLE_AUTH_USERNAME", "SIMPLE_AUTH_PASSWORD_HASH"}

	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			clearOptional(t)
			t.Setenv(missing, "")

			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s is missing", missing)
			}
		})
	}
}

func TestLoadRemoteTransportFromBaseURL(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("AGENT_BASE_URL", "http://agent.internal:8000/")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AgentTransport != TransportRemote {
		t.Fatalf("expected remote transport, got %q", cfg.AgentTransport)
	}
	if cfg.AgentBaseURL != "http://agent.internal:8000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.AgentBaseURL)
	}
}

func TestLoadRemoteTransportRequiresBaseURL(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("AGENT_TRANSPORT", "remote")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for remote transport without AGENT_BASE_URL")
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("AGENT_TRANSPORT", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestLoadParsesCORSOrigins(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("expected trimmed origin, got %q", cfg.CORSAllowedOrigins[1])
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("AGENT_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
}
