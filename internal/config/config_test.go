package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load success, got %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:3001" {
		t.Fatalf("expected loopback default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.RateLimit != 100 || cfg.Server.RateLimitWindow != time.Minute {
		t.Fatalf("expected 100 req/min default, got %d/%v", cfg.Server.RateLimit, cfg.Server.RateLimitWindow)
	}
	if cfg.Client.BaseURL != "http://localhost:3001" || cfg.Client.APIVersion != "v1" {
		t.Fatalf("unexpected client defaults: %+v", cfg.Client)
	}
	if cfg.Client.Timeout != 30*time.Second || cfg.Client.Retries != 3 {
		t.Fatalf("unexpected executor defaults: %+v", cfg.Client)
	}
	if cfg.Client.Transport != TransportWS {
		t.Fatalf("expected the socket transport by default, got %q", cfg.Client.Transport)
	}
	if cfg.Auth.AdminUsername != "admin" {
		t.Fatalf("expected demo username default, got %q", cfg.Auth.AdminUsername)
	}
	if cfg.AI.Enabled() {
		t.Fatal("expected AI disabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("BEAR_RATE_LIMIT", "10")
	t.Setenv("BEAR_API_BASE_URL", "https://api.example.test")
	t.Setenv("BEAR_API_RETRIES", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load success, got %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:4000" {
		t.Fatalf("expected port override, got %q", cfg.Server.Addr)
	}
	if cfg.Server.RateLimit != 10 {
		t.Fatalf("expected rate limit override, got %d", cfg.Server.RateLimit)
	}
	if cfg.Client.BaseURL != "https://api.example.test" {
		t.Fatalf("expected base url override, got %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Retries != 0 {
		t.Fatalf("expected retries 0, got %d", cfg.Client.Retries)
	}
}

func TestLoadTransportOverride(t *testing.T) {
	t.Setenv("BEAR_TRANSPORT", "http")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load success, got %v", err)
	}
	if cfg.Client.Transport != TransportHTTP {
		t.Fatalf("expected the HTTP transport, got %q", cfg.Client.Transport)
	}

	t.Setenv("BEAR_TRANSPORT", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unknown transport")
	}
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	t.Setenv("BEAR_API_TIMEOUT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a malformed timeout")
	}
}

func TestDemoLoginDisabledInProductionWithDefaultPassword(t *testing.T) {
	cfg := AuthConfig{AdminUsername: "admin", AdminPassword: "admin123", Environment: "production"}
	if cfg.DemoLoginEnabled() {
		t.Fatal("expected demo login refused with the well-known password in production")
	}

	cfg.AdminPassword = "a-real-secret"
	if !cfg.DemoLoginEnabled() {
		t.Fatal("expected demo login allowed with an overridden password")
	}

	cfg = AuthConfig{AdminUsername: "admin", AdminPassword: "admin123", Environment: "development"}
	if !cfg.DemoLoginEnabled() {
		t.Fatal("expected demo login allowed in development")
	}
}
