package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsWhenUnset(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "GATEWAY_MODE", "GATEWAY_URL", "GATEWAY_TIMEOUT_MS", "GATEWAY_RETRIES", "PRIVATE_GAME_CASCADE_DELETE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.Gateway.Mode != GatewayStatic {
		t.Fatalf("expected static gateway, got %q", cfg.Gateway.Mode)
	}
	if cfg.Gateway.Endpoint != DefaultGatewayEndpoint {
		t.Fatalf("expected default endpoint, got %q", cfg.Gateway.Endpoint)
	}
	if cfg.Gateway.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.Gateway.Timeout)
	}
	if cfg.CascadeDelete {
		t.Fatalf("expected cascade delete to be off by default")
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GATEWAY_MODE", "HTTP")
	t.Setenv("GATEWAY_URL", "http://games.internal/sessions")
	t.Setenv("GATEWAY_TIMEOUT_MS", "1500")
	t.Setenv("GATEWAY_RETRIES", "2")
	t.Setenv("PRIVATE_GAME_CASCADE_DELETE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()
	if cfg.Addr() != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.Gateway.Mode != GatewayHTTP {
		t.Fatalf("expected http gateway, got %q", cfg.Gateway.Mode)
	}
	if cfg.Gateway.Endpoint != "http://games.internal/sessions" {
		t.Fatalf("unexpected endpoint %q", cfg.Gateway.Endpoint)
	}
	if cfg.Gateway.Timeout != 1500*time.Millisecond {
		t.Fatalf("unexpected timeout %v", cfg.Gateway.Timeout)
	}
	if cfg.Gateway.Retries != 2 {
		t.Fatalf("unexpected retries %d", cfg.Gateway.Retries)
	}
	if !cfg.CascadeDelete {
		t.Fatalf("expected cascade delete enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT_MS", "soon")
	t.Setenv("GATEWAY_RETRIES", "-1")
	t.Setenv("DB_MAX_OPEN_CONNS", "0")
	t.Setenv("GATEWAY_MODE", "carrier-pigeon")

	cfg := Load()
	def := Default()
	if cfg.Gateway.Timeout != def.Gateway.Timeout {
		t.Fatalf("expected default timeout, got %v", cfg.Gateway.Timeout)
	}
	if cfg.Gateway.Retries != 0 {
		t.Fatalf("expected default retries, got %d", cfg.Gateway.Retries)
	}
	if cfg.DBMaxOpenConns != def.DBMaxOpenConns {
		t.Fatalf("expected default max open conns, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.Gateway.Mode != GatewayStatic {
		t.Fatalf("expected unknown mode to be ignored, got %q", cfg.Gateway.Mode)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GATEWAY_RETRIES=4\nLOG_FORMAT=json\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("GATEWAY_RETRIES", "1")
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_FORMAT")
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	cfg := Load()
	if cfg.Gateway.Retries != 1 {
		t.Fatalf("expected existing env to win, got %d", cfg.Gateway.Retries)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected LOG_FORMAT from file, got %q", cfg.LogFormat)
	}
}
