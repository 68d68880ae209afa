package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if got := cfg.Shopify.Timeout; got != 10*time.Second {
		t.Fatalf("expected shopify timeout 10s, got %v", got)
	}

	if got := cfg.Shopify.Endpoint(); got != "https://snapform.myshopify.com/api/2024-07/graphql.json" {
		t.Fatalf("unexpected endpoint %q", got)
	}

	if cfg.Session.TTL != 720*time.Hour {
		t.Fatalf("unexpected session TTL %v", cfg.Session.TTL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when %s is missing", EnvAppEnv)
	}
}

func TestLoad_RedisBackendNeedsRedis(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvRedisAddr, "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when redis backend has no redis config")
	}
}

func TestLoad_SQLiteBackendDefaultsDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSessionBackend, "sqlite")
	t.Setenv(EnvDBDSN, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.DSN == "" {
		t.Fatalf("expected default sqlite DSN")
	}
	if cfg.DB.Driver != SessionBackendSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.DB.Driver)
	}
}

func TestLoad_UnknownSessionBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSessionBackend, "cloud")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown session backend")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvAppPort, "8080")
	t.Setenv(EnvShopifyDomain, "snapform.myshopify.com")
	t.Setenv(EnvShopifyToken, "shpat-test-token")
	t.Setenv(EnvSessionBackend, "redis")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
}
