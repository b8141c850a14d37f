package config_test

import (
	"testing"
	"time"

	"github.com/iho/goasset/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.Storage != config.StoragePostgres {
		t.Fatalf("expected postgres storage by default, got %s", cfg.Storage)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.Depreciation.DefaultAccelerationFactor != 2 {
		t.Fatalf("expected default acceleration factor 2, got %v", cfg.Depreciation.DefaultAccelerationFactor)
	}

	if !cfg.Depreciation.AllowPostedReversal {
		t.Fatalf("expected posted reversal to be allowed by default")
	}

	if cfg.Depreciation.RunLockTTL != 5*time.Minute {
		t.Fatalf("expected run lock TTL 5m, got %s", cfg.Depreciation.RunLockTTL)
	}

	if cfg.Outbox.BatchSize != 100 {
		t.Fatalf("expected outbox batch size 100, got %d", cfg.Outbox.BatchSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("STORAGE", "memory")
	t.Setenv("DEPRECIATION_DEFAULT_ACCELERATION_FACTOR", "1.5")
	t.Setenv("DEPRECIATION_ALLOW_POSTED_REVERSAL", "false")
	t.Setenv("OUTBOX_STREAM", "custom:stream")
	t.Setenv("MEMORY_SEED_FILE", "/tmp/assets.json")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if cfg.Storage != config.StorageMemory {
		t.Fatalf("expected memory storage, got %s", cfg.Storage)
	}

	if cfg.Depreciation.DefaultAccelerationFactor != 1.5 || cfg.Depreciation.AllowPostedReversal {
		t.Fatalf("expected depreciation overrides, got %+v", cfg.Depreciation)
	}

	if cfg.Outbox.Stream != "custom:stream" {
		t.Fatalf("expected outbox stream override, got %s", cfg.Outbox.Stream)
	}

	if cfg.MemorySeedFile != "/tmp/assets.json" {
		t.Fatalf("expected memory seed file override, got %s", cfg.MemorySeedFile)
	}

	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid duration", "HTTP_READ_TIMEOUT", "not-a-duration"},
		{"unknown storage", "STORAGE", "mongo"},
		{"non-positive factor", "DEPRECIATION_DEFAULT_ACCELERATION_FACTOR", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadAuthRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error when auth is enabled without a secret")
	}
}
