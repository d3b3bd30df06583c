package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewManager().Load("")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Expected port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Cache.Capacity != 100 || cfg.Cache.TTL != 0 {
		t.Errorf("Unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.RateLimit.SERP != 5*time.Second {
		t.Errorf("Expected 5s serp delay, got %v", cfg.RateLimit.SERP)
	}
	if cfg.Matching.Threshold != 0.8 || cfg.Matching.MinLength != 3 {
		t.Errorf("Unexpected matching defaults: %+v", cfg.Matching)
	}
	if strings.Join(cfg.Countries, ",") != "us,uk,ca,in" {
		t.Errorf("Unexpected countries: %v", cfg.Countries)
	}
	base, err := cfg.Updated.Base()
	if err != nil || !base.Equal(time.Date(2023, 8, 25, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected updated base: %v %v", base, err)
	}
	if cfg.Updated.Interval() != 240*time.Hour {
		t.Errorf("Unexpected interval: %v", cfg.Updated.Interval())
	}
	if cfg.Providers.CallTimeout != 90*time.Second {
		t.Errorf("Expected 90s call timeout, got %v", cfg.Providers.CallTimeout)
	}
	if cfg.Database.OrderBy != "" {
		t.Errorf("Expected ctid scan order by default, got %q", cfg.Database.OrderBy)
	}
	if cfg.Providers.History.Endpoint == "" || cfg.Providers.SERP.Enabled() {
		t.Errorf("Unexpected provider defaults: %+v", cfg.Providers)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8088
cache:
  capacity: 50
  ttl: 10m
providers:
  serp:
    endpoint: https://serp.example.com/search
    timeout: 5s
    max_retries: 1
countries: [US, UK]
`)

	cfg, err := NewManager().Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8088 {
		t.Errorf("Expected port 8088, got %d", cfg.Server.Port)
	}
	if cfg.Cache.Capacity != 50 || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Unexpected cache config: %+v", cfg.Cache)
	}
	if !cfg.Providers.SERP.Enabled() || cfg.Providers.SERP.Timeout != 5*time.Second || cfg.Providers.SERP.MaxRetries != 1 {
		t.Errorf("Unexpected serp config: %+v", cfg.Providers.SERP)
	}
	if strings.Join(cfg.Countries, ",") != "us,uk" {
		t.Errorf("Expected normalized countries, got %v", cfg.Countries)
	}
	if cfg.Matching.Threshold != 0.8 {
		t.Errorf("Expected default threshold to survive, got %v", cfg.Matching.Threshold)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KWR_SERVER_PORT", "9090")
	t.Setenv("KWR_RATE_LIMIT_SERP", "250ms")
	t.Setenv("KWR_DATABASE_DSN", "postgres://localhost/keywords")

	cfg, err := NewManager().Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected env port 9090, got %d", cfg.Server.Port)
	}
	if cfg.RateLimit.SERP != 250*time.Millisecond {
		t.Errorf("Expected env serp delay, got %v", cfg.RateLimit.SERP)
	}
	if cfg.Database.DSN != "postgres://localhost/keywords" {
		t.Errorf("Expected env dsn, got %q", cfg.Database.DSN)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad port", "server:\n  port: 70000\n", "invalid server port"},
		{"bad country", "countries: [usa]\n", "invalid country code"},
		{"bad threshold", "matching:\n  threshold: 1.5\n", "matching threshold"},
		{"bad capacity", "cache:\n  capacity: -1\n", "cache capacity"},
		{"bad base date", "updated:\n  base_date: yesterday\n", "base_date"},
		{"negative retries", "providers:\n  trends:\n    max_retries: -2\n", "max_retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager().Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewManager().Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestReload(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 7000\n")
	m := NewManager()
	if _, err := m.Load(path); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if err := os.WriteFile(path, []byte("server:\n  port: 7001\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if m.GetConfig().Server.Port != 7001 {
		t.Errorf("Expected reloaded port 7001, got %d", m.GetConfig().Server.Port)
	}

	if err := NewManager().Reload(); err == nil {
		t.Error("Expected reload before load to fail")
	}
}
