package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Data.Source != "xlsx" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Charts.Warmup || cfg.Charts.CacheTTL != 0 {
		t.Errorf("unexpected chart defaults: %+v", cfg.Charts)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATA_SOURCE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/suit.db")
	t.Setenv("CHART_WARMUP", "false")
	t.Setenv("CHART_CACHE_TTL", "10m")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Data.Source != "sqlite" || cfg.Data.SQLitePath != "/tmp/suit.db" {
		t.Errorf("unexpected data config: %+v", cfg.Data)
	}
	if cfg.Charts.Warmup || cfg.Charts.CacheTTL != 10*time.Minute {
		t.Errorf("unexpected chart config: %+v", cfg.Charts)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "SERVER_PORT", "70000"},
		{"rate limit", "RATE_LIMIT_RPS", "0"},
		{"source", "DATA_SOURCE", "csv"},
		{"workers", "WORKER_COUNT", "0"},
		{"ttl", "CHART_CACHE_TTL", "-1s"},
		{"level", "LOG_LEVEL", "trace"},
		{"format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
