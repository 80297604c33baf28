package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("unexpected listen addr: %s", cfg.Server.ListenAddr)
	}
	if cfg.Gamma.BaseURL != "https://gamma-api.polymarket.com" {
		t.Errorf("unexpected base url: %s", cfg.Gamma.BaseURL)
	}
	if cfg.Training.MinVolume != 1000 || cfg.Training.BaseXPReward != 100 {
		t.Errorf("unexpected training defaults: %+v", cfg.Training)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
listen_addr = ":9090"
proxy_max_age = "2m"

[schedule]
scan_interval = "45s"
markets_per_scan = 500

[backtest]
seed = 1234
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Server.ListenAddr)
	}
	if cfg.Server.ProxyMaxAge.Duration != 2*time.Minute {
		t.Errorf("expected 2m proxy max age, got %v", cfg.Server.ProxyMaxAge.Duration)
	}
	if cfg.Schedule.ScanInterval.Duration != 45*time.Second {
		t.Errorf("expected 45s scan interval, got %v", cfg.Schedule.ScanInterval.Duration)
	}
	if cfg.Schedule.MarketsPerScan != 500 {
		t.Errorf("expected 500 markets per scan, got %d", cfg.Schedule.MarketsPerScan)
	}
	if cfg.Backtest.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", cfg.Backtest.Seed)
	}

	// Unset sections keep their defaults.
	if cfg.Gamma.MaxRetries != 3 {
		t.Errorf("expected default retries, got %d", cfg.Gamma.MaxRetries)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nread_timeout = \"soon\"\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unparsable duration")
	}
}
