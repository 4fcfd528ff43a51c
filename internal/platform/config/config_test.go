package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"flowmodoro/internal/platform/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.Load(config.Options{DataDir: dir})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != dir {
		t.Fatalf("expected data dir %s, got %s", dir, cfg.DataDir)
	}
	if cfg.Remote.BaseURL != "http://127.0.0.1:3001/api" || cfg.Remote.Timeout != 5*time.Second {
		t.Fatalf("unexpected remote defaults: %+v", cfg.Remote)
	}
	if cfg.Server.DBPath != filepath.Join(dir, "server", "flowmodoro.db") {
		t.Fatalf("unexpected db path %s", cfg.Server.DBPath)
	}
	if cfg.Location == nil {
		t.Fatalf("location must be resolved")
	}
	if cfg.SessionsPath() != filepath.Join(dir, "sessions.v1.json") {
		t.Fatalf("unexpected sessions path %s", cfg.SessionsPath())
	}
}

func TestLoadFileAndOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := "timezone: UTC\nremote:\n  base_url: http://example.test/api\n  timeout: 2s\nsync:\n  interval: 30s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(config.Options{DataDir: dir, Overrides: map[string]any{"log.level": "debug"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Remote.BaseURL != "http://example.test/api" || cfg.Remote.Timeout != 2*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.Remote)
	}
	if cfg.Sync.Interval != 30*time.Second {
		t.Fatalf("expected 30s sync interval, got %s", cfg.Sync.Interval)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("override not applied, got %s", cfg.Log.Level)
	}
	if cfg.Location.String() != "UTC" {
		t.Fatalf("expected UTC location, got %s", cfg.Location)
	}
}

func TestLoadRejectsBadTimezoneAndMissingExplicitFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if _, err := config.Load(config.Options{DataDir: dir, Overrides: map[string]any{"timezone": "Mars/Olympus"}}); err == nil {
		t.Fatalf("expected timezone error")
	}
	if _, err := config.Load(config.Options{DataDir: dir, ConfigFile: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatalf("explicit config file must exist")
	}
}
