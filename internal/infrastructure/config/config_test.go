package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "development" || cfg.LogLevel != "info" || cfg.LogPretty {
		t.Errorf("unexpected base defaults: %+v", cfg)
	}
	if cfg.Notify.Workers != 4 || cfg.Notify.Buffer != 64 {
		t.Errorf("unexpected notify sizes: %+v", cfg.Notify)
	}
	if cfg.Notify.DedupTTL != time.Hour {
		t.Errorf("expected dedup ttl 1h, got %v", cfg.Notify.DedupTTL)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Errorf("unexpected smtp defaults: %+v", cfg.SMTP)
	}
	if cfg.Notify.TrackURL != "https://eto-telco.com/track" {
		t.Errorf("unexpected track url default %q", cfg.Notify.TrackURL)
	}
	if cfg.DedupEnabled() {
		t.Error("dedup should be disabled without REDIS_ADDR")
	}
	if cfg.OpsAddr != "" {
		t.Errorf("ops server should be off by default, got %q", cfg.OpsAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := loadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"LOG_LEVEL":        "debug",
		"LOG_PRETTY":       "true",
		"NOTIFY_WORKERS":   "2",
		"NOTIFY_TRACK_URL": "http://localhost:8080/track",
		"NOTIFY_DEDUP_TTL": "15m",
		"REDIS_ADDR":       "localhost:6379",
		"REDIS_DB":         "3",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" || !cfg.LogPretty {
		t.Errorf("log settings not applied: %+v", cfg)
	}
	if cfg.Notify.Workers != 2 || cfg.Notify.TrackURL != "http://localhost:8080/track" {
		t.Errorf("notify settings not applied: %+v", cfg.Notify)
	}
	if cfg.Notify.DedupTTL != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.Notify.DedupTTL)
	}
	if !cfg.DedupEnabled() || cfg.Redis.DB != 3 {
		t.Errorf("redis settings not applied: %+v", cfg.Redis)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := loadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"NOTIFY_WORKERS": "many",
	}))
	if err == nil {
		t.Fatal("expected an error for a non-numeric NOTIFY_WORKERS")
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SMTP_HOST=mail.internal\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("SMTP_PORT", "2525")
	// godotenv sets SMTP_HOST on the process; clear it afterwards.
	t.Cleanup(func() { _ = os.Unsetenv("SMTP_HOST") })

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SMTP.Host != "mail.internal" {
		t.Errorf("expected host from .env, got %q", cfg.SMTP.Host)
	}
	if cfg.SMTP.Port != 2525 {
		t.Errorf("expected port from environment, got %d", cfg.SMTP.Port)
	}
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
