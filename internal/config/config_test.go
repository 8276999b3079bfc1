package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	// Empty directory, no config file
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.Server.ListenAddr)
	}
	if cfg.Server.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q, want :9090", cfg.Server.MetricsAddr)
	}
	if cfg.Archive.Timezone != "CET" {
		t.Errorf("Timezone = %q, want CET", cfg.Archive.Timezone)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("DatabasePath empty")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
account: jane@example.com
server:
  listen_addr: ":9000"
archive:
  timezone: "Europe/Berlin"
storage:
  database_path: "/tmp/test.db"
`)
	if err := os.WriteFile(filepath.Join(dir, "driveclip.yaml"), content, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	chdir(t, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Account != "jane@example.com" {
		t.Errorf("Account = %q, want jane@example.com", cfg.Account)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.Server.ListenAddr)
	}
	if cfg.Archive.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q, want Europe/Berlin", cfg.Archive.Timezone)
	}
	// Unset keys keep their defaults
	if cfg.Server.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q, want default :9090", cfg.Server.MetricsAddr)
	}
}

func TestLocationFixedCET(t *testing.T) {
	for _, tz := range []string{"", "CET"} {
		cfg := &Config{Archive: ArchiveConfig{Timezone: tz}}

		loc, err := cfg.Location()
		if err != nil {
			t.Fatalf("Location() error = %v", err)
		}

		// Fixed offset, immune to daylight saving
		summer := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC).In(loc)
		winter := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).In(loc)
		if summer.Hour() != 13 || winter.Hour() != 13 {
			t.Errorf("timezone %q: summer hour %d, winter hour %d, want 13 in both", tz, summer.Hour(), winter.Hour())
		}
	}
}

func TestLocationNamedZone(t *testing.T) {
	cfg := &Config{Archive: ArchiveConfig{Timezone: "UTC"}}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("Location() = %q, want UTC", loc)
	}
}

func TestLocationInvalidZone(t *testing.T) {
	cfg := &Config{Archive: ArchiveConfig{Timezone: "Not/AZone"}}
	if _, err := cfg.Location(); err == nil {
		t.Error("Location() expected error for unknown zone")
	}
}
