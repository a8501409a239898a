package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosteldesk.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("expected a missing file to load defaults, got %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected an empty path to load defaults, got %v", err)
	}
	if cfg.HistoryLimit != 30 || cfg.ReportHistoryLimit != 50 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `{"sqliteDsn":"file:/data/hostel.db","historyLimit":15}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.SQLiteDSN != "file:/data/hostel.db" {
		t.Fatalf("expected overridden dsn, got %q", cfg.SQLiteDSN)
	}
	if cfg.HistoryLimit != 15 {
		t.Fatalf("expected overridden history limit, got %d", cfg.HistoryLimit)
	}
	if cfg.ReportHistoryLimit != 50 {
		t.Fatalf("expected default report limit kept, got %d", cfg.ReportHistoryLimit)
	}
}

func TestLoadAccumulatesInvalidValues(t *testing.T) {
	path := writeConfig(t, `{"sqliteDsn":"  ","historyLimit":0}`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected invalid values to be reported")
	}
	for _, want := range []string{"sqliteDsn", "historyLimit"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to name %q, got %v", want, err)
		}
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `{`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected a malformed file to be rejected")
	}
}
