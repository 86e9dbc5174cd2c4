package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Log.Level != "info" {
		t.Errorf("log.level = %q, want info", cfg.Log.Level)
	}
	if cfg.RestartSpooler {
		t.Error("restart_spooler must default to off")
	}
	if cfg.ProviderRoot != "" {
		t.Errorf("provider_root = %q, want empty", cfg.ProviderRoot)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
provider_root = 'SOFTWARE\Test\Provider'
restart_spooler = true

[log]
file = 'C:\logs\csrsweep.log'
level = "debug"
max_backups = 9
`)

	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ProviderRoot != `SOFTWARE\Test\Provider` {
		t.Errorf("provider_root = %q", cfg.ProviderRoot)
	}
	if !cfg.RestartSpooler {
		t.Error("restart_spooler should be true")
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxBackups != 9 {
		t.Errorf("log = %+v", cfg.Log)
	}
	// Unset fields keep their defaults.
	if cfg.Log.MaxSizeMB != 5 {
		t.Errorf("log.max_size_mb = %d, want default 5", cfg.Log.MaxSizeMB)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := parse([]byte(`restart_spooler = "maybe"`))
	if err == nil {
		t.Fatal("invalid toml should error")
	}
	if !strings.Contains(err.Error(), "parse config file") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn", cfg.Log.Level)
	}
}
