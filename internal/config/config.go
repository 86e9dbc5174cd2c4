package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// LogConfig holds transcript settings.
type LogConfig struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Config holds the csrsweep configuration.
type Config struct {
	// ProviderRoot overrides the swept registry path. Lab use only;
	// empty means the real CSR provider root.
	ProviderRoot string `toml:"provider_root"`

	// RestartSpooler gates the --restart-spooler flag. Both must be set
	// for the service to be touched.
	RestartSpooler bool `toml:"restart_spooler"`

	Log LogConfig `toml:"log"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			File:       defaultLogFile(),
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// programData returns the machine-wide data directory on Windows.
func programData() string {
	if dir := os.Getenv("ProgramData"); dir != "" {
		return dir
	}
	return `C:\ProgramData`
}

// defaultLogFile places the transcript next to the config on Windows.
// Elsewhere (development) the transcript stays off unless configured.
func defaultLogFile() string {
	if runtime.GOOS != "windows" {
		return ""
	}
	return filepath.Join(programData(), "csrsweep", "csrsweep.log")
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	if runtime.GOOS == "windows" {
		return filepath.Join(programData(), "csrsweep", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "csrsweep", "config.toml"), nil
}

// Load reads the config file.
// Returns Default() if the file doesn't exist (no error).
// Returns Default() plus an error if the file exists but is invalid;
// the caller warns and continues with defaults.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return cfg, nil
}
