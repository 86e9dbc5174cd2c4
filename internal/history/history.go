// Package history tracks recent csrsweep runs.
// This lets `csrsweep check` show when the last sweep happened and what
// it removed, which is the first thing anyone asks when a printer
// mapping failure is reported.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// maxEntries caps the history file; old runs fall off the end.
const maxEntries = 20

// Entry records the outcome of one run.
type Entry struct {
	Time     time.Time `json:"time"`
	DryRun   bool      `json:"dry_run,omitempty"`
	Profiles int       `json:"profiles_removed"`
	Printers int       `json:"printers_removed"`
	Ports    int       `json:"ports_removed"`
	Errors   int       `json:"errors,omitempty"`
}

// History stores the most recent runs, newest first.
type History struct {
	Runs []Entry `json:"runs"`
}

// Path returns the path to the history file.
func Path() string {
	if runtime.GOOS == "windows" {
		dir := os.Getenv("ProgramData")
		if dir == "" {
			dir = `C:\ProgramData`
		}
		return filepath.Join(dir, "csrsweep", "history.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "csrsweep", "history.json")
}

// Load reads the history from disk.
// A missing or corrupted file yields an empty history, not an error.
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, err
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		// Corrupted - start fresh
		return &History{}, nil
	}
	return &h, nil
}

// Save writes the history to disk atomically.
func (h *History) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

// Record prepends e to the history at path and saves it.
func Record(e Entry, path string) error {
	h, err := Load(path)
	if err != nil {
		return err
	}

	h.Runs = append([]Entry{e}, h.Runs...)
	if len(h.Runs) > maxEntries {
		h.Runs = h.Runs[:maxEntries]
	}
	return h.Save(path)
}

// Last returns the most recent run, or nil when none is recorded.
func (h *History) Last() *Entry {
	if len(h.Runs) == 0 {
		return nil
	}
	return &h.Runs[0]
}
