package config

import (
	"os"
	"path/filepath"
)

// DefaultLogFile returns the log file used while the TUI owns the terminal.
func DefaultLogFile() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "prompt-selector.log")
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "prompt-selector", "prompt-selector.log")
}
