package config

import (
	"os"
	"path/filepath"
)

const appName = "opsim"

// Dir returns the opsim config directory, respecting XDG_CONFIG_HOME.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), appName+".conf")
}

// DefaultLogPath is where the log goes when [log] file is unset. It lives
// under XDG_STATE_HOME, falling back to ~/.local/state.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, appName, appName+".log")
}
