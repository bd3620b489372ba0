package config

import (
	"os"
	"path/filepath"
)

// DataPath returns the root directory for Antigravity data.
// It uses $ANTIGRAVITY_PATH if set, otherwise defaults to ~/.antigravity.
func DataPath() string {
	if v := os.Getenv("ANTIGRAVITY_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".antigravity")
	}
	return filepath.Join(home, ".antigravity")
}

// ConfigPath returns the path to the Antigravity config file.
func ConfigPath() string {
	return filepath.Join(DataPath(), "config.jsonc")
}

// DotenvPath returns the path to the Antigravity .env file.
func DotenvPath() string {
	return filepath.Join(DataPath(), ".env")
}

// StorePath returns the directory where task collections are persisted.
func StorePath() string {
	return filepath.Join(DataPath(), "store")
}

// CachePath returns the directory where offline assets are cached.
func CachePath() string {
	return filepath.Join(DataPath(), "cache")
}
