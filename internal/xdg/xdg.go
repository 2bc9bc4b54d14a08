// Package xdg resolves XDG Base Directory paths for techsite.
//
// Configuration lives under XDG_CONFIG_HOME and the encrypted file keyring,
// when selected, under XDG_DATA_HOME. Both fall back to the conventional
// locations in the user's home directory and are created private (0700).
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "techsite"

// ConfigDir returns the config directory, falling back to ~/.config/techsite.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the data directory, falling back to ~/.local/share/techsite.
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", ".local", "share")
}

func resolve(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
