// Package xdg resolves the XDG Base Directory locations used by t3compat.
// When the XDG variables are unset it falls back to the usual dot
// directories in the user's home.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "t3compat"

// ConfigDir returns the XDG config directory for t3compat.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/t3compat when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for t3compat, falling back to
// ~/.local/state/t3compat. The file keyring backend stores its items there.
func StateDir() (string, error) {
	return appDir("XDG_STATE_HOME", ".local", "state")
}

func appDir(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
