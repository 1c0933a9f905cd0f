// Package config loads and stores t3compat settings in the XDG config dir.
// Only non-secret settings are kept here; a DSN entered through
// `t3compat connect` goes to the OS keychain. Environment variables, also
// read from a .env file, override the stored values.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/xdg"
)

// Environment variables overriding the config file.
const (
	EnvDSN           = "T3COMPAT_DSN"
	EnvDriver        = "T3COMPAT_DRIVER"
	EnvRegistry      = "T3COMPAT_REGISTRY"
	EnvRegistryKey   = "T3COMPAT_REGISTRY_KEY"
	EnvNamespaceMode = "T3COMPAT_NAMESPACE_MODE"
	EnvLogLevel      = "T3COMPAT_LOG_LEVEL"
	EnvListen        = "T3COMPAT_LISTEN"
)

// Config holds non-sensitive settings.
type Config struct {
	LogLevel string         `json:"log_level"`
	DB       DBConfig       `json:"db"`
	Registry RegistryConfig `json:"registry"`
	Serve    ServeConfig    `json:"serve"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	// Driver is pgx, postgres or mysql. Empty means derived from the DSN.
	Driver string `json:"driver,omitempty"`
	// DSN is only set from the environment; stored DSNs live in the keychain.
	DSN string `json:"-"`
	// Provided records that a DSN was saved to the keychain.
	Provided bool `json:"provided"`
}

// RegistryConfig points at the YAML package registry, a file path or an
// http(s) URL.
type RegistryConfig struct {
	Path string `json:"path,omitempty"`
	// PublicKey is a PEM file verifying a remote registry's signature.
	PublicKey string `json:"public_key,omitempty"`
	// NamespaceMode is "registry" or "key"; see extension.NamespaceMode.
	NamespaceMode string `json:"namespace_mode,omitempty"`
}

// ServeConfig configures `t3compat serve`.
type ServeConfig struct {
	Listen   string `json:"listen"`
	BasePath string `json:"base_path"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Serve: ServeConfig{
			Listen:   "127.0.0.1:8080",
			BasePath: "/plugins",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads .env, the config file and the environment overrides, in that
// order of increasing precedence.
func Load() (Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	c, err := LoadFrom(afero.NewOsFs(), p)
	if err != nil {
		return c, err
	}
	ApplyEnv(&c, os.LookupEnv)
	return c, c.Validate()
}

// LoadFrom reads the config file at p; a missing file yields Default().
func LoadFrom(fsys afero.Fs, p string) (Config, error) {
	c := Default()
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, cerrors.Wrap(cerrors.ConfigInvalid, "parse "+p, err)
	}
	return c, nil
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cerrors.Wrap(cerrors.ConfigInvalid, "load "+p, err)
		}
	}
	return nil
}

// ApplyEnv overrides c with the T3COMPAT_* variables found by lookup.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.DB.DSN, EnvDSN)
	set(&c.DB.Driver, EnvDriver)
	set(&c.Registry.Path, EnvRegistry)
	set(&c.Registry.PublicKey, EnvRegistryKey)
	set(&c.Registry.NamespaceMode, EnvNamespaceMode)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Serve.Listen, EnvListen)
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "", "pgx", "postgres", "mysql":
	default:
		return cerrors.New(cerrors.ConfigInvalid, "unknown database driver "+c.DB.Driver)
	}
	switch c.Registry.NamespaceMode {
	case "", "registry", "key":
	default:
		return cerrors.New(cerrors.ConfigInvalid, `namespace_mode must be "registry" or "key"`)
	}
	return nil
}

// SaveTo writes c to p on fsys with 0600 permissions.
func SaveTo(fsys afero.Fs, p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, p, b, 0o600)
}
