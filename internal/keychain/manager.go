// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores the database DSN in the OS keychain or credential
// store, so that `t3compat connect` does not write passwords to the config
// file.
//
// macOS Keychain, Windows Credential Manager, Secret Service, KWallet and
// pass are tried in that order for the platform. On Linux hosts without any
// of them an encrypted file store in the XDG state dir is used when
// T3COMPAT_KEYRING_PASSWORD is set.
package keychain

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	mu            sync.Mutex
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "t3compat"

// Keys used for storing secrets in the OS keychain.
const (
	KeyDBDSN    = "db_dsn"
	KeyDBDriver = "db_driver"
)

// EnvFilePassword unlocks the file backend.
const EnvFilePassword = "T3COMPAT_KEYRING_PASSWORD"

// Manager provides thread-safe access to the stored connection secrets.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager opens the platform keyring.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
	return globalManager, nil
}

// MustGetManager returns the global keychain manager instance.
// Panics if initialization fails. Use only when you're sure initialization will succeed.
func MustGetManager() *Manager {
	manager, err := GetManager()
	if err != nil {
		panic(err)
	}
	return manager
}

func allowedBackends(goos string, filePassword bool) []keyring.BackendType {
	switch goos {
	case "darwin":
		// pass covers macOS releases where the Keychain API is unavailable
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	}
	backends := []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	if filePassword {
		backends = append(backends, keyring.FileBackend)
	}
	return backends
}

// openRing opens the keyring with the native backends of the platform.
func openRing() (keyring.Keyring, error) {
	password, hasPassword := os.LookupEnv(EnvFilePassword)

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends(runtime.GOOS, hasPassword && password != ""),
		PassPrefix:      ServiceName,
		KWalletAppID:    ServiceName,
		KWalletFolder:   ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}
	if hasPassword && password != "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.FileDir = dir
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(password)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if errors.Is(err, keyring.ErrNoAvailImpl) {
			return nil, cerrors.Wrap(cerrors.ConfigInvalid, "no secure storage available; set "+EnvFilePassword+" to use an encrypted file or pass T3COMPAT_DSN instead", err)
		}
		return nil, err
	}
	return ring, nil
}

// SaveDB stores the DSN and its driver. An empty driver is not stored.
func (m *Manager) SaveDB(dsn, driver string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Set(keyring.Item{Key: KeyDBDSN, Data: []byte(dsn), Label: "t3compat database DSN"}); err != nil {
		return err
	}
	if driver == "" {
		_ = m.ring.Remove(KeyDBDriver)
		return nil
	}
	return m.ring.Set(keyring.Item{Key: KeyDBDriver, Data: []byte(driver)})
}

// LoadDB returns the stored DSN and driver. A missing DSN is NotFound.
func (m *Manager) LoadDB() (dsn, driver string, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyDBDSN)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", "", cerrors.Wrap(cerrors.NotFound, "no database connection stored; run `t3compat connect`", err)
		}
		return "", "", err
	}
	if len(it.Data) == 0 {
		return "", "", cerrors.New(cerrors.NotFound, "stored database connection is empty")
	}
	if d, err := m.ring.Get(KeyDBDriver); err == nil {
		driver = string(d.Data)
	}
	return string(it.Data), driver, nil
}

// ClearDB removes DB-related secrets from the keychain.
func (m *Manager) ClearDB() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.ring.Remove(KeyDBDSN)
	_ = m.ring.Remove(KeyDBDriver)
	return nil
}
