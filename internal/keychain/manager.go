// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe secret storage for techsite on top of the
// OS keyring. It is the durable per-client store behind the session token store:
// access and refresh tokens and the auth-origin marker live here.
//
// Native backends (macOS Keychain, Windows Credential Manager, Secret Service,
// KWallet, pass) are preferred. An encrypted file backend is available for
// headless hosts where no native keyring exists.
package keychain

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "techsite"

// Keys used for storing secrets in the keyring.
const (
	KeyAccessToken  = "auth_access_token"
	KeyRefreshToken = "auth_refresh_token"
	KeyAuthOrigin   = "auth_origin"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("keychain: key not found")

// Options selects the keyring backend.
type Options struct {
	// Backend is "" for the platform's native stores, or "file".
	Backend string
	// FileDir is the directory used by the file backend.
	FileDir string
	// FilePassword encrypts the file backend. Required when Backend is "file".
	FilePassword string
}

// Manager provides centralized, thread-safe operations for the keyring.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager wraps an already opened keyring. Tests pass keyring.NewArrayKeyring.
func NewManager(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// Open opens the keyring described by opts.
func Open(opts Options) (*Manager, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
		LibSecretCollectionName:  ServiceName,
		KeychainTrustApplication: true,
	}

	switch opts.Backend {
	case "":
		cfg.AllowedBackends = nativeBackends()
	case "file":
		if opts.FilePassword == "" {
			return nil, errors.New("keychain: file backend requires a password (TECHSITE_KEYRING_PASSWORD)")
		}
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		cfg.FileDir = opts.FileDir
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
	default:
		return nil, fmt.Errorf("keychain: unknown backend %q", opts.Backend)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, fmt.Errorf("macOS Keychain unavailable, set keyring_backend to \"file\": %w", err)
		}
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewManager(ring), nil
}

// nativeBackends lists the platform stores we are willing to use, in order.
func nativeBackends() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	default:
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.KeyCtlBackend,
		}
	}
}

// Get retrieves a value. A missing or empty entry yields ErrNotFound.
// This method is thread-safe.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

// Set stores value under key, overwriting any previous value.
// This method is thread-safe.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       ServiceName + " " + key,
		Description: "techsite session secret",
	})
}

// Delete removes key. Deleting a missing key is not an error.
// This method is thread-safe.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
