// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores per-connection secrets in the OS credential store.
// Each named connection may have an API token and a DSN override; both are kept
// out of the config file.
//
// On macOS the native security command is tried first, then the keyring
// library backends for the platform.
package keychain

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "queryfly"

// ErrNotFound is returned when no secret is stored under a key.
var ErrNotFound = errors.New("secret not found in keychain")

var (
	globalManager *Manager
	mu            sync.Mutex
)

// Manager provides thread-safe secret storage for named connections.
type Manager struct {
	mu      sync.RWMutex
	backend backend
}

type backend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// TokenKey is the keychain key holding the API token for connection name.
func TokenKey(name string) string { return "token:" + name }

// DSNKey is the keychain key holding the DSN override for connection name.
func DSNKey(name string) string { return "dsn:" + name }

// NewManager opens the OS credential store.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if b, err := newSecurityBackend(); err == nil {
			return &Manager{backend: b}, nil
		}
	}
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewWithRing(ring), nil
}

// NewWithRing builds a Manager over an already opened keyring.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{backend: ringBackend{ring: ring}}
}

// GetManager returns the process-wide Manager, opening it on first use.
// A failed open is retried on the next call.
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
	return m, nil
}

func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowed,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
		LibSecretCollectionName: ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("open keychain: %w (set QUERYFLY_TOKEN to skip secure storage)", err)
	}
	return ring, nil
}

// SaveToken stores the API token for connection name.
func (m *Manager) SaveToken(name, token string) error {
	return m.set(TokenKey(name), token)
}

// LoadToken returns the API token for connection name, or ErrNotFound.
func (m *Manager) LoadToken(name string) (string, error) {
	return m.get(TokenKey(name))
}

// SaveDSN stores a DSN override for connection name.
func (m *Manager) SaveDSN(name, dsn string) error {
	return m.set(DSNKey(name), dsn)
}

// LoadDSN returns the DSN override for connection name, or ErrNotFound.
func (m *Manager) LoadDSN(name string) (string, error) {
	return m.get(DSNKey(name))
}

// Forget removes every secret stored for connection name. Missing entries are
// not an error.
func (m *Manager) Forget(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, key := range []string{TokenKey(name), DSNKey(name)} {
		if err := m.backend.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) set(key, value string) error {
	if value == "" {
		return fmt.Errorf("refusing to store empty value for %s", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Set(key, value)
}

func (m *Manager) get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.backend.Get(key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (r ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}
