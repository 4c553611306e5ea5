// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func newTestManager() *Manager {
	return NewWithRing(keyring.NewArrayKeyring(nil))
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	if _, err := m.LoadToken("shop"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadToken() before save error = %v, want ErrNotFound", err)
	}
	if err := m.SaveToken("shop", "secret"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	got, err := m.LoadToken("shop")
	if err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	if got != "secret" {
		t.Errorf("LoadToken() = %q, want secret", got)
	}
	if _, err := m.LoadToken("stats"); !errors.Is(err, ErrNotFound) {
		t.Errorf("token leaked across connections: %v", err)
	}
}

func TestDSNRoundTrip(t *testing.T) {
	m := newTestManager()
	if err := m.SaveDSN("shop", "https://h/api/shop"); err != nil {
		t.Fatalf("SaveDSN() error = %v", err)
	}
	got, err := m.LoadDSN("shop")
	if err != nil || got != "https://h/api/shop" {
		t.Errorf("LoadDSN() = %q, %v", got, err)
	}
}

func TestForget(t *testing.T) {
	m := newTestManager()
	_ = m.SaveToken("shop", "secret")
	_ = m.SaveDSN("shop", "https://h/api/shop")
	_ = m.SaveToken("stats", "other")

	if err := m.Forget("shop"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if _, err := m.LoadToken("shop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("token survived Forget: %v", err)
	}
	if _, err := m.LoadDSN("shop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("dsn survived Forget: %v", err)
	}
	if got, _ := m.LoadToken("stats"); got != "other" {
		t.Errorf("Forget removed another connection's token")
	}
	if err := m.Forget("shop"); err != nil {
		t.Errorf("second Forget() error = %v", err)
	}
}

func TestSaveEmptyRejected(t *testing.T) {
	if err := newTestManager().SaveToken("shop", ""); err == nil {
		t.Error("expected error but got none")
	}
}

func TestKeys(t *testing.T) {
	if TokenKey("a") == DSNKey("a") {
		t.Error("token and dsn keys collide")
	}
}
