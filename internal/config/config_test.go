// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"queryfly/cli/internal/dsn"
	qerrors "queryfly/cli/internal/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(EnvConfig, p)
	t.Setenv(EnvConnection, "")
	t.Setenv(EnvDSN, "")
	t.Setenv(EnvLogLevel, "")
	return p
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	isolate(t)
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", c.LogLevel)
	}
	if c.Connections == nil || len(c.Connections) != 0 {
		t.Errorf("Connections = %v, want empty map", c.Connections)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := isolate(t)
	in := Config{
		LogLevel:          "debug",
		DefaultConnection: "shop",
		Connections: map[string]dsn.Config{
			"shop": {Host: dsn.Hosts{"a", "b"}, Protocol: "https", Database: "shop", Port: "8443"},
		},
	}
	if err := Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	shop := out.Connections["shop"]
	if out.LogLevel != "debug" || out.DefaultConnection != "shop" {
		t.Errorf("got %+v", out)
	}
	if len(shop.Host) != 2 || shop.Port != "8443" || shop.Database != "shop" {
		t.Errorf("shop = %+v", shop)
	}
}

func TestLoad_AcceptsScalarHostAndNumericPort(t *testing.T) {
	p := isolate(t)
	raw := `{"connections":{"default":{"host":"api.example.com","port":8080,"protocol":"http","database":"db"}}}`
	if err := os.WriteFile(p, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	_, cfg, err := c.Active("")
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	got, err := dsn.Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "http://api.example.com:8080/api/db" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestLoad_Malformed(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected error but got none")
	}
}

func TestActive(t *testing.T) {
	c := Config{
		DefaultConnection: "shop",
		Connections: map[string]dsn.Config{
			"shop":  {Host: dsn.Hosts{"s"}, Protocol: "https", Database: "shop"},
			"stats": {Host: dsn.Hosts{"t"}, Protocol: "https", Database: "stats"},
		},
	}

	tests := []struct {
		name     string
		arg      string
		envConn  string
		envDSN   string
		wantName string
		wantDB   string
		wantDSN  string
		wantErr  bool
	}{
		{name: "default connection", wantName: "shop", wantDB: "shop"},
		{name: "explicit wins", arg: "stats", envConn: "shop", wantName: "stats", wantDB: "stats"},
		{name: "env selects", envConn: "stats", wantName: "stats", wantDB: "stats"},
		{name: "env dsn overrides", envDSN: "https://o/api/x", wantName: "shop", wantDB: "shop", wantDSN: "https://o/api/x"},
		{name: "env dsn alone", arg: "adhoc", envDSN: "https://o/api/x", wantName: "adhoc", wantDSN: "https://o/api/x"},
		{name: "unknown", arg: "nope", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConnection, tt.envConn)
			t.Setenv(EnvDSN, tt.envDSN)

			name, cfg, err := c.Active(tt.arg)
			if tt.wantErr {
				if !qerrors.IsKind(err, qerrors.ConfigInvalid) {
					t.Errorf("Active() error = %v, want kind %s", err, qerrors.ConfigInvalid)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.wantName || cfg.Database != tt.wantDB || cfg.DSN != tt.wantDSN {
				t.Errorf("Active() = %q %+v", name, cfg)
			}
		})
	}

	if c.Connections["shop"].DSN != "" {
		t.Error("Active mutated the stored connection")
	}
}

func TestLevelName(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	if got := (Config{}).LevelName(); got != "info" {
		t.Errorf("LevelName() = %q, want info", got)
	}
	if got := (Config{LogLevel: "warn"}).LevelName(); got != "warn" {
		t.Errorf("LevelName() = %q, want warn", got)
	}
	t.Setenv(EnvLogLevel, "debug")
	if got := (Config{LogLevel: "warn"}).LevelName(); got != "debug" {
		t.Errorf("LevelName() = %q, want debug", got)
	}
}

func TestNames(t *testing.T) {
	c := Config{Connections: map[string]dsn.Config{"b": {}, "a": {}}}
	got := c.Names()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names() = %v", got)
	}
}
