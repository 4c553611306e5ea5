// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; API tokens and DSN overrides go to
// the OS keychain.
//
// The file holds named connections:
//
//	{
//	  "log_level": "info",
//	  "default_connection": "shop",
//	  "connections": {
//	    "shop": {"host": ["a.example.com", "b.example.com"], "protocol": "https", "database": "shop"}
//	  }
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"queryfly/cli/internal/dsn"
	qerrors "queryfly/cli/internal/errors"
	"queryfly/cli/internal/logging"
	"queryfly/cli/internal/xdg"
)

// Environment variables that override the config file.
const (
	EnvConfig     = "QUERYFLY_CONFIG"
	EnvConnection = "QUERYFLY_CONNECTION"
	EnvDSN        = "QUERYFLY_DSN"
	EnvToken      = "QUERYFLY_TOKEN"
	EnvLogLevel   = "QUERYFLY_LOG_LEVEL"
)

// DefaultConnection is the connection name used when none is selected.
const DefaultConnection = "default"

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel          string                `json:"log_level"`
	DefaultConnection string                `json:"default_connection,omitempty"`
	Connections       map[string]dsn.Config `json:"connections"`
}

// Path returns the config file location. QUERYFLY_CONFIG wins over the XDG dir.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	c := Config{LogLevel: logging.DefaultLevel, Connections: map[string]dsn.Config{}}
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	if c.Connections == nil {
		c.Connections = map[string]dsn.Config{}
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// LevelName returns the log level to use: QUERYFLY_LOG_LEVEL, then the file,
// then the default.
func (c Config) LevelName() string {
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		return lvl
	}
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return logging.DefaultLevel
}

// ActiveName picks the connection name: the explicit name, then
// QUERYFLY_CONNECTION, then default_connection, then "default".
func (c Config) ActiveName(name string) string {
	for _, n := range []string{name, os.Getenv(EnvConnection), c.DefaultConnection} {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return DefaultConnection
}

// Active returns the selected connection with QUERYFLY_DSN applied. A DSN from
// the environment is enough on its own; the named connection need not exist.
func (c Config) Active(name string) (string, dsn.Config, error) {
	name = c.ActiveName(name)
	cfg, ok := c.Connections[name]
	envDSN := strings.TrimSpace(os.Getenv(EnvDSN))
	if !ok && envDSN == "" {
		return name, dsn.Config{}, qerrors.New(qerrors.ConfigInvalid,
			fmt.Sprintf("connection %q is not configured (known: %s)", name, strings.Join(c.Names(), ", ")))
	}
	cfg = cfg.Clone()
	if envDSN != "" {
		cfg.DSN = envDSN
	}
	return name, cfg, nil
}

// Names returns the configured connection names in sorted order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.Connections))
	for n := range c.Connections {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
