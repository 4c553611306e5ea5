// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrefix is the API path prefix used when Config.Prefix is empty.
const DefaultPrefix = "/api"

// Config describes how to reach the remote data API for one logical database.
// It is read-only once handed to a connection.
type Config struct {
	// DSN is a pre-composed base URL. When set, all other fields are ignored.
	DSN      string `json:"dsn,omitempty"`
	Host     Hosts  `json:"host,omitempty"`
	Protocol string `json:"protocol,omitempty"`
	Database string `json:"database,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	// Port is appended only to hosts that carry no explicit port.
	Port Port `json:"port,omitempty"`
	// DriverDSN optionally points at a PostgreSQL database serving forwarded operations.
	DriverDSN string `json:"driver_dsn,omitempty"`
}

// EffectivePrefix returns Prefix, or DefaultPrefix when Prefix is empty.
func (c Config) EffectivePrefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

// Clone returns a copy of c that shares no mutable state with it.
func (c Config) Clone() Config {
	out := c
	if c.Host != nil {
		out.Host = append(Hosts(nil), c.Host...)
	}
	return out
}

// Hosts is an ordered set of hostnames. In JSON it is either a single string
// or an array of strings.
type Hosts []string

// UnmarshalJSON accepts "a.example.com" as well as ["a.example.com", "b.example.com"].
func (h *Hosts) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*h = nil
			return nil
		}
		*h = Hosts{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("host must be a string or an array of strings: %w", err)
	}
	*h = Hosts(many)
	return nil
}

// MarshalJSON writes a one-element set back as a plain string.
func (h Hosts) MarshalJSON() ([]byte, error) {
	if len(h) == 1 {
		return json.Marshal(h[0])
	}
	return json.Marshal([]string(h))
}

// Port is a TCP port kept in string form. In JSON it may be a number or a string.
type Port string

// UnmarshalJSON accepts 8080 as well as "8080".
func (p *Port) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*p = Port(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("port must be a number or a string: %w", err)
	}
	*p = Port(strings.TrimSpace(s))
	return nil
}

// Valid reports whether p is empty or a number in the TCP port range.
func (p Port) Valid() bool {
	if p == "" {
		return true
	}
	n, err := strconv.Atoi(string(p))
	return err == nil && n > 0 && n <= 65535
}

// ConfigError represents missing or malformed connection configuration.
type ConfigError struct {
	Field  string
	Reason string
	Hint   string
}

func (e *ConfigError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid connection config: %s: %s\nHint: %s", e.Field, e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid connection config: %s: %s", e.Field, e.Reason)
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, reason, hint string) *ConfigError {
	return &ConfigError{
		Field:  field,
		Reason: reason,
		Hint:   hint,
	}
}
