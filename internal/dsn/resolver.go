// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn turns connection configuration into the base URL of the remote data API.
//
// A resolved endpoint has the form {protocol}://{host}{prefix}/{database}. When a
// connection lists several hosts, one of them is picked per resolution by a
// HostSelector; nothing is cached between calls.
package dsn

import (
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"
)

var reScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*$`)

// HostSelector picks exactly one host out of a non-empty set.
type HostSelector interface {
	Select(hosts []string) string
}

// SelectorFunc adapts a plain function to HostSelector.
type SelectorFunc func(hosts []string) string

func (f SelectorFunc) Select(hosts []string) string { return f(hosts) }

// UniformRandom picks a host uniformly at random. It keeps no state.
type UniformRandom struct{}

func (UniformRandom) Select(hosts []string) string {
	if len(hosts) == 0 {
		return ""
	}
	return hosts[rand.IntN(len(hosts))]
}

// Resolver composes endpoints from Config.
type Resolver struct {
	// Selector chooses among multiple hosts. Nil means UniformRandom.
	Selector HostSelector
}

// NewResolver creates a resolver with uniform random host selection.
func NewResolver() *Resolver {
	return &Resolver{Selector: UniformRandom{}}
}

// Resolve returns the base URL for one call. A non-empty cfg.DSN is returned verbatim.
func (r *Resolver) Resolve(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if err := cfg.validateEndpoint(); err != nil {
		return "", err
	}

	hosts := make([]string, len(cfg.Host))
	for i, h := range cfg.Host {
		h = strings.TrimSpace(h)
		if !strings.Contains(h, ":") && cfg.Port != "" {
			h = h + ":" + string(cfg.Port)
		}
		hosts[i] = h
	}

	sel := r.Selector
	if sel == nil {
		sel = UniformRandom{}
	}
	host := sel.Select(hosts)

	var b strings.Builder
	b.WriteString(cfg.Protocol)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(cfg.EffectivePrefix())
	b.WriteString("/")
	b.WriteString(cfg.Database)
	return b.String(), nil
}

// Resolve resolves cfg with a default resolver.
func Resolve(cfg Config) (string, error) {
	return NewResolver().Resolve(cfg)
}

// Validate checks that cfg carries everything resolution needs.
func (c Config) Validate() error {
	if err := c.validateEndpoint(); err != nil {
		return err
	}
	if c.DriverDSN != "" {
		if _, err := ParsePostgres(c.DriverDSN); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validateEndpoint() error {
	if c.DSN != "" {
		u, err := url.Parse(c.DSN)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return NewConfigError("dsn", "not an absolute URL", "use the form https://host/api/database")
		}
		return nil
	}

	if strings.TrimSpace(c.Protocol) == "" {
		return NewConfigError("protocol", "missing", "set protocol to http or https")
	}
	if !reScheme.MatchString(c.Protocol) {
		return NewConfigError("protocol", "malformed scheme "+c.Protocol, "set protocol to http or https")
	}
	if len(c.Host) == 0 {
		return NewConfigError("host", "missing", "set host to a hostname or a list of hostnames")
	}
	for _, h := range c.Host {
		if strings.TrimSpace(h) == "" {
			return NewConfigError("host", "empty hostname in host list", "")
		}
	}
	if strings.TrimSpace(c.Database) == "" {
		return NewConfigError("database", "missing", "set database to the logical database name")
	}
	if !c.Port.Valid() {
		return NewConfigError("port", "invalid port number: "+string(c.Port), "port must be numeric")
	}
	return nil
}
