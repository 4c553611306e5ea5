// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"queryfly/cli/internal/config"
	"queryfly/cli/internal/connection"
	"queryfly/cli/internal/dsn"
	"queryfly/cli/internal/keychain"
	"queryfly/cli/internal/logging"
	"queryfly/cli/internal/pgdriver"
	"queryfly/cli/internal/transport"

	"github.com/pterm/pterm"
)

// Where a secret came from, for dbinfo.
const (
	sourceNone     = "none"
	sourceEnv      = "environment"
	sourceKeychain = "OS keychain"
	sourceConfig   = "config file"
)

// target is the active connection with its secrets resolved.
type target struct {
	name        string
	cfg         dsn.Config
	token       string
	tokenSource string
	dsnSource   string
	log         *pterm.Logger
}

// loadTarget reads the config file, applies environment overrides and fills in
// secrets from the keychain. An unavailable keychain is not fatal: env vars
// and the config file may be enough.
func loadTarget() (*target, error) {
	file, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := logLevel
	if level == "" {
		level = file.LevelName()
	}
	log, err := logging.NewLogger(level, os.Stderr)
	if err != nil {
		return nil, err
	}

	t := &target{log: log, tokenSource: sourceNone, dsnSource: sourceNone}

	name := file.ActiveName(connectionName)
	_, known := file.Connections[name]
	envDSN := strings.TrimSpace(os.Getenv(config.EnvDSN)) != ""
	t.token = strings.TrimSpace(os.Getenv(config.EnvToken))
	if t.token != "" {
		t.tokenSource = sourceEnv
	}

	var km *keychain.Manager
	if t.token == "" || !envDSN {
		if km, err = keychain.GetManager(); err != nil {
			log.Debug("keychain unavailable", log.Args("error", err.Error()))
			km = nil
		}
	}

	// A DSN override stored with 'connect --dsn' stands in for a missing entry.
	var storedDSN string
	if km != nil && !envDSN {
		if v, err := km.LoadDSN(name); err == nil {
			storedDSN = v
		} else if !errors.Is(err, keychain.ErrNotFound) {
			log.Debug("keychain dsn lookup failed", log.Args("connection", name, "error", err.Error()))
		}
	}
	if !known && !envDSN && storedDSN != "" {
		file.Connections[name] = dsn.Config{DSN: storedDSN}
	}

	t.name, t.cfg, err = file.Active(connectionName)
	if err != nil {
		return nil, err
	}
	switch {
	case envDSN:
		t.dsnSource = sourceEnv
	case storedDSN != "":
		t.cfg.DSN = storedDSN
		t.dsnSource = sourceKeychain
	case t.cfg.DSN != "":
		t.dsnSource = sourceConfig
	}

	if t.token == "" && km != nil {
		if v, err := km.LoadToken(t.name); err == nil {
			t.token = v
			t.tokenSource = sourceKeychain
		} else if !errors.Is(err, keychain.ErrNotFound) {
			log.Debug("keychain token lookup failed", log.Args("connection", t.name, "error", err.Error()))
		}
	}
	return t, nil
}

// session is an open connection plus the resources it owns.
type session struct {
	*target
	conn   *connection.Connection
	driver *pgdriver.Handle
}

func openSession(ctx context.Context) (*session, error) {
	t, err := loadTarget()
	if err != nil {
		return nil, err
	}
	s := &session{target: t}

	opts := []connection.Option{
		connection.WithDispatcher(transport.NewHTTP(
			transport.WithToken(t.token),
			transport.WithUserAgent("queryfly-cli/"+Version),
		)),
		connection.WithLogger(t.log),
	}
	if t.cfg.DriverDSN != "" {
		h, err := pgdriver.Open(ctx, t.cfg.DriverDSN, t.log)
		if err != nil {
			return nil, err
		}
		s.driver = h
		opts = append(opts, connection.WithDriver(h))
	}

	s.conn, err = connection.New(t.cfg, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	if keepHistory {
		s.conn.EnableQueryLog()
	}
	t.log.Debug("session", t.log.Args("connection", t.name, "dsn_source", t.dsnSource, "token_source", t.tokenSource))
	return s, nil
}

// Close writes the query history when enabled and releases the driver pool.
func (s *session) Close() {
	if s.conn != nil && keepHistory {
		if err := appendHistory(s.name, s.conn.QueryLog()); err != nil {
			s.log.Warn("could not write query history", s.log.Args("error", err.Error()))
		}
		s.conn.FlushQueryLog()
	}
	if s.conn != nil {
		_ = s.conn.Disconnect()
	}
	if s.driver != nil {
		s.driver.Close()
	}
}
