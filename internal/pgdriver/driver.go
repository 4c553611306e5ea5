// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgdriver is a PostgreSQL handle that connection.Call forwards to.
// It serves three operations over a pgx connection pool:
//
//   - ping: checks the database is reachable
//   - query: runs a read statement and returns its columns and rows
//   - exec: runs a write statement inside a transaction and returns rows affected
//
// Statement arguments after the SQL text are passed to pgx as positional parameters.
package pgdriver

import (
	"context"
	"fmt"

	"queryfly/cli/internal/dsn"
	qerrors "queryfly/cli/internal/errors"
	"queryfly/cli/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
)

// Operation names served by Handle.
const (
	OpPing  = "ping"
	OpQuery = "query"
	OpExec  = "exec"
)

// Handle executes forwarded operations against a PostgreSQL pool.
type Handle struct {
	pool *pgxpool.Pool
	log  *pterm.Logger
}

// Open parses driverDSN and creates a pool. Passwords with unencoded special
// characters are escaped before pgx sees them. The pool connects lazily; use
// ping to check reachability.
func Open(ctx context.Context, driverDSN string, log *pterm.Logger) (*Handle, error) {
	info, err := dsn.ParsePostgres(driverDSN)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.ConfigInvalid, "parse driver dsn", err)
	}
	cfg, err := pgxpool.ParseConfig(info.Normalize())
	if err != nil {
		return nil, qerrors.Wrap(qerrors.ConfigInvalid, "parse driver dsn", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return New(pool, log), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, log *pterm.Logger) *Handle {
	if log == nil {
		log = logging.Discard()
	}
	return &Handle{pool: pool, log: log}
}

// Close releases the pool.
func (h *Handle) Close() {
	if h.pool != nil {
		h.pool.Close()
	}
}

// Invoke runs op. query and exec take the SQL text as their first argument.
func (h *Handle) Invoke(ctx context.Context, op string, args ...any) (any, error) {
	switch op {
	case OpPing, OpQuery, OpExec:
	default:
		return nil, qerrors.New(qerrors.UnsupportedOperation, fmt.Sprintf("%s: unknown driver operation", op))
	}
	if h.pool == nil {
		return nil, qerrors.New(qerrors.ConfigInvalid, "driver handle has no pool")
	}

	if op == OpPing {
		if err := h.pool.Ping(ctx); err != nil {
			return nil, err
		}
		return "pong", nil
	}

	sql, params, err := splitStatement(op, args)
	if err != nil {
		return nil, err
	}
	h.log.Debug("driver", h.log.Args("op", op, "sql", logging.Mask(sql), "params", len(params)))
	if op == OpExec {
		return h.exec(ctx, sql, params)
	}
	return h.query(ctx, sql, params)
}

func splitStatement(op string, args []any) (string, []any, error) {
	if len(args) == 0 {
		return "", nil, qerrors.New(qerrors.UnsupportedOperation, fmt.Sprintf("%s: missing SQL statement", op))
	}
	sql, ok := args[0].(string)
	if !ok || sql == "" {
		return "", nil, qerrors.New(qerrors.UnsupportedOperation, fmt.Sprintf("%s: first argument must be SQL text", op))
	}
	return sql, args[1:], nil
}

func (h *Handle) query(ctx context.Context, sql string, params []any) (Result, error) {
	res := Result{Columns: []string{}, Rows: [][]any{}}

	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return res, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, params...)
	if err != nil {
		return res, err
	}
	defer rows.Close()

	for _, fd := range rows.FieldDescriptions() {
		res.Columns = append(res.Columns, fd.Name)
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return res, err
		}
		res.Rows = append(res.Rows, vals)
	}
	return res, rows.Err()
}

func (h *Handle) exec(ctx context.Context, sql string, params []any) (Result, error) {
	res := Result{}

	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return res, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, sql, params...)
	if err != nil {
		return res, err
	}
	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("commit: %w", err)
	}
	res.RowsAffected = tag.RowsAffected()
	return res, nil
}
