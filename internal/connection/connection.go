// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package connection makes a remote HTTP data API look like a database connection.
//
// A query builder hands the connection a query-string fragment plus bindings.
// Each operation resolves the base endpoint from the connection's configuration,
// appends the fragment, performs exactly one HTTP round trip and either returns
// the response's data payload or an error carrying the URL and the server's
// message:
//
//	conn, err := connection.New(cfg)
//	rows, err := conn.Select(ctx, "/users?where=active", nil)
//
// Nothing is retried and nothing is cached: every call re-resolves the endpoint
// and, with several hosts configured, may land on a different one.
package connection

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"queryfly/cli/internal/dsn"
	qerrors "queryfly/cli/internal/errors"
	"queryfly/cli/internal/logging"
	"queryfly/cli/internal/transport"

	"github.com/pterm/pterm"
)

// DriverName identifies this connection type in diagnostics.
const DriverName = "queryfly"

// Bindings are the parameter values of a query, sent as the body of non-GET requests.
type Bindings map[string]any

// Handle is an underlying driver that serves operations the connection does not
// implement itself.
type Handle interface {
	Invoke(ctx context.Context, op string, args ...any) (any, error)
}

// Connection is a database-style connection backed by a remote HTTP API.
// Operations on one Connection are serialized: each holds the connection for
// its full round trip.
type Connection struct {
	mu sync.Mutex

	cfg        dsn.Config
	resolver   *dsn.Resolver
	dispatcher transport.Dispatcher
	driver     Handle
	log        *pterm.Logger

	logging  bool
	queryLog []QueryEntry
}

// Option configures a Connection.
type Option func(*Connection)

// WithDispatcher replaces the default HTTP dispatcher.
func WithDispatcher(d transport.Dispatcher) Option {
	return func(c *Connection) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

// WithHostSelector replaces uniform random host selection.
func WithHostSelector(sel dsn.HostSelector) Option {
	return func(c *Connection) {
		if sel != nil {
			c.resolver = &dsn.Resolver{Selector: sel}
		}
	}
}

// WithDriver registers the handle unrecognized operations are forwarded to.
func WithDriver(h Handle) Option {
	return func(c *Connection) { c.driver = h }
}

// WithLogger sets the logger requests are reported to at debug level.
func WithLogger(l *pterm.Logger) Option {
	return func(c *Connection) {
		if l != nil {
			c.log = l
		}
	}
}

// New validates cfg and creates a connection. Misconfiguration is reported here,
// not on the first request.
func New(cfg dsn.Config, opts ...Option) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, qerrors.Wrap(qerrors.ConfigInvalid, "connection config rejected", err)
	}
	c := &Connection{
		cfg:        cfg.Clone(),
		resolver:   dsn.NewResolver(),
		dispatcher: transport.NewHTTP(),
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns a copy of the connection's configuration.
func (c *Connection) Config() dsn.Config {
	return c.cfg.Clone()
}

// DriverName returns the fixed driver identifier.
func (c *Connection) DriverName() string {
	return DriverName
}

// Endpoint resolves the base URL a request issued now would use.
func (c *Connection) Endpoint() (string, error) {
	base, err := c.resolver.Resolve(c.cfg)
	if err != nil {
		return "", qerrors.Wrap(qerrors.ConfigInvalid, "resolve endpoint", err)
	}
	return base, nil
}

// Select fetches fragment with GET. Bindings are accepted but never sent.
func (c *Connection) Select(ctx context.Context, fragment string, bindings Bindings) (json.RawMessage, error) {
	return c.run(ctx, http.MethodGet, fragment, bindings)
}

// Insert posts bindings to fragment.
func (c *Connection) Insert(ctx context.Context, fragment string, bindings Bindings) (json.RawMessage, error) {
	return c.run(ctx, http.MethodPost, fragment, bindings)
}

// Update is Insert: same method, same body, same result.
// TODO: switch to PUT once the remote API distinguishes updates from creates.
func (c *Connection) Update(ctx context.Context, fragment string, bindings Bindings) (json.RawMessage, error) {
	return c.Insert(ctx, fragment, bindings)
}

// Disconnect does nothing; there is no persistent connection to release.
func (c *Connection) Disconnect() error {
	return nil
}

// Call forwards op to the registered driver handle.
func (c *Connection) Call(ctx context.Context, op string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driver == nil {
		return nil, qerrors.New(qerrors.UnsupportedOperation, fmt.Sprintf("%s: no underlying driver handle registered", op))
	}
	c.log.Debug("forward", c.log.Args("op", op, "args", len(args)))
	return c.driver.Invoke(ctx, op, args...)
}

func (c *Connection) run(ctx context.Context, method, fragment string, bindings Bindings) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base, err := c.resolver.Resolve(c.cfg)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.ConfigInvalid, "resolve endpoint", err)
	}
	url := base + fragment

	var body any
	if method != http.MethodGet {
		if bindings == nil {
			bindings = Bindings{}
		}
		body = bindings
	}

	start := time.Now()
	out, err := c.dispatcher.Dispatch(ctx, method, url, body)
	elapsed := Elapsed(start)
	c.record(method, url, bindings, elapsed)

	if err != nil {
		c.log.Debug("request failed", c.log.Args("method", method, "url", logging.Mask(url), "elapsed", elapsed, "error", logging.Mask(err.Error())))
		var qe *qerrors.E
		if stderrors.As(err, &qe) {
			return nil, err
		}
		return nil, qerrors.Transport(url, err)
	}
	if !out.OK() {
		c.log.Debug("request rejected", c.log.Args("method", method, "url", logging.Mask(url), "elapsed", elapsed, "status", string(out.Status)))
		return nil, qerrors.Request(url, out.ErrorMessage)
	}
	c.log.Debug("request", c.log.Args("method", method, "url", logging.Mask(url), "elapsed", elapsed))
	return out.Data, nil
}

// Elapsed returns the time since start, rounded to 10µs.
func Elapsed(start time.Time) time.Duration {
	return time.Since(start).Round(10 * time.Microsecond)
}
