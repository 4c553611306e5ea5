// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"queryfly/cli/internal/transport"
)

// Dispatcher implements transport.Dispatcher with configurable outcomes and call
// recording.
type Dispatcher struct {
	mu        sync.Mutex
	responses map[string]Response

	// Default is returned when no method/URL-specific response exists.
	Default Response

	calls []Call
}

// Response describes what the mock returns for one request.
type Response struct {
	Outcome transport.Outcome
	// Err, when set, is returned instead of the outcome.
	Err error
}

// Call captures a single request issued through the mock.
type Call struct {
	Method string
	URL    string
	// Body is the JSON encoding of the body argument, nil when none was passed.
	Body []byte
}

// Config controls construction of a Dispatcher.
type Config struct {
	// Default is used when no specific response has been configured. The zero
	// value means a success with a null payload.
	Default *Response
}

// New creates a new mock dispatcher.
func New(config Config) *Dispatcher {
	def := Response{Outcome: transport.Success(json.RawMessage("null"))}
	if config.Default != nil {
		def = *config.Default
	}
	return &Dispatcher{
		responses: make(map[string]Response),
		Default:   def,
	}
}

// Builder configures the response for one method and URL.
type Builder struct {
	d   *Dispatcher
	key string
}

// On starts configuration of a response for a given method and URL.
func (d *Dispatcher) On(method, url string) *Builder {
	return &Builder{d: d, key: method + " " + url}
}

// Return makes the mock answer with outcome.
func (b *Builder) Return(outcome transport.Outcome) *Dispatcher {
	b.d.mu.Lock()
	defer b.d.mu.Unlock()
	b.d.responses[b.key] = Response{Outcome: outcome}
	return b.d
}

// Fail makes the mock return err as a transport failure.
func (b *Builder) Fail(err error) *Dispatcher {
	b.d.mu.Lock()
	defer b.d.mu.Unlock()
	b.d.responses[b.key] = Response{Err: err}
	return b.d
}

// Dispatch records the request and returns the configured response.
func (d *Dispatcher) Dispatch(_ context.Context, method, url string, body any) (transport.Outcome, error) {
	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return transport.Outcome{}, fmt.Errorf("encode request body: %w", err)
		}
		raw = b
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Method: method, URL: url, Body: raw})

	resp, ok := d.responses[method+" "+url]
	if !ok {
		resp = d.Default
	}
	if resp.Err != nil {
		return transport.Outcome{}, resp.Err
	}
	return resp.Outcome, nil
}

// Calls returns a copy of the recorded requests in dispatch order.
func (d *Dispatcher) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Reset forgets recorded calls. Configured responses are kept.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}
