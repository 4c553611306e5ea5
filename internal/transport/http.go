// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	qerrors "queryfly/cli/internal/errors"
)

// DefaultUserAgent identifies queryfly requests to the remote API.
const DefaultUserAgent = "queryfly-cli/1.0"

// HTTP implements Dispatcher over net/http.
// It keeps no per-request state, so one value may back several connections.
type HTTP struct {
	// client is the underlying HTTP client; its timeout is left at the default
	client *http.Client
	// token, when set, is sent as a Bearer Authorization header
	token string
	// userAgent is sent with every request
	userAgent string
}

// Option configures an HTTP dispatcher.
type Option func(*HTTP)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithToken sends token as a Bearer Authorization header.
func WithToken(token string) Option {
	return func(h *HTTP) {
		h.token = strings.TrimSpace(token)
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) {
		if ua != "" {
			h.userAgent = ua
		}
	}
}

// NewHTTP creates an HTTP dispatcher. Without WithHTTPClient it uses a client
// with no timeout; deadlines come from the caller's context.
func NewHTTP(opts ...Option) *HTTP {
	h := &HTTP{
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Dispatch performs exactly one request. GET never carries a body.
func (h *HTTP) Dispatch(ctx context.Context, method, url string, body any) (Outcome, error) {
	var reader io.Reader
	if method != http.MethodGet && body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Outcome{}, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Outcome{}, qerrors.Transport(url, err)
	}
	h.setStandardHeaders(req)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return Outcome{}, qerrors.Transport(url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, qerrors.Transport(url, err)
	}
	return decodeOutcome(resp, raw), nil
}

func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// decodeOutcome reads the response envelope. Bodies that are not an envelope
// become failures described by the HTTP status line.
func decodeOutcome(resp *http.Response, raw []byte) Outcome {
	httpStatus := strconv.Itoa(resp.StatusCode)

	var out Outcome
	if err := json.Unmarshal(raw, &out); err != nil {
		return Failure(httpStatus, fmt.Sprintf("unexpected response: %s", statusLine(resp, raw)))
	}
	if out.Status == "" {
		if out.ErrorMessage != "" {
			return Failure(httpStatus, out.ErrorMessage)
		}
		return Failure(httpStatus, fmt.Sprintf("response has no status: %s", statusLine(resp, raw)))
	}
	if !out.OK() && out.ErrorMessage == "" {
		out.ErrorMessage = fmt.Sprintf("status %s", out.Status)
	}
	return out
}

func statusLine(resp *http.Response, raw []byte) string {
	line := resp.Status
	if line == "" {
		line = strconv.Itoa(resp.StatusCode)
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		line += " " + text
	}
	return line
}
