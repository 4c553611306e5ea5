// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transport performs the HTTP round trips behind connection operations.
// It defines the Dispatcher contract the connection depends on and an HTTP-based
// implementation that decodes the remote API's response envelope:
//
//	{"status": 200, "data": ..., "error_message": "..."}
//
// The status field is an application-level code carried in the body; the raw
// HTTP status is only consulted when the body is not a decodable envelope.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// StatusOK is the application status code the remote API reports on success.
const StatusOK = 200

// Dispatcher performs one request and normalizes its outcome.
// Implementations may call a real HTTP endpoint or provide mocks for tests.
type Dispatcher interface {
	// Dispatch issues method against url. body is sent as JSON on anything but GET.
	// A non-nil error means the call could not be completed at all; remote
	// failures are reported through the returned Outcome instead.
	Dispatch(ctx context.Context, method, url string, body any) (Outcome, error)
}

// Status is the application-level status of a response envelope. It decodes
// from a JSON number or string.
type Status string

func (s *Status) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Status(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = Status(n.String())
	return nil
}

// OK reports whether s is 200 (as number or string) or "ok" in any case.
func (s Status) OK() bool {
	if strings.EqualFold(string(s), "ok") {
		return true
	}
	n, err := strconv.Atoi(string(s))
	return err == nil && n == StatusOK
}

// Outcome is the normalized result of one request: either a success carrying
// Data or a failure carrying ErrorMessage.
type Outcome struct {
	Status       Status          `json:"status"`
	Data         json.RawMessage `json:"data,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.Status.OK() }

// Success builds a successful outcome carrying data.
func Success(data json.RawMessage) Outcome {
	return Outcome{Status: Status(strconv.Itoa(StatusOK)), Data: data}
}

// Failure builds a failed outcome carrying msg.
func Failure(status, msg string) Outcome {
	return Outcome{Status: Status(status), ErrorMessage: msg}
}
