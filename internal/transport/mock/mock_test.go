// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package mock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"queryfly/cli/internal/transport"
)

func TestDispatcher(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	d := New(Config{})
	d.On(http.MethodGet, "https://h/api/db?x=1").Return(transport.Success(json.RawMessage(`{"id":1}`)))
	d.On(http.MethodPost, "https://h/api/db/fail").Fail(boom)

	tests := []struct {
		name     string
		method   string
		url      string
		body     any
		wantData string
		wantErr  error
	}{
		{name: "configured", method: http.MethodGet, url: "https://h/api/db?x=1", wantData: `{"id":1}`},
		{name: "failure", method: http.MethodPost, url: "https://h/api/db/fail", body: map[string]any{"a": 1}, wantErr: boom},
		{name: "default", method: http.MethodGet, url: "https://h/api/db/other", wantData: "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Dispatch(ctx, tt.method, tt.url, tt.body)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Dispatch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if string(out.Data) != tt.wantData {
				t.Errorf("Data = %s, want %s", out.Data, tt.wantData)
			}
		})
	}

	calls := d.Calls()
	if len(calls) != 3 {
		t.Fatalf("recorded %d calls, want 3", len(calls))
	}
	if calls[0].Body != nil {
		t.Errorf("call without body recorded %s", calls[0].Body)
	}
	if string(calls[1].Body) != `{"a":1}` {
		t.Errorf("Body = %s, want {\"a\":1}", calls[1].Body)
	}

	d.Reset()
	if n := len(d.Calls()); n != 0 {
		t.Errorf("Calls() after Reset has %d entries", n)
	}
	out, err := d.Dispatch(ctx, http.MethodGet, "https://h/api/db?x=1", nil)
	if err != nil || string(out.Data) != `{"id":1}` {
		t.Errorf("Reset dropped configured response: %s, %v", out.Data, err)
	}
}

func TestDispatcher_CustomDefault(t *testing.T) {
	d := New(Config{Default: &Response{Outcome: transport.Failure("500", "down")}})
	out, err := d.Dispatch(context.Background(), http.MethodGet, "https://h/api/db", nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.OK() || out.ErrorMessage != "down" {
		t.Errorf("outcome = %+v, want failure \"down\"", out)
	}
}
