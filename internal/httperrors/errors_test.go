// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"

	qerrors "queryfly/cli/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: Timeout},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "api.invalid"}, want: DNS},
		{name: "refused", err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, want: ConnectionRefused},
		{name: "tls", err: errors.New("tls: failed to verify certificate: x509: unknown authority"), want: TLS},
		{name: "server", err: errors.New("unexpected response: 502 Bad Gateway"), want: Server},
		{name: "generic", err: errors.New("EOF"), want: Generic},
		{name: "wrapped transport", err: qerrors.Transport("http://h/api/db", &net.DNSError{Err: "no such host", Name: "h"}), want: DNS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatNetworkError(t *testing.T) {
	var buf bytes.Buffer
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	err := FormatNetworkError(&buf, qerrors.Transport("http://api.example.com:81/api/db?x=1", cause), "running select")

	if !errors.Is(err, syscall.ECONNREFUSED) {
		t.Errorf("returned error %v does not wrap the cause", err)
	}
	out := buf.String()
	for _, want := range []string{"api.example.com:81", "refused", "running select"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	if FormatNetworkError(&buf, nil, "x") != nil {
		t.Error("FormatNetworkError(nil) != nil")
	}
}

func TestExtractHostFromURL(t *testing.T) {
	if got := ExtractHostFromURL("https://a.example.com:8443/api/db"); got != "a.example.com:8443" {
		t.Errorf("ExtractHostFromURL() = %q", got)
	}
	if got := ExtractHostFromURL("::bad"); got != "server" {
		t.Errorf("ExtractHostFromURL(bad) = %q, want server", got)
	}
}
