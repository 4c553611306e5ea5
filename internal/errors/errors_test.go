// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "request failure",
			err:  Request("https://h/api/db?x=1", "not found"),
			want: "request_failed: https://h/api/db?x=1: not found",
		},
		{
			name: "wrapped cause",
			err:  Wrap(ConfigInvalid, "connection config rejected", stderrors.New("host is required")),
			want: "config_invalid: connection config rejected: host is required",
		},
		{
			name: "plain",
			err:  New(UnsupportedOperation, "ping: no handle"),
			want: "unsupported_operation: ping: no handle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportMentionsURLAndCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Transport("http://h:81/api/db", cause)

	if !strings.Contains(err.Error(), "http://h:81/api/db") {
		t.Errorf("Error() = %q, missing URL", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("Transport error does not unwrap to its cause")
	}
}

func TestIsKind(t *testing.T) {
	inner := Request("u", "boom")
	outer := fmt.Errorf("select: %w", inner)

	if !IsKind(outer, RequestFailed) {
		t.Error("IsKind(wrapped request error, RequestFailed) = false")
	}
	if IsKind(outer, TransportFailed) {
		t.Error("IsKind(wrapped request error, TransportFailed) = true")
	}
	if !stderrors.Is(outer, New(RequestFailed, "")) {
		t.Error("errors.Is does not match on kind")
	}

	nested := Wrap(ConfigInvalid, "outer", Transport("u", stderrors.New("x")))
	if !IsKind(nested, TransportFailed) {
		t.Error("IsKind does not look through E.Err")
	}
	if IsKind(stderrors.New("plain"), RequestFailed) {
		t.Error("IsKind(plain error) = true")
	}
}
