// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestLinesUsed(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{0, 80, 1},
		{80, 80, 1},
		{81, 80, 2},
		{200, 80, 3},
		{10, 0, 1},
	}
	for _, tt := range tests {
		if got := LinesUsed(tt.length, tt.width); got != tt.want {
			t.Errorf("LinesUsed(%d, %d) = %d, want %d", tt.length, tt.width, got, tt.want)
		}
	}
}

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 10)
	out := buf.String()
	// Prompt line plus the line after Enter.
	if got := strings.Count(out, "\x1b[2K"); got != 2 {
		t.Errorf("cleared %d lines, want 2", got)
	}
	if got := strings.Count(out, "\x1b[1A"); got != 1 {
		t.Errorf("moved up %d lines, want 1", got)
	}
}

func TestReadSecret_Piped(t *testing.T) {
	var out bytes.Buffer
	got, err := ReadSecret(strings.NewReader("secret\n"), &out, "Token: ")
	if err != nil {
		t.Fatalf("ReadSecret() error = %v", err)
	}
	if got != "secret" {
		t.Errorf("ReadSecret() = %q, want secret", got)
	}
	if out.String() != "Token: " {
		t.Errorf("prompt = %q", out.String())
	}

	got, err = ReadSecret(strings.NewReader("no-newline"), &out, "")
	if err != nil || got != "no-newline" {
		t.Errorf("ReadSecret() at EOF = %q, %v", got, err)
	}
}
