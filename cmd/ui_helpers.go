// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"queryfly/cli/internal/terminal"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// startSpinner shows an inline spinner on stderr while a request is in flight.
// It does nothing when stderr is not a terminal.
func startSpinner(text string) func() {
	if !terminal.IsTerminal(os.Stderr) {
		return func() {}
	}
	return startInlineSpinner(os.Stderr, text, spinnerFrames, 100*time.Millisecond)
}

// startInlineSpinner animates frames followed by text on a single line until the
// returned function is called, which clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	var once sync.Once
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		width := 0
		for i := 0; ; i++ {
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", width))
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				width = max(width, len(line))
				fmt.Fprintf(w, "\r%s", line)
			}
		}
	}()
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// printJSON writes raw JSON indented, or as-is when it does not parse.
func printJSON(w io.Writer, raw []byte) error {
	if len(raw) == 0 {
		raw = []byte("null")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}

func printValue(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
