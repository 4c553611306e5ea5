// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"queryfly/cli/internal/connection"
	"queryfly/cli/internal/logging"
	"queryfly/cli/internal/xdg"
)

const historyFile = "history.jsonl"

// historyRecord is one line of the query history file.
type historyRecord struct {
	Time       time.Time           `json:"time"`
	Connection string              `json:"connection"`
	Method     string              `json:"method"`
	URL        string              `json:"url"`
	Bindings   connection.Bindings `json:"bindings,omitempty"`
	ElapsedMS  float64             `json:"elapsed_ms"`
}

func historyPath() (string, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyFile), nil
}

// appendHistory writes entries as JSON lines with URLs and secret bindings masked.
func appendHistory(name string, entries []connection.QueryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	p, err := historyPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	now := time.Now().UTC()
	for _, e := range entries {
		rec := historyRecord{
			Time:       now,
			Connection: name,
			Method:     e.Method,
			URL:        logging.Mask(e.URL),
			Bindings:   logging.MaskValues(e.Bindings),
			ElapsedMS:  float64(e.Elapsed.Microseconds()) / 1000,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
