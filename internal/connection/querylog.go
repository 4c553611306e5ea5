// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package connection

import (
	"maps"
	"time"
)

// QueryEntry records one dispatched request.
type QueryEntry struct {
	Method   string
	URL      string
	Bindings Bindings
	Elapsed  time.Duration
}

// EnableQueryLog starts recording dispatched requests.
func (c *Connection) EnableQueryLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logging = true
}

// DisableQueryLog stops recording. Entries already recorded are kept.
func (c *Connection) DisableQueryLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logging = false
}

// QueryLog returns a copy of the recorded entries.
func (c *Connection) QueryLog() []QueryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]QueryEntry(nil), c.queryLog...)
}

// FlushQueryLog drops all recorded entries.
func (c *Connection) FlushQueryLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryLog = nil
}

// record must be called with c.mu held.
func (c *Connection) record(method, url string, bindings Bindings, elapsed time.Duration) {
	if !c.logging {
		return
	}
	c.queryLog = append(c.queryLog, QueryEntry{
		Method:   method,
		URL:      url,
		Bindings: maps.Clone(bindings),
		Elapsed:  elapsed,
	})
}
