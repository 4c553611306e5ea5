// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgdriver

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Result is a normalized SQL result for JSON output.
type Result struct {
	Columns      []string `json:"columns"`
	Rows         [][]any  `json:"rows"`
	RowsAffected int64    `json:"rows_affected,omitempty"`
}

// MarshalJSON renders pgx values that encoding/json cannot show usefully.
// UUIDs become their canonical form and other byte slices become \x hex.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	a := alias(r)
	if a.Columns == nil {
		a.Columns = []string{}
	}

	rows := make([][]any, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = make([]any, len(row))
		for j, val := range row {
			rows[i][j] = jsonValue(val)
		}
	}
	a.Rows = rows
	return json.Marshal(a)
}

func jsonValue(val any) any {
	switch v := val.(type) {
	case [16]byte:
		return uuid.UUID(v).String()
	case []byte:
		if len(v) == 16 {
			return uuid.UUID(v).String()
		}
		return fmt.Sprintf("\\x%x", v)
	default:
		return v
	}
}
