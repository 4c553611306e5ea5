// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"queryfly/cli/internal/connection"

	"github.com/spf13/cobra"
)

// queryFunc is one of the connection's data operations.
type queryFunc func(c *connection.Connection, ctx context.Context, fragment string, b connection.Bindings) (json.RawMessage, error)

var (
	selectBinds []string
	insertBinds []string
	updateBinds []string
)

var selectCmd = &cobra.Command{
	Use:   "select <fragment>",
	Short: "Fetch data with GET",
	Long: `The select command appends the query fragment to the connection's endpoint
and issues a GET request. Bindings are accepted for symmetry but never sent.

Example:
  queryfly select '?table=users&where=active'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, "select", (*connection.Connection).Select, args[0], selectBinds)
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <fragment>",
	Short: "Send bindings with POST",
	Long: `The insert command posts the bindings as a JSON object to the endpoint plus
fragment. Values are parsed as JSON when possible and sent as strings otherwise.

Example:
  queryfly insert '/users' --bind name=bob --bind age=42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, "insert", (*connection.Connection).Insert, args[0], insertBinds)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <fragment>",
	Short: "Send bindings with POST (same request as insert)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, "update", (*connection.Connection).Update, args[0], updateBinds)
	},
}

func runQuery(cmd *cobra.Command, name string, op queryFunc, fragment string, binds []string) error {
	bindings, err := parseBindings(binds)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	stop := startSpinner(fmt.Sprintf("running %s", name))
	data, err := op(s.conn, ctx, fragment, bindings)
	stop()
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), data)
}

// parseBindings turns key=value pairs into bindings.
func parseBindings(pairs []string) (connection.Bindings, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	b := connection.Bindings{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid binding %q, expected key=value", p)
		}
		b[key] = parseValue(value)
	}
	return b, nil
}

// parseValue decodes s as JSON (numbers, booleans, null, objects, arrays) and
// falls back to the literal string.
func parseValue(s string) any {
	var v any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	if str, ok := v.(string); ok {
		return str
	}
	return v
}

func init() {
	selectCmd.Flags().StringArrayVarP(&selectBinds, "bind", "b", nil, "Binding as key=value (repeatable, not sent with GET)")
	insertCmd.Flags().StringArrayVarP(&insertBinds, "bind", "b", nil, "Binding as key=value (repeatable)")
	updateCmd.Flags().StringArrayVarP(&updateBinds, "bind", "b", nil, "Binding as key=value (repeatable)")
	rootCmd.AddCommand(selectCmd, insertCmd, updateCmd)
}
