// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for queryfly. Each subcommand
// loads the active connection from the config file, environment and OS keychain,
// performs one operation and prints the result.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	qerrors "queryfly/cli/internal/errors"
	"queryfly/cli/internal/httperrors"
	"queryfly/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion    bool
	connectionName string
	logLevel       string
	timeout        time.Duration
	keepHistory    bool
)

var rootCmd = &cobra.Command{
	Use:   "queryfly",
	Short: "Query a remote HTTP data API like a database",
	Long: `queryfly sends select, insert and update operations to a remote data API.
Each operation resolves the connection's endpoint, appends the query fragment and
prints the data payload of the response.

Connections are configured in $XDG_CONFIG_HOME/queryfly/config.json; API tokens
and DSN overrides are kept in the OS keychain (see 'queryfly connect').`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	if qerrors.IsKind(err, qerrors.TransportFailed) {
		_ = httperrors.FormatNetworkError(os.Stderr, err, "contacting the API")
	}
	pterm.Error.WithWriter(os.Stderr).Println(logging.PresentError("queryfly", err))
}

// commandContext applies --timeout to the command's context.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&connectionName, "connection", "c", "", "Named connection to use (default: $QUERYFLY_CONNECTION or default_connection)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error or off")
	pf.DurationVar(&timeout, "timeout", 0, "Deadline for the whole operation, e.g. 10s (0 means none)")
	pf.BoolVar(&keepHistory, "history", false, "Append dispatched requests to the query history file")
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "queryfly %s\n", Version)
}
