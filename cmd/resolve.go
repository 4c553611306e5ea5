// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"queryfly/cli/internal/connection"
	"queryfly/cli/internal/logging"

	"github.com/spf13/cobra"
)

var resolveCount int

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the endpoint the active connection resolves to",
	Long: `The resolve command prints the base URL requests would use, without sending
anything. With several hosts configured each resolution picks one at random;
use --count to sample more than one. Credentials in the URL are masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTarget()
		if err != nil {
			return err
		}
		conn, err := connection.New(t.cfg, connection.WithLogger(t.log))
		if err != nil {
			return err
		}
		for i := 0; i < max(resolveCount, 1); i++ {
			endpoint, err := conn.Endpoint()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), logging.Mask(endpoint))
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().IntVarP(&resolveCount, "count", "n", 1, "Number of resolutions to print")
	rootCmd.AddCommand(resolveCmd)
}
