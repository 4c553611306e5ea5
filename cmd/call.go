// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call <op> [args...]",
	Short: "Forward an operation to the underlying driver",
	Long: `The call command forwards an operation the remote API does not serve to the
connection's driver handle. A handle exists when the connection sets driver_dsn,
a PostgreSQL DSN; it serves:

  ping                 check the database is reachable
  query <sql> [args]   run a read statement
  exec <sql> [args]    run a write statement in a transaction

Arguments are parsed as JSON when possible and passed as strings otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		params := make([]any, 0, len(args)-1)
		for i, a := range args[1:] {
			// SQL text stays verbatim.
			if i == 0 {
				params = append(params, a)
				continue
			}
			params = append(params, parseValue(a))
		}

		stop := startSpinner("running " + args[0])
		res, err := s.conn.Call(ctx, args[0], params...)
		stop()
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
}
