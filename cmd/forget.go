// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"queryfly/cli/internal/config"
	"queryfly/cli/internal/keychain"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove stored secrets for a connection",
	Long: `The forget command removes the API token and DSN override stored in the OS
keychain for the active connection. The config file is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := config.Load()
		if err != nil {
			return err
		}
		name := file.ActiveName(connectionName)

		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.Forget(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Secrets for connection %q have been removed\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}
