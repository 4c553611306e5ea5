// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"queryfly/cli/internal/config"
	"queryfly/cli/internal/dsn"
	"queryfly/cli/internal/keychain"
	"queryfly/cli/internal/pgdriver"
	"queryfly/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	connectDSN     string
	connectNoToken bool
	connectDefault bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Store an API token (and optionally a DSN override) in the OS keychain",
	Long: `The connect command prompts for the API token of the active connection and
stores it in the OS keychain. Input is hidden when reading from a terminal.

With --default, the connection becomes default_connection in the config file.
With --dsn, a full base URL is stored as well and replaces the connection's
host/protocol/database settings. When the connection has a driver_dsn, the
database behind it is pinged before anything is saved.

Example:
  queryfly connect -c shop --dsn https://api.example.com/api/shop`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := config.Load()
		if err != nil {
			return err
		}
		name := file.ActiveName(connectionName)

		if connectDSN != "" {
			if err := (dsn.Config{DSN: connectDSN}).Validate(); err != nil {
				fmt.Println("❌ " + err.Error())
				return err
			}
		}

		var token string
		if !connectNoToken {
			token, err = promptToken(cmd.InOrStdin(), cmd.ErrOrStderr(), name)
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("token is required (use --no-token to skip)")
			}
		}

		if cfg, ok := file.Connections[name]; ok && cfg.DriverDSN != "" {
			if err := verifyDriver(cmd.Context(), cfg.DriverDSN); err != nil {
				fmt.Println("Connection failed. Please check the driver_dsn credentials and network connection.")
				return err
			}
		}

		km, err := keychain.GetManager()
		if err != nil {
			fmt.Println("❌ Secure storage is not available on this system.")
			fmt.Printf("   Set %s instead.\n", config.EnvToken)
			return err
		}
		if token != "" {
			if err := km.SaveToken(name, token); err != nil {
				fmt.Println("❌ Failed to save the token securely.")
				return err
			}
		}
		if connectDSN != "" {
			if err := km.SaveDSN(name, connectDSN); err != nil {
				fmt.Println("❌ Failed to save the DSN override securely.")
				return err
			}
		}

		if connectDefault {
			if err := setDefaultConnection(name); err != nil {
				fmt.Println("❌ Failed to update the config file.")
				return err
			}
		}

		fmt.Printf("✅ Connection %q saved!\n", name)
		fmt.Println("   You're ready to run 'queryfly select'")
		return nil
	},
}

// promptToken asks for the API token of connection name. On a terminal the
// prompt is erased once the token has been read.
func promptToken(in io.Reader, w io.Writer, name string) (string, error) {
	prompt := fmt.Sprintf("API token for %q: ", name)
	token, err := terminal.ReadSecret(in, w, prompt)
	if err != nil {
		return "", err
	}
	if f, ok := in.(*os.File); ok && terminal.IsTerminal(f) {
		terminal.ClearPreviousLines(w, len(prompt))
	}
	return token, nil
}

// setDefaultConnection records name as default_connection in the config file.
func setDefaultConnection(name string) error {
	file, err := config.Load()
	if err != nil {
		return err
	}
	file.DefaultConnection = name
	return config.Save(file)
}

// verifyDriver pings the driver database with a spinner, as the driver handle
// would on 'call ping'.
func verifyDriver(ctx context.Context, driverDSN string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stop := startSpinner("verifying driver connection")
	defer stop()

	h, err := pgdriver.Open(ctxPing, driverDSN, nil)
	if err != nil {
		return err
	}
	defer h.Close()
	_, err = h.Invoke(ctxPing, pgdriver.OpPing)
	return err
}

func init() {
	connectCmd.Flags().StringVar(&connectDSN, "dsn", "", "Base URL override to store for this connection")
	connectCmd.Flags().BoolVar(&connectNoToken, "no-token", false, "Do not prompt for a token")
	connectCmd.Flags().BoolVar(&connectDefault, "default", false, "Make this the default connection in the config file")
	rootCmd.AddCommand(connectCmd)
}
