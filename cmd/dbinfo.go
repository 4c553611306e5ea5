// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"queryfly/cli/internal/dsn"
	"queryfly/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show the active connection's endpoint",
	Long: `The dbinfo command shows how the active connection builds its endpoint: the
configured hosts, protocol, port, prefix and database, or the breakdown of a DSN
override. Secrets are masked; the token is only reported as present or absent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTarget()
		if err != nil {
			return err
		}
		if err := t.cfg.Validate(); err != nil {
			pterm.Warning.Println(err.Error())
		}

		lines, err := describe(t)
		if err != nil {
			return err
		}
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Connection " + t.name)).
			WithPadding(1).
			WithWriter(cmd.OutOrStdout()).
			Println(strings.Join(lines, "\n"))
		pterm.Println()
		pterm.Println("To store a token for this connection, run: queryfly connect")
		pterm.Println()
		return nil
	},
}

// describe renders the connection breakdown, one "label: value" per line.
func describe(t *target) ([]string, error) {
	var lines []string
	add := func(label, value string) {
		if value == "" {
			value = "-"
		}
		lines = append(lines, fmt.Sprintf("%-10s %s", label+":", value))
	}

	if t.cfg.DSN != "" {
		info, err := dsn.ParseEndpoint(t.cfg.DSN)
		if err != nil {
			return nil, err
		}
		add("DSN", logging.Mask(t.cfg.DSN)+" ("+t.dsnSource+")")
		add("Protocol", info.Protocol)
		add("Host", info.Host)
		add("Port", info.Port)
		add("Prefix", info.Prefix)
		add("Database", info.Database)
	} else {
		add("Hosts", strings.Join(t.cfg.Host, ", "))
		add("Protocol", t.cfg.Protocol)
		add("Port", string(t.cfg.Port))
		add("Prefix", t.cfg.EffectivePrefix())
		add("Database", t.cfg.Database)
	}

	if t.cfg.DriverDSN != "" {
		add("Driver", logging.Mask(t.cfg.DriverDSN))
	}
	token := "absent"
	if t.token != "" {
		token = "present (" + t.tokenSource + ")"
	}
	add("Token", token)
	return lines, nil
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
