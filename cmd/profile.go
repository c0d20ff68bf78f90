// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/we-are-mono/hashbridge/client"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the saved connection",
	Args:  cobra.NoArgs,
	Run:   runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) {
	if err := executeProfile(cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

func executeProfile(w io.Writer, c ClientInterface) error {
	p, ok, err := c.Restore()
	if err != nil {
		return fmt.Errorf("failed to read saved connection: %w", err)
	}
	if !ok {
		return ErrNoProfile
	}

	port := p.Port
	if port == "" {
		port = client.PortPlaceholder(p.Protocol) + " (default)"
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Protocol"), p.Protocol)
	tbl.AddRow(bold.Sprint("Host"), p.Host)
	tbl.AddRow(bold.Sprint("Port"), port)
	tbl.AddRow(bold.Sprint("Username"), p.Username)
	tbl.AddRow(bold.Sprint("Password"), maskSecret(p.Password))
	tbl.AddRow(bold.Sprint("URL"), p.BaseURL)
	fmt.Fprintln(w, tbl)
	return nil
}
