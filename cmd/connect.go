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
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/we-are-mono/hashbridge/client"
	"github.com/we-are-mono/hashbridge/entries"
	"github.com/we-are-mono/hashbridge/types"
)

var connectProfile types.ConnectionProfile

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to a bridge and remember it",
	Long: `Checks the bridge with PING and, when it answers, saves the connection
for later commands and loads the messages hash.

Flags left empty are taken from the saved connection.

Examples:
  hashbridge connect --host localhost --port 8080
  hashbridge connect --protocol https --host bridge.example.com --username admin --password secret`,
	Args: cobra.NoArgs,
	Run:  runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().StringVar(&connectProfile.Protocol, "protocol", "", "Bridge protocol, http or https (default http)")
	connectCmd.Flags().StringVar(&connectProfile.Host, "host", "", "Bridge host")
	connectCmd.Flags().StringVar(&connectProfile.Port, "port", "", "Bridge port (default 80 for http, 443 for https)")
	connectCmd.Flags().StringVar(&connectProfile.Username, "username", "", "Basic auth username")
	connectCmd.Flags().StringVar(&connectProfile.Password, "password", "", "Basic auth password")
}

func runConnect(cmd *cobra.Command, args []string) {
	if err := executeConnect(cmd.Context(), cmd.OutOrStdout(), defaultClient, connectProfile); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// mergeProfile fills the empty fields of p from the saved profile.
func mergeProfile(p, saved types.ConnectionProfile) types.ConnectionProfile {
	if p.Protocol == "" {
		p.Protocol = saved.Protocol
	}
	if p.Host == "" {
		p.Host = saved.Host
		if p.Port == "" {
			p.Port = saved.Port
		}
	}
	if p.Username == "" && p.Password == "" {
		p.Username = saved.Username
		p.Password = saved.Password
	}
	if p.Protocol == "" {
		p.Protocol = "http"
	}
	return p
}

// executeConnect connects with p and loads the collection.
func executeConnect(ctx context.Context, w io.Writer, c ClientInterface, p types.ConnectionProfile) error {
	if ctx == nil {
		ctx = context.Background()
	}

	saved, _, err := c.Restore()
	if err != nil {
		return fmt.Errorf("failed to read saved connection: %w", err)
	}
	p = mergeProfile(p, saved)
	if p.Host == "" {
		return fmt.Errorf("--host is required")
	}

	port := p.Port
	if port == "" {
		port = client.PortPlaceholder(p.Protocol)
	}
	printStatus(w, types.Neutral(fmt.Sprintf("Connecting to %s://%s:%s...", p.Protocol, p.Host, port)))

	view := entries.NewViewState()
	var loaded *types.Status
	var loadErr error
	c.OnConnected(func(ctx context.Context) types.Status {
		out, err := entries.NewSyncer(c).LoadEntries(ctx)
		view.Apply(out)
		loaded, loadErr = &out.Status, err
		return out.Status
	})
	defer c.OnConnected(nil)

	status, err := c.Connect(ctx, p)
	printStatus(w, status)
	if err != nil {
		return err
	}
	if loaded != nil {
		printStatus(w, *loaded)
	}
	return loadErr
}
