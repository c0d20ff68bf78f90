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
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the saved bridge connection",
	Args:  cobra.NoArgs,
	Run:   runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) {
	if err := executePing(cmd.Context(), cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

func executePing(ctx context.Context, w io.Writer, c ClientInterface) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p, ok, err := c.Restore()
	if err != nil {
		return fmt.Errorf("failed to read saved connection: %w", err)
	}
	if !ok {
		return ErrNoProfile
	}

	status, err := c.Connect(ctx, p)
	printStatus(w, status)
	return err
}
