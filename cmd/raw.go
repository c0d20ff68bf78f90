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

var rawCmd = &cobra.Command{
	Use:   "raw <verb> [args...]",
	Short: "Send any command through the bridge",
	Long: `Sends one command to Redis through the saved bridge and prints the reply.

Examples:
  hashbridge raw PING
  hashbridge raw HLEN messages
  hashbridge raw HGETALL messages`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRaw,
}

func init() {
	rootCmd.AddCommand(rawCmd)
	// Redis arguments may start with "-"
	rawCmd.Flags().SetInterspersed(false)
}

func runRaw(cmd *cobra.Command, args []string) {
	if err := executeRaw(cmd.Context(), cmd.OutOrStdout(), defaultClient, args); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

func executeRaw(ctx context.Context, w io.Writer, c ClientInterface, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: raw <verb> [args...]")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := reconnect(ctx, c); err != nil {
		return err
	}

	reply, err := c.Send(ctx, args...)
	if err != nil {
		return err
	}
	printReply(w, reply)
	return nil
}
