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

	"github.com/we-are-mono/hashbridge/entries"
)

var setCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Overwrite the value of a field",
	Long: `Writes a new value to a field of the messages hash.

Examples:
  hashbridge set intro "Hello there"
  hashbridge set footer.v1 "See you"`,
	Args: cobra.ExactArgs(2),
	Run:  runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) {
	if err := executeSet(cmd.Context(), cmd.OutOrStdout(), defaultClient, args); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeSet executes the set command with the given client and arguments.
func executeSet(ctx context.Context, w io.Writer, c ClientInterface, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set <field> <value>")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := reconnect(ctx, c); err != nil {
		return err
	}

	out, err := entries.NewSyncer(c).SaveEntry(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("%s", out.Status.Text)
	}
	printStatus(w, out.Status)
	return nil
}
