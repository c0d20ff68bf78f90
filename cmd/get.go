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

var getCmd = &cobra.Command{
	Use:   "get <field>",
	Short: "Print the value of one field",
	Long: `Prints the value of a field of the messages hash.

Examples:
  hashbridge get intro
  hashbridge get footer.v1`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) {
	if err := executeGet(cmd.Context(), cmd.OutOrStdout(), defaultClient, args); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeGet executes the get command with the given client and arguments.
func executeGet(ctx context.Context, w io.Writer, c ClientInterface, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get <field>")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	view, _, err := loadView(ctx, c)
	if err != nil {
		return err
	}

	e, ok := view.Lookup(args[0])
	if !ok {
		return fmt.Errorf("field %q not found", args[0])
	}
	fmt.Fprintln(w, e.Value)
	return nil
}
