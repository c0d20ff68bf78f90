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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/we-are-mono/hashbridge/entries"
	"github.com/we-are-mono/hashbridge/types"
)

var addCmd = &cobra.Command{
	Use:   "add <field> [value]",
	Short: "Add a field and reload the hash",
	Long: `Adds a field to the messages hash. Field and value are trimmed; the
value may be omitted for an empty string.

Examples:
  hashbridge add greeting.en "Hello"
  hashbridge add placeholder`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	if err := executeAdd(cmd.Context(), cmd.OutOrStdout(), defaultClient, args); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

func executeAdd(ctx context.Context, w io.Writer, c ClientInterface, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: add <field> [value]")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	field, value := args[0], ""
	if len(args) == 2 {
		value = args[1]
	}

	if err := reconnect(ctx, c); err != nil {
		return err
	}

	out, err := entries.NewSyncer(c).AddEntry(ctx, field, value)
	if errors.Is(err, entries.ErrBlankField) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%s", out.Status.Text)
	}

	printStatus(w, out.Status)
	view := entries.NewViewState()
	view.Apply(out)
	_, total := view.Counts()
	printStatus(w, types.Neutral(fmt.Sprintf("%d field(s) in messages", total)))
	return nil
}
