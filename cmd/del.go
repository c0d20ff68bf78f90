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
	"github.com/we-are-mono/hashbridge/types"
)

var delCmd = &cobra.Command{
	Use:     "del <field>...",
	Aliases: []string{"delete", "rm"},
	Short:   "Delete fields from the hash",
	Args:    cobra.MinimumNArgs(1),
	Run:     runDel,
}

func init() {
	rootCmd.AddCommand(delCmd)
}

func runDel(cmd *cobra.Command, args []string) {
	if err := executeDel(cmd.Context(), cmd.OutOrStdout(), defaultClient, args); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeDel deletes each field in turn and stops at the first failure.
func executeDel(ctx context.Context, w io.Writer, c ClientInterface, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: del <field>...")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := reconnect(ctx, c); err != nil {
		return err
	}

	syncer := entries.NewSyncer(c)
	for _, field := range args {
		out, err := syncer.DeleteEntry(ctx, field)
		if err != nil {
			return fmt.Errorf("%s: %s", field, out.Status.Text)
		}
		printStatus(w, types.Success(field+": "+out.Status.Text))
	}
	return nil
}
