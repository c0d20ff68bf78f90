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

var (
	verboseStatus bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bridge, store and collection status",
	Long:  `Displays whether the saved bridge answers, whether it reaches Redis, and a summary of the messages hash.`,
	Args:  cobra.NoArgs,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&verboseStatus, "verbose", "v", false, "Show per-category counts")
}

func runStatus(cmd *cobra.Command, args []string) {
	if err := executeStatus(cmd.Context(), cmd.OutOrStdout(), defaultClient, verboseStatus); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

func executeStatus(ctx context.Context, w io.Writer, c ClientInterface, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintln(w, "hashbridge")
	fmt.Fprintln(w, "==========")
	fmt.Fprintln(w)

	p, ok, err := c.Restore()
	if err != nil {
		return fmt.Errorf("failed to read saved connection: %w", err)
	}
	if !ok {
		printStatus(w, types.Danger("[DOWN] Bridge:  no saved connection"))
		return ErrNoProfile
	}

	status, err := c.Connect(ctx, p)
	if err != nil {
		printStatus(w, types.Danger("[DOWN] Bridge:  "+status.Text))
		return err
	}
	printStatus(w, types.Success("[OK] Bridge:    "+status.Text))

	h, err := c.Health(ctx)
	switch {
	case err != nil:
		printStatus(w, types.Neutral("[WARN] Store:   unknown ("+err.Error()+")"))
	case h.OK():
		printStatus(w, types.Success("[OK] Store:     "+h.Store))
	default:
		printStatus(w, types.Danger("[WARN] Store:   "+h.Store))
	}

	out, err := entries.NewSyncer(c).LoadEntries(ctx)
	if err != nil {
		printStatus(w, types.Danger("[WARN] Fields:  "+out.Status.Text))
		return nil
	}

	view := entries.NewViewState()
	view.Apply(out)
	_, total := view.Counts()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Fields:     %d in %s\n", total, types.Collection)
	fmt.Fprintf(w, "Categories: %d\n", len(view.Index()))

	if verbose && len(view.Index()) > 0 {
		fmt.Fprintln(w)
		printIndex(w, view)
	}
	return nil
}
