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

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/we-are-mono/hashbridge/entries"
	"github.com/we-are-mono/hashbridge/types"
)

var categoriesGraph bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show field counts per category",
	Long: `Shows how many fields fall into each category. The category of a field
is the text before its first "." or "uncategorized".

Examples:
  hashbridge categories
  hashbridge categories --graph`,
	Args: cobra.NoArgs,
	Run:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().BoolVarP(&categoriesGraph, "graph", "g", false, "Plot the counts")
}

func runCategories(cmd *cobra.Command, args []string) {
	if err := executeCategories(cmd.Context(), cmd.OutOrStdout(), defaultClient, categoriesGraph); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

func executeCategories(ctx context.Context, w io.Writer, c ClientInterface, graph bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	view, _, err := loadView(ctx, c)
	if err != nil {
		return err
	}

	if len(view.Index()) == 0 {
		printStatus(w, types.Neutral(view.EmptyMessage()))
		return nil
	}

	printIndex(w, view)
	if graph {
		fmt.Fprintln(w)
		fmt.Fprintln(w, plotIndex(view))
	}
	return nil
}

// plotIndex draws the counts in index order.
func plotIndex(view *entries.ViewState) string {
	index := view.Index()
	series := make([]float64, 0, len(index)+1)
	for _, c := range index {
		series = append(series, float64(c.Count))
	}
	// a lone category still needs two points to draw a line
	if len(series) == 1 {
		series = append(series, series[0])
	}

	return asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(4*len(series)),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("fields per category (%d categories)", len(index))))
}
