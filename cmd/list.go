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

var (
	listFilter   string
	listCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the fields of the messages hash",
	Long: `Lists the fields of the messages hash in field order.

The category of a field is the text before its first ".", or "uncategorized".

Examples:
  hashbridge list
  hashbridge list --filter title
  hashbridge list --category footer`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Only fields containing this text (case-insensitive)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only fields in this category")
}

func runList(cmd *cobra.Command, args []string) {
	if err := executeList(cmd.Context(), cmd.OutOrStdout(), defaultClient, listFilter, listCategory); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

func executeList(ctx context.Context, w io.Writer, c ClientInterface, filter, cat string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	view, _, err := loadView(ctx, c)
	if err != nil {
		return err
	}

	view.SetFilter(filter)
	if cat != "" {
		view.SelectCategory(cat)
	}
	printEntries(w, view)
	return nil
}
