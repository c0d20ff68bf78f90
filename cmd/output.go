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
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/we-are-mono/hashbridge/category"
	"github.com/we-are-mono/hashbridge/client"
	"github.com/we-are-mono/hashbridge/entries"
	"github.com/we-are-mono/hashbridge/types"
)

// valueWidth caps the value column of entry tables.
const valueWidth = 60

func toneColor(t types.Tone) *color.Color {
	switch t {
	case types.ToneSuccess:
		return color.New(color.FgGreen)
	case types.ToneDanger:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Faint)
	}
}

func printStatus(w io.Writer, s types.Status) {
	if s.Text == "" {
		return
	}
	toneColor(s.Tone).Fprintln(w, s.Text)
}

func printEntries(w io.Writer, view *entries.ViewState) {
	visible := view.Visible()
	if len(visible) == 0 {
		toneColor(types.ToneNeutral).Fprintln(w, view.EmptyMessage())
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = valueWidth
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("FIELD"), bold.Sprint("CATEGORY"), bold.Sprint("VALUE"))
	for _, e := range visible {
		tbl.AddRow(e.Field, category.Derive(e.Field), e.Value)
	}
	fmt.Fprintln(w, tbl)

	shown, total := view.Counts()
	toneColor(types.ToneNeutral).Fprintf(w, "%d / %d\n", shown, total)
}

func printIndex(w io.Writer, view *entries.ViewState) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("CATEGORY"), bold.Sprint("COUNT"))
	for _, c := range view.Index() {
		tbl.AddRow(c.Name, c.Count)
	}
	tbl.RightAlign(1)
	fmt.Fprintln(w, tbl)
}

func printReply(w io.Writer, r client.Reply) {
	switch r.Kind {
	case client.ReplyScalar:
		fmt.Fprintln(w, r.Scalar)
	case client.ReplyList:
		if len(r.List) == 0 {
			toneColor(types.ToneNeutral).Fprintln(w, "(empty list)")
			return
		}
		for i, item := range r.List {
			fmt.Fprintf(w, "%d) %s\n", i+1, item)
		}
	case client.ReplyMapping:
		keys := make([]string, 0, len(r.Mapping))
		for k := range r.Mapping {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, k := range keys {
			tbl.AddRow(k, r.Mapping[k])
		}
		fmt.Fprintln(w, tbl)
	default:
		toneColor(types.ToneNeutral).Fprintln(w, "(nil)")
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}

// loadView reconnects with the saved profile and fetches the collection.
func loadView(ctx context.Context, c ClientInterface) (*entries.ViewState, *entries.Syncer, error) {
	if err := reconnect(ctx, c); err != nil {
		return nil, nil, err
	}

	syncer := entries.NewSyncer(c)
	out, err := syncer.LoadEntries(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s", out.Status.Text)
	}

	view := entries.NewViewState()
	view.Apply(out)
	return view, syncer, nil
}
