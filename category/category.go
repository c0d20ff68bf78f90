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

// Package category derives categories from field names and computes the
// filtered view of the collection.
package category

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/we-are-mono/hashbridge/types"
)

// Delimiter separates the category prefix from the rest of a field name.
const Delimiter = "."

const (
	EmptyCollection = "No fields found in " + types.Collection + "."
	NoMatches       = "No items match the filter."
)

// NewCollator returns a collator for ordering field and category names.
// Collators are not safe for concurrent use; create one per sort.
func NewCollator() *collate.Collator {
	return collate.New(language.Und)
}

// Compare orders a and b with c, falling back to byte order so that distinct
// strings never compare equal.
func Compare(c *collate.Collator, a, b string) int {
	if n := c.CompareString(a, b); n != 0 {
		return n
	}
	return strings.Compare(a, b)
}

// Derive returns the category of field: the text before the first delimiter,
// or Uncategorized when there is none.
func Derive(field string) string {
	prefix, _, found := strings.Cut(field, Delimiter)
	if !found {
		return types.Uncategorized
	}
	return prefix
}

// BuildIndex counts entries per category, ordered by category name.
func BuildIndex(entries []types.Entry) []types.CategoryCount {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[Derive(e.Field)]++
	}

	index := make([]types.CategoryCount, 0, len(counts))
	for name, n := range counts {
		index = append(index, types.CategoryCount{Name: name, Count: n})
	}

	c := NewCollator()
	sort.Slice(index, func(i, j int) bool {
		return Compare(c, index[i].Name, index[j].Name) < 0
	})
	return index
}

// Matches reports whether e passes the text and category filters. An empty
// filter matches everything.
func Matches(e types.Entry, text, cat string) bool {
	if text != "" && !strings.Contains(strings.ToLower(e.Field), strings.ToLower(text)) {
		return false
	}
	return cat == "" || Derive(e.Field) == cat
}

// Visible returns the entries matching both filters, in input order.
func Visible(entries []types.Entry, text, cat string) []types.Entry {
	visible := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, text, cat) {
			visible = append(visible, e)
		}
	}
	return visible
}

// EmptyMessage is the placeholder for a view with no visible entries, or ""
// when something is visible.
func EmptyMessage(total, visible int) string {
	switch {
	case visible > 0:
		return ""
	case total == 0:
		return EmptyCollection
	default:
		return NoMatches
	}
}
