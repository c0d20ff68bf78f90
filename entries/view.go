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

package entries

import (
	"github.com/we-are-mono/hashbridge/category"
	"github.com/we-are-mono/hashbridge/types"
)

// ViewState is the client's local view of the collection. It is owned by the
// caller and changed only through its methods and Apply.
type ViewState struct {
	entries  []types.Entry
	index    []types.CategoryCount
	filter   string
	category string
}

// NewViewState returns an empty view.
func NewViewState() *ViewState {
	return &ViewState{entries: []types.Entry{}, index: []types.CategoryCount{}}
}

// Entries returns all entries in field order.
func (v *ViewState) Entries() []types.Entry {
	out := make([]types.Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Lookup returns the entry for field.
func (v *ViewState) Lookup(field string) (types.Entry, bool) {
	if i := v.find(field); i >= 0 {
		return v.entries[i], true
	}
	return types.Entry{}, false
}

// Index returns the cached category counts.
func (v *ViewState) Index() []types.CategoryCount {
	return v.index
}

// Filter returns the text filter.
func (v *ViewState) Filter() string { return v.filter }

// Category returns the active category filter, "" meaning all.
func (v *ViewState) Category() string { return v.category }

// SetFilter sets the free-text field filter.
func (v *ViewState) SetFilter(text string) {
	v.filter = text
}

// SelectCategory restricts the view to one category.
func (v *ViewState) SelectCategory(name string) {
	v.category = name
}

// ClearCategory shows all categories again.
func (v *ViewState) ClearCategory() {
	v.category = ""
}

// CanClearCategory reports whether a category filter is active.
func (v *ViewState) CanClearCategory() bool {
	return v.category != ""
}

// Visible returns the entries passing the current filters.
func (v *ViewState) Visible() []types.Entry {
	return category.Visible(v.entries, v.filter, v.category)
}

// Counts returns the visible and total entry counts.
func (v *ViewState) Counts() (visible, total int) {
	return len(v.Visible()), len(v.entries)
}

// EmptyMessage is the placeholder shown when nothing is visible.
func (v *ViewState) EmptyMessage() string {
	visible, total := v.Counts()
	return category.EmptyMessage(total, visible)
}

// Apply folds a confirmed outcome into the view. It reports whether the
// view changed; outcomes for fields that are no longer present are ignored.
func (v *ViewState) Apply(o Outcome) bool {
	switch o.Kind {
	case OutcomeReplace:
		v.entries = append([]types.Entry{}, o.Entries...)
		v.reindex()
		return true
	case OutcomeUpdate:
		i := v.find(o.Field)
		if i < 0 {
			return false
		}
		v.entries[i].Value = o.Value
		return true
	case OutcomeRemove:
		i := v.find(o.Field)
		if i < 0 {
			return false
		}
		v.entries = append(v.entries[:i:i], v.entries[i+1:]...)
		v.reindex()
		return true
	default:
		return false
	}
}

func (v *ViewState) find(field string) int {
	for i, e := range v.entries {
		if e.Field == field {
			return i
		}
	}
	return -1
}

func (v *ViewState) reindex() {
	v.index = category.BuildIndex(v.entries)
}
