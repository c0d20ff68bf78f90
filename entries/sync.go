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
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/we-are-mono/hashbridge/client"
	"github.com/we-are-mono/hashbridge/types"
)

var (
	// ErrBusy is returned when the control for an action is still held.
	ErrBusy = errors.New("action already in progress")
	// ErrBlankField is returned by AddEntry for an empty field name.
	ErrBlankField = errors.New("field name is required")
)

// OutcomeKind says how an Outcome changes a ViewState
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeReplace
	OutcomeUpdate
	OutcomeRemove
)

// Outcome is the confirmed result of a sync action. Status is always set.
type Outcome struct {
	Kind    OutcomeKind
	Field   string
	Value   string
	Entries []types.Entry
	Status  types.Status
}

// Syncer issues hash commands for the messages collection.
type Syncer struct {
	sender   client.Sender
	progress func(types.Status)

	mu   sync.Mutex
	held map[string]bool
}

// NewSyncer creates a syncer that sends through s.
func NewSyncer(s client.Sender) *Syncer {
	return &Syncer{sender: s, held: make(map[string]bool)}
}

// OnProgress registers a callback for the neutral status shown while a
// command is outstanding.
func (s *Syncer) OnProgress(fn func(types.Status)) {
	s.progress = fn
}

// Busy reports whether control is held.
func (s *Syncer) Busy(control string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held[control]
}

func (s *Syncer) acquire(control string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[control] {
		return false
	}
	s.held[control] = true
	return true
}

func (s *Syncer) release(control string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, control)
}

func (s *Syncer) report(text string) {
	if s.progress != nil {
		s.progress(types.Neutral(text))
	}
}

// SaveControl and DeleteControl name the per-field controls; AddControl is
// the single add control.
func SaveControl(field string) string { return "save:" + field }
func DeleteControl(field string) string { return "delete:" + field }

const AddControl = "add"

// LoadEntries fetches the whole collection.
func (s *Syncer) LoadEntries(ctx context.Context) (Outcome, error) {
	s.report("Loading messages...")

	reply, err := s.sender.Send(ctx, "HGETALL", types.Collection)
	if err != nil {
		return Outcome{Status: types.Danger("Failed to load: " + err.Error())}, fmt.Errorf("load %s: %w", types.Collection, err)
	}

	list := Normalize(reply)
	return Outcome{
		Kind:    OutcomeReplace,
		Entries: list,
		Status:  types.Success(fmt.Sprintf("Loaded %d field(s)", len(list))),
	}, nil
}

// SaveEntry writes value to field. The returned outcome overwrites the local
// value without a refetch.
func (s *Syncer) SaveEntry(ctx context.Context, field, value string) (Outcome, error) {
	control := SaveControl(field)
	if !s.acquire(control) {
		return Outcome{Field: field, Status: types.Danger("Error: " + ErrBusy.Error())}, ErrBusy
	}
	defer s.release(control)

	s.report("Saving...")
	if _, err := s.sender.Send(ctx, "HSET", types.Collection, field, value); err != nil {
		return Outcome{Field: field, Status: types.Danger("Error: " + err.Error())}, fmt.Errorf("save %s: %w", field, err)
	}

	return Outcome{Kind: OutcomeUpdate, Field: field, Value: value, Status: types.Success("Saved")}, nil
}

// DeleteEntry removes field from the collection.
func (s *Syncer) DeleteEntry(ctx context.Context, field string) (Outcome, error) {
	control := DeleteControl(field)
	if !s.acquire(control) {
		return Outcome{Field: field, Status: types.Danger("Error: " + ErrBusy.Error())}, ErrBusy
	}
	defer s.release(control)

	s.report("Deleting...")
	if _, err := s.sender.Send(ctx, "HDEL", types.Collection, field); err != nil {
		return Outcome{Field: field, Status: types.Danger("Error: " + err.Error())}, fmt.Errorf("delete %s: %w", field, err)
	}

	return Outcome{Kind: OutcomeRemove, Field: field, Status: types.Success("Deleted")}, nil
}

// AddEntry writes a new field and then reloads the collection. Field and
// value are trimmed; a blank field is rejected without a network call.
func (s *Syncer) AddEntry(ctx context.Context, field, value string) (Outcome, error) {
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if field == "" {
		return Outcome{Status: types.Neutral("")}, ErrBlankField
	}

	if !s.acquire(AddControl) {
		return Outcome{Field: field, Status: types.Danger("Failed to add: " + ErrBusy.Error())}, ErrBusy
	}
	defer s.release(AddControl)

	s.report("Adding field...")
	if _, err := s.sender.Send(ctx, "HSET", types.Collection, field, value); err != nil {
		return Outcome{Field: field, Status: types.Danger("Failed to add: " + err.Error())}, fmt.Errorf("add %s: %w", field, err)
	}
	s.report("Added " + field)

	out, err := s.LoadEntries(ctx)
	if err != nil {
		out.Field = field
		return out, err
	}
	out.Field = field
	out.Value = value
	out.Status = types.Success("Added " + field)
	return out, nil
}
