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

// Package types defines the data structures shared by the bridge, the client
// library and the CLI: hash entries, category counts, the persisted connection
// profile and user-visible status messages.
package types

// Collection is the name of the single hash the client manages.
const Collection = "messages"

// Uncategorized is the category of a field without a "." delimiter.
const Uncategorized = "uncategorized"

// Entry is one field/value pair of the hash collection
type Entry struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// CategoryCount is the number of entries sharing a derived category
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ConnectionProfile is the connection record the client persists after a
// successful connect. It is always written as a whole.
type ConnectionProfile struct {
	Protocol string `json:"protocol"` // http or https
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	BaseURL  string `json:"baseUrl"`
}

// HasAuth reports whether a basic-auth header should be attached.
func (p ConnectionProfile) HasAuth() bool {
	return p.Username != "" || p.Password != ""
}

// Tone is the severity of a status message
type Tone string

const (
	ToneNeutral Tone = "muted"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// Status is a user-visible outcome of a client action
type Status struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// Neutral returns a status with the neutral tone.
func Neutral(text string) Status {
	return Status{Text: text, Tone: ToneNeutral}
}

// Success returns a status with the success tone.
func Success(text string) Status {
	return Status{Text: text, Tone: ToneSuccess}
}

// Danger returns a status with the danger tone.
func Danger(text string) Status {
	return Status{Text: text, Tone: ToneDanger}
}
