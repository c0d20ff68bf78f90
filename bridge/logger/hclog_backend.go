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

package logger

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// HCLogBackend writes log entries to a console through hclog.
// Level filtering is done by the Logger, so the hclog logger accepts everything.
type HCLogBackend struct {
	log hclog.Logger
}

// NewHCLogBackend creates a console backend writing to out.
func NewHCLogBackend(name string, out io.Writer, format string) *HCLogBackend {
	return &HCLogBackend{
		log: hclog.New(&hclog.LoggerOptions{
			Name:       name,
			Output:     out,
			Level:      hclog.Trace,
			JSONFormat: format == "json",
		}),
	}
}

// Write forwards the entry to hclog, with the component as a sub-logger name
// and fields as sorted key/value pairs.
func (b *HCLogBackend) Write(entry *Entry) error {
	l := b.log
	if entry.Component != "" {
		l = l.Named(entry.Component)
	}

	args := make([]interface{}, 0, len(entry.Fields)*2)
	for _, k := range entry.SortedKeys() {
		args = append(args, k, entry.Fields[k])
	}

	l.Log(hclog.LevelFromString(entry.Level), entry.Message, args...)
	return nil
}

// Close is a no-op; the writer belongs to the caller.
func (b *HCLogBackend) Close() error {
	return nil
}
