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

package bridge

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hashbridge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hashbridge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	storeCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hashbridge",
			Subsystem: "store",
			Name:      "commands_total",
			Help:      "Commands forwarded to the backing store.",
		},
		[]string{"verb", "success"},
	)
	storeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hashbridge",
			Subsystem: "store",
			Name:      "command_duration_seconds",
			Help:      "Backing store command duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"verb", "success"},
	)
)

// RegisterMetrics registers the bridge collectors with the default registry.
// It is safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, storeCommands, storeDuration)
	})
}

func recordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func recordStoreCommand(verb string, err error, duration time.Duration) {
	RegisterMetrics()
	verbLabel := verbLabel(verb)
	successLabel := strconv.FormatBool(err == nil)
	storeCommands.WithLabelValues(verbLabel, successLabel).Inc()
	storeDuration.WithLabelValues(verbLabel, successLabel).Observe(duration.Seconds())
}

// verbLabel bounds label cardinality: verbs come from clients, so anything
// that does not look like a command name is folded into "other".
func verbLabel(verb string) string {
	if verb == "" || len(verb) > 24 {
		return "other"
	}
	for _, r := range verb {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '.' || r == '_' || r == '-') {
			return "other"
		}
	}
	return strings.ToUpper(verb)
}
