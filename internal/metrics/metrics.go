// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package metrics holds the Prometheus collectors for the glossary plugin.
// They are registered with the default registry via promauto and served by
// the HTTP API on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "glossary"

// Outcome label values for CommandsTotal.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeUnknown = "unknown_command"
)

// Source label values for EntriesWrittenTotal.
const (
	SourceCommand  = "command"
	SourceFixtures = "fixtures"
	SourceArchive  = "archive"
)

var (
	// CommandsTotal counts dispatched commands by name and outcome.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of glossary commands handled by command and outcome.",
		},
		[]string{"command", "outcome"},
	)

	CommandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of glossary command handling in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"command"},
	)

	// EntriesWrittenTotal counts records appended to the store.
	// source: command | fixtures | archive
	EntriesWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_written_total",
			Help:      "Total number of glossary records written by source.",
		},
		[]string{"source"},
	)

	TermCacheRebuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "term_cache_rebuilds_total",
			Help:      "Total number of times the current-terms cache was rebuilt from the database.",
		},
	)
)
