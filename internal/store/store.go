// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import "context"

// EntryStore persists glossary records. Records are append-only: redefining
// a term adds a row and the newest row is the term's current definition.
// A redirected term cannot be given new definitions.
type EntryStore interface {
	// AddEntry appends a record stamped with the current time and returns it
	// annotated with its position in the term's history. It fails with
	// CodeStoreEntryRedirected when the term is redirected.
	AddEntry(ctx context.Context, entry NewEntry) (*Record, error)

	// History returns every record for term, oldest first. Unknown terms
	// yield an empty slice.
	History(ctx context.Context, term string) ([]*Record, error)

	// GetEntry returns the current record for term.
	GetEntry(ctx context.Context, term string) (*Record, error)

	// GetEntryVersion returns the version-th record (1-indexed) for term.
	GetEntryVersion(ctx context.Context, term string, version int) (*Record, error)

	// ListTerms returns every term with at least one definition.
	ListTerms(ctx context.Context) ([]string, error)

	// RandomTerm picks one term uniformly from ListTerms.
	RandomTerm(ctx context.Context) (string, error)

	// FindTermsContaining matches fragment against terms, case-insensitively.
	// A limit <= 0 returns every match.
	FindTermsContaining(ctx context.Context, fragment string, limit int) ([]string, error)

	// FindTermsByDefinition matches fragment against current definitions,
	// case-insensitively, returning distinct terms.
	FindTermsByDefinition(ctx context.Context, fragment string) ([]string, error)

	// AddRedirect points lookups of from at to, replacing any redirect
	// already leaving from. Redirects are one hop: to may not itself be
	// redirected and from may not be the target of another redirect.
	AddRedirect(ctx context.Context, from, to string) error

	// RemoveRedirect deletes the redirect leaving term.
	RemoveRedirect(ctx context.Context, term string) error

	// GetRedirect returns the redirect leaving term, or a not_found error.
	GetRedirect(ctx context.Context, term string) (*Redirect, error)

	Close() error
}
