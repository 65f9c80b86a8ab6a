// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"strings"
	"time"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// Record is one immutable definition of a term.
type Record struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	TermLower  string    `json:"term_lower"`
	Definition string    `json:"definition"`
	Author     string    `json:"author"`
	Channel    string    `json:"channel,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Index is the 1-based position in the term's history; Total is the
	// history length at read time.
	Index int `json:"index"`
	Total int `json:"total"`
}

// IsCurrent reports whether the record is the newest definition of its term.
func (r *Record) IsCurrent() bool {
	return r.Index == r.Total
}

// Redirect sends lookups of From to To. Both are stored folded.
type Redirect struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewEntry is the input to EntryStore.AddEntry.
type NewEntry struct {
	Term       string
	Definition string
	Author     string
	Channel    string

	// CreatedAt overrides the write time. Only archive loads set it.
	CreatedAt time.Time
}

// Validate checks that the entry has all required fields set.
func (e NewEntry) Validate() error {
	if NormalizeTerm(e.Term) == "" {
		return glossaryerr.New(glossaryerr.CodeStoreInvalidInput, "entry: term is required")
	}
	if strings.TrimSpace(e.Definition) == "" {
		return glossaryerr.New(glossaryerr.CodeStoreInvalidInput, "entry: definition is required",
			glossaryerr.FieldTerm(e.Term))
	}
	if e.Author == "" {
		return glossaryerr.New(glossaryerr.CodeStoreInvalidInput, "entry: author is required",
			glossaryerr.FieldTerm(e.Term))
	}
	return nil
}

// NormalizeTerm trims a term and collapses internal whitespace runs.
func NormalizeTerm(term string) string {
	return strings.Join(strings.Fields(term), " ")
}

// FoldTerm returns the case-insensitive identity key for a term.
func FoldTerm(term string) string {
	return strings.ToLower(NormalizeTerm(term))
}
