// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package glossary

import (
	"context"
	"strings"

	"github.com/sigil-dev/glossary/internal/store"
)

// DefaultSuggestionLimit caps the terms offered for an undefined lookup.
const DefaultSuggestionLimit = 10

// Fragments splits text on spaces, hyphens and underscores and lowercases
// the pieces. Empty pieces and repeats are dropped.
func Fragments(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	})

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(p)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// termsMatchingFragments returns the sorted union of terms containing any
// fragment of text.
func termsMatchingFragments(ctx context.Context, s store.EntryStore, text string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, frag := range Fragments(text) {
		matches, err := s.FindTermsContaining(ctx, frag, 0)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			key := strings.ToLower(m)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}
	store.SortTerms(out)
	return out, nil
}

// Suggest returns up to limit terms resembling term. A limit <= 0 uses
// DefaultSuggestionLimit.
func Suggest(ctx context.Context, s store.EntryStore, term string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	matches, err := termsMatchingFragments(ctx, s, term)
	if err != nil {
		return nil, err
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
