// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"slices"
	"sort"
	"strings"
	"sync"
)

// TermCache memoizes the list of current terms between writes.
// It is safe for concurrent use.
//
// Every Invalidate advances the generation. A reader that rebuilds the
// snapshot records the generation before querying and installs its result
// with SetIfGeneration, so a rebuild that raced a write is discarded.
type TermCache struct {
	mu         sync.RWMutex
	terms      []string
	valid      bool
	generation uint64
}

// NewTermCache returns an empty, invalid cache.
func NewTermCache() *TermCache {
	return &TermCache{}
}

// Get returns a copy of the cached terms. The second result is false when
// the cache must be rebuilt.
func (c *TermCache) Get() ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid {
		return nil, false
	}
	out := make([]string, len(c.terms))
	copy(out, c.terms)
	return out, true
}

// Generation returns the current write generation.
func (c *TermCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Set replaces the snapshot unconditionally. Terms are stored sorted
// case-insensitively.
func (c *TermCache) Set(terms []string) {
	sorted := sortedCopy(terms)

	c.mu.Lock()
	c.terms = sorted
	c.valid = true
	c.mu.Unlock()
}

// SetIfGeneration installs terms only if no Invalidate happened since gen
// was read. It reports whether the snapshot was stored.
func (c *TermCache) SetIfGeneration(gen uint64, terms []string) bool {
	sorted := sortedCopy(terms)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.terms = sorted
	c.valid = true
	return true
}

// Invalidate drops the snapshot so the next Get misses.
func (c *TermCache) Invalidate() {
	c.mu.Lock()
	c.terms = nil
	c.valid = false
	c.generation++
	c.mu.Unlock()
}

func sortedCopy(terms []string) []string {
	sorted := slices.Clone(terms)
	if sorted == nil {
		sorted = []string{}
	}
	SortTerms(sorted)
	return sorted
}

// SortTerms orders terms case-insensitively, falling back to byte order so
// the result is deterministic.
func SortTerms(terms []string) {
	sort.SliceStable(terms, func(i, j int) bool {
		a, b := strings.ToLower(terms[i]), strings.ToLower(terms[j])
		if a != b {
			return a < b
		}
		return terms[i] < terms[j]
	})
}

// MatchTerms returns the terms containing fragment, case-insensitively, in
// input order. A limit <= 0 returns every match.
func MatchTerms(terms []string, fragment string, limit int) []string {
	needle := strings.ToLower(fragment)
	var out []string
	for _, term := range terms {
		if !strings.Contains(strings.ToLower(term), needle) {
			continue
		}
		out = append(out, term)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
