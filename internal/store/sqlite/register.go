// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"github.com/sigil-dev/glossary/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", newEntryStore)
}

func newEntryStore(path string) (store.EntryStore, error) {
	if path == "" {
		path = "glossary.db"
	}
	return NewEntryStore(path)
}
