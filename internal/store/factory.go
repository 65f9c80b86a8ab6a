// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"sync"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// EntryStoreFactory opens an entry store at the given path.
type EntryStoreFactory func(path string) (EntryStore, error)

var (
	entryFactories = map[string]EntryStoreFactory{}
	factoriesMu    sync.RWMutex
)

// RegisterBackend registers the factory for a named storage backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, factory EntryStoreFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	entryFactories[name] = factory
}

// resolveBackend returns the effective backend name, defaulting to "sqlite".
func resolveBackend(cfg *StorageConfig) string {
	if cfg.Backend == "" {
		return "sqlite"
	}
	return cfg.Backend
}

// NewEntryStore opens the entry store selected by cfg.
func NewEntryStore(cfg *StorageConfig) (EntryStore, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := entryFactories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, glossaryerr.Errorf(glossaryerr.CodeStoreInvalidInput, "unsupported storage backend: %q", backend)
	}

	return factory(cfg.Path)
}
