// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

// StorageConfig selects the database the entry store opens.
type StorageConfig struct {
	Backend string // "sqlite" is the only supported backend.
	Path    string
}
