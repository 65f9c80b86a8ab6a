// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package server

import (
	"github.com/sigil-dev/glossary/internal/glossary"
	"github.com/sigil-dev/glossary/internal/store"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// Services holds dependencies injected into route handlers.
type Services struct {
	entries  store.EntryStore
	commands *glossary.Handler
}

// NewServices creates a Services instance. Both dependencies are required.
func NewServices(entries store.EntryStore, commands *glossary.Handler) (*Services, error) {
	if entries == nil {
		return nil, glossaryerr.New(glossaryerr.CodeServerConfigInvalid, "entry store is required")
	}
	if commands == nil {
		return nil, glossaryerr.New(glossaryerr.CodeServerConfigInvalid, "command handler is required")
	}
	return &Services{entries: entries, commands: commands}, nil
}
