// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package glossary_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sigil-dev/glossary/internal/glossary"
	"github.com/sigil-dev/glossary/internal/store"
	"github.com/sigil-dev/glossary/internal/store/sqlite"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.EntryStore {
	t.Helper()
	s, err := sqlite.NewEntryStore(filepath.Join(t.TempDir(), "glossary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestHandler(t *testing.T) (*glossary.Handler, *sqlite.EntryStore) {
	t.Helper()
	s := newTestStore(t)
	h := glossary.NewHandler(glossary.HandlerConfig{
		Store:    s,
		SlackURL: "https://example.slack.com/",
	})
	return h, s
}

func define(t *testing.T, h *glossary.Handler, sender, args string) string {
	t.Helper()
	reply, err := h.Define(context.Background(), glossary.Request{Sender: sender, Channel: "#general", Args: args})
	require.NoError(t, err)
	return reply
}

func redirect(t *testing.T, h *glossary.Handler, args string) string {
	t.Helper()
	reply, err := h.Redirect(context.Background(), glossary.Request{Sender: "dave", Args: args})
	require.NoError(t, err)
	return reply
}

func whatis(t *testing.T, h *glossary.Handler, args string) string {
	t.Helper()
	reply, err := h.Lookup(context.Background(), glossary.Request{Sender: "carol", Args: args})
	require.NoError(t, err)
	return reply
}

var errStorage = errors.New("database is locked")

// failingStore fails every call with errStorage.
type failingStore struct{}

var _ store.EntryStore = failingStore{}

func (failingStore) fail() error {
	return glossaryerr.Wrap(errStorage, glossaryerr.CodeStoreDatabaseFailure, "query failed")
}

func (f failingStore) AddEntry(context.Context, store.NewEntry) (*store.Record, error) {
	return nil, f.fail()
}

func (f failingStore) History(context.Context, string) ([]*store.Record, error) { return nil, f.fail() }
func (f failingStore) GetEntry(context.Context, string) (*store.Record, error)  { return nil, f.fail() }

func (f failingStore) GetEntryVersion(context.Context, string, int) (*store.Record, error) {
	return nil, f.fail()
}

func (f failingStore) ListTerms(context.Context) ([]string, error) { return nil, f.fail() }
func (f failingStore) RandomTerm(context.Context) (string, error)  { return "", f.fail() }
func (f failingStore) Close() error                                { return nil }

func (f failingStore) FindTermsContaining(context.Context, string, int) ([]string, error) {
	return nil, f.fail()
}

func (f failingStore) FindTermsByDefinition(context.Context, string) ([]string, error) {
	return nil, f.fail()
}

func (f failingStore) AddRedirect(context.Context, string, string) error { return f.fail() }
func (f failingStore) RemoveRedirect(context.Context, string) error      { return f.fail() }

func (f failingStore) GetRedirect(context.Context, string) (*store.Redirect, error) {
	return nil, f.fail()
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
