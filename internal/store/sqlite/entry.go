// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sigil-dev/glossary/internal/metrics"
	"github.com/sigil-dev/glossary/internal/store"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// Compile-time interface check.
var _ store.EntryStore = (*EntryStore)(nil)

// EntryStore implements store.EntryStore backed by SQLite.
type EntryStore struct {
	db    *sqlx.DB
	cache *store.TermCache
	now   func() time.Time
}

// Option configures an EntryStore.
type Option func(*EntryStore)

// WithClock overrides the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(s *EntryStore) { s.now = now }
}

// NewEntryStore opens (or creates) a SQLite database at dbPath and
// initialises the glossary table.
func NewEntryStore(dbPath string, opts ...Option) (*EntryStore, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "opening sqlite db")
	}

	// One connection serializes readers and writers through SQLite itself.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "pinging sqlite db")
	}

	s, err := NewEntryStoreWithDB(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewEntryStoreWithDB wraps an already-open connection and ensures the
// schema exists. The store takes ownership of db.
func NewEntryStoreWithDB(db *sqlx.DB, opts ...Option) (*EntryStore, error) {
	if err := migrate(db); err != nil {
		return nil, glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "migrating sqlite db")
	}

	s := &EntryStore{
		db:    db,
		cache: store.NewTermCache(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func migrate(db *sqlx.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS glossary (
	entryid     INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT,
	entry       TEXT NOT NULL,
	entry_lower TEXT NOT NULL,
	definition  TEXT NOT NULL,
	author      TEXT NOT NULL,
	channel     TEXT,
	timestamp   TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS ix_glossary_entry ON glossary(entry_lower);

CREATE TABLE IF NOT EXISTS glossary_redirects (
	redirectid    INTEGER PRIMARY KEY AUTOINCREMENT,
	redirect_from TEXT UNIQUE NOT NULL,
	redirect_to   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_glossary_redirect ON glossary_redirects(redirect_from);
`
	if _, err := db.Exec(ddl); err != nil {
		return err
	}

	// Databases written by the previous bot predate record ids.
	if err := addColumnIfMissing(db, "glossary", "id", "TEXT"); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_glossary_id ON glossary(id)`); err != nil {
		return err
	}
	return backfillIDs(db)
}

func backfillIDs(db *sqlx.DB) error {
	var rowIDs []int64
	if err := db.Select(&rowIDs, `SELECT entryid FROM glossary WHERE id IS NULL`); err != nil {
		return fmt.Errorf("listing rows without id: %w", err)
	}
	for _, rowID := range rowIDs {
		if _, err := db.Exec(`UPDATE glossary SET id = ? WHERE entryid = ?`, uuid.NewString(), rowID); err != nil {
			return fmt.Errorf("assigning id to row %d: %w", rowID, err)
		}
	}
	if len(rowIDs) > 0 {
		slog.Info("assigned ids to legacy glossary rows", "count", len(rowIDs))
	}
	return nil
}

// Close closes the underlying database connection.
func (s *EntryStore) Close() error {
	return s.db.Close()
}

const entryColumns = `entryid, id, entry, entry_lower, definition, author, channel, timestamp`

// currentEntries selects the newest row per term.
const currentEntries = `
SELECT entry, entry_lower, definition FROM (
	SELECT entry, entry_lower, definition,
		ROW_NUMBER() OVER (PARTITION BY entry_lower ORDER BY timestamp DESC, entryid DESC) AS rn
	FROM glossary
) WHERE rn = 1`

type entryRow struct {
	RowID      int64          `db:"entryid"`
	ID         string         `db:"id"`
	Entry      string         `db:"entry"`
	EntryLower string         `db:"entry_lower"`
	Definition string         `db:"definition"`
	Author     string         `db:"author"`
	Channel    sql.NullString `db:"channel"`
	Timestamp  string         `db:"timestamp"`
}

func (r entryRow) record(index, total int) *store.Record {
	return &store.Record{
		ID:         r.ID,
		Term:       r.Entry,
		TermLower:  r.EntryLower,
		Definition: r.Definition,
		Author:     r.Author,
		Channel:    r.Channel.String,
		CreatedAt:  parseTime(r.Timestamp),
		Index:      index,
		Total:      total,
	}
}

func (s *EntryStore) AddEntry(ctx context.Context, entry store.NewEntry) (*store.Record, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	id, err := s.insertUnlessRedirected(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	history, err := s.History(ctx, entry.Term)
	if err != nil {
		return nil, err
	}
	for _, rec := range history {
		if rec.ID == id {
			slog.Info("glossary entry added",
				"term", rec.Term,
				"author", rec.Author,
				"version", rec.Index,
			)
			return rec, nil
		}
	}
	return nil, glossaryerr.New(glossaryerr.CodeStoreDatabaseFailure, "inserted entry missing from history",
		glossaryerr.FieldTerm(entry.Term))
}

// insertUnlessRedirected checks the redirect table and inserts in one
// transaction so a concurrent AddRedirect cannot slip between the two.
func (s *EntryStore) insertUnlessRedirected(ctx context.Context, entry store.NewEntry) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "beginning insert")
	}
	defer func() { _ = tx.Rollback() }()

	r, err := selectRedirect(ctx, tx, store.FoldTerm(entry.Term))
	switch {
	case err == nil:
		return "", store.EntryRedirected(store.NormalizeTerm(entry.Term), r.To)
	case !glossaryerr.IsNotFound(err):
		return "", err
	}

	id, err := insertEntry(ctx, tx, entry, s.now())
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "committing insert")
	}
	return id, nil
}

func insertEntry(ctx context.Context, db sqlx.ExecerContext, entry store.NewEntry, now time.Time) (string, error) {
	const q = `INSERT INTO glossary (id, entry, entry_lower, definition, author, channel, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	created := entry.CreatedAt
	if created.IsZero() {
		created = now
	}
	term := store.NormalizeTerm(entry.Term)
	id := uuid.NewString()

	_, err := db.ExecContext(ctx, q,
		id,
		term,
		store.FoldTerm(term),
		entry.Definition,
		entry.Author,
		sql.NullString{String: entry.Channel, Valid: entry.Channel != ""},
		formatTime(created),
	)
	if err != nil {
		return "", glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "inserting entry",
			glossaryerr.FieldTerm(term))
	}
	return id, nil
}

func (s *EntryStore) History(ctx context.Context, term string) ([]*store.Record, error) {
	rows, err := selectHistory(ctx, s.db, store.FoldTerm(term))
	if err != nil {
		return nil, err
	}

	records := make([]*store.Record, len(rows))
	for i, row := range rows {
		records[i] = row.record(i+1, len(rows))
	}
	return records, nil
}

func selectHistory(ctx context.Context, db sqlx.QueryerContext, termLower string) ([]entryRow, error) {
	q := `SELECT ` + entryColumns + ` FROM glossary WHERE entry_lower = ? ORDER BY timestamp, entryid`

	var rows []entryRow
	if err := sqlx.SelectContext(ctx, db, &rows, q, termLower); err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "querying history",
			glossaryerr.FieldTerm(termLower))
	}
	return rows, nil
}

func (s *EntryStore) GetEntry(ctx context.Context, term string) (*store.Record, error) {
	history, err := s.History(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, store.NotFound(store.NormalizeTerm(term))
	}
	return history[len(history)-1], nil
}

func (s *EntryStore) GetEntryVersion(ctx context.Context, term string, version int) (*store.Record, error) {
	history, err := s.History(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, store.NotFound(store.NormalizeTerm(term))
	}
	if version < 1 || version > len(history) {
		return nil, store.VersionOutOfRange(history[0].Term, version, len(history))
	}
	return history[version-1], nil
}

func (s *EntryStore) ListTerms(ctx context.Context) ([]string, error) {
	if terms, ok := s.cache.Get(); ok {
		return terms, nil
	}

	gen := s.cache.Generation()
	terms := []string{}
	if err := s.db.SelectContext(ctx, &terms, `SELECT entry FROM (`+currentEntries+`)`); err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "listing terms")
	}
	store.SortTerms(terms)
	if s.cache.SetIfGeneration(gen, terms) {
		metrics.TermCacheRebuildsTotal.Inc()
	}
	return terms, nil
}

func (s *EntryStore) RandomTerm(ctx context.Context) (string, error) {
	terms, err := s.ListTerms(ctx)
	if err != nil {
		return "", err
	}
	if len(terms) == 0 {
		return "", glossaryerr.New(glossaryerr.CodeStoreEntryNotFound, "glossary is empty")
	}
	return terms[rand.IntN(len(terms))], nil
}

func (s *EntryStore) FindTermsContaining(ctx context.Context, fragment string, limit int) ([]string, error) {
	terms, err := s.ListTerms(ctx)
	if err != nil {
		return nil, err
	}
	return store.MatchTerms(terms, fragment, limit), nil
}

func (s *EntryStore) FindTermsByDefinition(ctx context.Context, fragment string) ([]string, error) {
	q := `SELECT entry FROM (` + currentEntries + `) WHERE instr(lower(definition), lower(?)) > 0`

	var terms []string
	if err := s.db.SelectContext(ctx, &terms, q, fragment); err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "searching definitions")
	}
	store.SortTerms(terms)
	return terms, nil
}

// timeLayout is fixed-width so that lexical order in the timestamp column
// matches chronological order, including rows written as datetime('now').
const timeLayout = "2006-01-02 15:04:05.000000000"

// formatTime serialises a time.Time in UTC for the timestamp column.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime deserialises a timestamp string stored in the database.
func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.DateTime, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
