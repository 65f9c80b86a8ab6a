// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/sigil-dev/glossary/internal/metrics"
	"github.com/sigil-dev/glossary/internal/store"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// Archive is the JSON document written by Dump and read by Load.
type Archive struct {
	Entries   []ArchiveEntry    `json:"entries"`
	Redirects []ArchiveRedirect `json:"redirects"`
}

// ArchiveRedirect is one redirect in an archive.
type ArchiveRedirect struct {
	From string `json:"redirect_from"`
	To   string `json:"redirect_to"`
}

// ArchiveEntry is one glossary row in an archive.
type ArchiveEntry struct {
	Entry      string      `json:"entry"`
	EntryLower string      `json:"entry_lower"`
	Definition string      `json:"definition"`
	Author     string      `json:"author"`
	Channel    *string     `json:"channel"`
	Timestamp  UnixSeconds `json:"timestamp"`
}

// UnixSeconds is a timestamp encoded as a string of seconds since the epoch.
// Numeric values are accepted on decode.
type UnixSeconds int64

func (u UnixSeconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(u), 10))
}

func (u *UnixSeconds) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(data, `"`)
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return glossaryerr.Wrapf(err, glossaryerr.CodeStoreArchiveInvalid, "timestamp %s", data)
	}
	*u = UnixSeconds(n)
	return nil
}

func (u UnixSeconds) Time() time.Time {
	return time.Unix(int64(u), 0).UTC()
}

// Dump writes every record, grouped by term in history order, followed by
// every redirect.
func (s *EntryStore) Dump(ctx context.Context, w io.Writer) error {
	q := `SELECT ` + entryColumns + ` FROM glossary ORDER BY entry_lower, timestamp, entryid`

	var rows []entryRow
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "reading entries for dump")
	}

	archive := Archive{Entries: make([]ArchiveEntry, 0, len(rows))}
	for _, row := range rows {
		entry := ArchiveEntry{
			Entry:      row.Entry,
			EntryLower: row.EntryLower,
			Definition: row.Definition,
			Author:     row.Author,
			Timestamp:  UnixSeconds(parseTime(row.Timestamp).Unix()),
		}
		if row.Channel.Valid {
			channel := row.Channel.String
			entry.Channel = &channel
		}
		archive.Entries = append(archive.Entries, entry)
	}

	redirects, err := s.listRedirects(ctx, s.db)
	if err != nil {
		return err
	}
	archive.Redirects = make([]ArchiveRedirect, 0, len(redirects))
	for _, r := range redirects {
		archive.Redirects = append(archive.Redirects, ArchiveRedirect{From: r.From, To: r.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "encoding archive")
	}
	return nil
}

// Load inserts the archive's records that are not already present and
// returns how many were written. A record is present when its term (folded),
// definition and timestamp (to the second) match an existing row. Redirects
// in the archive replace existing redirects from the same term.
func (s *EntryStore) Load(ctx context.Context, r io.Reader) (int, error) {
	var archive Archive
	if err := json.NewDecoder(r).Decode(&archive); err != nil {
		return 0, glossaryerr.Wrapf(err, glossaryerr.CodeStoreArchiveInvalid, "decoding archive")
	}

	for i, entry := range archive.Entries {
		if store.NormalizeTerm(entry.Entry) == "" || entry.Definition == "" {
			return 0, glossaryerr.New(glossaryerr.CodeStoreArchiveInvalid, "archive entry missing term or definition",
				glossaryerr.Field("index", i))
		}
	}
	for i, r := range archive.Redirects {
		if store.FoldTerm(r.From) == "" || store.FoldTerm(r.To) == "" {
			return 0, glossaryerr.New(glossaryerr.CodeStoreArchiveInvalid, "archive redirect missing source or target",
				glossaryerr.Field("index", i))
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "beginning load")
	}
	defer func() { _ = tx.Rollback() }()

	existing := make(map[string][]entryRow)
	inserted := 0
	for _, entry := range archive.Entries {
		key := store.FoldTerm(entry.Entry)
		rows, ok := existing[key]
		if !ok {
			rows, err = selectHistory(ctx, tx, key)
			if err != nil {
				return 0, err
			}
		}

		if archived(rows, entry) {
			existing[key] = rows
			continue
		}

		newEntry := store.NewEntry{
			Term:       entry.Entry,
			Definition: entry.Definition,
			Author:     entry.Author,
			CreatedAt:  entry.Timestamp.Time(),
		}
		if newEntry.Author == "" {
			newEntry.Author = "unknown"
		}
		if entry.Channel != nil {
			newEntry.Channel = *entry.Channel
		}
		if _, err := insertEntry(ctx, tx, newEntry, s.now()); err != nil {
			return 0, err
		}
		inserted++

		existing[key] = append(rows, entryRow{
			Entry:      store.NormalizeTerm(entry.Entry),
			Definition: entry.Definition,
			Timestamp:  formatTime(newEntry.CreatedAt),
		})
	}

	for _, r := range archive.Redirects {
		if err := upsertRedirect(ctx, tx, store.FoldTerm(r.From), store.FoldTerm(r.To)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "committing load")
	}
	s.cache.Invalidate()
	metrics.EntriesWrittenTotal.WithLabelValues(metrics.SourceArchive).Add(float64(inserted))

	slog.Info("glossary archive loaded",
		"entries", len(archive.Entries),
		"inserted", inserted,
		"redirects", len(archive.Redirects),
	)
	return inserted, nil
}

func archived(rows []entryRow, entry ArchiveEntry) bool {
	key := store.FoldTerm(entry.Entry)
	for _, row := range rows {
		if store.FoldTerm(row.Entry) == key &&
			row.Definition == entry.Definition &&
			parseTime(row.Timestamp).Unix() == int64(entry.Timestamp) {
			return true
		}
	}
	return false
}
