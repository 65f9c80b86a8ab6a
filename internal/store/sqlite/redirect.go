// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/sigil-dev/glossary/internal/store"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

type redirectRow struct {
	From string `db:"redirect_from"`
	To   string `db:"redirect_to"`
}

func (s *EntryStore) AddRedirect(ctx context.Context, from, to string) error {
	from, to = store.FoldTerm(from), store.FoldTerm(to)
	if from == "" || to == "" {
		return glossaryerr.New(glossaryerr.CodeStoreRedirectInvalid, "redirect needs a source and a target")
	}
	if from == to {
		return glossaryerr.New(glossaryerr.CodeStoreRedirectInvalid, "a term cannot redirect to itself",
			glossaryerr.FieldTerm(from))
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "beginning redirect")
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := selectRedirect(ctx, tx, to)
	switch {
	case err == nil:
		return store.RedirectTargetRedirected(to, existing.To)
	case !glossaryerr.IsNotFound(err):
		return err
	}

	var source string
	err = sqlx.GetContext(ctx, tx, &source,
		`SELECT redirect_from FROM glossary_redirects WHERE redirect_to = ? ORDER BY redirectid LIMIT 1`, from)
	switch {
	case err == nil:
		return store.RedirectSourceTargeted(from, source)
	case !errors.Is(err, sql.ErrNoRows):
		return glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "checking redirect targets",
			glossaryerr.FieldTerm(from))
	}

	if err := upsertRedirect(ctx, tx, from, to); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return glossaryerr.Wrapf(err, glossaryerr.CodeStoreDatabaseFailure, "committing redirect")
	}

	slog.Info("glossary redirect added", "from", from, "to", to)
	return nil
}

func upsertRedirect(ctx context.Context, db sqlx.ExecerContext, from, to string) error {
	const q = `INSERT INTO glossary_redirects (redirect_from, redirect_to) VALUES (?, ?)
ON CONFLICT(redirect_from) DO UPDATE SET redirect_to = excluded.redirect_to`

	if _, err := db.ExecContext(ctx, q, from, to); err != nil {
		return glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "writing redirect",
			glossaryerr.FieldTerm(from))
	}
	return nil
}

func (s *EntryStore) RemoveRedirect(ctx context.Context, term string) error {
	from := store.FoldTerm(term)
	res, err := s.db.ExecContext(ctx, `DELETE FROM glossary_redirects WHERE redirect_from = ?`, from)
	if err != nil {
		return glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "deleting redirect",
			glossaryerr.FieldTerm(from))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "deleting redirect",
			glossaryerr.FieldTerm(from))
	}
	if n == 0 {
		return store.RedirectNotFound(from)
	}

	slog.Info("glossary redirect removed", "from", from)
	return nil
}

func (s *EntryStore) GetRedirect(ctx context.Context, term string) (*store.Redirect, error) {
	return selectRedirect(ctx, s.db, store.FoldTerm(term))
}

func selectRedirect(ctx context.Context, db sqlx.QueryerContext, from string) (*store.Redirect, error) {
	var row redirectRow
	err := sqlx.GetContext(ctx, db, &row,
		`SELECT redirect_from, redirect_to FROM glossary_redirects WHERE redirect_from = ?`, from)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.RedirectNotFound(from)
	}
	if err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "querying redirect",
			glossaryerr.FieldTerm(from))
	}
	return &store.Redirect{From: row.From, To: row.To}, nil
}

func (s *EntryStore) listRedirects(ctx context.Context, db sqlx.QueryerContext) ([]redirectRow, error) {
	var rows []redirectRow
	if err := sqlx.SelectContext(ctx, db, &rows,
		`SELECT redirect_from, redirect_to FROM glossary_redirects ORDER BY redirect_from`); err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeStoreDatabaseFailure, "listing redirects")
	}
	return rows, nil
}
