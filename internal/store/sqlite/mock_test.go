// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sigil-dev/glossary/internal/store"
	"github.com/sigil-dev/glossary/internal/store/sqlite"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk I/O error")

func expectMigrate(mock sqlmock.Sqlmock) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS glossary").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM pragma_table_info\\(\\?\\) WHERE name = \\?").
		WithArgs("glossary", "id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS ux_glossary_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT entryid FROM glossary WHERE id IS NULL").
		WillReturnRows(sqlmock.NewRows([]string{"entryid"}))
}

func newMockStore(t *testing.T) (*sqlite.EntryStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	expectMigrate(mock)
	s, err := sqlite.NewEntryStoreWithDB(sqlx.NewDb(db, "sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s, mock
}

func TestEntryStore_MigrateFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS glossary").WillReturnError(errDisk)

	_, err = sqlite.NewEntryStoreWithDB(sqlx.NewDb(db, "sqlite3"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errDisk)
	assert.True(t, glossaryerr.HasCode(err, glossaryerr.CodeStoreDatabaseFailure))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryStore_QueryFailuresPropagate(t *testing.T) {
	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		call   func(s *sqlite.EntryStore) error
	}{
		{
			name: "get entry",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT entryid, id, entry").WithArgs("fish").WillReturnError(errDisk)
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.GetEntry(context.Background(), "Fish")
				return err
			},
		},
		{
			name: "get entry version",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT entryid, id, entry").WithArgs("fish").WillReturnError(errDisk)
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.GetEntryVersion(context.Background(), "fish", 1)
				return err
			},
		},
		{
			name: "list terms",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("ROW_NUMBER\\(\\) OVER").WillReturnError(errDisk)
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.ListTerms(context.Background())
				return err
			},
		},
		{
			name: "random term",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("ROW_NUMBER\\(\\) OVER").WillReturnError(errDisk)
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.RandomTerm(context.Background())
				return err
			},
		},
		{
			name: "find by definition",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("instr\\(lower\\(definition\\), lower\\(\\?\\)\\)").WithArgs("water").WillReturnError(errDisk)
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.FindTermsByDefinition(context.Background(), "water")
				return err
			},
		},
		{
			name: "add entry",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT redirect_from, redirect_to FROM glossary_redirects").
					WithArgs("fish").
					WillReturnRows(sqlmock.NewRows([]string{"redirect_from", "redirect_to"}))
				mock.ExpectExec("INSERT INTO glossary").WillReturnError(errDisk)
				mock.ExpectRollback()
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.AddEntry(context.Background(), store.NewEntry{Term: "fish", Definition: "swims", Author: "alice"})
				return err
			},
		},
		{
			name: "add entry redirect check",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT redirect_from, redirect_to FROM glossary_redirects").
					WithArgs("fish").
					WillReturnError(errDisk)
				mock.ExpectRollback()
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.AddEntry(context.Background(), store.NewEntry{Term: "fish", Definition: "swims", Author: "alice"})
				return err
			},
		},
		{
			name: "get redirect",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT redirect_from, redirect_to FROM glossary_redirects").
					WithArgs("trout").
					WillReturnError(errDisk)
			},
			call: func(s *sqlite.EntryStore) error {
				_, err := s.GetRedirect(context.Background(), "Trout")
				return err
			},
		},
		{
			name: "add redirect",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT redirect_from, redirect_to FROM glossary_redirects").
					WithArgs("fish").
					WillReturnRows(sqlmock.NewRows([]string{"redirect_from", "redirect_to"}))
				mock.ExpectQuery("SELECT redirect_from FROM glossary_redirects WHERE redirect_to").
					WithArgs("trout").
					WillReturnRows(sqlmock.NewRows([]string{"redirect_from"}))
				mock.ExpectExec("INSERT INTO glossary_redirects").WithArgs("trout", "fish").WillReturnError(errDisk)
				mock.ExpectRollback()
			},
			call: func(s *sqlite.EntryStore) error {
				return s.AddRedirect(context.Background(), "trout", "fish")
			},
		},
		{
			name: "remove redirect",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM glossary_redirects").WithArgs("trout").WillReturnError(errDisk)
			},
			call: func(s *sqlite.EntryStore) error {
				return s.RemoveRedirect(context.Background(), "trout")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.expect(mock)

			err := tt.call(s)
			require.Error(t, err)
			assert.ErrorIs(t, err, errDisk)
			assert.True(t, glossaryerr.HasCode(err, glossaryerr.CodeStoreDatabaseFailure))
			assert.False(t, glossaryerr.IsNotFound(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
