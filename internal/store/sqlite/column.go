// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	identPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	literalPattern = regexp.MustCompile(`^('[^']*'|-?[0-9]+(\.[0-9]+)?)$`)
)

// addColumnIfMissing runs ALTER TABLE ADD COLUMN when table lacks column.
// Identifiers cannot be bound as parameters, so every token is checked
// against a conservative whitelist before being interpolated.
func addColumnIfMissing(db *sqlx.DB, table, column, columnDef string) error {
	if !identPattern.MatchString(table) {
		return fmt.Errorf("unsafe table name %q", table)
	}
	if !identPattern.MatchString(column) {
		return fmt.Errorf("unsafe column name %q", column)
	}
	tokens := strings.Fields(columnDef)
	if len(tokens) == 0 {
		return fmt.Errorf("empty column definition for %s.%s", table, column)
	}
	for _, tok := range tokens {
		if !identPattern.MatchString(tok) && !literalPattern.MatchString(tok) {
			return fmt.Errorf("unsafe token %q in column definition", tok)
		}
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column); err != nil {
		return fmt.Errorf("inspecting %s columns: %w", table, err)
	}
	if n > 0 {
		return nil
	}

	stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, strings.Join(tokens, " "))
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("adding column %s.%s: %w", table, column, err)
	}
	return nil
}
