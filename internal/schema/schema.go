// Package schema prepares the SQLite database that backs the period store.
package schema

import (
	"database/sql"
	"fmt"
)

const periodTable = `
CREATE TABLE IF NOT EXISTS period (
	time_start FLOAT PRIMARY KEY,
	time_end FLOAT,
	hours INT,
	minutes INT,
	seconds INT,
	comment VARCHAR(127),
	pause_time FLOAT DEFAULT 0 NOT NULL
)
`

// Ensure creates the period table when it is missing and adds the
// pause_time column to tables created before it existed. It is safe to
// call on every start.
func Ensure(db *sql.DB) error {
	if _, err := db.Exec(periodTable); err != nil {
		return fmt.Errorf("create period table: %w", err)
	}

	ok, err := hasColumn(db, "period", "pause_time")
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if _, err := db.Exec(`ALTER TABLE period ADD COLUMN pause_time FLOAT DEFAULT 0 NOT NULL`); err != nil {
		return fmt.Errorf("add pause_time column: %w", err)
	}
	return nil
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?",
		table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect %s columns: %w", table, err)
	}
	return n > 0, nil
}
