package schema

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func columns(t *testing.T, db *sql.DB) map[string]bool {
	t.Helper()

	rows, err := db.Query("SELECT name FROM pragma_table_info('period')")
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return cols
}

func TestEnsure_CreatesTable(t *testing.T) {
	db := openDB(t)

	if err := Ensure(db); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	cols := columns(t, db)
	for _, name := range []string{"time_start", "time_end", "hours", "minutes", "seconds", "comment", "pause_time"} {
		if !cols[name] {
			t.Errorf("missing column %q", name)
		}
	}
}

func TestEnsure_Idempotent(t *testing.T) {
	db := openDB(t)

	for i := 0; i < 3; i++ {
		if err := Ensure(db); err != nil {
			t.Fatalf("ensure #%d: %v", i, err)
		}
	}
}

func TestEnsure_AddsPauseTimeToLegacyTable(t *testing.T) {
	db := openDB(t)

	_, err := db.Exec(`
	CREATE TABLE period (
		time_start FLOAT PRIMARY KEY,
		time_end FLOAT,
		hours INT,
		minutes INT,
		seconds INT,
		comment VARCHAR(127)
	)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO period(time_start, comment) VALUES (100, 'old')"); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	if err := Ensure(db); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	var pause float64
	if err := db.QueryRow("SELECT pause_time FROM period WHERE time_start = 100").Scan(&pause); err != nil {
		t.Fatalf("select pause_time: %v", err)
	}
	if pause != 0 {
		t.Errorf("expected legacy row pause_time 0, got %v", pause)
	}
}
