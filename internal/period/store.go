// Package period stores tracked work periods in SQLite and keeps track of
// the one that is currently running.
package period

import (
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"unicode/utf8"

	"worktimer/internal/schema"

	_ "modernc.org/sqlite"
)

// MaxCommentLength is the width of the comment column.
const MaxCommentLength = 127

var (
	// ErrPeriodOpen is returned by StartExclusive when a period is already running.
	ErrPeriodOpen = errors.New("a period is already running")

	// ErrNoOpenPeriod is available to callers that want to report a missing
	// current period. The store itself treats that case as a no-op.
	ErrNoOpenPeriod = errors.New("no period is running")

	// ErrCommentTooLong is returned when a comment does not fit the column.
	ErrCommentTooLong = fmt.Errorf("comment longer than %d characters", MaxCommentLength)
)

// Store reads and writes the period table. Every mutating method runs in
// a single transaction.
type Store struct {
	db    *sql.DB
	clock Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock makes the store read the current time from c.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// NewStore opens the SQLite database at path, makes sure the period table
// exists and returns a store over it.
func NewStore(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := schema.Ensure(db); err != nil {
		db.Close()
		return nil, err
	}

	return NewStoreDB(db, opts...), nil
}

// NewStoreDB wraps an already provisioned database.
func NewStoreDB(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, clock: SystemClock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartNewPeriod inserts a new open period starting now. It does not check
// for an already running period; use StartExclusive for that.
func (s *Store) StartNewPeriod(comment string) error {
	if err := checkComment(comment); err != nil {
		return err
	}
	return s.inTx("start period", func(tx *sql.Tx) error {
		return insertPeriod(tx, Seconds(s.clock.Now()), comment)
	})
}

// StartExclusive is StartNewPeriod that fails with ErrPeriodOpen instead of
// opening a second running period.
func (s *Store) StartExclusive(comment string) error {
	if err := checkComment(comment); err != nil {
		return err
	}
	return s.inTx("start period", func(tx *sql.Tx) error {
		_, ok, err := currentKey(tx)
		if err != nil {
			return err
		}
		if ok {
			return ErrPeriodOpen
		}
		return insertPeriod(tx, Seconds(s.clock.Now()), comment)
	})
}

// CurrentPeriodKey returns the time_start of the running period. The
// boolean is false when nothing is running.
func (s *Store) CurrentPeriodKey() (float64, bool, error) {
	key, ok, err := currentKey(s.db)
	if err != nil {
		return 0, false, fmt.Errorf("find current period: %w", err)
	}
	return key, ok, nil
}

// StopCurrentPeriod closes the running period, stamping its end and worked
// duration. A non-empty comment replaces the stored one. Without a running
// period it does nothing.
func (s *Store) StopCurrentPeriod(comment string) error {
	return s.inTx("stop period", func(tx *sql.Tx) error {
		key, ok, err := currentKey(tx)
		if err != nil || !ok {
			return err
		}
		if err := checkComment(comment); err != nil {
			return err
		}

		var pause float64
		if err := tx.QueryRow(
			"SELECT pause_time FROM period WHERE time_start = ?", key,
		).Scan(&pause); err != nil {
			return err
		}

		end := Seconds(s.clock.Now())
		d := SplitSeconds(end - key - pause)

		if comment != "" {
			if _, err := tx.Exec(
				"UPDATE period SET comment = ? WHERE time_start = ?",
				comment, key,
			); err != nil {
				return err
			}
		}

		_, err = tx.Exec(
			`UPDATE period SET time_end = ?, hours = ?, minutes = ?, seconds = ?
			 WHERE time_start = ?`,
			end, d.Hours, d.Minutes, d.Seconds, key,
		)
		return err
	})
}

// AddPauseTime adds seconds to the running period's pause time. Without a
// running period it does nothing.
func (s *Store) AddPauseTime(seconds float64) error {
	return s.inTx("add pause time", func(tx *sql.Tx) error {
		key, ok, err := currentKey(tx)
		if err != nil || !ok {
			return err
		}
		_, err = tx.Exec(
			"UPDATE period SET pause_time = pause_time + ? WHERE time_start = ?",
			seconds, key,
		)
		return err
	})
}

// UpdateCurrentComment replaces the running period's comment. Without a
// running period it does nothing.
func (s *Store) UpdateCurrentComment(comment string) error {
	return s.inTx("update comment", func(tx *sql.Tx) error {
		key, ok, err := currentKey(tx)
		if err != nil || !ok {
			return err
		}
		if err := checkComment(comment); err != nil {
			return err
		}
		_, err = tx.Exec(
			"UPDATE period SET comment = ? WHERE time_start = ?",
			nullString(comment), key,
		)
		return err
	})
}

// CurrentStatistics returns the running period. The boolean is false when
// nothing is running.
func (s *Store) CurrentStatistics() (Period, bool, error) {
	row := s.db.QueryRow(selectPeriod + " WHERE time_end IS NULL ORDER BY time_start LIMIT 1")
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Period{}, false, nil
	}
	if err != nil {
		return Period{}, false, fmt.Errorf("read current period: %w", err)
	}
	return p, true, nil
}

// Periods yields every period with time_start >= from, oldest first. The
// query runs when iteration starts and the rows are released when it
// ends, so each call can be ranged over once.
func (s *Store) Periods(from float64) iter.Seq2[Period, error] {
	return func(yield func(Period, error) bool) {
		rows, err := s.db.Query(selectPeriod+" WHERE time_start >= ? ORDER BY time_start", from)
		if err != nil {
			yield(Period{}, fmt.Errorf("list periods: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPeriod(rows)
			if err != nil {
				yield(Period{}, fmt.Errorf("list periods: %w", err))
				return
			}
			if !yield(p, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Period{}, fmt.Errorf("list periods: %w", err))
		}
	}
}

// ListPeriods collects Periods(from) into a slice.
func (s *Store) ListPeriods(from float64) ([]Period, error) {
	var periods []Period
	for p, err := range s.Periods(from) {
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func (s *Store) inTx(op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

// currentKey picks the oldest open period, so repeated stops drain any
// extra open periods left by StartNewPeriod.
func currentKey(q queryer) (float64, bool, error) {
	var key float64
	err := q.QueryRow(
		"SELECT time_start FROM period WHERE time_end IS NULL ORDER BY time_start LIMIT 1",
	).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return key, true, nil
}

func insertPeriod(tx *sql.Tx, start float64, comment string) error {
	_, err := tx.Exec(
		"INSERT INTO period (time_start, comment) VALUES (?, ?)",
		start, nullString(comment),
	)
	return err
}

const selectPeriod = `SELECT time_start, time_end, hours, minutes, seconds, comment, pause_time FROM period`

type scanner interface {
	Scan(dest ...any) error
}

func scanPeriod(sc scanner) (Period, error) {
	var (
		p                    Period
		end                  sql.NullFloat64
		hours, minutes, secs sql.NullInt64
		comment              sql.NullString
	)
	if err := sc.Scan(&p.TimeStart, &end, &hours, &minutes, &secs, &comment, &p.PauseTime); err != nil {
		return Period{}, err
	}
	if end.Valid {
		v := end.Float64
		p.TimeEnd = &v
	}
	p.Hours = int(hours.Int64)
	p.Minutes = int(minutes.Int64)
	p.Seconds = int(secs.Int64)
	p.Comment = comment.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func checkComment(comment string) error {
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}
