/*
Package sqlite provides a SQLite-backed implementation of the cumulative
timesheet store.

PURPOSE:
  An alternative to the CSV snapshot for installations that want the
  cumulative dataset queryable in place. Implements the same
  load -> merge -> snapshot contract; the database is an artifact of one
  writer, not a concurrently-mutated system of record.

SNAPSHOT SEMANTICS:
  Snapshot() replaces the whole table inside a single transaction: either
  the complete new snapshot commits or the previous one survives. This is
  the same no-partial-corruption boundary the CSV store gets from its
  staged rename.

POSITION ORDER:
  Rows carry an explicit position column. Merge semantics promise that
  previously-stored rows keep their relative order across runs; SELECT ...
  ORDER BY pos reproduces it exactly.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so the read-only API
  surface can read while a run writes.

USAGE:
  store, err := sqlite.New("./data/cumulative.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  result, err := timesheet.MergeInto(ctx, store, delta)

SEE ALSO:
  - timesheet/store.go: interface definition
  - store/csvfile:      file-based default
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/timesheet"
)

// Store implements timesheet.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS timesheet_records (
		pos INTEGER PRIMARY KEY,
		employee TEXT NOT NULL,
		team TEXT,
		job_title TEXT,
		blip_type TEXT NOT NULL,
		clock_in_date TEXT NOT NULL,
		clock_in_time TEXT,
		clock_in TEXT NOT NULL,
		clock_out TEXT,
		duration_text TEXT,
		worked_text TEXT,
		duration_hours TEXT,
		worked_hours TEXT,
		break_hours TEXT NOT NULL
	);

	-- The merge's dedup invariant, enforced at the storage layer too.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_identity
		ON timesheet_records(employee, clock_in_date, clock_in_time, blip_type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns every stored record in position order.
func (s *Store) Load(ctx context.Context) ([]timesheet.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee, team, job_title, blip_type,
		       clock_in_date, clock_in_time, clock_in, clock_out,
		       duration_text, worked_text,
		       duration_hours, worked_hours, break_hours
		FROM timesheet_records ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var out []timesheet.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Snapshot replaces the whole table transactionally.
func (s *Store) Snapshot(ctx context.Context, records []timesheet.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timesheet_records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timesheet_records (
			pos, employee, team, job_title, blip_type,
			clock_in_date, clock_in_time, clock_in, clock_out,
			duration_text, worked_text,
			duration_hours, worked_hours, break_hours
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, r := range records {
		var clockOut interface{}
		if r.ClockOut != nil {
			clockOut = r.ClockOut.UTC().Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			pos, r.Employee, r.Team, r.JobTitle, string(r.BlipType),
			r.ClockInDate.String(), r.ClockInTime,
			r.ClockIn.UTC().Format(time.RFC3339), clockOut,
			r.DurationText, r.WorkedText,
			hoursOrNil(r.DurationHours), hoursOrNil(r.WorkedHours),
			r.BreakHours.String(),
		)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", pos, err)
		}
	}

	return tx.Commit()
}

var _ timesheet.Store = (*Store)(nil)

func hoursOrNil(v *decimal.Decimal) interface{} {
	if v == nil {
		return nil
	}
	return v.String()
}

func scanRecord(rows *sql.Rows) (timesheet.Record, error) {
	var r timesheet.Record
	var team, jobTitle, inTime, clockOut, durText, workText, durHours, workHours sql.NullString
	var blipType, inDate, clockIn, breakHours string

	err := rows.Scan(&r.Employee, &team, &jobTitle, &blipType,
		&inDate, &inTime, &clockIn, &clockOut,
		&durText, &workText, &durHours, &workHours, &breakHours)
	if err != nil {
		return r, fmt.Errorf("scan record: %w", err)
	}

	r.Team = team.String
	r.JobTitle = jobTitle.String
	r.BlipType = timesheet.BlipType(blipType)
	r.ClockInTime = inTime.String
	r.DurationText = durText.String
	r.WorkedText = workText.String

	if d, ok := ingest.ParseDay(inDate, ingest.OrderDayFirst); ok {
		r.ClockInDate = d
	}
	if t, err := time.Parse(time.RFC3339, clockIn); err == nil {
		r.ClockIn = t.UTC()
	}
	if clockOut.Valid {
		if t, err := time.Parse(time.RFC3339, clockOut.String); err == nil {
			u := t.UTC()
			r.ClockOut = &u
		}
	}

	r.DurationHours = parseHours(durHours)
	r.WorkedHours = parseHours(workHours)
	if b, err := decimal.NewFromString(breakHours); err == nil {
		r.BreakHours = b
	}
	return r, nil
}

func parseHours(v sql.NullString) *decimal.Decimal {
	if !v.Valid || v.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil
	}
	return &d
}
