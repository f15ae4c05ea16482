/*
Package csvfile provides the CSV-snapshot implementation of the cumulative
timesheet store.

PURPOSE:
  The operational default: the cumulative dataset lives in one CSV file
  that the downstream dashboard loads directly. Every run reads the whole
  file, merges in memory, and writes the whole file back via a staged
  rename, so the artifact is always a complete snapshot.

COLUMNS:
  Mirror the raw export's column semantics (employee split kept as one
  field, clock dates in ISO) plus the parsed hour columns downstream
  reporting consumes. Blank hour cells mean UNKNOWN, not zero.

SEE ALSO:
  - timesheet/store.go: the Store contract
  - store/sqlite:       database-backed alternative
*/
package csvfile

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/tabular"
	"github.com/warp/ingest-engine/timesheet"
)

// Snapshot column order.
var header = []string{
	"Employee", "Team(s)", "Job Title", "Blip Type",
	"Clock In Date", "Clock In Time", "Clock Out Date", "Clock Out Time",
	"Total Duration", "Total Excluding Breaks",
	"Duration Hours", "Worked Hours", "Break Hours",
}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot file. A missing file is an empty store (first
// run), not an error.
func (s *Store) Load(_ context.Context) ([]timesheet.Record, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}
	t, err := tabular.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("load cumulative store: %w", err)
	}

	rows := make([]timesheet.Record, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		rows = append(rows, decodeRow(t, i))
	}
	return rows, nil
}

// Snapshot writes the complete dataset, replacing the previous file.
func (s *Store) Snapshot(_ context.Context, rows []timesheet.Record) error {
	t := &tabular.Table{Header: header, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, encodeRow(r))
	}
	if err := tabular.WriteCSV(s.path, t); err != nil {
		return fmt.Errorf("snapshot cumulative store: %w", err)
	}
	return nil
}

var _ timesheet.Store = (*Store)(nil)

// =============================================================================
// ROW CODEC
// =============================================================================

func encodeRow(r timesheet.Record) []string {
	outDate, outTime := "", ""
	if r.ClockOut != nil {
		outDate = r.ClockOut.Format("2006-01-02")
		outTime = r.ClockOut.Format("15:04:05")
	}
	return []string{
		r.Employee, r.Team, r.JobTitle, string(r.BlipType),
		r.ClockInDate.String(), r.ClockInTime, outDate, outTime,
		r.DurationText, r.WorkedText,
		encodeHours(r.DurationHours), encodeHours(r.WorkedHours),
		r.BreakHours.String(),
	}
}

func decodeRow(t *tabular.Table, i int) timesheet.Record {
	r := timesheet.Record{
		Employee:     t.Get(i, "Employee"),
		Team:         t.Get(i, "Team(s)"),
		JobTitle:     t.Get(i, "Job Title"),
		BlipType:     timesheet.BlipType(t.Get(i, "Blip Type")),
		ClockInTime:  t.Get(i, "Clock In Time"),
		DurationText: t.Get(i, "Total Duration"),
		WorkedText:   t.Get(i, "Total Excluding Breaks"),
	}

	if d, ok := ingest.ParseDay(t.Get(i, "Clock In Date"), ingest.OrderDayFirst); ok {
		r.ClockInDate = d
		r.ClockIn = combine(d.Time, r.ClockInTime)
	}
	if outDate, ok := ingest.ParseDay(t.Get(i, "Clock Out Date"), ingest.OrderDayFirst); ok {
		out := combine(outDate.Time, t.Get(i, "Clock Out Time"))
		r.ClockOut = &out
	}

	r.DurationHours = decodeHours(t.Get(i, "Duration Hours"))
	r.WorkedHours = decodeHours(t.Get(i, "Worked Hours"))
	if b, err := decimal.NewFromString(t.Get(i, "Break Hours")); err == nil {
		r.BreakHours = b
	}
	return r
}

func encodeHours(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func decodeHours(s string) *decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &v
}

func combine(day time.Time, timeText string) time.Time {
	if tm, err := time.Parse("15:04:05", timeText); err == nil {
		return day.Add(time.Duration(tm.Hour())*time.Hour +
			time.Duration(tm.Minute())*time.Minute +
			time.Duration(tm.Second())*time.Second)
	}
	if tm, err := time.Parse("15:04", timeText); err == nil {
		return day.Add(time.Duration(tm.Hour())*time.Hour + time.Duration(tm.Minute())*time.Minute)
	}
	return day
}
