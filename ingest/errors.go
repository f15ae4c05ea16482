/*
errors.go - Centralized error types for the ingestion core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Feed packages (absence, timesheet) wrap these with additional context.

ERROR CATEGORIES:
  1. Row-level errors - A single cell/row could not be normalized.
     Recovered locally: the row is excluded or flagged, the run continues,
     and the error is collected into the run report.
  2. Structural errors - The file itself is unusable (missing required
     columns, unreadable source). Fatal for that feed's run only.

USAGE:
  Row-level errors carry the offending text and the source row number so a
  report can point at the exact bad cell:

    var perr *ingest.DateParseError
    if errors.As(err, &perr) {
        report.AddRowError(perr)
    }

SEE ALSO:
  - report.go: Run-level aggregation of row errors
  - dates.go: Produces DateParseError
*/
package ingest

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingColumn is returned when a required column is absent from a
	// raw export. Fatal for the affected feed; the other feed still runs.
	ErrMissingColumn = errors.New("required column missing")

	// ErrEmptyInput is returned when a raw export contains a header but no
	// data rows. Fatal for the affected feed.
	ErrEmptyInput = errors.New("input contains no data rows")

	// ErrUnsupportedFormat is returned for input files that are neither CSV
	// nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrRunNotCompleted is returned by read surfaces when no ingestion run
	// has completed yet.
	ErrRunNotCompleted = errors.New("no completed ingestion run")
)

// =============================================================================
// ROW-LEVEL ERRORS - Collected, never fatal
// =============================================================================

// DateParseError reports a single date value that resolved under neither the
// month-first nor the day-first interpretation.
type DateParseError struct {
	Column string // source column name
	Row    int    // 1-based data row number (header excluded)
	Text   string // original cell text
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparseable date %q in column %q (row %d)", e.Text, e.Column, e.Row)
}

// DurationParseError reports a duration text value that matched none of the
// accepted shapes. The caller must treat the value as unknown, not zero.
type DurationParseError struct {
	Text string
}

func (e *DurationParseError) Error() string {
	return fmt.Sprintf("unparseable duration %q", e.Text)
}

// =============================================================================
// STRUCTURAL ERRORS - Fatal for the affected feed
// =============================================================================

// SchemaError reports required columns missing from a raw export.
type SchemaError struct {
	Feed    string   // "absence" or "timesheet"
	Missing []string // column names not found in the header
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s feed: missing required columns %v", e.Feed, e.Missing)
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumn }
