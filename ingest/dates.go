/*
dates.go - Ambiguous-locale date resolution

PURPOSE:
  Raw exports arrive with no format contract: some files write 3 February
  as "2/3/2024" (month-first), others as "3/2/2024" (day-first). A single
  cell cannot disambiguate itself, so resolution is COLUMN-WIDE, never
  per-cell: one file uses one convention throughout.

ALGORITHM (two-pass):
  Pass 1: interpret every value month-first. Values that fail month-first
          but succeed day-first (day-of-month > 12 in the day slot) are
          evidence the file is day-first.
  Pass 2: if any value produced day-first evidence, the WHOLE column is
          re-interpreted day-first. Otherwise the month-first reading stands.

  A column where every day-of-month is <= 12 is inherently ambiguous; it
  stays on one consistent interpretation (month-first) rather than mixing.

  ISO dates (yyyy-mm-dd) are unambiguous and accepted in either pass.

KNOWN LIMITATION:
  A single file concatenated from a day-first source and a month-first
  source cannot be disambiguated. One format per file is an input contract,
  not something this parser can repair.

FAILURES:
  Values parseable under neither interpretation yield a DateParseError
  carrying the original text and row number. Failures are collected by the
  caller; they never abort a run.

SEE ALSO:
  - errors.go: DateParseError
  - absence/normalize.go: Resolves start/end columns before expansion
*/
package ingest

import (
	"strings"
	"time"
)

// =============================================================================
// DATE ORDER - The column-wide interpretation decision
// =============================================================================

type DateOrder int

const (
	// OrderMonthFirst interprets 2/3/2024 as February 3rd.
	OrderMonthFirst DateOrder = iota
	// OrderDayFirst interprets 2/3/2024 as March 2nd.
	OrderDayFirst
)

func (o DateOrder) String() string {
	if o == OrderDayFirst {
		return "day-first"
	}
	return "month-first"
}

const isoLayout = "2006-01-02"

var slashLayouts = map[DateOrder][]string{
	OrderMonthFirst: {"1/2/2006", "1/2/06"},
	OrderDayFirst:   {"2/1/2006", "2/1/06"},
}

// =============================================================================
// COLUMN RESOLUTION
// =============================================================================

// ColumnDates is the result of resolving one date column.
type ColumnDates struct {
	Column string
	Order  DateOrder
	// Days has one entry per input value. Entries for blank or unparseable
	// values are zero; consult Errors (or Day.IsZero) before use.
	Days   []Day
	Errors []*DateParseError
}

// ResolveColumn resolves a whole column of raw date text under one consistent
// interpretation. Row numbers in errors are 1-based over the input slice.
func ResolveColumn(column string, values []string) ColumnDates {
	return ResolveColumnWithOrder(column, values, DetectOrder(values))
}

// ResolveColumnWithOrder resolves a column under an already-decided order.
// Used when several date columns of the same file must share one
// interpretation (a file has one convention, not one per column).
func ResolveColumnWithOrder(column string, values []string, order DateOrder) ColumnDates {
	out := ColumnDates{Column: column, Order: order, Days: make([]Day, len(values))}
	for i, v := range values {
		d, ok := parseOne(v, order)
		if !ok {
			out.Errors = append(out.Errors, &DateParseError{Column: column, Row: i + 1, Text: strings.TrimSpace(v)})
			continue
		}
		out.Days[i] = d
	}
	return out
}

// ParseDay parses a single value under an already-decided order. Used for
// columns whose order was resolved elsewhere in the same file.
func ParseDay(value string, order DateOrder) (Day, bool) {
	return parseOne(value, order)
}

// DetectOrder runs the evidence pass: any value that only parses day-first
// flips the entire column.
func DetectOrder(values []string) DateOrder {
	for _, v := range values {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		if _, ok := parseOne(s, OrderMonthFirst); ok {
			continue
		}
		if _, ok := parseOne(s, OrderDayFirst); ok {
			return OrderDayFirst
		}
	}
	return OrderMonthFirst
}

func parseOne(value string, order DateOrder) (Day, bool) {
	s := strings.TrimSpace(value)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return Day{}, false
	}

	// Unambiguous ISO form first.
	if t, err := time.Parse(isoLayout, s); err == nil {
		return DayOf(t), true
	}

	// Exports occasionally use dashes or dots as separators.
	s = strings.NewReplacer("-", "/", ".", "/").Replace(s)

	for _, layout := range slashLayouts[order] {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), true
		}
	}
	return Day{}, false
}
