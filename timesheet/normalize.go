/*
normalize.go - Raw timesheet table -> normalized records

PURPOSE:
  Turns one week's raw biometric export into []Record. The biometric tool
  exports day-first dates by contract (it is locale-fixed, unlike the
  absence export), so date resolution runs with a pinned day-first order.

ANOMALY FIXES (in normalization, so the store only ever sees sane rows):
  - Clock-out at or before clock-in: treated as an overnight shift, the
    clock-out moves to the next day.
  - Negative or missing duration with a usable clock span: duration is
    recomputed from the span; worked hours assume a 30-minute break for
    spans of an hour or more.
  - Worked exceeding duration: break clamps to zero, the row is kept.

ROW POLICY:
  - A row without a parseable clock-in date cannot be identified and is
    excluded (reported with its row number).
  - A row whose duration text fails to parse is KEPT with unknown hours,
    and reported. Unknown, not zero.
*/
package timesheet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/tabular"
)

// =============================================================================
// SOURCE COLUMNS
// =============================================================================

const (
	ColFirstName = "First Name"
	ColLastName  = "Last Name"
	ColTeam      = "Team(s)"
	ColJobTitle  = "Job Title"
	ColBlipType  = "Blip Type"
	ColInDate    = "Clock In Date"
	ColInTime    = "Clock In Time"
	ColOutDate   = "Clock Out Date"
	ColOutTime   = "Clock Out Time"
	ColDuration  = "Total Duration"
	ColWorked    = "Total Excluding Breaks"
)

// RequiredColumns must all be present or the feed run fails.
var RequiredColumns = []string{
	ColFirstName, ColLastName, ColBlipType, ColInDate, ColInTime,
}

// HeaderProbes identify the real header row beneath an export banner.
var HeaderProbes = []string{ColFirstName, ColInDate}

const halfHour = 0.5

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalize converts a raw timesheet table into records, recording row-level
// failures in report. Returns a SchemaError when required columns are
// missing.
func Normalize(t *tabular.Table, report *ingest.FeedReport) ([]Record, error) {
	if missing := t.MissingColumns(RequiredColumns...); len(missing) > 0 {
		return nil, &ingest.SchemaError{Feed: "timesheet", Missing: missing}
	}

	report.RowsRead = t.Len()

	inDates := ingest.ResolveColumnWithOrder(ColInDate, t.Column(ColInDate), ingest.OrderDayFirst)
	for _, e := range inDates.Errors {
		report.AddRowError(e)
	}

	records := make([]Record, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if inDates.Days[i].IsZero() {
			continue // reported above; an event without a date has no identity
		}
		records = append(records, buildRecord(t, i, inDates.Days[i], report))
	}

	report.RowsNormalized = len(records)
	return records, nil
}

func buildRecord(t *tabular.Table, i int, inDate ingest.Day, report *ingest.FeedReport) Record {
	r := Record{
		Employee:     strings.TrimSpace(t.Get(i, ColFirstName) + " " + t.Get(i, ColLastName)),
		Team:         t.Get(i, ColTeam),
		JobTitle:     t.Get(i, ColJobTitle),
		BlipType:     normalizeBlipType(t.Get(i, ColBlipType)),
		ClockInDate:  inDate,
		ClockInTime:  t.Get(i, ColInTime),
		DurationText: t.Get(i, ColDuration),
		WorkedText:   t.Get(i, ColWorked),
	}

	r.ClockIn = combineDateTime(inDate, r.ClockInTime)
	if out, ok := resolveClockOut(t.Get(i, ColOutDate), t.Get(i, ColOutTime), r.ClockIn); ok {
		r.ClockOut = &out
	}

	parseHours(&r, report)
	fixAnomalies(&r)

	if r.DurationHours != nil && r.WorkedHours != nil {
		r.BreakHours = BreakHours(*r.DurationHours, *r.WorkedHours)
	}
	return r
}

func parseHours(r *Record, report *ingest.FeedReport) {
	if r.DurationText != "" {
		if v, err := ParseDuration(r.DurationText); err == nil {
			r.DurationHours = &v
		} else {
			report.AddRowError(err)
		}
	}
	if r.WorkedText != "" {
		if v, err := ParseDuration(r.WorkedText); err == nil {
			r.WorkedHours = &v
		} else {
			report.AddRowError(err)
		}
	}
}

// fixAnomalies repairs rows the export tool is known to corrupt. A negative
// duration or worked figure is replaced by hours recomputed from the clock
// span; a shift of an hour or more assumes a 30-minute break.
func fixAnomalies(r *Record) {
	negative := (r.DurationHours != nil && r.DurationHours.IsNegative()) ||
		(r.WorkedHours != nil && r.WorkedHours.IsNegative())
	missing := r.DurationHours == nil && r.DurationText == ""
	if !negative && !missing {
		return
	}
	if r.ClockOut == nil {
		return // nothing to recompute from
	}

	span := decimal.NewFromFloat(r.ClockOut.Sub(r.ClockIn).Hours())
	worked := span
	if span.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		worked = span.Sub(decimal.NewFromFloat(halfHour))
		if worked.IsNegative() {
			worked = decimal.Zero
		}
	}
	r.DurationHours = &span
	r.WorkedHours = &worked
}

func normalizeBlipType(raw string) BlipType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "shift":
		return BlipShift
	case "break":
		return BlipBreak
	default:
		return BlipType(strings.TrimSpace(raw))
	}
}

// combineDateTime attaches an HH:MM[:SS] text to a day. Unparseable times
// degrade to midnight; the raw text is still carried on the record.
func combineDateTime(d ingest.Day, timeText string) time.Time {
	s := strings.TrimSpace(timeText)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if tm, err := time.Parse(layout, s); err == nil {
			return d.Time.Add(time.Duration(tm.Hour())*time.Hour +
				time.Duration(tm.Minute())*time.Minute +
				time.Duration(tm.Second())*time.Second)
		}
	}
	return d.Time
}

// resolveClockOut combines the clock-out columns and applies the overnight
// fix: a clock-out at or before the clock-in belongs to the next day.
func resolveClockOut(dateText, timeText string, clockIn time.Time) (time.Time, bool) {
	if strings.TrimSpace(timeText) == "" {
		return time.Time{}, false
	}
	day, ok := ingest.ParseDay(dateText, ingest.OrderDayFirst)
	if !ok {
		day = ingest.DayOf(clockIn)
	}
	out := combineDateTime(day, timeText)
	if !out.After(clockIn) {
		out = out.Add(24 * time.Hour)
	}
	return out, true
}
