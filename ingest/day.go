package ingest

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar-day abstraction (feeds are day-granular)
// =============================================================================

// Day is a calendar date with no time-of-day component. All Days are UTC
// midnight internally so comparison and arithmetic are exact.
type Day struct {
	Time time.Time
}

func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d Day) Before(other Day) bool        { return d.Time.Before(other.Time) }
func (d Day) After(other Day) bool         { return d.Time.After(other.Time) }
func (d Day) Equal(other Day) bool         { return d.Time.Equal(other.Time) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.After(other) }
func (d Day) IsZero() bool                 { return d.Time.IsZero() }

// Arithmetic
func (d Day) AddDays(n int) Day { return DayOf(d.Time.AddDate(0, 0, n)) }

// DaysUntil returns the number of calendar days from d to other.
// Negative when other is before d.
func (d Day) DaysUntil(other Day) int {
	return int(other.Time.Sub(d.Time) / (24 * time.Hour))
}

// Properties
func (d Day) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Day) IsWeekday() bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WeekStart returns the Monday of d's week.
func (d Day) WeekStart() Day {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// ISOWeek returns the ISO week label of d's week, e.g. "2024-W03".
func (d Day) ISOWeek() string {
	year, week := d.Time.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// String formats as ISO yyyy-mm-dd, the canonical output representation.
func (d Day) String() string { return d.Time.Format("2006-01-02") }

// FormatUK formats as dd/mm/yyyy, matching the source exports.
func (d Day) FormatUK() string { return d.Time.Format("02/01/2006") }
