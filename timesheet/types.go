/*
Package timesheet normalizes the biometric clock-in/out ("blip") feed and
maintains the cumulative, deduplicated record store across weekly drops.

PURPOSE:
  Each raw row is one clock EVENT: a shift or a break, with clock-in and
  (usually) clock-out timestamps plus the export tool's own duration text.
  Unlike the absence feed, weekly timesheet exports OVERLAP: the same event
  shows up in consecutive drops. The cumulative store absorbs each week's
  delta without ever duplicating an event and without mutating rows it
  already holds.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: one normalized clock event
  - Key: the identity tuple that recognizes the same event across exports
  - BlipType: shift vs break

DESIGN PRINCIPLES:
  1. Identity is content, not position: (employee, clock-in date, clock-in
     time, blip type) names an event regardless of which export carried it.
  2. Stored rows win: a re-submitted event never updates the stored one.
  3. Unknown is not zero: a duration that fails to parse stays unknown so
     utilisation is never silently understated.

SEE ALSO:
  - duration.go:  duration text -> fractional hours
  - normalize.go: raw table -> []Record, with anomaly fixes
  - merge.go:     delta merge against the cumulative store
  - store.go:     the load -> merge -> snapshot persistence contract
*/
package timesheet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/ingest-engine/ingest"
)

// =============================================================================
// BLIP TYPE
// =============================================================================

type BlipType string

const (
	BlipShift BlipType = "Shift"
	BlipBreak BlipType = "Break"
)

// =============================================================================
// RECORD - One normalized clock event
// =============================================================================

type Record struct {
	Employee string
	Team     string
	JobTitle string
	BlipType BlipType

	ClockInDate ingest.Day
	ClockInTime string // HH:MM[:SS] as exported

	// ClockOut is nil for open events (employee forgot to clock out).
	// When present, ClockOut is never before ClockIn: apparent overnight
	// wraps are corrected during normalization.
	ClockIn  time.Time
	ClockOut *time.Time

	// Raw duration texts as exported, kept for the snapshot.
	DurationText string
	WorkedText   string

	// Parsed hours. Nil means the text failed to parse and the value is
	// unknown - deliberately not zero.
	DurationHours *decimal.Decimal
	WorkedHours   *decimal.Decimal

	// BreakHours = max(0, duration - worked) when both are known.
	BreakHours decimal.Decimal
}

// =============================================================================
// KEY - Event identity across exports
// =============================================================================

// Key is the dedup identity: two records agreeing on it are the same event
// regardless of which weekly export they came from.
type Key struct {
	Employee    string
	ClockInDate string // ISO yyyy-mm-dd
	ClockInTime string
	BlipType    BlipType
}

// Identity returns the record's dedup key.
func (r Record) Identity() Key {
	return Key{
		Employee:    r.Employee,
		ClockInDate: r.ClockInDate.String(),
		ClockInTime: r.ClockInTime,
		BlipType:    r.BlipType,
	}
}
