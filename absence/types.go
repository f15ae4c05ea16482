/*
Package absence normalizes the raw absence feed into case-level records and
per-day facts.

PURPOSE:
  One raw export row describes one absence CASE: an employee away for an
  inclusive span of calendar days. The feed is authoritative and re-exported
  in full every week, so cases are rebuilt from scratch on every run (full
  replace, never accumulated). Cases are then expanded into one DAILY FACT
  per calendar day, which is the table downstream reporting consumes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: the fixed absence taxonomy every raw label maps into
  - Case: one normalized absence record with a stable content-based ID
  - DailyFact: one case on one specific calendar day

DESIGN PRINCIPLES:
  1. Totality: classification and country inference never fail; unknown
     input degrades to explicit fallback values, keeping every row
     reportable.
  2. Determinism: CaseID is a content hash, so re-running ingestion on the
     same file can never duplicate or renumber cases.
  3. Precision: day quantities use decimal.Decimal, not float64.

SEE ALSO:
  - classify.go: raw label/description -> Category
  - country.go:  country inference from team names
  - caseid.go:   stable case identity
  - expand.go:   case -> daily facts
  - normalize.go: raw table -> []Case
*/
package absence

import (
	"github.com/shopspring/decimal"

	"github.com/warp/ingest-engine/ingest"
)

// =============================================================================
// CATEGORY - Fixed absence taxonomy
// =============================================================================

type Category string

const (
	CategoryAnnualLeave     Category = "Annual Leave"
	CategoryMedicalSickness Category = "Medical + Sickness"
	CategoryWFH             Category = "WFH"
	CategoryTravel          Category = "Travel"
	CategoryOther           Category = "Other"
)

// =============================================================================
// CASE - One raw absence record, normalized
// =============================================================================

type Case struct {
	CaseID   string
	Employee string
	Team     string
	Country  string

	// Organisation grouping derived from the team name; blank when the team
	// is not in the known mapping.
	Organisation    string
	Suborganisation string

	RawType     string
	Description string
	Category    Category

	Start ingest.Day
	End   ingest.Day

	// DurationDays is the export's own "duration for period" figure. Zero
	// when the source cell was blank or non-numeric.
	DurationDays decimal.Decimal

	// EntitlementDays is the annual leave entitlement, kept only when the
	// source unit denotes days. Nil otherwise.
	EntitlementDays *decimal.Decimal
}

// SpanDays returns the inclusive calendar-day count of the case.
func (c Case) SpanDays() int {
	return c.Start.DaysUntil(c.End) + 1
}

// =============================================================================
// DAILY FACT - One case expanded to one calendar day
// =============================================================================

type DailyFact struct {
	Date     ingest.Day
	Employee string
	Team     string
	Country  string

	Organisation    string
	Suborganisation string

	Category Category
	CaseID   string

	IsWeekday bool
	WeekStart ingest.Day
	ISOWeek   string
}
