/*
normalize.go - Raw absence table -> normalized cases

PURPOSE:
  Turns one week's raw absence export into []Case. Per-row problems (an
  unparseable date, a duplicated row) are recovered locally and counted in
  the feed report; only missing required columns abort the feed.

ROW POLICY:
  - Exact-duplicate raw rows are dropped and counted, not treated as two
    cases (a known artifact of the export tool).
  - Rows whose start or end date fails to parse are excluded from the case
    table and reported with their row number. They are never defaulted onto
    a date.
  - An end date before the start date is clamped to the start date: the
    export writes single-day absences both ways.
*/
package absence

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/tabular"
)

// =============================================================================
// SOURCE COLUMNS
// =============================================================================

const (
	ColFirstName = "First name"
	ColLastName  = "Last name"
	ColTeam      = "Team names"
	ColType      = "Absence type"
	ColStart     = "Absence start date"
	ColEnd       = "Absence end date"
	ColCountry   = "Country"

	ColDurationDays    = "Absence duration for period in days"
	ColEntitlement     = "Leave entitlement"
	ColEntitlementUnit = "Entitlement unit"
)

// DetailColumns are the description column names seen across export
// versions, in preference order.
var DetailColumns = []string{
	"Absence description", "Description", "Reason", "Notes", "Comment",
	"Absence reason", "Absence notes",
}

// RequiredColumns must all be present or the feed run fails.
var RequiredColumns = []string{
	ColFirstName, ColLastName, ColTeam, ColType, ColStart, ColEnd,
}

// =============================================================================
// ORGANISATION MAPPING - Team name -> org grouping
// =============================================================================

type orgGroup struct{ org, suborg string }

var teamOrganisations = map[string]orgGroup{
	"hr":                  {"AG", "EG"},
	"uk bdm":              {"AG", "EG"},
	"de bdm":              {"AG", "EG"},
	"engineering":         {"AG", "EG"},
	"operations":          {"AG", "EG"},
	"investment":          {"AG", "EG"},
	"investments":         {"AG", "EG"},
	"agri":                {"AG", "AG"},
	"executive":           {"UG", "UG"},
	"ug business support": {"UG", "UG"},
	"group finance":       {"UG", "UG"},
	"property":            {"UG", "UG"},
	"group legal":         {"UG", "UG"},
}

func organisationFor(team string) (string, string) {
	g, ok := teamOrganisations[strings.ToLower(strings.TrimSpace(team))]
	if !ok {
		return "", ""
	}
	return g.org, g.suborg
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalize converts a raw absence table into cases, recording row-level
// failures in report. Returns a SchemaError when required columns are
// missing.
func Normalize(t *tabular.Table, report *ingest.FeedReport) ([]Case, error) {
	if missing := t.MissingColumns(RequiredColumns...); len(missing) > 0 {
		return nil, &ingest.SchemaError{Feed: "absence", Missing: missing}
	}

	report.RowsRead = t.Len()

	// One file, one date convention: decide the order over both boundary
	// columns together.
	starts := t.Column(ColStart)
	ends := t.Column(ColEnd)
	order := ingest.DetectOrder(append(append([]string{}, starts...), ends...))
	startDays := ingest.ResolveColumnWithOrder(ColStart, starts, order)
	endDays := ingest.ResolveColumnWithOrder(ColEnd, ends, order)

	// A row with both boundaries bad still counts as one failed row.
	failed := make(map[int]bool)
	for _, e := range append(startDays.Errors, endDays.Errors...) {
		if failed[e.Row] {
			continue
		}
		failed[e.Row] = true
		report.AddRowError(e)
	}

	seen := make(map[string]bool, t.Len())
	var cases []Case
	for i := 0; i < t.Len(); i++ {
		row := i + 1
		if failed[row] {
			continue
		}

		// Exact-duplicate raw rows collapse to one case.
		fingerprint := strings.Join(t.Rows[i], "\x1f")
		if seen[fingerprint] {
			continue
		}
		seen[fingerprint] = true

		c := buildCase(t, i, startDays.Days[i], endDays.Days[i])
		cases = append(cases, c)
	}

	report.RowsNormalized = len(cases)
	return cases, nil
}

func buildCase(t *tabular.Table, i int, start, end ingest.Day) Case {
	if end.Before(start) {
		end = start
	}

	employee := strings.TrimSpace(t.Get(i, ColFirstName) + " " + t.Get(i, ColLastName))
	team := t.Get(i, ColTeam)
	rawType := t.Get(i, ColType)
	description := t.GetFirst(i, DetailColumns...)
	country := InferCountry(t.Get(i, ColCountry), team)
	org, suborg := organisationFor(team)

	c := Case{
		Employee:        employee,
		Team:            team,
		Country:         country,
		Organisation:    org,
		Suborganisation: suborg,
		RawType:         rawType,
		Description:     description,
		Category:        Classify(rawType, description),
		Start:           start,
		End:             end,
	}
	c.CaseID = CaseID(employee, start, end, rawType, team, country)

	if v, err := decimal.NewFromString(t.Get(i, ColDurationDays)); err == nil {
		c.DurationDays = v
	}
	c.EntitlementDays = entitlementDays(t.Get(i, ColEntitlement), t.Get(i, ColEntitlementUnit))

	return c
}

// entitlementDays keeps the entitlement figure only when its unit denotes
// days (or is blank, the historical default). Hour-denominated entitlements
// are not comparable and are dropped.
func entitlementDays(amount, unit string) *decimal.Decimal {
	if amount == "" {
		return nil
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if u != "" && !strings.Contains(u, "day") {
		return nil
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return nil
	}
	return &v
}
