/*
expand.go - Case span -> per-day facts

PURPOSE:
  Downstream reporting counts absence DAYS, not cases, so every case is
  expanded into one fact per calendar day of its inclusive span. Expansion
  is a pure function: the same case always yields the same fact set, with
  no dependency on run time or external state.

CARDINALITY INVARIANT:
  A case spanning [start, end] yields exactly end-start+1 facts, one per
  day, each dated within the span. Weekends are included and tagged, not
  dropped - whether weekend absence counts is a reporting decision, not an
  ingestion one.
*/
package absence

// Expand produces the daily facts for one case. Callers must only pass
// cases whose boundary dates resolved; rows with date parse failures are
// excluded upstream and reported, never defaulted onto a date.
func Expand(c Case) []DailyFact {
	n := c.SpanDays()
	if n < 1 {
		return nil
	}

	facts := make([]DailyFact, 0, n)
	for d := c.Start; d.BeforeOrEqual(c.End); d = d.AddDays(1) {
		facts = append(facts, DailyFact{
			Date:            d,
			Employee:        c.Employee,
			Team:            c.Team,
			Country:         c.Country,
			Organisation:    c.Organisation,
			Suborganisation: c.Suborganisation,
			Category:        c.Category,
			CaseID:          c.CaseID,
			IsWeekday:       d.IsWeekday(),
			WeekStart:       d.WeekStart(),
			ISOWeek:         d.ISOWeek(),
		})
	}
	return facts
}

// ExpandAll expands every case, preserving case order then day order.
func ExpandAll(cases []Case) []DailyFact {
	var facts []DailyFact
	for _, c := range cases {
		facts = append(facts, Expand(c)...)
	}
	return facts
}
