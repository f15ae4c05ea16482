package absence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ingest-engine/absence"
	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/tabular"
)

// =============================================================================
// CASE IDENTITY
// =============================================================================

func TestCaseID_Deterministic(t *testing.T) {
	start := ingest.NewDay(2024, 1, 10)
	end := ingest.NewDay(2024, 1, 12)

	// GIVEN the same identity fields
	a := absence.CaseID("Jane Doe", start, end, "Sickness", "HR", "UK")
	b := absence.CaseID("Jane Doe", start, end, "Sickness", "HR", "UK")

	// THEN the id is identical across calls
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestCaseID_IgnoresCosmeticDrift(t *testing.T) {
	start := ingest.NewDay(2024, 1, 10)
	end := ingest.NewDay(2024, 1, 12)

	a := absence.CaseID("Jane Doe", start, end, "Sickness", "HR", "UK")
	b := absence.CaseID("  jane doe  ", start, end, "SICKNESS", "hr", "uk")

	assert.Equal(t, a, b)
}

func TestCaseID_SensitiveToIdentityFields(t *testing.T) {
	start := ingest.NewDay(2024, 1, 10)
	end := ingest.NewDay(2024, 1, 12)

	base := absence.CaseID("Jane Doe", start, end, "Sickness", "HR", "UK")

	assert.NotEqual(t, base, absence.CaseID("John Doe", start, end, "Sickness", "HR", "UK"))
	assert.NotEqual(t, base, absence.CaseID("Jane Doe", start.AddDays(1), end, "Sickness", "HR", "UK"))
	assert.NotEqual(t, base, absence.CaseID("Jane Doe", start, end, "Annual leave", "HR", "UK"))
	assert.NotEqual(t, base, absence.CaseID("Jane Doe", start, end, "Sickness", "Operations", "UK"))
	assert.NotEqual(t, base, absence.CaseID("Jane Doe", start, end, "Sickness", "HR", "Germany"))
}

// =============================================================================
// COUNTRY INFERENCE
// =============================================================================

func TestInferCountry(t *testing.T) {
	tests := []struct {
		name    string
		country string
		team    string
		want    string
	}{
		{"explicit country passes through", "France", "DE BDM", "France"},
		{"blank falls to team marker", "", "DE BDM", "Germany"},
		{"unknown counts as blank", "Unknown", "DE BDM", "Germany"},
		{"germ fragment", "", "Germany Ops", "Germany"},
		{"india marker", "", "India Support", "India"},
		{"uk marker", "", "UK BDM", "UK"},
		{"de must be a whole word", "", "DESIGN", absence.HomeCountry},
		{"no marker falls back home", "", "Engineering", absence.HomeCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, absence.InferCountry(tt.country, tt.team))
		})
	}
}

// =============================================================================
// DAILY EXPANSION
// =============================================================================

func TestExpand_ThreeDaySpan(t *testing.T) {
	// GIVEN a case spanning Wed 2024-01-10 to Fri 2024-01-12
	c := absence.Case{
		CaseID:   "abc",
		Employee: "Jane Doe",
		Team:     "HR",
		Country:  "UK",
		Category: absence.CategoryMedicalSickness,
		Start:    ingest.NewDay(2024, 1, 10),
		End:      ingest.NewDay(2024, 1, 12),
	}

	// WHEN expanded into daily facts
	facts := absence.Expand(c)

	// THEN there is exactly one fact per calendar day, boundaries inclusive
	require.Len(t, facts, 3)
	assert.Equal(t, "2024-01-10", facts[0].Date.String())
	assert.Equal(t, "2024-01-11", facts[1].Date.String())
	assert.Equal(t, "2024-01-12", facts[2].Date.String())

	for _, f := range facts {
		assert.Equal(t, "abc", f.CaseID)
		assert.Equal(t, "Jane Doe", f.Employee)
		assert.Equal(t, absence.CategoryMedicalSickness, f.Category)
		assert.True(t, f.IsWeekday)
		assert.Equal(t, "2024-01-08", f.WeekStart.String())
		assert.Equal(t, "2024-W02", f.ISOWeek)
	}
}

func TestExpand_SingleDay(t *testing.T) {
	c := absence.Case{
		Start: ingest.NewDay(2024, 3, 4),
		End:   ingest.NewDay(2024, 3, 4),
	}
	facts := absence.Expand(c)
	require.Len(t, facts, 1)
	assert.Equal(t, "2024-03-04", facts[0].Date.String())
}

func TestExpand_WeekendDaysFlagged(t *testing.T) {
	// Fri 2024-01-12 through Mon 2024-01-15
	c := absence.Case{
		Start: ingest.NewDay(2024, 1, 12),
		End:   ingest.NewDay(2024, 1, 15),
	}
	facts := absence.Expand(c)
	require.Len(t, facts, 4)
	assert.True(t, facts[0].IsWeekday)  // Friday
	assert.False(t, facts[1].IsWeekday) // Saturday
	assert.False(t, facts[2].IsWeekday) // Sunday
	assert.True(t, facts[3].IsWeekday)  // Monday
}

func TestExpandAll_CardinalityIsSumOfSpans(t *testing.T) {
	cases := []absence.Case{
		{Start: ingest.NewDay(2024, 1, 10), End: ingest.NewDay(2024, 1, 12)},
		{Start: ingest.NewDay(2024, 2, 1), End: ingest.NewDay(2024, 2, 1)},
	}
	facts := absence.ExpandAll(cases)
	assert.Len(t, facts, 4)
}

// =============================================================================
// NORMALIZATION
// =============================================================================

func absenceHeader() []string {
	return []string{
		"First name", "Last name", "Team names", "Absence type",
		"Absence start date", "Absence end date", "Country",
		"Absence description", "Absence duration for period in days",
		"Leave entitlement", "Entitlement unit",
	}
}

func absenceRow(first, last, team, typ, start, end, country, desc, dur, ent, unit string) []string {
	return []string{first, last, team, typ, start, end, country, desc, dur, ent, unit}
}

func TestNormalize_BuildsCases(t *testing.T) {
	table := tabular.NewTable([][]string{
		absenceHeader(),
		absenceRow("Jane", "Doe", "HR", "Sickness", "13/01/2024", "15/01/2024", "", "flu", "3", "25", "days"),
	})
	report := &ingest.FeedReport{}

	cases, err := absence.Normalize(table, report)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, "Jane Doe", c.Employee)
	assert.Equal(t, "HR", c.Team)
	assert.Equal(t, "UK", c.Country)
	assert.Equal(t, "AG", c.Organisation)
	assert.Equal(t, "EG", c.Suborganisation)
	assert.Equal(t, absence.CategoryMedicalSickness, c.Category)
	// 13/01 only parses day-first, which decides the whole file
	assert.Equal(t, "2024-01-13", c.Start.String())
	assert.Equal(t, "2024-01-15", c.End.String())
	assert.Equal(t, "3", c.DurationDays.String())
	require.NotNil(t, c.EntitlementDays)
	assert.Equal(t, "25", c.EntitlementDays.String())
	assert.NotEmpty(t, c.CaseID)

	assert.Equal(t, 1, report.RowsRead)
	assert.Equal(t, 1, report.RowsNormalized)
	assert.Equal(t, 0, report.RowsFailed)
}

func TestNormalize_MissingColumnsFailTheFeed(t *testing.T) {
	table := tabular.NewTable([][]string{
		{"First name", "Last name", "Team names"},
		{"Jane", "Doe", "HR"},
	})
	report := &ingest.FeedReport{}

	_, err := absence.Normalize(table, report)
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrMissingColumn)

	var schemaErr *ingest.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "Absence start date")
}

func TestNormalize_DuplicateRowsCollapse(t *testing.T) {
	row := absenceRow("Jane", "Doe", "HR", "Sickness", "10/01/2024", "12/01/2024", "", "", "", "", "")
	table := tabular.NewTable([][]string{absenceHeader(), row, row})
	report := &ingest.FeedReport{}

	cases, err := absence.Normalize(table, report)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
	assert.Equal(t, 2, report.RowsRead)
	assert.Equal(t, 1, report.RowsNormalized)
}

func TestNormalize_BadDatesExcludeTheRow(t *testing.T) {
	table := tabular.NewTable([][]string{
		absenceHeader(),
		absenceRow("Jane", "Doe", "HR", "Sickness", "not a date", "12/01/2024", "", "", "", "", ""),
		absenceRow("John", "Roe", "HR", "Travel", "10/01/2024", "12/01/2024", "", "", "", "", ""),
	})
	report := &ingest.FeedReport{}

	cases, err := absence.Normalize(table, report)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "John Roe", cases[0].Employee)
	assert.Equal(t, 1, report.RowsFailed)
	require.Len(t, report.ErrorSamples, 1)
	assert.Contains(t, report.ErrorSamples[0], "row 1")
	assert.Contains(t, report.ErrorSamples[0], "not a date")
}

func TestNormalize_BothBoundariesBadCountOnce(t *testing.T) {
	table := tabular.NewTable([][]string{
		absenceHeader(),
		absenceRow("Jane", "Doe", "HR", "Sickness", "garbage", "also garbage", "", "", "", "", ""),
	})
	report := &ingest.FeedReport{}

	cases, err := absence.Normalize(table, report)
	require.NoError(t, err)
	assert.Empty(t, cases)
	assert.Equal(t, 1, report.RowsFailed)
}

func TestNormalize_EndBeforeStartClampsToStart(t *testing.T) {
	table := tabular.NewTable([][]string{
		absenceHeader(),
		absenceRow("Jane", "Doe", "HR", "Sickness", "12/01/2024", "10/01/2024", "", "", "", "", ""),
	})
	report := &ingest.FeedReport{}

	cases, err := absence.Normalize(table, report)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, cases[0].Start, cases[0].End)
	assert.Equal(t, 1, cases[0].SpanDays())
}

func TestNormalize_HourEntitlementDropped(t *testing.T) {
	table := tabular.NewTable([][]string{
		absenceHeader(),
		absenceRow("Jane", "Doe", "HR", "Sickness", "10/01/2024", "10/01/2024", "", "", "", "200", "hours"),
	})
	report := &ingest.FeedReport{}

	cases, err := absence.Normalize(table, report)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Nil(t, cases[0].EntitlementDays)
}

func TestNormalize_UnknownTeamHasNoOrganisation(t *testing.T) {
	table := tabular.NewTable([][]string{
		absenceHeader(),
		absenceRow("Jane", "Doe", "Skunkworks", "Sickness", "10/01/2024", "10/01/2024", "", "", "", "", ""),
	})
	report := &ingest.FeedReport{}

	cases, err := absence.Normalize(table, report)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Empty(t, cases[0].Organisation)
	assert.Empty(t, cases[0].Suborganisation)
}
