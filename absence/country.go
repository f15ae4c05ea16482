/*
country.go - Country inference from team names

PURPOSE:
  Older exports omit the Country column entirely, and newer ones leave it
  blank or literally "Unknown" for some rows. The team name is the next best
  signal ("DE BDM" is the German business development team). Inference is
  total: anything without a marker falls back to the organization's home
  country.
*/
package absence

import (
	"regexp"
	"strings"
)

// HomeCountry is the default when neither field nor team name carries a
// signal.
const HomeCountry = "UK"

type countryMarker struct {
	pattern *regexp.Regexp
	country string
}

// Markers are checked in order against the upper-cased team name.
var countryMarkers = []countryMarker{
	{regexp.MustCompile(`\bDE\b`), "Germany"},
	{regexp.MustCompile(`GERM`), "Germany"},
	{regexp.MustCompile(`INDIA`), "India"},
	{regexp.MustCompile(`\bUK\b`), "UK"},
}

// InferCountry resolves a country for a row. A present, non-blank country
// field passes through ("Unknown" counts as blank). Otherwise the team name
// is inspected for markers, and HomeCountry is the fallback. Never fails.
func InferCountry(country, team string) string {
	c := strings.TrimSpace(country)
	if c != "" && !strings.EqualFold(c, "unknown") {
		return c
	}

	t := strings.ToUpper(team)
	for _, m := range countryMarkers {
		if m.pattern.MatchString(t) {
			return m.country
		}
	}
	return HomeCountry
}
