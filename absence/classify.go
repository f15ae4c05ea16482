/*
classify.go - Raw absence label -> fixed Category

PURPOSE:
  Raw exports carry free-text absence types ("Sickness", "Birthday leave",
  "Other") plus an optional description. Classification is a TOTAL function
  into the fixed taxonomy: it never fails, and anything unrecognizable is
  CategoryOther so every row stays reportable.

ALGORITHM:
  1. Exact match on known cleaned labels (exports that already went through
     a cleanup step carry these).
  2. Keyword search over normalized type+description, priority
     Sick > Travel > WFH > Annual. Priority matters: "sick while working
     from home" is a sickness case, not WFH.
  3. CategoryOther.

KEYWORD MATCHING:
  Keywords match with flexible separators ("work from home",
  "work-from-home" and "work_from_home" are the same keyword) and guarded
  boundaries so "ill" never fires inside "billing".
*/
package absence

import (
	"regexp"
	"strings"
)

// Known labels produced by upstream cleanup passes, mapped directly.
var cleanedLabels = map[string]Category{
	"annual":         CategoryAnnualLeave,
	"annual leave":   CategoryAnnualLeave,
	"medical":        CategoryMedicalSickness,
	"sickness":       CategoryMedicalSickness,
	"work from home": CategoryWFH,
	"wfh":            CategoryWFH,
	"travel":         CategoryTravel,
}

var (
	sickKeywords = []string{
		"sick", "sickness", "medical", "ill", "flu", "gp", "doctor",
		"hospital", "injury", "migraine", "sick note", "unwell", "incapacity",
	}
	travelKeywords = []string{
		"travel", "business trip", "offsite", "onsite", "client visit",
		"site visit", "conference", "training", "workshop", "event", "external",
	}
	wfhKeywords = []string{
		"wfh", "work from home", "working from home", "remote",
		"working remotely", "home working", "telework", "hybrid",
	}
	annualKeywords = []string{
		"annual", "holiday", "vacation", "pto", "birthday",
	}
)

// compile once
var (
	sickPattern   = buildKeywordPattern(sickKeywords)
	travelPattern = buildKeywordPattern(travelKeywords)
	wfhPattern    = buildKeywordPattern(wfhKeywords)
	annualPattern = buildKeywordPattern(annualKeywords)
)

// Classify maps a raw absence type and optional description to a Category.
// Total: never fails.
func Classify(rawType, description string) Category {
	t := normalizeForMatch(rawType)
	if c, ok := cleanedLabels[t]; ok && c != CategoryOther {
		return c
	}

	combined := strings.TrimSpace(t + " " + normalizeForMatch(description))
	switch {
	case sickPattern.MatchString(combined):
		return CategoryMedicalSickness
	case travelPattern.MatchString(combined):
		return CategoryTravel
	case wfhPattern.MatchString(combined):
		return CategoryWFH
	case annualPattern.MatchString(combined):
		return CategoryAnnualLeave
	default:
		return CategoryOther
	}
}

var (
	separatorRun  = regexp.MustCompile(`[\-_/,;:()\[\]{}|]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// normalizeForMatch lower-cases and flattens separator characters so keyword
// variants spelled with hyphens, slashes or underscores all line up.
func normalizeForMatch(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = separatorRun.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// buildKeywordPattern compiles an alternation of keywords with flexible
// inner separators and non-alphanumeric boundaries on both sides.
func buildKeywordPattern(keywords []string) *regexp.Regexp {
	variants := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		parts := strings.Fields(normalizeForMatch(kw))
		if len(parts) == 0 {
			continue
		}
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		variants = append(variants, strings.Join(parts, `[\s\-_/]*`))
	}
	pattern := `(^|[^a-z0-9])(` + strings.Join(variants, "|") + `)($|[^a-z0-9])`
	return regexp.MustCompile(pattern)
}
