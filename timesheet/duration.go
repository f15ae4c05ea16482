/*
duration.go - Free-form duration text -> fractional hours

PURPOSE:
  The export tool renders durations three different ways depending on
  version and column: "7:30" (hours:minutes), "7h 30m" (letter-suffixed),
  or a bare decimal already meaning hours. Older cumulative files add a
  fourth: the "0 days 07:30:00" timedelta rendering. All of them mean the
  same 7.5 hours.

FAILURE CONTRACT:
  Anything not matching one of these shapes is a DurationParseError. The
  caller keeps the value UNKNOWN, never zero - a zero would silently
  understate utilisation, an unknown shows up in the run report.
*/
package timesheet

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/ingest-engine/ingest"
)

var (
	sixty        = decimal.NewFromInt(60)
	hoursPerDay  = decimal.NewFromInt(24)
	secondsPerHr = decimal.NewFromInt(3600)
)

var timedeltaPattern = regexp.MustCompile(`^(-?\d+)\s+days?\s+(\d{1,2}):(\d{2}):(\d{2})$`)

// ParseDuration parses duration text into fractional hours.
//
// Accepted shapes, in order of applicability:
//  1. "D days HH:MM:SS" - timedelta rendering from older snapshots
//  2. "H:MM" or "H:MM:SS" - colon-separated
//  3. "Hh", "Hh Mm" - letter-suffixed
//  4. bare number - already hours
func ParseDuration(text string) (decimal.Decimal, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || s == "nan" || s == "nat" || s == "none" {
		return decimal.Zero, &ingest.DurationParseError{Text: text}
	}

	if m := timedeltaPattern.FindStringSubmatch(s); m != nil {
		return parseTimedelta(m, text)
	}
	if strings.Contains(s, ":") {
		return parseColonForm(s, text)
	}
	if strings.Contains(s, "h") {
		return parseSuffixForm(s, text)
	}
	if v, err := decimal.NewFromString(s); err == nil {
		return v, nil
	}
	return decimal.Zero, &ingest.DurationParseError{Text: text}
}

// BreakHours derives break time from total duration and worked-excluding-
// breaks hours. Clamped at zero: worked exceeding duration is an export
// artifact, not negative break time.
func BreakHours(duration, worked decimal.Decimal) decimal.Decimal {
	b := duration.Sub(worked)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

func parseTimedelta(m []string, original string) (decimal.Decimal, error) {
	days, err1 := decimal.NewFromString(m[1])
	h, err2 := decimal.NewFromString(m[2])
	min, err3 := decimal.NewFromString(m[3])
	sec, err4 := decimal.NewFromString(m[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return decimal.Zero, &ingest.DurationParseError{Text: original}
	}
	hours := days.Mul(hoursPerDay).Add(h).Add(min.Div(sixty)).Add(sec.Div(secondsPerHr))
	return hours, nil
}

// parseColonForm handles "H:MM" and "H:MM:SS": left of the first colon is
// whole hours, the rest is minutes (and optionally seconds).
func parseColonForm(s, original string) (decimal.Decimal, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return decimal.Zero, &ingest.DurationParseError{Text: original}
	}
	h, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return decimal.Zero, &ingest.DurationParseError{Text: original}
	}
	min, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return decimal.Zero, &ingest.DurationParseError{Text: original}
	}
	total := h.Add(min.Div(sixty))
	if len(parts) == 3 {
		sec, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return decimal.Zero, &ingest.DurationParseError{Text: original}
		}
		total = total.Add(sec.Div(secondsPerHr))
	}
	return total, nil
}

// parseSuffixForm handles "2h", "2h 15m", "2h15m".
func parseSuffixForm(s, original string) (decimal.Decimal, error) {
	hIdx := strings.Index(s, "h")
	h, err := decimal.NewFromString(strings.TrimSpace(s[:hIdx]))
	if err != nil {
		return decimal.Zero, &ingest.DurationParseError{Text: original}
	}

	rest := strings.TrimSpace(s[hIdx+1:])
	if rest == "" {
		return h, nil
	}
	if !strings.HasSuffix(rest, "m") {
		return decimal.Zero, &ingest.DurationParseError{Text: original}
	}
	min, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(rest, "m")))
	if err != nil {
		return decimal.Zero, &ingest.DurationParseError{Text: original}
	}
	return h.Add(min.Div(sixty)), nil
}
