// Package expiry extracts printed expiry dates from OCR text and
// resolves partial month/year stamps to canonical full dates.
package expiry

import (
	"regexp"
	"strconv"
	"strings"
)

// resolver turns the capture groups of a matched pattern into a
// canonical DD-MM-YYYY string. ok=false means the match was malformed
// (unknown month token, out-of-range month) and parsing moves on to
// the next pattern.
type resolver func(groups []string) (string, bool)

type pattern struct {
	re      *regexp.Regexp
	resolve resolver
}

// patterns is evaluated in order, first successful match wins. The
// order is the priority policy: explicitly labeled stamps (EXP, BEST
// BEFORE, HALTBAR BIS, MHD) come before the bare month-year fallback
// so that batch codes and unrelated tokens cannot shadow a real label.
var patterns = []pattern{
	{regexp.MustCompile(`(\d{2})\.(\d{4})`), numericMonthYear},
	{regexp.MustCompile(`(\d{2})/(\d{4})`), numericMonthYear},
	{regexp.MustCompile(`EXP[:\s]*([A-Z]{3,9})[-\s.]*(\d{4})`), namedMonthYear},
	{regexp.MustCompile(`EXP[:\s]*(\d{2}[-/.]\d{2}[-/.]\d{4})`), fullDate},
	{regexp.MustCompile(`BEST\s*BEFORE[:\s]*([A-Z]{3,9})[-\s.]*(\d{4})`), namedMonthYear},
	{regexp.MustCompile(`USE\s*BY[:\s]*([A-Z]{3,9})[-\s.]*(\d{4})`), namedMonthYear},
	{regexp.MustCompile(`HALTBAR\s*BIS[:\s]*(\d{2}[-/.]\d{4})`), compactMonthYear},
	{regexp.MustCompile(`MHD[:\s]*(\d{2}[-/.]\d{4})`), compactMonthYear},
	{regexp.MustCompile(`\b([A-Z]{3,9})[-\s.]+(\d{4})\b`), namedMonthYear},
}

// English month tokens only. German stamps come in numeric MM.YYYY
// form, so no German month names here.
var monthNames = map[string]int{
	"JAN": 1, "JANUARY": 1, "FEB": 2, "FEBRUARY": 2,
	"MAR": 3, "MARCH": 3, "APR": 4, "APRIL": 4, "MAY": 5,
	"JUN": 6, "JUNE": 6, "JUL": 7, "JULY": 7,
	"AUG": 8, "AUGUST": 8, "SEP": 9, "SEPT": 9, "SEPTEMBER": 9,
	"OCT": 10, "OCTOBER": 10, "NOV": 11, "NOVEMBER": 11,
	"DEC": 12, "DECEMBER": 12,
}

// Parse scans OCR text for an expiry date and returns it in
// DD-MM-YYYY form. Matching is case-insensitive. ok is false when no
// pattern produced a valid date.
func Parse(text string) (string, bool) {
	up := strings.ToUpper(text)
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(up)
		if m == nil {
			continue
		}
		if date, ok := p.resolve(m[1:]); ok {
			return date, true
		}
	}
	return "", false
}

// numericMonthYear handles MM.YYYY / MM/YYYY captures.
func numericMonthYear(groups []string) (string, bool) {
	month, err := strconv.Atoi(groups[0])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	year, err := strconv.Atoi(groups[1])
	if err != nil {
		return "", false
	}
	return EndOfMonth(month, year), true
}

// namedMonthYear handles a month token plus a four-digit year.
func namedMonthYear(groups []string) (string, bool) {
	month, ok := monthNames[groups[0]]
	if !ok {
		return "", false
	}
	year, err := strconv.Atoi(groups[1])
	if err != nil {
		return "", false
	}
	return EndOfMonth(month, year), true
}

// compactMonthYear handles a single "MM.YYYY" capture with any of the
// accepted separators.
func compactMonthYear(groups []string) (string, bool) {
	parts := strings.Split(normalizeSeparators(groups[0]), "-")
	if len(parts) != 2 {
		return "", false
	}
	return numericMonthYear(parts)
}

// fullDate handles a fully specified DD-MM-YYYY capture. A full date
// is returned verbatim, no end-of-month substitution.
func fullDate(groups []string) (string, bool) {
	norm := normalizeSeparators(groups[0])
	if _, err := ParseDate(norm); err != nil {
		return "", false
	}
	return norm, true
}

func normalizeSeparators(s string) string {
	r := strings.NewReplacer(" ", "-", ".", "-", "/", "-")
	return r.Replace(s)
}
