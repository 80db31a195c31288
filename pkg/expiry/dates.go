package expiry

import (
	"fmt"
	"time"
)

// Layout is the canonical DD-MM-YYYY form used everywhere a date is
// stored or displayed.
const Layout = "02-01-2006"

// Unknown is the sentinel stored when no expiry could be determined.
const Unknown = "Unknown"

// LastDay returns the number of days in the given month, leap-year aware.
func LastDay(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth resolves a partial (month, year) date to the last calendar
// day of that month. An unknown day is treated as "good through end of
// the stated month", the longest estimate consistent with the stamp.
func EndOfMonth(month, year int) string {
	return fmt.Sprintf("%02d-%02d-%04d", LastDay(month, year), month, year)
}

// ParseDate parses a canonical DD-MM-YYYY string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// ResolveFirstOfMonth applies the fallback-path ambiguity rule: a date
// whose day is exactly 1 is assumed to be a month/year-only answer and
// is re-resolved to the end of that month. Anything else (including
// unparseable input) is returned unchanged.
func ResolveFirstOfMonth(date string) string {
	t, err := ParseDate(date)
	if err != nil || t.Day() != 1 {
		return date
	}
	return EndOfMonth(int(t.Month()), t.Year())
}

// DaysLeft returns whole days between now and the expiry string.
// ok is false when the expiry is Unknown or not a valid date.
func DaysLeft(expiryDate string, now time.Time) (int, bool) {
	if expiryDate == "" || expiryDate == Unknown {
		return 0, false
	}
	t, err := ParseDate(expiryDate)
	if err != nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(today).Hours() / 24), true
}

// Band is an urgency classification for an expiry horizon.
type Band string

const (
	BandExpired  Band = "expired"
	BandCritical Band = "critical"
	BandWarning  Band = "warning"
	BandCaution  Band = "caution"
	BandSafe     Band = "safe"
)

// BandFor maps a days-left count onto an urgency band.
func BandFor(daysLeft int) Band {
	switch {
	case daysLeft < 0:
		return BandExpired
	case daysLeft < 3:
		return BandCritical
	case daysLeft < 7:
		return BandWarning
	case daysLeft < 30:
		return BandCaution
	default:
		return BandSafe
	}
}
