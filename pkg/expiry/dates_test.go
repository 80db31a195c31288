package expiry

import (
	"testing"
	"time"
)

func TestLastDayAllMonths(t *testing.T) {
	want := map[int]int{1: 31, 2: 28, 3: 31, 4: 30, 5: 31, 6: 30, 7: 31, 8: 31, 9: 30, 10: 31, 11: 30, 12: 31}
	for m := 1; m <= 12; m++ {
		if got := LastDay(m, 2025); got != want[m] {
			t.Fatalf("LastDay(%d, 2025) = %d, want %d", m, got, want[m])
		}
	}
	if got := LastDay(2, 2024); got != 29 {
		t.Fatalf("LastDay(2, 2024) = %d, want 29", got)
	}
	if got := LastDay(2, 2000); got != 29 {
		t.Fatalf("LastDay(2, 2000) = %d, want 29", got)
	}
	if got := LastDay(2, 1900); got != 28 {
		t.Fatalf("LastDay(2, 1900) = %d, want 28", got)
	}
}

func TestResolveFirstOfMonth(t *testing.T) {
	cases := []struct{ in, want string }{
		{"01-10-2025", "31-10-2025"}, // day 1 treated as month/year only
		{"01-02-2024", "29-02-2024"},
		{"15-10-2025", "15-10-2025"}, // explicit day kept
		{"Unknown", "Unknown"},
		{"garbage", "garbage"},
	}
	for _, c := range cases {
		if got := ResolveFirstOfMonth(c.in); got != c.want {
			t.Fatalf("ResolveFirstOfMonth(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDaysLeftAndBands(t *testing.T) {
	now := time.Date(2025, 9, 1, 14, 30, 0, 0, time.UTC)
	cases := []struct {
		expiry string
		days   int
		band   Band
	}{
		{"31-08-2025", -1, BandExpired},
		{"01-09-2025", 0, BandCritical},
		{"03-09-2025", 2, BandCritical},
		{"04-09-2025", 3, BandWarning},
		{"07-09-2025", 6, BandWarning},
		{"08-09-2025", 7, BandCaution},
		{"30-09-2025", 29, BandCaution},
		{"01-10-2025", 30, BandSafe},
	}
	for _, c := range cases {
		days, ok := DaysLeft(c.expiry, now)
		if !ok {
			t.Fatalf("DaysLeft(%q) not ok", c.expiry)
		}
		if days != c.days {
			t.Fatalf("DaysLeft(%q) = %d, want %d", c.expiry, days, c.days)
		}
		if band := BandFor(days); band != c.band {
			t.Fatalf("BandFor(%d) = %q, want %q", days, band, c.band)
		}
	}
	if _, ok := DaysLeft(Unknown, now); ok {
		t.Fatalf("DaysLeft(Unknown) should not be ok")
	}
	if _, ok := DaysLeft("31-31-2025", now); ok {
		t.Fatalf("DaysLeft on invalid date should not be ok")
	}
}
