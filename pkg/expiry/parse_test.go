package expiry

import "testing"

func TestParseLabeledStamps(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"EXP: OCT-2025", "31-10-2025"},
		{"exp: oct 2025", "31-10-2025"},
		{"HALTBAR BIS 02.2027", "28-02-2027"},
		{"MHD: 05.2026", "31-05-2026"},
		{"BEST BEFORE MARCH 2026", "31-03-2026"},
		{"USE BY SEPT 2025", "30-09-2025"},
		{"DEC 2027", "31-12-2027"},
		{"lot 42 11/2026 batch A", "30-11-2026"},
	}
	for _, c := range cases {
		got, ok := Parse(c.text)
		if !ok || got != c.want {
			t.Fatalf("Parse(%q) = %q ok=%v, want %q", c.text, got, ok, c.want)
		}
	}
}

func TestParseLabeledBeatsGenericToken(t *testing.T) {
	// The bare month-year fallback alone would pick MAY 2099 here; the
	// labeled stamp must win.
	got, ok := Parse("BATCH MAY 2099 ... MHD: 05.2026")
	if !ok || got != "31-05-2026" {
		t.Fatalf("expected 31-05-2026 got %q ok=%v", got, ok)
	}
}

func TestParseFullDateVerbatim(t *testing.T) {
	got, ok := Parse("EXP: 15-08-2025")
	if !ok || got != "15-08-2025" {
		t.Fatalf("full date should be returned verbatim, got %q ok=%v", got, ok)
	}
}

func TestParseLeapYearResolution(t *testing.T) {
	got, ok := Parse("02.2024")
	if !ok || got != "29-02-2024" {
		t.Fatalf("leap february: got %q ok=%v", got, ok)
	}
	got, ok = Parse("02.2025")
	if !ok || got != "28-02-2025" {
		t.Fatalf("non-leap february: got %q ok=%v", got, ok)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"13.2025",          // month out of range
		"EXP: LOT-2025",    // token is not a month name
		"no dates in here", // nothing date-like at all
		"",
	}
	for _, c := range cases {
		if got, ok := Parse(c); ok {
			t.Fatalf("Parse(%q) unexpectedly succeeded with %q", c, got)
		}
	}
}
