package daykey

import (
	"testing"
	"time"
)

func TestForAnchorsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 03:00 on the 2nd in UTC+9 is still the 1st in UTC.
	local := time.Date(2026, 3, 2, 3, 0, 0, 0, loc)
	if got := For(local); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
}

func TestGap(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2026-03-01", "2026-03-02", 1},
		{"2026-03-01", "2026-03-04", 3},
		{"2026-03-02", "2026-03-01", -1},
		{"2026-02-28", "2026-03-01", 1},
		{"2026-03-01", "2026-03-01", 0},
	}
	for _, tc := range cases {
		got, err := Gap(tc.from, tc.to)
		if err != nil {
			t.Fatalf("gap %s->%s: %v", tc.from, tc.to, err)
		}
		if got != tc.want {
			t.Fatalf("gap %s->%s: expected %d, got %d", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestGapRejectsMalformedKey(t *testing.T) {
	if _, err := Gap("yesterday", "2026-03-01"); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}

func TestNextMidnight(t *testing.T) {
	now := time.Date(2026, 3, 1, 17, 45, 12, 0, time.UTC)
	next := NextMidnight(now)
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
	if For(next) != "2026-03-02" {
		t.Fatalf("midnight should land on the next day key")
	}
}
