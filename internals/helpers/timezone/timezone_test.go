package timezone

import (
	"testing"
	"time"

	"kantorku_backend/internals/configs"
)

func useZone(t *testing.T, name string) {
	t.Helper()
	prev := configs.CompanyTimezone
	configs.CompanyTimezone = name
	t.Cleanup(func() { configs.CompanyTimezone = prev })
}

// 23:30 lokal sampai 00:30 lokal besoknya harus terbelah 30 menit + 30 menit.
func TestSplitByLocalDayAcrossMidnight(t *testing.T) {
	useZone(t, "Asia/Kolkata")
	loc := Location()

	start := time.Date(2026, 3, 10, 23, 30, 0, 0, loc)
	end := time.Date(2026, 3, 11, 0, 30, 0, 0, loc)

	spans := SplitByLocalDay(start.UTC(), end.UTC())
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	first, second := spans[0], spans[1]
	if got := first.End.Sub(first.Start); got != 30*time.Minute {
		t.Errorf("first span = %v, want 30m", got)
	}
	if got := second.End.Sub(second.Start); got != 30*time.Minute {
		t.Errorf("second span = %v, want 30m", got)
	}
	if FormatDate(first.Date) != "2026-03-10" || FormatDate(second.Date) != "2026-03-11" {
		t.Errorf("dates = %s / %s", FormatDate(first.Date), FormatDate(second.Date))
	}
}

func TestSplitByLocalDaySingleDay(t *testing.T) {
	useZone(t, "Asia/Kolkata")
	loc := Location()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	end := time.Date(2026, 3, 10, 17, 30, 0, 0, loc)

	spans := SplitByLocalDay(start.UTC(), end.UTC())
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].End.Sub(spans[0].Start); got != 8*time.Hour+30*time.Minute {
		t.Errorf("span = %v", got)
	}
}

func TestSplitByLocalDayEmptyInterval(t *testing.T) {
	useZone(t, "Asia/Kolkata")
	now := time.Now().UTC()
	if spans := SplitByLocalDay(now, now); spans != nil {
		t.Errorf("empty interval should give nil, got %v", spans)
	}
	if spans := SplitByLocalDay(now, now.Add(-time.Hour)); spans != nil {
		t.Errorf("inverted interval should give nil, got %v", spans)
	}
}

func TestDateOfUsesCompanyZone(t *testing.T) {
	useZone(t, "Asia/Kolkata")

	// 20:00 UTC = 01:30 IST hari berikutnya.
	instant := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	if got := FormatDate(DateOf(instant)); got != "2026-03-11" {
		t.Errorf("DateOf = %s, want 2026-03-11", got)
	}

	// 17:00 UTC = 22:30 IST hari yang sama.
	instant = time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	if got := FormatDate(DateOf(instant)); got != "2026-03-10" {
		t.Errorf("DateOf = %s, want 2026-03-10", got)
	}
}

func TestOverlapSeconds(t *testing.T) {
	useZone(t, "Asia/Kolkata")
	loc := Location()
	date, _ := ParseDate("2026-03-10")

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int64
	}{
		{
			name:  "fully inside",
			start: time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			end:   time.Date(2026, 3, 10, 10, 0, 0, 0, loc),
			want:  3600,
		},
		{
			name:  "spills into next day",
			start: time.Date(2026, 3, 10, 23, 30, 0, 0, loc),
			end:   time.Date(2026, 3, 11, 0, 30, 0, 0, loc),
			want:  1800,
		},
		{
			name:  "outside the day",
			start: time.Date(2026, 3, 11, 9, 0, 0, 0, loc),
			end:   time.Date(2026, 3, 11, 10, 0, 0, 0, loc),
			want:  0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverlapSeconds(date, tc.start.UTC(), tc.end.UTC()); got != tc.want {
				t.Errorf("OverlapSeconds = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDayWindowIsCalendarBased(t *testing.T) {
	useZone(t, "Asia/Kolkata")
	date, _ := ParseDate("2026-03-10")
	start, end := DayWindow(date)
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("IST day should be 24h, got %v", got)
	}
	// Midnight IST = 18:30 UTC hari sebelumnya.
	if start.Hour() != 18 || start.Minute() != 30 {
		t.Errorf("window start = %v, want 18:30 UTC", start)
	}
}

func TestNextMidnight(t *testing.T) {
	useZone(t, "Asia/Kolkata")
	loc := Location()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	next := NextMidnight(now.UTC()).In(loc)
	if next.Hour() != 0 || next.Day() != 11 {
		t.Errorf("NextMidnight = %v", next)
	}
}
