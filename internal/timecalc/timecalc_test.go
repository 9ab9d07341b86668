package timecalc_test

import (
	"testing"
	"time"

	"caltransit/internal/timecalc"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{9, "9m"},
		{45, "45m"},
		{60, "1h 0m"},
		{85, "1h 25m"},
		{180, "3h 0m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2026, 3, 9, 23, 30, 0, 0, loc)
	if got := timecalc.DateKey(ts); got != "2026-03-09" {
		t.Errorf("DateKey = %q, want %q", got, "2026-03-09")
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 9, 14, 22, 7, 0, time.UTC)

	start := timecalc.StartOfDay(ts)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("StartOfDay = %v, want midnight", start)
	}
	if !timecalc.SameDay(start, ts) {
		t.Error("StartOfDay changed the day")
	}

	end := timecalc.EndOfDay(ts)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("EndOfDay = %v, want 23:59:59", end)
	}
	if !timecalc.SameDay(end, ts) {
		t.Error("EndOfDay changed the day")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 9, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay(a, b) = false, want true")
	}
	if timecalc.SameDay(b, c) {
		t.Error("SameDay(b, c) = true, want false")
	}
}
