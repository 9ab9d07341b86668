package engine_test

import (
	"testing"
	"time"

	"caltransit/internal/engine"
	"caltransit/internal/model"
)

func transitLeg(start, end string) model.SourceEvent {
	ev := timedEvent("TRANSIT: Home → Office", "123 Home St", start, end)
	ev.ColorID = "8"
	return ev
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestOverlaps(t *testing.T) {
	existing := []model.SourceEvent{
		transitLeg("2026-03-09T09:30:00-05:00", "2026-03-09T10:00:00-05:00"),
	}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"contained candidate", "2026-03-09T09:40:00-05:00", "2026-03-09T10:00:00-05:00", true},
		{"candidate containing the leg", "2026-03-09T09:00:00-05:00", "2026-03-09T10:30:00-05:00", true},
		{"partial overlap at the front", "2026-03-09T09:00:00-05:00", "2026-03-09T09:45:00-05:00", true},
		{"touching at the end boundary only", "2026-03-09T10:00:00-05:00", "2026-03-09T10:30:00-05:00", false},
		{"touching at the start boundary only", "2026-03-09T09:00:00-05:00", "2026-03-09T09:30:00-05:00", false},
		{"disjoint", "2026-03-09T12:00:00-05:00", "2026-03-09T12:30:00-05:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Overlaps(mustTime(t, tt.start), mustTime(t, tt.end), existing, "8")
			if got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// Overlap is symmetric: if span A overlaps span B, testing B against an
// existing A reports the same answer.
func TestOverlaps_Symmetric(t *testing.T) {
	aStart, aEnd := "2026-03-09T09:30:00-05:00", "2026-03-09T10:00:00-05:00"
	bStart, bEnd := "2026-03-09T09:45:00-05:00", "2026-03-09T10:15:00-05:00"

	aAgainstB := engine.Overlaps(mustTime(t, aStart), mustTime(t, aEnd),
		[]model.SourceEvent{transitLeg(bStart, bEnd)}, "8")
	bAgainstA := engine.Overlaps(mustTime(t, bStart), mustTime(t, bEnd),
		[]model.SourceEvent{transitLeg(aStart, aEnd)}, "8")

	if aAgainstB != bAgainstA {
		t.Errorf("overlap not symmetric: %v vs %v", aAgainstB, bAgainstA)
	}
	if !aAgainstB {
		t.Error("expected these spans to overlap")
	}
}

func TestOverlaps_IgnoresNonTransitEvents(t *testing.T) {
	meeting := timedEvent("Standup", "456 Main St", "2026-03-09T09:30:00-05:00", "2026-03-09T10:00:00-05:00")

	got := engine.Overlaps(
		mustTime(t, "2026-03-09T09:40:00-05:00"),
		mustTime(t, "2026-03-09T10:00:00-05:00"),
		[]model.SourceEvent{meeting}, "8")
	if got {
		t.Error("a plain meeting must not block a candidate leg")
	}
}
