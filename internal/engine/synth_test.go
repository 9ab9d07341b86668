package engine

import (
	"strings"
	"testing"
	"time"

	"caltransit/internal/model"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"456 Main St, Brooklyn, NY", "456 Main St"},
		{"  Blue Bottle Coffee , 76 N 4th St", "Blue Bottle Coffee"},
		{"No commas here", "No commas here"},
		{"", "Unknown"},
		{strings.Repeat("x", 40) + ", NY", strings.Repeat("x", 27) + "..."},
	}
	for _, tt := range tests {
		if got := shortName(tt.address); got != tt.want {
			t.Errorf("shortName(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestBuildLeg(t *testing.T) {
	start := time.Date(2026, 3, 9, 9, 35, 0, 0, time.FixedZone("EST", -5*3600))
	end := time.Date(2026, 3, 9, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))

	leg := buildLeg(legSpec{
		originName:      "Home",
		originAddress:   "123 Home St, Brooklyn, NY",
		destinationName: "456 Main St",
		destination:     "456 Main St, Brooklyn, NY",
		start:           start,
		end:             end,
		mode:            model.ModeTransit,
		minutes:         25,
		timezone:        "America/New_York",
		forEvent:        "Coffee",
	}, "8")

	if leg.Summary != "TRANSIT: Home → 456 Main St" {
		t.Errorf("Summary = %q", leg.Summary)
	}
	if leg.Location != "123 Home St, Brooklyn, NY" {
		t.Errorf("Location = %q, want the origin address", leg.Location)
	}
	if leg.ColorID != "8" {
		t.Errorf("ColorID = %q, want 8", leg.ColorID)
	}
	if leg.Start.DateTime != "2026-03-09T09:35:00-05:00" {
		t.Errorf("Start = %q", leg.Start.DateTime)
	}
	if leg.End.DateTime != "2026-03-09T10:00:00-05:00" {
		t.Errorf("End = %q", leg.End.DateTime)
	}
	if leg.Start.TimeZone != "America/New_York" {
		t.Errorf("TimeZone = %q", leg.Start.TimeZone)
	}
	for _, want := range []string{"456 Main St, Brooklyn, NY", "transit", "25 min"} {
		if !strings.Contains(leg.Description, want) {
			t.Errorf("Description %q missing %q", leg.Description, want)
		}
	}
	if leg.Metadata.DurationMinutes != 25 || leg.Metadata.Mode != model.ModeTransit || leg.Metadata.ForEvent != "Coffee" {
		t.Errorf("Metadata = %+v", leg.Metadata)
	}
}
