package engine_test

import (
	"testing"

	"caltransit/internal/engine"
	"caltransit/internal/model"
)

func testSettings() engine.Settings {
	return engine.Settings{
		HomeAddress:    "123 Home St, Brooklyn, NY",
		TransitColorID: "8",
		HoldColorID:    "5",
		VideoKeywords:  []string{"zoom.us", "meet.google", "teams.microsoft", "webex"},
	}
}

func timedEvent(summary, location, start, end string) model.SourceEvent {
	return model.SourceEvent{
		Summary:  summary,
		Location: location,
		Start:    model.EventTime{DateTime: start},
		End:      model.EventTime{DateTime: end},
	}
}

func TestDecide_SkipReasons(t *testing.T) {
	s := testSettings()

	tests := []struct {
		name   string
		event  model.SourceEvent
		reason model.SkipReason
	}{
		{
			name:   "no location",
			event:  timedEvent("Dentist", "", "2026-03-09T10:00:00-05:00", "2026-03-09T11:00:00-05:00"),
			reason: model.SkipNoLocation,
		},
		{
			name: "already a transit event",
			event: func() model.SourceEvent {
				ev := timedEvent("TRANSIT: Home → Office", "123 Home St", "2026-03-09T09:00:00-05:00", "2026-03-09T09:30:00-05:00")
				ev.ColorID = "8"
				return ev
			}(),
			reason: model.SkipAlreadyTransit,
		},
		{
			name: "hold event",
			event: func() model.SourceEvent {
				ev := timedEvent("HOLD: maybe dinner", "789 Oak Ave", "2026-03-09T19:00:00-05:00", "2026-03-09T21:00:00-05:00")
				ev.ColorID = "5"
				return ev
			}(),
			reason: model.SkipHold,
		},
		{
			name: "video call by marker",
			event: func() model.SourceEvent {
				ev := timedEvent("1:1", "456 Main St", "2026-03-09T10:00:00-05:00", "2026-03-09T10:30:00-05:00")
				ev.VideoCall = true
				return ev
			}(),
			reason: model.SkipVideoCallMarker,
		},
		{
			name:   "video call by keyword",
			event:  timedEvent("Standup", "https://company.zoom.us/j/123", "2026-03-09T10:00:00-05:00", "2026-03-09T10:15:00-05:00"),
			reason: model.SkipVideoCallKeyword,
		},
		{
			name:   "video call keyword is case-insensitive",
			event:  timedEvent("Standup", "HTTPS://MEET.GOOGLE.COM/abc", "2026-03-09T10:00:00-05:00", "2026-03-09T10:15:00-05:00"),
			reason: model.SkipVideoCallKeyword,
		},
		{
			name:   "overnight event",
			event:  timedEvent("Red-eye arrival", "456 Main St", "2026-03-09T03:30:00-05:00", "2026-03-09T05:00:00-05:00"),
			reason: model.SkipOvernight,
		},
		{
			name: "all-day event",
			event: model.SourceEvent{
				Summary:  "Conference",
				Location: "456 Main St",
				Start:    model.EventTime{Date: "2026-03-09"},
				End:      model.EventTime{Date: "2026-03-10"},
			},
			reason: model.SkipAllDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Decide(tt.event, s)
			if !got.Skip {
				t.Fatalf("Decide() skip = false, want true")
			}
			if got.Reason != tt.reason {
				t.Errorf("Decide() reason = %v, want %v", got.Reason, tt.reason)
			}
		})
	}
}

func TestDecide_TransitTagWinsRegardlessOfOtherFields(t *testing.T) {
	s := testSettings()
	ev := timedEvent("TRANSIT: A → B", "company.zoom.us", "2026-03-09T03:00:00-05:00", "2026-03-09T04:00:00-05:00")
	ev.ColorID = "8"
	ev.VideoCall = true

	got := engine.Decide(ev, s)
	if got.Reason != model.SkipAlreadyTransit {
		t.Errorf("reason = %v, want SkipAlreadyTransit (tag check precedes the rest)", got.Reason)
	}
}

func TestDecide_NoLocationWinsFirst(t *testing.T) {
	s := testSettings()
	ev := model.SourceEvent{
		Summary:   "Mystery",
		ColorID:   "8",
		VideoCall: true,
		Start:     model.EventTime{Date: "2026-03-09"},
	}
	got := engine.Decide(ev, s)
	if got.Reason != model.SkipNoLocation {
		t.Errorf("reason = %v, want SkipNoLocation", got.Reason)
	}
}

func TestDecide_NormalEventIsNotSkipped(t *testing.T) {
	s := testSettings()
	ev := timedEvent("Coffee", "456 Main St, Brooklyn, NY", "2026-03-09T10:00:00-05:00", "2026-03-09T11:00:00-05:00")

	got := engine.Decide(ev, s)
	if got.Skip {
		t.Errorf("Decide() = skip (%v), want no skip", got.Reason)
	}
}

func TestDecide_SixAMIsNotOvernight(t *testing.T) {
	s := testSettings()
	ev := timedEvent("Early workout", "456 Main St", "2026-03-09T06:00:00-05:00", "2026-03-09T07:00:00-05:00")

	if got := engine.Decide(ev, s); got.Skip {
		t.Errorf("Decide() = skip (%v); the overnight window is [0,6)", got.Reason)
	}
}

func TestIsLowTransit(t *testing.T) {
	patterns := []string{"staten island", "fort lee"}

	tests := []struct {
		address string
		want    bool
	}{
		{"10 Bay St, Staten Island, NY", true},
		{"200 Main St, FORT LEE, NJ", true},
		{"456 Main St, Brooklyn, NY", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := engine.IsLowTransit(tt.address, patterns); got != tt.want {
			t.Errorf("IsLowTransit(%q) = %v, want %v", tt.address, got, tt.want)
		}
	}

	if engine.IsLowTransit("anywhere", nil) {
		t.Error("IsLowTransit with no patterns = true, want false")
	}
}
