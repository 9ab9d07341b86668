package model

import (
	"fmt"
	"time"
)

// EventTime mirrors the Google Calendar start/end structure: timed events
// carry DateTime (RFC 3339 with offset), all-day events carry Date only.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// IsAllDay reports whether the time is a date-only all-day marker.
func (t EventTime) IsAllDay() bool {
	return t.DateTime == "" && t.Date != ""
}

// Time parses the precise timestamp. It fails for all-day markers.
func (t EventTime) Time() (time.Time, error) {
	if t.DateTime == "" {
		return time.Time{}, fmt.Errorf("event time %q has no dateTime", t.Date)
	}
	ts, err := time.Parse(time.RFC3339, t.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse event time %q: %w", t.DateTime, err)
	}
	return ts, nil
}

// DateKey returns the calendar date (YYYY-MM-DD) of the event time, from
// whichever of dateTime or date is present. Empty when neither is set.
func (t EventTime) DateKey() string {
	if t.DateTime != "" {
		if len(t.DateTime) >= 10 {
			return t.DateTime[:10]
		}
		return ""
	}
	return t.Date
}

// SourceEvent is a single-occurrence calendar event as read from the store.
// The engine never writes these.
type SourceEvent struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Location  string    `json:"location"`
	Start     EventTime `json:"start"`
	End       EventTime `json:"end"`
	ColorID   string    `json:"colorId,omitempty"`
	VideoCall bool      `json:"videoCall,omitempty"`
}

// TravelMode is the mode of a route query or a synthesized leg.
type TravelMode string

const (
	ModeTransit TravelMode = "TRANSIT"
	ModeDrive   TravelMode = "DRIVE"
	ModeWalk    TravelMode = "WALK"
)

// RouteResult is one answer from the route oracle. Minutes is always a
// positive whole number (seconds rounded up).
type RouteResult struct {
	Minutes        int        `json:"duration_minutes"`
	DistanceMeters int        `json:"distance_meters"`
	Mode           TravelMode `json:"mode"`
}

// SkipReason identifies why an event was excluded from transit calculation.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNoLocation
	SkipAlreadyTransit
	SkipHold
	SkipVideoCallMarker
	SkipVideoCallKeyword
	SkipOvernight
	SkipAllDay
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoLocation:
		return "no location"
	case SkipAlreadyTransit:
		return "already a transit event"
	case SkipHold:
		return "hold event"
	case SkipVideoCallMarker:
		return "video call (conference data)"
	case SkipVideoCallKeyword:
		return "video call (keyword in location)"
	case SkipOvernight:
		return "overnight event (12am-6am)"
	case SkipAllDay:
		return "all-day event"
	default:
		return "not skipped"
	}
}

// SkipDecision is the outcome of the event filter. Exactly one reason
// accompanies every skip.
type SkipDecision struct {
	Skip   bool
	Reason SkipReason
}

// LegMetadata carries per-leg details for the dry-run audit output. It is
// stripped before insertion into the calendar.
type LegMetadata struct {
	DurationMinutes int        `json:"duration_minutes"`
	Mode            TravelMode `json:"mode"`
	ForEvent        string     `json:"for_event"`
}

// SynthesizedEvent is one travel leg built by the engine. Location holds the
// origin address of the leg; the destination lives in the description and
// metadata. Immutable after construction.
type SynthesizedEvent struct {
	Summary     string      `json:"summary"`
	Location    string      `json:"location"`
	ColorID     string      `json:"colorId"`
	Start       EventTime   `json:"start"`
	End         EventTime   `json:"end"`
	Description string      `json:"description"`
	Metadata    LegMetadata `json:"_metadata"`
}
