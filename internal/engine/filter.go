package engine

import (
	"strings"

	"caltransit/internal/model"
)

// Decide determines whether an event participates in transit calculation.
// Checks are ordered and short-circuit on the first match; the decision is
// deterministic given identical inputs.
func Decide(ev model.SourceEvent, s Settings) model.SkipDecision {
	if ev.Location == "" {
		return model.SkipDecision{Skip: true, Reason: model.SkipNoLocation}
	}

	// Never synthesize travel to a travel event.
	if ev.ColorID != "" && ev.ColorID == s.TransitColorID {
		return model.SkipDecision{Skip: true, Reason: model.SkipAlreadyTransit}
	}

	// Tentative holds are not confirmed plans.
	if s.HoldColorID != "" && ev.ColorID == s.HoldColorID {
		return model.SkipDecision{Skip: true, Reason: model.SkipHold}
	}

	if ev.VideoCall {
		return model.SkipDecision{Skip: true, Reason: model.SkipVideoCallMarker}
	}

	loc := strings.ToLower(ev.Location)
	for _, kw := range s.VideoKeywords {
		if kw != "" && strings.Contains(loc, strings.ToLower(kw)) {
			return model.SkipDecision{Skip: true, Reason: model.SkipVideoCallKeyword}
		}
	}

	// Overnight events, judged in the event's own local time.
	if ts, err := ev.Start.Time(); err == nil {
		if h := ts.Hour(); h >= 0 && h < 6 {
			return model.SkipDecision{Skip: true, Reason: model.SkipOvernight}
		}
	}

	if ev.Start.IsAllDay() {
		return model.SkipDecision{Skip: true, Reason: model.SkipAllDay}
	}

	return model.SkipDecision{}
}
