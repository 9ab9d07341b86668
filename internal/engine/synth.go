package engine

import (
	"fmt"
	"strings"
	"time"

	"caltransit/internal/model"
)

// shortName derives a compact display name from an address: the text before
// the first comma, truncated to 30 runes.
func shortName(address string) string {
	if address == "" {
		return "Unknown"
	}
	name := strings.TrimSpace(strings.SplitN(address, ",", 2)[0])
	if runes := []rune(name); len(runes) > 30 {
		name = string(runes[:27]) + "..."
	}
	return name
}

// legSpec is everything the synthesizer needs to build one travel event.
type legSpec struct {
	originName      string
	originAddress   string
	destinationName string
	destination     string
	start           time.Time
	end             time.Time
	mode            model.TravelMode
	minutes         int
	timezone        string
	forEvent        string
}

// buildLeg constructs the synthetic calendar event for a leg. Both shapes —
// the forward leg ending at the next event's start and the return-home leg
// starting at the prior event's end — come through here; only the timestamps
// differ.
func buildLeg(spec legSpec, transitColorID string) model.SynthesizedEvent {
	summary := fmt.Sprintf("%s: %s → %s", spec.mode, spec.originName, spec.destinationName)
	description := fmt.Sprintf("Travel from %s to %s by %s (%d min)",
		spec.originAddress, spec.destination, strings.ToLower(string(spec.mode)), spec.minutes)

	return model.SynthesizedEvent{
		Summary:     summary,
		Location:    spec.originAddress,
		ColorID:     transitColorID,
		Start:       eventTime(spec.start, spec.timezone),
		End:         eventTime(spec.end, spec.timezone),
		Description: description,
		Metadata: model.LegMetadata{
			DurationMinutes: spec.minutes,
			Mode:            spec.mode,
			ForEvent:        spec.forEvent,
		},
	}
}

func eventTime(t time.Time, timezone string) model.EventTime {
	return model.EventTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: timezone,
	}
}
