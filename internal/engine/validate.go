package engine

import (
	"context"

	"caltransit/internal/model"
)

// Thresholds are the tunable duration bounds of the validator, in minutes.
type Thresholds struct {
	// MaxMinutes is the absolute sanity ceiling for any leg.
	MaxMinutes int
	// StandardMinutes is the bound below which a candidate is considered a
	// short trip that may be rejected as noise.
	StandardMinutes int
	// MinMinutes is the absolute floor below which a leg is not worth tracking.
	MinMinutes int
	// WalkableMinutes is the longest walk worth substituting for a short ride.
	WalkableMinutes int
}

// DefaultThresholds returns the standard validator bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxMinutes:      180,
		StandardMinutes: 10,
		MinMinutes:      4,
		WalkableMinutes: 15,
	}
}

// Verdict is the validator's decision on a candidate leg duration. When Mode
// is non-empty the caller must override the oracle's mode (and, for walking
// legs, the minutes) with the values here.
type Verdict struct {
	OK      bool
	Reason  string
	Mode    model.TravelMode
	Minutes int
}

// DurationValidator decides whether a candidate trip duration is worth
// logging, and whether a short ride should become a walking leg instead.
// Very short legs are usually noise unless they are realistically walkable,
// in which case a walking leg is the more informative record.
type DurationValidator struct {
	Oracle     RouteOracle
	LowTransit []string
	Bounds     Thresholds
}

// Validate applies the tiered duration policy to a candidate leg of the given
// minutes. Legs within walking range trigger a secondary walking query; a
// failed walk query degrades to accepting the original candidate rather than
// failing the leg.
func (v *DurationValidator) Validate(ctx context.Context, minutes int, origin, destination string) Verdict {
	b := v.Bounds
	if b.MaxMinutes == 0 {
		b = DefaultThresholds()
	}

	if minutes > b.MaxMinutes {
		return Verdict{Reason: "too long"}
	}
	if minutes < b.MinMinutes {
		return Verdict{Reason: "too short"}
	}
	if minutes > b.WalkableMinutes {
		// Beyond walking range; whatever the oracle picked stands.
		return Verdict{OK: true}
	}

	// Short-trip zone. Walking is assumed infeasible at low-transit
	// locations, so a short ride there is simply a drive.
	if IsLowTransit(origin, v.LowTransit) || IsLowTransit(destination, v.LowTransit) {
		if minutes >= b.StandardMinutes {
			return Verdict{OK: true}
		}
		return Verdict{OK: true, Mode: model.ModeDrive, Minutes: minutes}
	}

	walk, err := v.walkMinutes(ctx, origin, destination)
	if err != nil || walk == 0 || walk > b.WalkableMinutes {
		// Walk unknown or not worth it; keep the ride.
		if minutes >= b.StandardMinutes {
			return Verdict{OK: true}
		}
		return Verdict{OK: true, Mode: model.ModeDrive, Minutes: minutes}
	}
	if walk < b.MinMinutes {
		if minutes >= b.StandardMinutes {
			return Verdict{OK: true}
		}
		return Verdict{Reason: "too short to track"}
	}
	return Verdict{OK: true, Mode: model.ModeWalk, Minutes: walk}
}

// walkMinutes queries walking time; 0 means no walking route exists.
func (v *DurationValidator) walkMinutes(ctx context.Context, origin, destination string) (int, error) {
	if v.Oracle == nil {
		return 0, nil
	}
	res, err := v.Oracle.Route(ctx, origin, destination, model.ModeWalk, noDeparture)
	if err != nil {
		return 0, err
	}
	if res == nil {
		return 0, nil
	}
	return res.Minutes, nil
}
