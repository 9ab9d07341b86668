// Package engine turns a raw sequence of calendar events into synthetic
// travel events. It walks each day's events in order, tracks where the
// traveler currently is, and asks the route oracle how to get to the next
// place; filtering, trip detection, duration validation and overlap checks
// decide which gaps actually become legs.
package engine

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"caltransit/internal/model"
	"caltransit/internal/timecalc"
)

// noDeparture is passed when no departure time is known.
var noDeparture time.Time

// RouteOracle is the travel-time service the engine consults. QueryLeg
// applies the transit/driving preference for a leg; Route queries one mode
// directly (the validator uses it for walking checks). Both return (nil, nil)
// when no viable route exists.
type RouteOracle interface {
	QueryLeg(ctx context.Context, origin, destination string, forceDrive bool, departure time.Time) (*model.RouteResult, error)
	Route(ctx context.Context, origin, destination string, mode model.TravelMode, departure time.Time) (*model.RouteResult, error)
}

// Settings are the per-run inputs of the engine. Immutable during a run.
type Settings struct {
	HomeAddress         string
	TransitColorID      string
	HoldColorID         string
	Timezone            string
	VideoKeywords       []string
	LowTransitLocations []string
	HomeAirports        []string
	DetectTrips         bool
}

// Engine is the orchestrator. The only state it carries across calls within
// a run is the evolving per-day "current location"; each day starts fresh
// from home and nothing survives the run.
type Engine struct {
	oracle    RouteOracle
	settings  Settings
	validator *DurationValidator
	progress  io.Writer
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress directs the per-event audit log to w. Every skip and every
// planned leg is reported there, so a dry run is reviewable before any write.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) { e.progress = w }
}

// WithNow overrides the clock used to decide which days are in the past.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithThresholds overrides the duration validator bounds.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.validator.Bounds = t }
}

// New creates an Engine. An empty home address is a configuration defect and
// fails immediately rather than being routed around at run time.
func New(oracle RouteOracle, settings Settings, opts ...Option) (*Engine, error) {
	settings.HomeAddress = strings.TrimSpace(settings.HomeAddress)
	if settings.HomeAddress == "" {
		return nil, fmt.Errorf("engine: home address is empty")
	}

	e := &Engine{
		oracle:   oracle,
		settings: settings,
		validator: &DurationValidator{
			Oracle:     oracle,
			LowTransit: settings.LowTransitLocations,
			Bounds:     DefaultThresholds(),
		},
		progress: io.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) logf(format string, args ...any) {
	fmt.Fprintf(e.progress, format+"\n", args...)
}

// sortKey orders events chronologically; all-day events sort at their date's
// midnight UTC.
func sortKey(ev model.SourceEvent) time.Time {
	if ts, err := ev.Start.Time(); err == nil {
		return ts
	}
	if d, err := time.Parse("2006-01-02", ev.Start.Date); err == nil {
		return d
	}
	return time.Time{}
}

// sameLocation compares two addresses ignoring case and whitespace runs.
func sameLocation(a, b string) bool {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return norm(a) == norm(b)
}

func eventTitle(ev model.SourceEvent) string {
	if ev.Summary == "" {
		return "(no title)"
	}
	return ev.Summary
}

// dayState is the orchestrator state threaded through one day's walk.
type dayState struct {
	address  string
	name     string
	timezone string
	lastEnd  time.Time
}

// Run derives travel legs for the given events. Oracle failures are isolated
// per leg: a failed gap is logged and skipped, never aborting the run. Days
// in the past and detected trip days produce no legs.
func (e *Engine) Run(ctx context.Context, events []model.SourceEvent) ([]model.SynthesizedEvent, error) {
	sorted := append([]model.SourceEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]).Before(sortKey(sorted[j]))
	})

	byDay := GroupByDay(sorted)

	tripDates := map[string]bool{}
	if e.settings.DetectTrips {
		tripDates = DetectTripDates(sorted, e.settings.HomeAirports)
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	today := timecalc.DateKey(e.now())

	var legs []model.SynthesizedEvent
	for _, date := range dates {
		dayEvents := byDay[date]

		if date < today {
			e.logf("=== %s — in the past, skipped", date)
			continue
		}
		if tripDates[date] {
			e.logf("=== %s — trip day, skipped (%d events)", date, len(dayEvents))
			continue
		}

		e.logf("=== %s (%d events) ===", date, len(dayEvents))
		legs = append(legs, e.runDay(ctx, dayEvents)...)
	}
	return legs, nil
}

// runDay walks one day's events from home and back.
func (e *Engine) runDay(ctx context.Context, dayEvents []model.SourceEvent) []model.SynthesizedEvent {
	state := dayState{
		address:  e.settings.HomeAddress,
		name:     "Home",
		timezone: e.settings.Timezone,
	}

	var legs []model.SynthesizedEvent
	for _, ev := range dayEvents {
		title := eventTitle(ev)

		if d := Decide(ev, e.settings); d.Skip {
			e.logf("  SKIP: %s (%s)", title, d.Reason)
			continue
		}

		if sameLocation(ev.Location, state.address) {
			// No travel needed, but the next hop departs after this event.
			e.logf("  SKIP: %s (same location as previous)", title)
			if end, err := ev.End.Time(); err == nil {
				state.lastEnd = end
			}
			continue
		}

		start, err := ev.Start.Time()
		if err != nil {
			e.logf("  SKIP: %s (%v)", title, err)
			continue
		}

		leg, ok := e.planForwardLeg(ctx, state, ev, start, dayEvents)
		if ok {
			legs = append(legs, leg)
		}

		// The traveler moves to the event's location whether or not a leg
		// was logged for the gap.
		state.address = ev.Location
		state.name = shortName(ev.Location)
		state.timezone = eventTimezone(ev, e.settings.Timezone)
		if end, endErr := ev.End.Time(); endErr == nil {
			state.lastEnd = end
		} else {
			state.lastEnd = start
		}
	}

	// After the last event of the day, head home.
	if !sameLocation(state.address, e.settings.HomeAddress) && !state.lastEnd.IsZero() {
		if leg, ok := e.planReturnLeg(ctx, state, dayEvents); ok {
			legs = append(legs, leg)
		}
	}
	return legs
}

func eventTimezone(ev model.SourceEvent, fallback string) string {
	if ev.Start.TimeZone != "" {
		return ev.Start.TimeZone
	}
	return fallback
}

// planForwardLeg plans the leg that ends exactly when ev starts.
func (e *Engine) planForwardLeg(ctx context.Context, state dayState, ev model.SourceEvent, start time.Time, dayEvents []model.SourceEvent) (model.SynthesizedEvent, bool) {
	title := eventTitle(ev)
	destination := ev.Location
	destinationName := shortName(destination)

	mode, minutes, ok := e.resolveLeg(ctx, state.address, destination, state.lastEnd, title)
	if !ok {
		return model.SynthesizedEvent{}, false
	}

	legStart := start.Add(-time.Duration(minutes) * time.Minute)
	if Overlaps(legStart, start, dayEvents, e.settings.TransitColorID) {
		e.logf("  SKIP: %s (overlaps an existing transit event)", title)
		return model.SynthesizedEvent{}, false
	}

	leg := buildLeg(legSpec{
		originName:      state.name,
		originAddress:   state.address,
		destinationName: destinationName,
		destination:     destination,
		start:           legStart,
		end:             start,
		mode:            mode,
		minutes:         minutes,
		timezone:        eventTimezone(ev, e.settings.Timezone),
		forEvent:        title,
	}, e.settings.TransitColorID)

	e.logf("  + %s (%d min %s from %s)", leg.Summary, minutes, strings.ToLower(string(mode)), state.name)
	return leg, true
}

// planReturnLeg plans the leg home, anchored to the last event's end.
func (e *Engine) planReturnLeg(ctx context.Context, state dayState, dayEvents []model.SourceEvent) (model.SynthesizedEvent, bool) {
	home := e.settings.HomeAddress

	mode, minutes, ok := e.resolveLeg(ctx, state.address, home, state.lastEnd, "return home")
	if !ok {
		return model.SynthesizedEvent{}, false
	}

	legEnd := state.lastEnd.Add(time.Duration(minutes) * time.Minute)
	if Overlaps(state.lastEnd, legEnd, dayEvents, e.settings.TransitColorID) {
		e.logf("  SKIP: return home (overlaps an existing transit event)")
		return model.SynthesizedEvent{}, false
	}

	leg := buildLeg(legSpec{
		originName:      state.name,
		originAddress:   state.address,
		destinationName: "Home",
		destination:     home,
		start:           state.lastEnd,
		end:             legEnd,
		mode:            mode,
		minutes:         minutes,
		timezone:        state.timezone,
		forEvent:        "return home",
	}, e.settings.TransitColorID)

	e.logf("  + %s (%d min %s)", leg.Summary, minutes, strings.ToLower(string(mode)))
	return leg, true
}

// resolveLeg queries the oracle for one gap and validates the answer. All
// rejections and oracle failures are logged and reported as !ok; they never
// propagate.
func (e *Engine) resolveLeg(ctx context.Context, origin, destination string, departure time.Time, forWhat string) (model.TravelMode, int, bool) {
	forceDrive := IsLowTransit(origin, e.settings.LowTransitLocations) ||
		IsLowTransit(destination, e.settings.LowTransitLocations)

	res, err := e.oracle.QueryLeg(ctx, origin, destination, forceDrive, departure)
	if err != nil {
		e.logf("  ! %s: route query failed: %v", forWhat, err)
		return "", 0, false
	}
	if res == nil {
		e.logf("  SKIP: %s (no viable route)", forWhat)
		return "", 0, false
	}

	verdict := e.validator.Validate(ctx, res.Minutes, origin, destination)
	if !verdict.OK {
		e.logf("  SKIP: %s (%d min: %s)", forWhat, res.Minutes, verdict.Reason)
		return "", 0, false
	}

	mode, minutes := res.Mode, res.Minutes
	if verdict.Mode != "" {
		mode = verdict.Mode
	}
	if verdict.Minutes > 0 {
		minutes = verdict.Minutes
	}
	return mode, minutes, true
}
