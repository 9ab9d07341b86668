package engine

import (
	"strings"
	"time"

	"caltransit/internal/model"
)

// flightKeywords mark events that are outbound or return flights.
var flightKeywords = []string{"flight", "fly to", "✈"}

// stayKeywords mark lodging-style events that span a trip.
var stayKeywords = []string{"hotel", "airbnb", "lodging", "hostel", "resort", "stay at", "staying at"}

func titleMatches(summary string, keywords []string) bool {
	lower := strings.ToLower(summary)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DetectTripDates scans all events and returns the set of YYYY-MM-DD dates on
// which the traveler is assumed to be away. Two independent rules, unioned:
//
//   - a flight-keyword title whose location mentions one of the home airport
//     identifiers marks the event's own date (departure day);
//   - a stay-keyword title on an all-day date-range event marks every date in
//     [startDate, endDate), end exclusive per calendar all-day semantics.
//
// Suppressing whole days rather than single legs is deliberate: while
// traveling, the "current location" the day walk relies on is unknowable, so
// any leg generated would be actively wrong.
func DetectTripDates(events []model.SourceEvent, homeAirports []string) map[string]bool {
	tripDates := make(map[string]bool)

	for _, ev := range events {
		if titleMatches(ev.Summary, flightKeywords) && mentionsAirport(ev.Location, homeAirports) {
			if key := ev.Start.DateKey(); key != "" {
				tripDates[key] = true
			}
		}

		if titleMatches(ev.Summary, stayKeywords) && ev.Start.IsAllDay() && ev.End.IsAllDay() {
			markDateRange(tripDates, ev.Start.Date, ev.End.Date)
		}
	}

	return tripDates
}

func mentionsAirport(location string, homeAirports []string) bool {
	if location == "" {
		return false
	}
	lower := strings.ToLower(location)
	for _, ap := range homeAirports {
		if ap != "" && strings.Contains(lower, strings.ToLower(ap)) {
			return true
		}
	}
	return false
}

// markDateRange adds every date in [start, end) to the set.
func markDateRange(set map[string]bool, start, end string) {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return
	}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		set[d.Format("2006-01-02")] = true
	}
}
