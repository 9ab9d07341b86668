package engine

import "caltransit/internal/model"

// GroupByDay partitions events into per-calendar-day buckets keyed by
// YYYY-MM-DD, taken from whichever of dateTime or date the start carries.
// Events with neither are dropped; they cannot be placed on a day. Source
// order is preserved within a bucket, nothing more.
func GroupByDay(events []model.SourceEvent) map[string][]model.SourceEvent {
	byDay := make(map[string][]model.SourceEvent)
	for _, ev := range events {
		key := ev.Start.DateKey()
		if key == "" {
			continue
		}
		byDay[key] = append(byDay[key], ev)
	}
	return byDay
}
