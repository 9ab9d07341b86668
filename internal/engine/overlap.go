package engine

import (
	"time"

	"caltransit/internal/model"
)

// Overlaps reports whether the candidate span intersects an existing
// transit-tagged event among dayEvents. Only pre-existing transit legs are
// considered; this prevents a re-run from duplicating legs it created before.
// Intervals are half-open, so spans sharing only a boundary instant do not
// overlap.
func Overlaps(candidateStart, candidateEnd time.Time, dayEvents []model.SourceEvent, transitColorID string) bool {
	for _, ev := range dayEvents {
		if ev.ColorID != transitColorID {
			continue
		}
		start, err := ev.Start.Time()
		if err != nil {
			continue
		}
		end, err := ev.End.Time()
		if err != nil {
			continue
		}
		if candidateStart.Before(end) && candidateEnd.After(start) {
			return true
		}
	}
	return false
}
