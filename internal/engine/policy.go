package engine

import "strings"

// IsLowTransit reports whether the address matches a configured low-transit
// pattern (case-insensitive substring). Legs touching such a location are
// forced onto driving, since neither transit nor walking is practical there.
func IsLowTransit(address string, patterns []string) bool {
	if address == "" {
		return false
	}
	lower := strings.ToLower(address)
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
