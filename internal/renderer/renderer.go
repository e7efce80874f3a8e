// Package renderer provides presentation helpers for the dialog
// transports. Each transport adapts these to its own surface.
package renderer

import "strings"

// IconFor maps a quick-choice label to its icon hint. The mapping is
// deterministic substring containment, checked in this order.
func IconFor(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "appointment"):
		return "calendar-check"
	case strings.Contains(lower, "service"):
		return "list-alt"
	case strings.Contains(lower, "emerg"):
		return "heartbeat"
	case strings.Contains(lower, "chang"):
		return "sync-alt"
	case strings.Contains(lower, "yes"):
		return "check"
	case strings.Contains(lower, "no"):
		return "times"
	default:
		return "star"
	}
}
