package availability

import (
	"time"

	"booking-service/internal/calendar"
	"booking-service/internal/clock"
)

// DefaultLeadTime is the minimum gap between now and a bookable slot.
const DefaultLeadTime = 210 * time.Minute

// Reconciler filters candidate slots against the lead-time cutoff and the
// calendar's busy intervals.
type Reconciler struct {
	Location *time.Location
	Step     time.Duration
	LeadTime time.Duration
	Clock    clock.Clock
}

// Reconcile keeps the candidates on date that start no earlier than
// now+LeadTime and overlap no busy interval. Order is preserved.
func (r Reconciler) Reconcile(date time.Time, candidates []TimeOfDay, busy []calendar.Interval) []TimeOfDay {
	cutoff := r.Clock.Now().Add(r.LeadTime)

	out := make([]TimeOfDay, 0, len(candidates))
	for _, c := range candidates {
		start := c.On(date, r.Location)
		slot := calendar.Interval{Start: start, End: start.Add(r.Step)}
		if slot.Start.Before(cutoff) {
			continue
		}
		if overlapsAny(slot, busy) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func overlapsAny(slot calendar.Interval, busy []calendar.Interval) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
