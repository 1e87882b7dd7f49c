// Package resource holds pure functions over an in-memory set of resources
// and their allocations: availability checks, allocation, conflict
// detection, and utilization. Nothing here is stateful beyond the
// request-scoped cache a caller may attach.
package resource

import (
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start, End time.Time
}

// overlaps implements the touching-boundaries-not-overlapping predicate
// shared by every time-interval check in this package:
// ¬(end1 <= start2 ∨ end2 <= start1).
func (w Window) overlaps(o Window) bool {
	return !(w.End.Compare(o.Start) <= 0 || o.End.Compare(w.Start) <= 0)
}

// CheckAvailability reports whether qty units of r can be allocated over
// window, given the resource's own active/calendar/explicit-period state
// and its existing allocations.
func CheckAvailability(r *domain.Resource, window Window, qty int, existing []domain.ResourceAllocation) (bool, error) {
	if r == nil || !r.IsActive {
		return false, nil
	}
	working, err := isAvailableAt(r, window.Start)
	if err != nil {
		return false, err
	}
	if !working {
		return false, nil
	}
	used := 0
	for _, a := range existing {
		if a.ResourceID != r.ResourceID {
			continue
		}
		if window.overlaps(Window{Start: a.Start, End: a.End}) {
			used += a.Quantity
		}
	}
	return used+qty <= r.AvailableQuantity, nil
}

// isAvailableAt checks the calendar and any explicit availability period
// covering t, with an explicit period taking precedence over the calendar
// for the window it covers.
func isAvailableAt(r *domain.Resource, t time.Time) (bool, error) {
	for _, p := range r.AvailabilityPeriods {
		if !t.Before(p.Start) && t.Before(p.End) {
			return p.Status == domain.StatusAvailable, nil
		}
	}
	return r.Calendar.IsWorkingInstant(t)
}
