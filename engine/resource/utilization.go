package resource

import (
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
)

// Utilization computes allocated/available hours for one resource over
// [from, to), capped at 1.0.
func Utilization(r *domain.Resource, allocations []domain.ResourceAllocation, from, to time.Time) float64 {
	available := r.Calendar.BusinessHoursBetween(from, to)
	if available <= 0 {
		return 0
	}
	var allocated float64
	for _, a := range allocations {
		if a.ResourceID != r.ResourceID {
			continue
		}
		allocated += a.End.Sub(a.Start).Hours() * float64(a.Quantity)
	}
	u := allocated / available
	if u > 1.0 {
		u = 1.0
	}
	return u
}
