package event

import (
	"context"

	"github.com/aeroqec/qecsched/engine/domain"
)

var sapReplanStatuses = map[string]bool{
	"approved": true, "released": true, "rejected": true, "cancelled": true,
}

// processSAPUpdate carries no job/resource scope of its own — an
// instruction's status change affects whichever tasks the caller has
// already scoped to that work package.
func processSAPUpdate(_ context.Context, ev *domain.Event, _ State) (ProcessResult, error) {
	newStatus := payloadString(ev.RawPayload, "new_status")
	requiresReplan := sapReplanStatuses[newStatus]

	impact := ImpactLow
	switch newStatus {
	case "approved", "released":
		impact = ImpactMedium
	case "rejected", "cancelled":
		impact = ImpactHigh
	}

	return ProcessResult{
		Scope:          domain.NewScope(),
		RequiresReplan: requiresReplan,
		Impact:         impact,
	}, nil
}
