package event

import (
	"context"

	"github.com/aeroqec/qecsched/engine/domain"
)

// processETAChange scopes to every job consuming the changed resource or
// material, and classifies the delay's replan urgency.
func processETAChange(_ context.Context, ev *domain.Event, st State) (ProcessResult, error) {
	newETA, err := mustTime(ev.RawPayload, "new_eta")
	if err != nil {
		return ProcessResult{}, err
	}
	resourceID := payloadString(ev.RawPayload, "resource_id")
	materialID := payloadString(ev.RawPayload, "material_id")

	var delayHours float64
	if oldETA, ok := payloadTime(ev.RawPayload, "old_eta"); ok {
		delayHours = newETA.Sub(oldETA).Hours()
	}

	scope := domain.NewScope()
	for _, j := range st.Jobs {
		if resourceID != "" && jobUsesResource(j, resourceID) {
			scope.AddJob(j.JobID)
		}
		if materialID != "" && jobUsesMaterial(j, materialID) {
			scope.AddJob(j.JobID)
		}
	}
	if resourceID != "" {
		scope.AddResource(resourceID)
	}

	return ProcessResult{
		Scope:          scope,
		DelayHours:     delayHours,
		RequiresReplan: delayHours > 0.5,
		Impact:         etaImpact(delayHours),
	}, nil
}

func etaImpact(delayHours float64) Impact {
	switch {
	case delayHours > 4:
		return ImpactHigh
	case delayHours > 1:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func jobUsesResource(j *domain.Job, resourceID string) bool {
	for _, req := range j.RequiredResources {
		if req.ResourceID == resourceID {
			return true
		}
	}
	return false
}

func jobUsesMaterial(j *domain.Job, materialID string) bool {
	for _, m := range j.RequiredMaterials {
		if m == materialID {
			return true
		}
	}
	return false
}
