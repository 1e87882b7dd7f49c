package event

import (
	"context"
	"strings"

	"github.com/aeroqec/qecsched/engine/domain"
)

var severityReplan = map[string]bool{"high": true, "critical": true}
var craneGroundingWeather = map[string]bool{"typhoon": true, "storm": true, "heavy_rain": true}
var craneGroundingAreas = map[string]bool{"outdoor_area": true, "crane_zone": true}

// processWeather grounds crane resources in an affected area when the
// weather type is one that plausibly stops crane operations, and scopes to
// every job scheduled in one of the affected areas. "Crane" resources are
// identified by name, since the domain model has no dedicated equipment
// category field for physical resources.
func processWeather(_ context.Context, ev *domain.Event, st State) (ProcessResult, error) {
	weatherType := payloadString(ev.RawPayload, "weather_type")
	severity := payloadString(ev.RawPayload, "severity")
	affectedAreas := stringSlice(ev.RawPayload["affected_areas"])

	scope := domain.NewScope()
	var unavailable []ResourceUnavailability

	areaSet := make(map[string]bool, len(affectedAreas))
	for _, a := range affectedAreas {
		areaSet[a] = true
	}

	groundsCranes := craneGroundingWeather[weatherType] && anyAreaMatches(affectedAreas, craneGroundingAreas)
	if groundsCranes {
		for _, r := range st.Resources {
			if strings.Contains(strings.ToLower(r.Name), "crane") {
				scope.AddResource(r.ResourceID)
				unavailable = append(unavailable, ResourceUnavailability{ResourceID: r.ResourceID, Reason: "weather: " + weatherType})
			}
		}
	}

	for _, j := range st.Jobs {
		if j.Area != "" && areaSet[j.Area] {
			scope.AddJob(j.JobID)
		}
	}

	impact := ImpactLow
	if severityReplan[severity] {
		impact = ImpactHigh
	}

	return ProcessResult{
		Scope:               scope,
		RequiresReplan:      severityReplan[severity],
		Impact:              impact,
		ResourceUnavailable: unavailable,
	}, nil
}

func anyAreaMatches(areas []string, set map[string]bool) bool {
	for _, a := range areas {
		if set[a] {
			return true
		}
	}
	return false
}

func stringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
