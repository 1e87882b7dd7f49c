package event

import (
	"context"
	"fmt"
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
)

// State bundles the entities a processor needs to resolve scope from a raw
// payload: which jobs consume a resource or material, which resources exist
// in which area.
type State struct {
	Jobs      []*domain.Job
	Resources []*domain.Resource
	Now       time.Time
}

// Processor handles one event type, turning its RawPayload into a
// ProcessResult.
type Processor func(ctx context.Context, ev *domain.Event, st State) (ProcessResult, error)

// processors is the per-type dispatch table.
var processors = map[domain.EventType]Processor{
	domain.EventETAChange:     processETAChange,
	domain.EventSAPUpdate:     processSAPUpdate,
	domain.EventWeather:       processWeather,
	domain.EventThirdPartyAck: processThirdPartyAck,
}

// Dispatch looks up and runs the processor for ev.Type. Event types with no
// dedicated processor (resource_available, resource_unavailable,
// task_complete, emergency) are accepted and return an empty scope with low
// impact; unlike third_party_ack/resource_status, no resource id is read
// from their payload.
func Dispatch(ctx context.Context, ev *domain.Event, st State) (ProcessResult, error) {
	if p, ok := processors[ev.Type]; ok {
		return p(ctx, ev, st)
	}
	return ProcessResult{Scope: domain.NewScope(), Impact: ImpactLow}, nil
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadTime(payload map[string]any, key string) (time.Time, bool) {
	v, ok := payload[key]
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

func mustTime(payload map[string]any, key string) (time.Time, error) {
	t, ok := payloadTime(payload, key)
	if !ok {
		return time.Time{}, fmt.Errorf("event: payload field %q is required and must be an RFC3339 time", key)
	}
	return t, nil
}
