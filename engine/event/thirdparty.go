package event

import (
	"context"
	"encoding/json"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/tidwall/gjson"
)

// processThirdPartyAck and resource_status events carry an arbitrary
// "details" blob rather than a fixed schema; gjson path queries pull the
// resource id out of it without needing a dedicated struct per upstream
// integration.
func processThirdPartyAck(_ context.Context, ev *domain.Event, _ State) (ProcessResult, error) {
	scope := domain.NewScope()
	if raw, err := json.Marshal(ev.RawPayload); err == nil {
		if resID := gjson.GetBytes(raw, "details.resource_id"); resID.Exists() {
			scope.AddResource(resID.String())
		}
		if resID := gjson.GetBytes(raw, "resource_id"); resID.Exists() {
			scope.AddResource(resID.String())
		}
	}
	return ProcessResult{Scope: scope, Impact: ImpactLow}, nil
}
