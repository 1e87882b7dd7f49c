package scheduling

import (
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/gate"
)

// ErrorPayload is the wire-visible shape of a failed plan response.
type ErrorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Response is a plan-creation outcome: either a schedule with its gate and
// preparation-task snapshot, or an error payload. Exactly one of Schedule
// and Error is set.
type Response struct {
	PlanID    string    `json:"plan_id"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`

	Gates            []gate.Result             `json:"gates,omitempty"`
	GateSummary      gate.Summary              `json:"gate_summary,omitempty"`
	PreparationTasks []*domain.PreparationTask `json:"preparation_tasks,omitempty"`
	Makespan         string                    `json:"makespan,omitempty"`
	Schedule         *domain.Schedule          `json:"schedule,omitempty"`

	Error *ErrorPayload `json:"error,omitempty"`
}

func errorResponse(planID, requestID string, now time.Time, cerr error, fallback string) Response {
	mapped := MapError(cerr, fallback)
	return Response{
		PlanID:    planID,
		RequestID: requestID,
		CreatedAt: now,
		Error: &ErrorPayload{
			Code:    mapped.Code,
			Message: mapped.Error(),
			Details: mapped.Details,
		},
	}
}
