package resource

import (
	"fmt"

	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/shopspring/decimal"
)

// Allocate binds qty units of r to taskID over window, computing cost from
// the resource's hourly/setup cost. Fails with a CodeConflict error naming r
// when the resource cannot accommodate the request.
func Allocate(r *domain.Resource, taskID string, window Window, qty int, existing []domain.ResourceAllocation) (domain.ResourceAllocation, error) {
	ok, err := CheckAvailability(r, window, qty, existing)
	if err != nil {
		return domain.ResourceAllocation{}, err
	}
	if !ok {
		return domain.ResourceAllocation{}, core.NewError(
			fmt.Errorf("resource: %s cannot accommodate %d unit(s) for task %s over [%s, %s)", r.ResourceID, qty, taskID, window.Start, window.End),
			CodeConflict,
			map[string]any{"conflicting_resource_ids": []string{r.ResourceID}},
		)
	}
	cost := decimal.Zero
	hours := window.End.Sub(window.Start).Hours()
	if r.HourlyCost != nil {
		cost = r.HourlyCost.Mul(decimal.NewFromFloat(hours)).Mul(decimal.NewFromInt(int64(qty)))
	}
	if r.SetupCost != nil {
		cost = cost.Add(*r.SetupCost)
	}
	return domain.ResourceAllocation{
		ResourceID: r.ResourceID,
		TaskID:     taskID,
		Start:      window.Start,
		End:        window.End,
		Quantity:   qty,
		Cost:       cost,
	}, nil
}
