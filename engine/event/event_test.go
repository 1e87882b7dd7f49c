package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestDispatch_ETAChange(t *testing.T) {
	t.Run("Should scope to jobs consuming the delayed resource and classify impact", func(t *testing.T) {
		jobs := []*domain.Job{{JobID: "J1", RequiredResources: []domain.ResourceRequirement{{ResourceID: "R1", Quantity: 1}}}}
		ev := &domain.Event{
			EventID: "E1", Type: domain.EventETAChange, EffectiveTime: now,
			RawPayload: map[string]any{
				"resource_id": "R1",
				"old_eta":     now.Format(time.RFC3339),
				"new_eta":     now.Add(5 * time.Hour).Format(time.RFC3339),
			},
		}
		result, err := event.Dispatch(context.Background(), ev, event.State{Jobs: jobs, Now: now})
		require.NoError(t, err)
		assert.True(t, result.RequiresReplan)
		assert.Equal(t, event.ImpactHigh, result.Impact)
		assert.Contains(t, result.Scope.JobIDSlice(), "J1")
	})
}

func TestDispatch_SAPUpdate(t *testing.T) {
	t.Run("Should require replan and flag high impact on rejection", func(t *testing.T) {
		ev := &domain.Event{
			EventID: "E2", Type: domain.EventSAPUpdate, EffectiveTime: now,
			RawPayload: map[string]any{"instruction_id": "I1", "new_status": "rejected", "update_time": now.Format(time.RFC3339)},
		}
		result, err := event.Dispatch(context.Background(), ev, event.State{Now: now})
		require.NoError(t, err)
		assert.True(t, result.RequiresReplan)
		assert.Equal(t, event.ImpactHigh, result.Impact)
	})
}

func TestDispatch_Weather(t *testing.T) {
	t.Run("Should ground crane resources and scope jobs in the affected area", func(t *testing.T) {
		resources := []*domain.Resource{domain.NewPhysical("CRANE-1", 1, true, "crane_group")}
		resources[0].Name = "Tower Crane 1"
		jobs := []*domain.Job{{JobID: "J1", Area: "outdoor_area"}}
		ev := &domain.Event{
			EventID: "E3", Type: domain.EventWeather, EffectiveTime: now,
			RawPayload: map[string]any{
				"weather_type": "typhoon", "severity": "high",
				"start_time": now.Format(time.RFC3339), "affected_areas": []any{"outdoor_area"},
			},
		}
		result, err := event.Dispatch(context.Background(), ev, event.State{Jobs: jobs, Resources: resources, Now: now})
		require.NoError(t, err)
		assert.True(t, result.RequiresReplan)
		require.Len(t, result.ResourceUnavailable, 1)
		assert.Equal(t, "CRANE-1", result.ResourceUnavailable[0].ResourceID)
		assert.Contains(t, result.Scope.JobIDSlice(), "J1")
	})
}

func TestApplyEvents(t *testing.T) {
	t.Run("Should scope the affected job and mark each event completed", func(t *testing.T) {
		jobs := []*domain.Job{{JobID: "J1", RequiredResources: []domain.ResourceRequirement{{ResourceID: "R1", Quantity: 1}}}}
		events := []*domain.Event{
			{EventID: "E1", Type: domain.EventETAChange, EffectiveTime: now, RawPayload: map[string]any{
				"resource_id": "R1", "new_eta": now.Add(6 * time.Hour).Format(time.RFC3339),
			}},
		}
		diff, err := event.ApplyEvents(context.Background(), events, event.State{Jobs: jobs, Now: now}, now)
		require.NoError(t, err)
		assert.Contains(t, diff.AffectedTasks, "J1")
		for _, ev := range events {
			assert.Equal(t, domain.EventCompleted, ev.Status)
		}
	})

	t.Run("Should reject an expired event", func(t *testing.T) {
		expired := now.Add(-time.Hour)
		events := []*domain.Event{
			{EventID: "E1", Type: domain.EventSAPUpdate, EffectiveTime: now, ExpiresAt: &expired,
				RawPayload: map[string]any{"new_status": "approved"}},
		}
		_, err := event.ApplyEvents(context.Background(), events, event.State{Now: now}, now)
		require.Error(t, err)
	})
}
