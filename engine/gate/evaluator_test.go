package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	ev, err := gate.NewCELEvaluator()
	require.NoError(t, err)
	now := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

	t.Run("Should pass every gate type when the underlying state is clean", func(t *testing.T) {
		results, summary, err := gate.Evaluate(context.Background(), ev, gate.Input{}, now)
		require.NoError(t, err)
		assert.Len(t, results, 7)
		assert.Equal(t, 1.0, summary.PassRate)
		assert.Empty(t, summary.CriticalRisks)
	})

	t.Run("Should fail critical_tools_ready and flag it as a critical risk", func(t *testing.T) {
		tools := []*domain.ToolAsset{{ToolID: "T1", IsCritical: true, IsReady: false}}
		results, summary, err := gate.Evaluate(context.Background(), ev, gate.Input{Tools: tools}, now)
		require.NoError(t, err)
		var toolsResult gate.Result
		for _, r := range results {
			if r.GateType == gate.TypeCriticalToolsReady {
				toolsResult = r
			}
		}
		assert.Equal(t, gate.StatusFailed, toolsResult.Status)
		assert.Contains(t, summary.CriticalRisks, string(gate.TypeCriticalToolsReady))
		assert.NotEmpty(t, summary.RequiredActions)
	})

	t.Run("Should evaluate a preparation task's own gate conditions", func(t *testing.T) {
		isGate := true
		p := &domain.PreparationTask{
			PrepID: "P1", Type: domain.PrepShelfHandover, DurationHours: 1,
			IsGate: &isGate,
			Gate:   &domain.Gate{RequiredConditions: []string{"state.task_complete", "state.evidence_complete"}},
		}
		require.NoError(t, gate.ConfirmHandover(p, gate.ConfirmHandoverInput{
			HandoverForm: "form-1", Photo: "photo-1",
			Signature: gate.Signature{By: "tech-1", Time: now},
		}))
		_, _, err := gate.Evaluate(context.Background(), ev, gate.Input{PreparationTasks: []*domain.PreparationTask{p}}, now)
		require.NoError(t, err)
		assert.True(t, p.Gate.IsPassed)
		assert.NotNil(t, p.Gate.PassedAt)
	})
}

func TestConfirmHandover(t *testing.T) {
	t.Run("Should reject a request missing the signature", func(t *testing.T) {
		p := &domain.PreparationTask{PrepID: "P1"}
		err := gate.ConfirmHandover(p, gate.ConfirmHandoverInput{HandoverForm: "f", Photo: "p"})
		require.Error(t, err)
		var cerr *core.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, gate.CodeValidation, cerr.Code)
	})
}
