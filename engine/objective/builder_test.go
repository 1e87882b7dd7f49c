package objective_test

import (
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/constraint"
	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/objective"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planStart = time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

func TestResolveWeights(t *testing.T) {
	t.Run("Should default to the balanced template when none is given", func(t *testing.T) {
		w, err := objective.ResolveWeights(objective.Config{})
		require.NoError(t, err)
		assert.Equal(t, 1.0, w.Makespan)
		assert.Equal(t, 0.6, w.Delays)
	})

	t.Run("Should apply protect_sla's weight vector", func(t *testing.T) {
		w, err := objective.ResolveWeights(objective.Config{Template: objective.TemplateProtectSLA})
		require.NoError(t, err)
		assert.Equal(t, 2.0, w.Makespan)
		assert.Equal(t, 1.0, w.Delays)
	})

	t.Run("Should reject an unknown template", func(t *testing.T) {
		_, err := objective.ResolveWeights(objective.Config{Template: "nonexistent"})
		require.Error(t, err)
		var cerr *core.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, objective.CodeConfiguration, cerr.Code)
	})

	t.Run("Should apply a custom override on top of the template", func(t *testing.T) {
		w, err := objective.ResolveWeights(objective.Config{
			Template:  objective.TemplateBalanced,
			Overrides: map[string]float64{"cost": 0.9},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.9, w.Cost)
		assert.Equal(t, 1.0, w.Makespan) // unaffected
	})
}

func TestBuild(t *testing.T) {
	t.Run("Should fail configuration when every term is weighted at zero", func(t *testing.T) {
		_, err := objective.Build(objective.Input{
			Config: objective.Config{
				Template: objective.TemplateBalanced,
				Overrides: map[string]float64{
					"makespan": 0, "cost": 0, "utilization": 0,
					"waiting": 0, "switches": 0, "delays": 0, "preference": 0,
				},
			},
		})
		require.Error(t, err)
		var cerr *core.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, objective.CodeConfiguration, cerr.Code)
	})

	t.Run("Should evaluate makespan over a two-job chain", func(t *testing.T) {
		j1 := &domain.Job{JobID: "J1", BaseDurationHours: 2, FixedDuration: f(2)}
		j2 := &domain.Job{JobID: "J2", BaseDurationHours: 3, FixedDuration: f(3), PredecessorJobs: []string{"J1"}}

		m, err := constraint.Build(constraint.Input{Jobs: []*domain.Job{j1, j2}, PlanStart: planStart, HorizonMinutes: 2000})
		require.NoError(t, err)

		obj, err := objective.Build(objective.Input{
			Jobs:      []*domain.Job{j1, j2},
			PlanStart: planStart,
			Config:    objective.Config{Template: objective.TemplateBalanced},
		})
		require.NoError(t, err)
		m.SetObjective(obj)

		start1, _ := m.IntVarByName("start:J1")
		end1, _ := m.IntVarByName("end:J1")
		start2, _ := m.IntVarByName("start:J2")
		end2, _ := m.IntVarByName("end:J2")
		start1.Value, end1.Value = 0, 120
		start2.Value, end2.Value = 120, 300

		assert.Equal(t, int64(300), m.Objective().Value(m)/objective.ScaleWeight(1.0))
	})
}

func f(v float64) *float64 { return &v }
