package solver_test

import (
	"testing"

	"github.com/aeroqec/qecsched/engine/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_VariableRegistration(t *testing.T) {
	t.Run("Should register and look up an int var", func(t *testing.T) {
		m := solver.NewModel(1000)
		v := m.NewIntVar("start:J1", 0, 1000)
		got, ok := m.IntVarByName("start:J1")
		require.True(t, ok)
		assert.Same(t, v, got)
	})

	t.Run("Should panic when the same int var name is registered twice", func(t *testing.T) {
		m := solver.NewModel(1000)
		m.NewIntVar("start:J1", 0, 1000)
		assert.Panics(t, func() {
			m.NewIntVar("start:J1", 0, 500)
		})
	})

	t.Run("Should register and look up a bool var", func(t *testing.T) {
		m := solver.NewModel(1000)
		v := m.NewBoolVar("assign:R1:J1")
		got, ok := m.BoolVarByName("assign:R1:J1")
		require.True(t, ok)
		assert.Same(t, v, got)
	})

	t.Run("Should fix a variable to a single point domain", func(t *testing.T) {
		v := &solver.IntVar{Name: "d", Min: 30, Max: 90}
		v.Fix(60)
		assert.True(t, v.IsFixed())
		assert.Equal(t, 60, v.Value)
		assert.Equal(t, 60, v.Min)
		assert.Equal(t, 60, v.Max)
	})
}

func TestModel_Clear(t *testing.T) {
	t.Run("Should release every handle", func(t *testing.T) {
		m := solver.NewModel(1000)
		start := m.NewIntVar("start:J1", 0, 1000)
		end := m.NewIntVar("end:J1", 0, 1000)
		dur := m.NewIntVar("dur:J1", 60, 60)
		m.AddTask("J1", start, end, dur)
		m.AddConstraint(solver.PrecedenceConstraint{PredTaskID: "J1", SuccTaskID: "J2"})

		m.Clear()

		_, ok := m.IntVarByName("start:J1")
		assert.False(t, ok)
		_, ok = m.Task("J1")
		assert.False(t, ok)
		assert.Empty(t, m.Constraints())

		// Handles are free to be re-registered after clear.
		assert.NotPanics(t, func() {
			m.NewIntVar("start:J1", 0, 1000)
		})
	})
}

func TestObjective_Value(t *testing.T) {
	t.Run("Should sum scaled weighted terms", func(t *testing.T) {
		m := solver.NewModel(1000)
		obj := &solver.Objective{
			Terms: []solver.ObjectiveTerm{
				{Name: "makespan", ScaledWeight: 1000, Evaluate: func(*solver.Model) int64 { return 10 }},
				{Name: "cost", ScaledWeight: 500, Evaluate: func(*solver.Model) int64 { return 4 }},
			},
		}
		m.SetObjective(obj)
		assert.Equal(t, int64(1000*10+500*4), m.Objective().Value(m))
	})

	t.Run("Should return zero for a nil objective", func(t *testing.T) {
		var obj *solver.Objective
		assert.Equal(t, int64(0), obj.Value(solver.NewModel(10)))
	})
}
