package driver_test

import (
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/driver"
	"github.com/aeroqec/qecsched/engine/objective"
	"github.com/aeroqec/qecsched/engine/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planStart = time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

func TestDriver_FullLifecycle(t *testing.T) {
	t.Run("Should solve a simple two-job plan end to end", func(t *testing.T) {
		d := driver.New(driver.Config{TimeLimitSeconds: 5})
		d.Initialize(planStart, 2000)

		welder := domain.NewHuman("H1", "EMP-1", []string{"welder"})
		j1 := &domain.Job{JobID: "J1", BaseDurationHours: 2, FixedDuration: f(2), RequiredQualifications: []string{"welder"}}
		j2 := &domain.Job{JobID: "J2", BaseDurationHours: 2, FixedDuration: f(2), PredecessorJobs: []string{"J1"}, RequiredQualifications: []string{"welder"}}

		d.AddJobs([]*domain.Job{j1, j2})
		d.AddResources([]*domain.Resource{welder})

		require.NoError(t, d.AddConstraints())
		require.NoError(t, d.SetObjective(objective.Config{Template: objective.TemplateBalanced}))

		result, err := d.Solve()
		require.NoError(t, err)
		assert.True(t, result.Status.HasSolution())
		require.NotNil(t, result.Solution)
		assert.Equal(t, 0, result.Solution.IntValues["start:J1"])
		assert.GreaterOrEqual(t, result.Solution.IntValues["start:J2"], result.Solution.IntValues["end:J1"])

		d.Clear()
		assert.Nil(t, d.Model())
	})

	t.Run("Should reject Solve before AddConstraints", func(t *testing.T) {
		d := driver.New(driver.Config{})
		d.Initialize(planStart, 1000)
		_, err := d.Solve()
		require.Error(t, err)
		var cerr *core.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, driver.CodeConfiguration, cerr.Code)
	})

	t.Run("Should reject a request with no resources", func(t *testing.T) {
		d := driver.New(driver.Config{})
		d.Initialize(planStart, 1000)
		d.AddJobs([]*domain.Job{{JobID: "J1", BaseDurationHours: 2}})
		err := d.AddConstraints()
		require.Error(t, err)
		var cerr *core.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, driver.CodeValidation, cerr.Code)
	})

	t.Run("Should reject an unknown predecessor before building the model", func(t *testing.T) {
		d := driver.New(driver.Config{})
		d.Initialize(planStart, 1000)
		d.AddJobs([]*domain.Job{{JobID: "J1", BaseDurationHours: 2, PredecessorJobs: []string{"GHOST"}}})
		d.AddResources([]*domain.Resource{domain.NewPhysical("TOOL", 1, false, "")})
		err := d.AddConstraints()
		require.Error(t, err)
		var cerr *core.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, driver.CodeValidation, cerr.Code)
	})
}

func TestConfig_Normalization(t *testing.T) {
	t.Run("Should still solve when limits are out of range", func(t *testing.T) {
		d := driver.New(driver.Config{TimeLimitSeconds: 999999, NumSearchWorkers: 999})
		d.Initialize(planStart, 1000)
		d.AddJobs([]*domain.Job{{JobID: "J1", BaseDurationHours: 1, FixedDuration: f(1)}})
		d.AddResources([]*domain.Resource{domain.NewHuman("H1", "EMP-1", nil)})
		require.NoError(t, d.AddConstraints())
		require.NoError(t, d.SetObjective(objective.Config{}))
		result, err := d.Solve()
		require.NoError(t, err)
		assert.True(t, result.Status.HasSolution() || result.Status == solver.StatusInfeasible)
	})
}

func f(v float64) *float64 { return &v }
