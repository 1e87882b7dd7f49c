package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/scheduling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planStart = time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

func newRequest(jobs []*domain.Job) scheduling.Request {
	return scheduling.Request{
		RequestID:    "REQ-12345678",
		WorkPackages: []scheduling.WorkPackage{{WorkPackageID: "WP1", EngineID: "ENG-1", JobDetails: jobs, JobIDs: jobIDs(jobs)}},
		Assets: []scheduling.AssetInput{
			{AssetID: "CRANE-1", Name: "Tower Crane", Calendar: nil},
		},
		Config: scheduling.Config{PrepWindowDays: 3},
	}
}

func jobIDs(jobs []*domain.Job) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.JobID
	}
	return ids
}

func TestCreatePlan_LinearChain(t *testing.T) {
	t.Run("Should produce a feasible schedule for a two-job linear chain", func(t *testing.T) {
		j1 := &domain.Job{JobID: "J1", EngineID: "ENG-1", BaseDurationHours: 2,
			RequiredResources: []domain.ResourceRequirement{{ResourceID: "CRANE-1", Quantity: 1}}}
		j2 := &domain.Job{JobID: "J2", EngineID: "ENG-1", BaseDurationHours: 2,
			PredecessorJobs: []string{"J1"},
			RequiredResources: []domain.ResourceRequirement{{ResourceID: "CRANE-1", Quantity: 1}}}

		svc, err := scheduling.NewService()
		require.NoError(t, err)

		resp, err := svc.CreatePlan(context.Background(), newRequest([]*domain.Job{j1, j2}), planStart)
		require.NoError(t, err)
		require.Nil(t, resp.Error)
		require.NotNil(t, resp.Schedule)
		assert.True(t, resp.Schedule.IsFeasible)
		assert.NotEmpty(t, resp.Makespan)

		start1, ok := resp.Schedule.IntervalByTaskID("J1")
		require.True(t, ok)
		start2, ok := resp.Schedule.IntervalByTaskID("J2")
		require.True(t, ok)
		assert.False(t, start2.Start.Before(start1.End))
	})
}

func TestCreatePlan_CircularDependency(t *testing.T) {
	t.Run("Should reject a circular job dependency as a constraint violation", func(t *testing.T) {
		j1 := &domain.Job{JobID: "J1", EngineID: "ENG-1", BaseDurationHours: 2, PredecessorJobs: []string{"J2"}}
		j2 := &domain.Job{JobID: "J2", EngineID: "ENG-1", BaseDurationHours: 2, PredecessorJobs: []string{"J1"}}

		svc, err := scheduling.NewService()
		require.NoError(t, err)

		resp, err := svc.CreatePlan(context.Background(), newRequest([]*domain.Job{j1, j2}), planStart)
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, scheduling.CodeConstraintViolation, resp.Error.Code)
	})
}

func TestCreatePlan_ExclusiveGroupConflict(t *testing.T) {
	t.Run("Should reject two assets claiming the same exclusive group", func(t *testing.T) {
		req := newRequest([]*domain.Job{{JobID: "J1", EngineID: "ENG-1", BaseDurationHours: 1}})
		req.Assets = append(req.Assets, scheduling.AssetInput{
			AssetID: "CRANE-2", Name: "Crane 2", Calendar: nil, ExclusiveGroup: "crane_group",
		})
		req.Assets[0].ExclusiveGroup = "crane_group"

		svc, err := scheduling.NewService()
		require.NoError(t, err)

		resp, err := svc.CreatePlan(context.Background(), req, planStart)
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, scheduling.CodeConstraintViolation, resp.Error.Code)
	})
}
