package domain_test

import (
	"testing"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyGraph_ValidateAcyclic(t *testing.T) {
	t.Run("Should accept a linear chain (S1)", func(t *testing.T) {
		j1 := baseJob()
		j2 := baseJob()
		j2.JobID = "J2"
		j2.PredecessorJobs = []string{"J1"}
		g := domain.NewDependencyGraph([]*domain.Job{j1, j2}, nil)
		require.NoError(t, g.ValidateAcyclic())
	})
	t.Run("Should detect a two-node cycle (S2)", func(t *testing.T) {
		j1 := baseJob()
		j1.PredecessorJobs = []string{"J2"}
		j2 := baseJob()
		j2.JobID = "J2"
		j2.PredecessorJobs = []string{"J1"}
		g := domain.NewDependencyGraph([]*domain.Job{j1, j2}, nil)
		assert.ErrorContains(t, g.ValidateAcyclic(), "circular dependency")
	})
	t.Run("Should detect a cycle across jobs and preparation tasks combined", func(t *testing.T) {
		j1 := baseJob()
		j1.PredecessorJobs = []string{"P1"}
		p1 := &domain.PreparationTask{
			PrepID:        "P1",
			Type:          domain.PrepDocReady,
			DurationHours: 1,
			Dependencies:  []string{"J1"},
		}
		g := domain.NewDependencyGraph([]*domain.Job{j1}, []*domain.PreparationTask{p1})
		assert.ErrorContains(t, g.ValidateAcyclic(), "circular dependency")
	})
	t.Run("Should reject an unknown predecessor", func(t *testing.T) {
		j1 := baseJob()
		j1.PredecessorJobs = []string{"GHOST"}
		g := domain.NewDependencyGraph([]*domain.Job{j1}, nil)
		assert.ErrorContains(t, g.ValidateAcyclic(), "unknown predecessor")
	})
	t.Run("Should accept a larger fan-in/fan-out DAG without false positives", func(t *testing.T) {
		a := baseJob()
		a.JobID = "A"
		b := baseJob()
		b.JobID = "B"
		b.PredecessorJobs = []string{"A"}
		c := baseJob()
		c.JobID = "C"
		c.PredecessorJobs = []string{"A"}
		d := baseJob()
		d.JobID = "D"
		d.PredecessorJobs = []string{"B", "C"}
		g := domain.NewDependencyGraph([]*domain.Job{a, b, c, d}, nil)
		require.NoError(t, g.ValidateAcyclic())
	})
}

func TestDependencyGraph_CombinedEdges(t *testing.T) {
	t.Run("Should emit one (pred, succ) pair per edge", func(t *testing.T) {
		j1 := baseJob()
		j2 := baseJob()
		j2.JobID = "J2"
		j2.PredecessorJobs = []string{"J1"}
		g := domain.NewDependencyGraph([]*domain.Job{j1, j2}, nil)
		edges := g.CombinedEdges()
		require.Len(t, edges, 1)
		assert.Equal(t, [2]string{"J1", "J2"}, edges[0])
	})
}
