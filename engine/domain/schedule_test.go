package domain_test

import (
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/stretchr/testify/assert"
)

func TestTaskInterval_DurationConsistent(t *testing.T) {
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	t.Run("Should accept an exact match", func(t *testing.T) {
		iv := domain.TaskInterval{Start: base, End: base.Add(2 * time.Hour), DurationHours: 2}
		assert.True(t, iv.DurationConsistent())
	})
	t.Run("Should accept drift within one minute", func(t *testing.T) {
		iv := domain.TaskInterval{Start: base, End: base.Add(2*time.Hour + 30*time.Second), DurationHours: 2}
		assert.True(t, iv.DurationConsistent())
	})
	t.Run("Should reject drift beyond one minute", func(t *testing.T) {
		iv := domain.TaskInterval{Start: base, End: base.Add(2*time.Hour + 5*time.Minute), DurationHours: 2}
		assert.False(t, iv.DurationConsistent())
	})
}

func TestResourceAllocation_Overlaps(t *testing.T) {
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	a := domain.ResourceAllocation{Start: base, End: base.Add(time.Hour)}
	t.Run("Should not treat touching boundaries as overlapping", func(t *testing.T) {
		b := domain.ResourceAllocation{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
		assert.False(t, a.Overlaps(b))
	})
	t.Run("Should detect a real overlap", func(t *testing.T) {
		b := domain.ResourceAllocation{Start: base.Add(30 * time.Minute), End: base.Add(2 * time.Hour)}
		assert.True(t, a.Overlaps(b))
	})
}

func TestSchedule_IntervalByTaskID(t *testing.T) {
	t.Run("Should find an existing task", func(t *testing.T) {
		s := &domain.Schedule{TaskIntervals: []domain.TaskInterval{{TaskID: "J1"}}}
		iv, ok := s.IntervalByTaskID("J1")
		assert.True(t, ok)
		assert.Equal(t, "J1", iv.TaskID)
	})
	t.Run("Should report not-found for a missing task", func(t *testing.T) {
		s := &domain.Schedule{}
		_, ok := s.IntervalByTaskID("missing")
		assert.False(t, ok)
	})
}
