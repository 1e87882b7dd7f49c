package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskKind distinguishes what a TaskInterval schedules.
type TaskKind string

const (
	TaskKindJob         TaskKind = "job"
	TaskKindPreparation TaskKind = "preparation"
	TaskKindMaintenance TaskKind = "maintenance"
	TaskKindBuffer      TaskKind = "buffer"
)

// TaskInterval is one scheduled job or preparation task in a Schedule.
type TaskInterval struct {
	TaskID              string    `json:"task_id"`
	Kind                TaskKind  `json:"type"`
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	DurationHours       float64   `json:"duration_hours"`
	AssignedResources   []string  `json:"assigned_resources,omitempty"`
	AssignedPersonnel   []string  `json:"assigned_personnel,omitempty"`
	IsCriticalPath      bool      `json:"is_critical_path"`
	BufferBeforeMinutes int       `json:"buffer_before_minutes,omitempty"`
	BufferAfterMinutes  int       `json:"buffer_after_minutes,omitempty"`
}

// DurationConsistent reports whether End-Start matches DurationHours within
// a one-minute tolerance.
func (t TaskInterval) DurationConsistent() bool {
	expected := time.Duration(t.DurationHours * float64(time.Hour))
	actual := t.End.Sub(t.Start)
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Minute
}

// ResourceAllocation binds one resource to one task for a time window.
type ResourceAllocation struct {
	ResourceID string          `json:"resource_id"`
	TaskID     string          `json:"task_id"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Quantity   int             `json:"quantity"`
	Cost       decimal.Decimal `json:"cost"`
}

// Overlaps implements the touching-boundaries-not-overlapping predicate:
// two allocations overlap iff neither ends at or before the other starts.
func (a ResourceAllocation) Overlaps(b ResourceAllocation) bool {
	return !(a.End.Compare(b.Start) <= 0 || b.End.Compare(a.Start) <= 0)
}

// GateSnapshot is one entry of Schedule.gates.
type GateSnapshot struct {
	GateType     string     `json:"gate_type"`
	Passed       bool       `json:"passed"`
	ExpectedTime *time.Time `json:"expected_time,omitempty"`
}

// ScheduleMetrics is the computed summary over a Schedule.
type ScheduleMetrics struct {
	MakespanHours       float64            `json:"makespan_hours"`
	TotalDurationHours  float64            `json:"total_duration_hours"`
	ResourceUtilization map[string]float64 `json:"resource_utilization"`
	AverageUtilization  float64            `json:"average_utilization"`
	TotalCost           decimal.Decimal    `json:"total_cost"`
}

// Schedule is the solver's output: a complete, immutable plan snapshot.
type Schedule struct {
	PlanID        string    `json:"plan_id"`
	PlanStartTime time.Time `json:"plan_start_time"`
	PlanEndTime   time.Time `json:"plan_end_time"`

	TaskIntervals       []TaskInterval        `json:"task_intervals"`
	ResourceAllocations []ResourceAllocation  `json:"resource_allocations"`
	Gates               []GateSnapshot        `json:"gates"`
	Metrics             ScheduleMetrics       `json:"metrics"`
	CriticalPath        []string              `json:"critical_path"`

	IsFeasible bool `json:"is_feasible"`
	IsOptimal  bool `json:"is_optimal"`
}

// IntervalByTaskID returns the interval for taskID, if present.
func (s *Schedule) IntervalByTaskID(taskID string) (TaskInterval, bool) {
	for _, iv := range s.TaskIntervals {
		if iv.TaskID == taskID {
			return iv, true
		}
	}
	return TaskInterval{}, false
}
