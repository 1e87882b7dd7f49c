// Package solution lifts a solver.Result back into a domain.Schedule: task
// intervals in wall-clock time, resource allocations with cost, and the
// metrics/critical-path summary. It knows nothing about how the model was
// built or solved.
package solution

import (
	"fmt"
	"sort"
	"time"

	"github.com/aeroqec/qecsched/engine/constraint"
	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/solver"
	"github.com/shopspring/decimal"
)

// Input bundles a solved result with the entities that produced it.
type Input struct {
	PlanID           string
	Result           solver.Result
	Jobs             []*domain.Job
	PreparationTasks []*domain.PreparationTask
	Resources        []*domain.Resource
	PlanStart        time.Time
}

// Parse converts Input into a domain.Schedule. Fails if the result carries
// no solution (the caller should have already checked Result.Status before
// reaching here, but the parser will not silently fabricate one).
func Parse(in Input) (*domain.Schedule, error) {
	if in.Result.Solution == nil {
		return nil, core.NewError(fmt.Errorf("solution parser: result has no solution to parse"), CodeValidation, nil)
	}
	sol := in.Result.Solution
	resourcesByID := make(map[string]*domain.Resource, len(in.Resources))
	for _, r := range in.Resources {
		resourcesByID[r.ResourceID] = r
	}

	var intervals []domain.TaskInterval
	var allocations []domain.ResourceAllocation

	for _, j := range in.Jobs {
		iv, err := buildInterval(sol, j.JobID, domain.TaskKindJob, in.PlanStart)
		if err != nil {
			continue
		}
		allocs := jobAllocations(sol, j, resourcesByID, iv)
		iv.AssignedResources, iv.AssignedPersonnel = splitAllocations(allocs, resourcesByID)
		intervals = append(intervals, iv)
		allocations = append(allocations, allocs...)
	}
	for _, p := range in.PreparationTasks {
		iv, err := buildInterval(sol, p.PrepID, domain.TaskKindPreparation, in.PlanStart)
		if err != nil {
			continue
		}
		allocs := prepAllocations(p, resourcesByID, iv)
		iv.AssignedResources, _ = splitAllocations(allocs, resourcesByID)
		intervals = append(intervals, iv)
		allocations = append(allocations, allocs...)
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })

	metrics, planEnd := computeMetrics(intervals, allocations, in.Resources, in.PlanStart)
	criticalPath := computeCriticalPath(intervals)

	for i := range intervals {
		for _, id := range criticalPath {
			if intervals[i].TaskID == id {
				intervals[i].IsCriticalPath = true
			}
		}
	}

	return &domain.Schedule{
		PlanID:              in.PlanID,
		PlanStartTime:       in.PlanStart,
		PlanEndTime:         planEnd,
		TaskIntervals:       intervals,
		ResourceAllocations: allocations,
		Metrics:             metrics,
		CriticalPath:        criticalPath,
		IsFeasible:          in.Result.Status.HasSolution(),
		IsOptimal:           in.Result.Status == solver.StatusOptimal,
	}, nil
}

func buildInterval(sol *solver.Solution, taskID string, kind domain.TaskKind, planStart time.Time) (domain.TaskInterval, error) {
	startMin, ok := sol.IntValues[constraint.StartVar(taskID)]
	if !ok {
		return domain.TaskInterval{}, fmt.Errorf("no start value for %s", taskID)
	}
	endMin := sol.IntValues[constraint.EndVar(taskID)]
	durMin := sol.IntValues[constraint.DurVar(taskID)]
	return domain.TaskInterval{
		TaskID:        taskID,
		Kind:          kind,
		Start:         core.FromPlanMinutes(planStart, startMin),
		End:           core.FromPlanMinutes(planStart, endMin),
		DurationHours: float64(durMin) / 60.0,
	}, nil
}

func jobAllocations(sol *solver.Solution, j *domain.Job, resourcesByID map[string]*domain.Resource, iv domain.TaskInterval) []domain.ResourceAllocation {
	var out []domain.ResourceAllocation
	for _, req := range j.RequiredResources {
		res := resourcesByID[req.ResourceID]
		if res == nil {
			continue
		}
		out = append(out, allocation(res, j.JobID, iv, req.Quantity))
	}
	for _, r := range resourcesByID {
		if r.Kind != domain.KindHuman {
			continue
		}
		if v, ok := sol.BoolValues[constraint.AssignVar(r.ResourceID, j.JobID)]; ok && v == 1 {
			out = append(out, allocation(r, j.JobID, iv, 1))
		}
	}
	return out
}

func prepAllocations(p *domain.PreparationTask, resourcesByID map[string]*domain.Resource, iv domain.TaskInterval) []domain.ResourceAllocation {
	var out []domain.ResourceAllocation
	for _, assetID := range p.RequiredAssets {
		res := resourcesByID[assetID]
		if res == nil {
			continue
		}
		out = append(out, allocation(res, p.PrepID, iv, 1))
	}
	return out
}

func allocation(res *domain.Resource, taskID string, iv domain.TaskInterval, quantity int) domain.ResourceAllocation {
	cost := decimal.Zero
	if res.HourlyCost != nil {
		cost = res.HourlyCost.Mul(decimal.NewFromFloat(iv.DurationHours)).Mul(decimal.NewFromInt(int64(quantity)))
	}
	return domain.ResourceAllocation{
		ResourceID: res.ResourceID,
		TaskID:     taskID,
		Start:      iv.Start,
		End:        iv.End,
		Quantity:   quantity,
		Cost:       cost,
	}
}

// splitAllocations buckets a task's allocations into physical resource ids
// and human personnel ids.
func splitAllocations(allocs []domain.ResourceAllocation, resourcesByID map[string]*domain.Resource) (resourceIDs, personnelIDs []string) {
	for _, a := range allocs {
		res := resourcesByID[a.ResourceID]
		if res != nil && res.Kind == domain.KindHuman {
			personnelIDs = append(personnelIDs, a.ResourceID)
		} else {
			resourceIDs = append(resourceIDs, a.ResourceID)
		}
	}
	return resourceIDs, personnelIDs
}

// computeMetrics derives ScheduleMetrics and the plan's end time. An empty
// interval set is a sentinel case: plan_end_time = plan_start_time + 1h.
func computeMetrics(intervals []domain.TaskInterval, allocations []domain.ResourceAllocation, resources []*domain.Resource, planStart time.Time) (domain.ScheduleMetrics, time.Time) {
	if len(intervals) == 0 {
		return domain.ScheduleMetrics{ResourceUtilization: map[string]float64{}, TotalCost: decimal.Zero}, planStart.Add(time.Hour)
	}

	minStart, maxEnd := intervals[0].Start, intervals[0].End
	var totalDuration float64
	for _, iv := range intervals {
		if iv.Start.Before(minStart) {
			minStart = iv.Start
		}
		if iv.End.After(maxEnd) {
			maxEnd = iv.End
		}
		totalDuration += iv.DurationHours
	}

	allocatedHoursByResource := make(map[string]float64)
	totalCost := decimal.Zero
	for _, a := range allocations {
		allocatedHoursByResource[a.ResourceID] += a.End.Sub(a.Start).Hours() * float64(a.Quantity)
		totalCost = totalCost.Add(a.Cost)
	}

	utilization := make(map[string]float64, len(resources))
	var utilSum float64
	for _, r := range resources {
		available := r.Calendar.BusinessHoursBetween(minStart, maxEnd)
		u := 0.0
		if available > 0 {
			u = allocatedHoursByResource[r.ResourceID] / available
		}
		if u > 1.0 {
			u = 1.0
		}
		utilization[r.ResourceID] = u
		utilSum += u
	}
	avgUtil := 0.0
	if len(resources) > 0 {
		avgUtil = utilSum / float64(len(resources))
	}

	return domain.ScheduleMetrics{
		MakespanHours:       maxEnd.Sub(minStart).Hours(),
		TotalDurationHours:  totalDuration,
		ResourceUtilization: utilization,
		AverageUtilization:  avgUtil,
		TotalCost:           totalCost,
	}, maxEnd
}

// computeCriticalPath returns the five tasks with the latest end time, a
// documented placeholder for a proper longest-path computation over the
// precedence DAG weighted by effective durations.
func computeCriticalPath(intervals []domain.TaskInterval) []string {
	if len(intervals) == 0 {
		return nil
	}
	byEnd := append([]domain.TaskInterval(nil), intervals...)
	sort.Slice(byEnd, func(i, j int) bool { return byEnd[i].End.After(byEnd[j].End) })
	n := 5
	if n > len(byEnd) {
		n = len(byEnd)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = byEnd[i].TaskID
	}
	return out
}
