// Package constraint lowers domain entities (jobs, preparation tasks,
// resources) into an engine/solver.Model: variables, precedence, window,
// resource-capacity, and assignment-coverage constraints. It knows nothing
// about the search itself.
package constraint

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/solver"
)

// Input bundles everything the builder needs to construct a model.
type Input struct {
	Jobs             []*domain.Job
	PreparationTasks []*domain.PreparationTask
	Resources        []*domain.Resource
	PlanStart        time.Time
	HorizonMinutes   int
}

// Build lowers Input into a ready-to-solve *solver.Model, or a typed error:
//   - CodeValidation for structural problems (unknown predecessor ids,
//     dangling resource references)
//   - CodeConstraintViolation for cycles or unsatisfiable qualification
//     coverage, both detected before the solver ever runs
func Build(in Input) (*solver.Model, error) {
	if len(in.Jobs) == 0 && len(in.PreparationTasks) == 0 {
		return nil, newValidationError("no jobs and no preparation tasks in the plan request")
	}

	graph := domain.NewDependencyGraph(in.Jobs, in.PreparationTasks)
	if err := graph.ValidateAcyclic(); err != nil {
		return nil, wrapGraphError(err)
	}

	m := solver.NewModel(in.HorizonMinutes)

	resourcesByID := make(map[string]*domain.Resource, len(in.Resources))
	for _, r := range in.Resources {
		resourcesByID[r.ResourceID] = r
	}

	if err := validateJobsConcurrently(in.Jobs, resourcesByID); err != nil {
		return nil, err
	}

	for _, j := range in.Jobs {
		addJobTask(m, j, in.PlanStart, in.HorizonMinutes)
	}
	for _, p := range in.PreparationTasks {
		addPrepTask(m, p, in.PlanStart, in.HorizonMinutes)
	}

	for _, edge := range graph.CombinedEdges() {
		pred, succ := edge[0], edge[1]
		m.AddConstraint(solver.PrecedenceConstraint{PredTaskID: pred, SuccTaskID: succ})
	}

	resourceIntervals := make(map[string][]solver.ResourceInterval)

	for _, j := range in.Jobs {
		for _, req := range j.RequiredResources {
			res, ok := resourcesByID[req.ResourceID]
			if !ok {
				return nil, newValidationError("job %s: required resource %s not found in plan request", j.JobID, req.ResourceID)
			}
			demand := req.Quantity
			if demand < 1 {
				demand = 1
			}
			resourceIntervals[res.ResourceID] = append(resourceIntervals[res.ResourceID], solver.ResourceInterval{
				TaskID:   j.JobID,
				StartVar: startVar(j.JobID),
				EndVar:   endVar(j.JobID),
				Demand:   demand,
			})
		}
	}
	for _, p := range in.PreparationTasks {
		for _, assetID := range p.RequiredAssets {
			res, ok := resourcesByID[assetID]
			if !ok {
				continue // a required asset may be a ToolAsset tracked outside the resource pool
			}
			resourceIntervals[res.ResourceID] = append(resourceIntervals[res.ResourceID], solver.ResourceInterval{
				TaskID:   p.PrepID,
				StartVar: startVar(p.PrepID),
				EndVar:   endVar(p.PrepID),
				Demand:   1,
			})
		}
	}

	humans := make([]*domain.Resource, 0)
	for _, r := range in.Resources {
		if r.Kind == domain.KindHuman {
			humans = append(humans, r)
		}
	}

	for _, j := range in.Jobs {
		coverage := make(map[string][]string) // qualification -> candidate bool var names
		var anyHuman []string
		for _, h := range humans {
			assignVar := AssignVar(h.ResourceID, j.JobID)
			m.NewBoolVar(assignVar)
			anyHuman = append(anyHuman, assignVar)
			resourceIntervals[h.ResourceID] = append(resourceIntervals[h.ResourceID], solver.ResourceInterval{
				TaskID:      j.JobID,
				StartVar:    startVar(j.JobID),
				EndVar:      endVar(j.JobID),
				PresenceVar: assignVar,
				Demand:      1,
			})
			for _, q := range j.RequiredQualifications {
				if h.Human.HasQualification(q) {
					coverage[q] = append(coverage[q], assignVar)
				}
			}
		}
		for _, q := range j.RequiredQualifications {
			candidates := coverage[q]
			if len(candidates) == 0 {
				return nil, newConstraintViolation(
					map[string]any{"job_id": j.JobID, "qualification": q},
					"job %s: no available human holds required qualification %q", j.JobID, q,
				)
			}
			m.AddConstraint(solver.BoolSumAtLeastConstraint{
				Label: fmt.Sprintf("qualification:%s:%s", q, j.JobID),
				Vars:  candidates,
				Min:   1,
			})
		}
		if len(anyHuman) > 0 {
			m.AddConstraint(solver.BoolSumAtLeastConstraint{
				Label: fmt.Sprintf("task_execution:%s", j.JobID),
				Vars:  anyHuman,
				Min:   1,
			})
		}
	}

	for resourceID, intervals := range resourceIntervals {
		res := resourcesByID[resourceID]
		if res == nil {
			continue
		}
		if res.TotalQuantity <= 1 || res.IsExclusive() {
			m.AddConstraint(solver.NoOverlapConstraint{ResourceID: resourceID, Intervals: intervals})
		} else {
			m.AddConstraint(solver.CumulativeConstraint{ResourceID: resourceID, Intervals: intervals, Capacity: res.TotalQuantity})
		}
	}

	return m, nil
}

// validateJobsConcurrently checks each job's own structural invariants —
// window ordering and required-resource existence — independently of every
// other job, so the check fans out across an errgroup instead of walking
// jobs one at a time. Every check runs to completion; g.Wait returns the
// first error reported.
func validateJobsConcurrently(jobs []*domain.Job, resourcesByID map[string]*domain.Resource) error {
	g := new(errgroup.Group)
	for _, j := range jobs {
		g.Go(func() error {
			return validateJob(j, resourcesByID)
		})
	}
	return g.Wait()
}

func validateJob(j *domain.Job, resourcesByID map[string]*domain.Resource) error {
	if j.EarliestStart != nil && j.LatestFinish != nil && j.EarliestStart.After(*j.LatestFinish) {
		return newValidationError("job %s: earliest_start is after latest_finish", j.JobID)
	}
	for _, req := range j.RequiredResources {
		if _, ok := resourcesByID[req.ResourceID]; !ok {
			return newValidationError("job %s: required resource %s not found in plan request", j.JobID, req.ResourceID)
		}
	}
	return nil
}

func wrapGraphError(err error) error {
	if strings.HasPrefix(err.Error(), "unknown predecessor") {
		return core.NewError(err, CodeValidation, nil)
	}
	return core.NewError(err, CodeConstraintViolation, nil)
}

func addJobTask(m *solver.Model, j *domain.Job, planStart time.Time, horizon int) {
	durMin, durMax := durationBoundsMinutes(j)
	dur := m.NewIntVar(durVar(j.JobID), durMin, durMax)
	if j.FixedDuration != nil {
		dur.Fix(durMin)
	}

	start := m.NewIntVar(startVar(j.JobID), 0, horizon)
	end := m.NewIntVar(endVar(j.JobID), 0, horizon)
	m.AddTask(j.JobID, start, end, dur)

	var earliest, latest, fixed *int
	if j.EarliestStart != nil {
		v := core.ToPlanMinutes(*j.EarliestStart, planStart)
		earliest = &v
	}
	if j.LatestFinish != nil {
		v := core.ToPlanMinutes(*j.LatestFinish, planStart)
		latest = &v
	}
	if j.FixedStart != nil {
		// An in-progress or completed job keeps its observed placement
		// across a replan; freezing start is sufficient since duration is
		// already fixed or bounded by the job's own record.
		v := core.ToPlanMinutes(*j.FixedStart, planStart)
		fixed = &v
	}
	if earliest != nil || latest != nil || fixed != nil {
		m.AddConstraint(solver.WindowConstraint{
			TaskID:           j.JobID,
			EarliestStartMin: earliest,
			LatestFinishMin:  latest,
			FixedStartMin:    fixed,
		})
	}
}

func addPrepTask(m *solver.Model, p *domain.PreparationTask, planStart time.Time, horizon int) {
	durMin := hoursToMinutes(p.DurationHours)
	dur := m.NewIntVar(durVar(p.PrepID), durMin, durMin)
	dur.Fix(durMin)

	start := m.NewIntVar(startVar(p.PrepID), 0, horizon)
	end := m.NewIntVar(endVar(p.PrepID), 0, horizon)
	m.AddTask(p.PrepID, start, end, dur)

	var earliest, latest *int
	if p.EarliestStart != nil {
		v := core.ToPlanMinutes(*p.EarliestStart, planStart)
		earliest = &v
	}
	if p.LatestFinish != nil {
		v := core.ToPlanMinutes(*p.LatestFinish, planStart)
		latest = &v
	}
	if earliest != nil || latest != nil {
		m.AddConstraint(solver.WindowConstraint{
			TaskID:           p.PrepID,
			EarliestStartMin: earliest,
			LatestFinishMin:  latest,
		})
	}
}

// durationBoundsMinutes returns [min, max] for a job's duration variable.
// A fixed_duration job has a point domain; otherwise the domain spans
// [0.8, 1.5] of base_duration_hours, reflecting performance-factor
// flexibility across eligible workers.
func durationBoundsMinutes(j *domain.Job) (int, int) {
	if j.FixedDuration != nil {
		v := hoursToMinutes(*j.FixedDuration)
		return v, v
	}
	base := j.BaseDurationHours
	return hoursToMinutes(base * 0.8), hoursToMinutes(base * 1.5)
}

func hoursToMinutes(h float64) int {
	return int(math.Round(h * 60))
}

// StartVar, EndVar, DurVar, and AssignVar name the model variables this
// package creates, exported so engine/objective can reference the same
// handles when building cost/waiting/delay expressions over the model.
func StartVar(taskID string) string { return "start:" + taskID }
func EndVar(taskID string) string   { return "end:" + taskID }
func DurVar(taskID string) string   { return "dur:" + taskID }
func AssignVar(resourceID, taskID string) string { return fmt.Sprintf("assign:%s:%s", resourceID, taskID) }

func startVar(taskID string) string { return StartVar(taskID) }
func endVar(taskID string) string   { return EndVar(taskID) }
func durVar(taskID string) string   { return DurVar(taskID) }
