package objective

import (
	"fmt"
	"time"

	"github.com/aeroqec/qecsched/engine/constraint"
	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/solver"
	"github.com/shopspring/decimal"
)

// Input bundles the entities needed to evaluate cost/waiting/switches
// terms against a built model; Jobs/PreparationTasks/Resources should be
// the same slices (and PlanStart) passed to constraint.Build for the same
// request.
type Input struct {
	Jobs             []*domain.Job
	PreparationTasks []*domain.PreparationTask
	Resources        []*domain.Resource
	PlanStart        time.Time
	Config           Config
}

// Build resolves the configured weights and assembles a solver.Objective
// whose terms read the built model's variables once the search has run.
// Fails with CodeConfiguration if every term ends up weighted at zero.
func Build(in Input) (*solver.Objective, error) {
	w, err := ResolveWeights(in.Config)
	if err != nil {
		return nil, err
	}

	resourcesByID := make(map[string]*domain.Resource, len(in.Resources))
	for _, r := range in.Resources {
		resourcesByID[r.ResourceID] = r
	}

	var terms []solver.ObjectiveTerm

	if w.Makespan > 0 {
		terms = append(terms, solver.ObjectiveTerm{
			Name:         "makespan",
			ScaledWeight: ScaleWeight(w.Makespan),
			Evaluate:     evaluateMakespan,
		})
	}
	if w.Cost > 0 {
		terms = append(terms, solver.ObjectiveTerm{
			Name:         "cost",
			ScaledWeight: ScaleWeight(w.Cost),
			Evaluate:     evaluateCost(in.Jobs, resourcesByID),
		})
	}
	if w.Waiting > 0 {
		edges := combinedEdges(in.Jobs, in.PreparationTasks)
		terms = append(terms, solver.ObjectiveTerm{
			Name:         "waiting",
			ScaledWeight: ScaleWeight(w.Waiting),
			Evaluate:     evaluateWaiting(edges),
		})
	}
	if w.Switches > 0 {
		terms = append(terms, solver.ObjectiveTerm{
			Name:         "switches",
			ScaledWeight: ScaleWeight(w.Switches),
			Evaluate:     evaluateSwitches(in.Jobs, in.Resources),
		})
	}
	if w.Delays > 0 {
		terms = append(terms, solver.ObjectiveTerm{
			Name:         "delays",
			ScaledWeight: ScaleWeight(w.Delays),
			Evaluate:     evaluateDelays(in.Jobs, in.PreparationTasks, in.PlanStart),
		})
	}
	// utilization and preference are reserved contract terms with no
	// implementation: the domain model has no per-resource availability
	// timeline fine-grained enough to compute a ratio against, and no
	// worker-preference record at all. A nonzero weight for either is
	// accepted but contributes nothing, matching the reserved/no-op
	// contract.

	if len(terms) == 0 {
		return nil, core.NewError(
			fmt.Errorf("no valid objective terms"),
			CodeConfiguration,
			nil,
		)
	}

	return &solver.Objective{Terms: terms}, nil
}

func evaluateMakespan(m *solver.Model) int64 {
	tasks := m.Tasks()
	if len(tasks) == 0 {
		return 0
	}
	minStart, maxEnd := tasks[0].Start.Value, tasks[0].End.Value
	for _, t := range tasks {
		if t.Start.Value < minStart {
			minStart = t.Start.Value
		}
		if t.End.Value > maxEnd {
			maxEnd = t.End.Value
		}
	}
	return int64(maxEnd - minStart)
}

// evaluateCost returns a closure computing total cost in cents:
// assign(R,T) x duration(T) x hourly_cost(R) / 60, summed over every job's
// mandatory physical requirements (always active) and human candidates
// (gated by their assignment bool).
func evaluateCost(jobs []*domain.Job, resourcesByID map[string]*domain.Resource) func(*solver.Model) int64 {
	return func(m *solver.Model) int64 {
		total := decimal.Zero
		for _, j := range jobs {
			dur, ok := m.IntVarByName(constraint.DurVar(j.JobID))
			if !ok {
				continue
			}
			durationHours := decimal.NewFromInt(int64(dur.Value)).Div(decimal.NewFromInt(60))
			for _, req := range j.RequiredResources {
				res := resourcesByID[req.ResourceID]
				if res == nil || res.HourlyCost == nil {
					continue
				}
				total = total.Add(res.HourlyCost.Mul(durationHours).Mul(decimal.NewFromInt(int64(req.Quantity))))
			}
			for _, r := range resourcesByID {
				if r.Kind != domain.KindHuman || r.HourlyCost == nil {
					continue
				}
				assign, ok := m.BoolVarByName(constraint.AssignVar(r.ResourceID, j.JobID))
				if !ok || assign.Value == 0 {
					continue
				}
				total = total.Add(r.HourlyCost.Mul(durationHours))
			}
		}
		// Preparation tasks consume assets, not priced labor, so they carry
		// no term here.
		return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart() // cents
	}
}

func combinedEdges(jobs []*domain.Job, preps []*domain.PreparationTask) [][2]string {
	return domain.NewDependencyGraph(jobs, preps).CombinedEdges()
}

// evaluateWaiting sums max(0, start(succ)-end(pred)) over every precedence
// edge: idle time a successor spends waiting on its predecessor.
func evaluateWaiting(edges [][2]string) func(*solver.Model) int64 {
	return func(m *solver.Model) int64 {
		var total int64
		for _, edge := range edges {
			pred, succ := edge[0], edge[1]
			predEnd, ok1 := m.IntVarByName(constraint.EndVar(pred))
			succStart, ok2 := m.IntVarByName(constraint.StartVar(succ))
			if !ok1 || !ok2 {
				continue
			}
			if gap := succStart.Value - predEnd.Value; gap > 0 {
				total += int64(gap)
			}
		}
		return total
	}
}

// evaluateSwitches penalizes a human resource working across more than one
// job area: 100 per area beyond the first, per resource.
func evaluateSwitches(jobs []*domain.Job, resources []*domain.Resource) func(*solver.Model) int64 {
	return func(m *solver.Model) int64 {
		var total int64
		for _, r := range resources {
			if r.Kind != domain.KindHuman {
				continue
			}
			areas := make(map[string]struct{})
			for _, j := range jobs {
				if j.Area == "" {
					continue
				}
				assign, ok := m.BoolVarByName(constraint.AssignVar(r.ResourceID, j.JobID))
				if !ok || assign.Value == 0 {
					continue
				}
				areas[j.Area] = struct{}{}
			}
			if len(areas) > 1 {
				total += int64(100 * (len(areas) - 1))
			}
		}
		return total
	}
}

// evaluateDelays sums max(0, end(T)-latest_finish(T)) x 1000 over every
// task with a latest_finish window, jobs and preparation tasks alike.
func evaluateDelays(jobs []*domain.Job, preps []*domain.PreparationTask, planStart time.Time) func(*solver.Model) int64 {
	deadlines := make(map[string]int)
	for _, j := range jobs {
		if j.LatestFinish != nil {
			deadlines[constraint.EndVar(j.JobID)] = core.ToPlanMinutes(*j.LatestFinish, planStart)
		}
	}
	for _, p := range preps {
		if p.LatestFinish != nil {
			deadlines[constraint.EndVar(p.PrepID)] = core.ToPlanMinutes(*p.LatestFinish, planStart)
		}
	}
	return func(m *solver.Model) int64 {
		var total int64
		for endVarName, deadlineMin := range deadlines {
			end, ok := m.IntVarByName(endVarName)
			if !ok {
				continue
			}
			if over := end.Value - deadlineMin; over > 0 {
				total += int64(over) * 1000
			}
		}
		return total
	}
}
