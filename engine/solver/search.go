package solver

import (
	"sort"
	"time"
)

// maxFixpointIterations bounds the delay-and-repropagate loop so a
// pathologically contended model can't spin forever within its time
// budget (it will instead surface as StatusUnknown).
const maxFixpointIterations = 500

// Solve runs the search: a deterministic constructive pass (earliest-start
// scheduling respecting precedence and windows) followed by a
// delay-and-repropagate fixpoint that resolves exclusive/cumulative
// resource contention, bounded by timeLimit.
func Solve(m *Model, timeLimit time.Duration) Result {
	start := time.Now()
	deadline := start.Add(timeLimit)

	tasks := m.Tasks()
	if len(tasks) == 0 {
		return Result{Status: StatusModelInvalid, ErrorMessage: "model has no tasks"}
	}

	preds, order, err := topologicalOrder(tasks, m.Constraints())
	if err != nil {
		return Result{Status: StatusModelInvalid, ErrorMessage: err.Error()}
	}

	// A duration var's domain is [floor(0.8*base), ceil(1.5*base)] unless
	// fixed; the heuristic always picks the shortest option, which favors
	// makespan and never violates a window's latest_finish more than the
	// base duration would.
	for _, t := range tasks {
		t.Duration.Value = t.Duration.Min
	}

	windows := windowsByTask(m.Constraints())
	resourceGroups := resourceIntervalGroups(m.Constraints())
	// floors accumulates resource-imposed earliest-start bumps across
	// iterations; forwardPass must never schedule a task earlier than its
	// floor, or a contention resolved in a prior iteration would be undone
	// the next time precedence/window propagation runs.
	floors := make(map[string]int)

	converged := false
	for iter := 0; iter < maxFixpointIterations; iter++ {
		if time.Now().After(deadline) {
			break
		}
		forwardPass(order, preds, windows, floors, m)
		moved := resolveResourceContention(resourceGroups, floors, m)
		if !moved {
			converged = true
			break
		}
	}

	resolveAssignmentSums(m.Constraints(), m)

	status := StatusFeasible
	if converged {
		if !resourceGroups.anyContentionObserved {
			status = StatusOptimal
		}
	} else if time.Since(start) >= timeLimit {
		status = StatusUnknown
	}

	if violatesWindowOrHorizon(tasks, windows, m.Horizon) {
		status = StatusInfeasible
	}

	solveTime := time.Since(start).Seconds()
	if status == StatusInfeasible || status == StatusUnknown {
		return Result{
			Status:           status,
			SolveTimeSeconds: solveTime,
			Statistics:       Statistics{WallTime: time.Since(start)},
			ErrorMessage:     "no feasible assignment found within constraints/time budget",
		}
	}

	solution := extractSolution(m)
	var objVal *int64
	if obj := m.Objective(); obj != nil {
		v := obj.Value(m)
		objVal = &v
	}
	return Result{
		Status:           status,
		ObjectiveValue:   objVal,
		SolveTimeSeconds: solveTime,
		Solution:         solution,
		Statistics:       Statistics{WallTime: time.Since(start)},
	}
}

// topologicalOrder returns (predecessors-by-task, Kahn order) over the
// combined precedence edges, or an error if a cycle remains (defensive:
// engine/domain should already have rejected cycles before the model was
// built).
func topologicalOrder(tasks []*TaskVars, constraints []Constraint) (map[string][]string, []string, error) {
	preds := make(map[string][]string, len(tasks))
	succs := make(map[string][]string, len(tasks))
	indegree := make(map[string]int, len(tasks))
	for _, t := range tasks {
		indegree[t.TaskID] = 0
	}
	for _, c := range constraints {
		if p, ok := c.(PrecedenceConstraint); ok {
			preds[p.SuccTaskID] = append(preds[p.SuccTaskID], p.PredTaskID)
			succs[p.PredTaskID] = append(succs[p.PredTaskID], p.SuccTaskID)
			indegree[p.SuccTaskID]++
		}
	}
	queue := make([]string, 0, len(tasks))
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)
	order := make([]string, 0, len(tasks))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		next := append([]string(nil), succs[id]...)
		sort.Strings(next)
		for _, s := range next {
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	if len(order) != len(tasks) {
		return nil, nil, errCycle{}
	}
	return preds, order, nil
}

type errCycle struct{}

func (errCycle) Error() string { return "cycle detected in precedence constraints" }

type windowBounds struct {
	earliestStart *int
	latestFinish  *int
	fixedStart    *int
}

func windowsByTask(constraints []Constraint) map[string]windowBounds {
	out := make(map[string]windowBounds)
	for _, c := range constraints {
		if w, ok := c.(WindowConstraint); ok {
			out[w.TaskID] = windowBounds{
				earliestStart: w.EarliestStartMin,
				latestFinish:  w.LatestFinishMin,
				fixedStart:    w.FixedStartMin,
			}
		}
	}
	return out
}

// forwardPass computes start/end for every task in topological order,
// respecting precedence, windows, and previously-resolved resource delays
// (captured in floors, bumped by resolveResourceContention).
func forwardPass(
	order []string,
	preds map[string][]string,
	windows map[string]windowBounds,
	floors map[string]int,
	m *Model,
) {
	for _, id := range order {
		t, ok := m.Task(id)
		if !ok {
			continue
		}
		earliest := t.Start.Min
		if f, ok := floors[id]; ok && f > earliest {
			earliest = f
		}
		for _, p := range preds[id] {
			if pt, ok := m.Task(p); ok && pt.End.Value > earliest {
				earliest = pt.End.Value
			}
		}
		if w, ok := windows[id]; ok {
			if w.fixedStart != nil {
				earliest = *w.fixedStart
			} else if w.earliestStart != nil && *w.earliestStart > earliest {
				earliest = *w.earliestStart
			}
		}
		if earliest < 0 {
			earliest = 0
		}
		t.Start.Value = earliest
		t.End.Value = t.Start.Value + t.Duration.Value
	}
}

type resourceInterval = ResourceInterval

type groupedConstraints struct {
	noOverlap             []NoOverlapConstraint
	cumulative            []CumulativeConstraint
	anyContentionObserved bool
}

func resourceIntervalGroups(constraints []Constraint) *groupedConstraints {
	g := &groupedConstraints{}
	for _, c := range constraints {
		switch v := c.(type) {
		case NoOverlapConstraint:
			g.noOverlap = append(g.noOverlap, v)
		case CumulativeConstraint:
			g.cumulative = append(g.cumulative, v)
		}
	}
	return g
}

// resolveResourceContention walks every resource group and pushes later any
// task whose interval would overlap (no-overlap groups) or exceed capacity
// (cumulative groups) relative to higher-priority intervals already fixed
// earlier in the group's start order. Returns true if any task's start was
// moved, signaling the caller to repropagate via another forwardPass.
func resolveResourceContention(g *groupedConstraints, floors map[string]int, m *Model) bool {
	moved := false
	for _, grp := range g.noOverlap {
		if resolveNoOverlap(grp, floors, m) {
			moved = true
			g.anyContentionObserved = true
		}
	}
	for _, grp := range g.cumulative {
		if resolveCumulative(grp, floors, m) {
			moved = true
			g.anyContentionObserved = true
		}
	}
	return moved
}

func activeIntervals(group []resourceInterval, m *Model) []resourceInterval {
	out := make([]resourceInterval, 0, len(group))
	for _, iv := range group {
		if iv.PresenceVar != "" {
			if b, ok := m.BoolVarByName(iv.PresenceVar); ok && b.Value == 0 {
				continue
			}
		}
		out = append(out, iv)
	}
	return out
}

func resolveNoOverlap(c NoOverlapConstraint, floors map[string]int, m *Model) bool {
	active := activeIntervals(c.Intervals, m)
	sort.SliceStable(active, func(i, j int) bool {
		si, _ := m.IntVarByName(active[i].StartVar)
		sj, _ := m.IntVarByName(active[j].StartVar)
		return si.Value < sj.Value
	})
	moved := false
	lastEnd := -1
	for _, iv := range active {
		startVar, _ := m.IntVarByName(iv.StartVar)
		if startVar.Value < lastEnd {
			bumpTaskStart(iv.TaskID, lastEnd-startVar.Value, floors, m)
			moved = true
		}
		endVar, _ := m.IntVarByName(iv.EndVar)
		lastEnd = endVar.Value
	}
	return moved
}

func resolveCumulative(c CumulativeConstraint, floors map[string]int, m *Model) bool {
	active := activeIntervals(c.Intervals, m)
	sort.SliceStable(active, func(i, j int) bool {
		si, _ := m.IntVarByName(active[i].StartVar)
		sj, _ := m.IntVarByName(active[j].StartVar)
		return si.Value < sj.Value
	})
	type placed struct {
		end    int
		demand int
	}
	var window []placed
	moved := false
	for _, iv := range active {
		startVar, _ := m.IntVarByName(iv.StartVar)
		endVar, _ := m.IntVarByName(iv.EndVar)
		// drop expired
		kept := window[:0]
		for _, p := range window {
			if p.end > startVar.Value {
				kept = append(kept, p)
			}
		}
		window = kept
		used := 0
		for _, p := range window {
			used += p.demand
		}
		if used+iv.Demand > c.Capacity {
			// delay until the earliest freed capacity
			minEnd := startVar.Value
			for _, p := range window {
				if minEnd == startVar.Value || p.end < minEnd {
					minEnd = p.end
				}
			}
			delay := minEnd - startVar.Value
			if delay <= 0 {
				delay = 1
			}
			bumpTaskStart(iv.TaskID, delay, floors, m)
			moved = true
			_, endVar = m.IntVarByName(iv.EndVar)
		}
		window = append(window, placed{end: endVar.Value, demand: iv.Demand})
	}
	return moved
}

// bumpTaskStart shifts a task's start (and therefore end) later by delay
// minutes, and records the new start as a floor so the next forwardPass
// doesn't schedule the task earlier again. Successor propagation happens on
// the next forwardPass, which reads End.Value for precedence lower bounds.
func bumpTaskStart(taskID string, delay int, floors map[string]int, m *Model) {
	t, ok := m.Task(taskID)
	if !ok || delay <= 0 {
		return
	}
	t.Start.Value += delay
	t.End.Value = t.Start.Value + t.Duration.Value
	if t.Start.Value > floors[taskID] {
		floors[taskID] = t.Start.Value
	}
}

func violatesWindowOrHorizon(tasks []*TaskVars, windows map[string]windowBounds, horizon int) bool {
	for _, t := range tasks {
		if t.End.Value > horizon {
			return true
		}
		if w, ok := windows[t.TaskID]; ok && w.latestFinish != nil && t.End.Value > *w.latestFinish {
			return true
		}
	}
	return false
}

// resolveAssignmentSums satisfies BoolSumAtLeastConstraint by turning on
// the first Min currently-off variables in declaration order. Qualification
// coverage constraints only ever list pre-filtered (qualified) candidates
// (engine/constraint's responsibility), so any Min of them is a valid
// witness; "task execution" constraints reuse whatever qualification
// assignment already went live before picking arbitrary fallbacks.
func resolveAssignmentSums(constraints []Constraint, m *Model) {
	for _, c := range constraints {
		sum, ok := c.(BoolSumAtLeastConstraint)
		if !ok {
			continue
		}
		have := 0
		for _, name := range sum.Vars {
			if v, ok := m.BoolVarByName(name); ok && v.Value == 1 {
				have++
			}
		}
		for _, name := range sum.Vars {
			if have >= sum.Min {
				break
			}
			if v, ok := m.BoolVarByName(name); ok && v.Value == 0 {
				v.Value = 1
				have++
			}
		}
	}
}

func extractSolution(m *Model) *Solution {
	sol := &Solution{
		IntValues:  make(map[string]int),
		BoolValues: make(map[string]int),
	}
	for _, t := range m.Tasks() {
		sol.IntValues[t.Start.Name] = t.Start.Value
		sol.IntValues[t.End.Name] = t.End.Value
		sol.IntValues[t.Duration.Name] = t.Duration.Value
	}
	for _, b := range m.BoolVars() {
		sol.BoolValues[b.Name] = b.Value
	}
	return sol
}
