package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
)

// Input bundles the state a gate evaluation reads.
type Input struct {
	Tools            []*domain.ToolAsset
	Materials        []*domain.MaterialItem
	PreparationTasks []*domain.PreparationTask
}

// Evaluate computes the seven global gate-type results plus, for every
// gating preparation task, its own required_conditions against that state.
// Gate evaluation is pure: repeated calls on unchanged inputs return
// identical results.
func Evaluate(ctx context.Context, evaluator *CELEvaluator, in Input, now time.Time) ([]Result, Summary, error) {
	state := computeState(in.Tools, in.Materials, in.PreparationTasks)

	results := make([]Result, 0, len(allTypes))
	for _, t := range allTypes {
		results = append(results, globalResult(t, state[string(t)]))
	}

	for _, p := range in.PreparationTasks {
		if !p.GatePresent() {
			continue
		}
		if err := evaluatePrepGate(ctx, evaluator, p, state, now); err != nil {
			return nil, Summary{}, fmt.Errorf("gate: evaluating preparation task %s: %w", p.PrepID, err)
		}
	}

	return results, summarize(results), nil
}

func globalResult(t Type, passed bool) Result {
	r := Result{GateType: t}
	if passed {
		r.Status = StatusPassed
		r.PassedConditions = []string{string(t)}
		return r
	}
	r.Status = StatusFailed
	r.FailedConditions = []string{string(t)}
	if action := requiredActions[t]; action != "" {
		r.RequiredActions = []string{action}
	}
	return r
}

// evaluatePrepGate evaluates a preparation task's own Gate.RequiredConditions
// as CEL boolean expressions over state plus task_complete/evidence_complete,
// mutating the task's Gate in place.
func evaluatePrepGate(ctx context.Context, evaluator *CELEvaluator, p *domain.PreparationTask, state map[string]bool, now time.Time) error {
	full := make(map[string]any, len(state)+2)
	for k, v := range state {
		full[k] = v
	}
	full["task_complete"] = p.Status == domain.PrepCompleted
	full["evidence_complete"] = domain.EvidenceComplete(p.EvidenceRequired, p.SubmittedEvidence)

	var passed, failed []string
	for _, cond := range p.Gate.RequiredConditions {
		ok, err := evaluator.Evaluate(ctx, cond, full)
		if err != nil {
			return err
		}
		if ok {
			passed = append(passed, cond)
		} else {
			failed = append(failed, cond)
		}
	}

	p.Gate.PassedAt = nil
	p.Gate.FailedConditions = failed
	p.Gate.IsPassed = len(failed) == 0 && len(p.Gate.RequiredConditions) > 0
	if p.Gate.IsPassed {
		t := now
		p.Gate.PassedAt = &t
	}
	return nil
}

// summarize aggregates Results into the plan-wide pass rate, critical
// risks, and union of required actions.
func summarize(results []Result) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}
	passed := 0
	for _, r := range results {
		if r.Status == StatusPassed {
			passed++
			continue
		}
		if criticalTypes[r.GateType] {
			s.CriticalRisks = append(s.CriticalRisks, string(r.GateType))
		}
		s.RequiredActions = append(s.RequiredActions, r.RequiredActions...)
	}
	s.PassRate = float64(passed) / float64(len(results))
	return s
}
