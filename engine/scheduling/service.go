package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/driver"
	"github.com/aeroqec/qecsched/engine/gate"
	"github.com/aeroqec/qecsched/engine/objective"
	"github.com/aeroqec/qecsched/engine/solution"
)

// Service wires the constraint builder, objective builder, solver driver,
// solution parser, and gate evaluator into one plan-creation call.
type Service struct {
	celEvaluator *gate.CELEvaluator
}

// NewService constructs a Service with its own CEL evaluator for gate
// condition checks.
func NewService() (*Service, error) {
	ev, err := gate.NewCELEvaluator()
	if err != nil {
		return nil, fmt.Errorf("scheduling: building gate evaluator: %w", err)
	}
	return &Service{celEvaluator: ev}, nil
}

// CreatePlan runs one request through validation, business rules, the
// solver, and the gate evaluator, returning a Response either way: a
// solver or business-rule failure is reported as an error Response, not a
// Go error, since a rejected plan is a normal outcome a caller must be
// able to render.
func (s *Service) CreatePlan(ctx context.Context, req Request, now time.Time) (Response, error) {
	planID := NewPlanID(now, req.RequestID)

	if err := req.Validate(); err != nil {
		return errorResponse(planID, req.RequestID, now, err, CodeValidation), nil
	}

	if group, conflict := req.exclusiveGroupConflicts(); conflict {
		err := core.NewError(
			fmt.Errorf("scheduling: exclusive group %q claimed by more than one asset", group),
			CodeConstraintViolation,
			map[string]any{"exclusive_group": group},
		)
		return errorResponse(planID, req.RequestID, now, err, CodeConstraintViolation), nil
	}

	jobs := parseJobs(req.WorkPackages)
	resources, tools := parseResources(req.Assets, req.Humans)
	mats := materials(req.WorkPackages)
	preps := req.PreparationTasks

	d := driver.New(req.Config.Solver)
	d.Initialize(now, req.Config.PrepWindowDays*24*60)
	d.AddJobs(jobs)
	d.AddResources(resources)
	d.AddPreparationTasks(preps)

	if err := d.AddConstraints(); err != nil {
		return errorResponse(planID, req.RequestID, now, err, CodeConstraintViolation), nil
	}

	tmpl := req.Config.ObjectiveTemplate
	if tmpl == "" {
		tmpl = objective.TemplateBalanced
	}
	objCfg := objective.Config{Template: tmpl, Overrides: req.Config.Weights}
	if err := d.SetObjective(objCfg); err != nil {
		return errorResponse(planID, req.RequestID, now, err, CodeConfiguration), nil
	}

	result, err := d.Solve()
	if err != nil {
		return errorResponse(planID, req.RequestID, now, err, CodeSolver), nil
	}
	if !result.Status.HasSolution() {
		err := core.NewError(
			fmt.Errorf("scheduling: solver returned status %s: %s", result.Status, result.ErrorMessage),
			CodeSolver,
			map[string]any{"status": string(result.Status)},
		)
		return errorResponse(planID, req.RequestID, now, err, CodeSolver), nil
	}

	schedule, err := solution.Parse(solution.Input{
		PlanID:           planID,
		Result:           result,
		Jobs:             jobs,
		PreparationTasks: preps,
		Resources:        resources,
		PlanStart:        now,
	})
	if err != nil {
		return errorResponse(planID, req.RequestID, now, err, CodeSolver), nil
	}

	gateResults, gateSummary, err := gate.Evaluate(ctx, s.celEvaluator, gate.Input{
		Tools:            tools,
		Materials:        mats,
		PreparationTasks: preps,
	}, now)
	if err != nil {
		return errorResponse(planID, req.RequestID, now, err, CodeGate), nil
	}
	schedule.Gates = toGateSnapshots(gateResults)

	return Response{
		PlanID:           planID,
		RequestID:        req.RequestID,
		CreatedAt:        now,
		Gates:            gateResults,
		GateSummary:      gateSummary,
		PreparationTasks: preps,
		Makespan:         core.FormatISO8601Duration(schedule.Metrics.MakespanHours),
		Schedule:         schedule,
	}, nil
}

func toGateSnapshots(results []gate.Result) []domain.GateSnapshot {
	out := make([]domain.GateSnapshot, 0, len(results))
	for _, r := range results {
		out = append(out, domain.GateSnapshot{GateType: string(r.GateType), Passed: r.Status == gate.StatusPassed})
	}
	return out
}
