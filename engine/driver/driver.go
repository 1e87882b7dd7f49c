// Package driver owns the CP model for one plan request and runs it
// through the add_*/add_constraints/set_objective/solve/clear lifecycle;
// the solution parser reads the solved model through Model. It is the one package that imports engine/constraint,
// engine/objective, and engine/solver together, so neither of those two
// needs to know about the other.
package driver

import (
	"fmt"
	"time"

	"github.com/aeroqec/qecsched/engine/constraint"
	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/objective"
	"github.com/aeroqec/qecsched/engine/solver"
)

const (
	defaultTimeLimitSeconds = 300
	maxTimeLimitSeconds     = 3600
	defaultSearchWorkers    = 1
	maxSearchWorkers        = 16
)

// Config carries the knobs a caller may set before Solve. OptimizationParameters
// is forwarded opaquely; this driver's own heuristic search does not read
// it, but it is kept on the struct so callers building toward a real
// CP-SAT binding later have somewhere to put solver-specific tuning.
type Config struct {
	TimeLimitSeconds       int            `json:"time_limit_seconds,omitempty"`
	NumSearchWorkers       int            `json:"num_search_workers,omitempty"`
	LogSearchProgress      bool           `json:"log_search_progress,omitempty"`
	RandomSeed             *int           `json:"random_seed,omitempty"`
	OptimizationParameters map[string]any `json:"optimization_parameters,omitempty"`
}

// normalized returns a copy of cfg with defaults applied and limits capped.
func (c Config) normalized() Config {
	out := c
	if out.TimeLimitSeconds <= 0 {
		out.TimeLimitSeconds = defaultTimeLimitSeconds
	}
	if out.TimeLimitSeconds > maxTimeLimitSeconds {
		out.TimeLimitSeconds = maxTimeLimitSeconds
	}
	if out.NumSearchWorkers <= 0 {
		out.NumSearchWorkers = defaultSearchWorkers
	}
	if out.NumSearchWorkers > maxSearchWorkers {
		out.NumSearchWorkers = maxSearchWorkers
	}
	return out
}

// Driver is the stateful owner of one plan request's CP model across its
// lifecycle. Not safe for concurrent use.
type Driver struct {
	cfg Config

	jobs      []*domain.Job
	preps     []*domain.PreparationTask
	resources []*domain.Resource
	planStart time.Time
	horizon   int

	model *solver.Model
}

// New constructs an uninitialized driver with the given config.
func New(cfg Config) *Driver {
	return &Driver{cfg: cfg.normalized()}
}

// Initialize resets the driver to accept a new request, given the plan's
// start instant and planning horizon in minutes.
func (d *Driver) Initialize(planStart time.Time, horizonMinutes int) {
	d.planStart = planStart
	d.horizon = horizonMinutes
	d.jobs = nil
	d.preps = nil
	d.resources = nil
	d.model = nil
}

// AddJobs registers jobs for the current request.
func (d *Driver) AddJobs(jobs []*domain.Job) { d.jobs = append(d.jobs, jobs...) }

// AddResources registers resources for the current request.
func (d *Driver) AddResources(resources []*domain.Resource) { d.resources = append(d.resources, resources...) }

// AddPreparationTasks registers preparation tasks for the current request.
func (d *Driver) AddPreparationTasks(preps []*domain.PreparationTask) {
	d.preps = append(d.preps, preps...)
}

// AddConstraints lowers every added entity into a fresh CP model. Must be
// called after the add_* calls and before SetObjective.
func (d *Driver) AddConstraints() error {
	if err := d.validateBeforeSolve(); err != nil {
		return err
	}
	m, err := constraint.Build(constraint.Input{
		Jobs:             d.jobs,
		PreparationTasks: d.preps,
		Resources:        d.resources,
		PlanStart:        d.planStart,
		HorizonMinutes:   d.horizon,
	})
	if err != nil {
		return err
	}
	d.model = m
	return nil
}

// SetObjective builds and installs the weighted objective on the current
// model. Must be called after AddConstraints.
func (d *Driver) SetObjective(objCfg objective.Config) error {
	if d.model == nil {
		return core.NewError(fmt.Errorf("solver driver: model not initialized, call AddConstraints first"), CodeConfiguration, nil)
	}
	obj, err := objective.Build(objective.Input{
		Jobs:             d.jobs,
		PreparationTasks: d.preps,
		Resources:        d.resources,
		PlanStart:        d.planStart,
		Config:           objCfg,
	})
	if err != nil {
		return err
	}
	d.model.SetObjective(obj)
	return nil
}

// Solve runs the search and returns its result. The driver must already
// have a model (AddConstraints) and, typically, an objective.
func (d *Driver) Solve() (solver.Result, error) {
	if d.model == nil {
		return solver.Result{}, core.NewError(fmt.Errorf("solver driver: model not initialized, call AddConstraints first"), CodeConfiguration, nil)
	}
	timeLimit := time.Duration(d.cfg.TimeLimitSeconds) * time.Second
	return solver.Solve(d.model, timeLimit), nil
}

// Model exposes the underlying model for the solution parser.
func (d *Driver) Model() *solver.Model { return d.model }

// PlanStart returns the configured plan start instant.
func (d *Driver) PlanStart() time.Time { return d.planStart }

// Clear releases the model and entity lists, making the driver reusable
// for a new request via Initialize.
func (d *Driver) Clear() {
	if d.model != nil {
		d.model.Clear()
	}
	d.model = nil
	d.jobs = nil
	d.preps = nil
	d.resources = nil
}

func (d *Driver) validateBeforeSolve() error {
	if len(d.jobs) == 0 && len(d.preps) == 0 {
		return core.NewError(fmt.Errorf("solver driver: at least one job or preparation task is required"), CodeValidation, nil)
	}
	if len(d.resources) == 0 {
		return core.NewError(fmt.Errorf("solver driver: at least one resource is required"), CodeValidation, nil)
	}
	known := make(map[string]struct{}, len(d.jobs)+len(d.preps))
	for _, j := range d.jobs {
		known[j.JobID] = struct{}{}
	}
	for _, p := range d.preps {
		known[p.PrepID] = struct{}{}
	}
	for _, j := range d.jobs {
		for _, pred := range j.PredecessorJobs {
			if _, ok := known[pred]; !ok {
				return core.NewError(fmt.Errorf("solver driver: job %s references unknown predecessor %s", j.JobID, pred), CodeValidation, nil)
			}
		}
	}
	for _, p := range d.preps {
		for _, dep := range p.Dependencies {
			if _, ok := known[dep]; !ok {
				return core.NewError(fmt.Errorf("solver driver: preparation task %s references unknown dependency %s", p.PrepID, dep), CodeValidation, nil)
			}
		}
	}
	return nil
}
