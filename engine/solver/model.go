// Package solver owns the CP-SAT-class variable/constraint model and the
// search that turns it into a concrete assignment. It has no knowledge of
// jobs, resources, or gates — engine/constraint and engine/objective lower
// the domain into this package's vocabulary, and engine/solution lifts the
// result back out.
package solver

import "fmt"

// IntVar is an integer decision variable with an inclusive domain
// [Min, Max]. Start/end/duration task variables are all IntVars.
type IntVar struct {
	Name  string
	Min   int
	Max   int
	Value int
	fixed bool
}

// Fix pins the variable to value, shrinking its domain to a point. Used for
// fixed_duration, fixed_start, and in-progress-freeze constraints.
func (v *IntVar) Fix(value int) {
	v.Min, v.Max, v.Value = value, value, value
	v.fixed = true
}

// IsFixed reports whether the variable's domain is a single point.
func (v *IntVar) IsFixed() bool { return v.fixed || v.Min == v.Max }

// BoolVar is a 0/1 decision variable, used for (resource, task) assignment
// indicators.
type BoolVar struct {
	Name  string
	Value int // 0 or 1 once solved
}

// TaskVars bundles the three variables the constraint builder creates per
// task.
type TaskVars struct {
	TaskID   string
	Start    *IntVar
	End      *IntVar
	Duration *IntVar
}

// Model is the CP model instance owned by the solver driver for the
// lifetime of one request. It is not safe for concurrent use by more than
// one goroutine.
type Model struct {
	Horizon int

	intVars  map[string]*IntVar
	boolVars map[string]*BoolVar
	tasks    map[string]*TaskVars

	constraints []Constraint
	objective   *Objective
}

// NewModel creates an empty model with the given planning horizon in
// minutes, relative to the plan's start instant.
func NewModel(horizonMinutes int) *Model {
	return &Model{
		Horizon:  horizonMinutes,
		intVars:  make(map[string]*IntVar),
		boolVars: make(map[string]*BoolVar),
		tasks:    make(map[string]*TaskVars),
	}
}

// NewIntVar registers and returns a new integer variable. Registering the
// same name twice is a programmer error and panics: handles are keyed by
// id and must be created exactly once per add_* call.
func (m *Model) NewIntVar(name string, min, max int) *IntVar {
	if _, exists := m.intVars[name]; exists {
		panic(fmt.Sprintf("solver: int var %q already registered", name))
	}
	v := &IntVar{Name: name, Min: min, Max: max}
	m.intVars[name] = v
	return v
}

// NewBoolVar registers and returns a new boolean variable.
func (m *Model) NewBoolVar(name string) *BoolVar {
	if _, exists := m.boolVars[name]; exists {
		panic(fmt.Sprintf("solver: bool var %q already registered", name))
	}
	v := &BoolVar{Name: name}
	m.boolVars[name] = v
	return v
}

// AddTask registers the (start, end, duration) triple for a task id.
func (m *Model) AddTask(taskID string, start, end, duration *IntVar) {
	m.tasks[taskID] = &TaskVars{TaskID: taskID, Start: start, End: end, Duration: duration}
}

// Task returns the registered variables for taskID.
func (m *Model) Task(taskID string) (*TaskVars, bool) {
	t, ok := m.tasks[taskID]
	return t, ok
}

// Tasks returns every registered task's variables. Order is unspecified.
func (m *Model) Tasks() []*TaskVars {
	out := make([]*TaskVars, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out
}

// IntVarByName looks up a previously registered integer variable.
func (m *Model) IntVarByName(name string) (*IntVar, bool) {
	v, ok := m.intVars[name]
	return v, ok
}

// BoolVarByName looks up a previously registered boolean variable.
func (m *Model) BoolVarByName(name string) (*BoolVar, bool) {
	v, ok := m.boolVars[name]
	return v, ok
}

// BoolVars returns every registered boolean variable. Order is unspecified.
func (m *Model) BoolVars() []*BoolVar {
	out := make([]*BoolVar, 0, len(m.boolVars))
	for _, v := range m.boolVars {
		out = append(out, v)
	}
	return out
}

// AddConstraint appends a hard constraint to the model.
func (m *Model) AddConstraint(c Constraint) {
	m.constraints = append(m.constraints, c)
}

// Constraints returns every constraint added so far.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// SetObjective installs the objective to minimize. Calling it twice
// replaces the previous objective.
func (m *Model) SetObjective(o *Objective) {
	m.objective = o
}

// Objective returns the installed objective, or nil if none was set.
func (m *Model) Objective() *Objective {
	return m.objective
}

// Clear releases every variable and constraint handle. The scheduling
// service exclusively owns the CP model for one request; after Clear, all
// previously issued handles are invalid and their names are free to be
// reused.
func (m *Model) Clear() {
	m.intVars = make(map[string]*IntVar)
	m.boolVars = make(map[string]*BoolVar)
	m.tasks = make(map[string]*TaskVars)
	m.constraints = nil
	m.objective = nil
}
