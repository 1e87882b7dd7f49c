// Package objective turns a priority template plus optional overrides into
// a solver.Objective: a weighted sum of makespan, cost, waiting, switching,
// and lateness terms over a built model.
package objective

import (
	"fmt"

	"github.com/aeroqec/qecsched/engine/core"
)

// Template names a built-in weight vector tuned for a planning posture.
type Template string

const (
	TemplateBalanced   Template = "balanced"
	TemplateProtectSLA Template = "protect_sla"
	TemplateCostMin    Template = "cost_min"
)

// Weights is the (makespan, cost, utilization, waiting, switches, delays,
// preference) vector from the priority template table.
type Weights struct {
	Makespan    float64
	Cost        float64
	Utilization float64
	Waiting     float64
	Switches    float64
	Delays      float64
	Preference  float64
}

var templateWeights = map[Template]Weights{
	TemplateBalanced:   {Makespan: 1.0, Cost: 0.3, Utilization: 0.2, Waiting: 0.4, Switches: 0.2, Delays: 0.6, Preference: 0.1},
	TemplateProtectSLA: {Makespan: 2.0, Cost: 0.1, Utilization: 0.1, Waiting: 0.2, Switches: 0.1, Delays: 1.0, Preference: 0.05},
	TemplateCostMin:    {Makespan: 0.5, Cost: 1.0, Utilization: 0.3, Waiting: 0.1, Switches: 0.5, Delays: 0.3, Preference: 0.1},
}

// Config selects a template and optionally overrides individual term
// weights by name.
type Config struct {
	Template  Template
	Overrides map[string]float64
}

// ResolveWeights looks up the template's base vector and applies Overrides
// on top, matching each override key against the term name. An empty
// Template defaults to balanced; an unrecognized one is a configuration
// error, since the caller almost certainly mistyped a template name.
func ResolveWeights(cfg Config) (Weights, error) {
	tmpl := cfg.Template
	if tmpl == "" {
		tmpl = TemplateBalanced
	}
	w, ok := templateWeights[tmpl]
	if !ok {
		return Weights{}, core.NewError(
			fmt.Errorf("unknown objective template %q", cfg.Template),
			CodeConfiguration,
			map[string]any{"template": string(cfg.Template)},
		)
	}
	for term, weight := range cfg.Overrides {
		switch term {
		case "makespan":
			w.Makespan = weight
		case "cost":
			w.Cost = weight
		case "utilization":
			w.Utilization = weight
		case "waiting":
			w.Waiting = weight
		case "switches":
			w.Switches = weight
		case "delays":
			w.Delays = weight
		case "preference":
			w.Preference = weight
		}
	}
	return w, nil
}

// ScaleWeight converts a float weight to the integer scale the solver's
// expressions operate in: round(weight * 1000), keeping every term in the
// summed objective integer-valued.
func ScaleWeight(w float64) int64 {
	if w < 0 {
		return -int64(-w*1000 + 0.5)
	}
	return int64(w*1000 + 0.5)
}
