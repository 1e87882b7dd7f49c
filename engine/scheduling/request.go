// Package scheduling orchestrates the constraint builder, objective
// builder, solver driver, and solution parser into one synchronous
// plan-creation call, plus the derived preparation/gate outputs.
package scheduling

import (
	"fmt"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/aeroqec/qecsched/engine/driver"
	"github.com/aeroqec/qecsched/engine/objective"
)

// WorkPackage is one unit of work in a plan request: a set of job ids
// (optionally detailed) plus the materials they consume.
type WorkPackage struct {
	WorkPackageID string                 `json:"work_package_id"`
	EngineID      string                 `json:"engine_id"`
	JobIDs        []string               `json:"job_ids"`
	JobDetails    []*domain.Job          `json:"job_details,omitempty"`
	Materials     []*domain.MaterialItem `json:"materials,omitempty"`
}

// AssetInput is a physical resource entry in a plan request.
type AssetInput struct {
	AssetID        string           `json:"asset_id"`
	Name           string           `json:"name"`
	Category       string           `json:"category,omitempty"`
	IsCritical     bool             `json:"is_critical,omitempty"`
	Calendar       *domain.Calendar `json:"calendar,omitempty"`
	ExclusiveGroup string           `json:"exclusive_group,omitempty"`
}

// HumanInput is a human resource entry in a plan request.
type HumanInput struct {
	EmployeeID     string           `json:"employee_id"`
	Name           string           `json:"name"`
	Qualifications []string         `json:"qualifications,omitempty"`
	Calendar       *domain.Calendar `json:"calendar,omitempty"`
}

// Config is the plan request's tunable behavior.
type Config struct {
	PrepWindowDays    int                `json:"prep_window_days"`
	ObjectiveTemplate objective.Template `json:"objective_template,omitempty"`
	FreezeInprogress  bool               `json:"freeze_inprogress,omitempty"`
	Weights           map[string]float64 `json:"weights,omitempty"`
	Solver            driver.Config      `json:"solver,omitempty"`
}

// Request is the scheduling service's plan-creation input.
type Request struct {
	RequestID        string                    `json:"request_id"`
	WorkPackages     []WorkPackage             `json:"work_packages"`
	Assets           []AssetInput              `json:"assets,omitempty"`
	Humans           []HumanInput              `json:"humans,omitempty"`
	PreparationTasks []*domain.PreparationTask `json:"preparation_tasks,omitempty"`
	Config           Config                    `json:"config"`
}

// Validate checks Request's own structural invariants, ahead of any
// entity parsing or solver work.
func (r Request) Validate() error {
	if len(r.WorkPackages) == 0 {
		return fmt.Errorf("plan request: at least one work package is required")
	}
	if len(r.Assets) == 0 && len(r.Humans) == 0 {
		return fmt.Errorf("plan request: at least one resource (asset or human) is required")
	}
	if r.Config.PrepWindowDays <= 0 {
		return fmt.Errorf("plan request: prep_window_days must be > 0")
	}
	switch r.Config.ObjectiveTemplate {
	case "", objective.TemplateBalanced, objective.TemplateProtectSLA, objective.TemplateCostMin:
	default:
		return fmt.Errorf("plan request: unknown objective_template %q", r.Config.ObjectiveTemplate)
	}
	return nil
}

// exclusiveGroupConflicts reports the first exclusive group with more than
// one asset in it, since two resources claiming the same exclusive group
// within one plan would make the group's own exclusivity meaningless.
func (r Request) exclusiveGroupConflicts() (string, bool) {
	counts := make(map[string]int)
	for _, a := range r.Assets {
		if a.ExclusiveGroup == "" {
			continue
		}
		counts[a.ExclusiveGroup]++
	}
	for group, n := range counts {
		if n > 1 {
			return group, true
		}
	}
	return "", false
}

// parseJobs builds one domain.Job per work package's job id, preferring a
// matching JobDetails entry when present and defaulting to a bare 4-hour
// job otherwise.
func parseJobs(workPackages []WorkPackage) []*domain.Job {
	var out []*domain.Job
	for _, wp := range workPackages {
		details := make(map[string]*domain.Job, len(wp.JobDetails))
		for _, jd := range wp.JobDetails {
			details[jd.JobID] = jd
		}
		for _, id := range wp.JobIDs {
			if jd, ok := details[id]; ok {
				if jd.EngineID == "" {
					jd.EngineID = wp.EngineID
				}
				out = append(out, jd)
				continue
			}
			out = append(out, &domain.Job{JobID: id, EngineID: wp.EngineID, BaseDurationHours: 4.0})
		}
	}
	return out
}

// parseResources builds the domain.Resource set from a request's assets and
// humans, plus the parallel domain.ToolAsset set the gate service checks.
func parseResources(assets []AssetInput, humans []HumanInput) ([]*domain.Resource, []*domain.ToolAsset) {
	resources := make([]*domain.Resource, 0, len(assets)+len(humans))
	tools := make([]*domain.ToolAsset, 0, len(assets))
	for _, a := range assets {
		res := domain.NewPhysical(a.AssetID, 1, a.ExclusiveGroup != "", a.ExclusiveGroup)
		res.Name = a.Name
		res.Calendar = a.Calendar
		resources = append(resources, res)
		tools = append(tools, &domain.ToolAsset{
			ToolID:         a.AssetID,
			IsCritical:     a.IsCritical,
			IsReady:        true,
			ExclusiveGroup: a.ExclusiveGroup,
		})
	}
	for _, h := range humans {
		res := domain.NewHuman(h.EmployeeID, h.EmployeeID, h.Qualifications)
		res.Name = h.Name
		res.Calendar = h.Calendar
		resources = append(resources, res)
	}
	return resources, tools
}

func materials(workPackages []WorkPackage) []*domain.MaterialItem {
	var out []*domain.MaterialItem
	for _, wp := range workPackages {
		out = append(out, wp.Materials...)
	}
	return out
}
