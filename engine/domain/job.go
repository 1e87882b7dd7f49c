// Package domain holds the scheduling core's entities: jobs, resources,
// preparation tasks, gates, events, and the schedule they produce. Entities
// carry their own invariants; nothing here touches the solver.
package domain

import (
	"fmt"
	"time"

	"github.com/aeroqec/qecsched/engine/core"
)

// JobStatus is an externally-observed lifecycle state. The solver never
// mutates it; it only reads it to decide which jobs may still move.
type JobStatus string

const (
	JobNotStarted JobStatus = "not_started"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
	JobBlocked    JobStatus = "blocked"
	JobPaused     JobStatus = "paused"
)

// IsValid reports whether s is one of the defined job statuses.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobNotStarted, JobInProgress, JobCompleted, JobCancelled, JobBlocked, JobPaused:
		return true
	default:
		return false
	}
}

// IsFrozen reports whether a job in this status must keep its current
// placement across a replan.
func (s JobStatus) IsFrozen() bool {
	return s == JobInProgress || s == JobCompleted
}

// ResourceRequirement binds a job to one resource it needs.
type ResourceRequirement struct {
	ResourceID string `json:"resource_id"`
	Quantity   int    `json:"quantity"`
	IsCritical bool   `json:"is_critical"`
}

// Job is the atomic unit of scheduled work.
type Job struct {
	JobID      string `json:"job_id"`
	WorkCardID string `json:"work_card_id"`
	EngineID   string `json:"engine_id"`

	// Area names the physical zone the job executes in (e.g. "bay_3",
	// "outdoor_area", "crane_zone"). Used both to penalize a resource
	// working across many areas (the switches objective term) and to match
	// a weather event's affected_areas against in-flight jobs.
	Area string `json:"area,omitempty"`

	BaseDurationHours float64  `json:"base_duration_hours"`
	FixedDuration     *float64 `json:"fixed_duration,omitempty"`
	// PerformanceFactors maps worker id -> multiplier in [0.1, 2.0].
	PerformanceFactors map[string]float64 `json:"performance_factors,omitempty"`

	RequiredResources      []ResourceRequirement `json:"required_resources,omitempty"`
	RequiredQualifications []string              `json:"required_qualifications,omitempty"`

	PredecessorJobs []string `json:"predecessor_jobs,omitempty"`

	EarliestStart *time.Time `json:"earliest_start,omitempty"`
	LatestFinish  *time.Time `json:"latest_finish,omitempty"`
	FixedStart    *time.Time `json:"fixed_start,omitempty"`

	Status JobStatus `json:"status"`

	// RequiredMaterials names MaterialItem ids this job consumes, used by
	// the event service to resolve eta_change impact.
	RequiredMaterials []string `json:"required_materials,omitempty"`
}

// SuccessorJobs derives the reverse edges of PredecessorJobs from a full job
// list: successors are computed, not stored.
func SuccessorJobs(jobs []*Job) map[string][]string {
	successors := make(map[string][]string, len(jobs))
	for _, j := range jobs {
		for _, pred := range j.PredecessorJobs {
			successors[pred] = append(successors[pred], j.JobID)
		}
	}
	return successors
}

// EffectiveDurationHours returns the duration a job contributes to window
// checks: FixedDuration when set, otherwise BaseDurationHours.
func (j *Job) EffectiveDurationHours() float64 {
	if j.FixedDuration != nil {
		return *j.FixedDuration
	}
	return j.BaseDurationHours
}

// Validate checks Job's invariants in isolation. Cross-job invariants such
// as DAG acyclicity are checked by DependencyGraph.ValidateAcyclic over the
// whole job+preparation set.
func (j *Job) Validate() error {
	if j.JobID == "" {
		return fmt.Errorf("job: job_id is required")
	}
	if j.BaseDurationHours <= 0 {
		return fmt.Errorf("job %s: base_duration_hours must be > 0", j.JobID)
	}
	if j.FixedDuration != nil && *j.FixedDuration <= 0 {
		return fmt.Errorf("job %s: fixed_duration must be > 0", j.JobID)
	}
	for _, pred := range j.PredecessorJobs {
		if pred == j.JobID {
			return fmt.Errorf("job %s: cannot depend on itself", j.JobID)
		}
	}
	seenWorkers := make(map[string]struct{}, len(j.PerformanceFactors))
	for worker, factor := range j.PerformanceFactors {
		if _, dup := seenWorkers[worker]; dup {
			return fmt.Errorf("job %s: duplicate performance factor for worker %s", j.JobID, worker)
		}
		seenWorkers[worker] = struct{}{}
		if factor < 0.1 || factor > 2.0 {
			return fmt.Errorf("job %s: performance factor for %s must be in [0.1, 2.0], got %v", j.JobID, worker, factor)
		}
	}
	for _, req := range j.RequiredResources {
		if req.Quantity < 1 {
			return fmt.Errorf("job %s: resource requirement %s must have quantity >= 1", j.JobID, req.ResourceID)
		}
	}
	if j.Status != "" && !j.Status.IsValid() {
		return fmt.Errorf("job %s: invalid status %q", j.JobID, j.Status)
	}
	if j.EarliestStart != nil && j.LatestFinish != nil {
		if !j.EarliestStart.Before(*j.LatestFinish) {
			return fmt.Errorf("job %s: earliest_start must be before latest_finish", j.JobID)
		}
		window := j.LatestFinish.Sub(*j.EarliestStart)
		need := time.Duration(j.EffectiveDurationHours() * float64(time.Hour))
		if window < need {
			return fmt.Errorf("job %s: time window shorter than effective duration", j.JobID)
		}
	}
	return nil
}

// ToPlanMinutes is a convenience wrapper matching core.ToPlanMinutes, kept
// here so domain callers need not reach into engine/core directly for the
// common case of converting a job's windows.
func ToPlanMinutes(t time.Time, planStart time.Time) int {
	return core.ToPlanMinutes(t, planStart)
}
