package resource

import (
	"sort"

	"github.com/aeroqec/qecsched/engine/domain"
)

// ConflictKind classifies a detected resource conflict.
type ConflictKind string

const (
	ConflictTimeOverlap          ConflictKind = "time_overlap"
	ConflictExclusiveResource    ConflictKind = "exclusive_resource_conflict"
	ConflictCapacityExceeded     ConflictKind = "capacity_exceeded"
)

// Severity is a conflict's risk level.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Conflict is one detected resource-allocation problem.
type Conflict struct {
	Kind       ConflictKind `json:"kind"`
	Severity   Severity     `json:"severity"`
	ResourceID string       `json:"resource_id"`
	TaskIDs    []string     `json:"task_ids"`
}

// DetectConflicts scans allocations for same-resource time overlaps and
// capacity breaches, grouped by resource.
func DetectConflicts(allocations []domain.ResourceAllocation, resourcesByID map[string]*domain.Resource) []Conflict {
	byResource := make(map[string][]domain.ResourceAllocation)
	for _, a := range allocations {
		byResource[a.ResourceID] = append(byResource[a.ResourceID], a)
	}

	var out []Conflict
	for resID, allocs := range byResource {
		res := resourcesByID[resID]
		out = append(out, pairwiseOverlaps(resID, res, allocs)...)
		out = append(out, capacityBreaches(resID, res, allocs)...)
	}
	return out
}

// pairwiseOverlaps flags every pair of allocations on the same resource
// whose windows overlap.
func pairwiseOverlaps(resID string, res *domain.Resource, allocs []domain.ResourceAllocation) []Conflict {
	var out []Conflict
	for i := 0; i < len(allocs); i++ {
		for j := i + 1; j < len(allocs); j++ {
			if !allocs[i].Overlaps(allocs[j]) {
				continue
			}
			kind := ConflictTimeOverlap
			sev := SeverityMedium
			if res != nil && res.IsExclusive() {
				kind = ConflictExclusiveResource
				sev = SeverityHigh
			}
			out = append(out, Conflict{Kind: kind, Severity: sev, ResourceID: resID, TaskIDs: []string{allocs[i].TaskID, allocs[j].TaskID}})
		}
	}
	return out
}

// capacityBreaches sweeps allocation start/end events in time order,
// flagging any instant where concurrent quantity exceeds total_quantity.
func capacityBreaches(resID string, res *domain.Resource, allocs []domain.ResourceAllocation) []Conflict {
	if res == nil {
		return nil
	}
	type event struct {
		at    int64
		delta int
		task  string
	}
	events := make([]event, 0, len(allocs)*2)
	for _, a := range allocs {
		events = append(events, event{at: a.Start.UnixNano(), delta: a.Quantity, task: a.TaskID})
		events = append(events, event{at: a.End.UnixNano(), delta: -a.Quantity})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at < events[j].at })

	running := 0
	var breached map[string]bool
	for _, e := range events {
		running += e.delta
		if running > res.TotalQuantity {
			if breached == nil {
				breached = make(map[string]bool)
			}
			if e.task != "" {
				breached[e.task] = true
			}
		}
	}
	if len(breached) == 0 {
		return nil
	}
	tasks := make([]string, 0, len(breached))
	for t := range breached {
		tasks = append(tasks, t)
	}
	sort.Strings(tasks)
	return []Conflict{{Kind: ConflictCapacityExceeded, Severity: SeverityHigh, ResourceID: resID, TaskIDs: tasks}}
}
