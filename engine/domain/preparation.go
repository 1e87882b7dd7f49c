package domain

import (
	"fmt"
	"time"
)

// PreparationType enumerates the categories of pre-work a job may depend
// on.
type PreparationType string

const (
	PrepToolAllocation  PreparationType = "tool_allocation"
	PrepMaterialKitting PreparationType = "material_kitting"
	PrepDocReady        PreparationType = "doc_ready"
	PrepAssessment      PreparationType = "assessment"
	PrepShelfHandover   PreparationType = "shelf_handover"
	PrepInventoryCheck  PreparationType = "inventory_check"
	PrepHoistPrep       PreparationType = "hoist_prep"
)

func (t PreparationType) IsValid() bool {
	switch t {
	case PrepToolAllocation, PrepMaterialKitting, PrepDocReady, PrepAssessment,
		PrepShelfHandover, PrepInventoryCheck, PrepHoistPrep:
		return true
	default:
		return false
	}
}

// PrepStatus mirrors JobStatus but scoped to preparation tasks, since the
// gate service needs to know whether a prep task has completed.
type PrepStatus string

const (
	PrepNotStarted PrepStatus = "not_started"
	PrepInProgress PrepStatus = "in_progress"
	PrepCompleted  PrepStatus = "completed"
	PrepCancelled  PrepStatus = "cancelled"
)

// EvidenceType enumerates the kinds of proof a gate can require.
type EvidenceType string

const (
	EvidenceHandoverForm EvidenceType = "handover_form"
	EvidencePhoto        EvidenceType = "photo"
	EvidenceSignature    EvidenceType = "signature"
	EvidenceDocument     EvidenceType = "document"
	EvidenceChecklist    EvidenceType = "checklist"
)

// Evidence is one piece of submitted proof toward a Gate's
// evidence_complete condition.
type Evidence struct {
	Type        EvidenceType `json:"type"`
	Verified    bool         `json:"verified"`
	SubmittedAt time.Time    `json:"submitted_at"`
	SubmittedBy string       `json:"submitted_by,omitempty"`
}

// Gate is the pass/fail predicate record carried by a gating
// PreparationTask.
type Gate struct {
	RequiredConditions []string   `json:"required_conditions"`
	FailedConditions   []string   `json:"failed_conditions,omitempty"`
	IsPassed           bool       `json:"is_passed"`
	PassedAt           *time.Time `json:"passed_at,omitempty"`
}

// EvidenceComplete reports whether, for every required evidence type, at
// least one verified Evidence entry exists.
func EvidenceComplete(required []EvidenceType, submitted []Evidence) bool {
	have := make(map[EvidenceType]bool, len(submitted))
	for _, e := range submitted {
		if e.Verified {
			have[e.Type] = true
		}
	}
	for _, t := range required {
		if !have[t] {
			return false
		}
	}
	return true
}

// PreparationTask is pre-work gating the main jobs.
type PreparationTask struct {
	PrepID        string          `json:"prep_id"`
	EngineID      string          `json:"engine_id"`
	WorkPackageID string          `json:"work_package_id"`
	Type          PreparationType `json:"type"`
	DurationHours float64         `json:"duration_hours"`
	EarliestStart *time.Time      `json:"earliest_start,omitempty"`
	LatestFinish  *time.Time      `json:"latest_finish,omitempty"`
	Dependencies  []string        `json:"dependencies,omitempty"`

	IsGate *bool `json:"is_gate,omitempty"`
	Gate   *Gate `json:"gate,omitempty"`

	EvidenceRequired  []EvidenceType `json:"evidence_required,omitempty"`
	SubmittedEvidence []Evidence     `json:"submitted_evidence,omitempty"`

	RequiredAssets []string   `json:"required_assets,omitempty"`
	Status         PrepStatus `json:"status,omitempty"`
}

// GatePresent reports whether this prep task carries gate semantics.
func (p *PreparationTask) GatePresent() bool {
	return p.IsGate != nil && *p.IsGate
}

// Validate checks the single-entity invariants of a preparation task in
// isolation.
func (p *PreparationTask) Validate() error {
	if p.PrepID == "" {
		return fmt.Errorf("preparation task: prep_id is required")
	}
	if !p.Type.IsValid() {
		return fmt.Errorf("preparation task %s: invalid type %q", p.PrepID, p.Type)
	}
	if p.DurationHours <= 0 {
		return fmt.Errorf("preparation task %s: duration_hours must be > 0", p.PrepID)
	}
	for _, dep := range p.Dependencies {
		if dep == p.PrepID {
			return fmt.Errorf("preparation task %s: cannot depend on itself", p.PrepID)
		}
	}
	if p.EarliestStart != nil && p.LatestFinish != nil && !p.EarliestStart.Before(*p.LatestFinish) {
		return fmt.Errorf("preparation task %s: earliest_start must be before latest_finish", p.PrepID)
	}
	if p.GatePresent() && p.Gate == nil {
		return fmt.Errorf("preparation task %s: is_gate true but gate record missing", p.PrepID)
	}
	return nil
}

// MaterialItem tracks quantity/kitting state for a work package's material
// requirement.
type MaterialItem struct {
	MaterialID        string     `json:"material_id"`
	WorkPackageID     string     `json:"work_package_id,omitempty"`
	RequiredQuantity  int        `json:"required_quantity"`
	AvailableQuantity int        `json:"available_quantity"`
	MustKit           bool       `json:"must_kit"`
	AllowPartial      bool       `json:"allow_partial"`
	ETA               *time.Time `json:"eta,omitempty"`
	ActualArrival     *time.Time `json:"actual_arrival,omitempty"`
	QECShelfSlot      string     `json:"qec_shelf_slot,omitempty"`
	ShelfAssignedAt   *time.Time `json:"shelf_assigned_at,omitempty"`
	IsCritical        bool       `json:"is_critical,omitempty"`
}

// IsSufficient implements the availability predicate:
// must_kit ? available >= required : available > 0.
func (m *MaterialItem) IsSufficient() bool {
	if m.MustKit {
		return m.AvailableQuantity >= m.RequiredQuantity
	}
	return m.AvailableQuantity > 0
}

func (m *MaterialItem) Validate() error {
	if m.MaterialID == "" {
		return fmt.Errorf("material item: material_id is required")
	}
	if m.RequiredQuantity < 1 {
		return fmt.Errorf("material %s: required_quantity must be >= 1", m.MaterialID)
	}
	if m.AvailableQuantity < 0 || m.AvailableQuantity > m.RequiredQuantity {
		return fmt.Errorf("material %s: available_quantity must be in [0, required_quantity]", m.MaterialID)
	}
	return nil
}

// ToolAsset is an exclusively-allocated tool with its allocation lifecycle.
type ToolAsset struct {
	ToolID         string     `json:"tool_id"`
	IsCritical     bool       `json:"is_critical"`
	IsReady        bool       `json:"is_ready"`
	IsAllocated    bool       `json:"is_allocated"`
	AllocatedETA   *time.Time `json:"allocated_eta,omitempty"`
	AllocatedAt    *time.Time `json:"allocated_at,omitempty"`
	AllocatedTo    string     `json:"allocated_to,omitempty"`
	Operator       string     `json:"operator,omitempty"`
	ExclusiveGroup string     `json:"exclusive_group,omitempty"`
}

// Release clears the allocation fields, making the tool available again.
func (t *ToolAsset) Release() {
	t.IsAllocated = false
	t.AllocatedTo = ""
	t.AllocatedAt = nil
	t.Operator = ""
}
