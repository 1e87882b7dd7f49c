package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityStatus describes an explicit availability period on a
// Resource.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusBusy        AvailabilityStatus = "busy"
	StatusMaintenance AvailabilityStatus = "maintenance"
	StatusUnavailable AvailabilityStatus = "unavailable"
)

// AvailabilityPeriod is an explicit window with a known status, taking
// precedence over the calendar for the window it covers.
type AvailabilityPeriod struct {
	Start  time.Time          `json:"start"`
	End    time.Time          `json:"end"`
	Status AvailabilityStatus `json:"status"`
}

// Overlaps reports whether [start, end) intersects the period. Touching
// boundaries do not count as overlapping.
func (p AvailabilityPeriod) Overlaps(start, end time.Time) bool {
	return !(p.End.Compare(start) <= 0 || end.Compare(p.Start) <= 0)
}

// Kind tags which variant a Resource carries.
type Kind string

const (
	KindHuman    Kind = "human"
	KindPhysical Kind = "physical"
)

// HumanAttrs holds the fields unique to a human resource.
type HumanAttrs struct {
	EmployeeID        string              `json:"employee_id"`
	Qualifications    map[string]struct{} `json:"-"`
	QualificationList []string            `json:"qualifications"`
	SkillLevels       map[string]int      `json:"skill_levels,omitempty"` // 1..5
	EfficiencyFactors map[string]float64  `json:"efficiency_factors,omitempty"`
	ShiftPreferences  []string            `json:"shift_preferences,omitempty"`
	MaxOvertimeHours  float64             `json:"max_overtime_hours,omitempty"`
}

// HasQualification reports whether the human holds q.
func (h *HumanAttrs) HasQualification(q string) bool {
	if h == nil {
		return false
	}
	_, ok := h.Qualifications[q]
	return ok
}

// PhysicalAttrs holds the fields unique to a physical resource.
type PhysicalAttrs struct {
	Model           string     `json:"model,omitempty"`
	Serial          string     `json:"serial,omitempty"`
	Manufacturer    string     `json:"manufacturer,omitempty"`
	IsExclusive     bool       `json:"is_exclusive"`
	ExclusiveGroup  string     `json:"exclusive_group,omitempty"`
	MaintenanceFrom *time.Time `json:"maintenance_from,omitempty"`
	MaintenanceTo   *time.Time `json:"maintenance_to,omitempty"`
}

// Resource is a tagged variant of Human or Physical: exactly one of
// Human/Physical is non-nil, selected by Kind.
type Resource struct {
	ResourceID        string `json:"resource_id"`
	Name              string `json:"name,omitempty"`
	Kind              Kind   `json:"kind"`
	TotalQuantity     int    `json:"total_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	IsActive          bool   `json:"is_active"`

	Calendar            *Calendar            `json:"calendar,omitempty"`
	AvailabilityPeriods []AvailabilityPeriod `json:"availability_periods,omitempty"`

	HourlyCost *decimal.Decimal `json:"hourly_cost,omitempty"`
	SetupCost  *decimal.Decimal `json:"setup_cost,omitempty"`

	Human    *HumanAttrs    `json:"human,omitempty"`
	Physical *PhysicalAttrs `json:"physical,omitempty"`
}

// AsHuman returns (attrs, true) iff the resource is a human resource. This
// is the capability-query equivalent of an Option<&Human>.
func (r *Resource) AsHuman() (*HumanAttrs, bool) {
	if r == nil || r.Kind != KindHuman || r.Human == nil {
		return nil, false
	}
	return r.Human, true
}

// AsPhysical returns (attrs, true) iff the resource is a physical resource.
func (r *Resource) AsPhysical() (*PhysicalAttrs, bool) {
	if r == nil || r.Kind != KindPhysical || r.Physical == nil {
		return nil, false
	}
	return r.Physical, true
}

// IsExclusive reports whether this resource participates in exclusive-group
// non-overlap semantics.
func (r *Resource) IsExclusive() bool {
	phys, ok := r.AsPhysical()
	return ok && phys.IsExclusive
}

// Validate checks a single resource's invariants. Cross-resource invariants
// (at most one resource per exclusive group in a plan request) are checked
// by the scheduling service.
func (r *Resource) Validate() error {
	if r.ResourceID == "" {
		return fmt.Errorf("resource: resource_id is required")
	}
	if r.TotalQuantity < 1 {
		return fmt.Errorf("resource %s: total_quantity must be >= 1", r.ResourceID)
	}
	if r.AvailableQuantity < 0 || r.AvailableQuantity > r.TotalQuantity {
		return fmt.Errorf("resource %s: available_quantity must be in [0, total_quantity]", r.ResourceID)
	}
	if r.HourlyCost != nil && r.HourlyCost.IsNegative() {
		return fmt.Errorf("resource %s: hourly_cost must be >= 0", r.ResourceID)
	}
	if r.SetupCost != nil && r.SetupCost.IsNegative() {
		return fmt.Errorf("resource %s: setup_cost must be >= 0", r.ResourceID)
	}
	switch r.Kind {
	case KindHuman:
		if r.Human == nil {
			return fmt.Errorf("resource %s: kind human requires human attributes", r.ResourceID)
		}
		for skill, level := range r.Human.SkillLevels {
			if level < 1 || level > 5 {
				return fmt.Errorf("resource %s: skill level for %s must be in [1,5], got %d", r.ResourceID, skill, level)
			}
		}
	case KindPhysical:
		if r.Physical == nil {
			return fmt.Errorf("resource %s: kind physical requires physical attributes", r.ResourceID)
		}
	default:
		return fmt.Errorf("resource %s: unknown kind %q", r.ResourceID, r.Kind)
	}
	for _, ap := range r.AvailabilityPeriods {
		if !ap.Start.Before(ap.End) {
			return fmt.Errorf("resource %s: availability period start must precede end", r.ResourceID)
		}
	}
	return nil
}

// NewHuman constructs a human resource, normalizing QualificationList into
// the Qualifications set used for fast membership checks.
func NewHuman(resourceID, employeeID string, qualifications []string) *Resource {
	quals := make(map[string]struct{}, len(qualifications))
	for _, q := range qualifications {
		quals[q] = struct{}{}
	}
	return &Resource{
		ResourceID:        resourceID,
		Kind:              KindHuman,
		TotalQuantity:     1,
		AvailableQuantity: 1,
		IsActive:          true,
		Human: &HumanAttrs{
			EmployeeID:        employeeID,
			Qualifications:    quals,
			QualificationList: qualifications,
		},
	}
}

// NewPhysical constructs a physical resource.
func NewPhysical(resourceID string, totalQuantity int, isExclusive bool, exclusiveGroup string) *Resource {
	return &Resource{
		ResourceID:        resourceID,
		Kind:              KindPhysical,
		TotalQuantity:     totalQuantity,
		AvailableQuantity: totalQuantity,
		IsActive:          true,
		Physical: &PhysicalAttrs{
			IsExclusive:    isExclusive,
			ExclusiveGroup: exclusiveGroup,
		},
	}
}
