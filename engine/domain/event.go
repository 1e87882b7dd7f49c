package domain

import (
	"fmt"
	"time"
)

// EventType enumerates the external perturbations the event service reacts
// to.
type EventType string

const (
	EventETAChange           EventType = "eta_change"
	EventSAPUpdate           EventType = "sap_update"
	EventWeather             EventType = "weather"
	EventThirdPartyAck       EventType = "third_party_ack"
	EventResourceAvailable   EventType = "resource_available"
	EventResourceUnavailable EventType = "resource_unavailable"
	EventTaskComplete        EventType = "task_complete"
	EventEmergency           EventType = "emergency"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventETAChange, EventSAPUpdate, EventWeather, EventThirdPartyAck,
		EventResourceAvailable, EventResourceUnavailable, EventTaskComplete, EventEmergency:
		return true
	default:
		return false
	}
}

// EventStatus is the event's own processing lifecycle.
type EventStatus string

const (
	EventPending    EventStatus = "pending"
	EventProcessing EventStatus = "processing"
	EventCompleted  EventStatus = "completed"
	EventFailed     EventStatus = "failed"
	EventCancelled  EventStatus = "cancelled"
)

// Policy directs how much of the current plan is frozen during a replan.
type Policy string

const (
	PolicyReplanUnstarted Policy = "replan_unstarted"
	PolicyRollingWindow   Policy = "rolling_window"
	PolicyFullReplan      Policy = "full_replan"
	PolicyManualReview    Policy = "manual_review"
)

func (p Policy) IsValid() bool {
	switch p {
	case PolicyReplanUnstarted, PolicyRollingWindow, PolicyFullReplan, PolicyManualReview:
		return true
	default:
		return false
	}
}

// Scope delimits which entities an event or diff touches. Fields are sets,
// represented as maps for O(1) membership and union.
type Scope struct {
	Engines      map[string]struct{} `json:"-"`
	WorkPackages map[string]struct{} `json:"-"`
	PrepIDs      map[string]struct{} `json:"-"`
	JobIDs       map[string]struct{} `json:"-"`
	ResourceIDs  map[string]struct{} `json:"-"`
}

// NewScope returns an empty, ready-to-use Scope.
func NewScope() Scope {
	return Scope{
		Engines:      map[string]struct{}{},
		WorkPackages: map[string]struct{}{},
		PrepIDs:      map[string]struct{}{},
		JobIDs:       map[string]struct{}{},
		ResourceIDs:  map[string]struct{}{},
	}
}

// AddJob, AddResource, AddPrep, AddEngine, AddWorkPackage insert one member
// into the respective set, initializing it if needed.
func (s *Scope) AddJob(id string) { ensure(&s.JobIDs); s.JobIDs[id] = struct{}{} }
func (s *Scope) AddResource(id string) { ensure(&s.ResourceIDs); s.ResourceIDs[id] = struct{}{} }
func (s *Scope) AddPrep(id string) { ensure(&s.PrepIDs); s.PrepIDs[id] = struct{}{} }
func (s *Scope) AddEngine(id string) { ensure(&s.Engines); s.Engines[id] = struct{}{} }
func (s *Scope) AddWorkPackage(id string) { ensure(&s.WorkPackages); s.WorkPackages[id] = struct{}{} }

func ensure(m *map[string]struct{}) {
	if *m == nil {
		*m = map[string]struct{}{}
	}
}

// Merge returns the elementwise set-union of a and b. It is associative and
// commutative, so folding Merge over any number of scopes in any order
// yields the same result.
func Merge(a, b Scope) Scope {
	out := NewScope()
	unionInto(out.Engines, a.Engines, b.Engines)
	unionInto(out.WorkPackages, a.WorkPackages, b.WorkPackages)
	unionInto(out.PrepIDs, a.PrepIDs, b.PrepIDs)
	unionInto(out.JobIDs, a.JobIDs, b.JobIDs)
	unionInto(out.ResourceIDs, a.ResourceIDs, b.ResourceIDs)
	return out
}

func unionInto(dst, a, b map[string]struct{}) {
	for k := range a {
		dst[k] = struct{}{}
	}
	for k := range b {
		dst[k] = struct{}{}
	}
}

// JobIDSlice returns the job ids in s as a sorted-free slice (order is not
// guaranteed; callers that need determinism should sort it).
func (s Scope) JobIDSlice() []string {
	out := make([]string, 0, len(s.JobIDs))
	for id := range s.JobIDs {
		out = append(out, id)
	}
	return out
}

// ETAChangePayload is the typed payload for EventETAChange.
type ETAChangePayload struct {
	MaterialID string     `json:"material_id,omitempty"`
	ResourceID string     `json:"resource_id,omitempty"`
	OldETA     *time.Time `json:"old_eta,omitempty"`
	NewETA     time.Time  `json:"new_eta"`
	Reason     string     `json:"reason,omitempty"`
}

// SAPUpdatePayload is the typed payload for EventSAPUpdate.
type SAPUpdatePayload struct {
	InstructionID string    `json:"instruction_id"`
	OldStatus     string    `json:"old_status,omitempty"`
	NewStatus     string    `json:"new_status"`
	UpdateTime    time.Time `json:"update_time"`
}

// WeatherPayload is the typed payload for EventWeather.
type WeatherPayload struct {
	WeatherType   string     `json:"weather_type"`
	Severity      string     `json:"severity"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	AffectedAreas []string   `json:"affected_areas,omitempty"`
}

// Event is an external perturbation requiring impact analysis and possibly
// a replan.
type Event struct {
	EventID       string      `json:"event_id"`
	Type          EventType   `json:"type"`
	EffectiveTime time.Time   `json:"effective_time"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
	Status        EventStatus `json:"status"`
	Scope         Scope       `json:"-"`
	Policy        Policy      `json:"policy"`

	// RawPayload carries the type-specific payload as decoded JSON (map or
	// struct pointer); callers type-assert or re-marshal based on Type.
	RawPayload map[string]any `json:"payload"`
}

func (e *Event) Validate(now time.Time) error {
	if e.EventID == "" {
		return fmt.Errorf("event: event_id is required")
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("event %s: invalid type %q", e.EventID, e.Type)
	}
	if e.Policy != "" && !e.Policy.IsValid() {
		return fmt.Errorf("event %s: invalid policy %q", e.EventID, e.Policy)
	}
	if e.ExpiresAt != nil && e.ExpiresAt.Before(now) {
		return fmt.Errorf("event %s: expired at %s", e.EventID, e.ExpiresAt)
	}
	if e.EffectiveTime.After(now) {
		return fmt.Errorf("event %s: not yet effective (effective_time %s is in the future)", e.EventID, e.EffectiveTime)
	}
	return nil
}
