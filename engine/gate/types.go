package gate

// Type enumerates the named global gate checks. Each maps to a boolean
// computed once per evaluation and exposed to per-task CEL conditions under
// the matching state key.
type Type string

const (
	TypeCriticalToolsReady Type = "critical_tools_ready"
	TypeMaterialsReady     Type = "materials_ready"
	TypeDocReady           Type = "doc_ready"
	TypeAssessmentComplete Type = "assessment_complete"
	TypeQECShelfHandover   Type = "qec_shelf_handover"
	TypeInventoryCheck     Type = "inventory_check"
	TypeSAPInstruction     Type = "sap_instruction"
)

var allTypes = []Type{
	TypeCriticalToolsReady,
	TypeMaterialsReady,
	TypeDocReady,
	TypeAssessmentComplete,
	TypeQECShelfHandover,
	TypeInventoryCheck,
	TypeSAPInstruction,
}

// Status is a gate's evaluation outcome.
type Status string

const (
	StatusPending  Status = "pending"
	StatusChecking Status = "checking"
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusBlocked  Status = "blocked"
)

// Result is one gate type's evaluation outcome.
type Result struct {
	GateType         Type     `json:"gate_type"`
	Status           Status   `json:"status"`
	PassedConditions []string `json:"passed_conditions,omitempty"`
	FailedConditions []string `json:"failed_conditions,omitempty"`
	RequiredActions  []string `json:"required_actions,omitempty"`
}

// Summary aggregates Results for a plan.
type Summary struct {
	PassRate        float64  `json:"pass_rate"`
	CriticalRisks   []string `json:"critical_risks,omitempty"`
	RequiredActions []string `json:"required_actions,omitempty"`
}

// criticalTypes are always high-risk on failure, per the gate service's own
// risk classification.
var criticalTypes = map[Type]bool{
	TypeCriticalToolsReady: true,
	TypeMaterialsReady:     true,
}
