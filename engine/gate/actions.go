package gate

// requiredActions names the data-driven remediation for a failed gate type.
// Kept as a table rather than inline switch logic so a new gate type is one
// entry, not a new branch scattered across the evaluator.
var requiredActions = map[Type]string{
	TypeCriticalToolsReady: "allocate and ready all critical tools",
	TypeMaterialsReady:     "kit all must-kit materials",
	TypeDocReady:           "complete all doc_ready preparation tasks",
	TypeAssessmentComplete: "complete all assessment preparation tasks",
	TypeQECShelfHandover:   "assign shelf slots for all staged materials",
	TypeInventoryCheck:     "",
	TypeSAPInstruction:     "",
}
