package gate

import "github.com/aeroqec/qecsched/engine/domain"

// criticalToolsReady passes when every is_critical tool is ready and
// allocated, or no critical tools exist.
func criticalToolsReady(tools []*domain.ToolAsset) bool {
	for _, t := range tools {
		if t.IsCritical && !(t.IsReady && t.IsAllocated) {
			return false
		}
	}
	return true
}

// materialsReady passes when every must_kit material is sufficient, or no
// must_kit materials exist.
func materialsReady(materials []*domain.MaterialItem) bool {
	for _, m := range materials {
		if m.MustKit && !m.IsSufficient() {
			return false
		}
	}
	return true
}

// prepTypeComplete passes when every preparation task of the given type has
// completed, or no such tasks exist.
func prepTypeComplete(preps []*domain.PreparationTask, t domain.PreparationType) bool {
	for _, p := range preps {
		if p.Type == t && p.Status != domain.PrepCompleted {
			return false
		}
	}
	return true
}

// shelfHandoverReady passes when every material with a qec_shelf_slot has
// been assigned a shelf time.
func shelfHandoverReady(materials []*domain.MaterialItem) bool {
	for _, m := range materials {
		if m.QECShelfSlot != "" && m.ShelfAssignedAt == nil {
			return false
		}
	}
	return true
}

// computeState builds the boolean state exposed to CEL conditions, plus the
// task-local task_complete/evidence_complete pair for one preparation task.
func computeState(tools []*domain.ToolAsset, materials []*domain.MaterialItem, preps []*domain.PreparationTask) map[string]bool {
	return map[string]bool{
		string(TypeCriticalToolsReady): criticalToolsReady(tools),
		string(TypeMaterialsReady):     materialsReady(materials),
		string(TypeDocReady):           prepTypeComplete(preps, domain.PrepDocReady),
		string(TypeAssessmentComplete): prepTypeComplete(preps, domain.PrepAssessment),
		string(TypeQECShelfHandover):   shelfHandoverReady(materials),
		string(TypeInventoryCheck):     true, // placeholder, per the gate's own pass criteria
		string(TypeSAPInstruction):     true, // placeholder, per the gate's own pass criteria
	}
}
