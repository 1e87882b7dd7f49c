package domain_test

import (
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/stretchr/testify/assert"
)

func TestMaterialItem_IsSufficient(t *testing.T) {
	t.Run("Should require full coverage when must_kit is true", func(t *testing.T) {
		m := &domain.MaterialItem{RequiredQuantity: 4, AvailableQuantity: 3, MustKit: true}
		assert.False(t, m.IsSufficient())
		m.AvailableQuantity = 4
		assert.True(t, m.IsSufficient())
	})
	t.Run("Should only require a positive amount when must_kit is false", func(t *testing.T) {
		m := &domain.MaterialItem{RequiredQuantity: 4, AvailableQuantity: 1, MustKit: false}
		assert.True(t, m.IsSufficient())
		m.AvailableQuantity = 0
		assert.False(t, m.IsSufficient())
	})
}

func TestEvidenceComplete(t *testing.T) {
	t.Run("Should require a verified entry for every required type", func(t *testing.T) {
		required := []domain.EvidenceType{domain.EvidenceHandoverForm, domain.EvidencePhoto}
		submitted := []domain.Evidence{
			{Type: domain.EvidenceHandoverForm, Verified: true},
			{Type: domain.EvidencePhoto, Verified: false},
		}
		assert.False(t, domain.EvidenceComplete(required, submitted))
		submitted[1].Verified = true
		assert.True(t, domain.EvidenceComplete(required, submitted))
	})
	t.Run("Should trivially pass with no required types", func(t *testing.T) {
		assert.True(t, domain.EvidenceComplete(nil, nil))
	})
}

func TestPreparationTask_Validate(t *testing.T) {
	base := func() *domain.PreparationTask {
		return &domain.PreparationTask{
			PrepID:        "P1",
			Type:          domain.PrepDocReady,
			DurationHours: 1,
		}
	}
	t.Run("Should accept a minimal valid prep task", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})
	t.Run("Should reject an invalid type", func(t *testing.T) {
		p := base()
		p.Type = domain.PreparationType("nonsense")
		assert.ErrorContains(t, p.Validate(), "invalid type")
	})
	t.Run("Should reject a non-positive duration", func(t *testing.T) {
		p := base()
		p.DurationHours = 0
		assert.ErrorContains(t, p.Validate(), "duration_hours")
	})
	t.Run("Should reject a self-dependency", func(t *testing.T) {
		p := base()
		p.Dependencies = []string{"P1"}
		assert.ErrorContains(t, p.Validate(), "cannot depend on itself")
	})
	t.Run("Should require a gate record when is_gate is true", func(t *testing.T) {
		p := base()
		isGate := true
		p.IsGate = &isGate
		assert.ErrorContains(t, p.Validate(), "gate record missing")
	})
}

func TestToolAsset_Release(t *testing.T) {
	t.Run("Should clear allocation fields", func(t *testing.T) {
		now := time.Now()
		tool := &domain.ToolAsset{IsAllocated: true, AllocatedTo: "J1", AllocatedAt: &now, Operator: "op-1"}
		tool.Release()
		assert.False(t, tool.IsAllocated)
		assert.Empty(t, tool.AllocatedTo)
		assert.Nil(t, tool.AllocatedAt)
		assert.Empty(t, tool.Operator)
	})
}
