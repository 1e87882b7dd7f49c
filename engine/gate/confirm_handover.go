package gate

import (
	"fmt"
	"time"

	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
)

// Signature is the who/when pair required alongside a handover form and
// photo to confirm a gate's handover.
type Signature struct {
	By   string
	Time time.Time
}

// ConfirmHandoverInput is the confirm_handover request body.
type ConfirmHandoverInput struct {
	HandoverForm string
	Photo        string
	Signature    Signature
}

// Validate checks that every required field of a handover confirmation is
// present.
func (in ConfirmHandoverInput) Validate() error {
	if in.HandoverForm == "" {
		return fmt.Errorf("confirm_handover: handover_form is required")
	}
	if in.Photo == "" {
		return fmt.Errorf("confirm_handover: photo is required")
	}
	if in.Signature.By == "" {
		return fmt.Errorf("confirm_handover: signature.by is required")
	}
	if in.Signature.Time.IsZero() {
		return fmt.Errorf("confirm_handover: signature.time is required")
	}
	return nil
}

// ConfirmHandover records the submitted evidence against task, marking it
// completed. A subsequent Evaluate call flips the task's Gate.IsPassed once
// task_complete and evidence_complete both hold.
func ConfirmHandover(task *domain.PreparationTask, in ConfirmHandoverInput) error {
	if err := in.Validate(); err != nil {
		return core.NewError(err, CodeValidation, nil)
	}
	task.Status = domain.PrepCompleted
	task.SubmittedEvidence = append(task.SubmittedEvidence,
		domain.Evidence{Type: domain.EvidenceHandoverForm, Verified: true, SubmittedAt: in.Signature.Time, SubmittedBy: in.Signature.By},
		domain.Evidence{Type: domain.EvidencePhoto, Verified: true, SubmittedAt: in.Signature.Time, SubmittedBy: in.Signature.By},
		domain.Evidence{Type: domain.EvidenceSignature, Verified: true, SubmittedAt: in.Signature.Time, SubmittedBy: in.Signature.By},
	)
	return nil
}
