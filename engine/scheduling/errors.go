package scheduling

import (
	"errors"

	"github.com/aeroqec/qecsched/engine/core"
)

// The error taxonomy every plan/event response surfaces to a caller. Each
// internal package raises its own lower-level code; MapError translates it
// into one of these before it crosses the scheduling service's boundary.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeSolver          = "SOLVER_ERROR"
	CodeResourceConflict = "RESOURCE_CONFLICT"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeEventProcessing = "EVENT_PROCESSING_ERROR"
	CodeGate            = "GATE_ERROR"
	CodeConfiguration   = "CONFIGURATION_ERROR"
)

// internalToTaxonomy maps every lower-level package's own error code onto
// the wire-visible taxonomy above.
var internalToTaxonomy = map[string]string{
	"validation_error":     CodeValidation,
	"constraint_violation": CodeConstraintViolation,
	"configuration_error":  CodeConfiguration,
	"resource_conflict":    CodeResourceConflict,
}

// MapError translates err's code (if it is a *core.Error) into the
// scheduling taxonomy, defaulting to fallback for anything unrecognized
// (or for an error that is not a *core.Error) — a typed error reaching this boundary without a known code
// is itself a bug, but callers still deserve a typed response rather than a
// panic.
func MapError(err error, fallback string) *core.Error {
	var cerr *core.Error
	if !errors.As(err, &cerr) {
		return core.NewError(err, fallback, nil)
	}
	code, ok := internalToTaxonomy[cerr.Code]
	if !ok {
		code = fallback
	}
	return core.NewError(cerr.Unwrap(), code, cerr.Details)
}
