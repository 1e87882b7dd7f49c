package constraint

import (
	"fmt"

	"github.com/aeroqec/qecsched/engine/core"
)

// Error codes surfaced in core.Error.Code so callers can branch on failure
// class without string-matching messages.
const (
	CodeValidation          = "validation_error"
	CodeConstraintViolation = "constraint_violation"
	CodeConfiguration       = "configuration_error"
)

func newValidationError(format string, args ...any) *core.Error {
	return core.NewError(fmt.Errorf(format, args...), CodeValidation, nil)
}

func newConstraintViolation(details map[string]any, format string, args ...any) *core.Error {
	return core.NewError(fmt.Errorf(format, args...), CodeConstraintViolation, details)
}
