package driver

// Error codes surfaced in core.Error.Code for the driver's own
// pre-solve validation, distinct from engine/constraint's codes since the
// driver checks lifecycle ordering, not entity lowering.
const (
	CodeValidation    = "validation_error"
	CodeConfiguration = "configuration_error"
)
