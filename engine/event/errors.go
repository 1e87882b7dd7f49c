package event

// CodeValidation marks an event that fails decode/validate (expired,
// not-yet-effective, or structurally invalid).
const CodeValidation = "validation_error"
