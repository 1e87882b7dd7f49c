package gate

// CodeValidation marks a confirm_handover request missing a required field.
const CodeValidation = "validation_error"
