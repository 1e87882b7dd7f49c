package solution

// CodeValidation marks a result that cannot be parsed into a schedule.
const CodeValidation = "validation_error"
