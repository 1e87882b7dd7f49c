package objective

// CodeConfiguration marks an objective config that cannot be turned into a
// valid solver.Objective (unknown template, or every term weighted at
// zero).
const CodeConfiguration = "configuration_error"
