package resource

// CodeConflict marks an allocation attempt that could not be satisfied.
const CodeConflict = "resource_conflict"
