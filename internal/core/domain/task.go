package domain

// TaskID is an opaque handle for the compilation work of one unit. The
// external scheduler owns task creation; the graph only records the
// task/unit correspondence.
type TaskID string

// SyntheticTask mints a task handle for a unit discovered during cascade
// analysis before the scheduler registered one for it.
func SyntheticTask(unit InternedString) TaskID {
	return TaskID(unit.String())
}
