package domain

// TaskID is the unique integer identity of a Task within a Trace.
type TaskID int

// WorkflowID is the unique integer identity of a Workflow within a Trace.
type WorkflowID int

// Task is an immutable unit of work.
//
// Equality is by ID alone: two Task values with the same ID are the same
// task, regardless of any other field (NewTrace rejects duplicate ids).
type Task struct {
	ID             TaskID
	Workflow       WorkflowID
	SubmissionTime int64
	Runtime        int64
	CPUDemand      int64

	// Dependencies lists the ids of tasks that must COMPLETE before this
	// task may become READY. Order is insertion order from the source trace
	// and carries no semantic weight.
	Dependencies []TaskID
}

// Equal reports whether two tasks share the same identity.
func (t Task) Equal(o Task) bool { return t.ID == o.ID }
