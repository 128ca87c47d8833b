package order

import "wfsim/internal/domain"

// Policy maintains a priority view of READY tasks for the simulation core.
//
// NextCandidate must be deterministic given the sequence of RegisterReady
// calls: the same insertion order always yields the same candidate order.
// Remove is only ever called immediately after the simulation core
// successfully placed the task NextCandidate most recently returned.
type Policy interface {
	// RegisterReady admits a task that has just become READY.
	RegisterReady(task domain.TaskID)

	// NextCandidate returns the highest-priority ready task still queued, or
	// false if none remain.
	NextCandidate() (domain.TaskID, bool)

	// Remove drops task from the ready view after it has been placed.
	Remove(task domain.TaskID)
}

// Name identifies a policy variant for registry lookup.
type Name string

const (
	FCFSName Name = "fcfs"
	SJFName  Name = "sjf"
	EWFName  Name = "ewf"
)
