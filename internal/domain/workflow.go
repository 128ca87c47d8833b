package domain

// Workflow is a connected component of dependency edges within one submission:
// a named group of Tasks that were submitted together and may depend on one
// another.
//
// Workflow itself carries no back-pointers to its tasks; membership is
// derived from Task.Workflow via the owning Trace so that Task and Workflow
// can each be loaded independently without cyclic construction.
type Workflow struct {
	ID WorkflowID
}
