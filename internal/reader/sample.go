package reader

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"wfsim/internal/domain"
)

// Sample retains a deterministic subset of the workflows in trace, at
// approximately the given fraction, together with all of their member
// tasks. Sampling semantics are workflow-level: a workflow's tasks are kept
// or dropped as a unit (spec.md section 9 leaves this choice to the
// collaborator contract; task-level sampling would split dependency edges
// across the kept/dropped boundary, which the core has no way to repair).
//
// A workflow is kept when its id hashes (sha256) into the bottom
// `fraction` portion of the output space, so the same fraction against the
// same trace always keeps the same workflows, independent of iteration or
// file-read order.
func Sample(trace *domain.Trace, fraction float64) (*domain.Trace, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("reader: sampling fraction must be in (0,1], got %v", fraction)
	}
	if fraction == 1 {
		return trace, nil
	}

	threshold := uint64(fraction * float64(math.MaxUint64))

	var keep []domain.Task
	for _, wf := range trace.Workflows() {
		if workflowBucket(wf) > threshold {
			continue
		}
		for _, id := range trace.WorkflowTasks(wf) {
			keep = append(keep, trace.MustTask(id))
		}
	}

	sort.Slice(keep, func(i, j int) bool { return keep[i].ID < keep[j].ID })
	return domain.NewTrace(keep)
}

// workflowBucket maps a workflow id to a uniformly distributed uint64 via
// sha256, so the keep/drop decision doesn't correlate with id ordering.
func workflowBucket(wf domain.WorkflowID) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(int64(wf)))
	sum := sha256.Sum256(buf[:])
	return binary.BigEndian.Uint64(sum[:8])
}
