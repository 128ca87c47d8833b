package domain

import (
	"container/heap"
	"fmt"

	"golang.org/x/exp/slices"
)

// Trace owns every Task and Workflow loaded for one simulation run and
// provides indexed lookup by integer id.
//
// A Trace is immutable once built by NewTrace: all validation (unknown
// dependency ids, duplicate task ids) happens at construction so that the
// rest of the engine can trust the graph it is handed.
type Trace struct {
	tasks     map[TaskID]Task
	workflows map[WorkflowID]Workflow

	taskOrder     []TaskID // ascending id, stable iteration order
	workflowTasks map[WorkflowID][]TaskID

	roots        []TaskID // tasks with no dependencies, ascending id
	dependents   map[TaskID][]TaskID // reverse edges, ascending id
	criticalPath map[WorkflowID]int64
}

// NewTrace validates and indexes a flat set of tasks.
//
// Workflows are derived implicitly from Task.Workflow; the caller does not
// need to supply Workflow values directly. Validation rejects:
//   - duplicate task ids
//   - a dependency referencing an id not present in tasks
//   - a dependency that crosses workflow identity while pointing at a task
//     id that does not exist (same-workflow cross references are normal;
//     cross-workflow dependencies are permitted data-wise, only unknown ids
//     are rejected, per spec domain model)
func NewTrace(tasks []Task) (*Trace, error) {
	byID := make(map[TaskID]Task, len(tasks))
	order := make([]TaskID, 0, len(tasks))
	for _, t := range tasks {
		if _, exists := byID[t.ID]; exists {
			return nil, fmt.Errorf("domain: duplicate task id %d", t.ID)
		}
		byID[t.ID] = t
		order = append(order, t.ID)
	}
	slices.Sort(order)

	for _, t := range tasks {
		seen := make(map[TaskID]bool, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("domain: task %d depends on unknown task %d", t.ID, dep)
			}
			if seen[dep] {
				return nil, fmt.Errorf("domain: task %d lists dependency %d more than once", t.ID, dep)
			}
			seen[dep] = true
		}
	}

	workflowTasks := make(map[WorkflowID][]TaskID)
	workflows := make(map[WorkflowID]Workflow)
	for _, id := range order {
		wf := byID[id].Workflow
		workflowTasks[wf] = append(workflowTasks[wf], id)
		workflows[wf] = Workflow{ID: wf}
	}
	for wf := range workflowTasks {
		slices.Sort(workflowTasks[wf])
	}

	dependents := make(map[TaskID][]TaskID)
	var roots []TaskID
	for _, id := range order {
		t := byID[id]
		if len(t.Dependencies) == 0 {
			roots = append(roots, id)
		}
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], id)
		}
	}
	for dep := range dependents {
		slices.Sort(dependents[dep])
	}

	tr := &Trace{
		tasks:         byID,
		workflows:     workflows,
		taskOrder:     order,
		workflowTasks: workflowTasks,
		roots:         roots,
		dependents:    dependents,
		criticalPath:  make(map[WorkflowID]int64),
	}
	return tr, nil
}

// Task looks up a task by id.
func (tr *Trace) Task(id TaskID) (Task, bool) {
	t, ok := tr.tasks[id]
	return t, ok
}

// MustTask looks up a task by id and panics if absent; reserved for engine
// code that has already validated the id came from this Trace.
func (tr *Trace) MustTask(id TaskID) Task {
	t, ok := tr.tasks[id]
	if !ok {
		panic(fmt.Sprintf("domain: unknown task %d", id))
	}
	return t
}

// Tasks returns all tasks in ascending id order.
func (tr *Trace) Tasks() []Task {
	out := make([]Task, 0, len(tr.taskOrder))
	for _, id := range tr.taskOrder {
		out = append(out, tr.tasks[id])
	}
	return out
}

// Roots returns the ids of tasks with no dependencies, ascending.
func (tr *Trace) Roots() []TaskID {
	out := make([]TaskID, len(tr.roots))
	copy(out, tr.roots)
	return out
}

// Dependents returns the ids of tasks that directly depend on id, ascending.
func (tr *Trace) Dependents(id TaskID) []TaskID {
	out := make([]TaskID, len(tr.dependents[id]))
	copy(out, tr.dependents[id])
	return out
}

// Workflow looks up a workflow by id.
func (tr *Trace) Workflow(id WorkflowID) (Workflow, bool) {
	w, ok := tr.workflows[id]
	return w, ok
}

// WorkflowTasks returns the member task ids of a workflow, ascending.
func (tr *Trace) WorkflowTasks(id WorkflowID) []TaskID {
	out := make([]TaskID, len(tr.workflowTasks[id]))
	copy(out, tr.workflowTasks[id])
	return out
}

// Workflows returns every workflow id present in the trace, ascending.
func (tr *Trace) Workflows() []WorkflowID {
	out := make([]WorkflowID, 0, len(tr.workflows))
	for id := range tr.workflows {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

type taskIDHeap []TaskID

func (h taskIDHeap) Len() int            { return len(h) }
func (h taskIDHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h taskIDHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *taskIDHeap) Push(x interface{}) { *h = append(*h, x.(TaskID)) }
func (h *taskIDHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// CriticalPath returns the longest weighted chain of member tasks in a
// workflow, using task runtimes as edge weights and ignoring dependency
// edges that cross into another workflow. The result is computed once and
// cached.
func (tr *Trace) CriticalPath(wf WorkflowID) int64 {
	if cp, ok := tr.criticalPath[wf]; ok {
		return cp
	}

	members := tr.workflowTasks[wf]
	inWorkflow := make(map[TaskID]bool, len(members))
	for _, id := range members {
		inWorkflow[id] = true
	}

	indeg := make(map[TaskID]int, len(members))
	for _, id := range members {
		for _, dep := range tr.tasks[id].Dependencies {
			if inWorkflow[dep] {
				indeg[id]++
			}
		}
	}

	ready := &taskIDHeap{}
	heap.Init(ready)
	for _, id := range members {
		if indeg[id] == 0 {
			heap.Push(ready, id)
		}
	}

	longestEnding := make(map[TaskID]int64, len(members))
	outstanding := make(map[TaskID]int, len(members))
	for _, id := range members {
		outstanding[id] = indeg[id]
	}

	var best int64
	for ready.Len() > 0 {
		u := heap.Pop(ready).(TaskID)
		cur := longestEnding[u] + tr.tasks[u].Runtime
		if cur > best {
			best = cur
		}
		for _, v := range tr.dependents[u] {
			if !inWorkflow[v] {
				continue
			}
			if cur > longestEnding[v] {
				longestEnding[v] = cur
			}
			outstanding[v]--
			if outstanding[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}

	tr.criticalPath[wf] = best
	return best
}
