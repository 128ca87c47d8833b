package state

import (
	"fmt"

	"wfsim/internal/domain"
	"wfsim/internal/simerr"
)

// Phase is a task's lifecycle phase. Transitions are monotone: no phase is
// ever revisited.
type Phase string

const (
	Unsubmitted Phase = "UNSUBMITTED"
	Submitted   Phase = "SUBMITTED"
	Ready       Phase = "READY"
	Running     Phase = "RUNNING"
	Completed   Phase = "COMPLETED"
)

var allowedFrom = map[Phase]Phase{
	Submitted: Unsubmitted,
	Ready:     Submitted,
	Running:   Ready,
	Completed: Running,
}

// record is the mutable per-task bookkeeping held by TaskMonitor.
type record struct {
	phase         Phase
	remainingDeps int
	machine       domain.MachineID
	hasMachine    bool
	start         int64
	hasStart      bool
	end           int64
	hasEnd        bool
}

// TaskMonitor tracks the lifecycle phase and remaining-dependency count of
// every task in a Trace.
//
// Every mutator asserts a legal transition and returns a *simerr.Violation
// wrapping simerr.ErrLifecycleViolation otherwise; the monitor never panics
// and never silently corrects an illegal call.
type TaskMonitor struct {
	trace   *domain.Trace
	records map[domain.TaskID]*record

	// newlyReady accumulates tasks that transitioned to Ready since the last
	// DrainNewlyReady call, in transition order, for pull-style ordering
	// policies.
	newlyReady []domain.TaskID
}

// NewTaskMonitor initializes every task in trace to Unsubmitted.
func NewTaskMonitor(trace *domain.Trace) *TaskMonitor {
	records := make(map[domain.TaskID]*record, len(trace.Tasks()))
	for _, t := range trace.Tasks() {
		records[t.ID] = &record{phase: Unsubmitted, remainingDeps: len(t.Dependencies)}
	}
	return &TaskMonitor{trace: trace, records: records}
}

func (m *TaskMonitor) get(id domain.TaskID) (*record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, simerr.Unknownf(fmt.Sprintf("task %d", id))
	}
	return r, nil
}

// Phase returns the current phase of a task.
func (m *TaskMonitor) Phase(id domain.TaskID) (Phase, error) {
	r, err := m.get(id)
	if err != nil {
		return "", err
	}
	return r.phase, nil
}

// RemainingDeps returns the number of dependencies not yet completed.
func (m *TaskMonitor) RemainingDeps(id domain.TaskID) (int, error) {
	r, err := m.get(id)
	if err != nil {
		return 0, err
	}
	return r.remainingDeps, nil
}

func (m *TaskMonitor) transition(id domain.TaskID, to Phase) (*record, error) {
	r, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if want, ok := allowedFrom[to]; !ok || r.phase != want {
		return nil, simerr.Lifecyclef(fmt.Sprintf("task %d", id), r.phase, to)
	}
	r.phase = to
	return r, nil
}

// MarkSubmitted transitions a task Unsubmitted -> Submitted.
func (m *TaskMonitor) MarkSubmitted(id domain.TaskID) error {
	_, err := m.transition(id, Submitted)
	return err
}

// MarkReady transitions a task Submitted -> Ready and records it for
// DrainNewlyReady.
func (m *TaskMonitor) MarkReady(id domain.TaskID) error {
	if _, err := m.transition(id, Ready); err != nil {
		return err
	}
	m.newlyReady = append(m.newlyReady, id)
	return nil
}

// MarkRunning transitions a task Ready -> Running, recording its machine and
// start time.
func (m *TaskMonitor) MarkRunning(id domain.TaskID, machine domain.MachineID, start int64) error {
	r, err := m.transition(id, Running)
	if err != nil {
		return err
	}
	r.machine = machine
	r.hasMachine = true
	r.start = start
	r.hasStart = true
	return nil
}

// MarkCompleted transitions a task Running -> Completed, recording its end
// time, and decrements the remaining-dependency count of every dependent.
func (m *TaskMonitor) MarkCompleted(id domain.TaskID, end int64) error {
	r, err := m.transition(id, Completed)
	if err != nil {
		return err
	}
	r.end = end
	r.hasEnd = true

	for _, dep := range m.trace.Dependents(id) {
		dr, err := m.get(dep)
		if err != nil {
			return err
		}
		dr.remainingDeps--
	}
	return nil
}

// Assigned returns the machine a task was started on, if any.
func (m *TaskMonitor) Assigned(id domain.TaskID) (domain.MachineID, bool) {
	r, ok := m.records[id]
	if !ok || !r.hasMachine {
		return 0, false
	}
	return r.machine, true
}

// Start returns the recorded start time of a task, if any.
func (m *TaskMonitor) Start(id domain.TaskID) (int64, bool) {
	r, ok := m.records[id]
	if !ok || !r.hasStart {
		return 0, false
	}
	return r.start, true
}

// End returns the recorded completion time of a task, if any.
func (m *TaskMonitor) End(id domain.TaskID) (int64, bool) {
	r, ok := m.records[id]
	if !ok || !r.hasEnd {
		return 0, false
	}
	return r.end, true
}

// DrainNewlyReady returns, and clears, the set of tasks that became Ready
// since the last call, in transition order. Ordering policies that prefer
// pull-style integration use this instead of polling Phase for every task.
func (m *TaskMonitor) DrainNewlyReady() []domain.TaskID {
	out := m.newlyReady
	m.newlyReady = nil
	return out
}

// AllTerminal reports whether every task being tracked has reached Completed.
func (m *TaskMonitor) AllTerminal() bool {
	for _, r := range m.records {
		if r.phase != Completed {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of every task's phase, keyed by task id; the
// returned map carries no iteration order. Intended for tests and observers,
// not the hot path.
func (m *TaskMonitor) Snapshot() map[domain.TaskID]Phase {
	out := make(map[domain.TaskID]Phase, len(m.records))
	for id, r := range m.records {
		out[id] = r.phase
	}
	return out
}
