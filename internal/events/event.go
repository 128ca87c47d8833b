package events

import "wfsim/internal/domain"

// Kind discriminates the Event variants the simulation loop understands.
//
// Priority is the tie-break used when two events share a timestamp. Lower
// values are processed first. The required order (from spec.md section
// 4.1) is:
//
//  1. TaskCompleted  - frees resources first
//  2. TaskSubmitted   - admits new work
//  3. TaskReady       - promotes dependents
//  4. ScheduleTick    - drives a scheduling pass after all state settles
//  5. TaskStarted     - records chosen starts, emitted during the tick
type Kind int

const (
	KindTaskCompleted Kind = iota
	KindTaskSubmitted
	KindTaskReady
	KindScheduleTick
	KindTaskStarted
)

func (k Kind) String() string {
	switch k {
	case KindTaskCompleted:
		return "TaskCompleted"
	case KindTaskSubmitted:
		return "TaskSubmitted"
	case KindTaskReady:
		return "TaskReady"
	case KindScheduleTick:
		return "ScheduleTick"
	case KindTaskStarted:
		return "TaskStarted"
	default:
		return "Unknown"
	}
}

// Event is a single time-stamped occurrence in the simulation. Task and
// Machine are populated according to Kind; ScheduleTick uses neither.
type Event struct {
	Kind    Kind
	Time    int64
	Task    domain.TaskID
	Machine domain.MachineID

	// seq is assigned by Queue.Push and used only as the final tie-break.
	seq uint64
}

// Seq returns the event's push-order sequence number, for tests asserting
// determinism of tie-breaking.
func (e Event) Seq() uint64 { return e.seq }

// less implements the total order (timestamp, priority, seq).
func less(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.seq < b.seq
}
