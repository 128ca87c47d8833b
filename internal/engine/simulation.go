package engine

import (
	"fmt"

	"wfsim/internal/domain"
	"wfsim/internal/events"
	"wfsim/internal/order"
	"wfsim/internal/placement"
	"wfsim/internal/simerr"
	"wfsim/internal/state"
)

// Simulation is the event-driven core described in spec.md section 4.5. It
// owns the event queue and the mutable task/machine state, and queries the
// ordering and placement policies it was constructed with; it never
// constructs or swaps policies itself.
type Simulation struct {
	trace *domain.Trace
	env   *domain.Environment

	tasks     *state.TaskMonitor
	machines  *state.MachineTable
	order     order.Policy
	placement placement.Policy

	queue      *events.Queue
	tickAt     map[int64]bool
	clock      int64
	obs        dispatcher
}

// New builds a Simulation ready to Run. orderPolicy and placementPolicy
// must already be constructed against trace/env (EWF, in particular, needs
// its workflow-stats collaborator wired in before this call).
func New(trace *domain.Trace, env *domain.Environment, orderPolicy order.Policy, placementPolicy placement.Policy, observers ...Observer) *Simulation {
	s := &Simulation{
		trace:     trace,
		env:       env,
		tasks:     state.NewTaskMonitor(trace),
		machines:  state.NewMachineTable(env),
		order:     orderPolicy,
		placement: placementPolicy,
		queue:     events.NewQueue(),
		tickAt:    make(map[int64]bool),
	}
	for _, o := range observers {
		s.obs.register(o)
	}
	return s
}

// Trace returns the trace this simulation runs over.
func (s *Simulation) Trace() *domain.Trace { return s.trace }

// Environment returns the environment this simulation runs over.
func (s *Simulation) Environment() *domain.Environment { return s.env }

// Tasks returns the task-state monitor, for host-side sanity checks after Run.
func (s *Simulation) Tasks() *state.TaskMonitor { return s.tasks }

// Machines returns the machine-state table, for host-side sanity checks after Run.
func (s *Simulation) Machines() *state.MachineTable { return s.machines }

// Run seeds a TaskSubmitted event for every task in the trace and drains
// the event queue to completion.
//
// Run returns a *simerr.Violation-wrapped error the instant any fatal
// invariant is violated (capacity, lifecycle, temporal regression, or
// unknown entity); it never recovers from one.
func (s *Simulation) Run() error {
	for _, t := range s.trace.Tasks() {
		s.queue.Push(events.Event{Kind: events.KindTaskSubmitted, Time: t.SubmissionTime, Task: t.ID})
	}

	for {
		ev, ok := s.queue.Pop()
		if !ok {
			break
		}
		if ev.Time < s.clock {
			return simerr.Temporalf(fmt.Sprintf("event %s for task %d", ev.Kind, ev.Task), s.clock, ev.Time)
		}
		s.clock = ev.Time

		if err := s.dispatch(ev); err != nil {
			return err
		}
		s.obs.OnTick(s.clock)
	}

	if !s.tasks.AllTerminal() {
		return simerr.Lifecyclef("simulation", "incomplete", "all tasks completed")
	}
	if !s.machines.AllIdle() {
		return simerr.Capacityf("simulation", -1, 0)
	}
	return nil
}

func (s *Simulation) dispatch(ev events.Event) error {
	switch ev.Kind {
	case events.KindTaskSubmitted:
		return s.handleSubmitted(ev.Task)
	case events.KindTaskReady:
		return s.handleReady(ev.Task)
	case events.KindScheduleTick:
		return s.handleScheduleTick(ev.Time)
	case events.KindTaskCompleted:
		return s.handleCompleted(ev.Task, ev.Machine)
	case events.KindTaskStarted:
		// TaskStarted is emitted for observability during a scheduling
		// pass; the state mutation already happened in handleScheduleTick.
		return nil
	default:
		return fmt.Errorf("engine: unknown event kind %v", ev.Kind)
	}
}

func (s *Simulation) handleSubmitted(id domain.TaskID) error {
	if err := s.tasks.MarkSubmitted(id); err != nil {
		return err
	}
	s.obs.OnTaskSubmitted(id)

	remaining, err := s.tasks.RemainingDeps(id)
	if err != nil {
		return err
	}
	if remaining == 0 {
		s.queue.Push(events.Event{Kind: events.KindTaskReady, Time: s.clock, Task: id})
	}
	return nil
}

func (s *Simulation) handleReady(id domain.TaskID) error {
	if err := s.tasks.MarkReady(id); err != nil {
		return err
	}
	s.order.RegisterReady(id)
	s.obs.OnTaskReady(id)
	s.scheduleTickIfAbsent(s.clock)
	return nil
}

// scheduleTickIfAbsent enqueues a ScheduleTick at t unless one is already
// pending there, implementing the "at most one ScheduleTick per timestamp"
// rule from spec.md section 4.5.
func (s *Simulation) scheduleTickIfAbsent(t int64) {
	if s.tickAt[t] {
		return
	}
	s.tickAt[t] = true
	s.queue.Push(events.Event{Kind: events.KindScheduleTick, Time: t})
}

func (s *Simulation) handleScheduleTick(t int64) error {
	delete(s.tickAt, t)

	for {
		candidate, ok := s.order.NextCandidate()
		if !ok {
			return nil
		}
		task := s.trace.MustTask(candidate)

		machine, ok := s.placement.SelectMachine(task.CPUDemand, s.env, s.machines)
		if !ok {
			// The head of the ready queue cannot be placed; stop the pass
			// without reordering past it, per spec.md section 4.5.
			return nil
		}

		if err := s.machines.Reserve(machine, candidate, task.CPUDemand); err != nil {
			return err
		}
		s.order.Remove(candidate)
		if err := s.tasks.MarkRunning(candidate, machine, s.clock); err != nil {
			return err
		}

		completeAt := s.clock + task.Runtime
		s.queue.Push(events.Event{Kind: events.KindTaskCompleted, Time: completeAt, Task: candidate, Machine: machine})
		s.queue.Push(events.Event{Kind: events.KindTaskStarted, Time: s.clock, Task: candidate, Machine: machine})

		s.obs.OnTaskStarted(candidate, machine, s.clock)
	}
}

func (s *Simulation) handleCompleted(id domain.TaskID, machine domain.MachineID) error {
	task := s.trace.MustTask(id)
	if err := s.machines.Release(machine, id, task.CPUDemand); err != nil {
		return err
	}
	if err := s.tasks.MarkCompleted(id, s.clock); err != nil {
		return err
	}
	s.obs.OnTaskCompleted(id, s.clock)

	for _, dep := range s.trace.Dependents(id) {
		remaining, err := s.tasks.RemainingDeps(dep)
		if err != nil {
			return err
		}
		if remaining == 0 {
			phase, err := s.tasks.Phase(dep)
			if err != nil {
				return err
			}
			if phase == state.Submitted {
				s.queue.Push(events.Event{Kind: events.KindTaskReady, Time: s.clock, Task: dep})
			}
		}
	}

	s.scheduleTickIfAbsent(s.clock)
	return nil
}
