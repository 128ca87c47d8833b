package engine

import "wfsim/internal/domain"

// Observer receives lifecycle notifications from the simulation core.
// Callbacks occur synchronously on the simulation loop's goroutine, after
// the corresponding state mutation has already happened; observers must not
// mutate core state (see spec.md section 4.6).
type Observer interface {
	OnTaskSubmitted(task domain.TaskID)
	OnTaskReady(task domain.TaskID)
	OnTaskStarted(task domain.TaskID, machine domain.MachineID, start int64)
	OnTaskCompleted(task domain.TaskID, end int64)
	OnTick(now int64)
}

// dispatcher fans out lifecycle notifications to every registered observer,
// in registration order. It satisfies Observer itself so the simulation
// core only ever needs to hold one.
type dispatcher struct {
	observers []Observer
}

func (d *dispatcher) register(o Observer) { d.observers = append(d.observers, o) }

func (d *dispatcher) OnTaskSubmitted(task domain.TaskID) {
	for _, o := range d.observers {
		o.OnTaskSubmitted(task)
	}
}

func (d *dispatcher) OnTaskReady(task domain.TaskID) {
	for _, o := range d.observers {
		o.OnTaskReady(task)
	}
}

func (d *dispatcher) OnTaskStarted(task domain.TaskID, machine domain.MachineID, start int64) {
	for _, o := range d.observers {
		o.OnTaskStarted(task, machine, start)
	}
}

func (d *dispatcher) OnTaskCompleted(task domain.TaskID, end int64) {
	for _, o := range d.observers {
		o.OnTaskCompleted(task, end)
	}
}

func (d *dispatcher) OnTick(now int64) {
	for _, o := range d.observers {
		o.OnTick(now)
	}
}
