package state

import (
	"fmt"

	"wfsim/internal/domain"
	"wfsim/internal/simerr"
)

// MachineTable tracks the mutable free-CPU counter and running-task set of
// every machine in an Environment.
//
// Invariant: 0 <= free <= machine.CPUs and
// free == machine.CPUs - sum(demand of running tasks). Reserve rejects a
// demand above the current free count and Release rejects a free count above
// machine.CPUs; the running-task set does not record demands, so Release
// trusts the demand it is given.
type MachineTable struct {
	env   *domain.Environment
	free  []int64
	tasks []map[domain.TaskID]struct{}
}

// NewMachineTable initializes every machine to fully free.
func NewMachineTable(env *domain.Environment) *MachineTable {
	machines := env.Machines()
	free := make([]int64, len(machines))
	tasks := make([]map[domain.TaskID]struct{}, len(machines))
	for i, m := range machines {
		free[i] = m.CPUs
		tasks[i] = make(map[domain.TaskID]struct{})
	}
	return &MachineTable{env: env, free: free, tasks: tasks}
}

func (mt *MachineTable) check(id domain.MachineID) error {
	if int(id) < 0 || int(id) >= len(mt.free) {
		return simerr.Unknownf(fmt.Sprintf("machine %d", id))
	}
	return nil
}

// Free returns the current free-CPU count of a machine.
func (mt *MachineTable) Free(id domain.MachineID) (int64, error) {
	if err := mt.check(id); err != nil {
		return 0, err
	}
	return mt.free[id], nil
}

// Running returns the ids of tasks currently running on a machine, in no
// particular order (callers needing determinism should sort).
func (mt *MachineTable) Running(id domain.MachineID) ([]domain.TaskID, error) {
	if err := mt.check(id); err != nil {
		return nil, err
	}
	out := make([]domain.TaskID, 0, len(mt.tasks[id]))
	for t := range mt.tasks[id] {
		out = append(out, t)
	}
	return out, nil
}

// Reserve deducts demand CPUs for task on machine. It is a capacity
// violation for demand to exceed the machine's current free count.
func (mt *MachineTable) Reserve(id domain.MachineID, task domain.TaskID, demand int64) error {
	if err := mt.check(id); err != nil {
		return err
	}
	if demand > mt.free[id] {
		return simerr.Capacityf(fmt.Sprintf("machine %d", id), mt.free[id], demand)
	}
	mt.free[id] -= demand
	mt.tasks[id][task] = struct{}{}
	return nil
}

// Release returns demand CPUs reserved for task on machine.
func (mt *MachineTable) Release(id domain.MachineID, task domain.TaskID, demand int64) error {
	if err := mt.check(id); err != nil {
		return err
	}
	if _, ok := mt.tasks[id][task]; !ok {
		return simerr.Unknownf(fmt.Sprintf("task %d not running on machine %d", task, id))
	}
	delete(mt.tasks[id], task)
	mt.free[id] += demand
	machine, _ := mt.env.Machine(id)
	if mt.free[id] > machine.CPUs {
		return simerr.Capacityf(fmt.Sprintf("machine %d", id), mt.free[id], 0)
	}
	return nil
}

// AllIdle reports whether every machine has released all reservations,
// i.e. free_cpus == machine.CPUs for all machines.
func (mt *MachineTable) AllIdle() bool {
	for i, f := range mt.free {
		m, _ := mt.env.Machine(domain.MachineID(i))
		if f != m.CPUs {
			return false
		}
	}
	return true
}
