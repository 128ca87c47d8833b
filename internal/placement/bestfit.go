package placement

import (
	"wfsim/internal/domain"
	"wfsim/internal/state"
)

// Name identifies a placement policy variant for registry lookup.
type Name string

const BestFitName Name = "best-fit"

// Policy chooses a machine for a task's CPU demand.
type Policy interface {
	// SelectMachine returns the chosen machine, or false if no machine in
	// env currently has demand free CPUs according to table.
	SelectMachine(demand int64, env *domain.Environment, table *state.MachineTable) (domain.MachineID, bool)
}

// BestFit selects the candidate machine with the smallest free-CPU count
// that still meets the task's demand, breaking ties by machine id
// ascending. A candidate is any machine whose free CPUs are >= demand.
type BestFit struct{}

func (BestFit) SelectMachine(demand int64, env *domain.Environment, table *state.MachineTable) (domain.MachineID, bool) {
	var (
		best      domain.MachineID
		bestFree  int64
		found     bool
	)
	for _, m := range env.Machines() {
		free, err := table.Free(m.ID)
		if err != nil || free < demand {
			continue
		}
		if !found || free < bestFree {
			best = m.ID
			bestFree = free
			found = true
		}
	}
	return best, found
}
