package domain

import "fmt"

// MachineID indexes a Machine contiguously from zero within an Environment.
type MachineID int

// ClusterID indexes a Cluster contiguously from zero within an Environment.
type ClusterID int

// Machine is an immutable compute node: a fixed, positive CPU count bound to
// a parent Cluster.
type Machine struct {
	ID      MachineID
	Cluster ClusterID
	CPUs    int64
}

// Cluster groups Machines. It carries no back-reference to its machines;
// membership is derived from Machine.Cluster via the owning Environment.
type Cluster struct {
	ID ClusterID
}

// Environment owns every Machine and Cluster for a simulation run. Machines
// are indexed contiguously from zero, matching the ordering in which they
// were supplied.
type Environment struct {
	machines []Machine
	clusters []Cluster

	clusterMachines map[ClusterID][]MachineID
}

// NewEnvironment validates and indexes a flat list of machines.
//
// Validation rejects a non-contiguous or non-zero-based id assignment (the
// caller is expected to assign MachineID sequentially) and any non-positive
// CPU count.
func NewEnvironment(machines []Machine, clusters []Cluster) (*Environment, error) {
	for i, m := range machines {
		if int(m.ID) != i {
			return nil, fmt.Errorf("domain: machine ids must be contiguous from zero, got %d at position %d", m.ID, i)
		}
		if m.CPUs <= 0 {
			return nil, fmt.Errorf("domain: machine %d has non-positive CPU count %d", m.ID, m.CPUs)
		}
	}
	clusterSeen := make(map[ClusterID]bool, len(clusters))
	for i, c := range clusters {
		if int(c.ID) != i {
			return nil, fmt.Errorf("domain: cluster ids must be contiguous from zero, got %d at position %d", c.ID, i)
		}
		clusterSeen[c.ID] = true
	}

	clusterMachines := make(map[ClusterID][]MachineID, len(clusters))
	for _, m := range machines {
		if len(clusters) > 0 && !clusterSeen[m.Cluster] {
			return nil, fmt.Errorf("domain: machine %d references unknown cluster %d", m.ID, m.Cluster)
		}
		clusterMachines[m.Cluster] = append(clusterMachines[m.Cluster], m.ID)
	}

	env := &Environment{
		machines:        append([]Machine(nil), machines...),
		clusters:        append([]Cluster(nil), clusters...),
		clusterMachines: clusterMachines,
	}
	return env, nil
}

// Machines returns every machine, indexed by MachineID.
func (e *Environment) Machines() []Machine {
	out := make([]Machine, len(e.machines))
	copy(out, e.machines)
	return out
}

// Machine looks up a machine by id.
func (e *Environment) Machine(id MachineID) (Machine, bool) {
	if int(id) < 0 || int(id) >= len(e.machines) {
		return Machine{}, false
	}
	return e.machines[id], true
}

// MachineCount returns the number of machines in the environment.
func (e *Environment) MachineCount() int { return len(e.machines) }

// ClusterMachines returns the machine ids belonging to a cluster, in index order.
func (e *Environment) ClusterMachines(id ClusterID) []MachineID {
	out := make([]MachineID, len(e.clusterMachines[id]))
	copy(out, e.clusterMachines[id])
	return out
}
