package envsize

import "wfsim/internal/domain"

// BuildUniform constructs an Environment of count machines, each with cpus
// CPUs, all in a single cluster. This is the shape the sizing heuristic and
// an explicit --machines flag both ultimately produce.
func BuildUniform(count int, cpus int64) (*domain.Environment, error) {
	machines := make([]domain.Machine, count)
	for i := range machines {
		machines[i] = domain.Machine{ID: domain.MachineID(i), Cluster: 0, CPUs: cpus}
	}
	clusters := []domain.Cluster{{ID: 0}}
	return domain.NewEnvironment(machines, clusters)
}
