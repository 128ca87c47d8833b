package envsize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfsim/internal/domain"
)

func traceFor(t *testing.T, tasks []domain.Task) *domain.Trace {
	t.Helper()
	tr, err := domain.NewTrace(tasks)
	require.NoError(t, err)
	return tr
}

func TestBuildUniform(t *testing.T) {
	env, err := BuildUniform(3, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, env.MachineCount())
	for i := 0; i < 3; i++ {
		m, ok := env.Machine(domain.MachineID(i))
		require.True(t, ok)
		assert.Equal(t, int64(8), m.CPUs)
	}
}

func TestMachineCount_RaisesCPUsPerMachineToLargestDemand(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 10, CPUDemand: 16},
	}
	tr := traceFor(t, tasks)
	_, cpus, err := MachineCount(tr, Config{TargetUtilization: 1, CPUsPerMachine: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(16), cpus, "cpus-per-machine must be raised to the largest task demand")
}

func TestMachineCount_SingleInstantTraceNeedsOneMachine(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 0, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 0, CPUDemand: 1},
	}
	tr := traceFor(t, tasks)
	n, _, err := MachineCount(tr, Config{TargetUtilization: 1, CPUsPerMachine: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMachineCount_RejectsOutOfRangeUtilization(t *testing.T) {
	tr := traceFor(t, []domain.Task{{ID: 1, Workflow: 1, Runtime: 1, CPUDemand: 1}})
	_, _, err := MachineCount(tr, Config{TargetUtilization: 0, CPUsPerMachine: 1})
	require.Error(t, err)
	_, _, err = MachineCount(tr, Config{TargetUtilization: 1.5, CPUsPerMachine: 1})
	require.Error(t, err)
}

func TestMachineCount_RejectsEmptyTrace(t *testing.T) {
	tr := traceFor(t, nil)
	_, _, err := MachineCount(tr, Config{TargetUtilization: 1, CPUsPerMachine: 1})
	require.Error(t, err)
}

func TestMachineCount_HigherUtilizationNeedsFewerMachines(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 10, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 10, CPUDemand: 1},
		{ID: 3, Workflow: 1, SubmissionTime: 0, Runtime: 10, CPUDemand: 1},
		{ID: 4, Workflow: 1, SubmissionTime: 0, Runtime: 10, CPUDemand: 1},
	}
	tr := traceFor(t, tasks)
	nLow, _, err := MachineCount(tr, Config{TargetUtilization: 0.25, CPUsPerMachine: 1})
	require.NoError(t, err)
	nHigh, _, err := MachineCount(tr, Config{TargetUtilization: 1, CPUsPerMachine: 1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, nLow, nHigh, "a lower target utilization must not need fewer machines")
}

func TestMachineCount_HorizonRespectsDependencyChain(t *testing.T) {
	// A (runtime 5) -> B (runtime 5): earliest completion horizon is 10, not 5.
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 5, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 5, CPUDemand: 1, Dependencies: []domain.TaskID{1}},
	}
	tr := traceFor(t, tasks)
	n, _, err := MachineCount(tr, Config{TargetUtilization: 1, CPUsPerMachine: 1})
	require.NoError(t, err)
	// total CPU ticks = 10, span = 10, cpus=1, rho=1 => ceil(10/10) = 1
	assert.Equal(t, 1, n)
}
