package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfsim/internal/domain"
)

func bigTrace(t *testing.T, workflows int) *domain.Trace {
	t.Helper()
	var tasks []domain.Task
	id := domain.TaskID(1)
	for w := 0; w < workflows; w++ {
		tasks = append(tasks, domain.Task{ID: id, Workflow: domain.WorkflowID(w), SubmissionTime: 0, Runtime: 1, CPUDemand: 1})
		id++
	}
	tr, err := domain.NewTrace(tasks)
	require.NoError(t, err)
	return tr
}

func TestSample_FullFractionReturnsSameTrace(t *testing.T) {
	tr := bigTrace(t, 5)
	sampled, err := Sample(tr, 1)
	require.NoError(t, err)
	assert.Same(t, tr, sampled)
}

func TestSample_KeepsWholeWorkflows(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 1, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 1, CPUDemand: 1, Dependencies: []domain.TaskID{1}},
		{ID: 3, Workflow: 2, SubmissionTime: 0, Runtime: 1, CPUDemand: 1},
	}
	tr, err := domain.NewTrace(tasks)
	require.NoError(t, err)

	sampled, err := Sample(tr, 0.999999)
	require.NoError(t, err)
	for _, wf := range sampled.Workflows() {
		members := sampled.WorkflowTasks(wf)
		full := tr.WorkflowTasks(wf)
		assert.Equal(t, len(full), len(members), "a kept workflow must keep every member task")
	}
}

func TestSample_DeterministicAcrossCalls(t *testing.T) {
	tr := bigTrace(t, 50)
	a, err := Sample(tr, 0.5)
	require.NoError(t, err)
	b, err := Sample(tr, 0.5)
	require.NoError(t, err)
	assert.ElementsMatch(t, a.Workflows(), b.Workflows())
}

func TestSample_RejectsOutOfRangeFraction(t *testing.T) {
	tr := bigTrace(t, 1)
	_, err := Sample(tr, 0)
	require.Error(t, err)
	_, err = Sample(tr, 1.1)
	require.Error(t, err)
}
