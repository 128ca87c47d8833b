package cliapp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wfsim/internal/domain"
	"wfsim/internal/engine"
	"wfsim/internal/order"
	"wfsim/internal/placement"
)

func TestSanityCheck_PassesForAWellFormedRun(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 5, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 3, CPUDemand: 1, Dependencies: []domain.TaskID{1}},
	}
	tr, err := domain.NewTrace(tasks)
	require.NoError(t, err)
	env, err := domain.NewEnvironment([]domain.Machine{{ID: 0, Cluster: 0, CPUs: 1}}, []domain.Cluster{{ID: 0}})
	require.NoError(t, err)

	sim := engine.New(tr, env, order.NewFCFS(tr), placement.BestFit{})
	require.NoError(t, sim.Run())
	require.NoError(t, sanityCheck(tr, sim))
}

func TestResolvePlacementPolicy_DefaultsToBestFit(t *testing.T) {
	// NewRootCommand binds the "placement" flag's default ("best-fit") into
	// viper, so resolving it without ever parsing argv still succeeds.
	NewRootCommand()
	policy, err := resolvePlacementPolicy()
	require.NoError(t, err)
	require.IsType(t, placement.BestFit{}, policy)
}
