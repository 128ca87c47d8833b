package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfsim/internal/domain"
	"wfsim/internal/history"
	"wfsim/internal/order"
	"wfsim/internal/placement"
)

func buildTrace(t *testing.T, tasks []domain.Task) *domain.Trace {
	t.Helper()
	tr, err := domain.NewTrace(tasks)
	require.NoError(t, err)
	return tr
}

func buildEnv(t *testing.T, cpus ...int64) *domain.Environment {
	t.Helper()
	machines := make([]domain.Machine, len(cpus))
	for i, c := range cpus {
		machines[i] = domain.Machine{ID: domain.MachineID(i), Cluster: 0, CPUs: c}
	}
	env, err := domain.NewEnvironment(machines, []domain.Cluster{{ID: 0}})
	require.NoError(t, err)
	return env
}

// recordingObserver captures every callback for assertions on conservation
// and ordering properties (spec.md section 8).
type recordingObserver struct {
	submitted []domain.TaskID
	ready     []domain.TaskID
	started   []domain.TaskID
	completed []domain.TaskID
	ticks     []int64
}

func (r *recordingObserver) OnTaskSubmitted(task domain.TaskID) { r.submitted = append(r.submitted, task) }
func (r *recordingObserver) OnTaskReady(task domain.TaskID)     { r.ready = append(r.ready, task) }
func (r *recordingObserver) OnTaskStarted(task domain.TaskID, _ domain.MachineID, _ int64) {
	r.started = append(r.started, task)
}
func (r *recordingObserver) OnTaskCompleted(task domain.TaskID, _ int64) {
	r.completed = append(r.completed, task)
}
func (r *recordingObserver) OnTick(now int64) { r.ticks = append(r.ticks, now) }

// Scenario 1: pipe of two.
func TestSimulation_PipeOfTwo(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 10, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 5, CPUDemand: 1, Dependencies: []domain.TaskID{1}},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 1)
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{})
	require.NoError(t, sim.Run())

	s1, _ := sim.Tasks().Start(1)
	e1, _ := sim.Tasks().End(1)
	s2, _ := sim.Tasks().Start(2)
	e2, _ := sim.Tasks().End(2)
	assert.Equal(t, int64(0), s1)
	assert.Equal(t, int64(10), e1)
	assert.Equal(t, int64(10), s2)
	assert.Equal(t, int64(15), e2)
}

// Scenario 2: parallel pair.
func TestSimulation_ParallelPair(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 7, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 7, CPUDemand: 1},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 1, 1)
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{})
	require.NoError(t, sim.Run())

	for _, id := range []domain.TaskID{1, 2} {
		start, _ := sim.Tasks().Start(id)
		end, _ := sim.Tasks().End(id)
		assert.Equal(t, int64(0), start)
		assert.Equal(t, int64(7), end)
	}
	m1, _ := sim.Tasks().Assigned(1)
	m2, _ := sim.Tasks().Assigned(2)
	assert.NotEqual(t, m1, m2, "the two parallel tasks must land on different machines")
}

// Scenario 3: best-fit tie-break picks the smallest sufficient machine.
func TestSimulation_BestFitPicksSmallestSufficientMachine(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 5, CPUDemand: 2},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 2, 4)
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{})
	require.NoError(t, sim.Run())

	machine, ok := sim.Tasks().Assigned(1)
	require.True(t, ok)
	assert.Equal(t, domain.MachineID(0), machine)
}

// Scenario 4: SJF preference.
func TestSimulation_SJFPreference(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 10, CPUDemand: 1}, // X
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 1, CPUDemand: 1},  // Y
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 1)
	sim := New(tr, env, order.NewSJF(tr), placement.BestFit{})
	require.NoError(t, sim.Run())

	sY, _ := sim.Tasks().Start(2)
	eY, _ := sim.Tasks().End(2)
	sX, _ := sim.Tasks().Start(1)
	eX, _ := sim.Tasks().End(1)
	assert.Equal(t, int64(0), sY)
	assert.Equal(t, int64(1), eY)
	assert.Equal(t, int64(1), sX)
	assert.Equal(t, int64(11), eX)
}

// Scenario 5: completion-before-start tie-break.
func TestSimulation_CompletionBeforeStartTieBreak(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 5, CPUDemand: 1}, // P
		{ID: 2, Workflow: 1, SubmissionTime: 5, Runtime: 3, CPUDemand: 1}, // Q
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 1)
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{})
	require.NoError(t, sim.Run())

	sQ, _ := sim.Tasks().Start(2)
	eQ, _ := sim.Tasks().End(2)
	assert.Equal(t, int64(5), sQ, "Q must start in the same tick P completes")
	assert.Equal(t, int64(8), eQ)
}

// Scenario 6: backpressure serializes three independent tasks on one machine.
func TestSimulation_Backpressure(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 2, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 2, CPUDemand: 1},
		{ID: 3, Workflow: 1, SubmissionTime: 0, Runtime: 2, CPUDemand: 1},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 1)
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{})
	require.NoError(t, sim.Run())

	wantStart := map[domain.TaskID]int64{1: 0, 2: 2, 3: 4}
	wantEnd := map[domain.TaskID]int64{1: 2, 2: 4, 3: 6}
	for id, want := range wantStart {
		got, _ := sim.Tasks().Start(id)
		assert.Equal(t, want, got, "task %d start", id)
	}
	for id, want := range wantEnd {
		got, _ := sim.Tasks().End(id)
		assert.Equal(t, want, got, "task %d end", id)
	}
}

func TestSimulation_RuntimeZeroTaskCompletesSameTick(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 0, CPUDemand: 1},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 1)
	obs := &recordingObserver{}
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{}, obs)
	require.NoError(t, sim.Run())

	start, _ := sim.Tasks().Start(1)
	end, _ := sim.Tasks().End(1)
	assert.Equal(t, start, end)
	assert.True(t, sim.Machines().AllIdle())
}

func TestSimulation_EmptyTraceTerminatesImmediately(t *testing.T) {
	tr := buildTrace(t, nil)
	env := buildEnv(t, 1)
	obs := &recordingObserver{}
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{}, obs)
	require.NoError(t, sim.Run())
	assert.Empty(t, obs.ticks, "no events means no ticks")
}

func TestSimulation_SingleTaskAtFullCapacityRunsAlone(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 3, CPUDemand: 4},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 4)
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{})
	require.NoError(t, sim.Run())
	free, err := sim.Machines().Free(0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), free)
}

func TestSimulation_ConservationOfStartAndCompleteCounts(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 2, CPUDemand: 1},
		{ID: 2, Workflow: 1, SubmissionTime: 1, Runtime: 1, CPUDemand: 1},
		{ID: 3, Workflow: 1, SubmissionTime: 2, Runtime: 4, CPUDemand: 1, Dependencies: []domain.TaskID{1, 2}},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 2)
	obs := &recordingObserver{}
	sim := New(tr, env, order.NewFCFS(tr), placement.BestFit{}, obs)
	require.NoError(t, sim.Run())

	assert.Len(t, obs.started, len(tasks))
	assert.Len(t, obs.completed, len(tasks))
	assert.True(t, sim.Tasks().AllTerminal())
}

func TestSimulation_DeterminismAcrossRuns(t *testing.T) {
	build := func() (*domain.Trace, *domain.Environment) {
		tasks := []domain.Task{
			{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 3, CPUDemand: 1},
			{ID: 2, Workflow: 1, SubmissionTime: 0, Runtime: 4, CPUDemand: 1},
			{ID: 3, Workflow: 1, SubmissionTime: 1, Runtime: 2, CPUDemand: 1, Dependencies: []domain.TaskID{1}},
		}
		return buildTrace(t, tasks), buildEnv(t, 1)
	}

	tr1, env1 := build()
	sim1 := New(tr1, env1, order.NewFCFS(tr1), placement.BestFit{})
	require.NoError(t, sim1.Run())

	tr2, env2 := build()
	sim2 := New(tr2, env2, order.NewFCFS(tr2), placement.BestFit{})
	require.NoError(t, sim2.Run())

	for _, id := range []domain.TaskID{1, 2, 3} {
		s1, _ := sim1.Tasks().Start(id)
		s2, _ := sim2.Tasks().Start(id)
		assert.Equal(t, s1, s2, "task %d start must match across runs", id)
		e1, _ := sim1.Tasks().End(id)
		e2, _ := sim2.Tasks().End(id)
		assert.Equal(t, e1, e2, "task %d end must match across runs", id)
	}
}

func TestSimulation_EWFUsesWorkflowDeadlineFromStatsCollector(t *testing.T) {
	// Workflow 1 has a short critical path (tight deadline); workflow 2 is long.
	tasks := []domain.Task{
		{ID: 1, Workflow: 1, SubmissionTime: 0, Runtime: 1, CPUDemand: 1},
		{ID: 2, Workflow: 2, SubmissionTime: 0, Runtime: 100, CPUDemand: 1},
	}
	tr := buildTrace(t, tasks)
	env := buildEnv(t, 1)
	stats := history.NewWorkflowStatsCollector(tr)
	sim := New(tr, env, order.NewEWF(tr, stats), placement.BestFit{}, stats)
	require.NoError(t, sim.Run())

	s1, _ := sim.Tasks().Start(1)
	s2, _ := sim.Tasks().Start(2)
	assert.Equal(t, int64(0), s1, "the workflow with the earlier deadline must run first")
	assert.Equal(t, int64(1), s2)
}
