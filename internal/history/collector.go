package history

import (
	"wfsim/internal/domain"
)

// taskRecord accumulates the observed lifecycle timestamps for one task.
type taskRecord struct {
	submission int64
	start      int64
	hasStart   bool
	end        int64
	hasEnd     bool
	machine    domain.MachineID
	hasMachine bool
}

// workflowRecord accumulates the observed timestamps for one workflow.
type workflowRecord struct {
	firstSubmission int64
	hasSubmission   bool
	firstStart      int64
	hasStart        bool
	lastCompletion  int64
	hasCompletion   bool
}

// WorkflowStatsCollector is an engine.Observer that accumulates per-task and
// per-workflow timing statistics as a simulation runs, and doubles as the
// order.WorkflowDeadlines collaborator EWF needs.
//
// Per spec.md section 9's observer-injection design note: the host
// constructs one of these, registers it as an observer, and passes it into
// NewEWF before the run starts. It never mutates simulation state itself.
type WorkflowStatsCollector struct {
	trace *domain.Trace

	tasks     map[domain.TaskID]*taskRecord
	workflows map[domain.WorkflowID]*workflowRecord
}

// NewWorkflowStatsCollector builds a collector pre-sized for every task and
// workflow in trace.
func NewWorkflowStatsCollector(trace *domain.Trace) *WorkflowStatsCollector {
	c := &WorkflowStatsCollector{
		trace:     trace,
		tasks:     make(map[domain.TaskID]*taskRecord),
		workflows: make(map[domain.WorkflowID]*workflowRecord),
	}
	for _, t := range trace.Tasks() {
		c.tasks[t.ID] = &taskRecord{submission: t.SubmissionTime}
		if _, ok := c.workflows[t.Workflow]; !ok {
			c.workflows[t.Workflow] = &workflowRecord{}
		}
	}
	return c
}

func (c *WorkflowStatsCollector) OnTaskSubmitted(task domain.TaskID) {
	t := c.trace.MustTask(task)
	wf := c.workflows[t.Workflow]
	if !wf.hasSubmission || t.SubmissionTime < wf.firstSubmission {
		wf.firstSubmission = t.SubmissionTime
		wf.hasSubmission = true
	}
}

func (c *WorkflowStatsCollector) OnTaskReady(domain.TaskID) {}

func (c *WorkflowStatsCollector) OnTaskStarted(task domain.TaskID, machine domain.MachineID, start int64) {
	r := c.tasks[task]
	r.start = start
	r.hasStart = true
	r.machine = machine
	r.hasMachine = true

	t := c.trace.MustTask(task)
	wf := c.workflows[t.Workflow]
	if !wf.hasStart || start < wf.firstStart {
		wf.firstStart = start
		wf.hasStart = true
	}
}

func (c *WorkflowStatsCollector) OnTaskCompleted(task domain.TaskID, end int64) {
	r := c.tasks[task]
	r.end = end
	r.hasEnd = true

	t := c.trace.MustTask(task)
	wf := c.workflows[t.Workflow]
	if !wf.hasCompletion || end > wf.lastCompletion {
		wf.lastCompletion = end
		wf.hasCompletion = true
	}
}

func (c *WorkflowStatsCollector) OnTick(int64) {}

// Deadline implements order.WorkflowDeadlines: the workflow's first
// submission time plus its (static, trace-derived) critical-path length.
// Until a member task has been submitted the first-submission term is zero,
// so the result is the critical-path length alone; EWF only calls this after
// a member task becomes ready, which implies it was already submitted.
func (c *WorkflowStatsCollector) Deadline(wf domain.WorkflowID) int64 {
	r, ok := c.workflows[wf]
	if !ok {
		return c.trace.CriticalPath(wf)
	}
	return r.firstSubmission + c.trace.CriticalPath(wf)
}

// TaskRow is one row of the per-task statistics table.
type TaskRow struct {
	Task       domain.TaskID
	Workflow   domain.WorkflowID
	Submission int64
	Start      int64
	End        int64
	Runtime    int64
	CPUDemand  int64
	Machine    domain.MachineID
}

// WorkflowRow is one row of the per-workflow statistics table.
type WorkflowRow struct {
	Workflow        domain.WorkflowID
	FirstSubmission int64
	LastCompletion  int64
	CriticalPath    int64
	WaitTime        int64
	Makespan        int64
}

// TaskRows returns one row per task in ascending task-id order. Tasks that
// never started or completed (a programming error if Run succeeded) report
// zero for the missing fields.
func (c *WorkflowStatsCollector) TaskRows() []TaskRow {
	tasks := c.trace.Tasks()
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		r := c.tasks[t.ID]
		rows = append(rows, TaskRow{
			Task:       t.ID,
			Workflow:   t.Workflow,
			Submission: t.SubmissionTime,
			Start:      r.start,
			End:        r.end,
			Runtime:    t.Runtime,
			CPUDemand:  t.CPUDemand,
			Machine:    r.machine,
		})
	}
	return rows
}

// WorkflowRows returns one row per workflow in ascending workflow-id order.
func (c *WorkflowStatsCollector) WorkflowRows() []WorkflowRow {
	ids := c.trace.Workflows()
	rows := make([]WorkflowRow, 0, len(ids))
	for _, id := range ids {
		r := c.workflows[id]
		cp := c.trace.CriticalPath(id)
		rows = append(rows, WorkflowRow{
			Workflow:        id,
			FirstSubmission: r.firstSubmission,
			LastCompletion:  r.lastCompletion,
			CriticalPath:    cp,
			WaitTime:        r.firstStart - r.firstSubmission,
			Makespan:        r.lastCompletion - r.firstSubmission,
		})
	}
	return rows
}
