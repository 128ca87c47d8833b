package order

import "wfsim/internal/domain"

// WorkflowDeadlines supplies the workflow-critical-path-weighted deadline
// EWF orders by. It is satisfied by an external collaborator (see
// history.WorkflowStatsCollector) constructed by the host and handed to
// NewEWF; EWF never computes workflow statistics itself.
type WorkflowDeadlines interface {
	Deadline(wf domain.WorkflowID) int64
}

// EWF (earliest workflow first) orders ready tasks by (workflow deadline
// ascending, submission time ascending, task id ascending). The deadline is
// looked up once per workflow and cached for the lifetime of the policy.
type EWF struct {
	trace     *domain.Trace
	deadlines WorkflowDeadlines
	cache     map[domain.WorkflowID]int64
	q         *readyQueue
}

// NewEWF builds an empty earliest-workflow-first policy. deadlines must be
// registered as a simulation observer before the run starts so its
// statistics are populated by the time tasks become ready.
func NewEWF(trace *domain.Trace, deadlines WorkflowDeadlines) *EWF {
	return &EWF{
		trace:     trace,
		deadlines: deadlines,
		cache:     make(map[domain.WorkflowID]int64),
		q:         newReadyQueue(),
	}
}

func (p *EWF) deadline(wf domain.WorkflowID) int64 {
	if d, ok := p.cache[wf]; ok {
		return d
	}
	d := p.deadlines.Deadline(wf)
	p.cache[wf] = d
	return d
}

func (p *EWF) RegisterReady(task domain.TaskID) {
	t := p.trace.MustTask(task)
	p.q.register(p.deadline(t.Workflow), t.SubmissionTime, task)
}

func (p *EWF) NextCandidate() (domain.TaskID, bool) { return p.q.next() }

func (p *EWF) Remove(task domain.TaskID) { p.q.remove(task) }
