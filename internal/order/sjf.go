package order

import "wfsim/internal/domain"

// SJF (shortest job first) orders ready tasks by (runtime ascending,
// submission time ascending, task id ascending).
type SJF struct {
	trace *domain.Trace
	q     *readyQueue
}

// NewSJF builds an empty shortest-job-first policy over trace.
func NewSJF(trace *domain.Trace) *SJF {
	return &SJF{trace: trace, q: newReadyQueue()}
}

func (p *SJF) RegisterReady(task domain.TaskID) {
	t := p.trace.MustTask(task)
	p.q.register(t.Runtime, t.SubmissionTime, task)
}

func (p *SJF) NextCandidate() (domain.TaskID, bool) { return p.q.next() }

func (p *SJF) Remove(task domain.TaskID) { p.q.remove(task) }
