package order

import "wfsim/internal/domain"

// FCFS orders ready tasks by (submission time ascending, task id ascending).
type FCFS struct {
	trace *domain.Trace
	q     *readyQueue
}

// NewFCFS builds an empty first-come-first-served policy over trace.
func NewFCFS(trace *domain.Trace) *FCFS {
	return &FCFS{trace: trace, q: newReadyQueue()}
}

func (p *FCFS) RegisterReady(task domain.TaskID) {
	t := p.trace.MustTask(task)
	p.q.register(t.SubmissionTime, 0, task)
}

func (p *FCFS) NextCandidate() (domain.TaskID, bool) { return p.q.next() }

func (p *FCFS) Remove(task domain.TaskID) { p.q.remove(task) }
