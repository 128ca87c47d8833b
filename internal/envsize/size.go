package envsize

import (
	"container/heap"
	"math"

	"github.com/pkg/errors"

	"wfsim/internal/domain"
)

// Config parameterizes the sizing heuristic.
type Config struct {
	// TargetUtilization is ρ ∈ (0,1], the fraction of aggregate cluster
	// CPU-time the trace should consume under ideal packing.
	TargetUtilization float64

	// CPUsPerMachine is the CPU count assigned to every machine. If any
	// task's demand exceeds it, it is raised to that maximum (spec.md
	// section 6).
	CPUsPerMachine int64
}

// MachineCount computes the number of uniform machines needed to hit
// cfg.TargetUtilization over trace, per spec.md section 6:
//
//	ceil( Σ_t (runtime_t · cpu_demand_t) / ((t_end − t_start) · cpus_per_machine · ρ) )
//
// where t_start is the minimum submission time and t_end is the maximum
// earliest-possible completion time from a topological longest-path pass
// over the dependency DAG. It also returns the (possibly raised)
// cpus-per-machine actually used.
func MachineCount(trace *domain.Trace, cfg Config) (count int, cpusPerMachine int64, err error) {
	if cfg.TargetUtilization <= 0 || cfg.TargetUtilization > 1 {
		return 0, 0, errors.Errorf("envsize: target utilization must be in (0,1], got %v", cfg.TargetUtilization)
	}

	tasks := trace.Tasks()
	if len(tasks) == 0 {
		return 0, cfg.CPUsPerMachine, errors.New("envsize: empty trace")
	}

	cpusPerMachine = cfg.CPUsPerMachine
	var totalCPUTicks int64
	tStart := tasks[0].SubmissionTime
	for _, t := range tasks {
		totalCPUTicks += t.Runtime * t.CPUDemand
		if t.SubmissionTime < tStart {
			tStart = t.SubmissionTime
		}
		if t.CPUDemand > cpusPerMachine {
			cpusPerMachine = t.CPUDemand
		}
	}
	if cpusPerMachine <= 0 {
		return 0, 0, errors.New("envsize: cpus-per-machine must be positive")
	}

	tEnd := earliestCompletionHorizon(trace)
	span := tEnd - tStart
	if span <= 0 {
		// Every task fits in a single instant; one machine handles the peak.
		return 1, cpusPerMachine, nil
	}

	denominator := float64(span) * float64(cpusPerMachine) * cfg.TargetUtilization
	n := int(math.Ceil(float64(totalCPUTicks) / denominator))
	if n < 1 {
		n = 1
	}
	return n, cpusPerMachine, nil
}

// earliestCompletionHorizon runs a Kahn's-algorithm forward pass over the
// full dependency DAG (not restricted to one workflow, unlike
// domain.Trace.CriticalPath) and returns the maximum earliest-possible
// completion time across every task:
//
//	ect(t) = max(submission(t), max_{d in deps(t)} ect(d)) + runtime(t)
func earliestCompletionHorizon(trace *domain.Trace) int64 {
	tasks := trace.Tasks()

	indeg := make(map[domain.TaskID]int, len(tasks))
	for _, t := range tasks {
		indeg[t.ID] = len(t.Dependencies)
	}

	ready := &taskIDHeap{}
	heap.Init(ready)
	for _, t := range tasks {
		if indeg[t.ID] == 0 {
			heap.Push(ready, t.ID)
		}
	}

	earliestStart := make(map[domain.TaskID]int64, len(tasks))
	var horizon int64
	for ready.Len() > 0 {
		id := heap.Pop(ready).(domain.TaskID)
		t := trace.MustTask(id)

		start := t.SubmissionTime
		if es, ok := earliestStart[id]; ok && es > start {
			start = es
		}
		end := start + t.Runtime
		if end > horizon {
			horizon = end
		}

		for _, dep := range trace.Dependents(id) {
			if end > earliestStart[dep] {
				earliestStart[dep] = end
			}
			indeg[dep]--
			if indeg[dep] == 0 {
				heap.Push(ready, dep)
			}
		}
	}
	return horizon
}

type taskIDHeap []domain.TaskID

func (h taskIDHeap) Len() int            { return len(h) }
func (h taskIDHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h taskIDHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *taskIDHeap) Push(x interface{}) { *h = append(*h, x.(domain.TaskID)) }
func (h *taskIDHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
