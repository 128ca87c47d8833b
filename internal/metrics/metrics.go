// Package metrics exports run-level counters and gauges in Prometheus
// format. It is adapted from the AI module's exporter in the corpus this
// project was bootstrapped from, narrowed to the handful of series a
// simulation run produces.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wfsim/internal/domain"
)

// Exporter holds the Prometheus series for one simulation run. It implements
// engine.Observer so it can be registered directly with a Simulation.
type Exporter struct {
	trace    *domain.Trace
	registry *prometheus.Registry

	tasksSubmitted prometheus.Counter
	tasksReady     prometheus.Counter
	tasksStarted   prometheus.Counter
	tasksCompleted prometheus.Counter
	clock          prometheus.Gauge
	cpuDemand      prometheus.Histogram
}

// New builds an Exporter registered against a fresh Prometheus registry.
// trace is consulted only to look up a task's CPU demand when it starts.
func New(trace *domain.Trace) *Exporter {
	registry := prometheus.NewRegistry()

	e := &Exporter{
		trace:    trace,
		registry: registry,
		tasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wfsim",
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks that reached the SUBMITTED phase.",
		}),
		tasksReady: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wfsim",
			Name:      "tasks_ready_total",
			Help:      "Total number of tasks that reached the READY phase.",
		}),
		tasksStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wfsim",
			Name:      "tasks_started_total",
			Help:      "Total number of tasks that reached the RUNNING phase.",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wfsim",
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks that reached the COMPLETED phase.",
		}),
		clock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wfsim",
			Name:      "simulation_clock",
			Help:      "Current simulated clock value, in ticks.",
		}),
		cpuDemand: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wfsim",
			Name:      "task_start_cpu_demand",
			Help:      "CPU demand of tasks at the moment they started running.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	registry.MustRegister(
		e.tasksSubmitted,
		e.tasksReady,
		e.tasksStarted,
		e.tasksCompleted,
		e.clock,
		e.cpuDemand,
	)
	return e
}

// Handler serves the registry in the Prometheus text exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, for hosts that want to merge it
// with process-level collectors.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// OnTaskSubmitted implements engine.Observer.
func (e *Exporter) OnTaskSubmitted(domain.TaskID) { e.tasksSubmitted.Inc() }

// OnTaskReady implements engine.Observer.
func (e *Exporter) OnTaskReady(domain.TaskID) { e.tasksReady.Inc() }

// OnTaskStarted implements engine.Observer.
func (e *Exporter) OnTaskStarted(task domain.TaskID, _ domain.MachineID, _ int64) {
	e.tasksStarted.Inc()
	if t, ok := e.trace.Task(task); ok {
		e.cpuDemand.Observe(float64(t.CPUDemand))
	}
}

// OnTaskCompleted implements engine.Observer.
func (e *Exporter) OnTaskCompleted(domain.TaskID, int64) { e.tasksCompleted.Inc() }

// OnTick implements engine.Observer.
func (e *Exporter) OnTick(now int64) { e.clock.Set(float64(now)) }
