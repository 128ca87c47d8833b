// Package state holds the mutable runtime bookkeeping for one simulation
// run: each task's lifecycle phase and dependency count (TaskMonitor), and
// each machine's free-CPU counter and running-task set (MachineTable).
//
// Neither type mutates the immutable domain.Trace/domain.Environment they
// are built from; they are the "TaskState"/"MachineState" of the spec,
// kept separate from domain entities so the same trace can be resimulated
// without reloading it.
package state
