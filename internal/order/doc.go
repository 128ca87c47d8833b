// Package order implements the task-ordering policies: FCFS, SJF, and EWF.
//
// Every policy satisfies the same narrow contract (Policy): maintain a view
// of READY tasks, hand back a deterministic next candidate, and support
// removal once the simulation core has placed that candidate on a machine.
// The policies are closed, known-at-build-time variants rather than a deep
// hierarchy, per spec.md section 9's design note on policy polymorphism.
package order
