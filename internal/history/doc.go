// Package history implements the statistics collectors described in
// spec.md section 6: an observer that accumulates per-task and per-workflow
// timing data during a run and writes it out as tab-separated files, plus
// the workflow-deadline collaborator EWF depends on.
//
// Rows are always written in ascending id order regardless of map iteration
// or callback arrival order, so two runs over the same trace produce
// byte-identical files.
package history
