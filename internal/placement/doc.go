// Package placement implements machine-selection policies: given a task's
// CPU demand, choose a machine with enough free capacity to run it.
//
// The only variant required by spec.md is best-fit; the package is
// structured as a narrow capability (Policy) rather than a hierarchy so a
// future variant (e.g. worst-fit, first-fit) slots in without touching the
// simulation core.
package placement
