// Package cliapp wires the simulation core to its external collaborators
// behind a cobra/viper command surface, per spec.md section 6: input
// path(s), output directory, target utilization or explicit machine count,
// cores per machine, memory per machine (reserved, unenforced), placement
// and ordering policy names, and an optional sampling fraction.
package cliapp
