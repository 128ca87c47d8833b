// Package envsize implements the environment-builder collaborator from
// spec.md section 6: given a target utilization ρ, compute the machine
// count that would consume that fraction of aggregate cluster CPU-time
// under ideal packing, by way of a topological longest-path pass over the
// dependency DAG to find the earliest possible completion time.
package envsize
