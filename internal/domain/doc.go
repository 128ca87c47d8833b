// Package domain defines the immutable entities simulated by the engine:
// Task, Workflow, Machine, Cluster, Trace, and Environment.
//
// Design constraints (carried over from the build-cache domain model this
// package replaces):
//
//  1. Entities are immutable after load; only identity-bearing fields are
//     compared for equality.
//  2. No implicit fields that would make two loads of the same trace differ.
//  3. Parent/child references that would otherwise be cyclic (Cluster<->Machine,
//     Workflow<->Task) are represented as integer ids resolved through the
//     owning Trace/Environment, never as pointers back to the parent.
package domain
