// Package reader is the trace-ingestion collaborator described in spec.md
// section 6. It reads one or more columnar task files and produces a
// *domain.Trace; the simulation core treats the on-disk format as opaque.
//
// Multiple input paths are read concurrently with golang.org/x/sync/errgroup,
// and an optional sampling fraction retains a deterministic subset of
// workflows (sha256-bucketed so the choice doesn't depend on map iteration
// or file read order).
package reader
