// Package events implements the simulator's event queue: a min-heap of
// time-stamped events ordered by (timestamp, variant priority, sequence
// number) so that replay of the same trace is fully deterministic.
//
// The variant priority is load-bearing, not cosmetic: within one tick it
// ensures completions free machine capacity before new starts are chosen,
// and that a scheduling pass runs only after all state for that tick has
// settled. See Kind's doc comment for the exact order.
package events
