// Package engine implements the simulation core: the event loop, the
// submission/ready/dispatch/completion transitions, and the observer
// dispatch that notifies registered collectors after every state change.
//
// This package is the "hard part" described in spec.md section 1: it wires
// together the event queue (package events), the task/machine bookkeeping
// (package state), and the two pluggable scheduling decisions (packages
// order and placement) into one deterministic, single-threaded loop.
package engine
