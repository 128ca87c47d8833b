// Package simerr defines the simulator's fatal invariant-violation errors.
//
// None of these categories has a soft-error path: every one of them implies
// a bug in the trace, the environment, or a policy, and the core signals
// that to the host by returning an error that wraps one of the sentinels
// below (via github.com/pkg/errors, so a stack trace travels with it).
package simerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel kinds. Use errors.Is against these, never string-compare Error().
var (
	// ErrCapacityViolation: a task was started on a machine with insufficient free CPUs.
	ErrCapacityViolation = errors.New("capacity violation")

	// ErrLifecycleViolation: a task transitioned from an illegal prior phase.
	ErrLifecycleViolation = errors.New("lifecycle violation")

	// ErrTemporalRegression: an event timestamp was less than the current clock.
	ErrTemporalRegression = errors.New("temporal regression")

	// ErrUnknownEntity: a task or machine id was not present in the trace/environment.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrDependencyInversion: the post-run sanity check found a dependency that
	// completed after its dependent started.
	ErrDependencyInversion = errors.New("dependency inversion")
)

// Violation names the offending entity and the observed vs. expected values
// for a fatal invariant failure.
type Violation struct {
	Kind     error
	Entity   string
	Observed any
	Expected any
	Detail   string
}

func (v *Violation) Error() string {
	msg := fmt.Sprintf("%s: %s", v.Kind, v.Entity)
	if v.Detail != "" {
		msg += ": " + v.Detail
	}
	if v.Observed != nil || v.Expected != nil {
		msg += fmt.Sprintf(" (observed=%v expected=%v)", v.Observed, v.Expected)
	}
	return msg
}

func (v *Violation) Unwrap() error { return v.Kind }

// Capacityf reports a capacity violation for the named machine.
func Capacityf(entity string, observedFree, demand int64) error {
	return errors.WithStack(&Violation{
		Kind: ErrCapacityViolation, Entity: entity,
		Observed: observedFree, Expected: demand,
		Detail: "free CPUs below task demand",
	})
}

// Lifecyclef reports an illegal state transition for the named task.
func Lifecyclef(entity string, from, to any) error {
	return errors.WithStack(&Violation{
		Kind: ErrLifecycleViolation, Entity: entity,
		Observed: from, Expected: to,
		Detail: "illegal phase transition",
	})
}

// Temporalf reports clock regression.
func Temporalf(entity string, observedClock, eventTime int64) error {
	return errors.WithStack(&Violation{
		Kind: ErrTemporalRegression, Entity: entity,
		Observed: eventTime, Expected: observedClock,
		Detail: "event timestamp precedes current clock",
	})
}

// Unknownf reports a reference to an id absent from the trace/environment.
func Unknownf(entity string) error {
	return errors.WithStack(&Violation{Kind: ErrUnknownEntity, Entity: entity})
}

// DependencyInversionf reports a dependency whose completion followed its
// dependent's start.
func DependencyInversionf(entity string, depEnd, start int64) error {
	return errors.WithStack(&Violation{
		Kind: ErrDependencyInversion, Entity: entity,
		Observed: depEnd, Expected: start,
		Detail: "dependency completed after dependent started",
	})
}
