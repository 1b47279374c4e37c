// Package engine implements the CORE of a tabled SLG search: the forest
// of goal tables, per-table strand queues, the active-goal stack, and
// the clock-driven detection of positive and coinductive cycles. It
// deliberately does not prescribe a term language or unifier — those are
// supplied by a TermServices/ClauseSource pair (interfaces.go), with
// stdservices providing the module's own concrete implementation over
// the term package.
package engine

import "math"

// TimeStamp is the forest's monotonically increasing logical clock. It
// also doubles as a per-strand "answer time" used to decide whether a
// previously-floundered subgoal has become eligible for reconsideration.
type TimeStamp int64

// MaxTimeStamp stands in for spec.md's TimeStamp::MAX: a minimums field
// holding this value records "no dependency of this kind observed yet".
const MaxTimeStamp TimeStamp = math.MaxInt64

// Minimums records the smallest clocks a stack frame transitively
// depends on, split by polarity. A frame whose accumulated minimums
// never drop below its own clock before its strand queue empties is
// purely self-dependent: a true cycle.
type Minimums struct {
	Positive TimeStamp
	Negative TimeStamp
}

// MaxMinimums is the identity element for TakeMinimums: a frame that has
// not yet observed any cyclic dependency.
func MaxMinimums() Minimums {
	return Minimums{Positive: MaxTimeStamp, Negative: MaxTimeStamp}
}

// TakeMinimums folds a newly observed dependency into an accumulator,
// taking the pointwise minimum on each axis — chalk's
// Minimums::take_minimums.
func TakeMinimums(acc, observed Minimums) Minimums {
	return Minimums{
		Positive: minTS(acc.Positive, observed.Positive),
		Negative: minTS(acc.Negative, observed.Negative),
	}
}

func minTS(a, b TimeStamp) TimeStamp {
	if a < b {
		return a
	}
	return b
}

// Polarity marks whether a Literal is a positive or negative subgoal.
type Polarity bool

const (
	Positive Polarity = true
	Negative Polarity = false
)

func (p Polarity) String() string {
	if p == Positive {
		return "positive"
	}
	return "negative"
}

// Literal is one subgoal inside a strand: a goal together with the
// polarity it was selected under.
type Literal struct {
	Polarity Polarity
	Goal     Goal
}

// UniverseMap re-maps a canonical value's universe numbering (0..N-1,
// assigned by first occurrence during u-canonicalization) back to the
// caller's own universe numbers. Losing this map silently produces
// soundness bugs (spec.md's Design Notes), so it is threaded through
// every subgoal selection and answer application.
type UniverseMap []int
