// Package solvererr defines the sentinel errors and typed failure values
// named in §7: NoSolution is an ordinary, expected outcome ("surfaced as
// None from solve, not an exceptional condition"); Floundered, Ambiguous,
// QuantumExceeded, and Overflow are likewise values, not panics. Panics are
// reserved for the program-bug class (a BoundVar reaching a unification
// operand, an unhandled fold case) via Invariant, grounded on the
// teacher's own bare panic(fmt.Sprintf(...)) style for violated internal
// invariants.
package solvererr

import (
	"errors"
	"fmt"

	"github.com/funvibe/funxy/internal/ir"
)

// ErrNoSolution means the goal is provably false under the current
// program — not an exceptional condition, just the negative result.
var ErrNoSolution = errors.New("no solution")

// ErrFloundered means ProgramClauses could not enumerate clauses for a goal
// (typically because it's insufficiently grounded), per §3 "Floundering".
var ErrFloundered = errors.New("floundered")

// AmbiguousError wraps a Solution whose Guidance kind is anything but
// Unique: the goal may or may not hold, and Solution carries whatever
// partial guidance the aggregator could produce.
type AmbiguousError struct {
	Solution *ir.Solution
}

func (e *AmbiguousError) Error() string { return "ambiguous solution" }

// QuantumExceededError is returned by the SLG forest's should_continue
// cancellation check (§5 "Cancellation / timeouts"): any in-flight
// aggregation at that point is reported as Ambig(Unknown) instead.
type QuantumExceededError struct{}

func (QuantumExceededError) Error() string { return "quantum exceeded" }

// OverflowError is returned when the recursive solver exceeds its
// overflow_depth fuel counter at some level of the search (§4.10, §5).
type OverflowError struct{ Depth int }

func (e OverflowError) Error() string {
	return fmt.Sprintf("recursion overflow at depth %d", e.Depth)
}

// Invariant panics with a formatted message, for the program-bug class of
// failure that should never occur given a well-formed caller (malformed
// terms reaching a layer that assumes they've already been validated).
func Invariant(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
