// Package solver is the top-level driving API named in §6: the one type a
// host actually calls, wrapping whichever backend internal/config.Choice
// selects behind the two functions the core exposes (`solve`,
// `solve_multiple`). Neither internal/slg nor internal/recursive on its own
// is "the solver" — each is one of the two interchangeable strategies §4.10
// names, and this package is the dispatcher chalk's own `Solver` enum
// (`Solver::Slg`/`Solver::Recursive` in chalk-solve/src/lib.rs) plays in the
// original implementation.
package solver

import (
	"fmt"

	"github.com/funvibe/funxy/internal/aggregate"
	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/recursive"
	"github.com/funvibe/funxy/internal/slg"
	"github.com/funvibe/funxy/internal/solvererr"
	"github.com/funvibe/funxy/internal/trace"
)

// Solver is the public query surface (§6 "Solver (produced)"): Solve
// returns at most one verdict per call, SolveMultiple streams every answer
// a tabled (SLG) search can produce.
type Solver interface {
	Solve(goal *ir.UCanonicalGoal) (*ir.Solution, error)
	SolveMultiple(goal *ir.UCanonicalGoal, cb func(result *ir.Solution, hasNext bool) bool) bool
}

// driver implements Solver by dispatching to internal/slg+internal/aggregate
// or internal/recursive per cfg.SolverChoice, exactly as SPEC_FULL §6
// requires of internal/solver.
type driver struct {
	db     db.Database
	cfg    config.SolverConfig
	tracer *trace.Tracer
}

// Option configures optional driver behavior beyond the required database
// and config.
type Option func(*driver)

// WithTracer attaches a Tracer that observes the root SLG table of each
// Solve/SolveMultiple call once the forest has driven it to completion —
// table creation, each answer it found, floundering, and the final answer
// count. Nested subgoal tables are not traced. The recursive backend produces
// no per-answer stream to trace (§4.10: one Solution per goal, not a
// tabled answer set), so it emits no events.
func WithTracer(t *trace.Tracer) Option {
	return func(d *driver) { d.tracer = t }
}

// New builds the dispatching Solver a host actually calls.
func New(database db.Database, cfg config.SolverConfig, opts ...Option) Solver {
	d := &driver{db: database, cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func goalDescription(goal *ir.UCanonicalGoal) string {
	return fmt.Sprintf("%v", goal.Canonical.Value.Goal)
}

func (d *driver) forestConfig() slg.Config {
	return slg.Config{
		MaxSize:            d.cfg.MaxSize,
		MaxAnswers:         d.cfg.MaxAnswers,
		OverflowDepth:      d.cfg.OverflowDepth,
		DeterministicOrder: d.cfg.DeterministicOrder,
	}
}

func (d *driver) recursiveSolver() *recursive.Solver {
	return recursive.NewSolver(d.db, recursive.Config{
		OverflowDepth:  d.cfg.OverflowDepth,
		CachingEnabled: d.cfg.CachingEnabled,
	})
}

// recoverBoundary applies §7's propagation policy at the one place it says
// overflow and quantum-exceeded are "recovered at the solver boundary":
// everywhere else these travel as plain Go errors.
func recoverBoundary(sol *ir.Solution, err error) (*ir.Solution, error) {
	switch err.(type) {
	case solvererr.QuantumExceededError:
		return ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown}), nil
	case solvererr.OverflowError:
		return nil, nil
	}
	switch err {
	case nil:
		return sol, nil
	case solvererr.ErrNoSolution:
		return nil, nil
	case solvererr.ErrFloundered:
		return ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown}), nil
	default:
		return nil, err
	}
}

// Solve implements §6's `solve(goal) -> Option<Solution>`.
func (d *driver) Solve(goal *ir.UCanonicalGoal) (*ir.Solution, error) {
	if d.cfg.SolverChoice == config.ChoiceRecursive {
		sol, err := d.recursiveSolver().SolveRoot(*goal)
		return recoverBoundary(sol, err)
	}

	forest := slg.NewForest(d.db, d.forestConfig())
	table, err := forest.Answers(*goal)
	if err != nil {
		return recoverBoundary(nil, err)
	}
	d.traceTable(table, goalDescription(goal))
	return aggregate.MakeSolution(*goal, table, d.cfg.ExpectedAnswersPtr()), nil
}

// traceTable emits the table's whole lifecycle to d.tracer in one shot,
// since Forest.Answers already drives a table to exhaustion before
// returning it (§4.7's documented eager/non-suspendable driving model) —
// there is no earlier point at which "table created" could be observed
// separately from its answers. A no-op when no tracer is attached.
func (d *driver) traceTable(table *slg.Table, goalDesc string) {
	if d.tracer == nil {
		return
	}
	d.tracer.TableCreated(table.ID, goalDesc)
	for i, a := range table.Answers {
		d.tracer.AnswerFound(table.ID, goalDesc, i, a.Ambiguous)
	}
	if table.Floundered {
		d.tracer.TableFloundered(table.ID, goalDesc)
	}
	d.tracer.TableCompleted(table.ID, goalDesc, len(table.Answers))
}

// SolveMultiple implements §6's `solve_multiple(goal, callback) -> bool`:
// for the recursive backend there is at most one answer to stream (it
// produces a single Solution, never a full answer set); for the SLG
// backend every answer the table found is streamed in order, and the
// callback returning false stops early exactly as §6 specifies.
func (d *driver) SolveMultiple(goal *ir.UCanonicalGoal, cb func(result *ir.Solution, hasNext bool) bool) bool {
	if d.cfg.SolverChoice == config.ChoiceRecursive {
		sol, err := d.recursiveSolver().SolveRoot(*goal)
		sol, err = recoverBoundary(sol, err)
		if err != nil || sol == nil {
			return false
		}
		return cb(sol, false)
	}

	forest := slg.NewForest(d.db, d.forestConfig())
	table, err := forest.Answers(*goal)
	if err != nil {
		if _, ok := err.(solvererr.QuantumExceededError); ok {
			return cb(ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown}), false)
		}
		return false
	}
	d.traceTable(table, goalDescription(goal))

	if len(table.Answers) == 0 {
		if table.Floundered {
			return cb(ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown}), false)
		}
		return false
	}

	for i, answer := range table.Answers {
		hasNext := i < len(table.Answers)-1
		sol := solutionFromAnswer(answer)
		if !cb(sol, hasNext) {
			return false
		}
	}
	return true
}

// solutionFromAnswer packages one streamed table answer as a Solution on
// its own terms (Unique if it isn't tagged ambiguous, Ambig(Definite) with
// its own substitution as guidance otherwise) — a per-answer projection,
// distinct from internal/aggregate.MakeSolution's whole-table merge, which
// is what Solve uses instead.
func solutionFromAnswer(a slg.CompleteAnswer) *ir.Solution {
	if !a.Ambiguous {
		return ir.UniqueSolution(a.Subst)
	}
	s := ir.Canonical[ir.Substitution]{Binders: a.Subst.Binders, Value: a.Subst.Value.Subst}
	return ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceDefinite, Subst: &s})
}
