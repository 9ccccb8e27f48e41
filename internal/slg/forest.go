// Package slg implements the tabled resolution engine of §4.7: a forest of
// per-goal Tables, each holding a queue of Strands (partially-evaluated
// ExClauses) that are driven toward answers on demand.
//
// Grounded on gokando's `wfs_api.go`/`search.go` for the Go *packaging*
// shape (a driving Engine/Forest type, a Table keyed by a hashed call
// pattern, explicit context-free single-threaded stepping) and on
// `chalk-engine/src/slg.rs` / `slg/resolvent.rs` in original_source/ for
// the control-flow algorithm itself (ExClause, Literal, resolvent,
// co-induction via ancestor-stack lookup) since gokando's own engine is
// channel/goroutine-driven (`evaluateWithHandshake`, buffered answer
// channels) where this core is deliberately synchronous per spec §5
// ("entirely single-threaded cooperative... the solver owns no threads").
package slg

import (
	"github.com/google/uuid"

	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
)

// Literal is one subgoal inside an ExClause: a positive literal must be
// proved, a negative one must be refuted (§3 "Literal"). Env travels with
// each literal rather than living on the Table, because an ImpliesGoal
// extends the environment only for the goal nested inside it — sibling
// subgoals elsewhere in the same ExClause keep seeing the outer one.
type Literal struct {
	Positive bool
	Goal     ir.Goal
	Env      *ir.Environment
}

// ExClause is a partially-evaluated clause instance (§3 "ExClause"): a sum-
// typed state-machine record rather than a native coroutine, per §5's note
// that strands should be modeled so snapshot/rollback can touch their state
// directly. This implementation drives ExClauses through explicit recursive
// calls (internal/infer.Table.TakeSnapshot/RollbackTo bracket every
// alternative) rather than maintaining a mutable strand queue a scheduler
// loop pops from — the call stack plays the role of the queue, trading
// chalk's full suspend/resume capability (and gokando's goroutine-driven
// one) for a much smaller amount of state to reason about, acceptable given
// this solver is "entirely single-threaded cooperative" already (§5) and
// never needs to pause a table mid-exploration across separate external
// calls (see Forest.Answers).
type ExClause struct {
	Ambiguous          bool
	Constraints        []ir.Constraint
	Subgoals           []Literal
	DelayedSubgoals    []ir.Goal
	FlounderedSubgoals []ir.Goal
}

func (e ExClause) clone() ExClause {
	return ExClause{
		Ambiguous:          e.Ambiguous,
		Constraints:        append([]ir.Constraint{}, e.Constraints...),
		Subgoals:           append([]Literal{}, e.Subgoals...),
		DelayedSubgoals:    append([]ir.Goal{}, e.DelayedSubgoals...),
		FlounderedSubgoals: append([]ir.Goal{}, e.FlounderedSubgoals...),
	}
}

// CompleteAnswer is one finished answer a Table has produced: Subst is
// canonicalized over the table's own existential variables (so it is a
// valid answer no matter which caller eventually consumes it), mirroring
// §3's AnswerSubst shape minus the subgoals field (which only matters
// while a strand is still in flight).
type CompleteAnswer struct {
	Subst     ir.Canonical[ir.ConstrainedSubst]
	Ambiguous bool
}

// Table is one tabled goal: its own existential instantiation, the strand
// queue still being explored, and every answer found so far. ID exists
// purely for trace/debug correlation (§6 domain-stack wiring note on
// google/uuid) — nothing in resolution logic inspects it.
type Table struct {
	ID          uuid.UUID
	Goal        ir.UCanonicalGoal
	Coinductive bool
	Answers     []CompleteAnswer
	Floundered  bool

	table    *infer.Table
	goal     ir.InEnvironment[ir.Goal]
	ownSubst ir.Substitution
	done     bool
}

// Config bundles the knobs spec §6's SolverConfig exposes that the forest
// itself consults (the rest — solver_choice, expected_answers — belong to
// internal/solver, which picks between this package and internal/recursive).
type Config struct {
	MaxSize        int
	MaxAnswers     int
	OverflowDepth  int
	ShouldContinue func() bool

	// DeterministicOrder is always honored by this implementation (every
	// candidate list walked here is a slice built from ProgramClauses'
	// return order, never a map), so this toggle only documents the choice
	// recorded for spec.md's Open Question #1 — set false to mark a goal
	// forest as allowed to reorder for a future parallel scheduler, a path
	// this repo never exercises (Non-goal "parallel search").
	DeterministicOrder bool
}

// Forest owns every Table created across one top-level Solve/SolveMultiple
// call; table.go's proveDomainGoal recurses back into Forest.ensure whenever it
// hits a DomainGoal subgoal, memoizing per u-canonical goal.
type Forest struct {
	DB     db.Database
	Config Config

	tables map[string]*Table
	depth  int
}

func NewForest(database db.Database, cfg Config) *Forest {
	return &Forest{DB: database, Config: cfg, tables: map[string]*Table{}}
}

// ancestors tracks the chain of tables currently being solved, for
// co-induction / inductive-cycle detection (§3 "Co-induction").
type ancestors struct {
	keys  []string
	coind []bool
}

func (a *ancestors) push(key string, coinductive bool) {
	a.keys = append(a.keys, key)
	a.coind = append(a.coind, coinductive)
}

func (a *ancestors) pop() {
	a.keys = a.keys[:len(a.keys)-1]
	a.coind = a.coind[:len(a.coind)-1]
}

// onStack reports whether key is already being solved, and if so, whether
// every link in the cycle back to it is coinductive.
func (a *ancestors) onStack(key string, calleeCoinductive bool) (onStack, allCoinductive bool) {
	allCoinductive = calleeCoinductive
	for i := len(a.keys) - 1; i >= 0; i-- {
		if !a.coind[i] {
			allCoinductive = false
		}
		if a.keys[i] == key {
			return true, allCoinductive
		}
	}
	return false, allCoinductive
}

func (f *Forest) checkContinue() error {
	if f.Config.ShouldContinue != nil && !f.Config.ShouldContinue() {
		return solvererr.QuantumExceededError{}
	}
	return nil
}

// Answers returns every answer ucGoal's table has found, computing new ones
// (up to Config.MaxAnswers, 0 meaning unbounded) until the table's strand
// queue is exhausted. This is the forest's one external entry point;
// internal/aggregate pulls answers through it one Solve call at a time via
// internal/solver's orchestration, rather than the forest offering its own
// lazy iterator — a documented simplification over chalk's fully
// suspend/resume-capable engine (§4.7's note that gokando's and chalk's
// engines solve the same problem with different mechanics): this forest
// computes a table's answers eagerly to exhaustion (or the cap) the first
// time anyone asks, and caches the result, rather than suspending a
// partially-explored table across separate external calls.
func (f *Forest) Answers(ucGoal ir.UCanonicalGoal) (*Table, error) {
	anc := &ancestors{}
	return f.ensure(ucGoal, anc)
}
