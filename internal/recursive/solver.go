// Package recursive implements the alternative top-level solving strategy
// named in §4.10 and exposed as `solver_choice: "recursive"` in §6's
// SolverConfig: a plain recursive descent with its own cycle-detection
// machinery (a call stack plus a search graph of nodes keyed by
// depth-first-number), rather than internal/slg's tabled forest. It trades
// internal/slg's full answer enumeration (every answer, lazily, in order)
// for chalk's original recursive-solver tradeoff: cheaper for goals with
// few or no real choice points, at the cost of only ever producing one
// Solution per goal (under this choice, internal/solver's SolveMultiple
// streams that single Solution).
//
// Grounded on chalk's `src/solve/recursive/{mod,fulfill,search_graph}.rs`
// in original_source — the fixed-point "solve_new_subgoal" loop, the
// DFN/Minimums cycle bookkeeping, and the SCC-promote-to-cache heuristic
// are carried over with the same shape; chalk's separate "fallback clause"
// tier (rustc-specific, no analog in ir.ProgramClause here) is dropped, and
// the Refute path reenters Solve at the whole-Solver level exactly as
// chalk's `Fulfill::refute` reenters `solve_root_goal`.
package recursive

import (
	"fmt"
	"math"

	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
)

func visitInEnvGoal(v fold.Visitor, ie ir.InEnvironment[ir.Goal], outer int) bool {
	return fold.VisitGoal(v, ie.Goal, outer)
}

func foldInEnvGoal(f fold.Folder, ie ir.InEnvironment[ir.Goal], outer int) ir.InEnvironment[ir.Goal] {
	return ir.InEnvironment[ir.Goal]{Environment: ie.Environment, Goal: fold.GoalF(f, ie.Goal, outer)}
}

func ucanonicalGoalKey(uc ir.UCanonicalGoal) string {
	return fmt.Sprintf("%#v", uc)
}

const dfnMax = math.MaxInt32

// minimums tracks, for the node currently being solved, the smallest DFN
// reached by any cycle it participated in — DFN_MAX means no cycle was hit
// at all (§4.10 "Minimums").
type minimums struct {
	positive int
}

func newMinimums() *minimums { return &minimums{positive: dfnMax} }

func (m *minimums) updateFrom(other minimums) {
	if other.positive < m.positive {
		m.positive = other.positive
	}
}

type stackEntry struct {
	coinductive bool
	cycle       bool
}

type callStack struct {
	entries       []stackEntry
	overflowDepth int
}

func (s *callStack) push(coinductive bool) (int, error) {
	if s.overflowDepth > 0 && len(s.entries) >= s.overflowDepth {
		return 0, solvererr.OverflowError{Depth: len(s.entries)}
	}
	s.entries = append(s.entries, stackEntry{coinductive: coinductive})
	return len(s.entries) - 1, nil
}

func (s *callStack) pop(depth int) { s.entries = s.entries[:depth] }

func (s *callStack) flagCycle(depth int) { s.entries[depth].cycle = true }

func (s *callStack) readAndResetCycle(depth int) bool {
	v := s.entries[depth].cycle
	s.entries[depth].cycle = false
	return v
}

// coinductiveCycleFrom reports whether every frame from depth to the top of
// the stack is coinductive — a cycle entirely through coinductive goals
// (trait auto-impls, mainly) is treated as success rather than an error.
func (s *callStack) coinductiveCycleFrom(depth int) bool {
	for i := depth; i < len(s.entries); i++ {
		if !s.entries[i].coinductive {
			return false
		}
	}
	return true
}

type outcome struct{ solution *ir.Solution; err error }

type graphNode struct {
	goal       ir.UCanonicalGoal
	solution   *ir.Solution
	err        error
	onStack    bool
	stackDepth int
	links      minimums
}

// searchGraph is the recursive solver's answer to internal/slg's table
// map: one entry per leaf goal reached during the current top-level solve,
// indexed by insertion order (its DFN) so SCC roots can be identified and
// either promoted whole to the long-lived cache or rolled back together.
type searchGraph struct {
	indices map[string]int
	nodes   []graphNode
}

func newSearchGraph() *searchGraph { return &searchGraph{indices: map[string]int{}} }

func (g *searchGraph) lookup(key string) (int, bool) {
	idx, ok := g.indices[key]
	return idx, ok
}

func (g *searchGraph) insert(key string, goal ir.UCanonicalGoal, depth int) int {
	dfn := len(g.nodes)
	g.nodes = append(g.nodes, graphNode{
		goal:       goal,
		err:        solvererr.ErrNoSolution,
		onStack:    true,
		stackDepth: depth,
		links:      minimums{positive: dfn},
	})
	g.indices[key] = dfn
	return dfn
}

func (g *searchGraph) rollbackTo(dfn int) {
	for key, idx := range g.indices {
		if idx >= dfn {
			delete(g.indices, key)
		}
	}
	g.nodes = g.nodes[:dfn]
}

func (g *searchGraph) moveToCache(dfn int, cache map[string]outcome) {
	for key, idx := range g.indices {
		if idx >= dfn {
			delete(g.indices, key)
			cache[key] = outcome{solution: g.nodes[idx].solution, err: g.nodes[idx].err}
		}
	}
	g.nodes = g.nodes[:dfn]
}

// Config bundles the knobs this solver consults, the recursive-solver slice
// of §6's SolverConfig (overflow_depth, caching).
type Config struct {
	OverflowDepth  int
	CachingEnabled bool
}

// Solver is a self-contained recursive-descent prover: no tabling, one
// Solution per goal, reusable across many top-level Solve calls (the
// cache persists; the stack and search graph are always empty between
// calls, per the `assert!(self.stack.is_empty())` chalk asserts on entry).
type Solver struct {
	DB    db.Database
	Cfg   Config
	stack callStack
	graph *searchGraph
	cache map[string]outcome
}

func NewSolver(database db.Database, cfg Config) *Solver {
	return &Solver{
		DB:    database,
		Cfg:   cfg,
		stack: callStack{overflowDepth: cfg.OverflowDepth},
		graph: newSearchGraph(),
		cache: map[string]outcome{},
	}
}

// SolveRoot solves an arbitrary (possibly compound) goal, flattening it
// into leaf obligations via a fresh fulfill context exactly as chalk's
// `solve_root_goal`/`solve_canonical_goal` do.
func (s *Solver) SolveRoot(goal ir.UCanonicalGoal) (*ir.Solution, error) {
	m := newMinimums()
	table, subst, opened := infer.FromCanonical(goal.Canonical, foldInEnvGoal)
	f := &fulfill{solver: s, table: table}
	f.pushGoal(opened.Environment, opened.Goal)
	return f.solve(subst, m)
}

// solveLeafGoal is the tabled entry point every Prove obligation funnels
// through: cache hit, then on-stack cycle check (coinductive cycles
// succeed trivially; inductive ones flag the enclosing node and replay its
// prior tentative solution), then — on a genuine miss — a fresh table
// entry driven to a fixpoint by solveNewSubgoal.
func (s *Solver) solveLeafGoal(goal ir.UCanonicalGoal, m *minimums) (*ir.Solution, error) {
	key := ucanonicalGoalKey(goal)

	if cached, ok := s.cache[key]; ok {
		return cached.solution, cached.err
	}

	if dfn, ok := s.graph.lookup(key); ok {
		node := &s.graph.nodes[dfn]
		if node.onStack {
			if s.stack.coinductiveCycleFrom(node.stackDepth) {
				kinds := make([]ir.VarKind, len(goal.Canonical.Binders))
				for i, b := range goal.Canonical.Binders {
					kinds[i] = b.Kind
				}
				value := ir.ConstrainedSubst{Subst: ir.Identity(kinds)}
				return ir.UniqueSolution(ir.Canonical[ir.ConstrainedSubst]{Binders: goal.Canonical.Binders, Value: value}), nil
			}
			s.stack.flagCycle(node.stackDepth)
		}
		m.updateFrom(node.links)
		return node.solution, node.err
	}

	coind := isCoinductiveLeaf(goal.Canonical.Value.Goal, s.DB)
	depth, err := s.stack.push(coind)
	if err != nil {
		return nil, err
	}
	dfn := s.graph.insert(key, goal, depth)

	subMinimums := s.solveNewSubgoal(goal, depth, dfn)
	s.graph.nodes[dfn].links = subMinimums
	s.graph.nodes[dfn].onStack = false
	s.stack.pop(depth)
	m.updateFrom(subMinimums)

	result := s.graph.nodes[dfn]

	if subMinimums.positive >= dfn {
		if s.Cfg.CachingEnabled {
			s.graph.moveToCache(dfn, s.cache)
		} else {
			s.graph.rollbackTo(dfn)
		}
	}

	return result.solution, result.err
}

func isCoinductiveLeaf(g ir.Goal, database db.Database) bool {
	dgw, ok := g.(ir.DomainGoalWrapper)
	if !ok {
		return false
	}
	ig, ok := dgw.DomainGoal.(ir.ImplementedGoal)
	if !ok || ig.TraitRef == nil {
		return false
	}
	td := database.TraitDatum(ig.TraitRef.TraitID)
	return td != nil && td.Coinductive
}

// solveNewSubgoal runs the fixpoint: solve the goal's own body, and if any
// nested Prove obligation looped back to this same node (flagging a
// cycle), re-solve from scratch using the freshly-learned tentative answer
// until the answer stops changing (or escalates to ambiguous, which is
// always a safe stopping point per chalk's note on `multiple_ambiguous_cycles`).
func (s *Solver) solveNewSubgoal(goal ir.UCanonicalGoal, depth, dfn int) minimums {
	m := newMinimums()
	for {
		current := s.solveLeafBody(goal, m)

		if !s.stack.readAndResetCycle(depth) {
			s.graph.nodes[dfn].solution = current.solution
			s.graph.nodes[dfn].err = current.err
			return *m
		}

		prior := s.graph.nodes[dfn]
		if solutionsEqual(prior.solution, prior.err, current.solution, current.err) {
			return *m
		}

		ambiguous := current.solution != nil && current.solution.IsAmbiguous()
		s.graph.nodes[dfn].solution = current.solution
		s.graph.nodes[dfn].err = current.err

		if ambiguous {
			return *m
		}

		s.graph.rollbackTo(dfn + 1)
	}
}

func solutionsEqual(a *ir.Solution, aErr error, b *ir.Solution, bErr error) bool {
	if (aErr == nil) != (bErr == nil) {
		return false
	}
	if aErr != nil {
		return aErr.Error() == bErr.Error()
	}
	return fmt.Sprintf("%#v", a) == fmt.Sprintf("%#v", b)
}

// solveLeafBody dispatches a single attempt at goal's own shape: EqGoal and
// SubtypeGoal solve via direct unification, DomainGoalWrapper solves via
// every matching clause (environment clauses first, then the database's),
// combined together if more than one applies.
func (s *Solver) solveLeafBody(goal ir.UCanonicalGoal, m *minimums) outcome {
	table, subst, opened := infer.FromCanonical(goal.Canonical, foldInEnvGoal)
	env, g := opened.Environment, opened.Goal

	switch leaf := g.(type) {
	case ir.EqGoal:
		return s.solveViaUnification(table, subst, env, leaf.A, leaf.B, m)
	case ir.SubtypeGoal:
		return s.solveViaSubtype(table, subst, env, leaf.A, leaf.B, m)
	case ir.DomainGoalWrapper:
		return s.solveFromClauses(goal, env, leaf.DomainGoal, m)
	default:
		solvererr.Invariant("recursive: unexpected leaf goal shape %T", g)
		return outcome{}
	}
}

func (s *Solver) solveViaUnification(table *infer.Table, subst ir.Substitution, env *ir.Environment, a, b ir.GenericArg, m *minimums) outcome {
	f := &fulfill{solver: s, table: table}
	if err := f.unifyArg(env, a, b); err != nil {
		return outcome{err: err}
	}
	sol, err := f.solve(subst, m)
	return outcome{solution: sol, err: err}
}

func (s *Solver) solveViaSubtype(table *infer.Table, subst ir.Substitution, env *ir.Environment, a, b ir.Ty, m *minimums) outcome {
	f := &fulfill{solver: s, table: table}
	if err := f.unifySubtype(env, a, b); err != nil {
		return outcome{err: err}
	}
	sol, err := f.solve(subst, m)
	return outcome{solution: sol, err: err}
}

func (s *Solver) solveFromClauses(goal ir.UCanonicalGoal, env *ir.Environment, dg ir.DomainGoal, m *minimums) outcome {
	var cur *ir.Solution

	tryClause := func(clause *ir.ProgramClause) {
		table, subst, opened := infer.FromCanonical(goal.Canonical, foldInEnvGoal)
		f := &fulfill{solver: s, table: table}
		impl, _ := infer.InstantiateBindersExistentially(table, clause.Binders, fold.Implication)

		dgOpened := opened.Goal.(ir.DomainGoalWrapper).DomainGoal
		if err := f.unifyDomainGoal(env, dgOpened, impl.Consequence); err != nil {
			return
		}
		for _, c := range impl.Conditions {
			f.pushGoal(env, c)
		}
		for _, c := range impl.Constraints {
			f.constraints = append(f.constraints, c)
		}

		sol, err := f.solve(subst, m)
		if err != nil {
			return
		}
		if cur == nil {
			cur = sol
			return
		}
		cur = combine(cur, sol)
	}

	for _, clause := range env.Clauses {
		tryClause(clause)
	}
	clauses, err := s.DB.ProgramClauses(env, dg)
	if err == nil {
		for _, clause := range clauses {
			tryClause(clause)
		}
	}

	if cur == nil {
		return outcome{err: solvererr.ErrNoSolution}
	}
	return outcome{solution: cur}
}

// combine merges two independently-found solutions for the same goal
// (from two different clauses): identical unique answers survive as-is,
// anything else collapses to an ambiguous verdict. This is coarser than
// chalk's full favor/fallback/anti-unification lattice (see
// internal/aggregate, which owns full-fidelity multi-answer merging for
// the tabled solver) — an acceptable simplification since the recursive
// solver's whole purpose is to be the cheap, single-answer alternative.
func combine(a, b *ir.Solution) *ir.Solution {
	if a.IsUnique() && b.IsUnique() && fmt.Sprintf("%#v", a.Unique) == fmt.Sprintf("%#v", b.Unique) {
		return a
	}
	return ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown})
}
