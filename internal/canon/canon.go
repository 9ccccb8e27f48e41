// Package canon implements canonicalization (§4.3): closing a value over
// its free inference variables in first-encounter order, and universe
// compaction (u_canonicalize) on top of that.
//
// No direct teacher analog — the teacher's unifier never tables a goal, so
// it never needs a stable key for one. Grounded on gokando's pattern of
// turning a logic term into a canonical key before a search-graph lookup
// (search.go) for the *purpose* this package serves, and on chalk's
// canonicalizer semantics (original_source/chalk-ir) for the algorithm
// itself.
package canon

import (
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
)

// Visit and Transform are the two traversal entry points a value's shape
// must supply to be canonicalized — exactly fold's VisitX/XF function
// pairs (e.g. fold.VisitGoal/fold.GoalF, fold.VisitTy/fold.Ty).
type Visit[T any] func(fold.Visitor, T, int) bool
type Transform[T any] func(fold.Folder, T, int) T

type seenKey struct {
	kind ir.VarKind
	root int
}

// collector is a Visitor that assigns each distinct free variable (by
// union-find root, so aliases of the same variable collapse to one slot) a
// binder slot in first-encounter order.
type collector struct {
	fold.NoopVisitor
	table   *infer.Table
	seen    map[seenKey]int
	binders []ir.VarKindWithUniverse
}

func newCollector(table *infer.Table) *collector {
	return &collector{table: table, seen: map[seenKey]int{}}
}

func (c *collector) assign(kind ir.VarKind, root int, universe ir.Universe) {
	key := seenKey{kind, root}
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = len(c.binders)
	c.binders = append(c.binders, ir.VarKindWithUniverse{Kind: kind, Universe: universe})
}

func (c *collector) VisitVarTy(v ir.InferVar, _ ir.TySort) bool {
	root := c.table.TyRootIndex(v.Index)
	c.assign(ir.KindTy, root, c.table.TyUniverse(root))
	return false
}

func (c *collector) VisitVarLifetime(v ir.InferVar) bool {
	root := c.table.LifetimeRootIndex(v.Index)
	c.assign(ir.KindLifetime, root, c.table.LifetimeUniverse(root))
	return false
}

func (c *collector) VisitVarConst(v ir.InferVar) bool {
	root := c.table.ConstRootIndex(v.Index)
	c.assign(ir.KindConst, root, c.table.ConstUniverse(root))
	return false
}

// closer is the dual Folder: every free variable found is replaced by a
// BoundVar at the new outermost binder (Depth: outerBinder, since that many
// binder levels separate "here" from the root the Canonical wraps),
// Index looked up from the same seen map the collector built. Placeholders
// and already-bound variables pass through unchanged via fold.Identity.
type closer struct {
	fold.Identity
	table *infer.Table
	seen  map[seenKey]int
}

func (cl closer) FoldVarTy(outerBinder int, v ir.InferVar, _ ir.TySort) ir.Ty {
	root := cl.table.TyRootIndex(v.Index)
	idx, ok := cl.seen[seenKey{ir.KindTy, root}]
	if !ok {
		solvererr.Invariant("canon: ty variable seen during close that the collector pass missed")
	}
	return ir.BoundVarTy{Var: ir.BoundVar{Depth: outerBinder, Index: idx}}
}

func (cl closer) FoldVarLifetime(outerBinder int, v ir.InferVar) ir.Lifetime {
	root := cl.table.LifetimeRootIndex(v.Index)
	idx, ok := cl.seen[seenKey{ir.KindLifetime, root}]
	if !ok {
		solvererr.Invariant("canon: lifetime variable seen during close that the collector pass missed")
	}
	return ir.BoundVarLifetime{Var: ir.BoundVar{Depth: outerBinder, Index: idx}}
}

func (cl closer) FoldVarConst(outerBinder int, ty ir.Ty, v ir.InferVar) *ir.Const {
	root := cl.table.ConstRootIndex(v.Index)
	idx, ok := cl.seen[seenKey{ir.KindConst, root}]
	if !ok {
		solvererr.Invariant("canon: const variable seen during close that the collector pass missed")
	}
	return &ir.Const{Ty: ty, Value: ir.BoundVarConst{Var: ir.BoundVar{Depth: outerBinder, Index: idx}}}
}

// Canonicalize closes value over its free inference variables, assuming
// value has already been deep-normalized against table (so every variable
// encountered is a genuine free root, not something bound elsewhere).
func Canonicalize[T any](table *infer.Table, value T, visit Visit[T], transform Transform[T]) ir.Canonical[T] {
	col := newCollector(table)
	visit(col, value, 0)
	cl := closer{table: table, seen: col.seen}
	return ir.Canonical[T]{Binders: col.binders, Value: transform(cl, value, 0)}
}

// CanonicalizeGoal is the common case: canonicalizing a goal for use as an
// SLG table key.
func CanonicalizeGoal(table *infer.Table, g ir.Goal) ir.Canonical[ir.Goal] {
	normalized := table.NormalizeDeepGoal(g)
	return Canonicalize(table, normalized, fold.VisitGoal, fold.GoalF)
}

// CanonicalizeSubst canonicalizes an answer substitution.
func CanonicalizeSubst(table *infer.Table, s ir.Substitution) ir.Canonical[ir.Substitution] {
	normalized := table.NormalizeDeepSubst(s)
	return Canonicalize(table, normalized, fold.VisitSubst, fold.Subst)
}

// UCanonicalize compacts a Canonical's universes to U0..Un in first
// appearance order (scanning Binders, which are already in first-encounter
// order from Canonicalize), returning the UniverseMap that projects
// answers from the compacted world back to the original.
func UCanonicalize[T any](c ir.Canonical[T]) ir.UCanonical[T] {
	assigned := map[ir.Universe]ir.Universe{}
	compacted := make([]ir.Universe, 0, len(c.Binders))
	newBinders := make([]ir.VarKindWithUniverse, len(c.Binders))
	for i, b := range c.Binders {
		nu, ok := assigned[b.Universe]
		if !ok {
			nu = ir.Universe(len(compacted))
			assigned[b.Universe] = nu
			compacted = append(compacted, b.Universe)
		}
		newBinders[i] = ir.VarKindWithUniverse{Kind: b.Kind, Universe: nu}
	}
	return ir.UCanonical[T]{
		Canonical:   ir.Canonical[T]{Binders: newBinders, Value: c.Value},
		UniverseMap: ir.UniverseMap{Compacted: compacted},
	}
}
