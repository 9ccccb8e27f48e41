// Package infer implements the inference table: a typed union-find over
// type, lifetime, and const variables that supports unification, occurs
// checking with universe-escape prevention, deferred region constraints,
// shallow/deep normalization, and snapshot/rollback (§4.4).
//
// Grounded on internal/typesystem/unify.go's Subst-threading style in the
// teacher, generalized from one flat map[string]Type substitution to three
// parallel union-find forests because this prover has lifetimes, consts,
// and universes the teacher's language does not.
package infer

import (
	"fmt"

	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/ir"
)

// Table is the per-solve inference state. A Table is created per top-level
// canonical goal and discarded once that goal is resolved (§3 "Lifecycle").
type Table struct {
	tys      unionFind[ir.Ty]
	lts      unionFind[ir.Lifetime]
	consts   unionFind[*ir.Const]
	universe ir.Universe // highest universe created so far
}

// NewTable creates an empty table in universe U0.
func NewTable() *Table {
	return &Table{universe: ir.RootUniverse}
}

// MaxUniverse returns the table's current deepest universe.
func (t *Table) MaxUniverse() ir.Universe { return t.universe }

// NewUniverse allocates and returns a new universe strictly deeper than any
// previously created, used when universally instantiating a `forall`
// binder (§4.4 "_universally").
func (t *Table) NewUniverse() ir.Universe {
	t.universe++
	return t.universe
}

// NewVariable creates a fresh inference variable of the given kind in the
// given universe and returns it as a GenericArg (the caller picks out
// .Ty/.Lifetime/.Const as needed).
func (t *Table) NewVariable(kind ir.VarKind, universe ir.Universe) ir.GenericArg {
	if universe > t.universe {
		t.universe = universe
	}
	switch kind {
	case ir.KindLifetime:
		idx := t.lts.newVar(universe)
		return ir.LifetimeArg(ir.InferenceVarLifetime{Var: ir.InferVar{Index: idx}})
	case ir.KindConst:
		idx := t.consts.newVar(universe)
		return ir.ConstArg(&ir.Const{Value: ir.InferenceVarConst{Var: ir.InferVar{Index: idx}}})
	default:
		idx := t.tys.newVar(universe)
		return ir.TyArg(ir.InferenceVarTy{Var: ir.InferVar{Index: idx}, Sort: ir.SortGeneral})
	}
}

// NewTyVariable is a convenience wrapper for the common type-variable case,
// optionally sorted as an integer/float literal variable.
func (t *Table) NewTyVariable(universe ir.Universe, sort ir.TySort) ir.Ty {
	if universe > t.universe {
		t.universe = universe
	}
	idx := t.tys.newVar(universe)
	return ir.InferenceVarTy{Var: ir.InferVar{Index: idx}, Sort: sort}
}

// --- placeholder/existential instantiation (§4.4) ---------------------

// instantiator substitutes BoundVar{Depth: outerBinder, ...} with the
// matching slot of Subst (shifted in by outerBinder to account for any
// binders already crossed), and decrements the depth of any BoundVar bound
// further out, since one binder level is being removed. This is the
// standard capture-avoiding "open a binder" substitution.
type instantiator struct {
	fold.Identity
	Subst ir.Substitution
}

func (o instantiator) FoldBoundVarTy(outerBinder int, bv ir.BoundVar) ir.Ty {
	switch {
	case bv.Depth < outerBinder:
		return ir.BoundVarTy{Var: bv}
	case bv.Depth == outerBinder:
		return fold.ShiftedInTy(o.Subst[bv.Index].Ty, outerBinder)
	default:
		return ir.BoundVarTy{Var: ir.BoundVar{Depth: bv.Depth - 1, Index: bv.Index}}
	}
}

func (o instantiator) FoldBoundVarLifetime(outerBinder int, bv ir.BoundVar) ir.Lifetime {
	switch {
	case bv.Depth < outerBinder:
		return ir.BoundVarLifetime{Var: bv}
	case bv.Depth == outerBinder:
		return fold.ShiftedInLifetime(o.Subst[bv.Index].Lifetime, outerBinder)
	default:
		return ir.BoundVarLifetime{Var: ir.BoundVar{Depth: bv.Depth - 1, Index: bv.Index}}
	}
}

func (o instantiator) FoldBoundVarConst(outerBinder int, ty ir.Ty, bv ir.BoundVar) *ir.Const {
	switch {
	case bv.Depth < outerBinder:
		return &ir.Const{Ty: ty, Value: ir.BoundVarConst{Var: bv}}
	case bv.Depth == outerBinder:
		return fold.ShiftedInConst(o.Subst[bv.Index].Const, outerBinder)
	default:
		return &ir.Const{Ty: ty, Value: ir.BoundVarConst{Var: ir.BoundVar{Depth: bv.Depth - 1, Index: bv.Index}}}
	}
}

// InstantiateBindersExistentially substitutes fresh existential inference
// variables (in the table's current universe) for binders.Kinds and folds
// them into binders.Value via foldValue, returning the opened value and the
// substitution used.
func InstantiateBindersExistentially[T any](t *Table, binders ir.Binders[T], foldValue func(fold.Folder, T, int) T) (T, ir.Substitution) {
	subst := make(ir.Substitution, len(binders.Kinds))
	for i, k := range binders.Kinds {
		subst[i] = t.NewVariable(k, t.universe)
	}
	value := foldValue(instantiator{Subst: subst}, binders.Value, 0)
	return value, subst
}

// InstantiateBindersUniversally substitutes fresh placeholders in a brand
// new universe for binders.Kinds.
func InstantiateBindersUniversally[T any](t *Table, binders ir.Binders[T], foldValue func(fold.Folder, T, int) T) (T, ir.Substitution) {
	u := t.NewUniverse()
	subst := make(ir.Substitution, len(binders.Kinds))
	for i, k := range binders.Kinds {
		switch k {
		case ir.KindLifetime:
			subst[i] = ir.LifetimeArg(ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: u, Index: i}})
		case ir.KindConst:
			subst[i] = ir.ConstArg(&ir.Const{Value: ir.PlaceholderConst{Placeholder: ir.Placeholder{Universe: u, Index: i}}})
		default:
			subst[i] = ir.TyArg(ir.PlaceholderTy{Placeholder: ir.Placeholder{Universe: u, Index: i}})
		}
	}
	value := foldValue(instantiator{Subst: subst}, binders.Value, 0)
	return value, subst
}

// SubstituteBinders folds subst into binders.Value directly, without
// allocating any fresh variables — the "apply a known substitution" sibling
// of InstantiateBindersExistentially/Universally's "allocate a fresh one",
// used by internal/slg to plug a stored answer's substitution back into the
// table's own goal shape (§4.7 "apply_answer_subst").
func SubstituteBinders[T any](binders ir.Binders[T], subst ir.Substitution, foldValue func(fold.Folder, T, int) T) T {
	return foldValue(instantiator{Subst: subst}, binders.Value, 0)
}

// FromCanonical materializes a Canonical[T] into a fresh table: every
// binder becomes a fresh inference variable in the universe the Canonical
// recorded for it, and FromCanonical returns that table alongside the
// substitution from canonical bound-variable position to fresh variable
// (§4.4 "from_canonical").
func FromCanonical[T any](c ir.Canonical[T], foldValue func(fold.Folder, T, int) T) (*Table, ir.Substitution, T) {
	t := NewTable()
	subst := make(ir.Substitution, len(c.Binders))
	for i, b := range c.Binders {
		subst[i] = t.NewVariable(b.Kind, b.Universe)
	}
	value := foldValue(instantiator{Subst: subst}, c.Value, 0)
	return t, subst, value
}

// --- shallow / deep normalization (§4.4 "normalize_shallow") -----------

// NormalizeShallowTy returns the one-step-resolved form of t if its head is
// a variable bound to another term; otherwise it returns t unchanged and ok
// is false.
func (t *Table) NormalizeShallowTy(ty ir.Ty) (ir.Ty, bool) {
	v, ok := ty.(ir.InferenceVarTy)
	if !ok {
		return ty, false
	}
	root := t.tys.root(v.Var.Index)
	if !root.bound {
		return ty, false
	}
	return root.value, true
}

func (t *Table) NormalizeShallowLifetime(l ir.Lifetime) (ir.Lifetime, bool) {
	v, ok := l.(ir.InferenceVarLifetime)
	if !ok {
		return l, false
	}
	root := t.lts.root(v.Var.Index)
	if !root.bound {
		return l, false
	}
	return root.value, true
}

func (t *Table) NormalizeShallowConst(c *ir.Const) (*ir.Const, bool) {
	v, ok := c.Value.(ir.InferenceVarConst)
	if !ok {
		return c, false
	}
	root := t.consts.root(v.Var.Index)
	if !root.bound {
		return c, false
	}
	return root.value, true
}

// deepNormalizer fully resolves every inference variable reachable from a
// term, recursing into whatever a variable is bound to (occurs-check
// guarantees no binding cycle, so this always terminates).
type deepNormalizer struct {
	fold.Identity
	t *Table
}

func (d deepNormalizer) FoldVarTy(outerBinder int, v ir.InferVar, sort ir.TySort) ir.Ty {
	root := d.t.tys.root(v.Index)
	if !root.bound {
		return ir.InferenceVarTy{Var: ir.InferVar{Index: d.t.tys.find(v.Index)}, Sort: sort}
	}
	return fold.Ty(d, root.value, 0)
}

func (d deepNormalizer) FoldVarLifetime(outerBinder int, v ir.InferVar) ir.Lifetime {
	root := d.t.lts.root(v.Index)
	if !root.bound {
		return ir.InferenceVarLifetime{Var: ir.InferVar{Index: d.t.lts.find(v.Index)}}
	}
	return fold.Lifetime(d, root.value, 0)
}

func (d deepNormalizer) FoldVarConst(outerBinder int, ty ir.Ty, v ir.InferVar) *ir.Const {
	root := d.t.consts.root(v.Index)
	if !root.bound {
		return &ir.Const{Ty: ty, Value: ir.InferenceVarConst{Var: ir.InferVar{Index: d.t.consts.find(v.Index)}}}
	}
	return fold.ConstT(d, root.value, 0)
}

// NormalizeDeepTy fully resolves ty against the table's current bindings.
func (t *Table) NormalizeDeepTy(ty ir.Ty) ir.Ty { return fold.Ty(deepNormalizer{t: t}, ty, 0) }

// NormalizeDeepLifetime fully resolves l.
func (t *Table) NormalizeDeepLifetime(l ir.Lifetime) ir.Lifetime {
	return fold.Lifetime(deepNormalizer{t: t}, l, 0)
}

// NormalizeDeepConst fully resolves c.
func (t *Table) NormalizeDeepConst(c *ir.Const) *ir.Const { return fold.ConstT(deepNormalizer{t: t}, c, 0) }

// NormalizeDeepGoal fully resolves every free variable in g.
func (t *Table) NormalizeDeepGoal(g ir.Goal) ir.Goal { return fold.GoalF(deepNormalizer{t: t}, g, 0) }

// NormalizeDeepSubst fully resolves every slot of s.
func (t *Table) NormalizeDeepSubst(s ir.Substitution) ir.Substitution {
	return fold.Subst(deepNormalizer{t: t}, s, 0)
}

// --- snapshot / rollback (§4.4, §5 "Snapshot discipline") --------------

// Snapshot is an opaque token identifying a point the table can be rolled
// back to.
type Snapshot struct {
	tys    ufSnapshot[ir.Ty]
	lts    ufSnapshot[ir.Lifetime]
	consts ufSnapshot[*ir.Const]
	uni    ir.Universe
}

func (t *Table) TakeSnapshot() Snapshot {
	return Snapshot{tys: t.tys.snapshot(), lts: t.lts.snapshot(), consts: t.consts.snapshot(), uni: t.universe}
}

// Commit is a no-op (the snapshot is simply discarded); it exists so
// callers can write `snap := t.TakeSnapshot(); ...; t.Commit(snap)` to
// mirror the rollback call symmetrically, matching the spec's explicit
// `commit(Snapshot)` operation.
func (t *Table) Commit(Snapshot) {}

// RollbackTo restores the table to exactly the state it was in when s was
// taken, including union-find roots and pending variable allocations.
func (t *Table) RollbackTo(s Snapshot) {
	t.tys.rollbackTo(s.tys)
	t.lts.rollbackTo(s.lts)
	t.consts.rollbackTo(s.consts)
	t.universe = s.uni
}

// WithSnapshot runs fn, committing on success (nil error) and rolling back
// on failure, guaranteeing release on every exit path — the scoped
// acquisition pattern §4.4 calls for.
func (t *Table) WithSnapshot(fn func() error) error {
	snap := t.TakeSnapshot()
	err := fn()
	if err != nil {
		t.RollbackTo(snap)
		return err
	}
	t.Commit(snap)
	return nil
}

// --- negation (§4.4 "invert") -------------------------------------------

// inverter swaps every free inference variable for a placeholder in a fresh
// universe and every placeholder for a fresh existential variable in the
// table's current universe, used to refute a negative goal: `not { G }`
// succeeds only if G has no solution under any assignment, which `invert`
// tests by universally quantifying exactly the variables G existentially
// quantifies and vice versa (chalk's `InferenceTable::invert`).
type inverter struct {
	fold.Identity
	t          *Table
	universe   ir.Universe
	origUniverse ir.Universe
	tyVars     map[int]ir.Ty
	ltVars     map[int]ir.Lifetime
	constVars  map[int]*ir.Const
	tyPhs      map[int]ir.Ty
	ltPhs      map[int]ir.Lifetime
	constPhs   map[int]*ir.Const
	ok         bool
}

func (inv *inverter) FoldVarTy(_ int, v ir.InferVar, sort ir.TySort) ir.Ty {
	root := inv.t.tys.find(v.Index)
	if cur := inv.t.tys.root(root); cur.bound {
		inv.ok = false
		return ir.InferenceVarTy{Var: v, Sort: sort}
	}
	if ph, ok := inv.tyVars[root]; ok {
		return ph
	}
	ph := ir.PlaceholderTy{Placeholder: ir.Placeholder{Universe: inv.universe, Index: len(inv.tyVars)}}
	inv.tyVars[root] = ph
	return ph
}

func (inv *inverter) FoldVarLifetime(_ int, v ir.InferVar) ir.Lifetime {
	root := inv.t.lts.find(v.Index)
	if cur := inv.t.lts.root(root); cur.bound {
		inv.ok = false
		return ir.InferenceVarLifetime{Var: v}
	}
	if ph, ok := inv.ltVars[root]; ok {
		return ph
	}
	ph := ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: inv.universe, Index: len(inv.ltVars)}}
	inv.ltVars[root] = ph
	return ph
}

func (inv *inverter) FoldVarConst(_ int, ty ir.Ty, v ir.InferVar) *ir.Const {
	root := inv.t.consts.find(v.Index)
	if cur := inv.t.consts.root(root); cur.bound {
		inv.ok = false
		return &ir.Const{Ty: ty, Value: ir.InferenceVarConst{Var: v}}
	}
	if ph, ok := inv.constVars[root]; ok {
		return ph
	}
	ph := &ir.Const{Ty: ty, Value: ir.PlaceholderConst{Placeholder: ir.Placeholder{Universe: inv.universe, Index: len(inv.constVars)}}}
	inv.constVars[root] = ph
	return ph
}

func (inv *inverter) FoldPlaceholderTy(_ int, p ir.Placeholder) ir.Ty {
	fresh, ok := inv.tyPhs[p.Index]
	if !ok {
		fresh = inv.t.NewTyVariable(inv.origUniverse, ir.SortGeneral)
		inv.tyPhs[p.Index] = fresh
	}
	return fresh
}

func (inv *inverter) FoldPlaceholderLifetime(_ int, p ir.Placeholder) ir.Lifetime {
	fresh, ok := inv.ltPhs[p.Index]
	if !ok {
		arg := inv.t.NewVariable(ir.KindLifetime, inv.origUniverse)
		fresh = arg.Lifetime
		inv.ltPhs[p.Index] = fresh
	}
	return fresh
}

func (inv *inverter) FoldPlaceholderConst(_ int, ty ir.Ty, p ir.Placeholder) *ir.Const {
	fresh, ok := inv.constPhs[p.Index]
	if !ok {
		arg := inv.t.NewVariable(ir.KindConst, inv.origUniverse)
		fresh = arg.Const
		fresh.Ty = ty
		inv.constPhs[p.Index] = fresh
	}
	return fresh
}

// Invert tries to swap g's free variables for placeholders and g's
// placeholders for fresh variables, returning ok=false if g isn't well
// defined for negation (it mentions a variable already bound to something,
// per §4.4 "fails if the goal isn't well defined for negation").
func (t *Table) Invert(g ir.Goal) (ir.Goal, bool) {
	origUniverse := t.universe
	inv := &inverter{
		t: t, universe: t.NewUniverse(), origUniverse: origUniverse, ok: true,
		tyVars: map[int]ir.Ty{}, ltVars: map[int]ir.Lifetime{}, constVars: map[int]*ir.Const{},
		tyPhs: map[int]ir.Ty{}, ltPhs: map[int]ir.Lifetime{}, constPhs: map[int]*ir.Const{},
	}
	inverted := fold.GoalF(inv, g, 0)
	if !inv.ok {
		return nil, false
	}
	return inverted, true
}

// --- misc ---------------------------------------------------------------

// TyUniverse returns the universe of the root of a type inference
// variable (panics if idx is out of range, a caller-contract violation).
func (t *Table) TyUniverse(idx int) ir.Universe { return t.tys.root(idx).universe }

func (t *Table) LifetimeUniverse(idx int) ir.Universe { return t.lts.root(idx).universe }

func (t *Table) ConstUniverse(idx int) ir.Universe { return t.consts.root(idx).universe }

// TyRootIndex, LifetimeRootIndex, and ConstRootIndex expose the union-find
// representative for idx, used by internal/canon to deduplicate multiple
// occurrences of the same variable into one binder slot.
func (t *Table) TyRootIndex(idx int) int { return t.tys.find(idx) }

func (t *Table) LifetimeRootIndex(idx int) int { return t.lts.find(idx) }

func (t *Table) ConstRootIndex(idx int) int { return t.consts.find(idx) }

func (t *Table) String() string {
	return fmt.Sprintf("Table{tys=%d, lts=%d, consts=%d, universe=%s}", t.tys.len(), t.lts.len(), t.consts.len(), t.universe)
}
