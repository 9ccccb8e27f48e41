// Package unify implements structural unification of two terms under a
// variance, producing deferred subgoals and region constraints rather than
// resolving everything eagerly (§4.5).
//
// Directly grounded on internal/typesystem/unify.go's unifyInternal: same
// shape (shallow-unwrap-then-recurse, structural dispatch per constructor,
// directionality fixups for which side is the variable), generalized from a
// single invariant `allowExtra bool` knob to the full Variance lattice, and
// from a plain error return to a (UnificationResult, error) pair per §7.
package unify

import (
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
)

// VarianceSource supplies the declared variance lists the zipper needs for
// Adt/FnDef substitutions; internal/db.Database satisfies it directly.
type VarianceSource interface {
	AdtVariance(id ir.AdtID) []ir.Variance
	FnDefVariance(id ir.FnDefID) []ir.Variance
}

// UnificationResult collects what a successful unification still owes:
// deferred subgoals (from Alias↔Anything) and deferred region obligations
// (from reference/outlives sites and occurs-check lifetime promotion).
type UnificationResult struct {
	Goals       []ir.Goal
	Constraints []ir.Constraint
}

func (r *UnificationResult) absorb(other UnificationResult) {
	r.Goals = append(r.Goals, other.Goals...)
	r.Constraints = append(r.Constraints, other.Constraints...)
}

// Unifier runs one or more Unify calls against a shared inference table,
// accumulating goals/constraints across all of them — mirroring the
// teacher's `s1 = s1.Compose(s2)` threading in unifyInternal, except what
// threads here is deferred obligations rather than a substitution (the
// table itself is the substitution's only witness, per §4.4).
type Unifier struct {
	Table   *infer.Table
	Variance VarianceSource
	result  UnificationResult
}

func New(table *infer.Table, variance VarianceSource) *Unifier {
	return &Unifier{Table: table, Variance: variance}
}

// Result returns everything accumulated by prior Unify calls.
func (u *Unifier) Result() UnificationResult { return u.result }

// Ty unifies a and b under variance, threading deferred obligations into
// u.result and returning solvererr.ErrNoSolution itself (not wrapped) on
// shape mismatch.
func (u *Unifier) Ty(variance ir.Variance, a, b ir.Ty) error {
	a = u.shallowTy(a)
	b = u.shallowTy(b)

	if _, ok := a.(ir.BoundVarTy); ok {
		solvererr.Invariant("unify: free BoundVarTy used as a unification operand")
	}
	if _, ok := b.(ir.BoundVarTy); ok {
		solvererr.Invariant("unify: free BoundVarTy used as a unification operand")
	}

	if _, ok := a.(ir.ErrorTy); ok {
		return nil
	}
	if _, ok := b.(ir.ErrorTy); ok {
		return nil
	}

	av, aIsVar := a.(ir.InferenceVarTy)
	bv, bIsVar := b.(ir.InferenceVarTy)
	switch {
	case aIsVar && bIsVar:
		u.Table.UnionTyVars(av.Var.Index, bv.Var.Index)
		return nil
	case aIsVar:
		return u.bindTy(av, b)
	case bIsVar:
		return u.bindTy(bv, a)
	}

	if aAlias, ok := a.(ir.AliasTy); ok {
		u.deferAliasEq(aAlias, b)
		return nil
	}
	if bAlias, ok := b.(ir.AliasTy); ok {
		u.deferAliasEq(bAlias, a)
		return nil
	}

	aFn, aIsFn := a.(ir.FunctionTy)
	bFn, bIsFn := b.(ir.FunctionTy)
	if aIsFn && bIsFn {
		return u.unifyFunctions(variance, aFn, bFn)
	}
	if aIsFn != bIsFn {
		return solvererr.ErrNoSolution
	}

	if err := fold.ZipTys(u, variance, a, b); err != nil {
		if _, ok := err.(fold.ErrShapeMismatch); ok {
			return solvererr.ErrNoSolution
		}
		return err
	}
	return nil
}

// Lifetime is the Lifetime analog of Ty.
func (u *Unifier) Lifetime(variance ir.Variance, a, b ir.Lifetime) error {
	a = u.shallowLifetime(a)
	b = u.shallowLifetime(b)

	if _, ok := a.(ir.BoundVarLifetime); ok {
		solvererr.Invariant("unify: free BoundVarLifetime used as a unification operand")
	}
	if _, ok := b.(ir.BoundVarLifetime); ok {
		solvererr.Invariant("unify: free BoundVarLifetime used as a unification operand")
	}

	av, aIsVar := a.(ir.InferenceVarLifetime)
	bv, bIsVar := b.(ir.InferenceVarLifetime)
	switch {
	case aIsVar && bIsVar:
		u.Table.UnionLifetimeVars(av.Var.Index, bv.Var.Index)
		return nil
	case aIsVar:
		return u.bindLifetime(av, b)
	case bIsVar:
		return u.bindLifetime(bv, a)
	}

	if err := u.ZipLifetimes(variance, a, b); err != nil {
		return err
	}
	return nil
}

// Const is the Const analog of Ty.
func (u *Unifier) Const(variance ir.Variance, a, b *ir.Const) error {
	a = u.shallowConst(a)
	b = u.shallowConst(b)

	if _, ok := a.Value.(ir.BoundVarConst); ok {
		solvererr.Invariant("unify: free BoundVarConst used as a unification operand")
	}
	if _, ok := b.Value.(ir.BoundVarConst); ok {
		solvererr.Invariant("unify: free BoundVarConst used as a unification operand")
	}

	av, aIsVar := a.Value.(ir.InferenceVarConst)
	bv, bIsVar := b.Value.(ir.InferenceVarConst)
	switch {
	case aIsVar && bIsVar:
		u.Table.UnionConstVars(av.Var.Index, bv.Var.Index)
		return nil
	case aIsVar:
		return u.bindConst(av, b)
	case bIsVar:
		return u.bindConst(bv, a)
	}

	if ap, ok := a.Value.(ir.PlaceholderConst); ok {
		bp, ok2 := b.Value.(ir.PlaceholderConst)
		if !ok2 || ap.Placeholder != bp.Placeholder {
			return solvererr.ErrNoSolution
		}
		return nil
	}
	if ac, ok := a.Value.(ir.ConcreteConst); ok {
		bc, ok2 := b.Value.(ir.ConcreteConst)
		if !ok2 || !ac.Payload.Equals(bc.Payload) {
			return solvererr.ErrNoSolution
		}
		return nil
	}
	return solvererr.ErrNoSolution
}

func (u *Unifier) shallowTy(t ir.Ty) ir.Ty {
	for {
		next, ok := u.Table.NormalizeShallowTy(t)
		if !ok {
			return t
		}
		t = next
	}
}

func (u *Unifier) shallowLifetime(l ir.Lifetime) ir.Lifetime {
	for {
		next, ok := u.Table.NormalizeShallowLifetime(l)
		if !ok {
			return l
		}
		l = next
	}
}

func (u *Unifier) shallowConst(c *ir.Const) *ir.Const {
	for {
		next, ok := u.Table.NormalizeShallowConst(c)
		if !ok {
			return c
		}
		c = next
	}
}

func (u *Unifier) bindTy(v ir.InferenceVarTy, value ir.Ty) error {
	constraints, err := u.Table.BindTyVar(v.Var.Index, value)
	if err != nil {
		return err
	}
	u.result.Constraints = append(u.result.Constraints, constraints...)
	return nil
}

func (u *Unifier) bindLifetime(v ir.InferenceVarLifetime, value ir.Lifetime) error {
	constraints, err := u.Table.BindLifetimeVar(v.Var.Index, value)
	if err != nil {
		return err
	}
	u.result.Constraints = append(u.result.Constraints, constraints...)
	return nil
}

func (u *Unifier) bindConst(v ir.InferenceVarConst, value *ir.Const) error {
	constraints, err := u.Table.BindConstVar(v.Var.Index, value)
	if err != nil {
		return err
	}
	u.result.Constraints = append(u.result.Constraints, constraints...)
	return nil
}

// deferAliasEq records `AliasEq(alias, other)` as a subgoal rather than
// unifying structurally (§4.5 "Alias↔Anything"): this core has no symbol
// table to resolve a projection through (unlike the teacher's `Resolver`),
// so resolving an alias is always the caller's job via program_clauses.
func (u *Unifier) deferAliasEq(alias ir.AliasTy, other ir.Ty) {
	u.result.Goals = append(u.result.Goals, ir.DomainGoalWrapper{
		DomainGoal: ir.AliasEqGoal{Alias: alias, Ty: other},
	})
}

// unifyFunctions implements "for<> T = for<> U is equivalent to both
// instantiation orders yielding equality" by opening a's binder
// universally (a fresh universe of placeholders standing for "any caller")
// and b's binder existentially (fresh variables in the table's current
// universe), then equating argument/return types with the usual
// contravariant-args/covariant-return function variance.
func (u *Unifier) unifyFunctions(variance ir.Variance, a, b ir.FunctionTy) error {
	if len(a.Sig.Kinds) != len(b.Sig.Kinds) {
		return solvererr.ErrNoSolution
	}
	sigA, _ := infer.InstantiateBindersUniversally(u.Table, a.Sig, fold.FnSig)
	sigB, _ := infer.InstantiateBindersExistentially(u.Table, b.Sig, fold.FnSig)
	if len(sigA.ArgumentTypes) != len(sigB.ArgumentTypes) || sigA.Variadic != sigB.Variadic {
		return solvererr.ErrNoSolution
	}
	for i := range sigA.ArgumentTypes {
		if err := u.Ty(variance.Xform(ir.Contravariant), sigA.ArgumentTypes[i], sigB.ArgumentTypes[i]); err != nil {
			return err
		}
	}
	return u.Ty(variance.Xform(ir.Covariant), sigA.ReturnType, sigB.ReturnType)
}

// --- fold.Zipper -----------------------------------------------------------

// ZipTys is the Zipper leaf callback: by the time fold.ZipTys reaches a
// leaf both operands are already known to share a constructor (or be one of
// the sentinel kinds dispatched straight to the Zipper), so this only has
// to handle the var/placeholder/error leaves that fold.ZipTys routes here
// directly.
func (u *Unifier) ZipTys(variance ir.Variance, a, b ir.Ty) error {
	if err := u.Ty(variance, a, b); err != nil {
		return err
	}
	return nil
}

func (u *Unifier) ZipLifetimes(variance ir.Variance, a, b ir.Lifetime) error {
	a = u.shallowLifetime(a)
	b = u.shallowLifetime(b)
	if av, ok := a.(ir.InferenceVarLifetime); ok {
		return u.Lifetime(variance, av, b)
	}
	if bv, ok := b.(ir.InferenceVarLifetime); ok {
		return u.Lifetime(variance, a, bv)
	}
	if _, ok := a.(ir.ErrorLifetime); ok {
		return nil
	}
	if _, ok := b.(ir.ErrorLifetime); ok {
		return nil
	}
	_, aErased := a.(ir.ErasedLifetime)
	_, bErased := b.(ir.ErasedLifetime)
	if aErased && bErased {
		return nil
	}
	_, aStatic := a.(ir.StaticLifetime)
	_, bStatic := b.(ir.StaticLifetime)
	if aStatic && bStatic {
		return nil
	}
	if ap, ok := a.(ir.PlaceholderLifetime); ok {
		if bp, ok2 := b.(ir.PlaceholderLifetime); ok2 && ap.Placeholder == bp.Placeholder {
			return nil
		}
	}
	// Two distinct concrete regions are never a hard mismatch the way two
	// distinct types are — unlike Ty/Const, a lifetime site defers to a
	// region constraint instead of failing outright (§4.5 "region
	// constraints are deferred, never resolved eagerly").
	return u.emitLifetimeOutlives(variance, a, b)
}

// emitLifetimeOutlives records the outlives obligation(s) variance demands
// between two concrete lifetimes that did not already compare equal:
// Covariant needs a:b, Contravariant needs b:a, Invariant needs both (the
// two-outlives-constraints encoding of equality chalk itself uses), and
// Bivariant needs neither.
func (u *Unifier) emitLifetimeOutlives(variance ir.Variance, a, b ir.Lifetime) error {
	switch variance {
	case ir.Covariant:
		u.result.Constraints = append(u.result.Constraints, ir.LifetimeOutlivesConstraint{A: a, B: b})
	case ir.Contravariant:
		u.result.Constraints = append(u.result.Constraints, ir.LifetimeOutlivesConstraint{A: b, B: a})
	case ir.Bivariant:
	default: // Invariant
		u.result.Constraints = append(u.result.Constraints,
			ir.LifetimeOutlivesConstraint{A: a, B: b},
			ir.LifetimeOutlivesConstraint{A: b, B: a},
		)
	}
	return nil
}

func (u *Unifier) ZipConsts(variance ir.Variance, a, b *ir.Const) error {
	return u.Const(variance, a, b)
}

func (u *Unifier) AdtVariance(id ir.AdtID) []ir.Variance {
	if u.Variance == nil {
		return nil
	}
	return u.Variance.AdtVariance(id)
}

func (u *Unifier) FnDefVariance(id ir.FnDefID) []ir.Variance {
	if u.Variance == nil {
		return nil
	}
	return u.Variance.FnDefVariance(id)
}
