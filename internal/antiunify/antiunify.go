// Package antiunify implements the least-general-generalization step §4.9
// names: given two terms that don't unify, find a minimal common
// generalization, replacing the parts that differ with fresh variables.
//
// Grounded on chalk's `AntiUnifier` (original_source/chalk-engine/src/slg/
// aggregate.rs) — the algorithm is carried over structurally unchanged
// (same per-shape match, same "different shape or either side is a bound
// variable: drop in a fresh variable" fallback), restructured into Go's
// sealed-interface Ty/Lifetime/Const switch instead of chalk's TyKind enum.
package antiunify

import (
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
)

// Unifier generalizes pairs of terms drawn from two otherwise-incompatible
// answers into fresh variables of table, all allocated in universe.
type Unifier struct {
	table    *infer.Table
	universe ir.Universe
}

func New(table *infer.Table, universe ir.Universe) *Unifier {
	return &Unifier{table: table, universe: universe}
}

func (u *Unifier) freshTy() ir.Ty {
	return u.table.NewTyVariable(u.universe, ir.SortGeneral)
}

func (u *Unifier) freshLifetime() ir.Lifetime {
	return u.table.NewVariable(ir.KindLifetime, u.universe).Lifetime
}

func (u *Unifier) freshConst(ty ir.Ty) *ir.Const {
	arg := u.table.NewVariable(ir.KindConst, u.universe)
	arg.Const.Ty = ty
	return arg.Const
}

// GenericArg generalizes one slot of two otherwise-matching substitutions.
func (u *Unifier) GenericArg(a, b ir.GenericArg) ir.GenericArg {
	switch a.Kind {
	case ir.KindLifetime:
		return ir.LifetimeArg(u.Lifetime(a.Lifetime, b.Lifetime))
	case ir.KindConst:
		return ir.ConstArg(u.Const(a.Const, b.Const))
	default:
		return ir.TyArg(u.Ty(a.Ty, b.Ty))
	}
}

func (u *Unifier) subst(a, b ir.Substitution) ir.Substitution {
	out := make(ir.Substitution, len(a))
	for i := range a {
		out[i] = u.GenericArg(a[i], b[i])
	}
	return out
}

// nameAndSubst generalizes two same-shaped name+subst applications (Adt,
// FnDef, Closure, ...): equal names generalize arg-wise, unequal names
// collapse to a single fresh variable entirely, exactly as chalk's
// aggregate_name_and_substs does.
func nameAndSubst[N comparable](u *Unifier, n1 N, s1 ir.Substitution, n2 N, s2 ir.Substitution, rebuild func(N, ir.Substitution) ir.Ty) ir.Ty {
	if n1 != n2 || len(s1) != len(s2) {
		return u.freshTy()
	}
	return rebuild(n1, u.subst(s1, s2))
}

// Ty generalizes two types, per §4.9: identical-shape applications
// generalize their arguments, bound variables and binder-carrying shapes
// (function pointers, dyn types) always drop to a fresh variable (both
// reference a Canonical's own binder positions, which this unifier cannot
// meaningfully compare), and mismatched shapes fall back to a fresh
// variable too.
func (u *Unifier) Ty(a, b ir.Ty) ir.Ty {
	switch x := a.(type) {
	case ir.InferenceVarTy:
		if _, ok := b.(ir.InferenceVarTy); ok {
			return u.freshTy()
		}
	case ir.BoundVarTy:
		if _, ok := b.(ir.BoundVarTy); ok {
			return u.freshTy()
		}
	case ir.FunctionTy:
		if _, ok := b.(ir.FunctionTy); ok {
			return u.freshTy()
		}
	case ir.DynTy:
		if _, ok := b.(ir.DynTy); ok {
			return u.freshTy()
		}
	case ir.PlaceholderTy:
		if y, ok := b.(ir.PlaceholderTy); ok {
			if x.Placeholder == y.Placeholder {
				return x
			}
		}
		return u.freshTy()
	case ir.AliasTy:
		y, ok := b.(ir.AliasTy)
		if !ok || x.Kind != y.Kind {
			return u.freshTy()
		}
		if x.Kind == ir.AliasProjection {
			if x.Projection.AssocTyID != y.Projection.AssocTyID || len(x.Projection.Subst) != len(y.Projection.Subst) {
				return u.freshTy()
			}
			return ir.AliasTy{Kind: ir.AliasProjection, Projection: &ir.Projection{
				AssocTyID: x.Projection.AssocTyID,
				Subst:     u.subst(x.Projection.Subst, y.Projection.Subst),
			}}
		}
		if x.Opaque.OpaqueTyID != y.Opaque.OpaqueTyID || len(x.Opaque.Subst) != len(y.Opaque.Subst) {
			return u.freshTy()
		}
		return ir.AliasTy{Kind: ir.AliasOpaque, Opaque: &ir.OpaqueTyApplication{
			OpaqueTyID: x.Opaque.OpaqueTyID,
			Subst:      u.subst(x.Opaque.Subst, y.Opaque.Subst),
		}}
	case ir.AdtTy:
		y, ok := b.(ir.AdtTy)
		if !ok {
			return u.freshTy()
		}
		return nameAndSubst(u, x.ID, x.Subst, y.ID, y.Subst, func(id ir.AdtID, s ir.Substitution) ir.Ty {
			return ir.AdtTy{ID: id, Subst: s}
		})
	case ir.AssociatedTypeTy:
		y, ok := b.(ir.AssociatedTypeTy)
		if !ok {
			return u.freshTy()
		}
		return nameAndSubst(u, x.ID, x.Subst, y.ID, y.Subst, func(id ir.AssocTyID, s ir.Substitution) ir.Ty {
			return ir.AssociatedTypeTy{ID: id, Subst: s}
		})
	case ir.FnDefTy:
		y, ok := b.(ir.FnDefTy)
		if !ok {
			return u.freshTy()
		}
		return nameAndSubst(u, x.ID, x.Subst, y.ID, y.Subst, func(id ir.FnDefID, s ir.Substitution) ir.Ty {
			return ir.FnDefTy{ID: id, Subst: s}
		})
	case ir.ClosureTy:
		y, ok := b.(ir.ClosureTy)
		if !ok {
			return u.freshTy()
		}
		return nameAndSubst(u, x.ID, x.Subst, y.ID, y.Subst, func(id ir.ClosureID, s ir.Substitution) ir.Ty {
			return ir.ClosureTy{ID: id, Subst: s}
		})
	case ir.CoroutineTy:
		y, ok := b.(ir.CoroutineTy)
		if !ok {
			return u.freshTy()
		}
		return nameAndSubst(u, x.ID, x.Subst, y.ID, y.Subst, func(id ir.CoroutineID, s ir.Substitution) ir.Ty {
			return ir.CoroutineTy{ID: id, Subst: s}
		})
	case ir.CoroutineWitnessTy:
		y, ok := b.(ir.CoroutineWitnessTy)
		if !ok {
			return u.freshTy()
		}
		return nameAndSubst(u, x.ID, x.Subst, y.ID, y.Subst, func(id ir.CoroutineID, s ir.Substitution) ir.Ty {
			return ir.CoroutineWitnessTy{ID: id, Subst: s}
		})
	case ir.OpaqueTypeTy:
		y, ok := b.(ir.OpaqueTypeTy)
		if !ok {
			return u.freshTy()
		}
		return nameAndSubst(u, x.ID, x.Subst, y.ID, y.Subst, func(id ir.OpaqueTyID, s ir.Substitution) ir.Ty {
			return ir.OpaqueTypeTy{ID: id, Subst: s}
		})
	case ir.TupleTy:
		y, ok := b.(ir.TupleTy)
		if !ok || x.Arity != y.Arity || len(x.Subst) != len(y.Subst) {
			return u.freshTy()
		}
		return ir.TupleTy{Arity: x.Arity, Subst: u.subst(x.Subst, y.Subst)}
	case ir.ScalarTy:
		y, ok := b.(ir.ScalarTy)
		if ok && x == y {
			return x
		}
		return u.freshTy()
	case ir.StrTy:
		if _, ok := b.(ir.StrTy); ok {
			return x
		}
		return u.freshTy()
	case ir.NeverTy:
		if _, ok := b.(ir.NeverTy); ok {
			return x
		}
		return u.freshTy()
	case ir.SliceTy:
		y, ok := b.(ir.SliceTy)
		if !ok {
			return u.freshTy()
		}
		return ir.SliceTy{Elem: u.Ty(x.Elem, y.Elem)}
	case ir.ArrayTy:
		y, ok := b.(ir.ArrayTy)
		if !ok {
			return u.freshTy()
		}
		return ir.ArrayTy{Elem: u.Ty(x.Elem, y.Elem), Const: u.Const(x.Const, y.Const)}
	case ir.RefTy:
		y, ok := b.(ir.RefTy)
		if !ok || x.Mutability != y.Mutability {
			return u.freshTy()
		}
		return ir.RefTy{Mutability: x.Mutability, Lifetime: u.Lifetime(x.Lifetime, y.Lifetime), Elem: u.Ty(x.Elem, y.Elem)}
	case ir.RawPtrTy:
		y, ok := b.(ir.RawPtrTy)
		if !ok || x.Mutability != y.Mutability {
			return u.freshTy()
		}
		return ir.RawPtrTy{Mutability: x.Mutability, Elem: u.Ty(x.Elem, y.Elem)}
	case ir.ForeignTy:
		y, ok := b.(ir.ForeignTy)
		if ok && x.ID == y.ID {
			return x
		}
		return u.freshTy()
	case ir.ErrorTy:
		if _, ok := b.(ir.ErrorTy); ok {
			return x
		}
		return u.freshTy()
	}
	return u.freshTy()
}

// Lifetime generalizes two lifetimes: any bound variable on either side
// drops to a fresh variable (a Canonical's bound regions are meaningless to
// compare positionally across two different answers), otherwise structural
// equality wins or a fresh variable is produced.
func (u *Unifier) Lifetime(a, b ir.Lifetime) ir.Lifetime {
	if _, ok := a.(ir.BoundVarLifetime); ok {
		return u.freshLifetime()
	}
	if _, ok := b.(ir.BoundVarLifetime); ok {
		return u.freshLifetime()
	}
	if a == b {
		return a
	}
	if x, ok := a.(ir.PlaceholderLifetime); ok {
		if y, ok := b.(ir.PlaceholderLifetime); ok && x.Placeholder == y.Placeholder {
			return x
		}
	}
	if _, ok := a.(ir.StaticLifetime); ok {
		if _, ok := b.(ir.StaticLifetime); ok {
			return a
		}
	}
	return u.freshLifetime()
}

// Const generalizes two consts: any inference/bound variable on either side
// (or a concrete-value mismatch) drops to a fresh variable of a's type.
func (u *Unifier) Const(a, b *ir.Const) *ir.Const {
	if a == nil || b == nil {
		return u.freshConst(nil)
	}
	switch av := a.Value.(type) {
	case ir.InferenceVarConst, ir.BoundVarConst:
		return u.freshConst(a.Ty)
	case ir.PlaceholderConst:
		if bv, ok := b.Value.(ir.PlaceholderConst); ok && av.Placeholder == bv.Placeholder {
			return a
		}
		return u.freshConst(a.Ty)
	case ir.ConcreteConst:
		if bv, ok := b.Value.(ir.ConcreteConst); ok && av.Payload.Equals(bv.Payload) {
			return a
		}
		return u.freshConst(a.Ty)
	default:
		if _, ok := b.Value.(ir.InferenceVarConst); ok {
			return u.freshConst(a.Ty)
		}
		if _, ok := b.Value.(ir.BoundVarConst); ok {
			return u.freshConst(a.Ty)
		}
		return u.freshConst(a.Ty)
	}
}
