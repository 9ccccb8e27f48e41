// Package truncate implements answer abstraction (§4.6): bounding a term's
// size by replacing subterms below a size budget with fresh inference
// variables, guaranteeing termination for inductive programs whose clauses
// would otherwise grow a goal without bound
// (`impl<T> Foo for Box<T> where Box<Vec<T>>: Foo`).
//
// New package — the teacher's own recursive descent (`ApplyWithCycleCheck`
// in internal/typesystem) only guards pointer cycles, never size, so there
// is no teacher analog for the budget-walk itself; it reuses this prover's
// own fold infrastructure's traversal shape (a type switch matching every
// Ty constructor, descending structurally) rather than duplicating it.
package truncate

import (
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
)

// Truncated reports whether any subterm was abstracted away.
type Result struct {
	Ty        ir.Ty
	Truncated bool
}

// Ty walks t, counting one unit of size per constructor visited; once the
// running total exceeds maxSize, the subterm at that point is replaced with
// a fresh inference variable in the root universe (visible from anywhere
// the truncated term may end up) and its children are not visited.
func Ty(table *infer.Table, maxSize int, t ir.Ty) Result {
	budget := maxSize
	out, truncated := walk(table, &budget, t)
	return Result{Ty: out, Truncated: truncated}
}

// Subst truncates every Ty-kinded slot of s independently (lifetimes and
// consts are left as-is: the unbounded-depth-growth problem spec §4.6
// guards against is type-term nesting, e.g. Box<Box<Box<...>>>).
func Subst(table *infer.Table, maxSize int, s ir.Substitution) (ir.Substitution, bool) {
	out := make(ir.Substitution, len(s))
	truncated := false
	for i, a := range s {
		if a.Kind != ir.KindTy {
			out[i] = a
			continue
		}
		r := Ty(table, maxSize, a.Ty)
		out[i] = ir.TyArg(r.Ty)
		truncated = truncated || r.Truncated
	}
	return out, truncated
}

func fresh(table *infer.Table) ir.Ty {
	return table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
}

func walk(table *infer.Table, budget *int, t ir.Ty) (ir.Ty, bool) {
	*budget--
	if *budget < 0 {
		return fresh(table), true
	}
	switch v := t.(type) {
	case ir.TupleTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.TupleTy{Arity: v.Arity, Subst: subst}, truncated
	case ir.SliceTy:
		elem, truncated := walk(table, budget, v.Elem)
		return ir.SliceTy{Elem: elem}, truncated
	case ir.ArrayTy:
		elem, truncated := walk(table, budget, v.Elem)
		return ir.ArrayTy{Elem: elem, Const: v.Const}, truncated
	case ir.RefTy:
		elem, truncated := walk(table, budget, v.Elem)
		return ir.RefTy{Mutability: v.Mutability, Lifetime: v.Lifetime, Elem: elem}, truncated
	case ir.RawPtrTy:
		elem, truncated := walk(table, budget, v.Elem)
		return ir.RawPtrTy{Mutability: v.Mutability, Elem: elem}, truncated
	case ir.AdtTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.AdtTy{ID: v.ID, Subst: subst}, truncated
	case ir.FnDefTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.FnDefTy{ID: v.ID, Subst: subst}, truncated
	case ir.ClosureTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.ClosureTy{ID: v.ID, Subst: subst}, truncated
	case ir.CoroutineTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.CoroutineTy{ID: v.ID, Subst: subst}, truncated
	case ir.CoroutineWitnessTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.CoroutineWitnessTy{ID: v.ID, Subst: subst}, truncated
	case ir.OpaqueTypeTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.OpaqueTypeTy{ID: v.ID, Subst: subst}, truncated
	case ir.AssociatedTypeTy:
		subst, truncated := walkSubst(table, budget, v.Subst)
		return ir.AssociatedTypeTy{ID: v.ID, Subst: subst}, truncated
	default:
		// Leaves (variables, placeholders, scalars, Dyn, Alias, Function,
		// Error, ...) are charged one unit of budget (above) and otherwise
		// returned as-is: Dyn/Alias/Function bodies live under their own
		// binders, and descending into them to truncate would require
		// renumbering bound variables, which isn't worth it for subterms
		// that are already one of the bounded cases clause recursion
		// actually produces (Adt/Tuple/Array/Ref nesting).
		return t, false
	}
}

func walkSubst(table *infer.Table, budget *int, s ir.Substitution) (ir.Substitution, bool) {
	out := make(ir.Substitution, len(s))
	truncated := false
	for i, a := range s {
		if a.Kind != ir.KindTy {
			out[i] = a
			continue
		}
		ty, t := walk(table, budget, a.Ty)
		out[i] = ir.TyArg(ty)
		truncated = truncated || t
	}
	return out, truncated
}
