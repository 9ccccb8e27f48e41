package fold

import (
	"fmt"

	"github.com/funvibe/funxy/internal/ir"
)

// Zipper receives the leaves of a parallel structural recursion over two
// terms. variance is the ambient variance at that leaf, already composed
// (via Variance.Xform) from the root down. Implementations report a
// mismatch by returning an error; ZipTys/ZipLifetimes/ZipConsts propagate
// the first error encountered and stop.
type Zipper interface {
	ZipTys(variance ir.Variance, a, b ir.Ty) error
	ZipLifetimes(variance ir.Variance, a, b ir.Lifetime) error
	ZipConsts(variance ir.Variance, a, b *ir.Const) error

	// AdtVariance and FnDefVariance let Zip thread declared variance into
	// Adt/FnDef/Closure/Coroutine/OpaqueType substitutions without this
	// package depending on the Database interface directly; a Zipper that
	// does not care (e.g. one zipping DynTy bound lists, which have no
	// declared variance) may return nil, which ZipSubst treats as
	// "invariant in every position".
	AdtVariance(id ir.AdtID) []ir.Variance
	FnDefVariance(id ir.FnDefID) []ir.Variance
}

// ErrShapeMismatch is wrapped by zip errors that stem from the two terms
// not having the same constructor — a genuine unification failure
// ("NoSolution"), not a bug.
type ErrShapeMismatch struct {
	A, B any
}

func (e ErrShapeMismatch) Error() string {
	return fmt.Sprintf("zip: shape mismatch %T vs %T", e.A, e.B)
}

// ZipTys recurses over a and b, which must be structurally identical up to
// their constructor; BoundVar operands are a caller bug (§4.5 "BoundVar
// appearing as an operand is a bug (panic)").
func ZipTys(z Zipper, variance ir.Variance, a, b ir.Ty) error {
	if _, ok := a.(ir.BoundVarTy); ok {
		panic("zip: free BoundVarTy used as a zip operand")
	}
	if _, ok := b.(ir.BoundVarTy); ok {
		panic("zip: free BoundVarTy used as a zip operand")
	}

	// Leaves: variables/placeholders/dyn-incomparable cases are handled by
	// the caller (the unifier) before reaching here in the common case,
	// but Zip itself still supports zipping two already-equal leaves
	// (used when comparing already-bound terms for e.g. answer
	// subsumption) by delegating straight to the Zipper.
	switch a.(type) {
	case ir.InferenceVarTy, ir.PlaceholderTy, ir.ErrorTy:
		return z.ZipTys(variance, a, b)
	}
	if _, ok := b.(ir.InferenceVarTy); ok {
		return z.ZipTys(variance, a, b)
	}
	if _, ok := b.(ir.PlaceholderTy); ok {
		return z.ZipTys(variance, a, b)
	}
	if _, ok := b.(ir.ErrorTy); ok {
		return z.ZipTys(variance, a, b)
	}

	switch av := a.(type) {
	case ir.ScalarTy:
		bv, ok := b.(ir.ScalarTy)
		if !ok || av != bv {
			return ErrShapeMismatch{a, b}
		}
		return nil
	case ir.StrTy:
		if _, ok := b.(ir.StrTy); !ok {
			return ErrShapeMismatch{a, b}
		}
		return nil
	case ir.NeverTy:
		if _, ok := b.(ir.NeverTy); !ok {
			return ErrShapeMismatch{a, b}
		}
		return nil
	case ir.TupleTy:
		bv, ok := b.(ir.TupleTy)
		if !ok || av.Arity != bv.Arity {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstUniform(z, variance, ir.Covariant, av.Subst, bv.Subst)
	case ir.SliceTy:
		bv, ok := b.(ir.SliceTy)
		if !ok {
			return ErrShapeMismatch{a, b}
		}
		return ZipTys(z, variance.Xform(ir.Covariant), av.Elem, bv.Elem)
	case ir.ArrayTy:
		bv, ok := b.(ir.ArrayTy)
		if !ok {
			return ErrShapeMismatch{a, b}
		}
		if err := ZipTys(z, variance.Xform(ir.Covariant), av.Elem, bv.Elem); err != nil {
			return err
		}
		return z.ZipConsts(variance.Xform(ir.Invariant), av.Const, bv.Const)
	case ir.RefTy:
		bv, ok := b.(ir.RefTy)
		if !ok || av.Mutability != bv.Mutability {
			return ErrShapeMismatch{a, b}
		}
		if err := z.ZipLifetimes(variance.Xform(ir.Contravariant), av.Lifetime, bv.Lifetime); err != nil {
			return err
		}
		return ZipTys(z, variance.Xform(av.Mutability.PointeeVariance()), av.Elem, bv.Elem)
	case ir.RawPtrTy:
		bv, ok := b.(ir.RawPtrTy)
		if !ok || av.Mutability != bv.Mutability {
			return ErrShapeMismatch{a, b}
		}
		return ZipTys(z, variance.Xform(av.Mutability.PointeeVariance()), av.Elem, bv.Elem)
	case ir.AdtTy:
		bv, ok := b.(ir.AdtTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstWithVariance(z, variance, z.AdtVariance(av.ID), av.Subst, bv.Subst)
	case ir.FnDefTy:
		bv, ok := b.(ir.FnDefTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstWithVariance(z, variance, z.FnDefVariance(av.ID), av.Subst, bv.Subst)
	case ir.ClosureTy:
		bv, ok := b.(ir.ClosureTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstUniform(z, variance, ir.Invariant, av.Subst, bv.Subst)
	case ir.CoroutineTy:
		bv, ok := b.(ir.CoroutineTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstUniform(z, variance, ir.Invariant, av.Subst, bv.Subst)
	case ir.CoroutineWitnessTy:
		bv, ok := b.(ir.CoroutineWitnessTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstUniform(z, variance, ir.Invariant, av.Subst, bv.Subst)
	case ir.OpaqueTypeTy:
		bv, ok := b.(ir.OpaqueTypeTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstUniform(z, variance, ir.Invariant, av.Subst, bv.Subst)
	case ir.ForeignTy:
		bv, ok := b.(ir.ForeignTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return nil
	case ir.FunctionTy:
		bv, ok := b.(ir.FunctionTy)
		if !ok || len(av.Sig.Value.ArgumentTypes) != len(bv.Sig.Value.ArgumentTypes) || len(av.Sig.Kinds) != len(bv.Sig.Kinds) {
			return ErrShapeMismatch{a, b}
		}
		for i := range av.Sig.Value.ArgumentTypes {
			if err := ZipTys(z, variance.Xform(ir.Contravariant), av.Sig.Value.ArgumentTypes[i], bv.Sig.Value.ArgumentTypes[i]); err != nil {
				return err
			}
		}
		return ZipTys(z, variance.Xform(ir.Covariant), av.Sig.Value.ReturnType, bv.Sig.Value.ReturnType)
	case ir.DynTy:
		bv, ok := b.(ir.DynTy)
		if !ok || len(av.Bounds.Value) != len(bv.Bounds.Value) {
			return ErrShapeMismatch{a, b}
		}
		// Principal-first canonical ordering is the Database/clause
		// generator's responsibility to establish before interning; Zip
		// simply assumes both bound lists already agree on order, per §4.5
		// "zip their bound clause sets under the principal-first canonical
		// ordering".
		if err := z.ZipLifetimes(variance.Xform(ir.Contravariant), av.Lifetime, bv.Lifetime); err != nil {
			return err
		}
		return nil
	case ir.AssociatedTypeTy:
		bv, ok := b.(ir.AssociatedTypeTy)
		if !ok || av.ID != bv.ID {
			return ErrShapeMismatch{a, b}
		}
		return zipSubstUniform(z, variance, ir.Invariant, av.Subst, bv.Subst)
	case ir.AliasTy:
		// Alias should already have been deferred by the caller (§4.5
		// "Alias↔Anything: defer as a Normalize or AliasEq subgoal rather
		// than unifying structurally"); if Zip is reached directly it is
		// being asked to compare two alias *shapes* structurally (used by
		// answer-subsumption / anti-unification, not live unification).
		bv, ok := b.(ir.AliasTy)
		if !ok || av.Kind != bv.Kind {
			return ErrShapeMismatch{a, b}
		}
		if av.Projection != nil {
			return zipSubstUniform(z, variance, ir.Invariant, av.Projection.Subst, bv.Projection.Subst)
		}
		return zipSubstUniform(z, variance, ir.Invariant, av.Opaque.Subst, bv.Opaque.Subst)
	default:
		return ErrShapeMismatch{a, b}
	}
}

func zipSubstUniform(z Zipper, ambient, local ir.Variance, a, b ir.Substitution) error {
	if len(a) != len(b) {
		return ErrShapeMismatch{a, b}
	}
	v := ambient.Xform(local)
	for i := range a {
		if err := zipGenericArg(z, v, a[i], b[i]); err != nil {
			return err
		}
	}
	return nil
}

func zipSubstWithVariance(z Zipper, ambient ir.Variance, declared []ir.Variance, a, b ir.Substitution) error {
	if len(a) != len(b) {
		return ErrShapeMismatch{a, b}
	}
	for i := range a {
		local := ir.Invariant
		if declared != nil && i < len(declared) {
			local = declared[i]
		}
		if err := zipGenericArg(z, ambient.Xform(local), a[i], b[i]); err != nil {
			return err
		}
	}
	return nil
}

func zipGenericArg(z Zipper, variance ir.Variance, a, b ir.GenericArg) error {
	if a.Kind != b.Kind {
		return ErrShapeMismatch{a, b}
	}
	switch a.Kind {
	case ir.KindLifetime:
		return z.ZipLifetimes(variance, a.Lifetime, b.Lifetime)
	case ir.KindConst:
		return z.ZipConsts(variance, a.Const, b.Const)
	default:
		return ZipTys(z, variance, a.Ty, b.Ty)
	}
}

// ZipSubst is the exported entry point the unifier uses for Adt/FnDef-style
// substitutions where variance is declared externally.
func ZipSubst(z Zipper, ambient ir.Variance, declared []ir.Variance, a, b ir.Substitution) error {
	return zipSubstWithVariance(z, ambient, declared, a, b)
}
