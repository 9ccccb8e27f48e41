package ir

// Ty is the tagged union of every type constructor named in §3. Like the
// teacher's `typesystem.Type` interface (`internal/typesystem/types.go`) it
// is a sealed Go interface implemented by small value structs, but unlike
// the teacher's interface it carries no behavior of its own (no
// `Apply`/`FreeTypeVariables`/`Kind` methods) — every transformation goes
// through the generic `fold` package instead, because this prover's fold
// must be DeBruijn-aware in a way a per-type `Apply(Subst)` method cannot
// express cleanly (see SPEC_FULL §4.2).
type Ty interface {
	isTy()
}

// sealed is embedded in every Ty variant (the Lifetime, Const, Goal,
// DomainGoal and Constraint unions each have their own marker type) so only
// this package can add new cases, mirroring the closed
// tagged-union discipline the spec requires ("Add a variant; the
// fold/visit/zip infrastructure is mechanical" — but only for variants
// declared here).
type sealed struct{}

func (sealed) isTy() {}

// BoundVarTy is a type-sorted bound variable reference.
type BoundVarTy struct {
	sealed
	Var BoundVar
}

// InferenceVarTy is a type-sorted unresolved inference variable.
type InferenceVarTy struct {
	sealed
	Var  InferVar
	Sort TySort
}

// PlaceholderTy is a type-sorted skolem constant.
type PlaceholderTy struct {
	sealed
	Placeholder Placeholder
}

// DynTy is a trait object: `dyn Bound1 + Bound2 + 'lifetime`.
type DynTy struct {
	sealed
	Bounds   Binders[[]Goal]
	Lifetime Lifetime
}

// AliasKind distinguishes an associated-type projection from an opaque
// (`impl Trait`) type.
type AliasKind int

const (
	AliasProjection AliasKind = iota
	AliasOpaque
)

// Projection names an associated type instantiated with a substitution,
// e.g. `<T as Iterator>::Item`.
type Projection struct {
	AssocTyID AssocTyID
	Subst     Substitution
}

// OpaqueTyApplication names an opaque type instantiated with a
// substitution.
type OpaqueTyApplication struct {
	OpaqueTyID OpaqueTyID
	Subst      Substitution
}

// AliasTy is a deferred-normalization type: either a trait projection or an
// opaque type.
type AliasTy struct {
	sealed
	Kind       AliasKind
	Projection *Projection
	Opaque     *OpaqueTyApplication
}

// FnSig is a function pointer signature: `for<'a> fn(A) -> B` minus the
// binder (the binder lives in FunctionTy.Sig, a Binders[FnSig]).
type FnSig struct {
	ArgumentTypes []Ty
	ReturnType    Ty
	Variadic      bool
}

// FunctionTy is a function-pointer type; the signature is bound so its
// argument/return types may reference the function's own higher-ranked
// lifetimes.
type FunctionTy struct {
	sealed
	Sig Binders[FnSig]
}

// ErrorTy stands for a type that failed to elaborate upstream; unification
// against it always succeeds (it never reports a fresh error).
type ErrorTy struct{ sealed }

// ScalarKind enumerates primitive scalar types.
type ScalarKind int

const (
	ScalarBool ScalarKind = iota
	ScalarChar
	ScalarInt
	ScalarUint
	ScalarFloat
)

type ScalarTy struct {
	sealed
	Kind ScalarKind
	Bits int // 0 = pointer-sized / unspecified
}

type StrTy struct{ sealed }
type NeverTy struct{ sealed }

type TupleTy struct {
	sealed
	Arity int
	Subst Substitution
}

type SliceTy struct {
	sealed
	Elem Ty
}

// Const represents a const generic value; defined in const.go but referenced
// here for ArrayTy.
type ArrayTy struct {
	sealed
	Elem  Ty
	Const *Const
}

type RefTy struct {
	sealed
	Mutability Mutability
	Lifetime   Lifetime
	Elem       Ty
}

type RawPtrTy struct {
	sealed
	Mutability Mutability
	Elem       Ty
}

type AdtTy struct {
	sealed
	ID    AdtID
	Subst Substitution
}

type AssociatedTypeTy struct {
	sealed
	ID    AssocTyID
	Subst Substitution
}

type FnDefTy struct {
	sealed
	ID    FnDefID
	Subst Substitution
}

type ClosureTy struct {
	sealed
	ID    ClosureID
	Subst Substitution
}

type CoroutineTy struct {
	sealed
	ID    CoroutineID
	Subst Substitution
}

type CoroutineWitnessTy struct {
	sealed
	ID    CoroutineID
	Subst Substitution
}

type OpaqueTypeTy struct {
	sealed
	ID    OpaqueTyID
	Subst Substitution
}

type ForeignTy struct {
	sealed
	ID ForeignID
}

// TraitRef names a trait applied to a self type and arguments:
// `SelfTy: Trait<Args>`.
type TraitRef struct {
	TraitID TraitID
	Subst   Substitution // Subst[0] is conventionally the self type
}

func (t *TraitRef) SelfTy() Ty {
	if len(t.Subst) == 0 || t.Subst[0].Kind != KindTy {
		return nil
	}
	return t.Subst[0].Ty
}
