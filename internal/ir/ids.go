package ir

// Domain identifiers are opaque handles the Database hands back to the
// prover; the prover never interprets them beyond equality, exactly as the
// teacher's `symbols.Symbol` handles are opaque to the unifier
// (`internal/typesystem/unify.go` only ever compares `TCon.Name` strings).
type (
	AdtID          int
	TraitID        int
	ImplID         int
	FnDefID        int
	ClosureID      int
	CoroutineID    int
	OpaqueTyID     int
	AssocTyID      int
	AssocTyValueID int
	ForeignID      int
)

// WellKnownTrait enumerates the built-in traits the solver must be able to
// recognize without a user declaration, per SPEC_FULL §9 (chalk's
// `rust_ir.rs` well-known-trait table, never enumerated by spec.md itself).
type WellKnownTrait int

const (
	WellKnownSized WellKnownTrait = iota
	WellKnownCopy
	WellKnownClone
	WellKnownDrop
	WellKnownFnOnce
	WellKnownFnMut
	WellKnownFn
	WellKnownUnsize
	WellKnownCoerceUnsized
	WellKnownDiscriminantKind
	WellKnownCoroutine
	WellKnownTuple
)

func (w WellKnownTrait) String() string {
	names := [...]string{
		"Sized", "Copy", "Clone", "Drop", "FnOnce", "FnMut", "Fn",
		"Unsize", "CoerceUnsized", "DiscriminantKind", "Coroutine", "Tuple",
	}
	if int(w) >= 0 && int(w) < len(names) {
		return names[w]
	}
	return "Unknown"
}

// AdtDatum describes a declared struct/enum: its generic binders and the
// variance the solver should use for each of them when unifying two
// instantiations invariantly vs. co/contra-variantly.
type AdtDatum struct {
	ID       AdtID
	Binders  Binders[AdtBoundData]
	Variance []Variance
}

// AdtBoundData is the per-binder payload of an AdtDatum: the where-clauses
// that must hold for the ADT to be well-formed.
type AdtBoundData struct {
	WhereClauses []Goal
}

// FnDefDatum describes a free function item (used for FnDef types, distinct
// from closures/Function types).
type FnDefDatum struct {
	ID       FnDefID
	Binders  Binders[FnDefBoundData]
	Variance []Variance
}

type FnDefBoundData struct {
	ArgumentTypes []Ty
	ReturnType    Ty
	WhereClauses  []Goal
}

// TraitDatum describes a declared trait: its binders, super-traits encoded
// as where-clauses, well-known tag (if any), and whether it is coinductive
// (auto traits) or non-enumerable.
type TraitDatum struct {
	ID             TraitID
	Binders        Binders[TraitBoundData]
	WellKnown      *WellKnownTrait
	Coinductive    bool
	NonEnumerable  bool
	ObjectSafe     bool
	AssocTyIDs     []AssocTyID
}

type TraitBoundData struct {
	WhereClauses []Goal
}

// ImplDatum describes an `impl<...> Trait<...> for Ty` item.
type ImplDatum struct {
	ID            ImplID
	TraitID       TraitID
	Binders       Binders[ImplBoundData]
	Polarity      Polarity
}

// Polarity distinguishes a positive impl from a negative (`impl !Trait for
// Ty`) one.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

type ImplBoundData struct {
	TraitRef     *TraitRef
	WhereClauses []Goal
}

// OpaqueTyDatum describes an `impl Trait`-style opaque type.
type OpaqueTyDatum struct {
	ID      OpaqueTyID
	Bounds  Binders[[]Goal]
}

// AssociatedTyDatum describes a trait's associated type declaration.
type AssociatedTyDatum struct {
	ID       AssocTyID
	TraitID  TraitID
	Binders  Binders[AssociatedTyBoundData]
}

type AssociatedTyBoundData struct {
	Bounds       []Goal
	WhereClauses []Goal
}

// AssociatedTyValue describes one impl's value for a trait's associated
// type.
type AssociatedTyValue struct {
	ID       AssocTyValueID
	ImplID   ImplID
	AssocTy  AssocTyID
	Binders  Binders[Ty]
}
