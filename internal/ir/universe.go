package ir

import "fmt"

// Universe models the scope introduced by a `forall` binder. U0 is the
// root universe that every inference variable starts in.
type Universe int

// RootUniverse is U0.
const RootUniverse Universe = 0

// CanSee reports whether u <= v, i.e. whether a placeholder introduced in
// universe u may be named by a variable in universe v.
func (u Universe) CanSee(v Universe) bool { return u <= v }

// Next returns the next-deeper universe, used when instantiating a `forall`
// binder universally.
func (u Universe) Next() Universe { return u + 1 }

func (u Universe) String() string { return fmt.Sprintf("U%d", int(u)) }

// Placeholder is a skolem constant standing for a universally quantified
// variable: a (universe, position) pair.
type Placeholder struct {
	Universe Universe
	Index    int
}

func (p Placeholder) String() string { return fmt.Sprintf("!%d_%d", p.Universe, p.Index) }

// BoundVar refers to an enclosing binder; Depth 0 is the innermost binder,
// Index selects among the variables that binder introduces.
type BoundVar struct {
	Depth int
	Index int
}

func (b BoundVar) String() string { return fmt.Sprintf("^%d_%d", b.Depth, b.Index) }

// Shifted returns b shifted by delta binder levels; used by fold's
// DeBruijn-aware shifting. Shifting never changes Index, only Depth.
func (b BoundVar) Shifted(delta int) BoundVar { return BoundVar{Depth: b.Depth + delta, Index: b.Index} }

// InferVar is an integer index into the current inference table. The kind
// (type/lifetime/const) is determined by which channel of the table the
// index was allocated from, and the sub-kind (general/integer/float) for
// type variables is tracked alongside it in the table, not in the bare
// index — mirroring the spec's "carries a kind tag" note while keeping the
// term-level representation a single small integer, the way the teacher's
// `TVar{Name string}` is just a name with the kind resolved elsewhere
// (`internal/typesystem/kinds.go`).
type InferVar struct {
	Index int
}

func (v InferVar) String() string { return fmt.Sprintf("?%d", v.Index) }

// TySort distinguishes the three sub-kinds a type inference variable may
// carry, per §3 "Inference variable".
type TySort int

const (
	SortGeneral TySort = iota
	SortInteger
	SortFloat
)

func (s TySort) String() string {
	switch s {
	case SortInteger:
		return "int"
	case SortFloat:
		return "float"
	default:
		return "general"
	}
}

// VarKind tags what kind of generic parameter / inference variable a slot
// holds: type, lifetime, or const.
type VarKind int

const (
	KindTy VarKind = iota
	KindLifetime
	KindConst
)

func (k VarKind) String() string {
	switch k {
	case KindLifetime:
		return "lifetime"
	case KindConst:
		return "const"
	default:
		return "ty"
	}
}

// VarKindWithUniverse records both the kind and universe of a variable
// captured during canonicalization (§3 "Canonical<T>").
type VarKindWithUniverse struct {
	Kind     VarKind
	Universe Universe
}
