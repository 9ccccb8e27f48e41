package ir

// Variance controls how unification recurses into generic arguments: an
// Invariant position demands equality, a Covariant one preserves the
// subtyping direction, a Contravariant one flips it, and a Bivariant one
// accepts either. Grounded on the teacher's `allowExtra bool` flag in
// `internal/typesystem/unify.go` (a two-valued special case of variance,
// width subtyping for records), generalized here to the full lattice chalk
// uses for reference/ADT/fn-pointer variance.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
	Bivariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "+"
	case Contravariant:
		return "-"
	case Bivariant:
		return "*"
	default:
		return "="
	}
}

// Xform composes the ambient variance (v, how the current position relates
// to the root) with a local variance (local, how a sub-position relates to
// its immediate parent), per §4.2's composition table:
//
//	Inv      ∘ _        = Inv
//	Cov      ∘ local     = local
//	Contra   ∘ Cov       = Contra
//	Contra   ∘ Contra    = Cov
//	Bivariant ∘ _        = Bivariant
func (v Variance) Xform(local Variance) Variance {
	switch v {
	case Invariant:
		return Invariant
	case Bivariant:
		return Bivariant
	case Covariant:
		return local
	case Contravariant:
		switch local {
		case Covariant:
			return Contravariant
		case Contravariant:
			return Covariant
		case Invariant:
			return Invariant
		default:
			return Bivariant
		}
	default:
		return Invariant
	}
}

// Mutability tags a reference or raw pointer as shared or unique, which
// feeds directly into the variance a `Ref`/`RawPtr` constructor assigns its
// pointee (§4.5: "cov on T if shared / inv if mut").
type Mutability int

const (
	Shared Mutability = iota
	Mut
)

func (m Mutability) String() string {
	if m == Mut {
		return "mut"
	}
	return "shared"
}

// PointeeVariance returns the variance a Ref/RawPtr constructor assigns to
// its pointee type, given the pointer's mutability.
func (m Mutability) PointeeVariance() Variance {
	if m == Mut {
		return Invariant
	}
	return Covariant
}
