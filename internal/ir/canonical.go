package ir

// Canonical closes a value over its free inference variables: every such
// variable in the original value has been replaced by a bound variable, and
// Binders records each captured variable's kind and universe in
// first-encounter order (§3 "Canonical<T>").
type Canonical[T any] struct {
	Binders []VarKindWithUniverse
	Value   T
}

func (c Canonical[T]) Len() int { return len(c.Binders) }

// UniverseMap describes the renumbering u_canonicalize performs: Compacted
// lists, for each compacted universe (its index), the original Universe it
// replaced; ToOriginal reads it.
type UniverseMap struct {
	Compacted []Universe // compacted universe i -> original universe
}

// ToOriginal maps a compacted universe back to the universe it replaced.
func (m UniverseMap) ToOriginal(u Universe) Universe {
	if int(u) < 0 || int(u) >= len(m.Compacted) {
		return u
	}
	return m.Compacted[u]
}

// UCanonical is a Canonical whose universes have been compacted to
// U0..Un in appearance order (§3 "UCanonical<T>").
type UCanonical[T any] struct {
	Canonical   Canonical[T]
	UniverseMap UniverseMap
}

// UCanonicalGoal is the shape `solve` consumes: a u-canonicalized goal in
// its environment.
type UCanonicalGoal = UCanonical[InEnvironment[Goal]]

// AnswerSubst is the contents of a positive SLG answer (§3 "AnswerSubst").
type AnswerSubst struct {
	Subst           Substitution
	Constraints     []Constraint
	DelayedSubgoals []Goal
}

// ConstrainedSubst is the external shape of a unique solution (§3
// "ConstrainedSubst").
type ConstrainedSubst struct {
	Subst       Substitution
	Constraints []Constraint
}

// GuidanceKind tags which of the three ambiguous shapes a Solution carries.
type GuidanceKind int

const (
	GuidanceUnknown GuidanceKind = iota
	GuidanceSuggested
	GuidanceDefinite
)

// Guidance is the payload of an ambiguous Solution.
type Guidance struct {
	Kind  GuidanceKind
	Subst *Canonical[Substitution] // non-nil for Suggested/Definite
}

// Solution is the aggregator's verdict: exactly one of Unique or Ambig is
// non-nil (§3 "Solution").
type Solution struct {
	Unique *Canonical[ConstrainedSubst]
	Ambig  *Guidance
}

func UniqueSolution(c Canonical[ConstrainedSubst]) *Solution {
	return &Solution{Unique: &c}
}

func AmbiguousSolution(g Guidance) *Solution {
	return &Solution{Ambig: &g}
}

// IsUnique reports whether this is a Unique solution.
func (s *Solution) IsUnique() bool { return s != nil && s.Unique != nil }

// IsAmbiguous reports whether this is an Ambig solution.
func (s *Solution) IsAmbiguous() bool { return s != nil && s.Ambig != nil }
