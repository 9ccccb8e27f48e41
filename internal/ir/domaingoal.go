package ir

// DomainGoal is the tagged union of atomic assertions named in §3.
type DomainGoal interface {
	isDomainGoal()
}

type sealedDG struct{}

func (sealedDG) isDomainGoal() {}

// ImplementedGoal asserts `TraitRef` holds, e.g. `Int: Eq<Int>`.
type ImplementedGoal struct {
	sealedDG
	TraitRef *TraitRef
}

// AliasEqGoal asserts an alias and a type are the same type without
// requesting the alias be the thing that's normalized (used when either
// side could be the alias).
type AliasEqGoal struct {
	sealedDG
	Alias AliasTy
	Ty    Ty
}

// NormalizeGoal asserts that normalizing Alias yields Ty.
type NormalizeGoal struct {
	sealedDG
	Alias AliasTy
	Ty    Ty
}

// WellFormedSubject is either a Ty or a TraitRef, the two things
// WellFormedGoal/FromEnvGoal can be asked about.
type WellFormedSubject struct {
	Ty       Ty
	TraitRef *TraitRef
}

type WellFormedGoal struct {
	sealedDG
	Subject WellFormedSubject
}

type FromEnvGoal struct {
	sealedDG
	Subject WellFormedSubject
}

type IsLocalGoal struct {
	sealedDG
	Ty Ty
}

type IsUpstreamGoal struct {
	sealedDG
	Ty Ty
}

type IsFullyVisibleGoal struct {
	sealedDG
	Ty Ty
}

type LocalImplAllowedGoal struct {
	sealedDG
	TraitRef *TraitRef
}

type DownstreamTypeGoal struct {
	sealedDG
	Ty Ty
}

type CompatibleGoal struct{ sealedDG }

type RevealGoal struct{ sealedDG }

type ObjectSafeGoal struct {
	sealedDG
	TraitID TraitID
}

type LifetimeOutlivesGoal struct {
	sealedDG
	A, B Lifetime
}

type TypeOutlivesGoal struct {
	sealedDG
	Ty Ty
	Lt Lifetime
}
