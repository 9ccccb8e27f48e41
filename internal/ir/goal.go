package ir

// Goal is the tagged union of provable statements named in §3.
type Goal interface {
	isGoal()
}

type sealedGoal struct{}

func (sealedGoal) isGoal() {}

// AllGoal requires every sub-goal to hold.
type AllGoal struct {
	sealedGoal
	Goals []Goal
}

// ImpliesGoal requires Goal to hold given Clauses additionally in scope.
type ImpliesGoal struct {
	sealedGoal
	Clauses []*ProgramClause
	Goal    Goal
}

// QuantifiedGoal introduces a forall/exists binder around a nested goal.
type QuantifiedGoal struct {
	sealedGoal
	Kind    QuantifierKind
	Binders Binders[Goal]
}

// NotGoal is the negation of a goal (§4.7 "Negation-as-failure").
type NotGoal struct {
	sealedGoal
	Goal Goal
}

// EqGoal demands two generic arguments be equal (invariant unification).
type EqGoal struct {
	sealedGoal
	A, B GenericArg
}

// SubtypeGoal demands A be a subtype of B (covariant unification, §4.5).
type SubtypeGoal struct {
	sealedGoal
	A, B Ty
}

// DomainGoalWrapper lifts a DomainGoal into a Goal.
type DomainGoalWrapper struct {
	sealedGoal
	DomainGoal DomainGoal
}

// CannotProveGoal is a goal the solver treats as always ambiguous — never
// succeeding, never failing — used for constructs whose provability this
// core deliberately does not decide (e.g. clause-generator stand-ins in
// tests).
type CannotProveGoal struct{ sealedGoal }

// InEnvironment pairs a value (typically a Goal) with the environment its
// free variables are checked against.
type InEnvironment[T any] struct {
	Environment *Environment
	Goal        T
}

// Environment is an ordered list of in-scope clauses (§3 "Environment").
type Environment struct {
	Clauses []*ProgramClause
}

// Extended returns a new Environment with extra clauses appended, used when
// entering an ImpliesGoal (the new clauses come last so a lookup that wants
// "most specific first" can reverse-iterate; this core's clause ordering is
// entirely a function of what `program_clauses` already returned, so
// Extended never reorders, only appends).
func (e *Environment) Extended(extra []*ProgramClause) *Environment {
	clauses := make([]*ProgramClause, 0, len(e.Clauses)+len(extra))
	clauses = append(clauses, e.Clauses...)
	clauses = append(clauses, extra...)
	return &Environment{Clauses: clauses}
}
