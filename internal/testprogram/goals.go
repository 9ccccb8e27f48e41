package testprogram

import (
	"github.com/funvibe/funxy/internal/canon"
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
)

// visitInEnvGoal/foldInEnvGoal are the Visit/Transform pair
// canon.Canonicalize needs for InEnvironment[Goal] — a package-local copy
// of the same pair internal/slg and internal/recursive each keep, since an
// exported shared helper would force an import both those packages would
// otherwise have no reason to take on this leaf fixture package.
func visitInEnvGoal(v fold.Visitor, ie ir.InEnvironment[ir.Goal], outer int) bool {
	return fold.VisitGoal(v, ie.Goal, outer)
}

func foldInEnvGoal(f fold.Folder, ie ir.InEnvironment[ir.Goal], outer int) ir.InEnvironment[ir.Goal] {
	return ir.InEnvironment[ir.Goal]{Environment: ie.Environment, Goal: fold.GoalF(f, ie.Goal, outer)}
}

// EmptyEnv returns an Environment with no local clauses, the starting
// point for every top-level goal a fixture builds.
func EmptyEnv() *ir.Environment { return &ir.Environment{} }

// Implemented builds the DomainGoalWrapper(ImplementedGoal) leaf for
// `SelfSubst[0]: TraitID<SelfSubst[1:]>`.
func Implemented(traitID ir.TraitID, subst ...ir.GenericArg) ir.Goal {
	return ir.DomainGoalWrapper{DomainGoal: ir.ImplementedGoal{
		TraitRef: &ir.TraitRef{TraitID: traitID, Subst: subst},
	}}
}

// Not negates a goal (negation-as-failure).
func Not(g ir.Goal) ir.Goal { return ir.NotGoal{Goal: g} }

// All requires every one of goals to hold.
func All(goals ...ir.Goal) ir.Goal { return ir.AllGoal{Goals: goals} }

// Implies builds `if (clauses) { goal }`: clauses is a fact-only program
// clause list (each with no conditions of its own) temporarily added to
// the environment while proving goal.
func Implies(clauses []*ir.ProgramClause, goal ir.Goal) ir.Goal {
	return ir.ImpliesGoal{Clauses: clauses, Goal: goal}
}

// Fact builds a single unconditional `Param: TraitID` program clause, the
// shape Implies's Clauses argument needs for a hypothetical like
// `if (T: Send) { ... }`.
func Fact(traitID ir.TraitID, subst ...ir.GenericArg) *ir.ProgramClause {
	return &ir.ProgramClause{Binders: ir.Binders[ir.Implication]{
		Value: ir.Implication{Consequence: ir.ImplementedGoal{
			TraitRef: &ir.TraitRef{TraitID: traitID, Subst: subst},
		}},
	}}
}

// Exists wraps body in an `exists<kinds...> { body }` binder.
func Exists(kinds []ir.VarKind, body ir.Goal) ir.Goal {
	return ir.QuantifiedGoal{Kind: ir.Exists, Binders: ir.Binders[ir.Goal]{Kinds: kinds, Value: body}}
}

// Forall wraps body in a `forall<kinds...> { body }` binder.
func Forall(kinds []ir.VarKind, body ir.Goal) ir.Goal {
	return ir.QuantifiedGoal{Kind: ir.Forall, Binders: ir.Binders[ir.Goal]{Kinds: kinds, Value: body}}
}

// Subtype builds a `Subtype(a, b)` goal over a bare pair of types, the
// covariant-unification leaf solveViaSubtype/solveFromClauses' EqGoal
// sibling handles directly (§4.5).
func Subtype(a, b ir.Ty) ir.Goal { return ir.SubtypeGoal{A: a, B: b} }

// BoundTy/BoundLifetime name the Nth variable bound by the nearest
// enclosing Binders (Exists/Forall/impl generics) at DeBruijn depth 0 —
// the reference every fixture uses to talk about "the type this impl or
// quantifier just introduced."
func BoundTy(index int) ir.Ty { return ir.BoundVarTy{Var: ir.BoundVar{Depth: 0, Index: index}} }

func BoundLifetime(index int) ir.Lifetime {
	return ir.BoundVarLifetime{Var: ir.BoundVar{Depth: 0, Index: index}}
}

// RootGoal canonicalizes and u-canonicalizes a goal in env using a fresh
// inference table, the shape internal/solver's Solve/SolveMultiple
// consume. A top-level goal built from these helpers is always ground (no
// free inference variables — every variable it mentions is bound by an
// Exists/Forall inside it), so a throwaway table is all canonicalization
// needs.
func RootGoal(env *ir.Environment, g ir.Goal) ir.UCanonicalGoal {
	table := infer.NewTable()
	ie := ir.InEnvironment[ir.Goal]{Environment: env, Goal: g}
	c := canon.Canonicalize(table, ie, visitInEnvGoal, foldInEnvGoal)
	return canon.UCanonicalize(c)
}
