// Package aggregate implements "make_solution" (§4.8): turning the full set
// of answers a table produced into the single verdict a caller of Solve
// sees — a unique substitution, ambiguity with some guidance, or nothing at
// all.
//
// Grounded on chalk's `make_solution` (original_source/chalk-engine/src/
// slg/aggregate.rs). Where chalk pulls answers lazily from an
// `AnswerStream` one at a time (peeking ahead to check for `may_invalidate`
// before committing to pulling another), this implementation works from
// the forest's already-fully-computed `Table.Answers` slice — a documented
// consequence of internal/slg's eager, non-suspendable driving model (see
// that package's doc comment). The merge loop below walks every remaining
// answer unconditionally rather than stopping early via `any_future_answer`,
// which only costs a few extra (monotonic, harmless) anti-unification
// passes, never a wrong verdict.
package aggregate

import (
	"github.com/funvibe/funxy/internal/antiunify"
	"github.com/funvibe/funxy/internal/canon"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/slg"
	"github.com/funvibe/funxy/internal/solvererr"
)

func mapToSubst(c ir.Canonical[ir.ConstrainedSubst]) ir.Canonical[ir.Substitution] {
	return ir.Canonical[ir.Substitution]{Binders: c.Binders, Value: c.Value.Subst}
}

func identitySubst(rootGoal ir.UCanonicalGoal) ir.Canonical[ir.ConstrainedSubst] {
	kinds := make([]ir.VarKind, len(rootGoal.Canonical.Binders))
	for i, b := range rootGoal.Canonical.Binders {
		kinds[i] = b.Kind
	}
	return ir.Canonical[ir.ConstrainedSubst]{
		Binders: rootGoal.Canonical.Binders,
		Value:   ir.ConstrainedSubst{Subst: ir.Identity(kinds)},
	}
}

// MakeSolution consumes every answer table has found and collapses it into
// a Solution, or nil if the goal has no solution at all. expectedAnswers,
// when non-nil, is asserted against the number of answers actually
// consumed — a fixture-testing aid mirroring chalk's own
// `self.expected_answers` assertion, not used by ordinary solving.
func MakeSolution(rootGoal ir.UCanonicalGoal, table *slg.Table, expectedAnswers *int) *ir.Solution {
	answers := table.Answers
	if len(answers) == 0 {
		if table.Floundered {
			return ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown})
		}
		return nil
	}

	first := answers[0]
	numAnswers := 1

	if len(answers) == 1 && !first.Ambiguous {
		checkExpected(expectedAnswers, numAnswers)
		return ir.UniqueSolution(first.Subst)
	}

	subst := mapToSubst(first.Subst)
	var guidance ir.Guidance
	i := 1
	for {
		if len(subst.Value) == 0 || subst.Value.IsIdentity() {
			guidance = ir.Guidance{Kind: ir.GuidanceUnknown}
			break
		}
		if i >= len(answers) {
			s := subst
			guidance = ir.Guidance{Kind: ir.GuidanceDefinite, Subst: &s}
			break
		}

		numAnswers++
		newSubst := answers[i].Subst.Value.Subst
		subst = mergeIntoGuidance(rootGoal.Canonical, subst, newSubst)
		i++
	}

	checkExpected(expectedAnswers, numAnswers)
	return ir.AmbiguousSolution(guidance)
}

func checkExpected(expected *int, got int) {
	if expected != nil && *expected != got {
		solvererr.Invariant("aggregate: expected %d answers, solved for %d", *expected, got)
	}
}

// mergeIntoGuidance folds a newly pulled answer into the running guidance
// substitution, anti-unifying each corresponding slot in a brand new
// inference table (guidance substitutions carry no relation to any solve's
// live table — they're freestanding canonical terms), per §4.9.
func mergeIntoGuidance(rootGoal ir.Canonical[ir.InEnvironment[ir.Goal]], guidance ir.Canonical[ir.Substitution], answer ir.Substitution) ir.Canonical[ir.Substitution] {
	fresh := infer.NewTable()
	out := make(ir.Substitution, len(guidance.Value))
	for i := range guidance.Value {
		p1 := guidance.Value[i]
		p2 := answer[i]
		universe := rootGoal.Binders[i].Universe

		if p1.Kind == ir.KindLifetime {
			out[i] = ir.LifetimeArg(fresh.NewVariable(ir.KindLifetime, universe).Lifetime)
			continue
		}

		au := antiunify.New(fresh, universe)
		out[i] = au.GenericArg(p1, p2)
	}
	return canon.CanonicalizeSubst(fresh, out)
}
