package aggregate_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/aggregate"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/slg"
)

func oneTyBinderGoal() ir.UCanonicalGoal {
	return ir.UCanonicalGoal{
		Canonical: ir.Canonical[ir.InEnvironment[ir.Goal]]{
			Binders: []ir.VarKindWithUniverse{{Kind: ir.KindTy, Universe: 0}},
		},
	}
}

func answerOf(slot ir.Ty) slg.CompleteAnswer {
	return slg.CompleteAnswer{
		Subst: ir.Canonical[ir.ConstrainedSubst]{
			Binders: []ir.VarKindWithUniverse{{Kind: ir.KindTy, Universe: 0}},
			Value:   ir.ConstrainedSubst{Subst: ir.Substitution{ir.TyArg(slot)}},
		},
	}
}

func TestMakeSolutionNoAnswersNotFlounderedIsNil(t *testing.T) {
	table := &slg.Table{}
	if got := aggregate.MakeSolution(oneTyBinderGoal(), table, nil); got != nil {
		t.Fatalf("no answers and no floundering must yield a nil Solution, got %+v", got)
	}
}

func TestMakeSolutionNoAnswersFlounderedIsAmbiguousUnknown(t *testing.T) {
	table := &slg.Table{Floundered: true}
	got := aggregate.MakeSolution(oneTyBinderGoal(), table, nil)
	if !got.IsAmbiguous() {
		t.Fatalf("floundering with no answers must yield an ambiguous solution, got %+v", got)
	}
	if got.Ambig.Kind != ir.GuidanceUnknown {
		t.Fatalf("want GuidanceUnknown, got %+v", got.Ambig)
	}
}

func TestMakeSolutionSingleAnswerIsUnique(t *testing.T) {
	table := &slg.Table{Answers: []slg.CompleteAnswer{answerOf(ir.AdtTy{ID: 1})}}
	got := aggregate.MakeSolution(oneTyBinderGoal(), table, nil)
	if !got.IsUnique() {
		t.Fatalf("exactly one non-ambiguous answer must yield a unique solution, got %+v", got)
	}
}

func TestMakeSolutionUnrelatedAnswersCollapseToUnknownGuidance(t *testing.T) {
	table := &slg.Table{Answers: []slg.CompleteAnswer{
		answerOf(ir.AdtTy{ID: 1}),
		answerOf(ir.AdtTy{ID: 2}),
	}}
	got := aggregate.MakeSolution(oneTyBinderGoal(), table, nil)
	if !got.IsAmbiguous() {
		t.Fatalf("two structurally unrelated answers must yield ambiguity, got %+v", got)
	}
	if got.Ambig.Kind != ir.GuidanceUnknown {
		t.Fatalf("a top-level generalization with no shared structure must report GuidanceUnknown, got %+v", got.Ambig)
	}
}

func TestMakeSolutionPartiallySharedAnswersYieldDefiniteGuidance(t *testing.T) {
	const fooID ir.AdtID = 7
	const barID ir.AdtID = 8
	const bazID ir.AdtID = 9

	table := &slg.Table{Answers: []slg.CompleteAnswer{
		answerOf(ir.AdtTy{ID: fooID, Subst: ir.Substitution{ir.TyArg(ir.AdtTy{ID: barID})}}),
		answerOf(ir.AdtTy{ID: fooID, Subst: ir.Substitution{ir.TyArg(ir.AdtTy{ID: bazID})}}),
	}}
	got := aggregate.MakeSolution(oneTyBinderGoal(), table, nil)
	if !got.IsAmbiguous() {
		t.Fatalf("two answers sharing an outer constructor must still be ambiguous (not unique), got %+v", got)
	}
	if got.Ambig.Kind != ir.GuidanceDefinite {
		t.Fatalf("shared outer structure must produce definite guidance, got %+v", got.Ambig)
	}
	merged := got.Ambig.Subst.Value
	if len(merged) != 1 {
		t.Fatalf("want 1 merged substitution slot, got %d", len(merged))
	}
	adt, ok := merged[0].Ty.(ir.AdtTy)
	if !ok || adt.ID != fooID {
		t.Fatalf("merged guidance must keep the shared Foo<...> shape, got %+v", merged[0].Ty)
	}
}

func TestMakeSolutionExpectedAnswersMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("a mismatched expectedAnswers count must panic (solvererr.Invariant)")
		}
	}()
	table := &slg.Table{Answers: []slg.CompleteAnswer{answerOf(ir.AdtTy{ID: 1})}}
	expected := 2
	aggregate.MakeSolution(oneTyBinderGoal(), table, &expected)
}
