package slg_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/slg"
	"github.com/funvibe/funxy/internal/testprogram"
)

func TestAnswersResolvesGroundGoalToOneAnswer(t *testing.T) {
	b := testprogram.New()
	foo := b.Struct(0)
	eq := b.Trait(testprogram.TraitOpts{Arity: 0})
	b.Impl(testprogram.ImplSpec{TraitID: eq, SelfTy: func([]ir.GenericArg) ir.Ty { return testprogram.AdtTy(foo) }})

	goal := testprogram.Implemented(eq, ir.TyArg(testprogram.AdtTy(foo)))
	ucGoal := testprogram.RootGoal(testprogram.EmptyEnv(), goal)

	forest := slg.NewForest(b.DB, slg.Config{MaxSize: 32})
	table, err := forest.Answers(ucGoal)
	if err != nil {
		t.Fatalf("Answers: unexpected error %v", err)
	}
	if table.Floundered {
		t.Fatal("a ground, resolvable goal must not flounder")
	}
	if len(table.Answers) != 1 {
		t.Fatalf("want exactly 1 answer, got %d: %+v", len(table.Answers), table.Answers)
	}
}

func TestAnswersNoMatchingImplYieldsZeroAnswersNotFlounder(t *testing.T) {
	b := testprogram.New()
	foo := b.Struct(0)
	eq := b.Trait(testprogram.TraitOpts{Arity: 0})
	// No impl registered for Foo: Eq at all.

	goal := testprogram.Implemented(eq, ir.TyArg(testprogram.AdtTy(foo)))
	ucGoal := testprogram.RootGoal(testprogram.EmptyEnv(), goal)

	forest := slg.NewForest(b.DB, slg.Config{MaxSize: 32})
	table, err := forest.Answers(ucGoal)
	if err != nil {
		t.Fatalf("Answers: unexpected error %v", err)
	}
	if table.Floundered {
		t.Fatal("an unresolvable but well-formed ground goal must not flounder, just report no answers")
	}
	if len(table.Answers) != 0 {
		t.Fatalf("want 0 answers, got %d", len(table.Answers))
	}
}

func TestAnswersMaxAnswersCapsComputation(t *testing.T) {
	b := testprogram.New()
	bar := b.Struct(0)
	baz := b.Struct(0)
	sour := b.Trait(testprogram.TraitOpts{Arity: 0})
	b.Impl(testprogram.ImplSpec{TraitID: sour, SelfTy: func([]ir.GenericArg) ir.Ty { return testprogram.AdtTy(bar) }})
	b.Impl(testprogram.ImplSpec{TraitID: sour, SelfTy: func([]ir.GenericArg) ir.Ty { return testprogram.AdtTy(baz) }})

	// exists<T> { T: Sour } matches both Bar and Baz; cap the table at 1.
	goal := testprogram.Exists([]ir.VarKind{ir.KindTy}, testprogram.Implemented(sour, ir.TyArg(testprogram.BoundTy(0))))
	ucGoal := testprogram.RootGoal(testprogram.EmptyEnv(), goal)

	forest := slg.NewForest(b.DB, slg.Config{MaxSize: 32, MaxAnswers: 1})
	table, err := forest.Answers(ucGoal)
	if err != nil {
		t.Fatalf("Answers: unexpected error %v", err)
	}
	if len(table.Answers) != 1 {
		t.Fatalf("MaxAnswers: 1 must cap the table at exactly 1 answer, got %d", len(table.Answers))
	}
}
