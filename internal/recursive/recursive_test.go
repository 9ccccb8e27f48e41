package recursive_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/recursive"
	"github.com/funvibe/funxy/internal/solvererr"
	"github.com/funvibe/funxy/internal/testprogram"
)

func TestSolveRootFindsUniqueGroundSolution(t *testing.T) {
	b := testprogram.New()
	foo := b.Struct(0)
	eq := b.Trait(testprogram.TraitOpts{Arity: 0})
	b.Impl(testprogram.ImplSpec{TraitID: eq, SelfTy: func([]ir.GenericArg) ir.Ty { return testprogram.AdtTy(foo) }})

	goal := testprogram.Implemented(eq, ir.TyArg(testprogram.AdtTy(foo)))
	ucGoal := testprogram.RootGoal(testprogram.EmptyEnv(), goal)

	solver := recursive.NewSolver(b.DB, recursive.Config{OverflowDepth: 64, CachingEnabled: true})
	sol, err := solver.SolveRoot(ucGoal)
	if err != nil {
		t.Fatalf("SolveRoot: unexpected error %v", err)
	}
	if !sol.IsUnique() {
		t.Fatalf("want a unique solution for a single matching ground impl, got %+v", sol)
	}
}

func TestSolveRootNoMatchingImplReturnsNilSolution(t *testing.T) {
	b := testprogram.New()
	foo := b.Struct(0)
	eq := b.Trait(testprogram.TraitOpts{Arity: 0})

	goal := testprogram.Implemented(eq, ir.TyArg(testprogram.AdtTy(foo)))
	ucGoal := testprogram.RootGoal(testprogram.EmptyEnv(), goal)

	solver := recursive.NewSolver(b.DB, recursive.Config{OverflowDepth: 64})
	sol, err := solver.SolveRoot(ucGoal)
	if err != solvererr.ErrNoSolution {
		t.Fatalf("SolveRoot: want solvererr.ErrNoSolution when nothing proves the goal, got %v", err)
	}
	if sol != nil {
		t.Fatalf("want a nil solution when nothing proves the goal, got %+v", sol)
	}
}

func TestSolveRootCachePersistsAcrossCalls(t *testing.T) {
	b := testprogram.New()
	foo := b.Struct(0)
	eq := b.Trait(testprogram.TraitOpts{Arity: 0})
	b.Impl(testprogram.ImplSpec{TraitID: eq, SelfTy: func([]ir.GenericArg) ir.Ty { return testprogram.AdtTy(foo) }})

	goal := testprogram.Implemented(eq, ir.TyArg(testprogram.AdtTy(foo)))
	ucGoal := testprogram.RootGoal(testprogram.EmptyEnv(), goal)

	solver := recursive.NewSolver(b.DB, recursive.Config{OverflowDepth: 64, CachingEnabled: true})
	first, err := solver.SolveRoot(ucGoal)
	if err != nil {
		t.Fatalf("first SolveRoot: unexpected error %v", err)
	}
	second, err := solver.SolveRoot(ucGoal)
	if err != nil {
		t.Fatalf("second SolveRoot: unexpected error %v", err)
	}
	if !first.IsUnique() || !second.IsUnique() {
		t.Fatalf("both calls must find the same unique solution, got %+v and %+v", first, second)
	}
}
