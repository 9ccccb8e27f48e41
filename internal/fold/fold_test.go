package fold_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
)

func TestShiftedInThenOutIsIdentity(t *testing.T) {
	bv := ir.BoundVarTy{Var: ir.BoundVar{Depth: 2, Index: 1}}
	in := fold.ShiftedInTy(bv, 3)
	out, err := fold.ShiftedOutTy(in, 3)
	if err != nil {
		t.Fatalf("ShiftedOutTy: unexpected error %v", err)
	}
	if out != ir.Ty(bv) {
		t.Fatalf("shifted_in ∘ shifted_out must be identity: got %+v, want %+v", out, bv)
	}
}

func TestShiftedOutRejectsNegativeDepth(t *testing.T) {
	bv := ir.BoundVarTy{Var: ir.BoundVar{Depth: 0, Index: 0}}
	if _, err := fold.ShiftedOutTy(bv, 1); err == nil {
		t.Fatal("shifting a bound variable out past its own depth must fail, not underflow")
	}
}

func TestHasFreeVarsDetectsInferenceVariable(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	goal := ir.DomainGoalWrapper{DomainGoal: ir.ImplementedGoal{TraitRef: &ir.TraitRef{
		TraitID: 1,
		Subst:   ir.Substitution{ir.TyArg(v)},
	}}}
	if !fold.HasFreeVars(goal) {
		t.Fatal("a goal referencing a free inference variable must report HasFreeVars == true")
	}
}

func TestHasFreeVarsGroundGoalIsFalse(t *testing.T) {
	goal := ir.DomainGoalWrapper{DomainGoal: ir.ImplementedGoal{TraitRef: &ir.TraitRef{
		TraitID: 1,
		Subst:   ir.Substitution{ir.TyArg(ir.AdtTy{ID: 5})},
	}}}
	if fold.HasFreeVars(goal) {
		t.Fatal("a fully ground goal must report HasFreeVars == false")
	}
}

func TestHasFreeVarsInSubstMirrorsHasFreeVars(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	if !fold.HasFreeVarsInSubst(ir.Substitution{ir.TyArg(v)}) {
		t.Fatal("a substitution slot holding a free variable must report true")
	}
	if fold.HasFreeVarsInSubst(ir.Substitution{ir.TyArg(ir.AdtTy{ID: 1})}) {
		t.Fatal("a fully ground substitution must report false")
	}
}
