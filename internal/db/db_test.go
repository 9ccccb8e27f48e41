package db_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/intern"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
)

func TestProgramClausesReturnsRegisteredClauses(t *testing.T) {
	d := db.NewMemoryDatabase(intern.NewTable())
	clause := &ir.ProgramClause{}
	d.Clauses[1] = []*ir.ProgramClause{clause}

	goal := ir.ImplementedGoal{TraitRef: &ir.TraitRef{TraitID: 1}}
	env := &ir.Environment{}
	got, err := d.ProgramClauses(env, goal)
	if err != nil {
		t.Fatalf("ProgramClauses: unexpected error %v", err)
	}
	if len(got) != 1 || got[0] != clause {
		t.Fatalf("want the single registered clause, got %+v", got)
	}
}

func TestProgramClausesFloundersOnNonImplementedGoal(t *testing.T) {
	d := db.NewMemoryDatabase(intern.NewTable())
	if _, err := d.ProgramClauses(&ir.Environment{}, ir.WellFormedGoal{}); err != solvererr.ErrFloundered {
		t.Fatalf("a non-ImplementedGoal domain goal must flounder, got %v", err)
	}
}

func TestProgramClausesFloundersOnNonEnumerableWithFreeVars(t *testing.T) {
	d := db.NewMemoryDatabase(intern.NewTable())
	d.Traits[2] = &ir.TraitDatum{ID: 2, NonEnumerable: true}

	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	goal := ir.ImplementedGoal{TraitRef: &ir.TraitRef{TraitID: 2, Subst: ir.Substitution{ir.TyArg(v)}}}

	if _, err := d.ProgramClauses(&ir.Environment{}, goal); err != solvererr.ErrFloundered {
		t.Fatalf("a non-enumerable trait queried with a free variable must flounder, got %v", err)
	}
}

func TestProgramClausesGroundNonEnumerableResolvesNormally(t *testing.T) {
	d := db.NewMemoryDatabase(intern.NewTable())
	d.Traits[2] = &ir.TraitDatum{ID: 2, NonEnumerable: true}
	clause := &ir.ProgramClause{}
	d.Clauses[2] = []*ir.ProgramClause{clause}

	goal := ir.ImplementedGoal{TraitRef: &ir.TraitRef{TraitID: 2, Subst: ir.Substitution{ir.TyArg(ir.AdtTy{ID: 9})}}}
	got, err := d.ProgramClauses(&ir.Environment{}, goal)
	if err != nil {
		t.Fatalf("a ground query against a non-enumerable trait must not flounder, got %v", err)
	}
	if len(got) != 1 || got[0] != clause {
		t.Fatalf("want the registered clause back, got %+v", got)
	}
}

func TestAdtVarianceUnregisteredReturnsNil(t *testing.T) {
	d := db.NewMemoryDatabase(intern.NewTable())
	if got := d.AdtVariance(99); got != nil {
		t.Fatalf("an unregistered ADT must report nil variance, got %+v", got)
	}
}

func TestTraitRefFromProjectionBuildsTraitRefFromDeclaringTrait(t *testing.T) {
	d := db.NewMemoryDatabase(intern.NewTable())
	d.Traits[3] = &ir.TraitDatum{
		ID:      3,
		Binders: ir.Binders[ir.TraitBoundData]{Kinds: []ir.VarKind{ir.KindTy}},
	}
	d.AssocTys[4] = &ir.AssociatedTyDatum{ID: 4, TraitID: 3}

	proj := &ir.Projection{AssocTyID: 4, Subst: ir.Substitution{ir.TyArg(ir.AdtTy{ID: 1}), ir.TyArg(ir.AdtTy{ID: 2})}}
	ref := d.TraitRefFromProjection(proj)
	if ref == nil || ref.TraitID != 3 {
		t.Fatalf("want a TraitRef naming the declaring trait, got %+v", ref)
	}
	if len(ref.Subst) != 1 {
		t.Fatalf("want the substitution truncated to the trait's own binder count, got %+v", ref.Subst)
	}
}

func TestImplProvidedForRespectsRegisteredAutoImpls(t *testing.T) {
	d := db.NewMemoryDatabase(intern.NewTable())
	d.AutoImpls[5] = map[ir.AdtID]bool{10: true}

	if !d.ImplProvidedFor(5, 10) {
		t.Fatal("a registered auto-impl must report ImplProvidedFor == true")
	}
	if d.ImplProvidedFor(5, 11) {
		t.Fatal("an unregistered ADT must report ImplProvidedFor == false")
	}
	if d.ImplProvidedFor(6, 10) {
		t.Fatal("an unregistered trait must report ImplProvidedFor == false")
	}
}
