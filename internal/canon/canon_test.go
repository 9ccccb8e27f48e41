package canon_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/canon"
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
)

func TestCanonicalizeClosesFreeVarsInFirstEncounterOrder(t *testing.T) {
	table := infer.NewTable()
	v0 := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	v1 := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)

	// Pair{v1, v0, v1}: v1 is encountered first, v0 second, and v1's repeat
	// must collapse to the same bound-variable slot as its first mention.
	var term ir.Ty = ir.AdtTy{ID: 7, Subst: ir.Substitution{ir.TyArg(v1), ir.TyArg(v0), ir.TyArg(v1)}}

	c := canon.Canonicalize(table, term, fold.VisitTy, fold.Ty)
	if len(c.Binders) != 2 {
		t.Fatalf("want 2 distinct binders, got %d: %+v", len(c.Binders), c.Binders)
	}

	closed := c.Value.(ir.AdtTy)
	if len(closed.Subst) != 3 {
		t.Fatalf("want 3 substitution slots preserved, got %d", len(closed.Subst))
	}
	first := closed.Subst[0].Ty.(ir.BoundVarTy)
	second := closed.Subst[1].Ty.(ir.BoundVarTy)
	third := closed.Subst[2].Ty.(ir.BoundVarTy)
	if first.Var.Index != 0 || second.Var.Index != 1 {
		t.Fatalf("want v1 -> index 0, v0 -> index 1; got first=%+v second=%+v", first, second)
	}
	if third != first {
		t.Fatalf("repeated occurrences of the same free variable must close to the same BoundVar, got %+v vs %+v", third, first)
	}
}

func TestCanonicalizeRoundTripsThroughInstantiation(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	var term ir.Ty = ir.AdtTy{ID: 3, Subst: ir.Substitution{ir.TyArg(v)}}

	c := canon.Canonicalize(table, term, fold.VisitTy, fold.Ty)

	binders := ir.Binders[ir.Ty]{Kinds: []ir.VarKind{c.Binders[0].Kind}, Value: c.Value}
	fresh := infer.NewTable()
	opened, _ := infer.InstantiateBindersExistentially(fresh, binders, fold.Ty)
	rec := canon.Canonicalize(fresh, opened, fold.VisitTy, fold.Ty)

	if len(rec.Binders) != len(c.Binders) {
		t.Fatalf("canonicalize(instantiate(c)) must have the same binder shape as c: got %d, want %d",
			len(rec.Binders), len(c.Binders))
	}
	if reopened, ok := rec.Value.(ir.AdtTy); !ok || reopened.ID != 3 {
		t.Fatalf("round-trip must preserve the closed term's shape, got %+v", rec.Value)
	}
}

func TestUCanonicalizeCompactsUniverses(t *testing.T) {
	c := ir.Canonical[ir.Ty]{
		Binders: []ir.VarKindWithUniverse{
			{Kind: ir.KindTy, Universe: 5},
			{Kind: ir.KindTy, Universe: 2},
			{Kind: ir.KindTy, Universe: 5},
		},
	}
	uc := canon.UCanonicalize(c)

	if len(uc.UniverseMap.Compacted) != 2 {
		t.Fatalf("want 2 distinct universes compacted, got %d: %+v", len(uc.UniverseMap.Compacted), uc.UniverseMap.Compacted)
	}
	if uc.Canonical.Binders[0].Universe != 0 || uc.Canonical.Binders[1].Universe != 1 || uc.Canonical.Binders[2].Universe != 0 {
		t.Fatalf("want U5->U0, U2->U1, U5->U0 again; got %+v", uc.Canonical.Binders)
	}
	if uc.UniverseMap.ToOriginal(0) != 5 || uc.UniverseMap.ToOriginal(1) != 2 {
		t.Fatalf("UniverseMap must map compacted universes back to their originals, got %+v", uc.UniverseMap)
	}
}
