package truncate_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/truncate"
)

func TestTyWithinBudgetPassesThroughUnchanged(t *testing.T) {
	table := infer.NewTable()
	term := ir.AdtTy{ID: 1, Subst: ir.Substitution{ir.TyArg(ir.ScalarTy{Kind: ir.ScalarInt, Bits: 32})}}

	r := truncate.Ty(table, 10, term)
	if r.Truncated {
		t.Fatal("a small term within budget must not be reported truncated")
	}
	got, ok := r.Ty.(ir.AdtTy)
	if !ok || got.ID != 1 {
		t.Fatalf("want the term preserved as-is, got %+v", r.Ty)
	}
}

func TestTyOverBudgetReplacesSubtermWithFreshVariable(t *testing.T) {
	table := infer.NewTable()
	// Box<Box<Box<i32>>>, three AdtTy levels plus the scalar leaf: four
	// units of size, well past a budget of 1.
	inner := ir.Ty(ir.ScalarTy{Kind: ir.ScalarInt, Bits: 32})
	for i := 0; i < 3; i++ {
		inner = ir.AdtTy{ID: 9, Subst: ir.Substitution{ir.TyArg(inner)}}
	}

	r := truncate.Ty(table, 1, inner)
	if !r.Truncated {
		t.Fatal("a term exceeding the size budget must be reported truncated")
	}
	// The outermost constructor still fits the first unit of budget; only a
	// nested subterm collapses to a fresh variable.
	outer, ok := r.Ty.(ir.AdtTy)
	if !ok || outer.ID != 9 {
		t.Fatalf("want the outer shape preserved, got %+v", r.Ty)
	}
}

func TestTyLeafNeverDescendedPastBudget(t *testing.T) {
	table := infer.NewTable()
	r := truncate.Ty(table, 0, ir.ScalarTy{Kind: ir.ScalarInt, Bits: 8})
	if !r.Truncated {
		t.Fatal("a single leaf over a zero budget must be truncated")
	}
	if _, ok := r.Ty.(ir.InferenceVarTy); !ok {
		t.Fatalf("truncated leaf must become a fresh inference variable, got %+v", r.Ty)
	}
}

func TestSubstOnlyTouchesTySlots(t *testing.T) {
	table := infer.NewTable()
	lt := ir.StaticLifetime{}
	s := ir.Substitution{
		ir.TyArg(ir.ScalarTy{Kind: ir.ScalarInt, Bits: 32}),
		ir.LifetimeArg(lt),
	}

	out, truncated := truncate.Subst(table, 10, s)
	if truncated {
		t.Fatal("a substitution within budget must not be reported truncated")
	}
	if out[1].Lifetime != ir.Lifetime(lt) {
		t.Fatalf("non-Ty slots must pass through unchanged, got %+v", out[1])
	}
}
