package ir_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/ir"
)

func TestVarianceXformTable(t *testing.T) {
	cases := []struct {
		ambient, local, want ir.Variance
	}{
		{ir.Invariant, ir.Covariant, ir.Invariant},
		{ir.Invariant, ir.Contravariant, ir.Invariant},
		{ir.Invariant, ir.Bivariant, ir.Invariant},
		{ir.Covariant, ir.Covariant, ir.Covariant},
		{ir.Covariant, ir.Contravariant, ir.Contravariant},
		{ir.Covariant, ir.Invariant, ir.Invariant},
		{ir.Covariant, ir.Bivariant, ir.Bivariant},
		{ir.Contravariant, ir.Covariant, ir.Contravariant},
		{ir.Contravariant, ir.Contravariant, ir.Covariant},
		{ir.Contravariant, ir.Invariant, ir.Invariant},
		{ir.Contravariant, ir.Bivariant, ir.Bivariant},
		{ir.Bivariant, ir.Covariant, ir.Bivariant},
		{ir.Bivariant, ir.Invariant, ir.Bivariant},
	}
	for _, c := range cases {
		if got := c.ambient.Xform(c.local); got != c.want {
			t.Errorf("%v.Xform(%v) = %v, want %v", c.ambient, c.local, got, c.want)
		}
	}
}

func TestUniverseCanSeeAndNext(t *testing.T) {
	u0 := ir.RootUniverse
	u1 := u0.Next()
	if u1 != 1 {
		t.Fatalf("RootUniverse.Next() = %v, want U1", u1)
	}
	if !u0.CanSee(u1) {
		t.Fatal("an outer universe must see into a deeper one (u <= v)")
	}
	if u1.CanSee(u0) {
		t.Fatal("a deeper universe must not see into an outer one it wasn't introduced in")
	}
	if !u0.CanSee(u0) {
		t.Fatal("a universe must see itself")
	}
}

func TestBoundVarShifted(t *testing.T) {
	bv := ir.BoundVar{Depth: 2, Index: 5}
	shiftedIn := bv.Shifted(3)
	if shiftedIn != (ir.BoundVar{Depth: 5, Index: 5}) {
		t.Fatalf("Shifted(3) = %+v, want {5 5}", shiftedIn)
	}
	shiftedOut := shiftedIn.Shifted(-3)
	if shiftedOut != bv {
		t.Fatalf("shifted_in ∘ shifted_out must be identity: got %+v, want %+v", shiftedOut, bv)
	}
}

func TestSubstitutionIdentity(t *testing.T) {
	kinds := []ir.VarKind{ir.KindTy, ir.KindLifetime, ir.KindConst}
	s := ir.Identity(kinds)
	if !s.IsIdentity() {
		t.Fatalf("Identity(%v) must report IsIdentity() == true, got %+v", kinds, s)
	}
	if got := s.Kinds(); len(got) != 3 || got[0] != ir.KindTy || got[1] != ir.KindLifetime || got[2] != ir.KindConst {
		t.Fatalf("Kinds() round-trip mismatch: got %v, want %v", got, kinds)
	}

	notIdentity := ir.Substitution{ir.TyArg(ir.AdtTy{ID: 0})}
	if notIdentity.IsIdentity() {
		t.Fatal("a ground (non-bound-var) substitution must not report IsIdentity()")
	}
}

func TestSolutionConstructors(t *testing.T) {
	unique := ir.UniqueSolution(ir.Canonical[ir.ConstrainedSubst]{})
	if !unique.IsUnique() || unique.IsAmbiguous() {
		t.Fatalf("UniqueSolution must be Unique, not Ambiguous: %+v", unique)
	}

	ambig := ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown})
	if !ambig.IsAmbiguous() || ambig.IsUnique() {
		t.Fatalf("AmbiguousSolution must be Ambiguous, not Unique: %+v", ambig)
	}

	var nilSol *ir.Solution
	if nilSol.IsUnique() || nilSol.IsAmbiguous() {
		t.Fatal("a nil *Solution (representing None) must be neither Unique nor Ambiguous")
	}
}
