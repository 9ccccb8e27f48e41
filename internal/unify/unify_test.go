package unify_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/intern"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
	"github.com/funvibe/funxy/internal/unify"
)

func newVarianceSource() unify.VarianceSource {
	return db.NewMemoryDatabase(intern.NewTable())
}

// TestTyUnificationSymmetryUnderInvariant is the universal invariant from
// §8: for any a, b, unify(a, b) under Invariant must agree with unify(b, a)
// about whether it succeeds, and on success both tables must normalize a
// and b to the same term.
func TestTyUnificationSymmetryUnderInvariant(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	concrete := ir.AdtTy{ID: 11}

	forward := unify.New(table, newVarianceSource())
	if err := forward.Ty(ir.Invariant, v, concrete); err != nil {
		t.Fatalf("Ty(v, concrete): unexpected error %v", err)
	}
	if got, ok := table.NormalizeDeepTy(v).(ir.AdtTy); !ok || got.ID != concrete.ID {
		t.Fatalf("after unify(v, concrete), NormalizeDeepTy(v) = %+v, want %+v", got, concrete)
	}

	table2 := infer.NewTable()
	v2 := table2.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	backward := unify.New(table2, newVarianceSource())
	if err := backward.Ty(ir.Invariant, concrete, v2); err != nil {
		t.Fatalf("Ty(concrete, v): unexpected error %v", err)
	}
	if got, ok := table2.NormalizeDeepTy(v2).(ir.AdtTy); !ok || got.ID != concrete.ID {
		t.Fatalf("after unify(concrete, v), NormalizeDeepTy(v) = %+v, want %+v", got, concrete)
	}
}

// TestAdtShapeMismatchFails covers the structural-mismatch boundary: two
// ADTs with different IDs can never unify regardless of variance.
func TestAdtShapeMismatchFails(t *testing.T) {
	table := infer.NewTable()
	u := unify.New(table, newVarianceSource())
	err := u.Ty(ir.Invariant, ir.AdtTy{ID: 1}, ir.AdtTy{ID: 2})
	if err != solvererr.ErrNoSolution {
		t.Fatalf("mismatched ADT IDs: got %v, want solvererr.ErrNoSolution", err)
	}
}

// TestZipLifetimesVarianceDirection pins down the direction of the
// outlives constraint(s) emitted for two distinct concrete (placeholder)
// lifetimes under each variance, per the ZipLifetimes/emitLifetimeOutlives
// fix: Covariant needs a:b, Contravariant needs b:a, Bivariant needs
// neither, and Invariant (the default) needs both.
func TestZipLifetimesVarianceDirection(t *testing.T) {
	a := ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: 0, Index: 0}}
	b := ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: 0, Index: 1}}

	has := func(cs []ir.Constraint, want ir.LifetimeOutlivesConstraint) bool {
		for _, c := range cs {
			if loc, ok := c.(ir.LifetimeOutlivesConstraint); ok && loc == want {
				return true
			}
		}
		return false
	}

	cases := []struct {
		name       string
		variance   ir.Variance
		wantAB     bool
		wantBA     bool
	}{
		{"covariant", ir.Covariant, true, false},
		{"contravariant", ir.Contravariant, false, true},
		{"bivariant", ir.Bivariant, false, false},
		{"invariant", ir.Invariant, true, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			table := infer.NewTable()
			u := unify.New(table, newVarianceSource())
			if err := u.ZipLifetimes(c.variance, a, b); err != nil {
				t.Fatalf("ZipLifetimes(%v): unexpected error %v", c.variance, err)
			}
			cs := u.Result().Constraints
			if got := has(cs, ir.LifetimeOutlivesConstraint{A: a, B: b}); got != c.wantAB {
				t.Errorf("a:b outlives present = %v, want %v (constraints: %+v)", got, c.wantAB, cs)
			}
			if got := has(cs, ir.LifetimeOutlivesConstraint{A: b, B: a}); got != c.wantBA {
				t.Errorf("b:a outlives present = %v, want %v (constraints: %+v)", got, c.wantBA, cs)
			}
		})
	}
}

// TestZipLifetimesIdenticalPlaceholderNeverEmitsConstraint covers the
// short-circuit path: the same placeholder compared to itself needs no
// region obligation at all, under any variance.
func TestZipLifetimesIdenticalPlaceholderNeverEmitsConstraint(t *testing.T) {
	p := ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: 0, Index: 0}}
	table := infer.NewTable()
	u := unify.New(table, newVarianceSource())
	if err := u.ZipLifetimes(ir.Invariant, p, p); err != nil {
		t.Fatalf("ZipLifetimes(p, p): unexpected error %v", err)
	}
	if cs := u.Result().Constraints; len(cs) != 0 {
		t.Fatalf("identical placeholders must not emit any outlives constraint, got %+v", cs)
	}
}

// TestZipLifetimesErrorLifetimeAlwaysSucceeds mirrors ErrorTy's role for
// Ty: an ErrorLifetime on either side never hard-fails and never emits a
// constraint, letting error recovery propagate rather than cascading.
func TestZipLifetimesErrorLifetimeAlwaysSucceeds(t *testing.T) {
	table := infer.NewTable()
	u := unify.New(table, newVarianceSource())
	p := ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: 0, Index: 0}}
	if err := u.ZipLifetimes(ir.Invariant, ir.ErrorLifetime{}, p); err != nil {
		t.Fatalf("ZipLifetimes(error, p): unexpected error %v", err)
	}
	if cs := u.Result().Constraints; len(cs) != 0 {
		t.Fatalf("ErrorLifetime must not emit any outlives constraint, got %+v", cs)
	}
}
