package intern_test

import (
	"sync"
	"testing"

	"github.com/funvibe/funxy/internal/intern"
)

func TestInternTySameKeyReturnsSameID(t *testing.T) {
	table := intern.NewTable()
	a := table.InternTy("Adt(5, [])")
	b := table.InternTy("Adt(5, [])")
	if a != b {
		t.Fatalf("interning the same structural key twice must return the same ID, got %v and %v", a, b)
	}
	if table.Stats().Tys != 1 {
		t.Fatalf("want exactly 1 distinct type interned, got %d", table.Stats().Tys)
	}
}

func TestInternTyDistinctKeysGetDistinctIDs(t *testing.T) {
	table := intern.NewTable()
	a := table.InternTy("Adt(1, [])")
	b := table.InternTy("Adt(2, [])")
	if a == b {
		t.Fatal("distinct structural keys must never collide on the same ID")
	}
	if table.Stats().Tys != 2 {
		t.Fatalf("want exactly 2 distinct types interned, got %d", table.Stats().Tys)
	}
}

func TestTyKeyOfRoundTrips(t *testing.T) {
	table := intern.NewTable()
	id := table.InternTy("Adt(7, [])")
	if got := table.TyKeyOf(id); got != "Adt(7, [])" {
		t.Fatalf("TyKeyOf(InternTy(key)) = %q, want %q", got, "Adt(7, [])")
	}
}

func TestChannelsAreIndependentNamespaces(t *testing.T) {
	table := intern.NewTable()
	tyID := table.InternTy("x")
	substID := table.InternSubst("x")
	// Same textual key in two different channels must not be forced to share
	// numbering; each channel starts its own IDs at 0.
	if intern.ID(tyID) != 0 || intern.ID(substID) != 0 {
		t.Fatalf("each channel must number independently from 0, got ty=%v subst=%v", tyID, substID)
	}
}

func TestInternIsConcurrencySafe(t *testing.T) {
	table := intern.NewTable()
	var wg sync.WaitGroup
	ids := make([]intern.TyID, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = table.InternTy("same-key")
		}(i)
	}
	wg.Wait()
	for i := 1; i < 100; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent interning of the same key must converge on one ID, got %v and %v", ids[0], ids[i])
		}
	}
	if table.Stats().Tys != 1 {
		t.Fatalf("want exactly 1 distinct type interned despite concurrent callers, got %d", table.Stats().Tys)
	}
}
