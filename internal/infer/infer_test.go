package infer_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
)

func TestNewVariableStartsUnbound(t *testing.T) {
	table := infer.NewTable()
	arg := table.NewVariable(ir.KindTy, ir.RootUniverse)
	if _, ok := table.NormalizeShallowTy(arg.Ty); ok {
		t.Fatal("a freshly created variable must not normalize to anything yet")
	}
}

func TestBindThenNormalizeShallow(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	idx := v.(ir.InferenceVarTy).Var.Index

	concrete := ir.AdtTy{ID: 42}
	if _, err := table.BindTyVar(idx, concrete); err != nil {
		t.Fatalf("BindTyVar: unexpected error %v", err)
	}

	got, ok := table.NormalizeShallowTy(v)
	if !ok {
		t.Fatal("a bound variable must normalize to its binding")
	}
	if adt, ok := got.(ir.AdtTy); !ok || adt.ID != 42 {
		t.Fatalf("want AdtTy{ID:42}, got %+v", got)
	}
}

func TestSnapshotRollbackDeterminism(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	idx := v.(ir.InferenceVarTy).Var.Index

	snap := table.TakeSnapshot()
	if _, err := table.BindTyVar(idx, ir.AdtTy{ID: 1}); err != nil {
		t.Fatalf("BindTyVar: unexpected error %v", err)
	}
	if _, ok := table.NormalizeShallowTy(v); !ok {
		t.Fatal("variable should be bound right after BindTyVar")
	}

	table.RollbackTo(snap)
	if _, ok := table.NormalizeShallowTy(v); ok {
		t.Fatal("rollback must undo the binding made after the snapshot")
	}

	// Querying the same rolled-back state twice must agree: rollback is not
	// a one-shot operation.
	if _, ok := table.NormalizeShallowTy(v); ok {
		t.Fatal("repeated queries after rollback must keep returning the same unbound state")
	}
}

func TestOccursCheckRejectsSelfReference(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	idx := v.(ir.InferenceVarTy).Var.Index

	cyclic := ir.AdtTy{ID: 0, Subst: ir.Substitution{ir.TyArg(v)}}
	if _, err := table.BindTyVar(idx, cyclic); err == nil {
		t.Fatal("binding a variable to a term that contains itself must fail the occurs check")
	}
}

func TestNewUniverseIsStrictlyDeeper(t *testing.T) {
	table := infer.NewTable()
	u0 := table.MaxUniverse()
	u1 := table.NewUniverse()
	if !u0.CanSee(u1) || u0 == u1 {
		t.Fatalf("NewUniverse() must return a strictly deeper universe than %v, got %v", u0, u1)
	}
}

func TestWithSnapshotRollsBackOnError(t *testing.T) {
	table := infer.NewTable()
	v := table.NewTyVariable(ir.RootUniverse, ir.SortGeneral)
	idx := v.(ir.InferenceVarTy).Var.Index

	sentinel := errAlways{}
	err := table.WithSnapshot(func() error {
		if _, bindErr := table.BindTyVar(idx, ir.AdtTy{ID: 9}); bindErr != nil {
			t.Fatalf("BindTyVar: unexpected error %v", bindErr)
		}
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("WithSnapshot must propagate the callback's error, got %v", err)
	}
	if _, ok := table.NormalizeShallowTy(v); ok {
		t.Fatal("WithSnapshot must roll back bindings made while its callback returned an error")
	}
}

type errAlways struct{}

func (errAlways) Error() string { return "always fails" }
