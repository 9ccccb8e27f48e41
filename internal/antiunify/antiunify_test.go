package antiunify_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/antiunify"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
)

type intPayload int

func (p intPayload) Equals(other ir.ConcretePayload) bool {
	o, ok := other.(intPayload)
	return ok && o == p
}

func TestTySameAdtGeneralizesArgwise(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	a := ir.AdtTy{ID: 5, Subst: ir.Substitution{
		ir.TyArg(ir.ScalarTy{Kind: ir.ScalarInt, Bits: 32}),
	}}
	b := ir.AdtTy{ID: 5, Subst: ir.Substitution{
		ir.TyArg(ir.ScalarTy{Kind: ir.ScalarUint, Bits: 32}),
	}}

	got, ok := u.Ty(a, b).(ir.AdtTy)
	if !ok || got.ID != 5 {
		t.Fatalf("want AdtTy{ID:5,...}, got %+v", got)
	}
	if len(got.Subst) != 1 {
		t.Fatalf("want 1 generalized slot, got %d", len(got.Subst))
	}
	if _, ok := got.Subst[0].Ty.(ir.InferenceVarTy); !ok {
		t.Fatalf("mismatched scalar args must generalize to a fresh variable, got %+v", got.Subst[0].Ty)
	}
}

func TestTyMismatchedAdtIDsCollapseToFreshVariable(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	got := u.Ty(ir.AdtTy{ID: 1}, ir.AdtTy{ID: 2})
	if _, ok := got.(ir.InferenceVarTy); !ok {
		t.Fatalf("unequal ADT IDs must generalize to a fresh variable entirely, got %+v", got)
	}
}

func TestTyIdenticalScalarsGeneralizeToThemselves(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	s := ir.ScalarTy{Kind: ir.ScalarInt, Bits: 64}
	got := u.Ty(s, s)
	if got != ir.Ty(s) {
		t.Fatalf("two identical scalars must generalize to themselves unchanged, got %+v", got)
	}
}

func TestTyBoundVariableAlwaysDropsToFreshVariable(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	bv := ir.BoundVarTy{Var: ir.BoundVar{Depth: 0, Index: 0}}
	got := u.Ty(bv, bv)
	if _, ok := got.(ir.InferenceVarTy); !ok {
		t.Fatalf("bound variables must never generalize positionally, want a fresh variable, got %+v", got)
	}
}

func TestLifetimeIdenticalStaticGeneralizesToItself(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	got := u.Lifetime(ir.StaticLifetime{}, ir.StaticLifetime{})
	if _, ok := got.(ir.StaticLifetime); !ok {
		t.Fatalf("two 'static lifetimes must generalize to 'static, got %+v", got)
	}
}

func TestLifetimeMismatchedPlaceholdersDropToFreshVariable(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	a := ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: 0, Index: 0}}
	b := ir.PlaceholderLifetime{Placeholder: ir.Placeholder{Universe: 0, Index: 1}}
	got := u.Lifetime(a, b)
	if _, ok := got.(ir.InferenceVarLifetime); !ok {
		t.Fatalf("distinct placeholders must generalize to a fresh variable, got %+v", got)
	}
}

func TestConstConcreteEqualPayloadsGeneralizeToThemselves(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	ty := ir.ScalarTy{Kind: ir.ScalarInt, Bits: 32}
	a := &ir.Const{Ty: ty, Value: ir.ConcreteConst{Payload: intPayload(3)}}
	b := &ir.Const{Ty: ty, Value: ir.ConcreteConst{Payload: intPayload(3)}}

	got := u.Const(a, b)
	if got != a {
		t.Fatalf("equal concrete payloads must generalize to the same term, got %+v", got)
	}
}

func TestConstConcreteUnequalPayloadsGeneralizeToFreshVariable(t *testing.T) {
	table := infer.NewTable()
	u := antiunify.New(table, ir.RootUniverse)

	ty := ir.ScalarTy{Kind: ir.ScalarInt, Bits: 32}
	a := &ir.Const{Ty: ty, Value: ir.ConcreteConst{Payload: intPayload(3)}}
	b := &ir.Const{Ty: ty, Value: ir.ConcreteConst{Payload: intPayload(4)}}

	got := u.Const(a, b)
	if _, ok := got.Value.(ir.InferenceVarConst); !ok {
		t.Fatalf("unequal concrete payloads must generalize to a fresh variable, got %+v", got)
	}
	if got.Ty != ir.Ty(ty) {
		t.Fatalf("the fresh const must keep a's type, got %+v", got.Ty)
	}
}
