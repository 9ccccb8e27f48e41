package infer

import (
	"errors"

	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/ir"
)

// ErrOccurs is returned when a binding would create a cyclic term (the
// variable being bound appears, directly or indirectly, inside the value
// it's being bound to).
var ErrOccurs = errors.New("infer: occurs check failed (cyclic binding)")

// ErrUniverseEscape is returned when a placeholder in the bound value is not
// visible to the variable's universe (§4.4 point 2): a placeholder created
// in universe u may only be named by variables whose universe v satisfies
// u <= v.
var ErrUniverseEscape = errors.New("infer: placeholder escapes its universe")

// occursKind tags which union-find the variable being bound lives in, so
// the occurs-check visitor knows which VisitVar* callback detects a cycle.
type occursKind int

const (
	occursTyVar occursKind = iota
	occursLifetimeVar
	occursConstVar
)

// occursChecker walks a value about to be bound to some variable, enforcing
// §4.4's three obligations: reject cycles, reject universe-escaping
// placeholders, and promote (or, for lifetimes, defer) any other variable
// found in a universe higher than the binding variable's.
type occursChecker struct {
	fold.NoopVisitor
	table *Table

	kind       occursKind
	bindRoot   int
	universe   ir.Universe

	err         error
	constraints []ir.Constraint
}

func (o *occursChecker) fail(err error) bool {
	if o.err == nil {
		o.err = err
	}
	return true // stop traversal
}

func (o *occursChecker) VisitVarTy(v ir.InferVar, _ ir.TySort) bool {
	root := o.table.tys.find(v.Index)
	if o.kind == occursTyVar && root == o.bindRoot {
		return o.fail(ErrOccurs)
	}
	o.table.tys.promote(root, o.universe)
	return false
}

func (o *occursChecker) VisitVarConst(v ir.InferVar) bool {
	root := o.table.consts.find(v.Index)
	if o.kind == occursConstVar && root == o.bindRoot {
		return o.fail(ErrOccurs)
	}
	o.table.consts.promote(root, o.universe)
	return false
}

func (o *occursChecker) VisitVarLifetime(v ir.InferVar) bool {
	root := o.table.lts.find(v.Index)
	if o.kind == occursLifetimeVar && root == o.bindRoot {
		return o.fail(ErrOccurs)
	}
	if o.table.lts.root(root).universe > o.universe {
		// §4.4 point 4: lifetimes are checked by a region solver elsewhere,
		// so promotion is replaced by a deferred LifetimeEq constraint
		// between the escaping variable and a fresh one allocated in the
		// binding variable's universe; we union them internally too, since
		// an equality constraint between a variable and a fresh
		// unconstrained twin is exactly what "may as well be the same
		// variable, pending the region solver" means here.
		fresh := o.table.lts.newVar(o.universe)
		constraint := ir.LifetimeEqConstraint{
			A: ir.InferenceVarLifetime{Var: ir.InferVar{Index: root}},
			B: ir.InferenceVarLifetime{Var: ir.InferVar{Index: fresh}},
		}
		o.table.lts.union(root, fresh)
		o.constraints = append(o.constraints, constraint)
	}
	return false
}

func (o *occursChecker) VisitPlaceholderTy(p ir.Placeholder) bool {
	if p.Universe > o.universe {
		return o.fail(ErrUniverseEscape)
	}
	return false
}

func (o *occursChecker) VisitPlaceholderLifetime(p ir.Placeholder) bool {
	if p.Universe > o.universe {
		return o.fail(ErrUniverseEscape)
	}
	return false
}

func (o *occursChecker) VisitPlaceholderConst(p ir.Placeholder) bool {
	if p.Universe > o.universe {
		return o.fail(ErrUniverseEscape)
	}
	return false
}

// occursCheckTy runs the occurs check for `value` about to be bound to the
// Ty variable rooted at bindRoot in universe universe, returning the
// deferred lifetime constraints it produced.
func (t *Table) occursCheckTy(bindRoot int, universe ir.Universe, value ir.Ty) ([]ir.Constraint, error) {
	oc := &occursChecker{table: t, kind: occursTyVar, bindRoot: bindRoot, universe: universe}
	fold.VisitTy(oc, value, 0)
	return oc.constraints, oc.err
}

func (t *Table) occursCheckLifetime(bindRoot int, universe ir.Universe, value ir.Lifetime) ([]ir.Constraint, error) {
	oc := &occursChecker{table: t, kind: occursLifetimeVar, bindRoot: bindRoot, universe: universe}
	fold.VisitLifetime(oc, value, 0)
	return oc.constraints, oc.err
}

func (t *Table) occursCheckConst(bindRoot int, universe ir.Universe, value *ir.Const) ([]ir.Constraint, error) {
	oc := &occursChecker{table: t, kind: occursConstVar, bindRoot: bindRoot, universe: universe}
	fold.VisitConst(oc, value, 0)
	return oc.constraints, oc.err
}

// BindTyVar binds the Ty variable at idx to value after running the occurs
// check, returning any deferred LifetimeEq constraints the check produced.
// The caller (typically the unifier) is responsible for taking a snapshot
// first if it wants to roll the binding back on failure.
func (t *Table) BindTyVar(idx int, value ir.Ty) ([]ir.Constraint, error) {
	root := t.tys.find(idx)
	universe := t.tys.root(root).universe
	constraints, err := t.occursCheckTy(root, universe, value)
	if err != nil {
		return nil, err
	}
	t.tys.bind(root, value)
	return constraints, nil
}

// BindLifetimeVar is the Lifetime analog of BindTyVar.
func (t *Table) BindLifetimeVar(idx int, value ir.Lifetime) ([]ir.Constraint, error) {
	root := t.lts.find(idx)
	universe := t.lts.root(root).universe
	constraints, err := t.occursCheckLifetime(root, universe, value)
	if err != nil {
		return nil, err
	}
	t.lts.bind(root, value)
	return constraints, nil
}

// BindConstVar is the Const analog of BindTyVar.
func (t *Table) BindConstVar(idx int, value *ir.Const) ([]ir.Constraint, error) {
	root := t.consts.find(idx)
	universe := t.consts.root(root).universe
	constraints, err := t.occursCheckConst(root, universe, value)
	if err != nil {
		return nil, err
	}
	t.consts.bind(root, value)
	return constraints, nil
}

// UnionTyVars unifies two unbound Ty variables by union-find merge rather
// than binding one to the other (§4.5 "Var<->Var (same kind): union in the
// table"). Both must currently be unbound; callers check that first via
// NormalizeShallowTy.
func (t *Table) UnionTyVars(a, b int) int { return t.tys.union(a, b) }

// UnionLifetimeVars is the Lifetime analog of UnionTyVars.
func (t *Table) UnionLifetimeVars(a, b int) int { return t.lts.union(a, b) }

// UnionConstVars is the Const analog of UnionTyVars.
func (t *Table) UnionConstVars(a, b int) int { return t.consts.union(a, b) }
