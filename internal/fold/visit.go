package fold

import "github.com/funvibe/funxy/internal/ir"

// Visitor is a read-only fold that may short-circuit: each callback
// returns true to request the traversal stop immediately ("Break").
type Visitor interface {
	VisitVarTy(v ir.InferVar, sort ir.TySort) bool
	VisitPlaceholderTy(p ir.Placeholder) bool
	VisitBoundVarTy(bv ir.BoundVar, outerBinder int) bool

	VisitVarLifetime(v ir.InferVar) bool
	VisitPlaceholderLifetime(p ir.Placeholder) bool
	VisitBoundVarLifetime(bv ir.BoundVar, outerBinder int) bool

	VisitVarConst(v ir.InferVar) bool
	VisitPlaceholderConst(p ir.Placeholder) bool
	VisitBoundVarConst(bv ir.BoundVar, outerBinder int) bool
}

// NoopVisitor is embeddable by visitors that only care about a subset of
// callbacks; every method returns false (continue).
type NoopVisitor struct{}

func (NoopVisitor) VisitVarTy(ir.InferVar, ir.TySort) bool        { return false }
func (NoopVisitor) VisitPlaceholderTy(ir.Placeholder) bool        { return false }
func (NoopVisitor) VisitBoundVarTy(ir.BoundVar, int) bool         { return false }
func (NoopVisitor) VisitVarLifetime(ir.InferVar) bool             { return false }
func (NoopVisitor) VisitPlaceholderLifetime(ir.Placeholder) bool  { return false }
func (NoopVisitor) VisitBoundVarLifetime(ir.BoundVar, int) bool   { return false }
func (NoopVisitor) VisitVarConst(ir.InferVar) bool                { return false }
func (NoopVisitor) VisitPlaceholderConst(ir.Placeholder) bool     { return false }
func (NoopVisitor) VisitBoundVarConst(ir.BoundVar, int) bool      { return false }

// VisitTy walks t, returning true the moment some callback requests a stop.
func VisitTy(v Visitor, t ir.Ty, outerBinder int) bool {
	switch x := t.(type) {
	case ir.BoundVarTy:
		return v.VisitBoundVarTy(x.Var, outerBinder)
	case ir.InferenceVarTy:
		return v.VisitVarTy(x.Var, x.Sort)
	case ir.PlaceholderTy:
		return v.VisitPlaceholderTy(x.Placeholder)
	case ir.DynTy:
		if VisitGoals(v, x.Bounds.Value, outerBinder+1) {
			return true
		}
		return VisitLifetime(v, x.Lifetime, outerBinder)
	case ir.AliasTy:
		if x.Projection != nil {
			return VisitSubst(v, x.Projection.Subst, outerBinder)
		}
		if x.Opaque != nil {
			return VisitSubst(v, x.Opaque.Subst, outerBinder)
		}
		return false
	case ir.FunctionTy:
		return visitFnSig(v, x.Sig.Value, outerBinder+1)
	case ir.TupleTy:
		return VisitSubst(v, x.Subst, outerBinder)
	case ir.SliceTy:
		return VisitTy(v, x.Elem, outerBinder)
	case ir.ArrayTy:
		if VisitTy(v, x.Elem, outerBinder) {
			return true
		}
		return VisitConst(v, x.Const, outerBinder)
	case ir.RefTy:
		if VisitLifetime(v, x.Lifetime, outerBinder) {
			return true
		}
		return VisitTy(v, x.Elem, outerBinder)
	case ir.RawPtrTy:
		return VisitTy(v, x.Elem, outerBinder)
	case ir.AdtTy:
		return VisitSubst(v, x.Subst, outerBinder)
	case ir.AssociatedTypeTy:
		return VisitSubst(v, x.Subst, outerBinder)
	case ir.FnDefTy:
		return VisitSubst(v, x.Subst, outerBinder)
	case ir.ClosureTy:
		return VisitSubst(v, x.Subst, outerBinder)
	case ir.CoroutineTy:
		return VisitSubst(v, x.Subst, outerBinder)
	case ir.CoroutineWitnessTy:
		return VisitSubst(v, x.Subst, outerBinder)
	case ir.OpaqueTypeTy:
		return VisitSubst(v, x.Subst, outerBinder)
	default:
		return false
	}
}

func visitFnSig(v Visitor, sig ir.FnSig, outerBinder int) bool {
	for _, a := range sig.ArgumentTypes {
		if VisitTy(v, a, outerBinder) {
			return true
		}
	}
	return VisitTy(v, sig.ReturnType, outerBinder)
}

func VisitLifetime(v Visitor, l ir.Lifetime, outerBinder int) bool {
	switch x := l.(type) {
	case ir.BoundVarLifetime:
		return v.VisitBoundVarLifetime(x.Var, outerBinder)
	case ir.InferenceVarLifetime:
		return v.VisitVarLifetime(x.Var)
	case ir.PlaceholderLifetime:
		return v.VisitPlaceholderLifetime(x.Placeholder)
	default:
		return false
	}
}

func VisitConst(v Visitor, c *ir.Const, outerBinder int) bool {
	if c == nil {
		return false
	}
	if VisitTy(v, c.Ty, outerBinder) {
		return true
	}
	switch x := c.Value.(type) {
	case ir.BoundVarConst:
		return v.VisitBoundVarConst(x.Var, outerBinder)
	case ir.InferenceVarConst:
		return v.VisitVarConst(x.Var)
	case ir.PlaceholderConst:
		return v.VisitPlaceholderConst(x.Placeholder)
	default:
		return false
	}
}

func VisitSubst(v Visitor, s ir.Substitution, outerBinder int) bool {
	for _, a := range s {
		switch a.Kind {
		case ir.KindLifetime:
			if VisitLifetime(v, a.Lifetime, outerBinder) {
				return true
			}
		case ir.KindConst:
			if VisitConst(v, a.Const, outerBinder) {
				return true
			}
		default:
			if VisitTy(v, a.Ty, outerBinder) {
				return true
			}
		}
	}
	return false
}

func VisitGoals(v Visitor, gs []ir.Goal, outerBinder int) bool {
	for _, g := range gs {
		if VisitGoal(v, g, outerBinder) {
			return true
		}
	}
	return false
}

func VisitGoal(v Visitor, g ir.Goal, outerBinder int) bool {
	switch x := g.(type) {
	case ir.AllGoal:
		return VisitGoals(v, x.Goals, outerBinder)
	case ir.ImpliesGoal:
		return VisitGoal(v, x.Goal, outerBinder)
	case ir.QuantifiedGoal:
		return VisitGoal(v, x.Binders.Value, outerBinder+1)
	case ir.NotGoal:
		return VisitGoal(v, x.Goal, outerBinder)
	case ir.EqGoal:
		if visitGenericArg(v, x.A, outerBinder) {
			return true
		}
		return visitGenericArg(v, x.B, outerBinder)
	case ir.SubtypeGoal:
		if VisitTy(v, x.A, outerBinder) {
			return true
		}
		return VisitTy(v, x.B, outerBinder)
	case ir.DomainGoalWrapper:
		return VisitDomainGoal(v, x.DomainGoal, outerBinder)
	default:
		return false
	}
}

func visitGenericArg(v Visitor, a ir.GenericArg, outerBinder int) bool {
	switch a.Kind {
	case ir.KindLifetime:
		return VisitLifetime(v, a.Lifetime, outerBinder)
	case ir.KindConst:
		return VisitConst(v, a.Const, outerBinder)
	default:
		return VisitTy(v, a.Ty, outerBinder)
	}
}

func VisitDomainGoal(v Visitor, d ir.DomainGoal, outerBinder int) bool {
	switch x := d.(type) {
	case ir.ImplementedGoal:
		if x.TraitRef == nil {
			return false
		}
		return VisitSubst(v, x.TraitRef.Subst, outerBinder)
	case ir.AliasEqGoal:
		if VisitTy(v, x.Alias, outerBinder) {
			return true
		}
		return VisitTy(v, x.Ty, outerBinder)
	case ir.NormalizeGoal:
		if VisitTy(v, x.Alias, outerBinder) {
			return true
		}
		return VisitTy(v, x.Ty, outerBinder)
	case ir.LifetimeOutlivesGoal:
		if VisitLifetime(v, x.A, outerBinder) {
			return true
		}
		return VisitLifetime(v, x.B, outerBinder)
	case ir.TypeOutlivesGoal:
		if VisitTy(v, x.Ty, outerBinder) {
			return true
		}
		return VisitLifetime(v, x.Lt, outerBinder)
	default:
		return false
	}
}

// HasFreeVars reports whether g mentions any free inference variable —
// used by the SLG forest to decide whether a negative literal is ground
// enough to schedule (§4.7 "Floundering").
func HasFreeVars(g ir.Goal) bool {
	return VisitGoal(freeVarDetector{}, g, 0)
}

// HasFreeVarsInSubst is HasFreeVars' Substitution-level counterpart, used by
// a Database to decide whether a non-enumerable trait's argument list is
// ground enough to enumerate local impls for, rather than floundering
// (§4.7's floundering rule generalized to domain-goal dispatch, not just
// negative-literal scheduling).
func HasFreeVarsInSubst(s ir.Substitution) bool {
	return VisitSubst(freeVarDetector{}, s, 0)
}

type freeVarDetector struct{ NoopVisitor }

func (freeVarDetector) VisitVarTy(ir.InferVar, ir.TySort) bool { return true }
func (freeVarDetector) VisitVarLifetime(ir.InferVar) bool      { return true }
func (freeVarDetector) VisitVarConst(ir.InferVar) bool         { return true }
