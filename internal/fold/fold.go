// Package fold implements the three generic traversals every term in
// internal/ir is processed through: Fold (rewrite), Visit (read-only,
// short-circuiting), and Zip (parallel structural recursion, §4.2).
//
// All three are DeBruijn-aware: as they descend through a Binders[T] they
// track outerBinder, the number of binder levels crossed so far, and pass
// it to callbacks so a callback that builds a replacement term spanning
// zero binders can shift it to the right depth itself (fold does not shift
// the terms callbacks return).
package fold

import "github.com/funvibe/funxy/internal/ir"

// Folder receives a callback for every free inference variable, free
// placeholder, and (rarely, for callers doing instantiation) bound
// variable a Fold encounters, and returns its replacement. outerBinder is
// the number of binder levels the fold has descended through since the
// root of the term being folded.
type Folder interface {
	FoldVarTy(outerBinder int, v ir.InferVar, sort ir.TySort) ir.Ty
	FoldPlaceholderTy(outerBinder int, p ir.Placeholder) ir.Ty
	FoldBoundVarTy(outerBinder int, bv ir.BoundVar) ir.Ty

	FoldVarLifetime(outerBinder int, v ir.InferVar) ir.Lifetime
	FoldPlaceholderLifetime(outerBinder int, p ir.Placeholder) ir.Lifetime
	FoldBoundVarLifetime(outerBinder int, bv ir.BoundVar) ir.Lifetime

	FoldVarConst(outerBinder int, ty ir.Ty, v ir.InferVar) *ir.Const
	FoldPlaceholderConst(outerBinder int, ty ir.Ty, p ir.Placeholder) *ir.Const
	FoldBoundVarConst(outerBinder int, ty ir.Ty, bv ir.BoundVar) *ir.Const
}

// Identity is an embeddable Folder whose every callback reconstructs the
// same term unchanged; concrete folders embed it and override only the
// callbacks they care about, the way the teacher embeds small structs to
// get free default behavior (`sealed` marker embedding in internal/ir).
type Identity struct{}

func (Identity) FoldVarTy(_ int, v ir.InferVar, sort ir.TySort) ir.Ty {
	return ir.InferenceVarTy{Var: v, Sort: sort}
}
func (Identity) FoldPlaceholderTy(_ int, p ir.Placeholder) ir.Ty {
	return ir.PlaceholderTy{Placeholder: p}
}
func (Identity) FoldBoundVarTy(_ int, bv ir.BoundVar) ir.Ty { return ir.BoundVarTy{Var: bv} }

func (Identity) FoldVarLifetime(_ int, v ir.InferVar) ir.Lifetime {
	return ir.InferenceVarLifetime{Var: v}
}
func (Identity) FoldPlaceholderLifetime(_ int, p ir.Placeholder) ir.Lifetime {
	return ir.PlaceholderLifetime{Placeholder: p}
}
func (Identity) FoldBoundVarLifetime(_ int, bv ir.BoundVar) ir.Lifetime {
	return ir.BoundVarLifetime{Var: bv}
}

func (Identity) FoldVarConst(_ int, ty ir.Ty, v ir.InferVar) *ir.Const {
	return &ir.Const{Ty: ty, Value: ir.InferenceVarConst{Var: v}}
}
func (Identity) FoldPlaceholderConst(_ int, ty ir.Ty, p ir.Placeholder) *ir.Const {
	return &ir.Const{Ty: ty, Value: ir.PlaceholderConst{Placeholder: p}}
}
func (Identity) FoldBoundVarConst(_ int, ty ir.Ty, bv ir.BoundVar) *ir.Const {
	return &ir.Const{Ty: ty, Value: ir.BoundVarConst{Var: bv}}
}

// Ty rewrites t by invoking f's callbacks on every variable/placeholder it
// contains, recursing structurally through composite constructors.
func Ty(f Folder, t ir.Ty, outerBinder int) ir.Ty {
	switch v := t.(type) {
	case ir.BoundVarTy:
		return f.FoldBoundVarTy(outerBinder, v.Var)
	case ir.InferenceVarTy:
		return f.FoldVarTy(outerBinder, v.Var, v.Sort)
	case ir.PlaceholderTy:
		return f.FoldPlaceholderTy(outerBinder, v.Placeholder)
	case ir.DynTy:
		return ir.DynTy{
			Bounds:   BindersT(f, v.Bounds, outerBinder, Goals),
			Lifetime: Lifetime(f, v.Lifetime, outerBinder),
		}
	case ir.AliasTy:
		out := ir.AliasTy{Kind: v.Kind}
		if v.Projection != nil {
			p := ir.Projection{AssocTyID: v.Projection.AssocTyID, Subst: Subst(f, v.Projection.Subst, outerBinder)}
			out.Projection = &p
		}
		if v.Opaque != nil {
			o := ir.OpaqueTyApplication{OpaqueTyID: v.Opaque.OpaqueTyID, Subst: Subst(f, v.Opaque.Subst, outerBinder)}
			out.Opaque = &o
		}
		return out
	case ir.FunctionTy:
		return ir.FunctionTy{Sig: BindersT(f, v.Sig, outerBinder, FnSig)}
	case ir.ErrorTy:
		return v
	case ir.ScalarTy:
		return v
	case ir.StrTy:
		return v
	case ir.NeverTy:
		return v
	case ir.TupleTy:
		return ir.TupleTy{Arity: v.Arity, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.SliceTy:
		return ir.SliceTy{Elem: Ty(f, v.Elem, outerBinder)}
	case ir.ArrayTy:
		return ir.ArrayTy{Elem: Ty(f, v.Elem, outerBinder), Const: ConstT(f, v.Const, outerBinder)}
	case ir.RefTy:
		return ir.RefTy{Mutability: v.Mutability, Lifetime: Lifetime(f, v.Lifetime, outerBinder), Elem: Ty(f, v.Elem, outerBinder)}
	case ir.RawPtrTy:
		return ir.RawPtrTy{Mutability: v.Mutability, Elem: Ty(f, v.Elem, outerBinder)}
	case ir.AdtTy:
		return ir.AdtTy{ID: v.ID, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.AssociatedTypeTy:
		return ir.AssociatedTypeTy{ID: v.ID, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.FnDefTy:
		return ir.FnDefTy{ID: v.ID, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.ClosureTy:
		return ir.ClosureTy{ID: v.ID, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.CoroutineTy:
		return ir.CoroutineTy{ID: v.ID, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.CoroutineWitnessTy:
		return ir.CoroutineWitnessTy{ID: v.ID, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.OpaqueTypeTy:
		return ir.OpaqueTypeTy{ID: v.ID, Subst: Subst(f, v.Subst, outerBinder)}
	case ir.ForeignTy:
		return v
	default:
		panic("fold: unhandled Ty variant")
	}
}

func FnSig(f Folder, sig ir.FnSig, outerBinder int) ir.FnSig {
	args := make([]ir.Ty, len(sig.ArgumentTypes))
	for i, a := range sig.ArgumentTypes {
		args[i] = Ty(f, a, outerBinder)
	}
	return ir.FnSig{ArgumentTypes: args, ReturnType: Ty(f, sig.ReturnType, outerBinder), Variadic: sig.Variadic}
}

// Lifetime rewrites l.
func Lifetime(f Folder, l ir.Lifetime, outerBinder int) ir.Lifetime {
	switch v := l.(type) {
	case ir.BoundVarLifetime:
		return f.FoldBoundVarLifetime(outerBinder, v.Var)
	case ir.InferenceVarLifetime:
		return f.FoldVarLifetime(outerBinder, v.Var)
	case ir.PlaceholderLifetime:
		return f.FoldPlaceholderLifetime(outerBinder, v.Placeholder)
	case ir.StaticLifetime, ir.ErasedLifetime, ir.ErrorLifetime:
		return v
	default:
		panic("fold: unhandled Lifetime variant")
	}
}

// ConstT rewrites c (named ConstT to avoid colliding with ir.Const the type).
func ConstT(f Folder, c *ir.Const, outerBinder int) *ir.Const {
	if c == nil {
		return nil
	}
	ty := Ty(f, c.Ty, outerBinder)
	switch v := c.Value.(type) {
	case ir.BoundVarConst:
		return f.FoldBoundVarConst(outerBinder, ty, v.Var)
	case ir.InferenceVarConst:
		return f.FoldVarConst(outerBinder, ty, v.Var)
	case ir.PlaceholderConst:
		return f.FoldPlaceholderConst(outerBinder, ty, v.Placeholder)
	case ir.ConcreteConst:
		return &ir.Const{Ty: ty, Value: v}
	default:
		panic("fold: unhandled ConstValue variant")
	}
}

// GenericArgF rewrites a single substitution slot.
func GenericArgF(f Folder, a ir.GenericArg, outerBinder int) ir.GenericArg {
	switch a.Kind {
	case ir.KindLifetime:
		return ir.LifetimeArg(Lifetime(f, a.Lifetime, outerBinder))
	case ir.KindConst:
		return ir.ConstArg(ConstT(f, a.Const, outerBinder))
	default:
		return ir.TyArg(Ty(f, a.Ty, outerBinder))
	}
}

// Subst rewrites every slot of a substitution.
func Subst(f Folder, s ir.Substitution, outerBinder int) ir.Substitution {
	if s == nil {
		return nil
	}
	out := make(ir.Substitution, len(s))
	for i, a := range s {
		out[i] = GenericArgF(f, a, outerBinder)
	}
	return out
}

// BindersT folds the body of a Binders one level deeper (outerBinder+1),
// using foldValue to fold the payload type generically.
func BindersT[T any](f Folder, b ir.Binders[T], outerBinder int, foldValue func(Folder, T, int) T) ir.Binders[T] {
	return ir.Binders[T]{Kinds: b.Kinds, Value: foldValue(f, b.Value, outerBinder+1)}
}

// Goals folds a []Goal, used as a Binders payload folder for DynTy bounds.
func Goals(f Folder, gs []ir.Goal, outerBinder int) []ir.Goal {
	out := make([]ir.Goal, len(gs))
	for i, g := range gs {
		out[i] = GoalF(f, g, outerBinder)
	}
	return out
}

// GoalF rewrites a Goal.
func GoalF(f Folder, g ir.Goal, outerBinder int) ir.Goal {
	switch v := g.(type) {
	case ir.AllGoal:
		return ir.AllGoal{Goals: Goals(f, v.Goals, outerBinder)}
	case ir.ImpliesGoal:
		clauses := make([]*ir.ProgramClause, len(v.Clauses))
		for i, c := range v.Clauses {
			clauses[i] = Clause(f, c, outerBinder)
		}
		return ir.ImpliesGoal{Clauses: clauses, Goal: GoalF(f, v.Goal, outerBinder)}
	case ir.QuantifiedGoal:
		return ir.QuantifiedGoal{Kind: v.Kind, Binders: BindersT(f, v.Binders, outerBinder, GoalF)}
	case ir.NotGoal:
		return ir.NotGoal{Goal: GoalF(f, v.Goal, outerBinder)}
	case ir.EqGoal:
		return ir.EqGoal{A: GenericArgF(f, v.A, outerBinder), B: GenericArgF(f, v.B, outerBinder)}
	case ir.SubtypeGoal:
		return ir.SubtypeGoal{A: Ty(f, v.A, outerBinder), B: Ty(f, v.B, outerBinder)}
	case ir.DomainGoalWrapper:
		return ir.DomainGoalWrapper{DomainGoal: DomainGoalF(f, v.DomainGoal, outerBinder)}
	case ir.CannotProveGoal:
		return v
	default:
		panic("fold: unhandled Goal variant")
	}
}

func wellFormedSubject(f Folder, s ir.WellFormedSubject, outerBinder int) ir.WellFormedSubject {
	out := ir.WellFormedSubject{}
	if s.Ty != nil {
		out.Ty = Ty(f, s.Ty, outerBinder)
	}
	if s.TraitRef != nil {
		out.TraitRef = TraitRefF(f, s.TraitRef, outerBinder)
	}
	return out
}

// TraitRefF rewrites a TraitRef's substitution.
func TraitRefF(f Folder, t *ir.TraitRef, outerBinder int) *ir.TraitRef {
	if t == nil {
		return nil
	}
	return &ir.TraitRef{TraitID: t.TraitID, Subst: Subst(f, t.Subst, outerBinder)}
}

// DomainGoalF rewrites a DomainGoal.
func DomainGoalF(f Folder, d ir.DomainGoal, outerBinder int) ir.DomainGoal {
	switch v := d.(type) {
	case ir.ImplementedGoal:
		return ir.ImplementedGoal{TraitRef: TraitRefF(f, v.TraitRef, outerBinder)}
	case ir.AliasEqGoal:
		return ir.AliasEqGoal{Alias: Ty(f, v.Alias, outerBinder).(ir.AliasTy), Ty: Ty(f, v.Ty, outerBinder)}
	case ir.NormalizeGoal:
		return ir.NormalizeGoal{Alias: Ty(f, v.Alias, outerBinder).(ir.AliasTy), Ty: Ty(f, v.Ty, outerBinder)}
	case ir.WellFormedGoal:
		return ir.WellFormedGoal{Subject: wellFormedSubject(f, v.Subject, outerBinder)}
	case ir.FromEnvGoal:
		return ir.FromEnvGoal{Subject: wellFormedSubject(f, v.Subject, outerBinder)}
	case ir.IsLocalGoal:
		return ir.IsLocalGoal{Ty: Ty(f, v.Ty, outerBinder)}
	case ir.IsUpstreamGoal:
		return ir.IsUpstreamGoal{Ty: Ty(f, v.Ty, outerBinder)}
	case ir.IsFullyVisibleGoal:
		return ir.IsFullyVisibleGoal{Ty: Ty(f, v.Ty, outerBinder)}
	case ir.LocalImplAllowedGoal:
		return ir.LocalImplAllowedGoal{TraitRef: TraitRefF(f, v.TraitRef, outerBinder)}
	case ir.DownstreamTypeGoal:
		return ir.DownstreamTypeGoal{Ty: Ty(f, v.Ty, outerBinder)}
	case ir.CompatibleGoal, ir.RevealGoal, ir.ObjectSafeGoal:
		return v
	case ir.LifetimeOutlivesGoal:
		return ir.LifetimeOutlivesGoal{A: Lifetime(f, v.A, outerBinder), B: Lifetime(f, v.B, outerBinder)}
	case ir.TypeOutlivesGoal:
		return ir.TypeOutlivesGoal{Ty: Ty(f, v.Ty, outerBinder), Lt: Lifetime(f, v.Lt, outerBinder)}
	default:
		panic("fold: unhandled DomainGoal variant")
	}
}

// Constraint1 rewrites a single Constraint.
func Constraint1(f Folder, c ir.Constraint, outerBinder int) ir.Constraint {
	switch v := c.(type) {
	case ir.LifetimeOutlivesConstraint:
		return ir.LifetimeOutlivesConstraint{A: Lifetime(f, v.A, outerBinder), B: Lifetime(f, v.B, outerBinder)}
	case ir.TypeOutlivesConstraint:
		return ir.TypeOutlivesConstraint{Ty: Ty(f, v.Ty, outerBinder), Lt: Lifetime(f, v.Lt, outerBinder)}
	case ir.LifetimeEqConstraint:
		return ir.LifetimeEqConstraint{A: Lifetime(f, v.A, outerBinder), B: Lifetime(f, v.B, outerBinder)}
	default:
		panic("fold: unhandled Constraint variant")
	}
}

func Constraints(f Folder, cs []ir.Constraint, outerBinder int) []ir.Constraint {
	out := make([]ir.Constraint, len(cs))
	for i, c := range cs {
		out[i] = Constraint1(f, c, outerBinder)
	}
	return out
}

// Clause rewrites a ProgramClause's bound Implication.
func Clause(f Folder, c *ir.ProgramClause, outerBinder int) *ir.ProgramClause {
	if c == nil {
		return nil
	}
	return &ir.ProgramClause{Binders: BindersT(f, c.Binders, outerBinder, Implication)}
}

func Implication(f Folder, impl ir.Implication, outerBinder int) ir.Implication {
	return ir.Implication{
		Consequence: DomainGoalF(f, impl.Consequence, outerBinder),
		Conditions:  Goals(f, impl.Conditions, outerBinder),
		Constraints: Constraints(f, impl.Constraints, outerBinder),
		Priority:    impl.Priority,
	}
}

// EnvironmentF rewrites every clause in an Environment.
func EnvironmentF(f Folder, e *ir.Environment, outerBinder int) *ir.Environment {
	if e == nil {
		return nil
	}
	clauses := make([]*ir.ProgramClause, len(e.Clauses))
	for i, c := range e.Clauses {
		clauses[i] = Clause(f, c, outerBinder)
	}
	return &ir.Environment{Clauses: clauses}
}
