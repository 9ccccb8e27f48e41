package recursive

import (
	"github.com/funvibe/funxy/internal/canon"
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/slg"
	"github.com/funvibe/funxy/internal/solvererr"
	"github.com/funvibe/funxy/internal/unify"
)

// obligation is one leaf the current goal depends on: prove it, or refute
// it (the negation-as-failure arm of a NotGoal), per chalk's
// `Obligation::Prove`/`Obligation::Refute`.
type obligation struct {
	refute bool
	env    *ir.Environment
	goal   ir.Goal
}

// fulfill drives one goal (the table's own seed, or one clause attempt's
// consequence+conditions) to a Solution: every leaf it pushes gets queued
// here, and solve() iterates the queue to a fixpoint, exactly as chalk's
// `Fulfill` does (original_source/src/solve/recursive/fulfill.rs).
type fulfill struct {
	solver      *Solver
	table       *infer.Table
	obligations []obligation
	constraints []ir.Constraint
	cannotProve bool
}

func (f *fulfill) u() *unify.Unifier { return unify.New(f.table, f.solver.DB) }

func (f *fulfill) unifySubtype(env *ir.Environment, a, b ir.Ty) error {
	u := f.u()
	if err := u.Ty(ir.Covariant, a, b); err != nil {
		return err
	}
	f.recordUnifyResult(u, env)
	return nil
}

func (f *fulfill) recordUnifyResult(u *unify.Unifier, env *ir.Environment) {
	f.constraints = append(f.constraints, u.Result().Constraints...)
	for _, g := range u.Result().Goals {
		f.pushGoal(env, g)
	}
}

func (f *fulfill) unifyArg(env *ir.Environment, a, b ir.GenericArg) error {
	u := f.u()
	if err := slg.UnifyArg(u, ir.Invariant, a, b); err != nil {
		return err
	}
	f.recordUnifyResult(u, env)
	return nil
}

func (f *fulfill) unifyDomainGoal(env *ir.Environment, a, b ir.DomainGoal) error {
	u := f.u()
	if err := slg.UnifyDomainGoals(u, a, b); err != nil {
		return err
	}
	f.recordUnifyResult(u, env)
	return nil
}

// pushGoal flattens a (possibly compound) goal into leaf Prove/Refute
// obligations, exactly as chalk's `Fulfill::push_goal` does: AllGoal
// distributes over its members, ImpliesGoal extends the environment for
// just its inner goal, quantifiers get instantiated (existential fresh
// vars, universal a fresh universe of placeholders), NotGoal becomes a
// Refute obligation, and everything else (EqGoal, SubtypeGoal, a bare
// DomainGoal) is already a leaf.
func (f *fulfill) pushGoal(env *ir.Environment, g ir.Goal) {
	switch v := g.(type) {
	case ir.AllGoal:
		for _, sub := range v.Goals {
			f.pushGoal(env, sub)
		}
	case ir.ImpliesGoal:
		f.pushGoal(env.Extended(v.Clauses), v.Goal)
	case ir.QuantifiedGoal:
		var opened ir.Goal
		if v.Kind == ir.Forall {
			opened, _ = infer.InstantiateBindersUniversally(f.table, v.Binders, fold.GoalF)
		} else {
			opened, _ = infer.InstantiateBindersExistentially(f.table, v.Binders, fold.GoalF)
		}
		f.pushGoal(env, opened)
	case ir.NotGoal:
		f.obligations = append(f.obligations, obligation{refute: true, env: env, goal: v.Goal})
	case ir.CannotProveGoal:
		f.cannotProve = true
	default:
		f.obligations = append(f.obligations, obligation{refute: false, env: env, goal: g})
	}
}

// canonicalizeLeaf turns a still-live leaf goal into the UCanonicalGoal key
// solveLeafGoal tables on.
func (f *fulfill) canonicalizeLeaf(env *ir.Environment, g ir.Goal) ir.UCanonicalGoal {
	ie := ir.InEnvironment[ir.Goal]{Environment: env, Goal: f.table.NormalizeDeepGoal(g)}
	c := canon.Canonicalize(f.table, ie, visitInEnvGoal, foldInEnvGoal)
	return canon.UCanonicalize(c)
}

// prove resolves one Prove obligation against the solver's tabled leaf
// cache, opening a definite/unique solution's substitution back into this
// fulfill's own table (chalk's `apply_solution`), or leaving an ambiguous
// one queued for the next fixpoint pass.
func (f *fulfill) prove(ob obligation, m *minimums) (done bool, err error) {
	uc := f.canonicalizeLeaf(ob.env, ob.goal)
	sol, err := f.solver.solveLeafGoal(uc, m)
	if err != nil {
		return false, err
	}
	if sol == nil {
		return false, solvererr.ErrNoSolution
	}
	if sol.IsUnique() {
		f.applySolution(uc, *sol.Unique)
		return true, nil
	}
	if sol.Ambig.Kind == ir.GuidanceUnknown {
		return false, nil
	}
	return false, nil
}

// refute reenters the whole solver on the inverted goal (chalk's
// `Fulfill::refute`, which calls back into `solve_root_goal`): zero
// solutions means the negative obligation succeeds, anything else fails.
func (f *fulfill) refute(ob obligation) (done bool, err error) {
	normalized := f.table.NormalizeDeepGoal(ob.goal)
	if fold.HasFreeVars(normalized) {
		return false, solvererr.ErrFloundered
	}
	inverted, ok := f.table.Invert(normalized)
	if !ok {
		return false, solvererr.ErrNoSolution
	}
	ie := ir.InEnvironment[ir.Goal]{Environment: ob.env, Goal: inverted}
	c := canon.Canonicalize(f.table, ie, visitInEnvGoal, foldInEnvGoal)
	uc := canon.UCanonicalize(c)

	sol, err := f.solver.SolveRoot(uc)
	if err != nil {
		if err == solvererr.ErrNoSolution {
			return true, nil
		}
		return false, err
	}
	if sol == nil {
		return true, nil
	}
	return false, solvererr.ErrNoSolution
}

// applySolution substitutes a resolved leaf's answer back into this
// table — the same "open the answer's own binders existentially, unify
// it against what we asked for" shape internal/slg's applyAnswer uses for
// a tabled answer.
func (f *fulfill) applySolution(uc ir.UCanonicalGoal, cs ir.Canonical[ir.ConstrainedSubst]) {
	kinds := make([]ir.VarKind, len(cs.Binders))
	for i, b := range cs.Binders {
		kinds[i] = b.Kind
	}
	binders := ir.Binders[ir.ConstrainedSubst]{Kinds: kinds, Value: cs.Value}
	opened, _ := infer.InstantiateBindersExistentially(f.table, binders, foldConstrainedSubst)

	goalKinds := make([]ir.VarKind, len(uc.Canonical.Binders))
	for i, b := range uc.Canonical.Binders {
		goalKinds[i] = b.Kind
	}
	goalBinders := ir.Binders[ir.InEnvironment[ir.Goal]]{Kinds: goalKinds, Value: uc.Canonical.Value}
	instantiatedGoal := infer.SubstituteBinders(goalBinders, opened.Subst, foldInEnvGoal)

	u := f.u()
	switch g := instantiatedGoal.Goal.(type) {
	case ir.EqGoal:
		_ = slg.UnifyArg(u, ir.Invariant, g.A, g.B)
	case ir.SubtypeGoal:
		_ = u.Ty(ir.Covariant, g.A, g.B)
	case ir.DomainGoalWrapper:
		// already unified against the original leaf at dispatch time in
		// solveLeafBody/solveFromClauses; nothing further to equate here.
	}
	f.recordUnifyResult(u, instantiatedGoal.Environment)
	f.constraints = append(f.constraints, opened.Constraints...)
}

func foldConstrainedSubst(f fold.Folder, cs ir.ConstrainedSubst, outer int) ir.ConstrainedSubst {
	return ir.ConstrainedSubst{
		Subst:       fold.Subst(f, cs.Subst, outer),
		Constraints: fold.Constraints(f, cs.Constraints, outer),
	}
}

// solve runs the fixpoint loop chalk's `Fulfill::solve` does: repeatedly
// attempt every still-pending obligation, drop the ones that resolved,
// stop when a round makes no progress, then package the outcome.
func (f *fulfill) solve(rootSubst ir.Substitution, m *minimums) (*ir.Solution, error) {
	for {
		if len(f.obligations) == 0 {
			break
		}
		progressed := false
		remaining := f.obligations[:0]
		for _, ob := range f.obligations {
			var done bool
			var err error
			if ob.refute {
				done, err = f.refute(ob)
			} else {
				done, err = f.prove(ob, m)
			}
			if err != nil {
				return nil, err
			}
			if done {
				progressed = true
				continue
			}
			remaining = append(remaining, ob)
		}
		f.obligations = remaining
		if !progressed {
			break
		}
	}

	normalizedSubst := f.table.NormalizeDeepSubst(rootSubst)
	cs := ir.ConstrainedSubst{Subst: normalizedSubst, Constraints: f.constraints}
	canonical := canon.Canonicalize(f.table, cs, visitConstrainedSubst, foldConstrainedSubst)

	if len(f.obligations) == 0 && !f.cannotProve {
		return ir.UniqueSolution(canonical), nil
	}

	if len(canonical.Value.Subst) == 0 || canonical.Value.Subst.IsIdentity() {
		return ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown}), nil
	}
	s := ir.Canonical[ir.Substitution]{Binders: canonical.Binders, Value: canonical.Value.Subst}
	return ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceDefinite, Subst: &s}), nil
}

func visitConstraints(v fold.Visitor, cs []ir.Constraint, outer int) bool {
	for _, c := range cs {
		switch x := c.(type) {
		case ir.LifetimeOutlivesConstraint:
			if fold.VisitLifetime(v, x.A, outer) || fold.VisitLifetime(v, x.B, outer) {
				return true
			}
		case ir.TypeOutlivesConstraint:
			if fold.VisitTy(v, x.Ty, outer) || fold.VisitLifetime(v, x.Lt, outer) {
				return true
			}
		case ir.LifetimeEqConstraint:
			if fold.VisitLifetime(v, x.A, outer) || fold.VisitLifetime(v, x.B, outer) {
				return true
			}
		}
	}
	return false
}

func visitConstrainedSubst(v fold.Visitor, cs ir.ConstrainedSubst, outer int) bool {
	if fold.VisitSubst(v, cs.Subst, outer) {
		return true
	}
	return visitConstraints(v, cs.Constraints, outer)
}

