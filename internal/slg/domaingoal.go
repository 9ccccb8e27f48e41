package slg

import (
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
	"github.com/funvibe/funxy/internal/truncate"
	"github.com/funvibe/funxy/internal/unify"
)

// truncateDomainGoal applies answer abstraction (§4.6) to the subject types
// of dg before it is turned into a table key: the trait reference's
// arguments of an ImplementedGoal, the non-alias side of AliasEq/Normalize,
// and the Ty of IsLocal/IsUpstream/IsFullyVisible/DownstreamType/
// TypeOutlives. The alias side and every other variant pass through
// unchanged. This bounds the size of the
// subgoals this package tables — without this, a clause like `impl<T> Foo
// for Box<T> where Box<Vec<T>>: Foo` tables an unboundedly growing chain of
// distinct goals and the forest never terminates.
func truncateDomainGoal(table *infer.Table, maxSize int, dg ir.DomainGoal) (ir.DomainGoal, bool) {
	if maxSize <= 0 {
		return dg, false
	}
	switch g := dg.(type) {
	case ir.ImplementedGoal:
		subst, truncated := truncate.Subst(table, maxSize, g.TraitRef.Subst)
		return ir.ImplementedGoal{TraitRef: &ir.TraitRef{TraitID: g.TraitRef.TraitID, Subst: subst}}, truncated
	case ir.AliasEqGoal:
		r := truncate.Ty(table, maxSize, g.Ty)
		return ir.AliasEqGoal{Alias: g.Alias, Ty: r.Ty}, r.Truncated
	case ir.NormalizeGoal:
		r := truncate.Ty(table, maxSize, g.Ty)
		return ir.NormalizeGoal{Alias: g.Alias, Ty: r.Ty}, r.Truncated
	case ir.IsLocalGoal:
		r := truncate.Ty(table, maxSize, g.Ty)
		return ir.IsLocalGoal{Ty: r.Ty}, r.Truncated
	case ir.IsUpstreamGoal:
		r := truncate.Ty(table, maxSize, g.Ty)
		return ir.IsUpstreamGoal{Ty: r.Ty}, r.Truncated
	case ir.IsFullyVisibleGoal:
		r := truncate.Ty(table, maxSize, g.Ty)
		return ir.IsFullyVisibleGoal{Ty: r.Ty}, r.Truncated
	case ir.DownstreamTypeGoal:
		r := truncate.Ty(table, maxSize, g.Ty)
		return ir.DownstreamTypeGoal{Ty: r.Ty}, r.Truncated
	case ir.TypeOutlivesGoal:
		r := truncate.Ty(table, maxSize, g.Ty)
		return ir.TypeOutlivesGoal{Ty: r.Ty, Lt: g.Lt}, r.Truncated
	default:
		return dg, false
	}
}

// UnifyArg dispatches a single GenericArg pair to the matching Unifier
// method, the same per-kind switch internal/unify itself uses at the
// Substitution level, needed here because a DomainGoal's subject fields
// (TraitRef.Subst, an AliasTy's own arguments) aren't reached by
// fold.ZipTys — DomainGoal never implements ir.Ty. Exported for reuse by
// internal/recursive, which needs the same per-kind dispatch for its own
// EqGoal leaf handling.
func UnifyArg(u *unify.Unifier, variance ir.Variance, a, b ir.GenericArg) error {
	if a.Kind != b.Kind {
		return solvererr.ErrNoSolution
	}
	switch a.Kind {
	case ir.KindLifetime:
		return u.Lifetime(variance, a.Lifetime, b.Lifetime)
	case ir.KindConst:
		return u.Const(variance, a.Const, b.Const)
	default:
		return u.Ty(variance, a.Ty, b.Ty)
	}
}

func unifySubst(u *unify.Unifier, variance ir.Variance, a, b ir.Substitution) error {
	if len(a) != len(b) {
		return solvererr.ErrNoSolution
	}
	for i := range a {
		if err := UnifyArg(u, variance, a[i], b[i]); err != nil {
			return err
		}
	}
	return nil
}

func unifyTraitRefs(u *unify.Unifier, a, b *ir.TraitRef) error {
	if a == nil || b == nil {
		if a != b {
			return solvererr.ErrNoSolution
		}
		return nil
	}
	if a.TraitID != b.TraitID {
		return solvererr.ErrNoSolution
	}
	return unifySubst(u, ir.Invariant, a.Subst, b.Subst)
}

func unifyWellFormedSubject(u *unify.Unifier, a, b ir.WellFormedSubject) error {
	if (a.Ty == nil) != (b.Ty == nil) {
		return solvererr.ErrNoSolution
	}
	if a.Ty != nil {
		return u.Ty(ir.Invariant, a.Ty, b.Ty)
	}
	return unifyTraitRefs(u, a.TraitRef, b.TraitRef)
}

// UnifyDomainGoals equates a DomainGoal subgoal with a candidate clause's
// consequence: same variant, fields unified invariantly. Two DomainGoals
// built from different Go concrete types never match, mirroring the
// teacher's own shape-mismatch-is-ErrNoSolution idiom rather than returning
// a separate "not applicable" signal. Exported for reuse by
// internal/recursive's own clause-resolution path.
func UnifyDomainGoals(u *unify.Unifier, goal, consequence ir.DomainGoal) error {
	switch g := goal.(type) {
	case ir.ImplementedGoal:
		c, ok := consequence.(ir.ImplementedGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return unifyTraitRefs(u, g.TraitRef, c.TraitRef)
	case ir.AliasEqGoal:
		c, ok := consequence.(ir.AliasEqGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		if err := u.Ty(ir.Invariant, g.Alias, c.Alias); err != nil {
			return err
		}
		return u.Ty(ir.Invariant, g.Ty, c.Ty)
	case ir.NormalizeGoal:
		c, ok := consequence.(ir.NormalizeGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		if err := u.Ty(ir.Invariant, g.Alias, c.Alias); err != nil {
			return err
		}
		return u.Ty(ir.Invariant, g.Ty, c.Ty)
	case ir.WellFormedGoal:
		c, ok := consequence.(ir.WellFormedGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return unifyWellFormedSubject(u, g.Subject, c.Subject)
	case ir.FromEnvGoal:
		c, ok := consequence.(ir.FromEnvGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return unifyWellFormedSubject(u, g.Subject, c.Subject)
	case ir.IsLocalGoal:
		c, ok := consequence.(ir.IsLocalGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return u.Ty(ir.Invariant, g.Ty, c.Ty)
	case ir.IsUpstreamGoal:
		c, ok := consequence.(ir.IsUpstreamGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return u.Ty(ir.Invariant, g.Ty, c.Ty)
	case ir.IsFullyVisibleGoal:
		c, ok := consequence.(ir.IsFullyVisibleGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return u.Ty(ir.Invariant, g.Ty, c.Ty)
	case ir.LocalImplAllowedGoal:
		c, ok := consequence.(ir.LocalImplAllowedGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return unifyTraitRefs(u, g.TraitRef, c.TraitRef)
	case ir.DownstreamTypeGoal:
		c, ok := consequence.(ir.DownstreamTypeGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return u.Ty(ir.Invariant, g.Ty, c.Ty)
	case ir.ObjectSafeGoal:
		c, ok := consequence.(ir.ObjectSafeGoal)
		if !ok || g.TraitID != c.TraitID {
			return solvererr.ErrNoSolution
		}
		return nil
	case ir.CompatibleGoal:
		_, ok := consequence.(ir.CompatibleGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return nil
	case ir.RevealGoal:
		_, ok := consequence.(ir.RevealGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		return nil
	case ir.LifetimeOutlivesGoal:
		c, ok := consequence.(ir.LifetimeOutlivesGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		if err := u.Lifetime(ir.Invariant, g.A, c.A); err != nil {
			return err
		}
		return u.Lifetime(ir.Invariant, g.B, c.B)
	case ir.TypeOutlivesGoal:
		c, ok := consequence.(ir.TypeOutlivesGoal)
		if !ok {
			return solvererr.ErrNoSolution
		}
		if err := u.Ty(ir.Invariant, g.Ty, c.Ty); err != nil {
			return err
		}
		return u.Lifetime(ir.Invariant, g.Lt, c.Lt)
	default:
		solvererr.Invariant("slg: unhandled domain goal variant %T", goal)
		return nil
	}
}

// trivialAnswersOnly reports whether a DomainGoal variant is one this core
// decides directly rather than through program clauses — "environment
// query" goals spec.md scopes as always holding (CompatibleGoal,
// RevealGoal) since the clause generator and coherence checker that would
// give them real content are out of scope (§1 Non-goals).
func trivialAnswersOnly(dg ir.DomainGoal) bool {
	switch dg.(type) {
	case ir.CompatibleGoal, ir.RevealGoal:
		return true
	default:
		return false
	}
}
