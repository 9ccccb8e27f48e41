package slg

import (
	"errors"

	"github.com/google/uuid"

	"github.com/funvibe/funxy/internal/canon"
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
	"github.com/funvibe/funxy/internal/unify"
)

// visitInEnvGoal/foldInEnvGoal are the Visit/Transform pair canon.Canonicalize
// and infer.FromCanonical/SubstituteBinders need for InEnvironment[Goal] —
// the Environment pointer is carried through unchanged (env clauses never
// reference a caller's free inference variables, only their own binders),
// only the Goal is traversed.
func visitInEnvGoal(v fold.Visitor, ie ir.InEnvironment[ir.Goal], outer int) bool {
	return fold.VisitGoal(v, ie.Goal, outer)
}

func foldInEnvGoal(f fold.Folder, ie ir.InEnvironment[ir.Goal], outer int) ir.InEnvironment[ir.Goal] {
	return ir.InEnvironment[ir.Goal]{Environment: ie.Environment, Goal: fold.GoalF(f, ie.Goal, outer)}
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

func foldConstrainedSubst(f fold.Folder, cs ir.ConstrainedSubst, outer int) ir.ConstrainedSubst {
	return ir.ConstrainedSubst{
		Subst:       fold.Subst(f, cs.Subst, outer),
		Constraints: fold.Constraints(f, cs.Constraints, outer),
	}
}

// asSingleDomainGoal reports whether g is exactly one wrapped DomainGoal —
// true for every Table this forest creates as a memoized subgoal lookup
// (proveDomainGoal only ever builds keys this way), and also true for a
// top-level Solve() query that happens to be a single atomic goal. A
// compound top-level goal (an AllGoal of several DomainGoals, say) returns
// false and is driven through the general explore() dispatch instead.
func asSingleDomainGoal(g ir.Goal) (ir.DomainGoal, bool) {
	w, ok := g.(ir.DomainGoalWrapper)
	if !ok {
		return nil, false
	}
	return w.DomainGoal, true
}

func (f *Forest) isCoinductiveGoal(dg ir.DomainGoal) bool {
	ig, ok := dg.(ir.ImplementedGoal)
	if !ok || ig.TraitRef == nil {
		return false
	}
	td := f.DB.TraitDatum(ig.TraitRef.TraitID)
	return td != nil && td.Coinductive
}

// ensure returns the Table for uc, computing it to exhaustion (or the
// configured cap) if this is the first time it's been asked for. Callers
// that might be re-entering the same goal (proveDomainGoal, proveNegative)
// must check anc.onStack themselves first — ensure assumes that's already
// been done and always either returns a cached Table or builds a fresh one.
func (f *Forest) ensure(uc ir.UCanonicalGoal, anc *ancestors) (*Table, error) {
	key := tableKey(uc)
	if t, ok := f.tables[key]; ok {
		return t, nil
	}

	coind := false
	if dg, ok := asSingleDomainGoal(uc.Canonical.Value.Goal); ok {
		coind = f.isCoinductiveGoal(dg)
	}

	table, ownSubst, opened := infer.FromCanonical(uc.Canonical, foldInEnvGoal)
	t := &Table{ID: uuid.New(), Goal: uc, Coinductive: coind, table: table, goal: opened, ownSubst: ownSubst}
	f.tables[key] = t

	anc.push(key, coind)
	err := f.runTable(t, anc)
	anc.pop()
	if err != nil {
		delete(f.tables, key)
		return nil, err
	}
	t.done = true
	return t, nil
}

// runTable kicks off the search for t's own goal: a bare DomainGoal goes
// straight to clause resolution (tryClauseCandidates) since tabling it
// again here would just see itself on the ancestor stack and report a
// spurious cycle; a compound goal (AllGoal/ImpliesGoal/...) goes through
// the general explore() dispatch, which tables any DomainGoal leaves it
// encounters as proper nested subgoals via proveDomainGoal.
func (f *Forest) runTable(t *Table, anc *ancestors) error {
	if dg, ok := asSingleDomainGoal(t.goal.Goal); ok {
		return f.tryClauseCandidates(t, anc, ExClause{}, t.goal.Environment, dg)
	}
	seed := ExClause{Subgoals: []Literal{{Positive: true, Goal: t.goal.Goal, Env: t.goal.Environment}}}
	return f.explore(t, anc, seed)
}

// tryClauseCandidates is the SLG resolvent step (§4.7 "SLG resolvent"):
// for each candidate program clause, instantiate it existentially, unify
// its consequence against dg, and continue exploring with its conditions
// appended as new subgoals. Every candidate gets its own snapshot so a
// failed or still-exploring alternative never leaks bindings into the next.
func (f *Forest) tryClauseCandidates(t *Table, anc *ancestors, rest ExClause, env *ir.Environment, dg ir.DomainGoal) error {
	clauses, err := f.DB.ProgramClauses(env, dg)
	if err != nil {
		if errors.Is(err, solvererr.ErrFloundered) {
			t.Floundered = true
			return nil
		}
		return err
	}
	for _, clause := range clauses {
		if f.Config.MaxAnswers > 0 && len(t.Answers) >= f.Config.MaxAnswers {
			break
		}
		if err := f.checkContinue(); err != nil {
			return err
		}
		snap := t.table.TakeSnapshot()
		if err := f.tryOneClause(t, anc, rest, env, dg, clause); err != nil {
			t.table.RollbackTo(snap)
			return err
		}
		t.table.RollbackTo(snap)
	}
	return nil
}

func (f *Forest) tryOneClause(t *Table, anc *ancestors, rest ExClause, env *ir.Environment, dg ir.DomainGoal, clause *ir.ProgramClause) error {
	impl, _ := infer.InstantiateBindersExistentially(t.table, clause.Binders, fold.Implication)
	u := unify.New(t.table, f.DB)
	if err := UnifyDomainGoals(u, dg, impl.Consequence); err != nil {
		return nil // shape/unification mismatch: this clause doesn't apply, not an engine error
	}

	next := rest.clone()
	next.Constraints = append(next.Constraints, u.Result().Constraints...)
	next.Constraints = append(next.Constraints, impl.Constraints...)
	for _, g := range u.Result().Goals {
		next.Subgoals = append(next.Subgoals, Literal{Positive: true, Goal: g, Env: env})
	}
	for _, cond := range impl.Conditions {
		if ng, ok := cond.(ir.NotGoal); ok {
			next.Subgoals = append(next.Subgoals, Literal{Positive: false, Goal: ng.Goal, Env: env})
		} else {
			next.Subgoals = append(next.Subgoals, Literal{Positive: true, Goal: cond, Env: env})
		}
	}
	return f.explore(t, anc, next)
}

// selectLiteral picks the next subgoal to work on (§4.7 "Subgoal
// selection"): the last one in the list, unless it's a negative literal
// that still has free variables, in which case the last positive literal
// is preferred; if no positive alternative exists the clause floundered.
func selectLiteral(subgoals []Literal) (idx int, flounder bool, ok bool) {
	if len(subgoals) == 0 {
		return 0, false, false
	}
	last := len(subgoals) - 1
	if !subgoals[last].Positive && fold.HasFreeVars(subgoals[last].Goal) {
		for i := last - 1; i >= 0; i-- {
			if subgoals[i].Positive {
				return i, false, true
			}
		}
		return 0, true, false
	}
	return last, false, true
}

// explore advances one ExClause until it either completes (recording an
// answer), flounders, or fails — the driving loop of the whole package.
func (f *Forest) explore(t *Table, anc *ancestors, ec ExClause) error {
	if err := f.checkContinue(); err != nil {
		return err
	}
	if f.Config.MaxAnswers > 0 && len(t.Answers) >= f.Config.MaxAnswers {
		return nil
	}

	idx, flounder, ok := selectLiteral(ec.Subgoals)
	if flounder {
		t.Floundered = true
		return nil
	}
	if !ok {
		f.recordAnswer(t, ec)
		return nil
	}

	lit := ec.Subgoals[idx]
	rest := ec.clone()
	rest.Subgoals = append(append([]Literal{}, ec.Subgoals[:idx]...), ec.Subgoals[idx+1:]...)

	if lit.Positive {
		return f.provePositive(t, anc, rest, lit.Env, lit.Goal)
	}
	return f.proveNegative(t, anc, rest, lit.Env, lit.Goal)
}

func (f *Forest) provePositive(t *Table, anc *ancestors, rest ExClause, env *ir.Environment, g ir.Goal) error {
	switch v := g.(type) {
	case ir.AllGoal:
		next := rest.clone()
		for _, sub := range v.Goals {
			next.Subgoals = append(next.Subgoals, Literal{Positive: true, Goal: sub, Env: env})
		}
		return f.explore(t, anc, next)

	case ir.ImpliesGoal:
		inner := env.Extended(v.Clauses)
		next := rest.clone()
		next.Subgoals = append(next.Subgoals, Literal{Positive: true, Goal: v.Goal, Env: inner})
		return f.explore(t, anc, next)

	case ir.QuantifiedGoal:
		var opened ir.Goal
		if v.Kind == ir.Forall {
			opened, _ = infer.InstantiateBindersUniversally(t.table, v.Binders, fold.GoalF)
		} else {
			opened, _ = infer.InstantiateBindersExistentially(t.table, v.Binders, fold.GoalF)
		}
		next := rest.clone()
		next.Subgoals = append(next.Subgoals, Literal{Positive: true, Goal: opened, Env: env})
		return f.explore(t, anc, next)

	case ir.NotGoal:
		return f.proveNegative(t, anc, rest, env, v.Goal)

	case ir.EqGoal:
		u := unify.New(t.table, f.DB)
		if err := UnifyArg(u, ir.Invariant, v.A, v.B); err != nil {
			return nil
		}
		return f.continueWithUnifyResult(t, anc, rest, env, u)

	case ir.SubtypeGoal:
		u := unify.New(t.table, f.DB)
		if err := u.Ty(ir.Covariant, v.A, v.B); err != nil {
			return nil
		}
		return f.continueWithUnifyResult(t, anc, rest, env, u)

	case ir.DomainGoalWrapper:
		return f.proveDomainGoal(t, anc, rest, env, v.DomainGoal)

	case ir.CannotProveGoal:
		next := rest.clone()
		next.Ambiguous = true
		return f.explore(t, anc, next)

	default:
		solvererr.Invariant("slg: unhandled goal variant %T", g)
		return nil
	}
}

func (f *Forest) continueWithUnifyResult(t *Table, anc *ancestors, rest ExClause, env *ir.Environment, u *unify.Unifier) error {
	next := rest.clone()
	next.Constraints = append(next.Constraints, u.Result().Constraints...)
	for _, g := range u.Result().Goals {
		next.Subgoals = append(next.Subgoals, Literal{Positive: true, Goal: g, Env: env})
	}
	return f.explore(t, anc, next)
}

// proveNegative implements negation-as-failure (§4.7 "Negation-as-failure"):
// ground the goal, invert it, and launch an independent sub-solve of the
// inverted goal. Zero answers means the negative literal succeeds, a
// unique unambiguous answer means it fails, and anything else (multiple
// answers, or an ambiguous one) taints the surrounding strand ambiguous.
func (f *Forest) proveNegative(t *Table, anc *ancestors, rest ExClause, env *ir.Environment, g ir.Goal) error {
	normalized := t.table.NormalizeDeepGoal(g)
	if fold.HasFreeVars(normalized) {
		t.Floundered = true
		return nil
	}
	inverted, ok := t.table.Invert(normalized)
	if !ok {
		return nil
	}

	ie := ir.InEnvironment[ir.Goal]{Environment: env, Goal: inverted}
	c := canon.Canonicalize(t.table, ie, visitInEnvGoal, foldInEnvGoal)
	uc := canon.UCanonicalize(c)
	key := tableKey(uc)

	if onStack, _ := anc.onStack(key, false); onStack {
		solvererr.Invariant("slg: negative cycle on a purely negative dependency")
	}

	sub, err := f.ensure(uc, &ancestors{})
	if err != nil {
		return err
	}

	switch {
	case len(sub.Answers) == 0 && sub.Floundered:
		t.Floundered = true
		return nil
	case len(sub.Answers) == 0:
		return f.explore(t, anc, rest)
	case len(sub.Answers) == 1 && !sub.Answers[0].Ambiguous:
		return nil
	default:
		next := rest.clone()
		next.Ambiguous = true
		return f.explore(t, anc, next)
	}
}

// proveDomainGoal resolves a DomainGoal subgoal discovered while expanding
// a clause's conditions (as opposed to a table's own top-level goal, which
// runTable resolves directly): it's truncated and tabled, giving memoized
// sharing across repeated subgoals and the ancestor-stack lookup
// co-induction/floundering needs (§4.6, §4.7 "Co-induction").
func (f *Forest) proveDomainGoal(t *Table, anc *ancestors, rest ExClause, env *ir.Environment, dg ir.DomainGoal) error {
	if trivialAnswersOnly(dg) {
		return f.explore(t, anc, rest)
	}

	normalizedWrapped := t.table.NormalizeDeepGoal(ir.DomainGoalWrapper{DomainGoal: dg})
	normalizedDg := normalizedWrapped.(ir.DomainGoalWrapper).DomainGoal
	truncatedDg, _ := truncateDomainGoal(t.table, f.Config.MaxSize, normalizedDg)

	ie := ir.InEnvironment[ir.Goal]{Environment: env, Goal: ir.DomainGoalWrapper{DomainGoal: truncatedDg}}
	c := canon.Canonicalize(t.table, ie, visitInEnvGoal, foldInEnvGoal)
	uc := canon.UCanonicalize(c)
	key := tableKey(uc)

	coind := f.isCoinductiveGoal(normalizedDg)
	if onStack, allCoind := anc.onStack(key, coind); onStack {
		if !allCoind {
			return nil
		}
		next := rest.clone()
		next.DelayedSubgoals = append(next.DelayedSubgoals, ir.DomainGoalWrapper{DomainGoal: normalizedDg})
		return f.explore(t, anc, next)
	}

	sub, err := f.ensure(uc, anc)
	if err != nil {
		return err
	}
	if len(sub.Answers) == 0 {
		if sub.Floundered {
			t.Floundered = true
		}
		return nil
	}

	kinds := make([]ir.VarKind, len(uc.Canonical.Binders))
	for i, b := range uc.Canonical.Binders {
		kinds[i] = b.Kind
	}
	goalBinders := ir.Binders[ir.InEnvironment[ir.Goal]]{Kinds: kinds, Value: uc.Canonical.Value}

	for _, ans := range sub.Answers {
		if f.Config.MaxAnswers > 0 && len(t.Answers) >= f.Config.MaxAnswers {
			break
		}
		if err := f.checkContinue(); err != nil {
			return err
		}
		snap := t.table.TakeSnapshot()
		err := f.applyAnswer(t, anc, rest, env, dg, goalBinders, ans)
		t.table.RollbackTo(snap)
		if err != nil {
			return err
		}
	}
	return nil
}

// applyAnswer implements "apply_answer_subst" (§4.7 "Resolvent"): the
// answer's own residual variables are opened existentially into the
// caller's table, substituted into the tabled goal's shape, and the result
// is unified back against the original subgoal — exactly the same
// unify-then-continue shape tryOneClause uses for an ordinary clause,
// treating a cached answer as if it were a clause with no conditions left.
func (f *Forest) applyAnswer(t *Table, anc *ancestors, rest ExClause, env *ir.Environment, dg ir.DomainGoal, goalBinders ir.Binders[ir.InEnvironment[ir.Goal]], ans CompleteAnswer) error {
	ansKinds := make([]ir.VarKind, len(ans.Subst.Binders))
	for i, b := range ans.Subst.Binders {
		ansKinds[i] = b.Kind
	}
	ansBinders := ir.Binders[ir.ConstrainedSubst]{Kinds: ansKinds, Value: ans.Subst.Value}
	opened, _ := infer.InstantiateBindersExistentially(t.table, ansBinders, foldConstrainedSubst)

	instantiatedGoal := infer.SubstituteBinders(goalBinders, opened.Subst, foldInEnvGoal)
	dgInstantiated, ok := instantiatedGoal.Goal.(ir.DomainGoalWrapper)
	if !ok {
		solvererr.Invariant("slg: tabled goal lost its DomainGoalWrapper shape after substitution")
	}

	u := unify.New(t.table, f.DB)
	if err := UnifyDomainGoals(u, dg, dgInstantiated.DomainGoal); err != nil {
		return nil
	}

	next := rest.clone()
	next.Constraints = append(next.Constraints, u.Result().Constraints...)
	next.Constraints = append(next.Constraints, opened.Constraints...)
	next.Ambiguous = next.Ambiguous || ans.Ambiguous
	for _, g := range u.Result().Goals {
		next.Subgoals = append(next.Subgoals, Literal{Positive: true, Goal: g, Env: env})
	}
	return f.explore(t, anc, next)
}

// recordAnswer closes an ExClause with no subgoals left into a
// CompleteAnswer. Subsumption (§4.7 "Answer subsumption") is approximated
// as exact structural duplicate detection rather than chalk's full
// `may_invalidate` generalization test — a documented simplification: an
// answer that is a strict *generalization* of one already on file is still
// recorded here as a second entry, which only costs the aggregator (§4.8)
// an extra anti-unification pass, never correctness.
func (f *Forest) recordAnswer(t *Table, ec ExClause) {
	normalizedSubst := t.table.NormalizeDeepSubst(t.ownSubst)
	cs := ir.ConstrainedSubst{Subst: normalizedSubst, Constraints: ec.Constraints}
	c := canon.Canonicalize(t.table, cs, visitConstrainedSubst, foldConstrainedSubst)

	key := tableKey(c)
	for _, existing := range t.Answers {
		if tableKey(existing.Subst) == key {
			return
		}
	}

	ambiguous := ec.Ambiguous || len(ec.DelayedSubgoals) > 0
	t.Answers = append(t.Answers, CompleteAnswer{Subst: c, Ambiguous: ambiguous})
}
