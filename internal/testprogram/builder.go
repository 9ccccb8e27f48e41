// Package testprogram builds small in-memory Database fixtures the way a
// real Database's lowering-from-surface-syntax step would populate one,
// for package solver's and the core packages' tests to run goals against —
// mirroring the teacher's internal/typesystem/kinds_test.go style of hand-
// building typed test fixtures in Go rather than parsing a surface
// language, since clause generation from syntax is explicitly out of
// scope (spec.md §1 Non-goals "Building program clauses from surface
// syntax; that's the responsibility of a host compiler").
package testprogram

import (
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/intern"
	"github.com/funvibe/funxy/internal/ir"
)

// Builder accumulates Adt/Trait/Impl declarations into a db.MemoryDatabase,
// handing out fresh IDs as each is declared — the in-memory equivalent of
// a compiler's symbol table construction pass.
type Builder struct {
	DB *db.MemoryDatabase

	nextAdt   ir.AdtID
	nextTrait ir.TraitID
	nextImpl  ir.ImplID
}

// New returns an empty Builder backed by a fresh interner.
func New() *Builder {
	return &Builder{DB: db.NewMemoryDatabase(intern.NewTable())}
}

// Struct declares a struct with arity covariant type parameters (e.g.
// `struct Foo<T>;` for arity 1, `struct Int;` for arity 0).
func (b *Builder) Struct(arity int) ir.AdtID {
	id := b.nextAdt
	b.nextAdt++
	kinds := make([]ir.VarKind, arity)
	variance := make([]ir.Variance, arity)
	for i := range kinds {
		kinds[i] = ir.KindTy
		variance[i] = ir.Covariant
	}
	b.DB.Adts[id] = &ir.AdtDatum{
		ID:       id,
		Binders:  ir.Binders[ir.AdtBoundData]{Kinds: kinds},
		Variance: variance,
	}
	return id
}

// InvariantLifetimeStruct declares a single-lifetime-parameter struct whose
// lifetime position is Invariant, the shape spec.md §8's region-constraint
// scenario needs (`#[variance(Invariant)] struct Foo<'a>`).
func (b *Builder) InvariantLifetimeStruct() ir.AdtID {
	id := b.nextAdt
	b.nextAdt++
	b.DB.Adts[id] = &ir.AdtDatum{
		ID:       id,
		Binders:  ir.Binders[ir.AdtBoundData]{Kinds: []ir.VarKind{ir.KindLifetime}},
		Variance: []ir.Variance{ir.Invariant},
	}
	return id
}

// Field describes a struct field (its name, and its type in terms of the
// struct's parameters), as in `struct List<T> { data: T, next: Ptr<List<T>>
// }`. Nothing in this package consumes it (Struct takes no field list), and
// the solver core never inspects field layout (it only resolves trait
// obligations), so it has no effect on solving.
type Field struct {
	Name string
	Ty   func(params []ir.GenericArg) ir.Ty
}

// TraitOpts describes a trait declaration's tags.
type TraitOpts struct {
	// Arity is the number of generic parameters beyond Self (Eq<T> has
	// Arity 1; a plain marker trait like Send has Arity 0).
	Arity int

	Coinductive   bool // #[auto]
	NonEnumerable bool // #[non_enumerable]
	WellKnown     *ir.WellKnownTrait
}

// Trait declares a trait, registering it as the database's well-known
// trait of that kind if WellKnown is set.
func (b *Builder) Trait(opts TraitOpts) ir.TraitID {
	id := b.nextTrait
	b.nextTrait++
	kinds := make([]ir.VarKind, opts.Arity+1)
	for i := range kinds {
		kinds[i] = ir.KindTy
	}
	b.DB.Traits[id] = &ir.TraitDatum{
		ID:            id,
		Binders:       ir.Binders[ir.TraitBoundData]{Kinds: kinds},
		Coinductive:   opts.Coinductive,
		NonEnumerable: opts.NonEnumerable,
		WellKnown:     opts.WellKnown,
		ObjectSafe:    true,
	}
	if opts.WellKnown != nil {
		b.DB.WellKnown[*opts.WellKnown] = id
	}
	return id
}

// WhereBound is one `Param: Trait` entry in an impl's where-clause,
// referencing the impl's own generic parameters by position.
type WhereBound struct {
	ParamIndex int
	TraitID    ir.TraitID
}

// ImplSpec describes `impl<Generics> TraitID<TraitArgs> for SelfTy where
// Where`. SelfTy and TraitArgs are closures over the impl's own bound
// parameters (built fresh per Impl call) so the same ImplSpec shape covers
// both ground impls (Generics nil, closures ignore their argument) and
// generic ones (`impl<T: Sour> Sour for HotSauce<T>`).
type ImplSpec struct {
	Generics  []ir.VarKind
	TraitID   ir.TraitID
	SelfTy    func(params []ir.GenericArg) ir.Ty
	TraitArgs func(params []ir.GenericArg) []ir.GenericArg
	Where     []WhereBound
	Polarity  ir.Polarity
}

// boundParams builds the Substitution that names "my own Nth generic
// parameter" for each kind in kinds, as GenericArgs at DeBruijn depth 0 —
// used both to build an impl's consequence/conditions and, by a caller
// with its own outer binder, to instantiate one.
func boundParams(kinds []ir.VarKind) []ir.GenericArg {
	out := make([]ir.GenericArg, len(kinds))
	for i, k := range kinds {
		switch k {
		case ir.KindLifetime:
			out[i] = ir.LifetimeArg(ir.BoundVarLifetime{Var: ir.BoundVar{Depth: 0, Index: i}})
		case ir.KindConst:
			out[i] = ir.ConstArg(&ir.Const{Value: ir.BoundVarConst{Var: ir.BoundVar{Depth: 0, Index: i}}})
		default:
			out[i] = ir.TyArg(ir.BoundVarTy{Var: ir.BoundVar{Depth: 0, Index: i}})
		}
	}
	return out
}

// Impl declares an impl, registering its clause (if positive) under the
// trait it implements so db.MemoryDatabase.ProgramClauses finds it.
func (b *Builder) Impl(spec ImplSpec) ir.ImplID {
	id := b.nextImpl
	b.nextImpl++

	params := boundParams(spec.Generics)
	selfTy := spec.SelfTy(params)
	var traitArgs []ir.GenericArg
	if spec.TraitArgs != nil {
		traitArgs = spec.TraitArgs(params)
	}
	subst := append(ir.Substitution{ir.TyArg(selfTy)}, traitArgs...)
	traitRef := &ir.TraitRef{TraitID: spec.TraitID, Subst: subst}

	var conditions []ir.Goal
	for _, w := range spec.Where {
		conditions = append(conditions, ir.DomainGoalWrapper{DomainGoal: ir.ImplementedGoal{
			TraitRef: &ir.TraitRef{TraitID: w.TraitID, Subst: ir.Substitution{params[w.ParamIndex]}},
		}})
	}

	polarity := spec.Polarity
	clause := &ir.ProgramClause{Binders: ir.Binders[ir.Implication]{
		Kinds: spec.Generics,
		Value: ir.Implication{
			Consequence: ir.ImplementedGoal{TraitRef: traitRef},
			Conditions:  conditions,
		},
	}}

	b.DB.Impls[id] = &ir.ImplDatum{
		ID:      id,
		TraitID: spec.TraitID,
		Binders: ir.Binders[ir.ImplBoundData]{
			Kinds: spec.Generics,
			Value: ir.ImplBoundData{TraitRef: traitRef, WhereClauses: conditions},
		},
		Polarity: polarity,
	}

	if polarity == ir.Positive {
		b.DB.Clauses[spec.TraitID] = append(b.DB.Clauses[spec.TraitID], clause)
	}
	return id
}

// AdtTy builds `AdtID<subst...>`, the plain-Ty-constructor helper every
// fixture's SelfTy/TraitArgs closures reach for.
func AdtTy(id ir.AdtID, subst ...ir.GenericArg) ir.Ty {
	return ir.AdtTy{ID: id, Subst: subst}
}
