// Package db declares the Database interface the solver queries for
// program facts (§6 "External interfaces") plus a simple in-memory
// implementation used by tests and by internal/testprogram's fixtures.
//
// No direct teacher analog for the interface shape itself (the teacher
// resolves symbols through its own SymbolTable, a concrete type, not an
// interface a solver is generic over) but the *in-memory* implementation
// below is grounded on internal/symbols' flat map-of-declarations style.
package db

import (
	"github.com/funvibe/funxy/internal/fold"
	"github.com/funvibe/funxy/internal/intern"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
)

// Database is every read-only fact source the solver consults. ProgramClauses
// wraps solvererr.ErrFloundered rather than using a second return value,
// matching the teacher's (value, error) idiom throughout internal/typesystem.
type Database interface {
	Interner() *intern.Table
	ProgramClauses(env *ir.Environment, goal ir.DomainGoal) ([]*ir.ProgramClause, error)
	AdtVariance(id ir.AdtID) []ir.Variance
	FnDefVariance(id ir.FnDefID) []ir.Variance
	AdtDatum(id ir.AdtID) *ir.AdtDatum
	FnDefDatum(id ir.FnDefID) *ir.FnDefDatum
	TraitDatum(id ir.TraitID) *ir.TraitDatum
	ImplDatum(id ir.ImplID) *ir.ImplDatum
	OpaqueTyData(id ir.OpaqueTyID) *ir.OpaqueTyDatum
	AssociatedTyData(id ir.AssocTyID) *ir.AssociatedTyDatum
	AssociatedTyValue(id ir.AssocTyValueID) *ir.AssociatedTyValue
	HiddenOpaqueType(id ir.OpaqueTyID) ir.Ty
	IsObjectSafe(id ir.TraitID) bool
	WellKnownTraitID(w ir.WellKnownTrait) (ir.TraitID, bool)
	TraitRefFromProjection(p *ir.Projection) *ir.TraitRef
	ImplProvidedFor(autoTraitID ir.TraitID, adtID ir.AdtID) bool
}

// MemoryDatabase is a simple in-memory Database backed by flat maps, the
// way internal/symbols.SymbolTable backs the teacher's name resolution: no
// persistence, no indexing beyond what a map gives for free, built once at
// test/fixture construction time and never mutated mid-solve.
type MemoryDatabase struct {
	interner *intern.Table

	Clauses map[ir.TraitID][]*ir.ProgramClause

	Adts        map[ir.AdtID]*ir.AdtDatum
	FnDefs      map[ir.FnDefID]*ir.FnDefDatum
	Traits      map[ir.TraitID]*ir.TraitDatum
	Impls       map[ir.ImplID]*ir.ImplDatum
	OpaqueTys   map[ir.OpaqueTyID]*ir.OpaqueTyDatum
	AssocTys    map[ir.AssocTyID]*ir.AssociatedTyDatum
	AssocValues map[ir.AssocTyValueID]*ir.AssociatedTyValue
	Hidden      map[ir.OpaqueTyID]ir.Ty
	WellKnown   map[ir.WellKnownTrait]ir.TraitID
	AutoImpls   map[ir.TraitID]map[ir.AdtID]bool
}

// NewMemoryDatabase returns an empty database ready for a fixture to
// populate field-by-field.
func NewMemoryDatabase(interner *intern.Table) *MemoryDatabase {
	return &MemoryDatabase{
		interner:    interner,
		Clauses:     map[ir.TraitID][]*ir.ProgramClause{},
		Adts:        map[ir.AdtID]*ir.AdtDatum{},
		FnDefs:      map[ir.FnDefID]*ir.FnDefDatum{},
		Traits:      map[ir.TraitID]*ir.TraitDatum{},
		Impls:       map[ir.ImplID]*ir.ImplDatum{},
		OpaqueTys:   map[ir.OpaqueTyID]*ir.OpaqueTyDatum{},
		AssocTys:    map[ir.AssocTyID]*ir.AssociatedTyDatum{},
		AssocValues: map[ir.AssocTyValueID]*ir.AssociatedTyValue{},
		Hidden:      map[ir.OpaqueTyID]ir.Ty{},
		WellKnown:   map[ir.WellKnownTrait]ir.TraitID{},
		AutoImpls:   map[ir.TraitID]map[ir.AdtID]bool{},
	}
}

func (d *MemoryDatabase) Interner() *intern.Table { return d.interner }

// ProgramClauses looks up the clause set registered for the goal's trait.
// Goals that aren't ImplementedGoal (AliasEq, WellFormed, ...) have no
// clauses of their own here — a full clause generator is explicitly out of
// scope (§1 Non-goals "Building program clauses from surface syntax") — so
// MemoryDatabase only ever answers pre-registered ImplementedGoal lookups,
// exactly the shape internal/testprogram's fixtures build by hand.
func (d *MemoryDatabase) ProgramClauses(env *ir.Environment, goal ir.DomainGoal) ([]*ir.ProgramClause, error) {
	ig, ok := goal.(ir.ImplementedGoal)
	if !ok || ig.TraitRef == nil {
		return nil, solvererr.ErrFloundered
	}
	if td := d.Traits[ig.TraitRef.TraitID]; td != nil && td.NonEnumerable && fold.HasFreeVarsInSubst(ig.TraitRef.Subst) {
		return nil, solvererr.ErrFloundered
	}
	clauses := append([]*ir.ProgramClause{}, d.Clauses[ig.TraitRef.TraitID]...)
	clauses = append(clauses, env.Clauses...)
	return clauses, nil
}

func (d *MemoryDatabase) AdtVariance(id ir.AdtID) []ir.Variance {
	if a := d.Adts[id]; a != nil {
		return a.Variance
	}
	return nil
}

func (d *MemoryDatabase) FnDefVariance(id ir.FnDefID) []ir.Variance {
	if f := d.FnDefs[id]; f != nil {
		return f.Variance
	}
	return nil
}

func (d *MemoryDatabase) AdtDatum(id ir.AdtID) *ir.AdtDatum       { return d.Adts[id] }
func (d *MemoryDatabase) FnDefDatum(id ir.FnDefID) *ir.FnDefDatum { return d.FnDefs[id] }
func (d *MemoryDatabase) TraitDatum(id ir.TraitID) *ir.TraitDatum { return d.Traits[id] }
func (d *MemoryDatabase) ImplDatum(id ir.ImplID) *ir.ImplDatum    { return d.Impls[id] }

func (d *MemoryDatabase) OpaqueTyData(id ir.OpaqueTyID) *ir.OpaqueTyDatum { return d.OpaqueTys[id] }

func (d *MemoryDatabase) AssociatedTyData(id ir.AssocTyID) *ir.AssociatedTyDatum {
	return d.AssocTys[id]
}

func (d *MemoryDatabase) AssociatedTyValue(id ir.AssocTyValueID) *ir.AssociatedTyValue {
	return d.AssocValues[id]
}

func (d *MemoryDatabase) HiddenOpaqueType(id ir.OpaqueTyID) ir.Ty { return d.Hidden[id] }

func (d *MemoryDatabase) IsObjectSafe(id ir.TraitID) bool {
	if t := d.Traits[id]; t != nil {
		return t.ObjectSafe
	}
	return false
}

func (d *MemoryDatabase) WellKnownTraitID(w ir.WellKnownTrait) (ir.TraitID, bool) {
	id, ok := d.WellKnown[w]
	return id, ok
}

// TraitRefFromProjection builds the TraitRef a projection's associated type
// belongs to, looking through the associated type's declaring trait and
// reusing the projection's own substitution prefix (the trait's own generic
// parameters come first in an associated type's combined substitution, the
// same layout convention chalk's `Projection` uses).
func (d *MemoryDatabase) TraitRefFromProjection(p *ir.Projection) *ir.TraitRef {
	if p == nil {
		return nil
	}
	assoc := d.AssocTys[p.AssocTyID]
	if assoc == nil {
		return nil
	}
	trait := d.Traits[assoc.TraitID]
	if trait == nil {
		return nil
	}
	n := len(trait.Binders.Kinds)
	if n > len(p.Subst) {
		n = len(p.Subst)
	}
	return &ir.TraitRef{TraitID: assoc.TraitID, Subst: p.Subst[:n]}
}

func (d *MemoryDatabase) ImplProvidedFor(autoTraitID ir.TraitID, adtID ir.AdtID) bool {
	byAdt := d.AutoImpls[autoTraitID]
	return byAdt != nil && byAdt[adtID]
}
