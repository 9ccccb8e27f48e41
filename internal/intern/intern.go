// Package intern provides flyweight handles for every heap term the prover
// manipulates. Two handles compare equal iff the terms they name are
// structurally equal, and that comparison is O(1) once interned.
package intern

import "sync"

// ID is the opaque handle returned by every intern channel. Each term kind
// (types, substitutions, clause lists, bound-variable-kind lists, ...) keeps
// its own numbering so a TyID and a SubstID are never accidentally comparable.
type ID uint32

// TyID, SubstID, ClauseListID, GoalListID, VarKindListID, BoundListID are the
// handle flavors named by the data model (§3 "Identifiers and universes").
// Each is a distinct Go type so the compiler rejects mixing them up even
// though they all wrap the same underlying uint32.
type (
	TyID          ID
	LifetimeID    ID
	SubstID       ID
	ClauseListID  ID
	GoalListID    ID
	VarKindListID ID
	BoundListID   ID
)

// channel is one flyweight table: structural key -> handle, plus the
// reverse mapping for retrieval.
type channel[T any] struct {
	mu      sync.RWMutex
	byKey   map[string]ID
	byID    []T
	keyFunc func(T) string
}

func newChannel[T any](keyFunc func(T) string) *channel[T] {
	return &channel[T]{
		byKey:   make(map[string]ID),
		keyFunc: keyFunc,
	}
}

func (c *channel[T]) intern(v T) ID {
	key := c.keyFunc(v)
	c.mu.RLock()
	if id, ok := c.byKey[key]; ok {
		c.mu.RUnlock()
		return id
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.byKey[key]; ok {
		return id
	}
	c.byID = append(c.byID, v)
	id := ID(len(c.byID) - 1)
	c.byKey[key] = id
	return id
}

func (c *channel[T]) lookup(id ID) T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id]
}

func (c *channel[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Table is the shared, read-only-from-the-outside interner. The solver
// treats it as read-only after setup; the mutex on each channel exists so a
// host that runs multiple solving sessions against one shared Table from
// separate goroutines never races, even though a single solve never does so
// itself (see spec §5 "Shared state").
type Table struct {
	tys      *channel[tyKey]
	lts      *channel[ltKey]
	substs   *channel[substKey]
	clauses  *channel[clauseListKey]
	goals    *channel[goalListKey]
	varKinds *channel[varKindListKey]
	bounds   *channel[boundListKey]
}

// NewTable creates an empty interner.
func NewTable() *Table {
	return &Table{
		tys:      newChannel(func(k tyKey) string { return string(k) }),
		lts:      newChannel(func(k ltKey) string { return string(k) }),
		substs:   newChannel(func(k substKey) string { return string(k) }),
		clauses:  newChannel(func(k clauseListKey) string { return string(k) }),
		goals:    newChannel(func(k goalListKey) string { return string(k) }),
		varKinds: newChannel(func(k varKindListKey) string { return string(k) }),
		bounds:   newChannel(func(k boundListKey) string { return string(k) }),
	}
}

// The key types below are plain strings built by callers in `internal/ir`
// (which knows the structural shape of each term) and handed to Intern*.
// Keeping the key-building logic in `ir` (instead of intern reaching into
// ir's types, which would be an import cycle) mirrors the teacher's own
// preference for small, dependency-free leaf packages (`internal/utils`).
type (
	tyKey          string
	ltKey          string
	substKey       string
	clauseListKey  string
	goalListKey    string
	varKindListKey string
	boundListKey   string
)

// InternTy interns a type given its precomputed structural key, returning a
// stable TyID (equal keys always yield the same TyID).
func (t *Table) InternTy(key string) TyID { return TyID(t.tys.intern(tyKey(key))) }

// TyKeyOf returns the structural key a TyID was interned with.
func (t *Table) TyKeyOf(id TyID) string { return string(t.tys.lookup(ID(id))) }

func (t *Table) InternLifetime(key string) LifetimeID { return LifetimeID(t.lts.intern(ltKey(key))) }
func (t *Table) LifetimeKeyOf(id LifetimeID) string    { return string(t.lts.lookup(ID(id))) }

func (t *Table) InternSubst(key string) SubstID { return SubstID(t.substs.intern(substKey(key))) }
func (t *Table) SubstKeyOf(id SubstID) string    { return string(t.substs.lookup(ID(id))) }

func (t *Table) InternClauseList(key string) ClauseListID {
	return ClauseListID(t.clauses.intern(clauseListKey(key)))
}
func (t *Table) ClauseListKeyOf(id ClauseListID) string {
	return string(t.clauses.lookup(ID(id)))
}

func (t *Table) InternGoalList(key string) GoalListID {
	return GoalListID(t.goals.intern(goalListKey(key)))
}
func (t *Table) GoalListKeyOf(id GoalListID) string { return string(t.goals.lookup(ID(id))) }

func (t *Table) InternVarKindList(key string) VarKindListID {
	return VarKindListID(t.varKinds.intern(varKindListKey(key)))
}
func (t *Table) VarKindListKeyOf(id VarKindListID) string {
	return string(t.varKinds.lookup(ID(id)))
}

func (t *Table) InternBoundList(key string) BoundListID {
	return BoundListID(t.bounds.intern(boundListKey(key)))
}
func (t *Table) BoundListKeyOf(id BoundListID) string { return string(t.bounds.lookup(ID(id))) }

// Stats reports the number of distinct terms interned per channel, used by
// tests that assert structural sharing actually happened.
type Stats struct {
	Tys, Lifetimes, Substs, ClauseLists, GoalLists, VarKindLists, BoundLists int
}

func (t *Table) Stats() Stats {
	return Stats{
		Tys:          t.tys.len(),
		Lifetimes:    t.lts.len(),
		Substs:       t.substs.len(),
		ClauseLists:  t.clauses.len(),
		GoalLists:    t.goals.len(),
		VarKindLists: t.varKinds.len(),
		BoundLists:   t.bounds.len(),
	}
}
