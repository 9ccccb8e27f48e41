package infer

import "github.com/funvibe/funxy/internal/ir"

// cell is one slot of a typed union-find forest. A root cell (Parent ==
// its own index) is either Unbound (holds only a Universe) or Bound (holds
// a Value, resolved after one normalize_shallow step). Non-root cells only
// ever have their Parent field meaningful; they arise from Var<->Var
// unification (§4.5 "Var↔Var (same kind): union in the table").
type cell[T any] struct {
	parent   int
	rank     int
	bound    bool
	universe ir.Universe
	value    T
}

type unionFind[T any] struct {
	cells []cell[T]
}

func (u *unionFind[T]) newVar(universe ir.Universe) int {
	idx := len(u.cells)
	u.cells = append(u.cells, cell[T]{parent: idx, universe: universe})
	return idx
}

func (u *unionFind[T]) len() int { return len(u.cells) }

// find returns the representative root index for idx, compressing the path
// as it goes.
func (u *unionFind[T]) find(idx int) int {
	root := idx
	for u.cells[root].parent != root {
		root = u.cells[root].parent
	}
	for idx != root {
		next := u.cells[idx].parent
		u.cells[idx].parent = root
		idx = next
	}
	return root
}

// root returns a copy of the representative cell for idx.
func (u *unionFind[T]) root(idx int) cell[T] {
	return u.cells[u.find(idx)]
}

// union merges the roots of a and b (both must currently be unbound — the
// caller is responsible for ensuring that, since a bound root should be
// dereferenced by the unifier rather than unioned) and returns the
// surviving root index. The surviving root's universe becomes the minimum
// of the two (the more restrictive one), matching occurs-check promotion
// direction: a variable may only see what both its constituent unions can
// see.
func (u *unionFind[T]) union(a, b int) int {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return ra
	}
	ca, cb := &u.cells[ra], &u.cells[rb]
	if ca.universe > cb.universe {
		ca.universe = cb.universe
	} else {
		cb.universe = ca.universe
	}
	switch {
	case ca.rank < cb.rank:
		ca.parent = rb
		return rb
	case ca.rank > cb.rank:
		cb.parent = ra
		return ra
	default:
		cb.parent = ra
		ca.rank++
		return ra
	}
}

// bind sets the root of idx to Value, marking it bound. The caller must
// have already run the occurs check.
func (u *unionFind[T]) bind(idx int, value T) {
	root := u.find(idx)
	u.cells[root].bound = true
	u.cells[root].value = value
}

// promote lowers (never raises) the universe of idx's root to at most
// universe — occurs-check's "promote a variable found in a higher universe
// to the binding variable's universe" (§4.4 point 3).
func (u *unionFind[T]) promote(idx int, universe ir.Universe) {
	root := u.find(idx)
	if u.cells[root].universe > universe {
		u.cells[root].universe = universe
	}
}

// snapshot captures enough state to undo every mutation performed after it:
// the cell slice length (new vars are simply truncated away) plus a copy of
// every cell that existed at snapshot time (since union/bind mutate cells
// in place).
type ufSnapshot[T any] struct {
	length int
	cells  []cell[T]
}

func (u *unionFind[T]) snapshot() ufSnapshot[T] {
	cp := make([]cell[T], len(u.cells))
	copy(cp, u.cells)
	return ufSnapshot[T]{length: len(u.cells), cells: cp}
}

func (u *unionFind[T]) rollbackTo(s ufSnapshot[T]) {
	u.cells = u.cells[:s.length]
	copy(u.cells, s.cells)
}
