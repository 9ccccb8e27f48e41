package fold

import "github.com/funvibe/funxy/internal/ir"

// shifter adds Delta to every *free* bound variable's DeBruijn depth. A
// bound variable is free relative to the term root when its depth is at
// least outerBinder (the number of binder levels fold has already
// descended through); anything bound more locally than that is left
// untouched, because it refers to a binder inside the very term being
// shifted, not to something outside it.
type shifter struct {
	Identity
	Delta int
}

func (s shifter) FoldBoundVarTy(outerBinder int, bv ir.BoundVar) ir.Ty {
	if bv.Depth >= outerBinder {
		bv.Depth += s.Delta
	}
	return ir.BoundVarTy{Var: bv}
}

func (s shifter) FoldBoundVarLifetime(outerBinder int, bv ir.BoundVar) ir.Lifetime {
	if bv.Depth >= outerBinder {
		bv.Depth += s.Delta
	}
	return ir.BoundVarLifetime{Var: bv}
}

func (s shifter) FoldBoundVarConst(outerBinder int, ty ir.Ty, bv ir.BoundVar) *ir.Const {
	if bv.Depth >= outerBinder {
		bv.Depth += s.Delta
	}
	return &ir.Const{Ty: ty, Value: ir.BoundVarConst{Var: bv}}
}

// ErrShiftOut is returned by ShiftedOutTy/Lifetime/Const when shifting out
// by n would drive some free bound variable's depth negative, i.e. the
// term references a binder that ShiftedOut's caller claims doesn't exist.
type shiftOutError struct{}

func (shiftOutError) Error() string { return "fold: shifted_out would produce a negative DeBruijn depth" }

// ErrShiftOut is the sentinel error ShiftedOut* functions return.
var ErrShiftOut error = shiftOutError{}

type checkedShifter struct {
	Identity
	Delta int
	Err   *error
}

func (s checkedShifter) FoldBoundVarTy(outerBinder int, bv ir.BoundVar) ir.Ty {
	if bv.Depth >= outerBinder {
		if bv.Depth+s.Delta < outerBinder {
			*s.Err = ErrShiftOut
			return ir.BoundVarTy{Var: bv}
		}
		bv.Depth += s.Delta
	}
	return ir.BoundVarTy{Var: bv}
}

func (s checkedShifter) FoldBoundVarLifetime(outerBinder int, bv ir.BoundVar) ir.Lifetime {
	if bv.Depth >= outerBinder {
		if bv.Depth+s.Delta < outerBinder {
			*s.Err = ErrShiftOut
			return ir.BoundVarLifetime{Var: bv}
		}
		bv.Depth += s.Delta
	}
	return ir.BoundVarLifetime{Var: bv}
}

func (s checkedShifter) FoldBoundVarConst(outerBinder int, ty ir.Ty, bv ir.BoundVar) *ir.Const {
	if bv.Depth >= outerBinder {
		if bv.Depth+s.Delta < outerBinder {
			*s.Err = ErrShiftOut
			return &ir.Const{Ty: ty, Value: ir.BoundVarConst{Var: bv}}
		}
		bv.Depth += s.Delta
	}
	return &ir.Const{Ty: ty, Value: ir.BoundVarConst{Var: bv}}
}

// ShiftedInTy increments every free DeBruijn depth in t by n.
func ShiftedInTy(t ir.Ty, n int) ir.Ty { return Ty(shifter{Delta: n}, t, 0) }

// ShiftedOutTy is the inverse of ShiftedInTy; it fails (returns ErrShiftOut)
// if any free depth would go negative.
func ShiftedOutTy(t ir.Ty, n int) (ir.Ty, error) {
	var err error
	out := Ty(checkedShifter{Delta: -n, Err: &err}, t, 0)
	return out, err
}

// ShiftedInLifetime and ShiftedOutLifetime are the Lifetime-level analogs.
func ShiftedInLifetime(l ir.Lifetime, n int) ir.Lifetime { return Lifetime(shifter{Delta: n}, l, 0) }

func ShiftedOutLifetime(l ir.Lifetime, n int) (ir.Lifetime, error) {
	var err error
	out := Lifetime(checkedShifter{Delta: -n, Err: &err}, l, 0)
	return out, err
}

// ShiftedInConst and ShiftedOutConst are the Const-level analogs.
func ShiftedInConst(c *ir.Const, n int) *ir.Const { return ConstT(shifter{Delta: n}, c, 0) }

func ShiftedOutConst(c *ir.Const, n int) (*ir.Const, error) {
	var err error
	out := ConstT(checkedShifter{Delta: -n, Err: &err}, c, 0)
	return out, err
}

// ShiftedInGoal and ShiftedOutGoal are the Goal-level analogs, used when a
// goal is pushed under an extra ImpliesGoal/QuantifiedGoal binder or popped
// back out of one.
func ShiftedInGoal(g ir.Goal, n int) ir.Goal { return GoalF(shifter{Delta: n}, g, 0) }

func ShiftedOutGoal(g ir.Goal, n int) (ir.Goal, error) {
	var err error
	out := GoalF(checkedShifter{Delta: -n, Err: &err}, g, 0)
	return out, err
}

// ShiftedInSubst and ShiftedOutSubst are the Substitution-level analogs.
func ShiftedInSubst(s ir.Substitution, n int) ir.Substitution { return Subst(shifter{Delta: n}, s, 0) }

func ShiftedOutSubst(s ir.Substitution, n int) (ir.Substitution, error) {
	var err error
	out := Subst(checkedShifter{Delta: -n, Err: &err}, s, 0)
	return out, err
}
