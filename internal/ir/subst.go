package ir

// GenericArg is one slot of a Substitution: a type, lifetime, or const,
// tagged so callers can dispatch without a type switch on three otherwise
// incompatible Go types. This is the one place the term model uses a
// tagged struct instead of an interface, because a Substitution is an
// ordered list that must support positional zero-cost slicing
// (`subst[i:]`) the way a slice of interfaces with a further per-entry type
// switch would not read as cleanly — mirroring how the teacher keeps its
// `ast.InstanceDeclaration`'s generic parameter list as a flat slice rather
// than a polymorphic tree.
type GenericArg struct {
	Kind     VarKind
	Ty       Ty
	Lifetime Lifetime
	Const    *Const
}

func TyArg(t Ty) GenericArg             { return GenericArg{Kind: KindTy, Ty: t} }
func LifetimeArg(l Lifetime) GenericArg { return GenericArg{Kind: KindLifetime, Lifetime: l} }
func ConstArg(c *Const) GenericArg      { return GenericArg{Kind: KindConst, Const: c} }

// Substitution is an ordered sequence of generic arguments, indexed by
// canonical-binder position (§3 "Substitution").
type Substitution []GenericArg

// Identity builds the identity substitution for a list of variable kinds,
// each argument built from the corresponding bound variable at depth 0 —
// used when instantiating a Binders[T] "as-is" and when the aggregator
// needs to test an answer against the identity mapping (§4.8 "trivial").
func Identity(kinds []VarKind) Substitution {
	out := make(Substitution, len(kinds))
	for i, k := range kinds {
		switch k {
		case KindLifetime:
			out[i] = LifetimeArg(BoundVarLifetime{Var: BoundVar{Depth: 0, Index: i}})
		case KindConst:
			out[i] = ConstArg(&Const{Value: BoundVarConst{Var: BoundVar{Depth: 0, Index: i}}})
		default:
			out[i] = TyArg(BoundVarTy{Var: BoundVar{Depth: 0, Index: i}})
		}
	}
	return out
}

// IsIdentity reports whether s is exactly the identity substitution for its
// own length, i.e. every slot i is BoundVar{0, i} of the matching kind.
func (s Substitution) IsIdentity() bool {
	for i, arg := range s {
		switch arg.Kind {
		case KindTy:
			bv, ok := arg.Ty.(BoundVarTy)
			if !ok || bv.Var != (BoundVar{Depth: 0, Index: i}) {
				return false
			}
		case KindLifetime:
			bv, ok := arg.Lifetime.(BoundVarLifetime)
			if !ok || bv.Var != (BoundVar{Depth: 0, Index: i}) {
				return false
			}
		case KindConst:
			if arg.Const == nil {
				return false
			}
			bv, ok := arg.Const.Value.(BoundVarConst)
			if !ok || bv.Var != (BoundVar{Depth: 0, Index: i}) {
				return false
			}
		}
	}
	return true
}

// Kinds extracts the VarKind sequence a Substitution was built against,
// used to rebuild an identity substitution of the same shape.
func (s Substitution) Kinds() []VarKind {
	out := make([]VarKind, len(s))
	for i, a := range s {
		out[i] = a.Kind
	}
	return out
}
