package ir

import (
	"fmt"
	"strings"
)

// String implementations below cover only what tests need to assert useful
// failure messages against (spec §1: "Pretty-printing and debug formatting
// beyond what tests require" is out of scope). They are intentionally
// terse, matching the teacher's own `TVar.String()` one-liner style in
// `internal/typesystem/types.go` rather than a full pretty-printer.

func (t BoundVarTy) String() string    { return t.Var.String() }
func (t InferenceVarTy) String() string { return t.Var.String() }
func (t PlaceholderTy) String() string { return t.Placeholder.String() }
func (ErrorTy) String() string         { return "{error}" }
func (StrTy) String() string           { return "str" }
func (NeverTy) String() string         { return "!" }

func (t ScalarTy) String() string {
	switch t.Kind {
	case ScalarBool:
		return "bool"
	case ScalarChar:
		return "char"
	case ScalarInt:
		return fmt.Sprintf("i%d", t.Bits)
	case ScalarUint:
		return fmt.Sprintf("u%d", t.Bits)
	case ScalarFloat:
		return fmt.Sprintf("f%d", t.Bits)
	default:
		return "scalar"
	}
}

func (t AdtTy) String() string {
	return fmt.Sprintf("Adt(%d)%s", t.ID, t.Subst.String())
}

func (t FnDefTy) String() string {
	return fmt.Sprintf("FnDef(%d)%s", t.ID, t.Subst.String())
}

func (t RefTy) String() string {
	m := ""
	if t.Mutability == Mut {
		m = "mut "
	}
	return fmt.Sprintf("&%s%v %s", m, t.Lifetime, t.Elem)
}

func (s Substitution) String() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, a := range s {
		switch a.Kind {
		case KindLifetime:
			parts[i] = fmt.Sprint(a.Lifetime)
		case KindConst:
			parts[i] = "const"
		default:
			parts[i] = fmt.Sprint(a.Ty)
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (l BoundVarLifetime) String() string     { return l.Var.String() }
func (l InferenceVarLifetime) String() string { return l.Var.String() }
func (l PlaceholderLifetime) String() string  { return l.Placeholder.String() }
func (StaticLifetime) String() string         { return "'static" }
func (ErasedLifetime) String() string         { return "'_" }
func (ErrorLifetime) String() string          { return "'{error}" }

func (t *TraitRef) String() string {
	return fmt.Sprintf("Implemented(Trait(%d)%s)", t.TraitID, t.Subst.String())
}
