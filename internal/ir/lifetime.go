package ir

// Lifetime is the tagged union of region terms named in §3.
type Lifetime interface {
	isLifetime()
}

type sealedLt struct{}

func (sealedLt) isLifetime() {}

type BoundVarLifetime struct {
	sealedLt
	Var BoundVar
}

type InferenceVarLifetime struct {
	sealedLt
	Var InferVar
}

type PlaceholderLifetime struct {
	sealedLt
	Placeholder Placeholder
}

// StaticLifetime is the outlives-everything region.
type StaticLifetime struct{ sealedLt }

// ErasedLifetime stands for a lifetime whose identity has been erased
// (accepted but not inspected by the solver, mirroring the Erased case
// chalk itself carries through for codegen-adjacent callers).
type ErasedLifetime struct{ sealedLt }

type ErrorLifetime struct{ sealedLt }
