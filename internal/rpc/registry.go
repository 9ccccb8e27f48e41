package rpc

import (
	"fmt"
	"sync"

	"github.com/funvibe/funxy/internal/ir"
)

// Registry holds the named goals a SolveStream request may reference, the
// same "register before invoke" shape as the teacher's protoRegistry for
// loaded .proto files (internal/evaluator/builtins_grpc.go's
// grpcLoadProto/findMethodDescriptor pair), generalized from proto file
// descriptors to solver goals.
type Registry struct {
	mu    sync.RWMutex
	goals map[string]ir.UCanonicalGoal
}

func NewRegistry() *Registry {
	return &Registry{goals: make(map[string]ir.UCanonicalGoal)}
}

// Register names a goal for later SolveStream requests to resolve.
func (r *Registry) Register(name string, goal ir.UCanonicalGoal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[name] = goal
}

func (r *Registry) Goal(name string) (ir.UCanonicalGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.goals[name]
	if !ok {
		return ir.UCanonicalGoal{}, fmt.Errorf("rpc: no goal registered under name %q", name)
	}
	return g, nil
}
