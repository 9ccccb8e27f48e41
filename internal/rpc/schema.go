// Package rpc is the optional out-of-process transport §6's "Wire/file
// formats: none at the core level" line carves room for: internal/solver
// itself never touches the network or a wire format, but a host that wants
// one gets a thin gRPC streaming adaptor here, built the same way the
// teacher's internal/evaluator/builtins_grpc.go builds a grpc.ServiceDesc
// and dynamic.Message by hand instead of generated protoc-gen-go stubs —
// there is no .proto file backing this service, so the message shapes are
// built programmatically with protoreflect's desc/builder.
package rpc

import (
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/builder"
)

// GoalEnvelope carries a named, pre-registered goal across the wire: full
// ir.Goal trees are recursive internal structure with no wire format of
// their own (§6), so the envelope names a goal a Registry already holds
// rather than attempting to marshal one from scratch.
func goalEnvelopeMessage() (*builder.MessageBuilder, error) {
	msg := builder.NewMessage("GoalEnvelope")
	if err := msg.TrySetComments(builder.Comments{LeadingComment: "a named goal a Registry resolves before solving"}); err != nil {
		return nil, err
	}
	if _, err := msg.TryAddField(builder.NewField("name", builder.FieldTypeString())); err != nil {
		return nil, err
	}
	return msg, nil
}

// SolutionEnvelope mirrors one streamed ir.Solution: Kind is "none",
// "unique", or "ambiguous"; Description is its fmt.Sprintf("%+v", ...) text
// (the one place this package renders a Solution legibly rather than
// structurally, matching §6's framing of the wire boundary as diagnostic
// rather than a re-solvable format); Index and HasNext mirror
// Solver.SolveMultiple's own callback shape.
func solutionEnvelopeMessage() (*builder.MessageBuilder, error) {
	msg := builder.NewMessage("SolutionEnvelope")
	fields := []*builder.FieldBuilder{
		builder.NewField("kind", builder.FieldTypeString()),
		builder.NewField("description", builder.FieldTypeString()),
		builder.NewField("index", builder.FieldTypeInt32()),
		builder.NewField("has_next", builder.FieldTypeBool()),
	}
	for _, f := range fields {
		if _, err := msg.TryAddField(f); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func buildFile() (*desc.FileDescriptor, error) {
	goalMsg, err := goalEnvelopeMessage()
	if err != nil {
		return nil, err
	}
	solMsg, err := solutionEnvelopeMessage()
	if err != nil {
		return nil, err
	}
	file := builder.NewFile("funxy_rpc.proto")
	if _, err := file.TryAddMessage(goalMsg); err != nil {
		return nil, err
	}
	if _, err := file.TryAddMessage(solMsg); err != nil {
		return nil, err
	}
	return file.Build()
}

// GoalDescriptor returns the dynamic message descriptor for the wire
// GoalEnvelope, built fresh each call since a *desc.FileDescriptor carries
// no exported mutable state worth caching across a short-lived process.
func GoalDescriptor() (*desc.MessageDescriptor, error) {
	fd, err := buildFile()
	if err != nil {
		return nil, err
	}
	return fd.FindMessage("GoalEnvelope"), nil
}

// SolutionDescriptor returns the dynamic message descriptor for the wire
// SolutionEnvelope.
func SolutionDescriptor() (*desc.MessageDescriptor, error) {
	fd, err := buildFile()
	if err != nil {
		return nil, err
	}
	return fd.FindMessage("SolutionEnvelope"), nil
}
