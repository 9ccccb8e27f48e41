package rpc

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/funvibe/funxy/internal/ir"
)

// decodeGoalName reads the "name" field a client sent, the same
// dynamic.Message field-by-name access the teacher's objectToDynamicMessage/
// dynamicMessageToObject pair uses for its generic Record/Map conversion.
func decodeGoalName(msg *dynamic.Message) (string, error) {
	v, err := msg.TryGetFieldByName("name")
	if err != nil {
		return "", err
	}
	name, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("rpc: GoalEnvelope.name must be a string, got %T", v)
	}
	return name, nil
}

// encodeSolution packages one streamed ir.Solution (or nil, for a
// SolveMultiple call that found nothing) as a wire SolutionEnvelope.
func encodeSolution(descriptor *dynamic.MessageFactory, sol *ir.Solution, index int, hasNext bool) (*dynamic.Message, error) {
	md, err := SolutionDescriptor()
	if err != nil {
		return nil, err
	}
	msg := descriptor.NewDynamicMessage(md)

	kind, desc := solutionKindAndDescription(sol)
	if err := msg.TrySetFieldByName("kind", kind); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("description", desc); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("index", int32(index)); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("has_next", hasNext); err != nil {
		return nil, err
	}
	return msg, nil
}

func solutionKindAndDescription(sol *ir.Solution) (string, string) {
	switch {
	case sol == nil:
		return "none", ""
	case sol.IsUnique():
		return "unique", fmt.Sprintf("%+v", sol.Unique.Value)
	default:
		return "ambiguous", fmt.Sprintf("%+v", *sol.Ambig)
	}
}
