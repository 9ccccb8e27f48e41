package rpc

import (
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/desc"
)

// DescribeGoalEnvelope reports the wire GoalEnvelope's fields, the
// dynamic-descriptor diagnostic SPEC_FULL's rpc wiring note asks for: a
// host that only has this package (no .proto file, no generated stubs) can
// still introspect what a SolveStream request actually looks like on the
// wire.
func DescribeGoalEnvelope() (string, error) {
	md, err := GoalDescriptor()
	if err != nil {
		return "", err
	}
	return describeMessage(md), nil
}

// DescribeSolutionEnvelope is DescribeGoalEnvelope's counterpart for the
// streamed reply shape.
func DescribeSolutionEnvelope() (string, error) {
	md, err := SolutionDescriptor()
	if err != nil {
		return "", err
	}
	return describeMessage(md), nil
}

func describeMessage(md *desc.MessageDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "message %s {\n", md.GetName())
	for _, fd := range md.GetFields() {
		fmt.Fprintf(&b, "  %s %s = %d;\n", fd.GetType(), fd.GetName(), fd.GetNumber())
	}
	b.WriteString("}")
	return b.String()
}
