package rpc_test

import (
	"strings"
	"testing"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/rpc"
)

func TestGoalDescriptorHasNameField(t *testing.T) {
	md, err := rpc.GoalDescriptor()
	if err != nil {
		t.Fatalf("GoalDescriptor: unexpected error %v", err)
	}
	if md.FindFieldByName("name") == nil {
		t.Fatalf("GoalEnvelope: want a %q field, got fields %+v", "name", md.GetFields())
	}
}

func TestSolutionDescriptorHasExpectedFields(t *testing.T) {
	md, err := rpc.SolutionDescriptor()
	if err != nil {
		t.Fatalf("SolutionDescriptor: unexpected error %v", err)
	}
	for _, name := range []string{"kind", "description", "index", "has_next"} {
		if md.FindFieldByName(name) == nil {
			t.Errorf("SolutionEnvelope: want a %q field, got fields %+v", name, md.GetFields())
		}
	}
}

func TestDescribeGoalEnvelopeListsItsFields(t *testing.T) {
	out, err := rpc.DescribeGoalEnvelope()
	if err != nil {
		t.Fatalf("DescribeGoalEnvelope: unexpected error %v", err)
	}
	if !strings.Contains(out, "GoalEnvelope") || !strings.Contains(out, "name") {
		t.Fatalf("want the envelope name and its field listed, got %q", out)
	}
}

func TestRegistryRoundTripsAGoalByName(t *testing.T) {
	reg := rpc.NewRegistry()
	goal := ir.UCanonicalGoal{}
	reg.Register("trivial", goal)

	got, err := reg.Goal("trivial")
	if err != nil {
		t.Fatalf("Goal(%q): unexpected error %v", "trivial", err)
	}
	if got.Canonical.Len() != goal.Canonical.Len() {
		t.Fatalf("registered and resolved goal diverge: got %+v, want %+v", got, goal)
	}
}

func TestRegistryUnknownNameErrors(t *testing.T) {
	reg := rpc.NewRegistry()
	if _, err := reg.Goal("missing"); err == nil {
		t.Fatal("want an error resolving an unregistered goal name")
	}
}

func TestSolveStreamGoalEnvelopeRoundTripsThroughDynamicMessage(t *testing.T) {
	md, err := rpc.GoalDescriptor()
	if err != nil {
		t.Fatalf("GoalDescriptor: unexpected error %v", err)
	}
	factory := dynamic.NewMessageFactoryWithDefaults()
	msg := factory.NewDynamicMessage(md)
	if err := msg.TrySetFieldByName("name", "trivial"); err != nil {
		t.Fatalf("TrySetFieldByName(name): unexpected error %v", err)
	}
	v, err := msg.TryGetFieldByName("name")
	if err != nil {
		t.Fatalf("TryGetFieldByName(name): unexpected error %v", err)
	}
	if v != "trivial" {
		t.Fatalf("want the name field to round-trip, got %+v", v)
	}
}
