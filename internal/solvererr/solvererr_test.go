package solvererr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solvererr"
)

func TestSentinelsAreDistinctAndStable(t *testing.T) {
	if errors.Is(solvererr.ErrNoSolution, solvererr.ErrFloundered) {
		t.Fatal("ErrNoSolution and ErrFloundered must not be the same sentinel")
	}
	wrapped := fmt.Errorf("leaf goal: %w", solvererr.ErrFloundered)
	if !errors.Is(wrapped, solvererr.ErrFloundered) {
		t.Fatal("wrapped ErrFloundered must still satisfy errors.Is")
	}
}

func TestAmbiguousErrorCarriesSolution(t *testing.T) {
	sol := ir.AmbiguousSolution(ir.Guidance{Kind: ir.GuidanceUnknown})
	err := &solvererr.AmbiguousError{Solution: sol}
	if err.Solution != sol {
		t.Fatal("AmbiguousError must retain the exact Solution pointer it was built with")
	}
	if err.Error() == "" {
		t.Fatal("AmbiguousError.Error() must not be empty")
	}
}

func TestOverflowErrorReportsDepth(t *testing.T) {
	err := solvererr.OverflowError{Depth: 7}
	if got := err.Error(); got == "" {
		t.Fatal("OverflowError.Error() must not be empty")
	}
	var asErr error = err
	var oe solvererr.OverflowError
	if !errors.As(asErr, &oe) || oe.Depth != 7 {
		t.Fatalf("errors.As must recover Depth 7, got %+v", oe)
	}
}

func TestInvariantPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Invariant must panic")
		}
		msg, ok := r.(string)
		if !ok || msg != "unify: bad thing 3" {
			t.Fatalf("want formatted panic message, got %v", r)
		}
	}()
	solvererr.Invariant("unify: bad thing %d", 3)
}
