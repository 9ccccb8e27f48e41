package solver_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solver"
	"github.com/funvibe/funxy/internal/testprogram"
	"github.com/funvibe/funxy/internal/trace"
)

func TestSolveWithTracerRecordsTableLifecycle(t *testing.T) {
	b := testprogram.New()
	intID := b.Struct(0)
	eqID := b.Trait(testprogram.TraitOpts{Arity: 1})

	b.Impl(testprogram.ImplSpec{
		TraitID:   eqID,
		SelfTy:    func([]ir.GenericArg) ir.Ty { return testprogram.AdtTy(intID) },
		TraitArgs: func([]ir.GenericArg) []ir.GenericArg { return []ir.GenericArg{ir.TyArg(testprogram.AdtTy(intID))} },
		Polarity:  ir.Positive,
	})

	var buf bytes.Buffer
	s := solver.New(b.DB, config.Default(), solver.WithTracer(trace.New(&buf)))

	goal := testprogram.RootGoal(testprogram.EmptyEnv(), testprogram.Implemented(eqID,
		ir.TyArg(testprogram.AdtTy(intID)), ir.TyArg(testprogram.AdtTy(intID))))
	if _, err := s.Solve(&goal); err != nil {
		t.Fatalf("Int: Eq<Int>: unexpected error %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "table") {
		t.Fatalf("want a table-created event, got %q", out)
	}
	if !strings.Contains(out, "answer") {
		t.Fatalf("want an answer-found event, got %q", out)
	}
	if !strings.Contains(out, "done") {
		t.Fatalf("want a table-completed event, got %q", out)
	}
	if !strings.Contains(out, "1 answer(s)") {
		t.Fatalf("want the completed event to note exactly 1 answer, got %q", out)
	}
}

func TestSolveWithoutTracerEmitsNothing(t *testing.T) {
	b := testprogram.New()
	intID := b.Struct(0)
	eqID := b.Trait(testprogram.TraitOpts{Arity: 1})

	b.Impl(testprogram.ImplSpec{
		TraitID:   eqID,
		SelfTy:    func([]ir.GenericArg) ir.Ty { return testprogram.AdtTy(intID) },
		TraitArgs: func([]ir.GenericArg) []ir.GenericArg { return []ir.GenericArg{ir.TyArg(testprogram.AdtTy(intID))} },
		Polarity:  ir.Positive,
	})

	s := solver.New(b.DB, config.Default())
	goal := testprogram.RootGoal(testprogram.EmptyEnv(), testprogram.Implemented(eqID,
		ir.TyArg(testprogram.AdtTy(intID)), ir.TyArg(testprogram.AdtTy(intID))))
	if _, err := s.Solve(&goal); err != nil {
		t.Fatalf("Int: Eq<Int>: unexpected error %v", err)
	}
	// No assertion beyond "doesn't panic": a driver with no tracer attached
	// must tolerate traceTable being called as a no-op.
}
