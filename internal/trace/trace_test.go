package trace_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/funvibe/funxy/internal/trace"
)

func TestTableCreatedWritesOneLineWithGoalAndShortID(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.New(&buf)
	id := uuid.New()

	tr.TableCreated(id, "Foo: Eq")

	out := buf.String()
	if !strings.Contains(out, "table") {
		t.Fatalf("want the event kind label in output, got %q", out)
	}
	if !strings.Contains(out, id.String()[:8]) {
		t.Fatalf("want the table's short ID in output, got %q", out)
	}
	if !strings.Contains(out, "Foo: Eq") {
		t.Fatalf("want the goal description in output, got %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("want exactly one line of output, got %q", out)
	}
}

func TestBufferIsNotATerminalSoNoColorEscapesLeak(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.New(&buf)
	tr.AnswerFound(uuid.New(), "Foo: Eq", 0, false)
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("a plain bytes.Buffer is not a terminal; output must never carry ANSI escapes, got %q", buf.String())
	}
}

func TestAnswerFoundNotesIndexAndAmbiguity(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.New(&buf)
	tr.AnswerFound(uuid.New(), "Foo: Eq", 2, true)
	out := buf.String()
	if !strings.Contains(out, "#2") {
		t.Fatalf("want the answer index noted, got %q", out)
	}
	if !strings.Contains(out, "ambiguous") {
		t.Fatalf("want ambiguity noted, got %q", out)
	}
}

func TestTableCompletedNotesAnswerCount(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.New(&buf)
	tr.TableCompleted(uuid.New(), "Foo: Eq", 3)
	if got := buf.String(); !strings.Contains(got, "3 answer(s)") {
		t.Fatalf("want the final answer count noted, got %q", got)
	}
}

func TestGoalDescriptionIsPaddedToColumnWidth(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.New(&buf)
	tr.TableCreated(uuid.New(), "x")
	tr.TableCompleted(uuid.New(), "xyz", 0)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %v", len(lines), lines)
	}
	// The first line has no note, so it ends where its padded goal column
	// ends; the second line's goal is longer, yet its note must still start
	// one space past that same column.
	firstNoteCol := len(lines[0]) + 1
	secondNoteCol := strings.Index(lines[1], "0 answer(s)")
	if firstNoteCol != secondNoteCol {
		t.Fatalf("padded goal columns must align across events, got %d vs %d in %q / %q",
			firstNoteCol, secondNoteCol, lines[0], lines[1])
	}
}
