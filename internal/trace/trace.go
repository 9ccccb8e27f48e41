// Package trace implements a uuid-correlated event log over a solve's
// per-table lifecycle (table creation, each answer as it's produced,
// floundering, completion), the diagnostic surface §6's "Tracing and
// diagnostics" wiring note asks for.
//
// Grounded on the teacher's internal/evaluator/builtins_term.go: the same
// NO_COLOR / COLORTERM / TERM sniffing via mattn/go-isatty
// (detectColorLevel/getColorLevel) and the same ansiFg escape-wrapping
// idiom, generalized from interactive terminal builtins into a small
// structured event log a host can attach to a Tracer-aware solve. Column
// alignment for goal descriptions uses golang.org/x/text/width's east-
// asian-wide rune accounting — the teacher's own output is line-oriented
// prose, never tabular, so this is new territory grounded on the library's
// documented purpose rather than a teacher callsite.
package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"
)

// Level gates ANSI output. The teacher tracks a finer gradient
// (0/1/256/16777216) because its builtins expose 256-color and truecolor
// escapes directly to program authors; a Tracer only ever needs on/off.
type Level int

const (
	LevelNone Level = iota
	LevelColor
)

func detectLevel(w io.Writer) Level {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return LevelNone
	}
	f, ok := w.(*os.File)
	if !ok {
		return LevelNone
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return LevelNone
	}
	if os.Getenv("TERM") == "dumb" {
		return LevelNone
	}
	return LevelColor
}

// EventKind distinguishes the four table-lifecycle occurrences a Tracer
// records.
type EventKind int

const (
	TableCreated EventKind = iota
	AnswerFound
	TableFloundered
	TableCompleted
)

func (k EventKind) label() string {
	switch k {
	case TableCreated:
		return "table"
	case AnswerFound:
		return "answer"
	case TableFloundered:
		return "flounder"
	case TableCompleted:
		return "done"
	default:
		return "?"
	}
}

// color is the ANSI SGR foreground code for k, chosen the way the
// teacher's builtinFg256/named-color builtins pick a fixed code per style
// rather than deriving one.
func (k EventKind) color() int {
	switch k {
	case TableCreated:
		return 36 // cyan
	case AnswerFound:
		return 32 // green
	case TableFloundered:
		return 33 // yellow
	case TableCompleted:
		return 34 // blue
	default:
		return 0
	}
}

// Event is one recorded occurrence.
type Event struct {
	Table uuid.UUID
	Kind  EventKind
	Goal  string
	Note  string
}

// Tracer serializes traced events to Out, one line per event. A single
// Tracer may be shared across solves run one after another from the same
// goroutine (§5 "single-threaded cooperative"), or handed to a host that
// embeds several such solves inside its own concurrent request handling —
// the mutex exists for that latter case, not because this package itself
// runs anything concurrently.
type Tracer struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	goalWidth int
}

// New returns a Tracer writing to out, auto-detecting ANSI support the way
// the teacher's terminal builtins do.
func New(out io.Writer) *Tracer {
	return &Tracer{out: out, level: detectLevel(out), goalWidth: 40}
}

func (t *Tracer) ansiFg(code int, s string) string {
	if t.level == LevelNone {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[39m", code, s)
}

// displayWidth counts s in terminal columns, charging 2 columns for every
// East-Asian wide/fullwidth rune instead of 1.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// pad right-pads s to t.goalWidth display columns, leaving it unmodified
// (never truncated) once it already meets or exceeds that width.
func (t *Tracer) pad(s string) string {
	n := displayWidth(s)
	if n >= t.goalWidth {
		return s
	}
	return s + strings.Repeat(" ", t.goalWidth-n)
}

func (t *Tracer) emit(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	label := t.ansiFg(ev.Kind.color(), fmt.Sprintf("[%-8s]", ev.Kind.label()))
	id := ev.Table.String()
	if len(id) > 8 {
		id = id[:8]
	}
	line := fmt.Sprintf("%s %s %s", label, id, t.pad(ev.Goal))
	if ev.Note != "" {
		line += " " + ev.Note
	}
	fmt.Fprintln(t.out, line)
}

// TableCreated records a fresh table being seeded for goal.
func (t *Tracer) TableCreated(id uuid.UUID, goal string) {
	t.emit(Event{Table: id, Kind: TableCreated, Goal: goal})
}

// AnswerFound records the index-th (0-based) answer a table produced.
func (t *Tracer) AnswerFound(id uuid.UUID, goal string, index int, ambiguous bool) {
	note := fmt.Sprintf("#%d", index)
	if ambiguous {
		note += " (ambiguous)"
	}
	t.emit(Event{Table: id, Kind: AnswerFound, Goal: goal, Note: note})
}

// TableFloundered records a table giving up without a definite answer set.
func (t *Tracer) TableFloundered(id uuid.UUID, goal string) {
	t.emit(Event{Table: id, Kind: TableFloundered, Goal: goal})
}

// TableCompleted records a table reaching a fixed point, with the total
// number of answers it ended up with.
func (t *Tracer) TableCompleted(id uuid.UUID, goal string, answers int) {
	t.emit(Event{Table: id, Kind: TableCompleted, Goal: goal, Note: fmt.Sprintf("%d answer(s)", answers)})
}
