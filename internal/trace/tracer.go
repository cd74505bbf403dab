// Package trace provides the leveled tracer threaded through context.Context
// that the memoization store (internal/store) and the deferred inference
// runtime (internal/infer) use to log query recomputation and task
// wake-ups when the CLI's --trace flag is set.
package trace

import (
	"fmt"
	"io"
	"time"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelPhase
	LevelDetail
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "off"
	}
}

// ParseLevel parses the --trace-level flag value.
func ParseLevel(s string) Level {
	switch s {
	case "phase":
		return LevelPhase
	case "detail":
		return LevelDetail
	case "debug":
		return LevelDebug
	default:
		return LevelOff
	}
}

// Event is a single trace record: a query recompute, a task wake-up, a
// symbolize step, etc.
type Event struct {
	At    time.Time
	Level Level
	Tag   string // e.g. "store.query", "infer.wake", "symbolize.class"
	Msg   string
}

// Tracer receives trace events. Implementations must be goroutine-safe,
// though the checker core itself is single-threaded; the tracer may
// still be shared with a concurrent internal/vfs loader.
type Tracer interface {
	Emit(ev Event)
	Level() Level
}

// nopTracer discards every event.
type nopTracer struct{}

func (nopTracer) Emit(Event)    {}
func (nopTracer) Level() Level { return LevelOff }

// Nop is the zero-overhead tracer used when tracing is disabled.
var Nop Tracer = nopTracer{}

// StreamTracer writes events as text lines to an io.Writer, filtered by level.
type StreamTracer struct {
	w     io.Writer
	level Level
}

// NewStreamTracer returns a StreamTracer writing to w at the given level.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Emit(ev Event) {
	if ev.Level > t.level || t.level == LevelOff {
		return
	}
	fmt.Fprintf(t.w, "[%s] %-18s %s\n", ev.At.Format("15:04:05.000"), ev.Tag, ev.Msg)
}
