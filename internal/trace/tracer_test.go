package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNopDiscardsEverything(t *testing.T) {
	Nop.Emit(Event{Level: LevelDebug, Tag: "x", Msg: "y"})
	if Nop.Level() != LevelOff {
		t.Fatalf("Nop.Level() = %v, want LevelOff", Nop.Level())
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase)
	tr.Emit(Event{Level: LevelDebug, Tag: "store.query", Msg: "recompute"})
	if buf.Len() != 0 {
		t.Fatalf("debug-level event leaked through a phase-level tracer: %q", buf.String())
	}
	tr.Emit(Event{Level: LevelPhase, Tag: "store.query", Msg: "recompute"})
	if !strings.Contains(buf.String(), "recompute") {
		t.Fatalf("phase-level event missing from output: %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Fatal("FromContext did not return the tracer stored by WithTracer")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("FromContext on a bare context did not fall back to Nop")
	}
}
