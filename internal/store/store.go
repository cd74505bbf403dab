// Package store implements interning and memoization.
// It gives every identifier, reduced term, and tracked item (class,
// function, field, checked body) a stable handle, and it memoizes pure
// queries over those handles, recomputing a query only when something it
// actually read has changed — and, when a recomputed value is structurally
// identical to what was cached, treating it as unchanged so transitively
// dependent queries are reused without rerunning (early cutoff).
//
// The store's lifecycle is explicit: NewStore -> SetInput/Query calls during
// one checking run -> discarded. There is no ambient global instance.
package store

import (
	"time"

	"permcheck/internal/trace"
)

// Store is the only process-wide mutable state during checking. Reads
// record dependencies as a side effect; writes (SetInput) only
// happen between checking runs, never from inside a query body.
type Store struct {
	rev    Revision
	frames []*frame
	Stats  *Stats
	tracer trace.Tracer
}

type frame struct {
	deps []dep
}

// NewStore returns an empty store at revision 0.
func NewStore() *Store {
	return &Store{Stats: newStats(), tracer: trace.Nop}
}

// SetTracer routes query-recompute events to t (trace.Nop disables).
func (s *Store) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	s.tracer = t
}

func (s *Store) traceRecompute(label string) {
	if s.tracer.Level() >= trace.LevelDetail {
		s.tracer.Emit(trace.Event{At: time.Now(), Level: trace.LevelDetail, Tag: "store.query", Msg: "recompute " + label})
	}
}

// Revision returns the store's current logical clock value.
func (s *Store) Revision() Revision { return s.rev }

func (s *Store) pushFrame() *frame {
	f := &frame{}
	s.frames = append(s.frames, f)
	return f
}

func (s *Store) popFrame() *frame {
	n := len(s.frames)
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	return f
}

// recordDep registers that the query currently being computed (if any) read
// a cell whose changedAt is snapshot, verified by calling verify.
func (s *Store) recordDep(snapshot Revision, verify func() Revision) {
	if len(s.frames) == 0 {
		return
	}
	f := s.frames[len(s.frames)-1]
	f.deps = append(f.deps, dep{snapshot: snapshot, verify: verify})
}
