package diag

import "permcheck/internal/source"

// Reporter is the minimal contract checker phases use to emit diagnostics,
// so that the predicate checker (F) and the expression checker (G) don't
// need a concrete *Bag — tests can substitute a recording fake.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adapts a *Bag to Reporter.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter discards every diagnostic; useful for speculative sub-checks
// (e.g. probing whether a coercion would succeed without committing to it).
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// DedupReporter wraps another Reporter and suppresses diagnostics that
// repeat an earlier (code, severity, primary span, message) tuple — the
// same error can otherwise be reported once per suspended-then-resumed
// inference task.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

type dedupKey struct {
	code  Code
	sev   Severity
	file  source.FileID
	start uint32
	end   uint32
	msg   string
}

// NewDedupReporter returns a deduplicating Reporter forwarding to next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := dedupKey{
		code: d.Code, sev: d.Severity,
		file: d.Primary.File, start: d.Primary.Start, end: d.Primary.End,
		msg: d.Message,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
