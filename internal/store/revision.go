package store

// Revision is a monotonically increasing logical clock. The store bumps it
// whenever an input changes; every tracked/query entry
// remembers the revision at which its value last actually changed
// (changedAt) and the revision at which it was last confirmed up to date
// (verifiedAt), which is how dependents skip recomputation when nothing
// they read has changed ("early cutoff").
type Revision uint64

// dep is one dependency edge recorded while a query or tracked derivation
// was computed: a snapshot of another cell's changedAt at read time, plus a
// closure that re-verifies (and, if necessary, recomputes) that cell and
// returns its current changedAt.
type dep struct {
	snapshot Revision
	verify   func() Revision
}

func (d dep) stale() bool { return d.verify() != d.snapshot }
