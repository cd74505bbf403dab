package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds the diagnostics accumulated for one checking run, bounded by a
// maximum capacity (the CLI's --max-diagnostics flag controls this).
type Bag struct {
	items   []*Diagnostic
	maximum uint16
}

// NewBag creates a Bag that holds at most maximum diagnostics.
func NewBag(maximum int) *Bag {
	m, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag maximum overflow: %w", err))
	}
	return &Bag{items: make([]*Diagnostic, 0, m), maximum: m}
}

// Add appends d, reporting false if the bag is already at capacity.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, &d)
	return true
}

// Cap returns the bag's capacity.
func (b *Bag) Cap() uint16 { return b.maximum }

// HasErrors reports whether any diagnostic is at least SevError.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics currently held.
func (b *Bag) Len() int { return len(b.items) }

// Items returns the bag's diagnostics. Callers must not mutate the slice.
func (b *Bag) Items() []*Diagnostic { return b.items }

// Sort orders diagnostics by primary span (file, start, end), then by
// descending severity, then by code, so diagnostics surface in order
// of primary span.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
