package source

import (
	"slices"
	"sync"
)

// StringID identifies an interned identifier string. The store (component A)
// uses this to give every name (class, field, function, generic parameter)
// a stable, cheap-to-copy handle instead of repeatedly comparing strings.
type StringID uint32

// NoStringID marks the absence of an interned string.
const NoStringID StringID = 0

// Interner deduplicates strings behind stable IDs. Safe for concurrent use
// since the external vfs loader (internal/vfs) may intern file paths while
// other input is still being assembled.
type Interner struct {
	mu    sync.RWMutex
	byID  []string
	index map[string]StringID
}

// NewInterner returns an Interner with NoStringID pre-bound to "".
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the stable ID for s, allocating one if s is new.
func (in *Interner) Intern(s string) StringID {
	in.mu.RLock()
	if id, ok := in.index[s]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	cpy := string([]byte(s)) // detach from caller's buffer

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[cpy]; ok {
		return id
	}
	id := StringID(len(in.byID))
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// InternBytes is Intern without requiring the caller to allocate a string first.
func (in *Interner) InternBytes(b []byte) StringID { return in.Intern(string(b)) }

// Lookup returns the string for id, or ("", false) if id is unknown.
func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup is Lookup but panics on an unknown id.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid StringID")
	}
	return s
}

// Len returns the number of interned strings, including NoStringID's "".
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// Snapshot returns a copy of every interned string, indexed by StringID.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return slices.Clone(in.byID)
}
