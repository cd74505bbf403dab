package store

// Interner deduplicates structural values of type V behind a stable handle
// H, keyed by K — typically K==V for a comparable descriptor, or a computed
// structural key when V itself isn't comparable. This is component A's
// "intern(value) -> handle" operation: intern(x) == intern(y) iff x == y.
// Only this package's own tests construct one.
type Interner[K comparable, V any] struct {
	arena *Arena[V]
	index map[K]uint32
	keyOf func(V) K
}

// NewInterner returns an Interner that derives each value's dedup key with keyOf.
func NewInterner[K comparable, V any](keyOf func(V) K) *Interner[K, V] {
	return &Interner[K, V]{
		arena: NewArena[V](64),
		index: make(map[K]uint32),
		keyOf: keyOf,
	}
}

// Intern returns the stable handle for v, allocating one if v is new.
func (in *Interner[K, V]) Intern(v V) uint32 {
	k := in.keyOf(v)
	if id, ok := in.index[k]; ok {
		return id
	}
	id := in.arena.Allocate(v)
	in.index[k] = id
	return id
}

// Lookup dereferences a handle previously returned by Intern.
func (in *Interner[K, V]) Lookup(id uint32) V {
	return *in.arena.Get(id)
}

// Len returns how many distinct values have been interned.
func (in *Interner[K, V]) Len() uint32 { return in.arena.Len() }
