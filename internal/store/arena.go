package store

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a generic typed arena: a append-only vector returning stable
// 1-based handles. Every interned or tracked item in the store is backed by
// one of these — handles are cheap to copy, identity is the index, and
// an entry is never mutated in place once published.
type Arena[T any] struct {
	data []*T
}

// NewArena returns an Arena with capacity capHint pre-reserved.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Allocate appends value and returns its 1-based handle.
func (a *Arena[T]) Allocate(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Get returns a pointer to the element at the 1-based handle index, or nil
// for the zero handle.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return a.data[index-1]
}

// Set overwrites the element at a 1-based handle (used to populate derived
// fields on a tracked item after its identity has already been allocated).
func (a *Arena[T]) Set(index uint32, value T) {
	if index == 0 {
		return
	}
	*a.data[index-1] = value
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("store: arena length overflow: %w", err))
	}
	return n
}
