package store

import "testing"

func TestArenaAllocateAndGet(t *testing.T) {
	a := NewArena[string](4)
	id1 := a.Allocate("one")
	id2 := a.Allocate("two")
	if id1 == id2 {
		t.Fatal("distinct Allocate calls returned the same handle")
	}
	if *a.Get(id1) != "one" || *a.Get(id2) != "two" {
		t.Fatalf("Get() = %q, %q; want one, two", *a.Get(id1), *a.Get(id2))
	}
	if a.Get(0) != nil {
		t.Fatal("Get(0) should be nil (zero handle is invalid)")
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
}

func TestArenaSetMutatesInPlace(t *testing.T) {
	a := NewArena[int](2)
	id := a.Allocate(1)
	a.Set(id, 42)
	if *a.Get(id) != 42 {
		t.Fatalf("Get() after Set = %d, want 42", *a.Get(id))
	}
}
