package source

import "testing"

func TestInternerDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	if a != b {
		t.Fatalf("Intern(\"foo\") twice gave %d and %d, want equal IDs", a, b)
	}
	c := in.Intern("bar")
	if a == c {
		t.Fatal("distinct strings interned to the same ID")
	}
}

func TestInternerLookup(t *testing.T) {
	in := NewInterner()
	id := in.Intern("Permission")
	got, ok := in.Lookup(id)
	if !ok || got != "Permission" {
		t.Fatalf("Lookup(%d) = (%q,%v), want (\"Permission\",true)", id, got, ok)
	}
	if _, ok := in.Lookup(StringID(9999)); ok {
		t.Fatal("Lookup of an unallocated ID reported ok=true")
	}
}

func TestInternerNoStringID(t *testing.T) {
	in := NewInterner()
	got, ok := in.Lookup(NoStringID)
	if !ok || got != "" {
		t.Fatalf("Lookup(NoStringID) = (%q,%v), want (\"\",true)", got, ok)
	}
}
