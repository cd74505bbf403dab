package store

import "testing"

func TestInternerDeduplicatesByKey(t *testing.T) {
	in := NewInterner[string, string](func(v string) string { return v })
	a := in.Intern("My")
	b := in.Intern("My")
	c := in.Intern("Our")
	if a != b {
		t.Fatalf("Intern(\"My\") twice gave different handles: %d, %d", a, b)
	}
	if a == c {
		t.Fatal("distinct values interned to the same handle")
	}
	if in.Lookup(a) != "My" {
		t.Fatalf("Lookup(%d) = %q, want \"My\"", a, in.Lookup(a))
	}
}
