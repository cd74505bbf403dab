package termalg

import (
	"testing"

	"permcheck/internal/source"
	"permcheck/internal/symir"
)

var intTy = symir.Prim(symir.PrimInt)

func TestSingleTermMyCollapsesToBareBase(t *testing.T) {
	term := SingleTerm(symir.My, intTy)
	if len(term.Chains) != 1 || len(term.Chains[0].Perms) != 0 {
		t.Fatalf("SingleTerm(My, Int) = %+v, want a zero-perm chain", term)
	}
}

func TestCombineOurOurCollapses(t *testing.T) {
	inner := SingleTerm(symir.Our, intTy)
	got := Combine(symir.Our, inner)
	want := Term{Chains: []Chain{{Perms: []symir.SymPerm{symir.Our}, Base: ReduceTy(intTy)}}}
	if !EqualTerm(got, want) {
		t.Fatalf("Combine(Our, Our·Int) = %v, want Our·Int (collapsed)", DisplayTerm(got, testNamer{}))
	}
}

func TestCombineSharedPrefixCollapses(t *testing.T) {
	p := symir.VarPlace(1, 1)
	pChild := p.Field(2)

	inner := SingleTerm(symir.SharedFrom(pChild), intTy)
	got := Combine(symir.SharedFrom(p), inner)
	if len(got.Chains) != 1 {
		t.Fatalf("Combine() with a dominating Shared prefix should collapse to one chain, got %d", len(got.Chains))
	}
	if got.Chains[0].Perms[0].Place.Head != p.Head {
		t.Fatal("collapsed chain should retain the outer (shorter) place")
	}
}

func TestCombineSharedNonPrefixBranches(t *testing.T) {
	a := symir.VarPlace(1, 1)
	b := symir.VarPlace(2, 2)

	inner := SingleTerm(symir.SharedFrom(b), intTy)
	got := Combine(symir.SharedFrom(a), inner)
	if len(got.Chains) != 2 {
		t.Fatalf("Combine() with unrelated Shared places should branch into 2 alternatives, got %d", len(got.Chains))
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	term := Combine(symir.Our, SingleTerm(symir.Our, intTy))
	once := Reduce(term)
	twice := Reduce(once)
	if !EqualTerm(once, twice) {
		t.Fatal("Reduce(Reduce(t)) != Reduce(t)")
	}
}

func TestEqualTermIsOrderIndependent(t *testing.T) {
	a := symir.VarPlace(1, 1)
	b := symir.VarPlace(2, 2)
	t1 := Term{Chains: []Chain{
		{Perms: []symir.SymPerm{symir.SharedFrom(a)}, Base: ReduceTy(intTy)},
		{Perms: []symir.SymPerm{symir.SharedFrom(b)}, Base: ReduceTy(intTy)},
	}}
	t2 := Term{Chains: []Chain{t1.Chains[1], t1.Chains[0]}}
	if !EqualTerm(t1, t2) {
		t.Fatal("EqualTerm should be insensitive to chain order")
	}
}

// testNamer is a minimal Namer for display tests that don't need real names.
type testNamer struct{}

func (testNamer) ClassName(symir.ClassID) string      { return "C" }
func (testNamer) StringName(source.StringID) string { return "x" }
