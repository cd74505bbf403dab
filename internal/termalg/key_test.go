package termalg

import (
	"testing"

	"permcheck/internal/symir"
)

func TestKeyIsOrderIndependent(t *testing.T) {
	a := symir.VarPlace(1, 1)
	b := symir.VarPlace(2, 2)
	t1 := Term{Chains: []Chain{
		{Perms: []symir.SymPerm{symir.SharedFrom(a)}, Base: ReduceTy(intTy)},
		{Perms: []symir.SymPerm{symir.SharedFrom(b)}, Base: ReduceTy(intTy)},
	}}
	t2 := Term{Chains: []Chain{t1.Chains[1], t1.Chains[0]}}
	if t1.Key() != t2.Key() {
		t.Fatalf("Key() differed for reordered chain sets: %q vs %q", t1.Key(), t2.Key())
	}
}

func TestKeyDistinguishesDifferentTerms(t *testing.T) {
	a := SingleTerm(symir.My, intTy)
	b := SingleTerm(symir.Our, intTy)
	if a.Key() == b.Key() {
		t.Fatal("Key() should differ for structurally different terms")
	}
}
