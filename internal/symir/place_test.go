package symir

import "testing"

func TestPlaceIsPrefixOf(t *testing.T) {
	p := VarPlace(1, 0)
	px := p.Field(2)
	pxy := px.Field(3)

	if !p.IsPrefixOf(pxy) {
		t.Fatal("p should be a prefix of p.x.y")
	}
	if !px.IsPrefixOf(pxy) {
		t.Fatal("p.x should be a prefix of p.x.y")
	}
	if pxy.IsPrefixOf(px) {
		t.Fatal("p.x.y should not be a prefix of p.x")
	}

	q := VarPlace(9, 0)
	if p.IsPrefixOf(q) {
		t.Fatal("places on different head variables should never be prefixes")
	}
}

func TestPlaceEqual(t *testing.T) {
	a := VarPlace(1, 0).Field(2)
	b := VarPlace(1, 0).Field(2)
	c := VarPlace(1, 0).Field(3)
	if !a.Equal(b) {
		t.Fatal("structurally identical places should be equal")
	}
	if a.Equal(c) {
		t.Fatal("places with different projections should not be equal")
	}
}
