package symir

import "testing"

func TestModuleAddClassRejectsDuplicateName(t *testing.T) {
	m := NewModule(1)
	a := &Class{ID: 1, Name: 100}
	b := &Class{ID: 2, Name: 100}

	if !m.AddClass(a) {
		t.Fatal("AddClass() = false for the first registration")
	}
	if m.AddClass(b) {
		t.Fatal("AddClass() = true for a duplicate name, want false")
	}
	got, ok := m.ClassByName(100)
	if !ok || got != a {
		t.Fatalf("ClassByName(100) = (%v, %v), want the first-registered class", got, ok)
	}
}

func TestModuleAddFunctionRejectsDuplicateName(t *testing.T) {
	m := NewModule(1)
	f1 := &Function{ID: 1, Name: 7}
	f2 := &Function{ID: 2, Name: 7}
	if !m.AddFunction(f1) {
		t.Fatal("AddFunction() = false for the first registration")
	}
	if m.AddFunction(f2) {
		t.Fatal("AddFunction() = true for a duplicate name, want false")
	}
}

func TestClassConstructorParamsMatchesFields(t *testing.T) {
	c := &Class{
		Name:   1,
		Fields: []Field{{Name: 2, Ty: Prim(PrimInt)}, {Name: 3, Ty: Prim(PrimBool)}},
	}
	params := c.ConstructorParams()
	if len(params) != 2 || params[0].Name != 2 || params[1].Name != 3 {
		t.Fatalf("ConstructorParams() = %v, want the field list in order", params)
	}
}

func TestGenericDeclRequires(t *testing.T) {
	g := GenericDecl{Kind: GenericType, Name: 1, Bound: []Predicate{PredCopy, PredOwned}}
	if !g.Requires(PredCopy) {
		t.Fatal("Requires(Copy) = false, want true")
	}
	if g.Requires(PredMove) {
		t.Fatal("Requires(Move) = true, want false")
	}
}
