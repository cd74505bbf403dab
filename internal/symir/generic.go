package symir

import "permcheck/internal/source"

// GenericDeclKind distinguishes a type-parameter from a permission-parameter
// generic declaration.
type GenericDeclKind uint8

const (
	GenericType GenericDeclKind = iota
	GenericPerm
)

// GenericDecl is one entry in a Class or Function's generic parameter
// list: a kind, an optional name (NoStringID if the source left it
// anonymous), and the where-clause-derived bound that requires() walks
// when asked whether the parameter satisfies a predicate ("A
// generic parameter satisfies P iff its declaration's where-clauses
// require P, transitively closed").
type GenericDecl struct {
	Kind GenericDeclKind
	Name source.StringID
	Bound []Predicate
}

// Requires reports whether this generic's declared bound lists p directly.
// Transitive closure over class hierarchies is the predicate checker's job
// (internal/predicate); this is the leaf fact it closes over.
func (g GenericDecl) Requires(p Predicate) bool {
	for _, b := range g.Bound {
		if b == p {
			return true
		}
	}
	return false
}
