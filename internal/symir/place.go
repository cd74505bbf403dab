package symir

import "permcheck/internal/source"

// LocalID identifies a local variable (parameter or `var` declaration)
// within one function body's scope. The zero value means "unresolved":
// symbolize fills it in once name resolution finds the declaring site.
type LocalID uint32

// NoLocal is the unresolved/absent LocalID.
const NoLocal LocalID = 0

// Place is a path expression from a variable through field projections —
// `p`, `p.x`, `p.x.y` — identifying a location whose permission can be
// borrowed. Its head must be a variable in the current lexical scope
// by construction; symbolize is responsible for checking that and leaves
// Local as NoLocal when it cannot resolve the head.
type Place struct {
	Head        source.StringID
	Local       LocalID
	Projections []source.StringID
}

// VarPlace builds a bare-variable place with no projections.
func VarPlace(head source.StringID, local LocalID) Place {
	return Place{Head: head, Local: local}
}

// Field returns the place extended with one more field projection.
func (p Place) Field(name source.StringID) Place {
	proj := make([]source.StringID, len(p.Projections)+1)
	copy(proj, p.Projections)
	proj[len(p.Projections)] = name
	return Place{Head: p.Head, Local: p.Local, Projections: proj}
}

// IsPrefixOf reports whether p is a syntactic prefix of q — p's
// projection path is an initial segment of q's, on the same head
// variable. Used by the reduced-term algebra's `Shared`/`Leased`
// dominance rules and the `sub` subtyping rules on borrows.
func (p Place) IsPrefixOf(q Place) bool {
	if p.Head != q.Head || len(p.Projections) > len(q.Projections) {
		return false
	}
	for i, f := range p.Projections {
		if q.Projections[i] != f {
			return false
		}
	}
	return true
}

// Equal reports structural equality.
func (p Place) Equal(q Place) bool {
	if p.Head != q.Head || len(p.Projections) != len(q.Projections) {
		return false
	}
	for i := range p.Projections {
		if p.Projections[i] != q.Projections[i] {
			return false
		}
	}
	return true
}
