package symir

import "permcheck/internal/source"

// StorageMode is a field's storage discipline, which governs what
// permission a field access yields: Shared fields always
// read as Our, Var fields yield a lease from the receiver's place, Atomic
// fields additionally require the enclosing Atomic effect.
type StorageMode uint8

const (
	StorageShared StorageMode = iota
	StorageVar
	StorageAtomic
)

func (m StorageMode) String() string {
	switch m {
	case StorageShared:
		return "shared"
	case StorageVar:
		return "var"
	case StorageAtomic:
		return "atomic"
	default:
		return "<invalid storage>"
	}
}

// Field is one class member: a name, a declared type, and a storage mode.
type Field struct {
	Name    source.StringID
	Ty      SymTy
	Storage StorageMode
	Span    Span
}

// Class is the SymIR counterpart of a `class` declaration: a name, its
// generic parameter list, the where-clauses attached to it, and an
// ordered field list. A class's implicit constructor has no separate
// representation — its parameter list is exactly ConstructorParams(),
// the field list in declaration order.
type Class struct {
	ID       ClassID
	Name     source.StringID
	Generics []GenericDecl
	Where    []WhereClause
	Fields   []Field
	// Super is the class this one extends, or NoClassID. Deep inheritance
	// is a single-parent chain; sub queries walk
	// it linearly.
	Super ClassID
	Span  Span
}

// ConstructorParams returns the implicit constructor's parameters, which
// by invariant equal Fields in order.
func (c *Class) ConstructorParams() []Field { return c.Fields }

// FieldByName returns the field named n and true, or the zero Field and
// false if c declares no such field.
func (c *Class) FieldByName(n source.StringID) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == n {
			return f, true
		}
	}
	return Field{}, false
}
