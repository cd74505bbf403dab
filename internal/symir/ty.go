package symir

// PrimKind enumerates the primitive base types: integer families, boolean,
// unit, and never.
type PrimKind uint8

const (
	PrimInvalid PrimKind = iota
	PrimUnit
	PrimNever
	PrimBool
	PrimInt   // width-agnostic "Int", the default integer family
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
)

func (p PrimKind) String() string {
	switch p {
	case PrimUnit:
		return "()"
	case PrimNever:
		return "Never"
	case PrimBool:
		return "Bool"
	case PrimInt:
		return "Int"
	case PrimInt8:
		return "Int8"
	case PrimInt16:
		return "Int16"
	case PrimInt32:
		return "Int32"
	case PrimInt64:
		return "Int64"
	default:
		return "<invalid prim>"
	}
}

// TyKind tags the variant held by a SymTy.
type TyKind uint8

const (
	TyInvalid TyKind = iota
	TyNamed          // a class applied to generic arguments
	TyParam          // reference to a generic type parameter
	TyPrim           // a primitive base type
	TyInferVar       // an unresolved inference variable
	TyError          // placeholder substituted after a diagnostic
)

// SymTy is the tagged-variant type term: a named class application,
// a generic parameter reference, a primitive, an inference variable, or
// an error placeholder. SymTy is a plain value (comparable field by
// field); the reduced-term algebra (internal/termalg) is what normalizes
// it into chains and decides structural equality.
type SymTy struct {
	Kind TyKind

	Class ClassID  // TyNamed
	Args  []SymTy  // TyNamed: generic arguments, positional

	Param GenericRef // TyParam

	Prim PrimKind // TyPrim

	InferVar InferVarID // TyInferVar
}

// Named builds a TyNamed term.
func Named(class ClassID, args ...SymTy) SymTy {
	return SymTy{Kind: TyNamed, Class: class, Args: args}
}

// ParamTy builds a TyParam term referring to the generic at index ref.
func ParamTy(ref GenericRef) SymTy {
	return SymTy{Kind: TyParam, Param: ref}
}

// Prim builds a TyPrim term.
func Prim(kind PrimKind) SymTy {
	return SymTy{Kind: TyPrim, Prim: kind}
}

// InferTy builds a TyInferVar term.
func InferTy(v InferVarID) SymTy {
	return SymTy{Kind: TyInferVar, InferVar: v}
}

// ErrorTy is the shared error-placeholder term; symbolize and the checker
// substitute it wherever a name failed to resolve or a diagnostic was
// already reported for the site, so that checking can continue.
var ErrorTy = SymTy{Kind: TyError}

// IsError reports whether t is the error placeholder.
func (t SymTy) IsError() bool { return t.Kind == TyError }
