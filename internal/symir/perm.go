package symir

// PermKind tags the variant held by a SymPerm.
type PermKind uint8

const (
	PermInvalid PermKind = iota
	PermMy              // owned/unique
	PermOur             // shared/immutable
	PermShared          // Shared(place): a shared borrow from a place
	PermLeased          // Leased(place): a mutable borrow from a place
	PermParam           // reference to a generic permission parameter
	PermInferVar        // unresolved inference variable
	PermError           // placeholder substituted after a diagnostic
)

// SymPerm is the tagged-variant permission term.
type SymPerm struct {
	Kind PermKind

	Place Place // PermShared, PermLeased

	Param GenericRef // PermParam

	InferVar InferVarID // PermInferVar
}

// My, Our are the two permissions with no associated place.
var (
	My  = SymPerm{Kind: PermMy}
	Our = SymPerm{Kind: PermOur}
)

// SharedFrom builds a Shared(place) permission.
func SharedFrom(p Place) SymPerm { return SymPerm{Kind: PermShared, Place: p} }

// LeasedFrom builds a Leased(place) permission.
func LeasedFrom(p Place) SymPerm { return SymPerm{Kind: PermLeased, Place: p} }

// ParamPerm builds a PermParam term referring to the generic at index ref.
func ParamPerm(ref GenericRef) SymPerm { return SymPerm{Kind: PermParam, Param: ref} }

// InferPerm builds a PermInferVar term.
func InferPerm(v InferVarID) SymPerm { return SymPerm{Kind: PermInferVar, InferVar: v} }

// ErrorPerm is the shared error-placeholder permission.
var ErrorPerm = SymPerm{Kind: PermError}

// IsError reports whether p is the error placeholder.
func (p SymPerm) IsError() bool { return p.Kind == PermError }
