package symir

import "permcheck/internal/source"

// Effect is a function's declared restriction on which constructs may
// appear in its body, ordered Atomic ≤ Default ≤ Async (glossary). Async
// is the most permissive: only an Async function's body may contain
// `await`. Atomic is the most restrictive; it is declared on a whole
// function only, as the surface grammar has no `atomic { }` block.
type Effect uint8

const (
	EffectAtomic Effect = iota
	EffectDefault
	EffectAsync
)

func (e Effect) String() string {
	switch e {
	case EffectAtomic:
		return "Atomic"
	case EffectDefault:
		return "Default"
	case EffectAsync:
		return "Async"
	default:
		return "<invalid effect>"
	}
}

// Param is one function input parameter: a name and a declared type.
type Param struct {
	Name source.StringID
	Ty   SymTy
	Span Span
}

// Function is the SymIR counterpart of a `fn` declaration. Body is nil
// for a declaration with no body (an external/abstract signature); Exprs
// holds the function's own expression pool, indexed by ExprID (1-based,
// matching internal/store.Arena's handle scheme).
type Function struct {
	ID       FunctionID
	Name     source.StringID
	Generics []GenericDecl
	Where    []WhereClause
	Params   []Param
	Return   SymTy // PrimUnit if the source declared none
	Effect   Effect
	Body     *Block
	Exprs    []Expr
	Span     Span
}

// Expr returns the expression allocated at id, or the zero Expr if id is
// out of range (callers should only ever pass IDs this function itself
// issued).
func (f *Function) Expr(id ExprID) Expr {
	if id == NoExprID || int(id) > len(f.Exprs) {
		return Expr{}
	}
	return f.Exprs[id-1]
}

// SetResult records the checker's solved type and permission for the
// expression at id. This is the only mutation the checked IR sees; after
// a function's check completes, every expression has been through it.
func (f *Function) SetResult(id ExprID, ty SymTy, perm SymPerm) {
	if id == NoExprID || int(id) > len(f.Exprs) {
		return
	}
	f.Exprs[id-1].Ty = ty
	f.Exprs[id-1].Perm = perm
}
