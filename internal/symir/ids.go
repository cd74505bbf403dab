// Package symir defines the language-neutral intermediate representation
// that the symbolizer (internal/symbolize) produces and the expression
// checker (internal/exprcheck) consumes: modules, classes, functions,
// fields, types, permissions, generics, where-clauses, places, and
// expressions. SymIR values are built through constructors and not
// changed afterwards, with one exception: Function.SetResult writes the
// checker's type and permission into an expression in place.
package symir

import "permcheck/internal/source"

// ClassID identifies a Class within a Module. The zero value is invalid.
type ClassID uint32

// FunctionID identifies a Function within a Module. The zero value is invalid.
type FunctionID uint32

// ExprID identifies an Expr within a Function's expression pool. The zero
// value is invalid.
type ExprID uint32

// InferVarID identifies an inference variable scoped to one checking task
// (internal/infer). Inference variables never outlive the task that
// created them; their solved substitutions are what ends up in the stored
// typed IR. The zero value is invalid.
type InferVarID uint32

// NoClassID, NoFunctionID, NoExprID and NoInferVar are the sentinel
// "absent" handles, matching the 1-based allocation scheme used by
// internal/store.Arena (handle 0 is never allocated).
const (
	NoClassID   ClassID    = 0
	NoFunctionID FunctionID = 0
	NoExprID    ExprID     = 0
	NoInferVar  InferVarID = 0
)

// Valid reports whether id was actually allocated.
func (id ClassID) Valid() bool    { return id != NoClassID }
func (id FunctionID) Valid() bool { return id != NoFunctionID }
func (id ExprID) Valid() bool     { return id != NoExprID }
func (id InferVarID) Valid() bool { return id != NoInferVar }

// GenericRef refers to a generic parameter by its index within the
// declaring Class or Function's Generics slice. There is no separate
// owner tag: a type or permission expression is always lowered within the
// lexical scope of exactly one class or one function, so the index alone
// is unambiguous at the point of use.
type GenericRef uint32

// Span pairs a SymIR node with the source location it was lowered from,
// used for diagnostics that need to point back at original syntax.
type Span = source.Span
