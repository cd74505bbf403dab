// Package predicate implements the predicate and subtype checker: given
// an Environment, it answers requires(term, predicate) and sub(sub,
// sup), records bounds on inference variables, and reports diagnostics
// through an *or-else* callback the caller supplies (the expression
// checker knows how to frame a failure; this package only knows that
// one occurred).
//
// Both queries are written as functions a checker task calls from inside
// its internal/infer StepFunc: rather than saving and restoring a
// program-counter-like continuation, a suspended call simply reports
// which inference variables it is waiting on and the task is re-polled
// from the top once they are bound — the stackless option of the
// runtime's contract. Requires and Sub are pure functions of the
// current Environment, so replaying them from scratch on every poll is
// safe and deterministic.
package predicate

import (
	"fmt"

	"permcheck/internal/store"
	"permcheck/internal/symir"
)

// OrElse frames a failed requires()/sub() check into a diagnostic. The
// caller (internal/exprcheck) supplies one per use site so the message
// can say "in argument 2 of call to f" rather than just "mismatch".
type OrElse func(reason string)

// ClassTable resolves a ClassID to its declaration, used to walk
// inheritance chains and generic bounds.
type ClassTable interface {
	Class(symir.ClassID) (*symir.Class, bool)
}

// Environment holds everything requires()/sub() need to resolve a check:
// the class table, the generics in lexical scope (merged from the
// enclosing class and function), the current effect, and the table of
// inference variables accumulated so far.
type Environment struct {
	Classes  ClassTable
	Generics []symir.GenericDecl
	Effect   symir.Effect
	InAtomic bool // exempts atomic field access from the Atomic-effect check; nothing sets it (the grammar has no `atomic { }` block)

	store         *store.Store
	subQ          *store.Query[string, bool]
	vars          map[symir.InferVarID]*varRecord
	dirty         []symir.InferVarID
	subInProgress map[string]bool
}

// PopDirty returns every inference variable whose bound changed since the
// last call, clearing the list, so that a caller can pass each one to an
// internal/infer.Executor's Notify and re-poll the tasks waiting on it.
// internal/exprcheck does not call it: its one task per function is
// re-polled by the executor's completion mode instead.
func (e *Environment) PopDirty() []symir.InferVarID {
	d := e.dirty
	e.dirty = nil
	return d
}

// NewEnvironment returns an Environment backed by st for memoizing the
// co-inductive sub(sub, sup) query.
func NewEnvironment(st *store.Store, classes ClassTable, generics []symir.GenericDecl, effect symir.Effect) *Environment {
	return &Environment{
		Classes:  classes,
		Generics: generics,
		Effect:   effect,
		store:    st,
		subQ:     store.NewQuery[string, bool]("sub", func(a, b bool) bool { return a == b }),
		vars:     make(map[symir.InferVarID]*varRecord),
	}
}

// GenericByRef returns the generic declaration referenced by ref, or the
// zero GenericDecl if ref is out of range for the current scope.
func (e *Environment) GenericByRef(ref symir.GenericRef) symir.GenericDecl {
	if int(ref) < len(e.Generics) {
		return e.Generics[ref]
	}
	return symir.GenericDecl{}
}

// IsSubclass reports whether sub is sub or a transitive descendant of
// super, walking the single-parent inheritance chain linearly.
func (e *Environment) IsSubclass(sub, super symir.ClassID) bool {
	if sub == super {
		return true
	}
	cur := sub
	for i := 0; i < 1<<16; i++ { // bound the walk against a corrupt cyclic chain
		c, ok := e.Classes.Class(cur)
		if !ok || !c.Super.Valid() {
			return false
		}
		if c.Super == super {
			return true
		}
		cur = c.Super
	}
	return false
}

func reasonf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// classSubtype memoizes IsSubclass through the store: the class
// hierarchy never changes within one checking run independent of
// inference variables, so this half of sub()'s work is a pure query the
// incremental store can cache and reuse across edits that don't touch
// the class table.
func (e *Environment) classSubtype(sub, super symir.ClassID) bool {
	key := fmt.Sprintf("%d<%d", sub, super)
	return e.subQ.Get(e.store, key, func(*store.Store, string) bool {
		return e.IsSubclass(sub, super)
	})
}
