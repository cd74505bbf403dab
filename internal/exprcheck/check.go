// Package exprcheck is the expression/statement checker: it walks a
// SymIR function body, assigning every parameter a fresh permission
// inference variable and following the language's per-expression
// rules (field access combines the receiver's permission with the
// field's storage mode; call arguments are checked against parameter
// types; await requires the Async effect; atomic field access requires
// the Atomic effect) while driving internal/predicate's requires()/sub()
// through an internal/infer.Executor task so that a check blocked on an
// unresolved inference variable simply restarts from the top when the
// executor re-polls it (in completion mode, after the variable has been
// given its solved or default value).
package exprcheck

import (
	"fmt"

	"permcheck/internal/diag"
	"permcheck/internal/infer"
	"permcheck/internal/predicate"
	"permcheck/internal/source"
	"permcheck/internal/store"
	"permcheck/internal/symir"
	"permcheck/internal/termalg"
	"permcheck/internal/trace"
)

// moduleClasses adapts *symir.Module to predicate.ClassTable.
type moduleClasses struct {
	byID map[symir.ClassID]*symir.Class
}

func newModuleClasses(mod *symir.Module) *moduleClasses {
	mc := &moduleClasses{byID: make(map[symir.ClassID]*symir.Class, len(mod.Classes))}
	for _, c := range mod.Classes {
		mc.byID[c.ID] = c
	}
	return mc
}

func (mc *moduleClasses) Class(id symir.ClassID) (*symir.Class, bool) {
	c, ok := mc.byID[id]
	return c, ok
}

// Checker checks every function in one symir.Module.
type Checker struct {
	Module   *symir.Module
	Store    *store.Store
	Reporter diag.Reporter
	Names    *source.Interner // optional, used only to name functions in diagnostics
	Tracer   trace.Tracer     // routed to each function's infer.Executor

	classes *moduleClasses
}

// NewChecker returns a Checker over mod, backed by st for any
// incremental queries the predicate layer memoizes (e.g. class-hierarchy
// subtyping).
func NewChecker(mod *symir.Module, st *store.Store, names *source.Interner, rep diag.Reporter) *Checker {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Checker{Module: mod, Store: st, Names: names, Reporter: rep, Tracer: trace.Nop, classes: newModuleClasses(mod)}
}

// CheckAll checks every function declared in the module.
func (ck *Checker) CheckAll() {
	for _, fn := range ck.Module.Functions {
		ck.CheckFunction(fn)
	}
}

// CheckFunction runs one function body through a single internal/infer
// task. The task's StepFunc re-walks the whole body from scratch on
// every poll (the stackless option): Requires/Sub are pure functions of
// the Environment's bound table, so replaying is safe, and the walk is
// cheap relative to re-parsing or re-symbolizing.
func (ck *Checker) CheckFunction(fn *symir.Function) {
	env := predicate.NewEnvironment(ck.Store, ck.classes, fn.Generics, fn.Effect)
	ex := infer.NewExecutor()
	if ck.Tracer != nil {
		ex.Tracer = ck.Tracer
	}

	fc := &funcCheck{ck: ck, fn: fn, env: env}
	fc.ex = ex
	ex.Spawn(fn.Span, fc.step)

	ex.Drain(
		func(v symir.InferVarID) { env.Solve(v) },
		func(sp source.Span) {
			ck.Reporter.Report(diag.NewError(diag.InsufficientInformation, sp,
				fmt.Sprintf("insufficient information to check `%s`", ck.nameOf(fn.Name))))
		},
	)

	// Final resolve pass: no expression in a checked body
	// may keep an inference variable in its written-back type or
	// permission, so anything the walk left unresolved collapses to its
	// solved value (or to completion mode's unit default).
	for i := range fn.Exprs {
		id := symir.ExprID(i + 1)
		e := fn.Expr(id)
		ty, perm := e.Ty, e.Perm
		changed := false
		if perm.Kind == symir.PermInferVar {
			perm = headPerm(env.Solve(perm.InferVar))
			changed = true
		}
		if ty.Kind == symir.TyInferVar {
			solved := env.Solve(ty.InferVar)
			if len(solved.Chains) == 0 {
				ty = symir.ErrorTy
			} else {
				ty = baseToTy(solved.Chains[0].Base)
			}
			changed = true
		}
		if changed {
			fn.SetResult(id, ty, perm)
		}
	}
}

func (ck *Checker) nameOf(id source.StringID) string {
	if ck.Names == nil {
		return fmt.Sprintf("#%d", id)
	}
	if s, ok := ck.Names.Lookup(id); ok {
		return s
	}
	return fmt.Sprintf("#%d", id)
}

// funcCheck holds the state one function's check task works with: the
// fresh inference variable counter (scoped to this task, per
// symir.InferVarID's own doc comment), the local binding table, and the
// set of given places. step resets all three at the start of every
// restart, so each pass replays the same deterministic walk from an
// empty state.
type funcCheck struct {
	ck     *Checker
	fn     *symir.Function
	env    *predicate.Environment
	ex     *infer.Executor
	nextV  symir.InferVarID
	locals map[symir.LocalID]binding
	given  map[string]source.Span // place key -> span of the give that consumed it
}

type binding struct {
	ty   symir.SymTy
	term termalg.Term
}

func (fc *funcCheck) freshVar() symir.InferVarID {
	fc.nextV++
	return fc.nextV
}

// step is the function's single StepFunc: a full restart of the body
// walk. It returns Done as soon as the walk completes without blocking;
// a blocked sub-check aborts the entire walk immediately rather than
// partially committing bindings.
func (fc *funcCheck) step() infer.StepResult {
	// nextV resets too: a parameter must get the same InferVarID on every
	// restart, or bounds the Environment recorded against its previous ID
	// would be orphaned.
	fc.nextV = 0
	fc.locals = make(map[symir.LocalID]binding, len(fc.fn.Params)+4)
	fc.given = make(map[string]source.Span)

	for i, p := range fc.fn.Params {
		v := fc.freshVar()
		fc.locals[symir.LocalID(i+1)] = binding{
			ty:   p.Ty,
			term: termalg.Term{Chains: []termalg.Chain{{Perms: []symir.SymPerm{symir.InferPerm(v)}, Base: termalg.ReduceTy(p.Ty)}}},
		}
	}

	if fc.fn.Body == nil {
		return infer.StepResult{Done: true}
	}
	tail, blocked, waitOn := fc.evalBlock(fc.fn.Body)
	if blocked {
		return infer.StepResult{Done: false, WaitOn: waitOn}
	}
	// Only a body that ends in a genuine tail expression (no trailing
	// `;`) implicitly returns its block's value; a body whose last
	// statement is itself a `return` already checked its value there, and
	// a body with neither is presumed to rely on every branch returning
	// explicitly (no reachability analysis is performed here). A function
	// whose return type is unit discards its tail value instead of
	// checking it, so `fn main() { ...; p.x }` is not an error.
	returnsUnit := fc.fn.Return.Kind == symir.TyPrim && fc.fn.Return.Prim == symir.PrimUnit
	if fc.fn.Body.Tail != symir.NoExprID && !returnsUnit {
		if blocked, waitOn := fc.checkReturn(tail, fc.fn.Span); blocked {
			return infer.StepResult{Done: false, WaitOn: waitOn}
		}
	}
	return infer.StepResult{Done: true}
}

func placeKey(p symir.Place) string {
	s := fmt.Sprintf("%d:%d", p.Head, p.Local)
	for _, proj := range p.Projections {
		s += "." + fmt.Sprintf("%d", proj)
	}
	return s
}

func (fc *funcCheck) orElse(span source.Span) predicate.OrElse {
	return func(reason string) {
		fc.ck.Reporter.Report(diag.NewError(diag.SubtypeFailed, span, reason))
	}
}
