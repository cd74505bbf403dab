package exprcheck

import (
	"fmt"

	"permcheck/internal/diag"
	"permcheck/internal/predicate"
	"permcheck/internal/source"
	"permcheck/internal/symir"
	"permcheck/internal/termalg"
)

// Every eval* method returns (term, blocked, waitOn). A blocked result
// propagates immediately: the whole function-check step aborts and
// re-runs from scratch once the caller's Executor re-polls it (the
// stackless restart model), so a blocked sub-expression never leaves
// fc.locals or fc.given partially updated in a way the next pass can't
// reproduce identically.

func (fc *funcCheck) evalBlock(b *symir.Block) (termalg.Term, bool, []symir.InferVarID) {
	for _, st := range b.Stmts {
		if blocked, waitOn := fc.evalStmt(st); blocked {
			return termalg.Term{}, true, waitOn
		}
	}
	if b.Tail == symir.NoExprID {
		return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit)), false, nil
	}
	return fc.evalExpr(b.Tail)
}

func (fc *funcCheck) evalStmt(st symir.Stmt) (bool, []symir.InferVarID) {
	switch st.Kind {
	case symir.StmtLet:
		term, blocked, waitOn := fc.evalExpr(st.Init)
		if blocked {
			return true, waitOn
		}
		ty := st.Declared
		if st.HasDeclared {
			required := termalg.SingleTerm(symir.My, ty)
			if _, blocked, waitOn := predicate.Sub(fc.env, stripPerm(term), required, fc.orElse(st.Span)); blocked {
				return true, waitOn
			}
		} else {
			ty = baseToTy(term.Chains[0].Base)
		}
		fc.locals[st.Local] = binding{ty: ty, term: term}
		return false, nil
	default: // StmtExpr
		_, blocked, waitOn := fc.evalExpr(st.Expr)
		return blocked, waitOn
	}
}

// evalExpr computes id's term and, when the walk was not aborted by a
// blocked sub-check, writes the term's type and permission back into
// the expression (a later resolve pass in CheckFunction replaces any
// inference variable left in the write-back with its solved value).
func (fc *funcCheck) evalExpr(id symir.ExprID) (termalg.Term, bool, []symir.InferVarID) {
	term, blocked, waitOn := fc.evalExprInner(id)
	if !blocked {
		if len(term.Chains) == 0 {
			fc.fn.SetResult(id, symir.ErrorTy, symir.ErrorPerm)
		} else {
			fc.fn.SetResult(id, baseToTy(term.Chains[0].Base), headPerm(term))
		}
	}
	return term, blocked, waitOn
}

func (fc *funcCheck) evalExprInner(id symir.ExprID) (termalg.Term, bool, []symir.InferVarID) {
	e := fc.fn.Expr(id)
	switch e.Kind {
	case symir.ExprLitInt:
		return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimInt)), false, nil
	case symir.ExprLitBool:
		return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimBool)), false, nil
	case symir.ExprLitUnit:
		return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit)), false, nil

	case symir.ExprVar, symir.ExprFieldAccess:
		return fc.evalPlaceRead(e)

	case symir.ExprCall:
		return fc.evalCall(e)

	case symir.ExprAssign:
		return fc.evalAssign(e)

	case symir.ExprBlock:
		return fc.evalBlock(e.Block)

	case symir.ExprAwait:
		if fc.fn.Effect != symir.EffectAsync {
			fc.ck.Reporter.Report(diag.NewError(diag.AwaitRequiresAsync, e.Span,
				"`await` requires an Async function"))
		}
		if inner := fc.fn.Expr(e.Inner); inner.Kind == symir.ExprCall {
			if callee, ok := fc.ck.Module.FunctionByName(inner.Callee); ok && callee.Effect != symir.EffectAsync {
				fc.ck.Reporter.Report(diag.NewError(diag.AwaitTargetNotAsync, e.Span,
					"await requires an async target").
					WithLabel(callee.Span, "`"+fc.ck.nameOf(callee.Name)+"` is not declared async"))
			}
		}
		return fc.evalExpr(e.Inner)

	case symir.ExprIf:
		if _, blocked, waitOn := fc.evalExpr(e.Cond); blocked {
			return termalg.Term{}, true, waitOn
		}
		thenTerm, blocked, waitOn := fc.evalExpr(e.Then)
		if blocked {
			return termalg.Term{}, true, waitOn
		}
		if e.Else == symir.NoExprID {
			return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit)), false, nil
		}
		if _, blocked, waitOn := fc.evalExpr(e.Else); blocked {
			return termalg.Term{}, true, waitOn
		}
		return thenTerm, false, nil

	case symir.ExprWhile:
		if _, blocked, waitOn := fc.evalExpr(e.Cond); blocked {
			return termalg.Term{}, true, waitOn
		}
		if _, blocked, waitOn := fc.evalExpr(e.Then); blocked {
			return termalg.Term{}, true, waitOn
		}
		return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit)), false, nil

	case symir.ExprReturn:
		if e.Inner == symir.NoExprID {
			term := termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit))
			if blocked, waitOn := fc.checkReturn(term, e.Span); blocked {
				return termalg.Term{}, true, waitOn
			}
			return term, false, nil
		}
		term, blocked, waitOn := fc.evalExpr(e.Inner)
		if blocked {
			return termalg.Term{}, true, waitOn
		}
		if blocked, waitOn := fc.checkReturn(term, e.Span); blocked {
			return termalg.Term{}, true, waitOn
		}
		return term, false, nil

	case symir.ExprTuple, symir.ExprConcat:
		for _, el := range e.Elems {
			if _, blocked, waitOn := fc.evalExpr(el); blocked {
				return termalg.Term{}, true, waitOn
			}
		}
		return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit)), false, nil

	case symir.ExprGive:
		return fc.evalGive(e)
	case symir.ExprLease:
		return fc.evalBorrow(e, false)
	case symir.ExprShare:
		return fc.evalBorrow(e, true)

	case symir.ExprIs:
		if _, blocked, waitOn := fc.evalExpr(e.Target); blocked {
			return termalg.Term{}, true, waitOn
		}
		return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimBool)), false, nil

	default:
		return termalg.ErrorTerm, false, nil
	}
}

// checkReturn validates a returned term against the enclosing function's
// declared return type, the same base-type-only comparison evalCall uses
// for arguments.
func (fc *funcCheck) checkReturn(term termalg.Term, span source.Span) (bool, []symir.InferVarID) {
	required := termalg.SingleTerm(symir.My, fc.fn.Return)
	_, blocked, waitOn := predicate.Sub(fc.env, stripPerm(term), required, fc.orElse(span))
	return blocked, waitOn
}

// evalPlaceRead walks e.Place's projections one field at a time,
// combining the receiver's current term with each field's storage mode:
// Shared always reads as Our, Var yields a lease from the place read so
// far, Atomic does the same but additionally requires the function's
// Atomic effect unless env.InAtomic is set. There is no `atomic { }`
// block in the surface grammar, and nothing sets InAtomic.
func (fc *funcCheck) evalPlaceRead(e symir.Expr) (termalg.Term, bool, []symir.InferVarID) {
	b, ok := fc.locals[e.Place.Local]
	if !ok {
		return termalg.ErrorTerm, false, nil
	}
	if giveSpan, wasGiven := fc.given[placeKey(symir.VarPlace(e.Place.Head, e.Place.Local))]; wasGiven {
		fc.ck.Reporter.Report(diag.NewError(diag.PermissionAlreadyGiven, e.Span,
			"permission already given").
			WithLabel(giveSpan, "given away here"))
		return termalg.ErrorTerm, false, nil
	}
	term := b.term
	cur := symir.VarPlace(e.Place.Head, e.Place.Local)
	for _, proj := range e.Place.Projections {
		if len(term.Chains) == 0 {
			return termalg.ErrorTerm, false, nil
		}
		base := term.Chains[0].Base
		if base.Kind != termalg.BaseClass {
			return termalg.ErrorTerm, false, nil
		}
		class, ok := fc.ck.classes.Class(base.Class)
		if !ok {
			return termalg.ErrorTerm, false, nil
		}
		field, ok := class.FieldByName(proj)
		if !ok {
			return termalg.ErrorTerm, false, nil
		}
		fieldTy := termalg.SubstTy(termalg.Subst{Types: base.Args}, field.Ty)
		switch field.Storage {
		case symir.StorageShared:
			term = termalg.SingleTerm(symir.Our, fieldTy)
		case symir.StorageAtomic:
			if fc.fn.Effect != symir.EffectAtomic && !fc.env.InAtomic {
				fc.ck.Reporter.Report(diag.NewError(diag.AtomicRequiresEffect, e.Span,
					"atomic field access requires an Atomic effect"))
			}
			term = termalg.SingleTerm(symir.LeasedFrom(cur), fieldTy)
		default: // StorageVar
			term = termalg.SingleTerm(symir.LeasedFrom(cur), fieldTy)
		}
		cur = cur.Field(proj)
	}
	return term, false, nil
}

// evalCall checks argument count and, for each argument the call
// actually supplies, its base-type compatibility against the callee's
// declared parameter type. The surface grammar carries no permission
// annotation on a parameter, so only the class-subtype half of Sub is
// exercised here: both sides are wrapped bare (My-headed, which Sub's
// subPermPrefix always accepts against any supertype prefix) and the
// check reduces to class/primitive compatibility.
//
// A callee that names a class instead of a function is the class's
// implicit constructor (parameter list = field list in order),
// handled by evalConstruct.
func (fc *funcCheck) evalCall(e symir.Expr) (termalg.Term, bool, []symir.InferVarID) {
	fn, ok := fc.ck.Module.FunctionByName(e.Callee)
	if !ok {
		if class, isClass := fc.ck.Module.ClassByName(e.Callee); isClass {
			return fc.evalConstruct(e, class)
		}
		fc.ck.Reporter.Report(diag.NewError(diag.UnknownFunction, e.Span,
			"call to unknown function `"+fc.ck.nameOf(e.Callee)+"`"))
		for _, a := range e.Args {
			if _, blocked, waitOn := fc.evalExpr(a); blocked {
				return termalg.Term{}, true, waitOn
			}
		}
		return termalg.ErrorTerm, false, nil
	}

	if len(e.Args) != len(fn.Params) {
		fc.ck.Reporter.Report(diag.NewError(diag.ArgCountMismatch, e.Span,
			fmt.Sprintf("call to `%s` passes %d argument(s), want %d", fc.ck.nameOf(e.Callee), len(e.Args), len(fn.Params))))
	}

	n := len(e.Args)
	if len(fn.Params) < n {
		n = len(fn.Params)
	}
	for i := 0; i < n; i++ {
		argTerm, blocked, waitOn := fc.evalExpr(e.Args[i])
		if blocked {
			return termalg.Term{}, true, waitOn
		}
		required := termalg.SingleTerm(symir.My, fn.Params[i].Ty)
		if _, blocked, waitOn := predicate.Sub(fc.env, stripPerm(argTerm), required, fc.orElse(e.Span)); blocked {
			return termalg.Term{}, true, waitOn
		}
	}
	for i := n; i < len(e.Args); i++ {
		if _, blocked, waitOn := fc.evalExpr(e.Args[i]); blocked {
			return termalg.Term{}, true, waitOn
		}
	}
	return termalg.SingleTerm(symir.My, fn.Return), false, nil
}

// evalConstruct checks a constructor call `C[T...](args...)`. The
// implicit constructor's parameters are the class's fields in
// declaration order; each argument is checked against its field's type
// with the call's generic arguments substituted in, and every
// where-clause on the class is discharged against those same arguments
// (`class C[T] where T is Copy { var v: T }` instantiated at a
// move-only class must cite the failed clause).
func (fc *funcCheck) evalConstruct(e symir.Expr, class *symir.Class) (termalg.Term, bool, []symir.InferVarID) {
	tyArgs := e.TyArgs
	if len(tyArgs) != len(class.Generics) {
		if len(tyArgs) > 0 || len(class.Generics) > 0 {
			fc.ck.Reporter.Report(diag.NewError(diag.GenericArgCountMismatch, e.Span,
				fmt.Sprintf("`%s` takes %d generic argument(s), %d supplied",
					fc.ck.nameOf(class.Name), len(class.Generics), len(tyArgs))))
		}
		padded := make([]symir.SymTy, len(class.Generics))
		copy(padded, tyArgs)
		for i := len(tyArgs); i < len(padded); i++ {
			padded[i] = symir.ErrorTy
		}
		tyArgs = padded
	}
	subst := termalg.Subst{Types: tyArgs}

	for _, wc := range class.Where {
		subject := termalg.SubstTy(subst, wc.Subject)
		ok, blocked, waitOn := predicate.Requires(fc.env,
			termalg.SingleTerm(symir.My, subject), wc.Predicate,
			func(reason string) {
				fc.ck.Reporter.Report(diag.NewError(diag.WhereClauseUnsatisfied, e.Span, reason).
					WithLabel(wc.Span, "required by this where-clause"))
			})
		if blocked {
			return termalg.Term{}, true, waitOn
		}
		if !ok {
			fc.ck.Reporter.Report(diag.NewError(diag.WhereClauseUnsatisfied, e.Span,
				fmt.Sprintf("`%s`'s where-clause `is %s` is not satisfied by this instantiation",
					fc.ck.nameOf(class.Name), wc.Predicate)).
				WithLabel(wc.Span, "required by this where-clause"))
		}
	}

	fields := class.ConstructorParams()
	if len(e.Args) != len(fields) {
		fc.ck.Reporter.Report(diag.NewError(diag.ArgCountMismatch, e.Span,
			fmt.Sprintf("constructing `%s` takes %d argument(s), %d supplied",
				fc.ck.nameOf(class.Name), len(fields), len(e.Args))))
	}
	n := min(len(e.Args), len(fields))
	for i := 0; i < n; i++ {
		argTerm, blocked, waitOn := fc.evalExpr(e.Args[i])
		if blocked {
			return termalg.Term{}, true, waitOn
		}
		required := termalg.SingleTerm(symir.My, termalg.SubstTy(subst, fields[i].Ty))
		if _, blocked, waitOn := predicate.Sub(fc.env, stripPerm(argTerm), required, fc.orElse(e.Span)); blocked {
			return termalg.Term{}, true, waitOn
		}
	}
	for i := n; i < len(e.Args); i++ {
		if _, blocked, waitOn := fc.evalExpr(e.Args[i]); blocked {
			return termalg.Term{}, true, waitOn
		}
	}
	return termalg.SingleTerm(symir.My, symir.Named(class.ID, tyArgs...)), false, nil
}

// evalAssign checks the assigned value against the target with full
// permission subtyping. Unlike call arguments and returns, both sides
// here carry real permission prefixes (the target from evalPlaceRead,
// the value from an arbitrary expression), so nothing is stripped: a
// leased or shared value does not flow into an owned slot.
func (fc *funcCheck) evalAssign(e symir.Expr) (termalg.Term, bool, []symir.InferVarID) {
	targetTerm, blocked, waitOn := fc.evalExpr(e.Target)
	if blocked {
		return termalg.Term{}, true, waitOn
	}
	valueTerm, blocked, waitOn := fc.evalExpr(e.Value)
	if blocked {
		return termalg.Term{}, true, waitOn
	}
	if _, blocked, waitOn := predicate.Sub(fc.env, valueTerm, targetTerm, fc.orElse(e.Span)); blocked {
		return termalg.Term{}, true, waitOn
	}
	return termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit)), false, nil
}

// evalGive marks e.Place as consumed, reporting PermissionAlreadyGiven on
// a second give of the same place: a place's permission can only be
// transferred away once per check.
func (fc *funcCheck) evalGive(e symir.Expr) (termalg.Term, bool, []symir.InferVarID) {
	key := placeKey(e.Place)
	if first, ok := fc.given[key]; ok {
		fc.ck.Reporter.Report(diag.NewError(diag.PermissionAlreadyGiven, e.Span,
			"this permission has already been given away").
			WithLabel(first, "given away here"))
	} else {
		fc.given[key] = e.Span
	}
	b, ok := fc.locals[e.Place.Local]
	if !ok {
		return termalg.ErrorTerm, false, nil
	}
	return b.term, false, nil
}

// evalBorrow handles `lease p` / `share p`: both produce a permission
// tied to the place borrowed from, over the place's currently-known base
// type.
func (fc *funcCheck) evalBorrow(e symir.Expr, shared bool) (termalg.Term, bool, []symir.InferVarID) {
	b, ok := fc.locals[e.Place.Local]
	if !ok || len(b.term.Chains) == 0 {
		return termalg.ErrorTerm, false, nil
	}
	ty := baseToTy(b.term.Chains[0].Base)
	if shared {
		return termalg.SingleTerm(symir.SharedFrom(e.Place), ty), false, nil
	}
	return termalg.SingleTerm(symir.LeasedFrom(e.Place), ty), false, nil
}

// stripPerm discards a term's permission prefix, keeping only its first
// chain's base wrapped bare (My-headed). Used wherever a check should
// only compare base types, not permissions (call arguments, returns,
// declared-type initializers — sites whose declared side carries no
// permission annotation to compare against).
func stripPerm(t termalg.Term) termalg.Term {
	if len(t.Chains) == 0 {
		return termalg.ErrorTerm
	}
	return termalg.Term{Chains: []termalg.Chain{{Base: t.Chains[0].Base}}}
}

// headPerm extracts a term's head permission for write-back: an empty
// prefix is what `My·p = p` collapses to.
func headPerm(t termalg.Term) symir.SymPerm {
	if len(t.Chains) == 0 {
		return symir.ErrorPerm
	}
	if len(t.Chains[0].Perms) == 0 {
		return symir.My
	}
	return t.Chains[0].Perms[0]
}

// baseToTy recovers an approximate SymTy from a reduced Base, used when a
// `var` declaration has no explicit type annotation and its type must be
// inferred from its initializer.
func baseToTy(b termalg.Base) symir.SymTy {
	switch b.Kind {
	case termalg.BaseClass:
		return symir.Named(b.Class, b.Args...)
	case termalg.BaseParam:
		return symir.ParamTy(b.Param)
	case termalg.BasePrim:
		return symir.Prim(b.Prim)
	case termalg.BaseInferVar:
		return symir.InferTy(b.InferVar)
	default:
		return symir.ErrorTy
	}
}
