package symbolize

import (
	"permcheck/internal/diag"
	"permcheck/internal/parsefront"
	"permcheck/internal/symir"
)

// fnLower holds the scope state needed to lower one function body: the
// local-variable table (extended in declaration order as `var` statements
// are lowered — a let's initializer is
// resolved against the scope *before* the new local is added, but
// everything after it sees the extended scope), the function's in-scope
// generics, and the expression pool.
type fnLower struct {
	l         *Lowerer
	generics  map[string]symir.GenericRef
	locals    map[string]symir.LocalID
	nextLocal symir.LocalID
	pool      symir.Pool
}

func (b *fnLower) lowerBlock(blk *parsefront.Block) *symir.Block {
	out := &symir.Block{Span: b.l.span(blk.Start, blk.End)}
	// Statements extend the local scope as they are lowered; restore it
	// on return so a sibling block (e.g. the other arm of an if) does not
	// see locals declared in this one.
	saved := make(map[string]symir.LocalID, len(b.locals))
	for k, v := range b.locals {
		saved[k] = v
	}
	defer func() { b.locals = saved }()

	for _, st := range blk.Stmts {
		out.Stmts = append(out.Stmts, b.lowerStmt(st))
	}
	if blk.Tail != nil {
		out.Tail = b.lowerExpr(blk.Tail)
	}
	return out
}

func (b *fnLower) lowerStmt(st *parsefront.Stmt) symir.Stmt {
	if st.IsLet {
		init := b.lowerExpr(st.Init)
		s := symir.Stmt{
			Kind: symir.StmtLet,
			Name: b.l.Interner.Intern(st.Name),
			Init: init,
			Span: b.l.span(st.Start, st.End),
		}
		if st.Declared != nil {
			s.Declared = b.l.lowerType(st.Declared, b.generics)
			s.HasDeclared = true
		}
		b.nextLocal++
		s.Local = b.nextLocal
		b.locals[st.Name] = s.Local
		return s
	}
	return symir.Stmt{
		Kind: symir.StmtExpr,
		Expr: b.lowerExpr(st.Expr),
		Span: b.l.span(st.Start, st.End),
	}
}

// resolvePlace maps a parsed place to a SymIR Place, filling in the
// head's LocalID if it resolves in the current scope and leaving it
// NoLocal (with a diagnostic) otherwise: a place's head must be a
// variable in the current lexical scope, and symbolize is what checks
// that.
func (b *fnLower) resolvePlace(p *parsefront.PlaceExpr) symir.Place {
	local, ok := b.locals[p.Head]
	if !ok {
		b.l.Reporter.Report(diag.NewError(diag.PlaceHeadNotInScope, b.l.span(p.Start, p.End),
			"`"+p.Head+"` is not in scope"))
	}
	place := symir.VarPlace(b.l.Interner.Intern(p.Head), local)
	for _, proj := range p.Projections {
		place = place.Field(b.l.Interner.Intern(proj))
	}
	return place
}

func (b *fnLower) lowerExpr(e parsefront.Expr) symir.ExprID {
	start, end := e.Span()
	span := b.l.span(start, end)

	switch n := e.(type) {
	case *parsefront.LitIntExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprLitInt, Span: span, IntVal: n.Value})
	case *parsefront.LitBoolExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprLitBool, Span: span, BoolVal: n.Value})
	case *parsefront.LitUnitExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprLitUnit, Span: span})
	case *parsefront.PlaceReadExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprVar, Span: span, Place: b.resolvePlace(n.Place)})
	case *parsefront.CallExpr:
		var tyArgs []symir.SymTy
		for _, ta := range n.TyArgs {
			tyArgs = append(tyArgs, b.l.lowerType(ta, b.generics))
		}
		args := make([]symir.ExprID, len(n.Args))
		for i, a := range n.Args {
			args[i] = b.lowerExpr(a)
		}
		return b.pool.New(symir.Expr{Kind: symir.ExprCall, Span: span, Callee: b.l.Interner.Intern(n.Callee), TyArgs: tyArgs, Args: args})
	case *parsefront.AssignExpr:
		target := b.lowerExpr(n.Target)
		value := b.lowerExpr(n.Value)
		return b.pool.New(symir.Expr{Kind: symir.ExprAssign, Span: span, Target: target, Value: value})
	case *parsefront.BlockExpr:
		blk := b.lowerBlock(n.Block)
		return b.pool.New(symir.Expr{Kind: symir.ExprBlock, Span: span, Block: blk})
	case *parsefront.AwaitExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprAwait, Span: span, Inner: b.lowerExpr(n.Inner)})
	case *parsefront.IfExpr:
		ex := symir.Expr{Kind: symir.ExprIf, Span: span, Cond: b.lowerExpr(n.Cond)}
		thenBlk := b.lowerBlock(n.Then)
		ex.Then = b.pool.New(symir.Expr{Kind: symir.ExprBlock, Span: b.l.span(n.Then.Start, n.Then.End), Block: thenBlk})
		if n.Else != nil {
			ex.Else = b.lowerExpr(n.Else)
		} else {
			ex.Else = symir.NoExprID
		}
		return b.pool.New(ex)
	case *parsefront.WhileExpr:
		cond := b.lowerExpr(n.Cond)
		bodyBlk := b.lowerBlock(n.Body)
		body := b.pool.New(symir.Expr{Kind: symir.ExprBlock, Span: b.l.span(n.Body.Start, n.Body.End), Block: bodyBlk})
		return b.pool.New(symir.Expr{Kind: symir.ExprWhile, Span: span, Cond: cond, Then: body})
	case *parsefront.ReturnExpr:
		ex := symir.Expr{Kind: symir.ExprReturn, Span: span, Inner: symir.NoExprID}
		if n.Inner != nil {
			ex.Inner = b.lowerExpr(n.Inner)
		}
		return b.pool.New(ex)
	case *parsefront.TupleExpr:
		elems := make([]symir.ExprID, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = b.lowerExpr(el)
		}
		return b.pool.New(symir.Expr{Kind: symir.ExprTuple, Span: span, Elems: elems})
	case *parsefront.ConcatExpr:
		elems := make([]symir.ExprID, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = b.lowerExpr(el)
		}
		return b.pool.New(symir.Expr{Kind: symir.ExprConcat, Span: span, Elems: elems})
	case *parsefront.GiveExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprGive, Span: span, Place: b.resolvePlace(n.Place)})
	case *parsefront.LeaseExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprLease, Span: span, Place: b.resolvePlace(n.Place)})
	case *parsefront.ShareExpr:
		return b.pool.New(symir.Expr{Kind: symir.ExprShare, Span: span, Place: b.resolvePlace(n.Place)})
	case *parsefront.IsExpr:
		subject := b.lowerExpr(n.Subject)
		cls, ok := b.l.classIDs[n.Class]
		if !ok {
			b.l.Reporter.Report(diag.NewError(diag.SymUnknownClass, span, "unknown class `"+n.Class+"`"))
		}
		return b.pool.New(symir.Expr{Kind: symir.ExprIs, Span: span, Target: subject, TargetClass: cls})
	default:
		b.l.Reporter.Report(diag.NewError(diag.ParseSyntaxError, span, "unsupported expression form"))
		return b.pool.New(symir.Expr{Kind: symir.ExprLitUnit, Span: span})
	}
}
