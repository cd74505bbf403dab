package symir

import "permcheck/internal/source"

// ExprKind tags the variant held by an Expr: literals, variable reads,
// field access, calls, assignments, blocks, await, if, while, return,
// tuple, concatenation, plus the Give/Lease/Share/Is permission and
// inspection forms.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLitInt
	ExprLitBool
	ExprLitUnit
	ExprVar
	ExprFieldAccess
	ExprCall
	ExprAssign
	ExprBlock
	ExprAwait
	ExprIf
	ExprWhile
	ExprReturn
	ExprTuple
	ExprConcat
	ExprGive  // `give p` — transfers p's permission away from its place
	ExprLease // `lease p` — takes a mutable borrow from p
	ExprShare // `share p` — takes a shared borrow from p
	ExprIs    // `e is C` — a dynamic class-membership test
)

// StmtKind distinguishes a `var` declaration from a bare expression
// statement inside a Block.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
)

// Stmt is one statement inside a Block. For StmtLet, Name/Init (and
// Declared/HasDeclared for an explicit type annotation) are populated;
// for StmtExpr, Expr is populated.
type Stmt struct {
	Kind StmtKind

	Name        source.StringID
	Local       LocalID
	Declared    SymTy
	HasDeclared bool
	Init        ExprID

	Expr ExprID

	Span Span
}

// Block is a sequence of statements followed by an optional tail
// expression; the block's own value is the tail's, or unit if absent.
type Block struct {
	Stmts []Stmt
	Tail  ExprID
	Span  Span
}

// Expr is the tagged-variant expression node. Only the fields
// relevant to Kind are meaningful; Ty and Perm start zero-valued and are
// filled in by the checker (internal/exprcheck), never by symbolize.
type Expr struct {
	ID   ExprID
	Kind ExprKind
	Span Span

	// ExprLitInt
	IntVal int64
	// ExprLitBool
	BoolVal bool

	// ExprVar, ExprGive, ExprLease, ExprShare: the place operated on.
	// ExprFieldAccess reuses Place with its final projection as the field.
	Place Place

	// ExprCall
	Callee source.StringID
	TyArgs []SymTy // explicit generic arguments at the call site, or nil
	Args   []ExprID

	// ExprAssign
	Target ExprID
	Value  ExprID

	// ExprBlock
	Block *Block

	// ExprAwait: the awaited expression.
	// ExprReturn: the returned expression, or NoExprID for a bare return.
	Inner ExprID

	// ExprIf, ExprWhile
	Cond ExprID
	Then ExprID
	Else ExprID // NoExprID if no else-branch

	// ExprTuple, ExprConcat
	Elems []ExprID

	// ExprIs
	TargetClass ClassID

	// Filled in by the checker.
	Ty   SymTy
	Perm SymPerm
}

// Pool accumulates a function body's expressions during symbolize,
// assigning each a fresh 1-based ExprID as it is built. The finished
// slice becomes Function.Exprs.
type Pool struct {
	exprs []Expr
}

// New allocates e, assigns it the next ExprID, and returns that ID.
func (p *Pool) New(e Expr) ExprID {
	id := ExprID(len(p.exprs) + 1)
	e.ID = id
	p.exprs = append(p.exprs, e)
	return id
}

// Exprs returns the accumulated expression slice, indexed the way
// Function.Expr expects (Exprs[id-1] is the expression with that ID).
func (p *Pool) Exprs() []Expr { return p.exprs }
