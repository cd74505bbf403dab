package parsefront

// The AST nodes below are plain tagged structs, one type per surface
// construct, kept in a single file since the grammar is small. Every
// node carries Start/End byte offsets;
// internal/symbolize maps those onto a source.Span with the FileID it
// was parsed under.

type File struct {
	Uses      []*UseDecl
	Classes   []*ClassDecl
	Functions []*FnDecl
}

type UseDecl struct {
	Path       []string
	Start, End uint32
}

type GenericParam struct {
	IsPerm bool // true for `perm P`, false for `type T` (default)
	Name   string
}

type WhereItem struct {
	Subject    string
	Predicate  string
	Start, End uint32
}

// TypeExpr is a base name with optional generic arguments — a primitive
// (Int, Bool, ...), a generic parameter reference, or a class name. A
// declared type carries no permission. Symbolize allocates no inference
// variables: the checker (internal/exprcheck) gives each function
// parameter a fresh permission inference variable, and a `var` binding
// takes the type and permission of its initializer.
type TypeExpr struct {
	Base       string
	Args       []*TypeExpr
	Start, End uint32
}

type PlaceExpr struct {
	Head        string
	Projections []string
	Start, End  uint32
}

type Field struct {
	Storage    string // "shared", "var", "atomic"
	Name       string
	Ty         *TypeExpr
	Start, End uint32
}

type ClassDecl struct {
	Name       string
	Generics   []GenericParam
	Super      string // "" if none
	Where      []WhereItem
	Fields     []Field
	Start, End uint32
}

type Param struct {
	Name       string
	Ty         *TypeExpr
	Start, End uint32
}

type FnDecl struct {
	Effect     string // "", "async", "atomic"
	Name       string
	Generics   []GenericParam
	Params     []Param
	Return     *TypeExpr // nil if unspecified
	Where      []WhereItem
	Body       *Block
	Start, End uint32
}

// StmtKind/ExprKind below mirror internal/symir's own enums in spirit,
// but are independent: this AST is untyped surface syntax, symbolize is
// what assigns SymIR meaning to it.

type Block struct {
	Stmts      []*Stmt
	Tail       Expr // nil if the block has no tail expression
	Start, End uint32
}

type Stmt struct {
	IsLet       bool
	Name        string // IsLet
	Declared    *TypeExpr // IsLet, nil if omitted
	Init        Expr      // IsLet
	Expr        Expr      // !IsLet
	Start, End  uint32
}

// Expr is implemented by every expression node; a small closed set, so a
// type switch in internal/symbolize is the dispatch mechanism — a Go
// interface stands in for the tag since the AST is discarded
// immediately after lowering.
type Expr interface {
	exprNode()
	Span() (uint32, uint32)
}

type baseExpr struct{ Start, End uint32 }

func (baseExpr) exprNode() {}
func (b baseExpr) Span() (uint32, uint32) { return b.Start, b.End }

type LitIntExpr struct {
	baseExpr
	Value int64
}

type LitBoolExpr struct {
	baseExpr
	Value bool
}

type LitUnitExpr struct{ baseExpr }

type PlaceReadExpr struct {
	baseExpr
	Place *PlaceExpr
}

type CallExpr struct {
	baseExpr
	Callee string
	TyArgs []*TypeExpr // `C[Int](1)` — explicit generic arguments, or nil
	Args   []Expr
}

type AssignExpr struct {
	baseExpr
	Target Expr
	Value  Expr
}

type BlockExpr struct {
	baseExpr
	Block *Block
}

type AwaitExpr struct {
	baseExpr
	Inner Expr
}

type IfExpr struct {
	baseExpr
	Cond Expr
	Then *Block
	Else Expr // another IfExpr or BlockExpr, or nil
}

type WhileExpr struct {
	baseExpr
	Cond Expr
	Body *Block
}

type ReturnExpr struct {
	baseExpr
	Inner Expr // nil for a bare `return`
}

type TupleExpr struct {
	baseExpr
	Elems []Expr
}

type ConcatExpr struct {
	baseExpr
	Elems []Expr
}

type GiveExpr struct {
	baseExpr
	Place *PlaceExpr
}

type LeaseExpr struct {
	baseExpr
	Place *PlaceExpr
}

type ShareExpr struct {
	baseExpr
	Place *PlaceExpr
}

type IsExpr struct {
	baseExpr
	Subject Expr
	Class   string
}
