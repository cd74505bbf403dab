package parsefront

import (
	"fmt"

	"permcheck/internal/diag"
	"permcheck/internal/source"
)

// Parser turns a token stream into a File. It never panics on malformed
// input: a syntax error is reported through Reporter and parsing
// continues. A missing expected token is reported without consuming
// anything; a token that cannot start an item, a field, or an expression
// is reported and skipped. There is no diagnostic budget of its own.
type Parser struct {
	lx       *Lexer
	file     source.FileID
	reporter diag.Reporter
	errors   int
}

// NewParser returns a Parser over src, attributing diagnostics to file
// and reporting them through rep (diag.NopReporter{} is valid).
func NewParser(src []byte, file source.FileID, rep diag.Reporter) *Parser {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Parser{lx: NewLexer(src), file: file, reporter: rep}
}

// Errors reports how many syntax errors were emitted.
func (p *Parser) Errors() int { return p.errors }

func (p *Parser) span(start, end uint32) source.Span {
	return source.Span{File: p.file, Start: start, End: end}
}

func (p *Parser) errorf(start, end uint32, format string, args ...any) {
	p.errors++
	p.reporter.Report(diag.NewError(diag.ParseSyntaxError, p.span(start, end), fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(k Kind) Token {
	t := p.lx.Peek()
	if t.Kind != k {
		p.errorf(t.Start, t.End, "expected %v, got %v", k, t.Kind)
		return t
	}
	return p.lx.Next()
}

// ParseFile parses a whole module from src.
func ParseFile(src []byte, file source.FileID, rep diag.Reporter) *File {
	p := NewParser(src, file, rep)
	return p.parseFile()
}

func (p *Parser) parseFile() *File {
	f := &File{}
	for p.lx.Peek().Kind != EOF {
		start := p.lx.Peek().Start
		switch p.lx.Peek().Kind {
		case KwUse:
			f.Uses = append(f.Uses, p.parseUse())
		case KwClass:
			f.Classes = append(f.Classes, p.parseClass())
		case KwFn, KwAsync, KwAtomic:
			f.Functions = append(f.Functions, p.parseFn())
		default:
			t := p.lx.Next()
			p.errorf(t.Start, t.End, "expected `use`, `class`, or `fn`, got %v", t.Kind)
			if t.Start == start && t.Kind == EOF {
				return f // avoid looping forever on unrecognized trailing bytes
			}
		}
	}
	if t := p.lx.Peek(); t.End > t.Start {
		// The lexer ends the stream at a byte it does not recognize.
		p.errorf(t.Start, t.End, "unrecognized character")
	}
	return f
}

func (p *Parser) parseUse() *UseDecl {
	start := p.expect(KwUse).Start
	u := &UseDecl{Start: start}
	u.Path = append(u.Path, p.expect(Ident).Text)
	for p.lx.Peek().Kind == Dot {
		p.lx.Next()
		u.Path = append(u.Path, p.expect(Ident).Text)
	}
	u.End = p.expect(Semi).End
	return u
}

func (p *Parser) parseGenerics() []GenericParam {
	if p.lx.Peek().Kind != LBracket {
		return nil
	}
	p.lx.Next()
	var gens []GenericParam
	for p.lx.Peek().Kind != RBracket && p.lx.Peek().Kind != EOF {
		var g GenericParam
		switch p.lx.Peek().Kind {
		case KwPerm:
			p.lx.Next()
			g.IsPerm = true
		case KwType:
			p.lx.Next()
		}
		g.Name = p.expect(Ident).Text
		gens = append(gens, g)
		if p.lx.Peek().Kind == Comma {
			p.lx.Next()
			continue
		}
		break
	}
	p.expect(RBracket)
	return gens
}

func (p *Parser) parseWhere() []WhereItem {
	if p.lx.Peek().Kind != KwWhere {
		return nil
	}
	p.lx.Next()
	var items []WhereItem
	for {
		start := p.lx.Peek().Start
		subj := p.expect(Ident).Text
		p.expect(KwIs)
		pred := p.expect(Ident).Text
		items = append(items, WhereItem{Subject: subj, Predicate: pred, Start: start, End: p.lx.Peek().Start})
		if p.lx.Peek().Kind == Comma {
			p.lx.Next()
			continue
		}
		break
	}
	return items
}

func (p *Parser) parseType() *TypeExpr {
	start := p.lx.Peek().Start
	t := &TypeExpr{Start: start}
	t.Base = p.expect(Ident).Text
	if p.lx.Peek().Kind == LBracket {
		p.lx.Next()
		for p.lx.Peek().Kind != RBracket && p.lx.Peek().Kind != EOF {
			t.Args = append(t.Args, p.parseType())
			if p.lx.Peek().Kind == Comma {
				p.lx.Next()
				continue
			}
			break
		}
		p.expect(RBracket)
	}
	t.End = p.lx.Peek().Start
	return t
}

func (p *Parser) parsePlace() *PlaceExpr {
	start := p.lx.Peek().Start
	pl := &PlaceExpr{Head: p.expect(Ident).Text, Start: start}
	for p.lx.Peek().Kind == Dot {
		p.lx.Next()
		pl.Projections = append(pl.Projections, p.expect(Ident).Text)
	}
	pl.End = p.lx.Peek().Start
	return pl
}

func (p *Parser) parseClass() *ClassDecl {
	start := p.expect(KwClass).Start
	c := &ClassDecl{Start: start}
	c.Name = p.expect(Ident).Text
	c.Generics = p.parseGenerics()
	if p.lx.Peek().Kind == KwExtends {
		p.lx.Next()
		c.Super = p.expect(Ident).Text
	}
	c.Where = p.parseWhere()
	p.expect(LBrace)
	for p.lx.Peek().Kind != RBrace && p.lx.Peek().Kind != EOF {
		before := p.lx.Peek().Start
		f := p.parseField()
		if p.lx.Peek().Start == before {
			p.lx.Next() // no field could start here: skip the token
			continue
		}
		c.Fields = append(c.Fields, f)
	}
	c.End = p.expect(RBrace).End
	return c
}

func (p *Parser) parseField() Field {
	start := p.lx.Peek().Start
	storage := "var"
	switch p.lx.Peek().Kind {
	case KwShared:
		p.lx.Next()
		storage = "shared"
	case KwVar:
		p.lx.Next()
		storage = "var"
	case KwAtomic:
		p.lx.Next()
		storage = "atomic"
	}
	name := p.expect(Ident).Text
	p.expect(Colon)
	ty := p.parseType()
	end := p.expect(Semi).End
	return Field{Storage: storage, Name: name, Ty: ty, Start: start, End: end}
}

func (p *Parser) parseFn() *FnDecl {
	start := p.lx.Peek().Start
	fn := &FnDecl{Start: start}
	switch p.lx.Peek().Kind {
	case KwAsync:
		p.lx.Next()
		fn.Effect = "async"
	case KwAtomic:
		p.lx.Next()
		fn.Effect = "atomic"
	}
	p.expect(KwFn)
	fn.Name = p.expect(Ident).Text
	fn.Generics = p.parseGenerics()
	p.expect(LParen)
	for p.lx.Peek().Kind != RParen && p.lx.Peek().Kind != EOF {
		pstart := p.lx.Peek().Start
		pname := p.expect(Ident).Text
		p.expect(Colon)
		pty := p.parseType()
		fn.Params = append(fn.Params, Param{Name: pname, Ty: pty, Start: pstart, End: p.lx.Peek().Start})
		if p.lx.Peek().Kind == Comma {
			p.lx.Next()
			continue
		}
		break
	}
	p.expect(RParen)
	if p.lx.Peek().Kind == Arrow {
		p.lx.Next()
		fn.Return = p.parseType()
	}
	fn.Where = p.parseWhere()
	fn.Body = p.parseBlock()
	fn.End = fn.Body.End
	return fn
}

func (p *Parser) parseBlock() *Block {
	start := p.expect(LBrace).Start
	b := &Block{Start: start}
	for p.lx.Peek().Kind != RBrace && p.lx.Peek().Kind != EOF {
		if p.lx.Peek().Kind == KwVar {
			b.Stmts = append(b.Stmts, p.parseLet())
			continue
		}
		e := p.parseExpr()
		if p.lx.Peek().Kind == Semi {
			p.lx.Next()
			es, ee := e.Span()
			b.Stmts = append(b.Stmts, &Stmt{Expr: e, Start: es, End: ee})
			continue
		}
		// No trailing semicolon: e is the block's tail expression.
		b.Tail = e
		break
	}
	b.End = p.expect(RBrace).End
	return b
}

func (p *Parser) parseLet() *Stmt {
	start := p.expect(KwVar).Start
	name := p.expect(Ident).Text
	st := &Stmt{IsLet: true, Name: name, Start: start}
	if p.lx.Peek().Kind == Colon {
		p.lx.Next()
		st.Declared = p.parseType()
	}
	p.expect(Eq)
	st.Init = p.parseExpr()
	st.End = p.expect(Semi).End
	return st
}

func (p *Parser) parseExpr() Expr { return p.parseAssign() }

func (p *Parser) parseAssign() Expr {
	lhs := p.parsePrimary()
	if p.lx.Peek().Kind == Eq {
		p.lx.Next()
		rhs := p.parseAssign()
		ls, _ := lhs.Span()
		_, re := rhs.Span()
		return &AssignExpr{baseExpr: baseExpr{ls, re}, Target: lhs, Value: rhs}
	}
	return lhs
}

func (p *Parser) parsePrimary() Expr {
	t := p.lx.Peek()
	switch t.Kind {
	case Int:
		p.lx.Next()
		return &LitIntExpr{baseExpr{t.Start, t.End}, t.Int}
	case KwTrue:
		p.lx.Next()
		return &LitBoolExpr{baseExpr{t.Start, t.End}, true}
	case KwFalse:
		p.lx.Next()
		return &LitBoolExpr{baseExpr{t.Start, t.End}, false}
	case LParen:
		p.lx.Next()
		if p.lx.Peek().Kind == RParen {
			end := p.lx.Next().End
			return &LitUnitExpr{baseExpr{t.Start, end}}
		}
		var elems []Expr
		elems = append(elems, p.parseExpr())
		isTuple := false
		for p.lx.Peek().Kind == Comma {
			isTuple = true
			p.lx.Next()
			elems = append(elems, p.parseExpr())
		}
		end := p.expect(RParen).End
		if isTuple {
			return &TupleExpr{baseExpr{t.Start, end}, elems}
		}
		return elems[0]
	case LBrace:
		b := p.parseBlock()
		return &BlockExpr{baseExpr{b.Start, b.End}, b}
	case KwIf:
		return p.parseIf()
	case KwWhile:
		return p.parseWhile()
	case KwReturn:
		p.lx.Next()
		if p.atExprEnd() {
			return &ReturnExpr{baseExpr: baseExpr{t.Start, t.End}}
		}
		inner := p.parseExpr()
		_, ie := inner.Span()
		return &ReturnExpr{baseExpr{t.Start, ie}, inner}
	case KwAwait:
		p.lx.Next()
		inner := p.parsePrimary()
		_, ie := inner.Span()
		return &AwaitExpr{baseExpr{t.Start, ie}, inner}
	case KwGive:
		p.lx.Next()
		pl := p.parsePlace()
		return &GiveExpr{baseExpr{t.Start, pl.End}, pl}
	case KwLease:
		p.lx.Next()
		pl := p.parsePlace()
		return &LeaseExpr{baseExpr{t.Start, pl.End}, pl}
	case KwShare:
		p.lx.Next()
		pl := p.parsePlace()
		return &ShareExpr{baseExpr{t.Start, pl.End}, pl}
	case Ident:
		return p.parseIdentOrCall()
	default:
		p.lx.Next()
		p.errorf(t.Start, t.End, "unexpected token %v in expression", t.Kind)
		return &LitUnitExpr{baseExpr{t.Start, t.End}}
	}
}

// atExprEnd reports whether the token stream has hit something that
// cannot start an expression — the set `return` may legally precede
// with no operand.
func (p *Parser) atExprEnd() bool {
	switch p.lx.Peek().Kind {
	case Semi, RBrace, EOF:
		return true
	}
	return false
}

func (p *Parser) parseIdentOrCall() Expr {
	t := p.lx.Next()
	// `Ident [` in expression position is only ever explicit generic
	// arguments on a call (`C[Int](1)`); the grammar has no indexing.
	var tyArgs []*TypeExpr
	if p.lx.Peek().Kind == LBracket {
		p.lx.Next()
		for p.lx.Peek().Kind != RBracket && p.lx.Peek().Kind != EOF {
			tyArgs = append(tyArgs, p.parseType())
			if p.lx.Peek().Kind == Comma {
				p.lx.Next()
				continue
			}
			break
		}
		p.expect(RBracket)
	}
	if p.lx.Peek().Kind == LParen || tyArgs != nil {
		p.expect(LParen)
		var args []Expr
		for p.lx.Peek().Kind != RParen && p.lx.Peek().Kind != EOF {
			args = append(args, p.parseExpr())
			if p.lx.Peek().Kind == Comma {
				p.lx.Next()
				continue
			}
			break
		}
		end := p.expect(RParen).End
		return &CallExpr{baseExpr{t.Start, end}, t.Text, tyArgs, args}
	}
	pl := &PlaceExpr{Head: t.Text, Start: t.Start, End: t.End}
	for p.lx.Peek().Kind == Dot {
		p.lx.Next()
		proj := p.expect(Ident)
		pl.Projections = append(pl.Projections, proj.Text)
		pl.End = proj.End
	}
	var e Expr = &PlaceReadExpr{baseExpr{pl.Start, pl.End}, pl}
	if p.lx.Peek().Kind == KwIs {
		p.lx.Next()
		cls := p.expect(Ident)
		e = &IsExpr{baseExpr{pl.Start, cls.End}, e, cls.Text}
	}
	return e
}

func (p *Parser) parseIf() Expr {
	start := p.expect(KwIf).Start
	cond := p.parseExpr()
	then := p.parseBlock()
	ie := &IfExpr{baseExpr: baseExpr{start, then.End}, Cond: cond, Then: then}
	if p.lx.Peek().Kind == KwElse {
		p.lx.Next()
		if p.lx.Peek().Kind == KwIf {
			ie.Else = p.parseIf()
		} else {
			b := p.parseBlock()
			ie.Else = &BlockExpr{baseExpr{b.Start, b.End}, b}
		}
		_, ee := ie.Else.Span()
		ie.End = ee
	}
	return ie
}

func (p *Parser) parseWhile() Expr {
	start := p.expect(KwWhile).Start
	cond := p.parseExpr()
	body := p.parseBlock()
	return &WhileExpr{baseExpr{start, body.End}, cond, body}
}
