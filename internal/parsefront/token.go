// Package parsefront is the checker's front end: a
// small hand-rolled lexer, AST, and recursive-descent parser for the
// surface syntax SymIR's symbolizer (internal/symbolize) consumes.
// Nothing past this package knows about source text; everything past it
// works in terms of internal/symir's tagged-variant handles.
package parsefront

import "fmt"

// Kind tags one lexical token.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	Int
	// Keywords
	KwClass
	KwFn
	KwUse
	KwVar
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwAwait
	KwAsync
	KwAtomic
	KwWhere
	KwIs
	KwExtends
	KwTrue
	KwFalse
	KwGive
	KwLease
	KwShare
	KwShared
	KwType
	KwPerm
	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Semi
	Dot
	Arrow // ->
	Eq
	EqEq
	Bang
	BangEq
	Plus
	Minus
	Star
	Slash
)

var keywords = map[string]Kind{
	"class":   KwClass,
	"fn":      KwFn,
	"use":     KwUse,
	"var":     KwVar,
	"return":  KwReturn,
	"if":      KwIf,
	"else":    KwElse,
	"while":   KwWhile,
	"await":   KwAwait,
	"async":   KwAsync,
	"atomic":  KwAtomic,
	"where":   KwWhere,
	"is":      KwIs,
	"extends": KwExtends,
	"true":    KwTrue,
	"false":   KwFalse,
	"give":    KwGive,
	"lease":   KwLease,
	"share":   KwShare,
	"shared":  KwShared,
	"type":    KwType,
	"perm":    KwPerm,
}

// Token is one lexical token together with its byte span (relative to
// the owning file — Lexer.Next fills in the File field).
type Token struct {
	Kind  Kind
	Text  string
	Start uint32
	End   uint32
	Int   int64
}

func (t Token) String() string {
	return fmt.Sprintf("%v(%q)", t.Kind, t.Text)
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "ident"
	case Int:
		return "int"
	default:
		for s, kk := range keywords {
			if kk == k {
				return s
			}
		}
		return "punct"
	}
}
