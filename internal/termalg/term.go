// Package termalg implements the reduced-term algebra: it
// normalizes types and permissions into chains (permission prefixes
// over a base), and
// provides the equality, substitution and display operations the
// predicate and subtype checker (internal/predicate) builds on.
//
// A Chain is `perm0 · perm1 · … · permn · base` — a normalized
// permission prefix applied to a base (a class application, a generic
// parameter, a primitive, an inference variable, or an error
// placeholder). A Term is the reduced form of a type-and-permission
// pair: a set of Chains, since some compositions ("Shared(a)·Shared(b)
// when a is not a prefix of b") have no single collapsed form and are
// kept as alternatives.
package termalg

import "permcheck/internal/symir"

// BaseKind tags the head a Chain terminates in.
type BaseKind uint8

const (
	BaseInvalid BaseKind = iota
	BaseClass
	BaseParam
	BasePrim
	BaseInferVar
	BaseError
)

// Base is the non-permission tail of a Chain.
type Base struct {
	Kind  BaseKind
	Class symir.ClassID
	Args  []symir.SymTy // generic arguments, as given (not independently reduced)

	Param symir.GenericRef
	Prim  symir.PrimKind

	InferVar symir.InferVarID
}

// ReduceTy lifts a SymTy into its Base. Permission-free by construction:
// SymIR keeps a type's permission in the separate SymPerm carried
// alongside it, so reducing a type alone never needs to touch a
// permission chain.
func ReduceTy(t symir.SymTy) Base {
	switch t.Kind {
	case symir.TyNamed:
		return Base{Kind: BaseClass, Class: t.Class, Args: t.Args}
	case symir.TyParam:
		return Base{Kind: BaseParam, Param: t.Param}
	case symir.TyPrim:
		return Base{Kind: BasePrim, Prim: t.Prim}
	case symir.TyInferVar:
		return Base{Kind: BaseInferVar, InferVar: t.InferVar}
	default:
		return Base{Kind: BaseError}
	}
}

// EqualBase reports structural equality of two bases, recursing into
// class generic arguments positionally (subtyping treats generic
// arguments as invariant, so equality does too).
func EqualBase(a, b Base) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case BaseClass:
		if a.Class != b.Class || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !EqualTerm(SingleTerm(symir.My, a.Args[i]), SingleTerm(symir.My, b.Args[i])) {
				return false
			}
		}
		return true
	case BaseParam:
		return a.Param == b.Param
	case BasePrim:
		return a.Prim == b.Prim
	case BaseInferVar:
		return a.InferVar == b.InferVar
	case BaseError:
		return true
	default:
		return true
	}
}

// Chain is a normalized permission prefix applied to a Base.
type Chain struct {
	Perms []symir.SymPerm
	Base  Base
}

// EqualChain reports structural equality of two chains.
func EqualChain(a, b Chain) bool {
	if len(a.Perms) != len(b.Perms) || !EqualBase(a.Base, b.Base) {
		return false
	}
	for i := range a.Perms {
		if !equalPerm(a.Perms[i], b.Perms[i]) {
			return false
		}
	}
	return true
}

func equalPerm(a, b symir.SymPerm) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case symir.PermShared, symir.PermLeased:
		return a.Place.Equal(b.Place)
	case symir.PermParam:
		return a.Param == b.Param
	case symir.PermInferVar:
		return a.InferVar == b.InferVar
	default:
		return true
	}
}

// Term is a reduced term: a deduplicated set of Chains.
type Term struct {
	Chains []Chain
}

// SingleTerm reduces a bare (permission, type) pair with no further
// composition: a one-chain term whose permission prefix is perm alone
// (or empty, if perm is symir.My — "My·p = p" collapses even the
// identity application).
func SingleTerm(perm symir.SymPerm, ty symir.SymTy) Term {
	base := ReduceTy(ty)
	if perm.Kind == symir.PermMy {
		return Term{Chains: []Chain{{Base: base}}}
	}
	return Term{Chains: []Chain{{Perms: []symir.SymPerm{perm}, Base: base}}}
}

// ErrorTerm is the term substituted wherever reduction cannot proceed
// (an unresolved name, a prior diagnostic).
var ErrorTerm = Term{Chains: []Chain{{Base: Base{Kind: BaseError}}}}
