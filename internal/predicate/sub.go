package predicate

import (
	"permcheck/internal/symir"
	"permcheck/internal/termalg"
)

// Sub answers sub(subTerm, supTerm): is subTerm a subtype of
// supTerm? Like Requires, it returns blocked with the variables to wait
// on when resolution cannot proceed yet. A term being a chain set, sub
// holds when every chain of subTerm is a subtype of at least one chain
// of supTerm — the universal/existential reading that matches "any of
// these alternatives could be the real value".
func Sub(env *Environment, sub, sup termalg.Term, orElse OrElse) (ok, blocked bool, waitOn []symir.InferVarID) {
	for _, a := range sub.Chains {
		matched := false
		for _, b := range sup.Chains {
			if env.subCached(a, b, orElse) {
				matched = true
				break
			}
		}
		if !matched {
			orElse(reasonf("no alternative of the subtype's term is a subtype of the supertype's term"))
			return false, false, nil
		}
	}
	// Encountering an inference variable never suspends sub() itself: it
	// records a bound and marks the variable dirty (Environment.PopDirty)
	// rather than blocking this call; only Requires() suspends the
	// caller's own task.
	return true, false, nil
}

// subCached applies the co-inductive cycle rule: a subtype check
// that recurses back into the same (a, b) pair — as deep class or
// generic-bound cycles can — is assumed true on the recursive
// occurrence and only fails if the outer computation itself fails. The
// in-progress set lives directly on the Environment rather than behind
// store.Query.GetCoinductive, since that query's pure `func(K) V` compute
// signature has no room for the orElse side effect a failed sub() needs
// to fire inline; classSubtype below is the half of this computation that
// fits the pure-query shape and does go through the store.
func (e *Environment) subCached(a, b termalg.Chain, orElse OrElse) bool {
	key := termalg.Term{Chains: []termalg.Chain{a}}.Key() + "<:" + termalg.Term{Chains: []termalg.Chain{b}}.Key()
	if e.subInProgress[key] {
		return true
	}
	if e.subInProgress == nil {
		e.subInProgress = make(map[string]bool)
	}
	e.subInProgress[key] = true
	defer delete(e.subInProgress, key)

	return e.subChain(a, b, orElse)
}

func (e *Environment) subChain(a, b termalg.Chain, orElse OrElse) bool {
	if a.Base.Kind == termalg.BaseError || b.Base.Kind == termalg.BaseError {
		return true
	}
	if a.Base.Kind == termalg.BaseClass && b.Base.Kind == termalg.BaseClass {
		if a.Base.Class == b.Base.Class {
			if !equalArgsInvariant(a.Base.Args, b.Base.Args) {
				orElse("generic arguments differ (generic parameters are invariant)")
				return false
			}
			return e.subPermPrefix(a.Perms, b.Perms, orElse)
		}
		if e.classSubtype(a.Base.Class, b.Base.Class) {
			return e.subPermPrefix(a.Perms, b.Perms, orElse)
		}
		orElse("unrelated class heads")
		return false
	}
	if a.Base.Kind == termalg.BasePrim && b.Base.Kind == termalg.BasePrim && a.Base.Prim != b.Base.Prim {
		if intWidens(a.Base.Prim, b.Base.Prim) {
			return e.subPermPrefix(a.Perms, b.Perms, orElse)
		}
		orElse(reasonf("%s does not widen to %s", a.Base.Prim, b.Base.Prim))
		return false
	}
	if !termalg.EqualBase(a.Base, b.Base) {
		orElse("term heads do not match")
		return false
	}
	return e.subPermPrefix(a.Perms, b.Perms, orElse)
}

// intWidens reports whether a value of primitive from may flow into a
// site of primitive to without an explicit cast: integer widening only,
// never narrowing, with the width-agnostic Int sized like Int64.
func intWidens(from, to symir.PrimKind) bool {
	rank := func(p symir.PrimKind) int {
		switch p {
		case symir.PrimInt8:
			return 1
		case symir.PrimInt16:
			return 2
		case symir.PrimInt32:
			return 3
		case symir.PrimInt64, symir.PrimInt:
			return 4
		default:
			return 0
		}
	}
	rf, rt := rank(from), rank(to)
	return rf > 0 && rt > 0 && rf <= rt
}

func equalArgsInvariant(a, b []symir.SymTy) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !termalg.EqualTerm(termalg.SingleTerm(symir.My, a[i]), termalg.SingleTerm(symir.My, b[i])) {
			return false
		}
	}
	return true
}

func (e *Environment) subPermPrefix(subPerms, supPerms []symir.SymPerm, orElse OrElse) bool {
	if len(subPerms) == 0 {
		// My <: p for any p the site admits.
		return true
	}
	subHead := subPerms[0]
	if subHead.Kind == symir.PermInferVar {
		e.recordUpperBound(subHead.InferVar, supPerms)
		return true
	}
	if len(supPerms) == 0 {
		// sup is bare My: only My <: My.
		return false
	}
	supHead := supPerms[0]
	if supHead.Kind == symir.PermInferVar {
		e.recordLowerBound(supHead.InferVar, subPerms)
		return true
	}
	switch {
	case subHead.Kind == symir.PermOur && supHead.Kind == symir.PermOur:
		return true
	case subHead.Kind == symir.PermShared && supHead.Kind == symir.PermShared:
		return supHead.Place.IsPrefixOf(subHead.Place)
	case subHead.Kind == symir.PermLeased && supHead.Kind == symir.PermLeased:
		return supHead.Place.IsPrefixOf(subHead.Place)
	case subHead.Kind == symir.PermOur && supHead.Kind == symir.PermMy:
		return false
	default:
		orElse("incompatible permission heads")
		return false
	}
}

func (e *Environment) recordLowerBound(v symir.InferVarID, perms []symir.SymPerm) {
	r := e.varRecordFor(v)
	r.recordLower(termalg.Term{Chains: []termalg.Chain{{Perms: perms, Base: termalg.Base{Kind: termalg.BasePrim, Prim: symir.PrimUnit}}}})
	e.dirty = append(e.dirty, v)
}

func (e *Environment) recordUpperBound(v symir.InferVarID, perms []symir.SymPerm) {
	r := e.varRecordFor(v)
	r.recordUpper(termalg.Term{Chains: []termalg.Chain{{Perms: perms, Base: termalg.Base{Kind: termalg.BasePrim, Prim: symir.PrimUnit}}}})
	e.dirty = append(e.dirty, v)
}
