package termalg

import "permcheck/internal/symir"

// Combine applies outer in front of every chain of inner and renormalizes
// the resulting permission prefixes, implementing the reduction rules:
//
//	My · p              = p
//	Our · Our           = Our
//	Shared(a) · Shared(b) = Shared(a)   when a is a prefix of b
//	                      = {Shared(a), Shared(b)} (alternatives) otherwise
//	Leased(a) · Leased(b) = Leased(a)   when a dominates b (a is a prefix of b)
//	                      = {Leased(a), Leased(b)} (alternatives) otherwise
//
// Anything else simply prepends outer onto the chain.
func Combine(outer symir.SymPerm, inner Term) Term {
	var out []Chain
	for _, c := range inner.Chains {
		out = append(out, combinePrefix(outer, c)...)
	}
	return Term{Chains: dedup(out)}
}

func combinePrefix(outer symir.SymPerm, c Chain) []Chain {
	if outer.Kind == symir.PermMy {
		return []Chain{c}
	}
	if len(c.Perms) == 0 {
		return []Chain{{Perms: []symir.SymPerm{outer}, Base: c.Base}}
	}
	head := c.Perms[0]
	switch {
	case outer.Kind == symir.PermOur && head.Kind == symir.PermOur:
		return []Chain{c}
	case outer.Kind == symir.PermShared && head.Kind == symir.PermShared:
		return collapseOrBranch(outer, c)
	case outer.Kind == symir.PermLeased && head.Kind == symir.PermLeased:
		return collapseOrBranch(outer, c)
	default:
		perms := make([]symir.SymPerm, 0, len(c.Perms)+1)
		perms = append(perms, outer)
		perms = append(perms, c.Perms...)
		return []Chain{{Perms: perms, Base: c.Base}}
	}
}

// collapseOrBranch handles both the Shared/Shared and Leased/Leased
// cases: outer and c.Perms[0] share a kind (Shared or Leased), and the
// rule collapses to the outer permission when its place is a prefix of
// the inner one, otherwise keeps both as alternative single-chain
// branches.
func collapseOrBranch(outer symir.SymPerm, c Chain) []Chain {
	head := c.Perms[0]
	if outer.Place.IsPrefixOf(head.Place) {
		perms := make([]symir.SymPerm, len(c.Perms))
		copy(perms, c.Perms)
		perms[0] = outer
		return []Chain{{Perms: perms, Base: c.Base}}
	}
	return []Chain{
		{Perms: []symir.SymPerm{outer}, Base: c.Base},
		c,
	}
}

func dedup(chains []Chain) []Chain {
	var out []Chain
	for _, c := range chains {
		found := false
		for _, o := range out {
			if EqualChain(c, o) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, c)
		}
	}
	return out
}

// Reduce renormalizes an already-built Term, deduplicating chains. It is
// idempotent: Reduce(Reduce(t)) always equals Reduce(t), since Combine
// and SingleTerm only ever produce already-deduplicated chain sets and
// Reduce performs the same dedup pass again over them.
func Reduce(t Term) Term {
	return Term{Chains: dedup(t.Chains)}
}
