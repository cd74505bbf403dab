package predicate

import (
	"permcheck/internal/symir"
	"permcheck/internal/termalg"
)

// Requires answers requires(term, predicate). It returns blocked
// with the inference variables to wait on when the term's head is
// unresolved enough that no answer is possible yet; the caller's
// checking task should return that set to internal/infer's executor and
// retry once one of them is notified.
//
// A term is a set of alternative chains; this package requires
// every alternative to satisfy the predicate, since any one of them
// could turn out to be the term's actual shape once fully resolved.
func Requires(env *Environment, term termalg.Term, pred symir.Predicate, orElse OrElse) (satisfied, blocked bool, waitOn []symir.InferVarID) {
	allOK := true
	for _, c := range term.Chains {
		ok, blk, wait := env.requiresChain(c, pred, orElse)
		if blk {
			return false, true, wait
		}
		if !ok {
			allOK = false
		}
	}
	return allOK, false, nil
}

func (e *Environment) requiresChain(c termalg.Chain, pred symir.Predicate, orElse OrElse) (bool, bool, []symir.InferVarID) {
	if len(c.Perms) == 0 {
		switch c.Base.Kind {
		case termalg.BaseParam:
			return e.GenericByRef(c.Base.Param).Requires(pred), false, nil
		case termalg.BasePrim:
			return primRequires(pred), false, nil
		case termalg.BaseError:
			return true, false, nil
		}
		// A bare base with no permission prefix is what `My · p = p`
		// collapses to: treat it like a My-headed chain.
		return myRequires(pred), false, nil
	}
	head := c.Perms[0]
	switch head.Kind {
	case symir.PermMy:
		return myRequires(pred), false, nil
	case symir.PermOur:
		return ourRequires(pred), false, nil
	case symir.PermShared:
		return sharedRequires(pred), false, nil
	case symir.PermLeased:
		return leasedRequires(pred), false, nil
	case symir.PermParam:
		return e.GenericByRef(head.Param).Requires(pred), false, nil
	case symir.PermInferVar:
		return e.recordRequires(head.InferVar, pred, orElse)
	default: // PermError
		return true, false, nil
	}
}

// recordRequires implements "an inference variable v causes the
// requirement to be recorded as v.is += P; if v.isnt already contains P,
// the task fails with an error. If v has a lower bound, P is also
// required of that bound."
func (e *Environment) recordRequires(v symir.InferVarID, pred symir.Predicate, orElse OrElse) (bool, bool, []symir.InferVarID) {
	r := e.varRecordFor(v)
	for _, p := range r.isnt {
		if p == pred {
			orElse(reasonf("%s contradicts a prior `isnt %s` recorded on this value", pred, pred))
			r.state = StateError
			return false, false, nil
		}
	}
	already := false
	for _, p := range r.is {
		if p == pred {
			already = true
			break
		}
	}
	if !already {
		r.is = append(r.is, pred)
	}
	if r.hasLower {
		return Requires(e, r.lower, pred, orElse)
	}
	// Nothing is known about v yet beyond the requirement itself; suspend
	// until a lower bound is recorded (by sub() elsewhere, or by
	// completion mode's forced default) and re-check against it then.
	return false, true, []symir.InferVarID{v}
}

// primRequires is the primitive rule: an owned primitive value is a
// plain bit pattern, freely copyable and movable, owned by wherever it
// sits — and never a reference, so Lent/Unique/Shared do not apply.
func primRequires(p symir.Predicate) bool {
	switch p {
	case symir.PredCopy, symir.PredMove, symir.PredOwned:
		return true
	default:
		return false
	}
}

func myRequires(p symir.Predicate) bool {
	switch p {
	case symir.PredMove, symir.PredOwned, symir.PredUnique:
		return true
	default:
		return false
	}
}

func ourRequires(p symir.Predicate) bool {
	switch p {
	case symir.PredCopy, symir.PredOwned, symir.PredShared:
		return true
	default:
		return false
	}
}

func sharedRequires(p symir.Predicate) bool {
	switch p {
	case symir.PredCopy, symir.PredLent, symir.PredShared:
		return true
	default:
		return false
	}
}

func leasedRequires(p symir.Predicate) bool {
	switch p {
	case symir.PredMove, symir.PredLent, symir.PredUnique:
		return true
	default:
		return false
	}
}
