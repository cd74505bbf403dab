package predicate

import (
	"permcheck/internal/symir"
	"permcheck/internal/termalg"
)

// BoundState is the inference-variable state machine:
//
//	Unbound --lower--> Lower
//	Unbound --upper--> Upper
//	Lower   --upper--> Bounded --solve--> Solved
//	Upper   --lower--> Bounded --solve--> Solved
//	Bounded --tightening update--> Bounded
//	Any     --completion mode--> Solved
//	Any     --contradiction--> Error
type BoundState uint8

const (
	StateUnbound BoundState = iota
	StateLower
	StateUpper
	StateBounded
	StateSolved
	StateError
)

// varRecord is one inference variable's accumulated state: its lower and
// upper bound chain-sets (joined across every recorded bound so far) and
// the is/isnt predicate requirements placed on it.
type varRecord struct {
	state BoundState

	hasLower bool
	lower    termalg.Term
	hasUpper bool
	upper    termalg.Term

	is   []symir.Predicate
	isnt []symir.Predicate
}

func (e *Environment) varRecordFor(v symir.InferVarID) *varRecord {
	r, ok := e.vars[v]
	if !ok {
		r = &varRecord{state: StateUnbound}
		e.vars[v] = r
	}
	return r
}

func (r *varRecord) recordLower(t termalg.Term) {
	if !r.hasLower {
		r.hasLower = true
		r.lower = t
	} else {
		r.lower = termalg.Term{Chains: append(append([]termalg.Chain{}, r.lower.Chains...), t.Chains...)}
	}
	switch r.state {
	case StateUnbound:
		r.state = StateLower
	case StateUpper:
		r.state = StateBounded
	}
}

func (r *varRecord) recordUpper(t termalg.Term) {
	if !r.hasUpper {
		r.hasUpper = true
		r.upper = t
	} else {
		r.upper = termalg.Term{Chains: append(append([]termalg.Chain{}, r.upper.Chains...), t.Chains...)}
	}
	switch r.state {
	case StateUnbound:
		r.state = StateUpper
	case StateLower:
		r.state = StateBounded
	}
}

// Solve collapses a Bounded (or still-Unbound, via completion mode)
// variable to its terminal Solved state: completion mode fills a
// remaining inference variable with its lower bound, defaulting to
// unit permission and unit type when no bound was ever recorded.
func (e *Environment) Solve(v symir.InferVarID) termalg.Term {
	r := e.varRecordFor(v)
	r.state = StateSolved
	switch {
	case r.hasLower:
		return r.lower
	case r.hasUpper:
		r.hasLower = true
		r.lower = r.upper
		return r.upper
	default:
		unit := termalg.SingleTerm(symir.My, symir.Prim(symir.PrimUnit))
		r.hasLower = true
		r.lower = unit
		return unit
	}
}

// Requirements returns the is/isnt predicate sets recorded so far for v,
// for diagnostics and for internal/exprcheck's final write-back pass.
func (e *Environment) Requirements(v symir.InferVarID) (is, isnt []symir.Predicate) {
	r, ok := e.vars[v]
	if !ok {
		return nil, nil
	}
	return r.is, r.isnt
}

// State returns the current BoundState of v.
func (e *Environment) State(v symir.InferVarID) BoundState {
	r, ok := e.vars[v]
	if !ok {
		return StateUnbound
	}
	return r.state
}
