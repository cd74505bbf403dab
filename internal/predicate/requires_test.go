package predicate

import (
	"testing"

	"permcheck/internal/symir"
	"permcheck/internal/termalg"
)

func TestRequiresMyRules(t *testing.T) {
	env := newTestEnv(nil, nil)
	// A class base: the bare chain is what My·C collapses to, and the
	// primitive rule below must not apply.
	term := termalg.SingleTerm(symir.My, symir.Named(1))

	var reasons []string
	ok, blocked, _ := Requires(env, term, symir.PredOwned, errs(&reasons))
	if !ok || blocked {
		t.Fatalf("Requires(My, Owned) = (%v, %v), want (true, false)", ok, blocked)
	}

	ok, blocked, _ = Requires(env, term, symir.PredCopy, errs(&reasons))
	if ok || blocked {
		t.Fatalf("Requires(My, Copy) = (%v, %v), want (false, false)", ok, blocked)
	}
}

func TestRequiresPrimitiveRule(t *testing.T) {
	env := newTestEnv(nil, nil)
	term := termalg.SingleTerm(symir.My, symir.Prim(symir.PrimInt))

	var reasons []string
	for _, pred := range []symir.Predicate{symir.PredCopy, symir.PredMove, symir.PredOwned} {
		if ok, blocked, _ := Requires(env, term, pred, errs(&reasons)); !ok || blocked {
			t.Fatalf("an owned Int should satisfy %s", pred)
		}
	}
	for _, pred := range []symir.Predicate{symir.PredLent, symir.PredUnique, symir.PredShared} {
		if ok, _, _ := Requires(env, term, pred, errs(&reasons)); ok {
			t.Fatalf("an owned Int should not satisfy %s", pred)
		}
	}
}

func TestRequiresOurRules(t *testing.T) {
	env := newTestEnv(nil, nil)
	term := termalg.SingleTerm(symir.Our, symir.Prim(symir.PrimInt))
	var reasons []string

	if ok, _, _ := Requires(env, term, symir.PredCopy, errs(&reasons)); !ok {
		t.Fatal("Requires(Our, Copy) should succeed")
	}
	if ok, _, _ := Requires(env, term, symir.PredMove, errs(&reasons)); ok {
		t.Fatal("Requires(Our, Move) should fail")
	}
}

func TestRequiresGenericParamFromBound(t *testing.T) {
	env := newTestEnv([]symir.GenericDecl{{Kind: symir.GenericType, Bound: []symir.Predicate{symir.PredCopy}}}, nil)
	term := termalg.SingleTerm(symir.My, symir.ParamTy(0))
	var reasons []string
	ok, _, _ := Requires(env, term, symir.PredCopy, errs(&reasons))
	if !ok {
		t.Fatal("a generic parameter with `where T is Copy` should satisfy requires(T, Copy)")
	}
	if ok, _, _ := Requires(env, term, symir.PredMove, errs(&reasons)); ok {
		t.Fatal("requires(T, Move) should fail when the bound only lists Copy")
	}
}

func TestRequiresInferVarSuspendsUntilLowerBoundThenResolves(t *testing.T) {
	env := newTestEnv(nil, nil)
	v := symir.InferVarID(1)
	permTerm := termalg.Term{Chains: []termalg.Chain{{
		Perms: []symir.SymPerm{symir.InferPerm(v)},
		Base:  termalg.ReduceTy(symir.Prim(symir.PrimInt)),
	}}}

	var reasons []string
	ok, blocked, waitOn := Requires(env, permTerm, symir.PredCopy, errs(&reasons))
	if ok || !blocked || len(waitOn) != 1 || waitOn[0] != v {
		t.Fatalf("Requires() on a fresh infer var = (%v, %v, %v), want (false, true, [%d])", ok, blocked, waitOn, v)
	}

	// Resolve v to Our via Sub, which records a lower bound, then retry.
	sup := termalg.Term{Chains: []termalg.Chain{{Perms: []symir.SymPerm{symir.InferPerm(v)}, Base: termalg.ReduceTy(symir.Prim(symir.PrimInt))}}}
	sub := termalg.SingleTerm(symir.Our, symir.Prim(symir.PrimInt))
	if ok, blocked, _ := Sub(env, sub, sup, errs(&reasons)); !ok || blocked {
		t.Fatalf("Sub(Our, ?v) = (%v, %v), want (true, false)", ok, blocked)
	}

	ok, blocked, _ = Requires(env, permTerm, symir.PredCopy, errs(&reasons))
	if !ok || blocked {
		t.Fatalf("Requires() after the lower bound resolved to Our = (%v, %v), want (true, false)", ok, blocked)
	}
}

func TestRequiresContradictsIsnt(t *testing.T) {
	env := newTestEnv(nil, nil)
	v := symir.InferVarID(3)
	term := termalg.Term{Chains: []termalg.Chain{{Perms: []symir.SymPerm{symir.InferPerm(v)}, Base: termalg.ReduceTy(symir.Prim(symir.PrimInt))}}}

	r := env.varRecordFor(v)
	r.isnt = append(r.isnt, symir.PredCopy)

	var reasons []string
	ok, blocked, _ := Requires(env, term, symir.PredCopy, errs(&reasons))
	if ok || blocked || len(reasons) == 0 {
		t.Fatalf("Requires() should report a contradiction, got ok=%v blocked=%v reasons=%v", ok, blocked, reasons)
	}
}
