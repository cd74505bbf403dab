package symbolize

import (
	"testing"

	"permcheck/internal/diag"
	"permcheck/internal/parsefront"
	"permcheck/internal/source"
	"permcheck/internal/symir"
)

func lower(t *testing.T, src string) (*symir.Module, []diag.Diagnostic) {
	t.Helper()
	var reasons []diag.Diagnostic
	rep := recordingReporter{&reasons}
	in := source.NewInterner()
	f := parsefront.ParseFile([]byte(src), 1, rep)
	if len(reasons) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", reasons)
	}
	l := NewLowerer(in, 1, rep)
	return l.Lower(f), reasons
}

type recordingReporter struct{ out *[]diag.Diagnostic }

func (r recordingReporter) Report(d diag.Diagnostic) { *r.out = append(*r.out, d) }

func TestLowerClassWithFieldsAndGenericBound(t *testing.T) {
	mod, reasons := lower(t, `
class Box[type T] where T is Copy {
	shared tag: Int;
	var payload: T;
}
`)
	if len(reasons) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reasons)
	}
	if len(mod.Classes) != 1 {
		t.Fatalf("got %d classes", len(mod.Classes))
	}
	c := mod.Classes[0]
	if len(c.Generics) != 1 || len(c.Generics[0].Bound) != 1 || c.Generics[0].Bound[0] != symir.PredCopy {
		t.Fatalf("generic bound not folded from where-clause: %+v", c.Generics)
	}
	if len(c.Fields) != 2 || c.Fields[0].Storage != symir.StorageShared || c.Fields[1].Storage != symir.StorageVar {
		t.Fatalf("unexpected fields: %+v", c.Fields)
	}
	if c.Fields[1].Ty.Kind != symir.TyParam {
		t.Fatalf("payload field should reference the class's own generic param, got %+v", c.Fields[1].Ty)
	}
}

func TestLowerClassExtendsResolvesForwardReference(t *testing.T) {
	mod, reasons := lower(t, `
class Derived extends Base { var x: Int; }
class Base { var x: Int; }
`)
	if len(reasons) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reasons)
	}
	d, base := mod.Classes[0], mod.Classes[1]
	if d.Super != base.ID {
		t.Fatalf("Derived.Super = %d, want Base's id %d", d.Super, base.ID)
	}
}

func TestLowerDuplicateClassNameReported(t *testing.T) {
	_, reasons := lower(t, `
class A { var x: Int; }
class A { var y: Int; }
`)
	found := false
	for _, d := range reasons {
		if d.Code == diag.SymDuplicateItem {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a SymDuplicateItem diagnostic, got %v", reasons)
	}
}

func TestLowerFunctionBodyLocalsAndPlaces(t *testing.T) {
	mod, reasons := lower(t, `
fn m(p: Int) -> Int {
	var a = p;
	return a;
}
`)
	if len(reasons) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reasons)
	}
	fn := mod.Functions[0]
	if len(fn.Params) != 1 {
		t.Fatalf("got %d params", len(fn.Params))
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("got %d stmts, want 2", len(fn.Body.Stmts))
	}
	letStmt := fn.Body.Stmts[0]
	if letStmt.Kind != symir.StmtLet || letStmt.Local == symir.NoLocal {
		t.Fatalf("let statement not assigned a local: %+v", letStmt)
	}
	initExpr := fn.Expr(letStmt.Init)
	if initExpr.Kind != symir.ExprVar || initExpr.Place.Local == symir.NoLocal {
		t.Fatalf("`p` reference did not resolve to the parameter's local: %+v", initExpr)
	}

	retStmt := fn.Body.Stmts[1]
	retExpr := fn.Expr(retStmt.Expr)
	innerExpr := fn.Expr(retExpr.Inner)
	if innerExpr.Place.Local != letStmt.Local {
		t.Fatalf("`return a` did not resolve to the let-bound local: got %d want %d", innerExpr.Place.Local, letStmt.Local)
	}
}

func TestLowerUnresolvedPlaceReportsDiagnostic(t *testing.T) {
	_, reasons := lower(t, `
fn m() -> Unit {
	give q;
}
`)
	found := false
	for _, d := range reasons {
		if d.Code == diag.PlaceHeadNotInScope {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a PlaceHeadNotInScope diagnostic, got %v", reasons)
	}
}

func TestLowerUseIsAlwaysUnresolved(t *testing.T) {
	mod, reasons := lower(t, `use geometry.Point;`)
	if len(mod.Uses) != 1 || mod.Uses[0].Resolved {
		t.Fatalf("expected exactly one unresolved use, got %+v", mod.Uses)
	}
	found := false
	for _, d := range reasons {
		if d.Code == diag.SymUnresolvedUse {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a SymUnresolvedUse diagnostic")
	}
}
