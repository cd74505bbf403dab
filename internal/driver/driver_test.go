package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"permcheck/internal/diag"
	"permcheck/internal/source"
)

func TestCheckFileCleanSourceHasNoErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean.prm")
	if err := os.WriteFile(path, []byte("fn add(a: Int, b: Int) -> Int {\n\treturn a;\n}\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, mod, bag, err := CheckFile(path, Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if len(mod.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(mod.Functions))
	}
}

func TestCheckFileUnknownFunctionReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.prm")
	if err := os.WriteFile(path, []byte("fn m() -> Int {\n\treturn ghost();\n}\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, bag, err := CheckFile(path, Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.UnknownFunction {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnknownFunction diagnostic, got %v", bag.Items())
	}
}

func TestCheckFileMissingFileReturnsError(t *testing.T) {
	_, _, _, err := CheckFile(filepath.Join(t.TempDir(), "missing.prm"), Options{MaxDiagnostics: 100})
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestCheckDirChecksEveryFileIndependently(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.prm", "fn ok() -> Unit {}")
	writeFile(t, dir, "bad.prm", "fn m() -> Int {\n\treturn ghost();\n}\n")

	_, results, err := CheckDir(context.Background(), dir, Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !HasErrors(results) {
		t.Fatalf("expected at least one file with errors")
	}
	for _, r := range results {
		if filepath.Base(r.Path) == "ok.prm" && r.Bag.HasErrors() {
			t.Fatalf("ok.prm should have no errors, got %v", r.Bag.Items())
		}
	}
}

func TestCheckDirEmptyDirectory(t *testing.T) {
	_, results, err := CheckDir(context.Background(), t.TempDir(), Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCheckIsDeterministicAcrossRuns(t *testing.T) {
	src := "class P {\n\tvar x: Int;\n}\nfn main() {\n\tvar p = P(1);\n\tgive p;\n\tp.x\n}\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("det.prm", []byte(src))

	mod1, bag1 := CheckBytes(fs, id, Options{MaxDiagnostics: 100})
	mod2, bag2 := CheckBytes(fs, id, Options{MaxDiagnostics: 100})

	if bag1.Len() != bag2.Len() {
		t.Fatalf("diagnostic counts differ across runs: %d vs %d", bag1.Len(), bag2.Len())
	}
	for i, d := range bag1.Items() {
		if !reflect.DeepEqual(*d, *bag2.Items()[i]) {
			t.Fatalf("diagnostic %d differs across runs: %+v vs %+v", i, *d, *bag2.Items()[i])
		}
	}
	if len(mod1.Functions) != len(mod2.Functions) {
		t.Fatalf("function counts differ across runs")
	}
	for i := range mod1.Functions {
		if !reflect.DeepEqual(mod1.Functions[i].Exprs, mod2.Functions[i].Exprs) {
			t.Fatalf("checked IR for function %d differs across runs", i)
		}
	}
}
