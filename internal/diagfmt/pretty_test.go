package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"permcheck/internal/diag"
	"permcheck/internal/source"
)

func TestPrettyRendersHeaderAndUnderline(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.prm", []byte("fn m() -> Int {\n\treturn ghost();\n}\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.UnknownFunction, source.Span{File: id, Start: 24, End: 29}, "unknown function `ghost`"))
	bag.Sort()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: false, Context: 1, PathMode: PathModeBasename})

	out := buf.String()
	if !strings.Contains(out, "demo.prm:2:") {
		t.Fatalf("expected header with path:line, got:\n%s", out)
	}
	if !strings.Contains(out, "CHK4005") {
		t.Fatalf("expected diagnostic code in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected a caret underline, got:\n%s", out)
	}
}

func TestPrettySeparatesMultipleDiagnosticsWithBlankLine(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.prm", []byte("fn m() -> Unit {}\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.ParseSyntaxError, source.Span{File: id, Start: 0, End: 1}, "first"))
	bag.Add(diag.NewError(diag.ParseSyntaxError, source.Span{File: id, Start: 2, End: 3}, "second"))
	bag.Sort()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: false, Context: 1})

	if strings.Count(buf.String(), "\n\n") == 0 {
		t.Fatalf("expected a blank line between diagnostics, got:\n%s", buf.String())
	}
}
