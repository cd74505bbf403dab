package codegen

import (
	"bytes"
	"testing"

	"permcheck/internal/source"
	"permcheck/internal/symir"
)

func TestNoopGeneratorWritesNothing(t *testing.T) {
	mod := symir.NewModule(source.FileID(0))
	var buf bytes.Buffer
	if err := (Noop{}).Generate(mod, &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
