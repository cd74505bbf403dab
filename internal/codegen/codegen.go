// Package codegen is the stub collaborator at the back of the pipeline:
// something downstream of a checked module that would emit a backend
// representation. permcheck's job ends at diagnostics, so this package
// carries only the interface shape and a no-op implementation sufficient
// to let the CLI wire a Generator without committing to one.
package codegen

import (
	"io"

	"permcheck/internal/symir"
)

// Generator turns a checked module into some backend representation,
// written to w. A real backend (LLVM IR, bytecode, ...) is out of scope
// here; permcheck only needs the seam to exist so the checker pipeline and
// a future backend stay decoupled.
type Generator interface {
	Generate(mod *symir.Module, w io.Writer) error
}

// Noop is the Generator the CLI wires by default: it writes nothing and
// never fails, since permcheck's job ends at diagnostics, not codegen.
type Noop struct{}

func (Noop) Generate(*symir.Module, io.Writer) error { return nil }
