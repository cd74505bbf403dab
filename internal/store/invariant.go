package store

import "fmt"

// Invariant panics with a "compiler bug" message. Internal invariant
// violations are unreachable conditions — a chain
// failing to reduce, a tracked item missing its key — that abort checking
// rather than being reported as a diagnostic; the host presents the panic
// recovery as a compiler bug, never as user-facing output.
func Invariant(format string, args ...any) {
	panic(fmt.Sprintf("permcheck: internal invariant violated: "+format, args...))
}
