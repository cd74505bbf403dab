// Package diag implements the checker's diagnostic model: a tuple of
// (primary span, severity, message, ordered secondary labels). It is the
// user-visible error channel; it never panics and never aborts checking —
// internal invariant violations are a separate channel (see internal/store's
// use of panic for unreachable conditions).
package diag

import "permcheck/internal/source"

// Label attaches a secondary span and message to a Diagnostic, e.g. pointing
// at the `give` site that invalidated a permission being read later.
type Label struct {
	Span source.Span
	Msg  string
}

// Code classifies a diagnostic for tooling (stable across message wording
// changes); see codes.go for the registry.
type Code uint16

// Diagnostic is one reported issue.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Labels   []Label
}

// New builds a Diagnostic with no labels.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// NewError is a shortcut for New(SevError, ...).
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithLabel returns d with an additional secondary label appended.
func (d Diagnostic) WithLabel(sp source.Span, msg string) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: sp, Msg: msg})
	return d
}
