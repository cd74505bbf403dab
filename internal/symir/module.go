package symir

import "permcheck/internal/source"

// Use is a `use path` item. Symbolize leaves every use unresolved
// (Resolved false, Target NoStringID), since a flat single-file module
// tree has nothing for it to name; an unresolved use produces an error symbol at
// reference sites but does not itself abort symbolizing.
type Use struct {
	Path     []source.StringID
	Resolved bool
	Target   source.StringID
	Span     Span
}

// Module is the ordered set of top-level items in one source file: the
// checker assumes a flat module tree rooted at a single file, so Module
// never nests other modules.
type Module struct {
	File      source.FileID
	Classes   []*Class
	Functions []*Function
	Uses      []Use

	classByName map[source.StringID]*Class
	funcByName  map[source.StringID]*Function
}

// NewModule returns an empty module rooted at file.
func NewModule(file source.FileID) *Module {
	return &Module{
		File:        file,
		classByName: make(map[source.StringID]*Class),
		funcByName:  make(map[source.StringID]*Function),
	}
}

// AddClass registers c under its name. It reports false (and does not
// register c) if a class with that name already exists — symbolize
// turns that into a "duplicate item" diagnostic.
func (m *Module) AddClass(c *Class) bool {
	if _, exists := m.classByName[c.Name]; exists {
		return false
	}
	m.Classes = append(m.Classes, c)
	m.classByName[c.Name] = c
	return true
}

// AddFunction registers f under its name, with the same duplicate-rejection
// behavior as AddClass.
func (m *Module) AddFunction(f *Function) bool {
	if _, exists := m.funcByName[f.Name]; exists {
		return false
	}
	m.Functions = append(m.Functions, f)
	m.funcByName[f.Name] = f
	return true
}

// ClassByName looks up a class registered under name.
func (m *Module) ClassByName(name source.StringID) (*Class, bool) {
	c, ok := m.classByName[name]
	return c, ok
}

// FunctionByName looks up a function registered under name.
func (m *Module) FunctionByName(name source.StringID) (*Function, bool) {
	f, ok := m.funcByName[name]
	return f, ok
}
