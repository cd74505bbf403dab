// Package symbolize lowers internal/parsefront's surface AST into
// internal/symir: it builds the module's class/function scope
// (rejecting duplicate names), resolves `use` paths, lowers class and
// function signatures with their generics and where-clauses in scope,
// and lowers function bodies into SymIR expressions. Every Expr's Ty and
// Perm start zero-valued here; inference variables are scoped to one
// checking task (internal/infer) and so are allocated by the checker
// (internal/exprcheck), never by symbolize — a `var` with no declared
// type is lowered with HasDeclared=false, and the checker gives the
// binding its initializer's type and permission; no inference variable
// is allocated for it.
package symbolize

import (
	"permcheck/internal/diag"
	"permcheck/internal/parsefront"
	"permcheck/internal/source"
	"permcheck/internal/symir"
)

var primNames = map[string]symir.PrimKind{
	"Unit":  symir.PrimUnit,
	"Never": symir.PrimNever,
	"Bool":  symir.PrimBool,
	"Int":   symir.PrimInt,
	"Int8":  symir.PrimInt8,
	"Int16": symir.PrimInt16,
	"Int32": symir.PrimInt32,
	"Int64": symir.PrimInt64,
}

var predNames = map[string]symir.Predicate{
	"Copy":   symir.PredCopy,
	"Move":   symir.PredMove,
	"Owned":  symir.PredOwned,
	"Lent":   symir.PredLent,
	"Unique": symir.PredUnique,
	"Shared": symir.PredShared,
}

// Lowerer carries the per-file state a lowering pass needs: the string
// interner (shared across the whole project, per internal/source), the
// file being lowered, and a diagnostic sink.
type Lowerer struct {
	Interner *source.Interner
	File     source.FileID
	Reporter diag.Reporter

	classIDs map[string]symir.ClassID
}

// NewLowerer returns a Lowerer for one file's worth of parsed source.
func NewLowerer(interner *source.Interner, file source.FileID, rep diag.Reporter) *Lowerer {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Lowerer{Interner: interner, File: file, Reporter: rep, classIDs: make(map[string]symir.ClassID)}
}

func (l *Lowerer) span(start, end uint32) symir.Span {
	return symir.Span{File: l.File, Start: start, End: end}
}

// Register records every class declaration's identity before any
// lowering happens, so forward references (field types, `extends`,
// generic bounds) and self-referential classes resolve regardless of
// declaration order. Identity is positional — declaration i is
// ClassID(i+1) — so re-registering an unchanged file yields the same
// handles; a duplicate name keeps its first declaration's id in the
// name index.
func (l *Lowerer) Register(f *parsefront.File) {
	for i, cd := range f.Classes {
		if _, exists := l.classIDs[cd.Name]; !exists {
			l.classIDs[cd.Name] = symir.ClassID(i + 1)
		}
	}
}

// LowerClassAt lowers class declaration i of f. Register must have run
// first so cross-class references resolve.
func (l *Lowerer) LowerClassAt(f *parsefront.File, i int) *symir.Class {
	return l.lowerClass(f.Classes[i], symir.ClassID(i+1))
}

// LowerFnAt lowers function declaration i of f. Like classes, function
// identity is positional (FunctionID(i+1)).
func (l *Lowerer) LowerFnAt(f *parsefront.File, i int) *symir.Function {
	return l.lowerFn(f.Functions[i], symir.FunctionID(i+1))
}

// Lower builds a symir.Module from f. It never aborts on a single bad
// declaration: symbolize reports a diagnostic and substitutes an error
// placeholder so that the rest of the module can still be checked.
func (l *Lowerer) Lower(f *parsefront.File) *symir.Module {
	mod := symir.NewModule(l.File)
	l.Register(f)

	for i, cd := range f.Classes {
		c := l.LowerClassAt(f, i)
		if !mod.AddClass(c) {
			l.Reporter.Report(diag.NewError(diag.SymDuplicateItem, c.Span,
				"duplicate class `"+cd.Name+"`"))
		}
	}

	for i, fd := range f.Functions {
		fn := l.LowerFnAt(f, i)
		if !mod.AddFunction(fn) {
			l.Reporter.Report(diag.NewError(diag.SymDuplicateItem, fn.Span,
				"duplicate function `"+fd.Name+"`"))
		}
	}

	for _, ud := range f.Uses {
		mod.Uses = append(mod.Uses, l.LowerUse(ud))
	}

	return mod
}

// LowerUse leaves every use unresolved: a flat single-file module
// tree has no other module a `use` could legally name, so resolution
// always fails and is reported as such. An unresolved use produces an
// error symbol at reference sites but does not itself abort
// symbolizing.
func (l *Lowerer) LowerUse(u *parsefront.UseDecl) symir.Use {
	path := make([]source.StringID, len(u.Path))
	for i, seg := range u.Path {
		path[i] = l.Interner.Intern(seg)
	}
	sp := l.span(u.Start, u.End)
	l.Reporter.Report(diag.New(diag.SevWarning, diag.SymUnresolvedUse, sp,
		"use path cannot be resolved outside its own module"))
	return symir.Use{Path: path, Resolved: false, Span: sp}
}

func (l *Lowerer) lowerGenerics(gs []parsefront.GenericParam) ([]symir.GenericDecl, map[string]symir.GenericRef) {
	decls := make([]symir.GenericDecl, len(gs))
	index := make(map[string]symir.GenericRef, len(gs))
	for i, g := range gs {
		kind := symir.GenericType
		if g.IsPerm {
			kind = symir.GenericPerm
		}
		decls[i] = symir.GenericDecl{Kind: kind, Name: l.Interner.Intern(g.Name)}
		index[g.Name] = symir.GenericRef(i)
	}
	return decls, index
}

// applyWhere folds each `subject is Predicate` clause into the bound of
// the generic parameter it names, and returns the WhereClause list for
// the declaration itself.
func (l *Lowerer) applyWhere(items []parsefront.WhereItem, decls []symir.GenericDecl, index map[string]symir.GenericRef) []symir.WhereClause {
	var out []symir.WhereClause
	for _, w := range items {
		pred, ok := predNames[w.Predicate]
		if !ok {
			l.Reporter.Report(diag.NewError(diag.PredFailed, l.span(w.Start, w.End), "unknown predicate `"+w.Predicate+"`"))
			continue
		}
		ref, ok := index[w.Subject]
		var subject symir.SymTy
		if ok {
			decls[ref].Bound = append(decls[ref].Bound, pred)
			subject = symir.ParamTy(ref)
		} else if cid, ok := l.classIDs[w.Subject]; ok {
			subject = symir.Named(cid)
		} else {
			subject = symir.ErrorTy
		}
		out = append(out, symir.WhereClause{Subject: subject, Predicate: pred, Span: l.span(w.Start, w.End)})
	}
	return out
}

func (l *Lowerer) lowerType(t *parsefront.TypeExpr, index map[string]symir.GenericRef) symir.SymTy {
	if t == nil {
		return symir.Prim(symir.PrimUnit)
	}
	if prim, ok := primNames[t.Base]; ok {
		return symir.Prim(prim)
	}
	if ref, ok := index[t.Base]; ok {
		return symir.ParamTy(ref)
	}
	if cid, ok := l.classIDs[t.Base]; ok {
		args := make([]symir.SymTy, len(t.Args))
		for i, a := range t.Args {
			args[i] = l.lowerType(a, index)
		}
		return symir.Named(cid, args...)
	}
	l.Reporter.Report(diag.NewError(diag.SymUnknownClass, l.span(t.Start, t.End), "unknown type `"+t.Base+"`"))
	return symir.ErrorTy
}

func (l *Lowerer) lowerClass(cd *parsefront.ClassDecl, id symir.ClassID) *symir.Class {
	decls, index := l.lowerGenerics(cd.Generics)
	c := &symir.Class{
		ID:       id,
		Name:     l.Interner.Intern(cd.Name),
		Generics: decls,
		Span:     l.span(cd.Start, cd.End),
	}
	if cd.Super != "" {
		if sid, ok := l.classIDs[cd.Super]; ok {
			c.Super = sid
		} else {
			l.Reporter.Report(diag.NewError(diag.SymUnknownClass, c.Span, "unknown superclass `"+cd.Super+"`"))
		}
	}
	c.Where = l.applyWhere(cd.Where, decls, index)
	c.Generics = decls
	for _, fd := range cd.Fields {
		storage := symir.StorageVar
		switch fd.Storage {
		case "shared":
			storage = symir.StorageShared
		case "atomic":
			storage = symir.StorageAtomic
		}
		c.Fields = append(c.Fields, symir.Field{
			Name:    l.Interner.Intern(fd.Name),
			Ty:      l.lowerType(fd.Ty, index),
			Storage: storage,
			Span:    l.span(fd.Start, fd.End),
		})
	}
	return c
}

func (l *Lowerer) lowerFn(fd *parsefront.FnDecl, id symir.FunctionID) *symir.Function {
	decls, index := l.lowerGenerics(fd.Generics)
	fn := &symir.Function{
		ID:       id,
		Name:     l.Interner.Intern(fd.Name),
		Generics: decls,
		Span:     l.span(fd.Start, fd.End),
	}
	switch fd.Effect {
	case "async":
		fn.Effect = symir.EffectAsync
	case "atomic":
		fn.Effect = symir.EffectAtomic
	default:
		fn.Effect = symir.EffectDefault
	}
	fn.Where = l.applyWhere(fd.Where, decls, index)
	fn.Generics = decls

	if fd.Return != nil {
		fn.Return = l.lowerType(fd.Return, index)
	} else {
		fn.Return = symir.Prim(symir.PrimUnit)
	}

	fb := &fnLower{l: l, generics: index, locals: make(map[string]symir.LocalID)}
	for _, p := range fd.Params {
		fb.nextLocal++
		fb.locals[p.Name] = fb.nextLocal
		fn.Params = append(fn.Params, symir.Param{
			Name: l.Interner.Intern(p.Name),
			Ty:   l.lowerType(p.Ty, index),
			Span: l.span(p.Start, p.End),
		})
	}
	if fd.Body != nil {
		fn.Body = fb.lowerBlock(fd.Body)
	}
	fn.Exprs = fb.pool.Exprs()
	return fn
}
