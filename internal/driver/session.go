package driver

import (
	"reflect"

	"permcheck/internal/diag"
	"permcheck/internal/exprcheck"
	"permcheck/internal/parsefront"
	"permcheck/internal/source"
	"permcheck/internal/store"
	"permcheck/internal/symbolize"
	"permcheck/internal/symir"
)

// Session is the incremental form of the pipeline: one store and one
// string interner persist across Check calls, and every stage — parse,
// per-class and per-function lowering, per-function checking — runs as a
// memoized store query. Re-checking a file after an edit recomputes only
// the queries whose inputs actually changed: an edit inside one function
// body re-parses the file and re-lowers its items, but early cutoff on
// the unchanged items' values means only the edited function's check
// runs again.
type Session struct {
	opts     Options
	store    *store.Store
	interner *source.Interner

	inputs map[source.FileID]*store.Input[string]
	parseQ *store.Query[source.FileID, parseValue]
	shapeQ *store.Query[source.FileID, shapeValue]
	classQ *store.Query[itemKey, classValue]
	fnQ    *store.Query[itemKey, fnValue]
	sigQ   *store.Query[itemKey, sigValue]
	checkQ *store.Query[itemKey, checkValue]
}

// itemKey identifies one top-level declaration: the i-th class or
// function of a file.
type itemKey struct {
	File  source.FileID
	Index int
}

type parseValue struct {
	File  *parsefront.File
	Diags []diag.Diagnostic
}

// shapeValue is the coarse outline of a module — how many classes and
// functions it declares. Check queries depend on it instead of on the
// parse tree directly, so an edit that leaves the outline intact does
// not by itself invalidate every function's check.
type shapeValue struct {
	Classes   int
	Functions int
}

type classValue struct {
	Class *symir.Class
	Diags []diag.Diagnostic
}

type fnValue struct {
	Fn    *symir.Function
	Diags []diag.Diagnostic
}

// sigValue is a function's externally visible surface: what a call site
// or await in another function can observe. Body, expression pool, and
// body-dependent spans are deliberately absent, so an edit inside one
// function's body leaves every other function's signature dependency
// unchanged.
type sigValue struct {
	Sig *symir.Function
}

type checkValue struct {
	Fn    *symir.Function
	Diags []diag.Diagnostic
}

// NewSession returns a Session whose cache starts empty.
func NewSession(opts Options) *Session {
	st := store.NewStore()
	st.SetTracer(opts.tracer())
	deep := func(a, b any) bool { return reflect.DeepEqual(a, b) }
	return &Session{
		opts:     opts,
		store:    st,
		interner: source.NewInterner(),
		inputs:   make(map[source.FileID]*store.Input[string]),
		parseQ:   store.NewQuery[source.FileID, parseValue]("parse", func(a, b parseValue) bool { return deep(a, b) }),
		shapeQ:   store.NewQuery[source.FileID, shapeValue]("shape", func(a, b shapeValue) bool { return a == b }),
		classQ:   store.NewQuery[itemKey, classValue]("lower-class", func(a, b classValue) bool { return deep(a, b) }),
		fnQ:      store.NewQuery[itemKey, fnValue]("lower-fn", func(a, b fnValue) bool { return deep(a, b) }),
		sigQ:     store.NewQuery[itemKey, sigValue]("signature", func(a, b sigValue) bool { return deep(a, b) }),
		checkQ:   store.NewQuery[itemKey, checkValue]("check", func(a, b checkValue) bool { return deep(a, b) }),
	}
}

// Stats exposes the store's recompute counters, so callers (and the
// incremental tests) can observe which queries actually re-ran.
func (se *Session) Stats() *store.Stats { return se.store.Stats }

func (se *Session) input(file source.FileID) *store.Input[string] {
	in, ok := se.inputs[file]
	if !ok {
		in = store.NewInput[string]()
		se.inputs[file] = in
	}
	return in
}

// collectReporter accumulates diagnostics into a slice so a query can
// carry them as part of its memoized value and Check can replay them
// into the run's bag even on a cache hit.
type collectReporter struct{ out *[]diag.Diagnostic }

func (r collectReporter) Report(d diag.Diagnostic) { *r.out = append(*r.out, d) }

func (se *Session) parseFile(file source.FileID) parseValue {
	return se.parseQ.Get(se.store, file, func(s *store.Store, f source.FileID) parseValue {
		text := store.GetInput(s, se.input(f))
		var diags []diag.Diagnostic
		ast := parsefront.ParseFile([]byte(text), f, collectReporter{&diags})
		return parseValue{File: ast, Diags: diags}
	})
}

func (se *Session) shape(file source.FileID) shapeValue {
	return se.shapeQ.Get(se.store, file, func(*store.Store, source.FileID) shapeValue {
		p := se.parseFile(file)
		return shapeValue{Classes: len(p.File.Classes), Functions: len(p.File.Functions)}
	})
}

func (se *Session) lowerClass(k itemKey) classValue {
	return se.classQ.Get(se.store, k, func(*store.Store, itemKey) classValue {
		p := se.parseFile(k.File)
		var diags []diag.Diagnostic
		lw := symbolize.NewLowerer(se.interner, k.File, collectReporter{&diags})
		lw.Register(p.File)
		return classValue{Class: lw.LowerClassAt(p.File, k.Index), Diags: diags}
	})
}

func (se *Session) lowerFn(k itemKey) fnValue {
	return se.fnQ.Get(se.store, k, func(*store.Store, itemKey) fnValue {
		p := se.parseFile(k.File)
		var diags []diag.Diagnostic
		lw := symbolize.NewLowerer(se.interner, k.File, collectReporter{&diags})
		lw.Register(p.File)
		return fnValue{Fn: lw.LowerFnAt(p.File, k.Index), Diags: diags}
	})
}

// signature projects a lowered function down to its callable surface.
// The span kept is the declaration head only (a zero-width position at
// the `fn` keyword), which body edits cannot move, so diagnostics in
// other functions can still label the declaration without inheriting a
// dependency on its body.
func (se *Session) signature(k itemKey) sigValue {
	return se.sigQ.Get(se.store, k, func(*store.Store, itemKey) sigValue {
		fn := se.lowerFn(k).Fn
		sig := &symir.Function{
			ID:       fn.ID,
			Name:     fn.Name,
			Generics: fn.Generics,
			Where:    fn.Where,
			Return:   fn.Return,
			Effect:   fn.Effect,
			Span:     source.Span{File: fn.Span.File, Start: fn.Span.Start, End: fn.Span.Start},
		}
		for _, p := range fn.Params {
			sig.Params = append(sig.Params, symir.Param{Name: p.Name, Ty: p.Ty})
		}
		return sigValue{Sig: sig}
	})
}

// checkFn checks the k.Index-th function of its file against a module
// scope assembled from every class and every other function's signature.
// The function itself is depended on in full (its own body is what is
// being checked) and cloned first, so the cached lowered value never
// carries checker-written types and permissions.
func (se *Session) checkFn(k itemKey) checkValue {
	return se.checkQ.Get(se.store, k, func(s *store.Store, _ itemKey) checkValue {
		sh := se.shape(k.File)
		mod := symir.NewModule(k.File)
		for i := 0; i < sh.Classes; i++ {
			mod.AddClass(se.lowerClass(itemKey{File: k.File, Index: i}).Class)
		}
		var target *symir.Function
		for i := 0; i < sh.Functions; i++ {
			if i == k.Index {
				full := se.lowerFn(k).Fn
				target = cloneForCheck(full)
				mod.AddFunction(full)
				continue
			}
			mod.AddFunction(se.signature(itemKey{File: k.File, Index: i}).Sig)
		}
		if target == nil {
			return checkValue{}
		}

		var diags []diag.Diagnostic
		ck := exprcheck.NewChecker(mod, s, se.interner, collectReporter{&diags})
		ck.Tracer = se.opts.tracer()
		ck.CheckFunction(target)
		return checkValue{Fn: target, Diags: diags}
	})
}

// cloneForCheck copies fn deeply enough that the checker's write-backs
// (per-expression types and permissions) land in the copy, leaving the
// memoized lowered function pristine for equality comparison.
func cloneForCheck(fn *symir.Function) *symir.Function {
	c := *fn
	c.Exprs = append([]symir.Expr(nil), fn.Exprs...)
	return &c
}

// Check runs the full pipeline over file's current content in fs,
// reusing every memoized stage whose inputs are unchanged. The returned
// module holds the checked functions; the bag holds this run's complete
// diagnostic list (cached stages replay theirs).
func (se *Session) Check(fs *source.FileSet, file source.FileID) (*symir.Module, *diag.Bag) {
	bag := diag.NewBag(se.opts.MaxDiagnostics)
	store.SetInput(se.store, se.input(file), string(fs.Get(file).Content),
		func(a, b string) bool { return a == b })

	p := se.parseFile(file)
	replay(bag, p.Diags)

	mod := symir.NewModule(file)
	for i := range p.File.Classes {
		cv := se.lowerClass(itemKey{File: file, Index: i})
		replay(bag, cv.Diags)
		if !mod.AddClass(cv.Class) {
			bag.Add(diag.NewError(diag.SymDuplicateItem, cv.Class.Span,
				"duplicate class `"+p.File.Classes[i].Name+"`"))
		}
	}

	uw := symbolize.NewLowerer(se.interner, file, diag.BagReporter{Bag: bag})
	for _, u := range p.File.Uses {
		mod.Uses = append(mod.Uses, uw.LowerUse(u))
	}

	for i := range p.File.Functions {
		fv := se.lowerFn(itemKey{File: file, Index: i})
		replay(bag, fv.Diags)
		chv := se.checkFn(itemKey{File: file, Index: i})
		replay(bag, chv.Diags)
		if !mod.AddFunction(chv.Fn) {
			bag.Add(diag.NewError(diag.SymDuplicateItem, chv.Fn.Span,
				"duplicate function `"+p.File.Functions[i].Name+"`"))
		}
	}

	bag.Sort()
	return mod, bag
}

func replay(bag *diag.Bag, ds []diag.Diagnostic) {
	for _, d := range ds {
		bag.Add(d)
	}
}
