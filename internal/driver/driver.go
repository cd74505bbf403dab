// Package driver wires the checker pipeline end to end: load source text
// (internal/vfs), parse it (internal/parsefront), lower it to SymIR
// (internal/symbolize), and check it (internal/exprcheck), collecting the
// result into a diag.Bag per file. There is no module graph or
// cross-file dependency resolution: every file is its own flat module
// tree, checked by an independent pipeline, optionally in parallel when
// a whole directory is checked.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"permcheck/internal/diag"
	"permcheck/internal/source"
	"permcheck/internal/symir"
	"permcheck/internal/trace"
	"permcheck/internal/vfs"
)

// Options configures one pipeline run.
type Options struct {
	// MaxDiagnostics bounds each file's diag.Bag.
	MaxDiagnostics int
	// Jobs caps CheckDir's per-file concurrency; <=0 means GOMAXPROCS.
	Jobs int
	// Tracer receives store/infer events; nil means trace.Nop.
	Tracer trace.Tracer
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}

// Result is one file's outcome from running the full pipeline.
type Result struct {
	Path   string
	FileID source.FileID
	Module *symir.Module
	Bag    *diag.Bag
}

// HasErrors reports whether any file's bag holds an error-severity diagnostic.
func HasErrors(results []Result) bool {
	for _, r := range results {
		if r.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// CheckBytes runs the full pipeline over an already-loaded file: parse,
// lower, check. It is the one-shot form of Session.Check — each call
// gets a fresh cache; callers that re-check edited files should hold a
// Session instead so unchanged queries are reused.
func CheckBytes(fs *source.FileSet, file source.FileID, opts Options) (*symir.Module, *diag.Bag) {
	return NewSession(opts).Check(fs, file)
}

// CheckFile loads path into a fresh FileSet and runs the full pipeline
// over it.
func CheckFile(path string, opts Options) (*source.FileSet, *symir.Module, *diag.Bag, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("driver: load %s: %w", path, err)
	}
	mod, bag := CheckBytes(fs, id, opts)
	return fs, mod, bag, nil
}

// CheckDir discovers every source file under dir and checks each
// independently, running up to jobs pipelines concurrently (jobs<=0
// defaults to GOMAXPROCS). Each file gets its own store.Store: the
// checker's incremental memoization (component A) is scoped to one file's
// checking run, matching the flat-module-tree assumption — there is
// no shared cross-file query cache to invalidate.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []Result, error) {
	fs, loaded, err := vfs.LoadDir(ctx, dir, opts.Jobs)
	if err != nil {
		return nil, nil, err
	}
	if len(loaded) == 0 {
		return fs, nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(loaded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(loaded)))

	for i, lr := range loaded {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if lr.Err != nil {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.ParseIOError, source.Span{}, fmt.Sprintf("failed to load %s: %v", lr.Path, lr.Err)))
				results[i] = Result{Path: lr.Path, Bag: bag}
				return nil
			}
			mod, bag := CheckBytes(fs, lr.FileID, opts)
			results[i] = Result{Path: lr.Path, FileID: lr.FileID, Module: mod, Bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return fs, results, nil
}
