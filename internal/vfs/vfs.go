// Package vfs is the I/O boundary between the checker core and the disk:
// it discovers and loads the files of a flat module tree into an
// internal/source.FileSet, the only thing the core reads. Loading
// source text is I/O external to the single-threaded checker contract,
// so this package is free to load a directory's files in parallel: walk
// the directory for source files, sort for a deterministic load order,
// then fan the actual reads out across a bounded worker pool.
package vfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"permcheck/internal/source"
)

// Ext is the source file extension this checker recognizes.
const Ext = ".prm"

// ListFiles returns every Ext-suffixed file under dir, sorted for a
// deterministic load (and therefore check) order.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LoadError pairs a path with the error that occurred loading it.
type LoadError struct {
	Path string
	Err  error
}

func (e LoadError) Error() string { return e.Path + ": " + e.Err.Error() }

// LoadResult is one file's outcome from LoadDir/LoadFiles: exactly one of
// FileID (on success) or Err (on failure) is meaningful.
type LoadResult struct {
	Path   string
	FileID source.FileID
	Err    error
}

// LoadDir discovers and concurrently loads every source file under dir into
// a fresh FileSet, using up to jobs worker goroutines (jobs<=0 defaults to
// GOMAXPROCS). Results are returned in the same sorted order ListFiles
// produces, regardless of which goroutine finished first — index i of the
// returned slice always corresponds to file i in that order, so there is no
// shared mutable state between goroutines beyond the pre-sized slice.
func LoadDir(ctx context.Context, dir string, jobs int) (*source.FileSet, []LoadResult, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fset := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fset, nil, nil
	}
	return loadInto(ctx, fset, files, jobs)
}

// LoadFiles concurrently loads an explicit, caller-ordered list of paths
// (e.g. from a project manifest) into a fresh FileSet.
func LoadFiles(ctx context.Context, baseDir string, paths []string, jobs int) (*source.FileSet, []LoadResult, error) {
	fset := source.NewFileSetWithBase(baseDir)
	if len(paths) == 0 {
		return fset, nil, nil
	}
	return loadInto(ctx, fset, paths, jobs)
}

func loadInto(ctx context.Context, fset *source.FileSet, files []string, jobs int) (*source.FileSet, []LoadResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Reading file bytes is safe to parallelize; registering them into the
	// shared FileSet is not (Add mutates an internal slice and map), so
	// every worker only reads, and the single calling goroutine does every
	// Add afterward in the deterministic file order.
	type read struct {
		content []byte
		err     error
	}
	reads := make([]read, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			b, err := os.ReadFile(path) // #nosec G304 -- path comes from ListFiles/a project manifest, both caller-controlled
			reads[i] = read{content: b, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, nil, err
	}

	results := make([]LoadResult, len(files))
	for i, r := range reads {
		if r.err != nil {
			results[i] = LoadResult{Path: files[i], Err: r.err}
			continue
		}
		id := fset.Add(files[i], r.content, 0)
		results[i] = LoadResult{Path: files[i], FileID: id}
	}
	return fset, results, nil
}
