package main

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"permcheck/internal/codegen"
	"permcheck/internal/driver"
	"permcheck/internal/project"
	"permcheck/internal/store"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file.prm]",
	Short: "Check a source file and report diagnostics",
	Long: `Check a single source file: parse, symbolize, and run the full
type-and-permission checker over every function. With no argument the
root file named by the nearest permcheck.toml is compiled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("emit", "", "write the generated module to this path")
	compileCmd.Flags().String("cache", "", "cross-run cache file; skips re-checking unchanged files whose last check was clean")
}

func runCompile(cmd *cobra.Command, args []string) error {
	out, err := resolveOutput(cmd)
	if err != nil {
		return err
	}
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}

	path, manifestMax, err := resolveCompileTarget(args)
	if err != nil {
		return err
	}
	if manifestMax > 0 && !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		maxDiag = manifestMax
	}

	cachePath, err := cmd.Flags().GetString("cache")
	if err != nil {
		return fmt.Errorf("failed to read cache flag: %w", err)
	}
	var snap store.Snapshot
	var cacheKey string
	var cacheSum []byte
	if cachePath != "" {
		snap, _, err = store.LoadSnapshot(cachePath)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(abs) // #nosec G304 -- path comes from the CLI argument or manifest
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		sum := sha256.Sum256(content)
		cacheKey, cacheSum = abs, sum[:]
		if snap.IsClean(cacheKey, cacheSum) {
			if !out.quiet {
				fmt.Fprintf(os.Stdout, "%s unchanged since last clean check\n", path)
			}
			printSummary(os.Stdout, out, 1, 0, 0)
			return nil
		}
	}

	fs, mod, bag, err := driver.CheckFile(path, driver.Options{
		MaxDiagnostics: maxDiag,
		Tracer:         activeTracer,
	})
	if err != nil {
		return err
	}

	printDiagnostics(os.Stderr, bag, fs, out)
	errs, warns := countBag(bag)
	printSummary(os.Stdout, out, 1, errs, warns)

	if bag.HasErrors() {
		return errDiagnostics
	}

	if cachePath != "" && bag.Len() == 0 {
		snap.SetClean(cacheKey, cacheSum)
		if err := store.SaveSnapshot(cachePath, snap); err != nil {
			return fmt.Errorf("save cache %s: %w", cachePath, err)
		}
	}

	emitPath, err := cmd.Flags().GetString("emit")
	if err != nil {
		return fmt.Errorf("failed to read emit flag: %w", err)
	}
	if emitPath != "" {
		f, err := os.Create(emitPath) // #nosec G304 -- path comes from user-provided CLI flag
		if err != nil {
			return fmt.Errorf("create %s: %w", emitPath, err)
		}
		defer f.Close()
		var gen codegen.Generator = codegen.Noop{}
		if err := gen.Generate(mod, f); err != nil {
			return fmt.Errorf("generate %s: %w", emitPath, err)
		}
	}
	return nil
}

// resolveCompileTarget maps the optional positional argument onto a file
// path, falling back to the manifest's [check].root. The manifest's
// max_diagnostics (0 if absent) is returned so the flag default can
// defer to it.
func resolveCompileTarget(args []string) (string, int, error) {
	if len(args) == 1 {
		return args[0], 0, nil
	}
	manifest, found, err := project.Load(".")
	if err != nil {
		return "", 0, err
	}
	if !found {
		return "", 0, errors.New("no input file and no permcheck.toml found; pass a file or run inside a project")
	}
	return manifest.RootPath(), manifest.Config.Check.MaxDiagnostics, nil
}
