package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"permcheck/internal/codegen"
	"permcheck/internal/driver"
)

var runCmd = &cobra.Command{
	Use:   "run <file.prm>",
	Short: "Check a program and hand it to the execution backend",
	Long: `Check a source file and, when it is free of errors, pass the checked
module through the code generator seam. This build carries no execution
backend, so run stops after generation; the command exists so a backend
can slot in without changing the front end.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	out, err := resolveOutput(cmd)
	if err != nil {
		return err
	}
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}

	fs, mod, bag, err := driver.CheckFile(args[0], driver.Options{
		MaxDiagnostics: maxDiag,
		Tracer:         activeTracer,
	})
	if err != nil {
		return err
	}

	printDiagnostics(os.Stderr, bag, fs, out)
	if bag.HasErrors() {
		return errDiagnostics
	}

	var gen codegen.Generator = codegen.Noop{}
	if err := gen.Generate(mod, io.Discard); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if !out.quiet {
		fmt.Fprintln(os.Stdout, "checked; no execution backend is configured in this build")
	}
	return nil
}
