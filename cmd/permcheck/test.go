package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"permcheck/internal/driver"
	"permcheck/internal/vfs"
)

var testCmd = &cobra.Command{
	Use:   "test <dir>",
	Short: "Check every source file under a directory",
	Long: `Check every .prm file under the given directory, each as its own
flat module tree, and report a per-file pass/fail line followed by every
diagnostic. Files are checked independently and may be checked in
parallel; output order is always the sorted file order.`,
	Args: cobra.ExactArgs(1),
	RunE: runTest,
}

func init() {
	testCmd.Flags().Int("jobs", 0, "number of files to check in parallel (0 = number of CPUs)")
}

func runTest(cmd *cobra.Command, args []string) error {
	out, err := resolveOutput(cmd)
	if err != nil {
		return err
	}
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to read jobs flag: %w", err)
	}

	fs, results, err := driver.CheckDir(cmd.Context(), args[0], driver.Options{
		MaxDiagnostics: maxDiag,
		Jobs:           jobs,
		Tracer:         activeTracer,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		if !out.quiet {
			fmt.Fprintf(os.Stdout, "no %s files under %s\n", vfs.Ext, args[0])
		}
		return nil
	}

	for _, r := range results {
		if !out.quiet {
			status := "ok"
			if r.Bag.HasErrors() {
				status = "FAIL"
			}
			fmt.Fprintf(os.Stdout, "%-4s %s\n", status, r.Path)
		}
	}
	for _, r := range results {
		if r.Bag.Len() == 0 {
			continue
		}
		if r.Module == nil {
			// The file never loaded; its bag has no span to render a
			// snippet from.
			for _, d := range r.Bag.Items() {
				fmt.Fprintf(os.Stderr, "%s: %s %s: %s\n", r.Path, d.Severity, d.Code.ID(), d.Message)
			}
			continue
		}
		printDiagnostics(os.Stderr, r.Bag, fs, out)
	}

	errs, warns := countBySeverity(results)
	printSummary(os.Stdout, out, len(results), errs, warns)
	if driver.HasErrors(results) {
		return errDiagnostics
	}
	return nil
}
