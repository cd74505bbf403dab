package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"permcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "permcheck",
	Short: "Permission-checking compiler front end",
	Long:  `permcheck type-checks programs whose values carry first-class permissions (owned, shared, leased) and reports any violation of the permission rules as a diagnostic.`,
}

// errDiagnostics marks a command that completed but found user errors:
// exit code 1, distinct from an internal failure's exit code 2.
var errDiagnostics = errors.New("diagnostics reported")

var (
	timeoutCancel context.CancelFunc
	traceCleanup  func()
)

func main() {
	rootCmd.Version = version.VersionString()
	rootCmd.PersistentPreRunE = setupRun
	rootCmd.PersistentPostRun = cleanupRun
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(runCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, empty to disable)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|phase|detail|debug)")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errDiagnostics) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "permcheck: %v\n", err)
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func setupRun(cmd *cobra.Command, _ []string) error {
	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(secs)*time.Second)
	timeoutCancel = cancel
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	traceCleanup = cleanup
	return nil
}

func cleanupRun(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}
