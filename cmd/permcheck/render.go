package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"permcheck/internal/diag"
	"permcheck/internal/diagfmt"
	"permcheck/internal/driver"
	"permcheck/internal/source"
)

// outputConfig is the rendering state every command resolves once from
// the persistent flags.
type outputConfig struct {
	color bool
	quiet bool
}

func resolveOutput(cmd *cobra.Command) (outputConfig, error) {
	flags := cmd.Root().PersistentFlags()
	colorMode, err := flags.GetString("color")
	if err != nil {
		return outputConfig{}, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return outputConfig{}, err
	}

	var color bool
	switch colorMode {
	case "on":
		color = true
	case "off":
		color = false
	case "auto":
		color = isTerminal(os.Stderr)
	default:
		return outputConfig{}, fmt.Errorf("invalid --color value %q (want auto|on|off)", colorMode)
	}
	return outputConfig{color: color, quiet: quiet}, nil
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, out outputConfig) {
	if bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:    out.color,
		Context:  1,
		PathMode: diagfmt.PathModeAuto,
	})
}

// countBag tallies one bag's errors and warnings.
func countBag(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

// countBySeverity tallies errors and warnings across a set of results.
func countBySeverity(results []driver.Result) (errs, warns int) {
	for _, r := range results {
		e, w := countBag(r.Bag)
		errs += e
		warns += w
	}
	return errs, warns
}

// printSummary renders the closing status box for a compile/test run.
func printSummary(w io.Writer, out outputConfig, files, errs, warns int) {
	if out.quiet {
		return
	}

	var (
		okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
		failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
		warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		boxStyle  = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
	)
	if !out.color {
		okStyle = lipgloss.NewStyle()
		failStyle = okStyle
		warnStyle = okStyle
		boxStyle = lipgloss.NewStyle().Padding(0, 1)
	}

	status := okStyle.Render("ok")
	if errs > 0 {
		status = failStyle.Render(fmt.Sprintf("%d error(s)", errs))
	}
	line := fmt.Sprintf("%d file(s) checked: %s", files, status)
	if warns > 0 {
		line += warnStyle.Render(fmt.Sprintf(", %d warning(s)", warns))
	}
	fmt.Fprintln(w, boxStyle.Render(line))
}
