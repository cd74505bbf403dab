// Package diagfmt renders a diag.Bag to a terminal: a one-line header per
// diagnostic, a snippet of source context with a caret underline under the
// primary span, and secondary labels. Uses
// github.com/fatih/color for severity coloring,
// github.com/mattn/go-runewidth for column-accurate underlines, and
// golang.org/x/text/unicode/norm to NFC-normalize message and label text
// before it is printed.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"permcheck/internal/diag"
	"permcheck/internal/source"
)

const tabWidth = 8

// visualWidthUpTo returns the on-screen column width of s up to (but not
// including) the 1-based byte column byteCol, expanding tabs and counting
// wide runes as 2 columns.
func visualWidthUpTo(s string, byteCol uint32, tab int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos, visualPos := 0, 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tab) / tab * tab
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// Pretty writes bag's diagnostics to w in human-readable form. Callers
// should call bag.Sort() first so diagnostics come out in primary-span
// order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	codeColor := color.New(color.FgMagenta)
	lineNumColor := color.New(color.FgBlue)
	underlineColor := color.New(color.FgRed, color.Bold)

	prevNoColor := color.NoColor
	defer func() { color.NoColor = prevNoColor }()
	color.NoColor = !opts.Color

	ctx := int(opts.Context)
	if ctx <= 0 {
		ctx = 1
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}

		start, end := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		path := formatPath(f, fs, opts.PathMode)

		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(d.Severity.String())
		case diag.SevWarning:
			sevColored = warningColor.Sprint(d.Severity.String())
		default:
			sevColored = infoColor.Sprint(d.Severity.String())
		}

		msg := norm.NFC.String(d.Message)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(path), start.Line, start.Col, sevColored, codeColor.Sprint(d.Code.ID()), msg)

		printSnippet(w, f, start, end, ctx, lineNumColor, underlineColor)

		for _, lb := range d.Labels {
			lf := fs.Get(lb.Span.File)
			lstart, _ := fs.Resolve(lb.Span)
			lpath := formatPath(lf, fs, opts.PathMode)
			fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n",
				infoColor.Sprint("note"), pathColor.Sprint(lpath), lstart.Line, lstart.Col, norm.NFC.String(lb.Msg))
		}
	}
}

func printSnippet(w io.Writer, f *source.File, start, end source.LineCol, ctx int, lineNumColor, underlineColor *color.Color) {
	totalLines := uint32(len(f.LineIdx)) + 1
	if len(f.LineIdx) == 0 && len(f.Content) > 0 {
		totalLines = 1
	}

	startLine := start.Line
	if startLine > uint32(ctx) {
		startLine -= uint32(ctx)
	} else {
		startLine = 1
	}
	endLine := min(start.Line+uint32(ctx), totalLines)

	if startLine > 1 {
		fmt.Fprintln(w, "...")
	}

	width := len(fmt.Sprintf("%d", endLine))
	if width < 3 {
		width = 3
	}

	for ln := startLine; ln <= endLine; ln++ {
		text := f.GetLine(ln)
		gutter := fmt.Sprintf("%*d | ", width, ln)
		fmt.Fprint(w, lineNumColor.Sprint(gutter[:width]), gutter[width:], text, "\n")

		if ln != start.Line {
			continue
		}
		underlineEnd := end.Col
		if end.Line > start.Line {
			underlineEnd = uint32(len(text)) + 1
		}
		visStart := visualWidthUpTo(text, start.Col, tabWidth)
		visEnd := visualWidthUpTo(text, underlineEnd, tabWidth)

		var u strings.Builder
		u.WriteString(strings.Repeat(" ", width+3+visStart))
		span := visEnd - visStart
		if span <= 0 {
			u.WriteByte('^')
		} else {
			u.WriteString(strings.Repeat("~", span-1))
			u.WriteByte('^')
		}
		fmt.Fprintln(w, underlineColor.Sprint(u.String()))
	}

	if endLine < totalLines {
		fmt.Fprintln(w, "...")
	}
}
