package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgCyan),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		bold:   mk(color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   3 | name = "x
//	     |        ^~~
//
// затем Notes в том же формате. Порядок — как в bag (ожидается bag.Sort()).
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.bold.Sprintf("%s:%d:%d", displayPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.severity(d.Severity).Sprint(d.Code.ID()),
			d.Message,
		)
		excerpt(w, fs, d.Primary, opts.Context, p)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				displayPath(nf.Path, opts.PathMode, opts.BaseDir), ns.Line, ns.Col, n.Msg)
		}
	}
}

// excerpt prints the primary line with context and a caret run under the span.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, context int, p palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if context < 0 {
		context = 0
	}
	first := uint32(1)
	if start.Line > uint32(context) { //nolint:gosec // context неотрицателен
		first = start.Line - uint32(context) //nolint:gosec
	}
	last := start.Line + uint32(context) //nolint:gosec
	numWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := strings.TrimRight(f.GetLine(ln), "\r")
		if ln != start.Line && text == "" && ln > start.Line {
			break
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", numWidth, ln), text)
		if ln != start.Line {
			continue
		}
		prefix := prefixBytes(text, start.Col)
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			spanned := prefixBytes(text, end.Col)
			if len(spanned) > len(prefix) {
				width = max(runewidth.StringWidth(spanned[len(prefix):]), 1)
			}
		} else if end.Line > start.Line {
			width = max(runewidth.StringWidth(text[len(prefix):]), 1)
		}
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", numWidth, ""), padFor(prefix),
			p.caret.Sprint("^"+strings.Repeat("~", width-1)))
	}
}

// prefixBytes returns the part of line before the 1-based byte column.
func prefixBytes(line string, col uint32) string {
	n := int(col) - 1
	if n <= 0 {
		return ""
	}
	if n > len(line) {
		return line
	}
	return line[:n]
}

// padFor returns blanks occupying the same columns as s; tabs are kept so
// the caret lines up with the terminal's tab stops.
func padFor(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
