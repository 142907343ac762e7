package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Writer accumulates rendered output and tracks the cursor position.
// Indentation is written lazily, right before the first text of a line.
type Writer struct {
	opt         Options
	buf         strings.Builder
	line        int
	column      int
	atLineStart bool
	written     int // счётчик записанных байт без учёта отступов
}

func newWriter(opt Options) *Writer {
	return &Writer{opt: opt, atLineStart: true}
}

// String returns the accumulated output.
func (w *Writer) String() string { return w.buf.String() }

func (w *Writer) writeIndent(level int) {
	if !w.atLineStart {
		return
	}
	if level > 0 {
		if w.opt.UseTabs {
			w.buf.WriteString(strings.Repeat("\t", level))
		} else {
			w.buf.WriteString(strings.Repeat(" ", level*w.opt.IndentWidth))
		}
		w.column += level * w.opt.IndentWidth
	}
	w.atLineStart = false
}

// Text writes s at the given indentation level.
func (w *Writer) Text(s string, level int) {
	if s == "" {
		return
	}
	w.writeIndent(level)
	w.buf.WriteString(s)
	w.column += textWidth(s, w.opt.IndentWidth)
	w.written += len(s)
}

// Raw writes s; lines after the first are not indented and use the
// configured newline text. A trailing '\r' on each line is dropped.
func (w *Writer) Raw(s string, level int) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			w.newline()
			w.atLineStart = false // следующие строки пишутся без отступа
		}
		line = strings.TrimSuffix(line, "\r")
		if i == 0 {
			w.Text(line, level)
			continue
		}
		w.buf.WriteString(line)
		w.column += textWidth(line, w.opt.IndentWidth)
		w.written += len(line)
	}
}

// Space writes a single space.
func (w *Writer) Space(level int) { w.Text(" ", level) }

// NewLine ends the current line.
func (w *Writer) NewLine() {
	w.newline()
}

func (w *Writer) newline() {
	w.buf.WriteString(w.opt.NewLine)
	w.line++
	w.column = 0
	w.atLineStart = true
	w.written++
}

// textWidth measures display columns; a tab counts as one indent unit.
func textWidth(s string, tabWidth int) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += tabWidth
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	return n
}
