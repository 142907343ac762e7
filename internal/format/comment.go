package format

import (
	"strings"
	"unicode"

	"tomlfmt/internal/layout"
	"tomlfmt/internal/syntax"
)

// comment emits c once: a space when something precedes it on the line, the
// text as a line suffix, then a line break before anything that follows.
func (g *generator) comment(c *syntax.Element) []layout.Item {
	off := c.Offset()
	if g.handled[off] {
		return nil
	}
	g.handled[off] = true

	text := c.Text()
	if g.cfg.CommentForceLeadingSpace {
		text = commentText(text)
	}
	return []layout.Item{
		layout.Condition{
			Name:    "spaceIfNotStartOfLine",
			Resolve: layout.Not(layout.IsStartOfLine),
			True:    []layout.Item{layout.Text(" ")},
		},
		layout.Suffix(text),
		layout.ExpectNewLine,
	}
}

// commentText keeps the run of leading '#', trims the end and puts one space
// before the body unless it already starts with a space or tab.
// "#x" -> "# x", "##x" -> "## x", "#" -> "#", "#\tx" -> "#\tx".
func commentText(text string) string {
	n := 0
	for n < len(text) && text[n] == '#' {
		n++
	}
	body := strings.TrimRightFunc(text[n:], unicode.IsSpace)
	if body == "" {
		return text[:n]
	}
	if body[0] == ' ' || body[0] == '\t' {
		return text[:n] + body
	}
	return text[:n] + " " + body
}
