package format

import (
	"sort"
	"strings"

	"tomlfmt/internal/config"
	"tomlfmt/internal/layout"
	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

// generator walks the tree once and emits layout items. A comment is emitted
// at most once; handled is keyed by its offset in the tree text.
type generator struct {
	cfg     config.Configuration
	ids     layout.IDs
	handled map[uint32]bool
	lines   []uint32 // начала строк в тексте дерева
}

func newGenerator(root *syntax.Element, cfg config.Configuration) *generator {
	return &generator{
		cfg:     cfg,
		handled: make(map[uint32]bool),
		lines:   lineStarts(root.Text()),
	}
}

// generate returns the layout items for a whole document.
func generate(root *syntax.Element, cfg config.Configuration) []layout.Item {
	g := newGenerator(root, cfg)
	start := g.ids.Marker()
	items := []layout.Item{layout.Marker{ID: start}}
	items = append(items, g.node(root)...)
	// пустой документ остаётся пустым
	return append(items, layout.Condition{
		Name:    "endOfFileNewLine",
		Resolve: layout.WrittenSince(start),
		True:    []layout.Item{layout.NewLine},
	})
}

func (g *generator) node(el *syntax.Element) []layout.Item {
	return g.nodeWith(el, nil)
}

// nodeWith emits el with the comments attached to it: unhandled comments on
// the lines above, comments stored inside values and headers, then the
// trailing comment. inner may extend the generated body before the trailing
// comment (array values append their comma there).
func (g *generator) nodeWith(el *syntax.Element, inner func([]layout.Item) []layout.Item) []layout.Item {
	var items []layout.Item
	if el.Kind() != token.Comment {
		for _, c := range syntax.CommentsOnPreviousLines(el) {
			if g.handled[c.Offset()] {
				continue
			}
			items = append(items, g.comment(c)...)
			items = append(items, layout.NewLine)
			if syntax.HasTrailingBlankLine(c) {
				items = append(items, layout.NewLine)
			}
		}
	}

	body, ok := g.dispatch(el)
	if !ok {
		body = rawFallback(el.Text())
	}
	if inner != nil {
		body = inner(body)
	}
	items = append(items, body...)

	switch el.Kind() {
	case token.Value, token.TableHeader, token.TableArrayHeader:
		for _, c := range syntax.ChildComments(el) {
			items = append(items, g.comment(c)...)
		}
	}
	// комментарий внутри Value уже выведен через ChildComments
	if p := el.Parent(); p == nil || p.Kind() != token.Value || !syntax.IsLastNonTriviaSibling(el) {
		if c := syntax.TrailingComment(el); c != nil {
			items = append(items, g.comment(c)...)
		}
	}
	return items
}

// dispatch returns false when el does not have the expected shape; the
// caller then falls back to its source text.
func (g *generator) dispatch(el *syntax.Element) ([]layout.Item, bool) {
	switch el.Kind() {
	case token.Root:
		return g.root(el), true
	case token.Array:
		return g.array(el)
	case token.InlineTable:
		return g.inlineTable(el)
	case token.Entry:
		return g.entry(el)
	case token.Key, token.Value:
		return g.inline(el), true
	case token.TableHeader:
		return g.header(el, "[", "]")
	case token.TableArrayHeader:
		return g.header(el, "[[", "]]")
	case token.Comment:
		return g.comment(el), true
	case token.MultiLineBasicString, token.MultiLineLiteralString:
		return []layout.Item{layout.Raw(strings.TrimSpace(el.Text()))}, true
	}
	if el.IsNode() {
		return nil, false
	}
	return []layout.Item{layout.Text(strings.TrimSpace(el.Text()))}, true
}

// root separates top-level elements with one line break, keeping a single
// blank line where the source had one, except right after a header.
func (g *generator) root(el *syntax.Element) []layout.Item {
	var items []layout.Item
	newlines := 0
	first := true
	var last token.Kind
	emit := func(child *syntax.Element) {
		if !first {
			items = append(items, layout.NewLine)
			if newlines > 1 && allowBlankLine(last, child.Kind()) {
				items = append(items, layout.NewLine)
			}
		}
		last = child.Kind()
		items = append(items, g.node(child)...)
		first = false
		newlines = 0
	}
	for _, child := range el.ChildrenWithTokens() {
		switch {
		case child.Kind() == token.Comment && g.handled[child.Offset()]:
			// уже выведен как комментарий в конце строки
		case child.IsNode(), child.Kind() == token.Comment:
			emit(child)
		case child.Kind() == token.Newline:
			newlines += token.CountNewlines(child.Text())
		}
	}
	return items
}

func allowBlankLine(prev, cur token.Kind) bool {
	if cur.IsHeader() {
		return true
	}
	return !prev.IsHeader()
}

// array lays values out on one line when they fit, otherwise one per line
// with a trailing comma. A line break right after `[` in the source keeps
// the array broken.
func (g *generator) array(el *syntax.Element) ([]layout.Item, bool) {
	open := tokenOfKind(el, token.LBracket)
	closing := tokenOfKind(el, token.RBracket)
	if open == nil || closing == nil {
		return nil, false
	}
	values := el.Children()
	for _, v := range values {
		if v.Kind() != token.Value {
			return nil, false
		}
	}
	closeComments := syntax.CommentsOnPreviousLines(closing)

	items := g.node(open)
	if len(values) > 0 {
		id := g.ids.Group()
		force := !el.HasAncestor(token.InlineTable) && syntax.HasFollowingNewline(open)
		// комментарий перед `]` можно вывести только в разложенном массиве
		force = force || len(closeComments) > 0

		body := []layout.Item{layout.PossibleNewLine}
		for i, v := range values {
			if i > 0 {
				body = append(body, layout.SpaceOrNewLine)
				if g.blankLineBetween(values[i-1], v) {
					body = append(body, layout.Condition{
						Name:    "blankLineIfBroken",
						Resolve: layout.IsBroken(id),
						True:    []layout.Item{layout.NewLine},
					})
				}
			}
			body = append(body, layout.Group{
				ID:    g.ids.Group(),
				Items: g.arrayValue(v, i == len(values)-1, id),
			})
		}
		items = append(items, layout.Group{
			ID:    id,
			Break: force,
			Items: []layout.Item{layout.Indent{Items: body}, layout.PossibleNewLine},
		})
	}

	for i, c := range closeComments {
		if i == 0 && len(values) == 0 {
			items = append(items, layout.NewLine)
		} else if syntax.HasLeadingBlankLine(c) {
			items = append(items, layout.NewLine)
		}
		items = append(items, layout.Indent{Items: g.comment(c)})
		items = append(items, layout.NewLine)
	}
	return append(items, g.node(closing)...), true
}

func (g *generator) arrayValue(v *syntax.Element, last bool, group layout.GroupID) []layout.Item {
	comma := []layout.Item{layout.Text(",")}
	if last {
		comma = []layout.Item{layout.Condition{
			Name:    "commaIfBroken",
			Resolve: layout.IsBroken(group),
			True:    comma,
		}}
	}
	items := g.nodeWith(v, func(body []layout.Item) []layout.Item {
		return append(body, comma...)
	})
	if c := syntax.NextComma(v); c != nil {
		if tc := syntax.TrailingComment(c); tc != nil {
			items = append(items, g.comment(tc)...)
		}
	}
	return items
}

// blankLineBetween reports whether the source had an empty line between the
// end of prev and the first comment above cur (or cur itself).
func (g *generator) blankLineBetween(prev, cur *syntax.Element) bool {
	return g.lineAt(syntax.StartIncludingLeadingComments(cur)) > g.lineAt(prev.End())+1
}

// inlineTable never breaks: `{ a = 1, b = 2 }` or `{}`.
func (g *generator) inlineTable(el *syntax.Element) ([]layout.Item, bool) {
	entries := el.Children()
	for _, e := range entries {
		if e.Kind() != token.Entry {
			return nil, false
		}
	}
	items := []layout.Item{layout.Text("{")}
	for i, e := range entries {
		if i > 0 {
			items = append(items, layout.Text(", "))
		} else {
			items = append(items, layout.Text(" "))
		}
		items = append(items, g.node(e)...)
	}
	if len(entries) > 0 {
		items = append(items, layout.Text(" }"))
	} else {
		items = append(items, layout.Text("}"))
	}
	if kids := el.ChildrenWithTokens(); len(kids) > 0 && kids[len(kids)-1].Kind() == token.Comment {
		items = append(items, g.comment(kids[len(kids)-1])...)
	}
	return []layout.Item{layout.NoNewLines{Items: items}}, true
}

func (g *generator) entry(el *syntax.Element) ([]layout.Item, bool) {
	key := el.ChildOfKind(token.Key)
	value := el.ChildOfKind(token.Value)
	if key == nil || value == nil {
		return nil, false
	}
	items := g.node(key)
	items = append(items, layout.Text(" = "))
	return append(items, g.node(value)...), true
}

// inline emits every child except whitespace and comments, with nothing in
// between: dotted keys lose the spaces around their dots.
func (g *generator) inline(el *syntax.Element) []layout.Item {
	var items []layout.Item
	for _, child := range el.ChildrenWithTokens() {
		if k := child.Kind(); k == token.Whitespace || k == token.Comment {
			continue
		}
		items = append(items, g.node(child)...)
	}
	return items
}

func (g *generator) header(el *syntax.Element, open, closing string) ([]layout.Item, bool) {
	key := el.ChildOfKind(token.Key)
	if key == nil {
		return nil, false
	}
	items := []layout.Item{layout.Text(open)}
	items = append(items, g.node(key)...)
	return append(items, layout.Text(closing)), true
}

func tokenOfKind(el *syntax.Element, k token.Kind) *syntax.Element {
	for _, child := range el.ChildrenWithTokens() {
		if child.IsToken() && child.Kind() == k {
			return child
		}
	}
	return nil
}

// rawFallback keeps the source text of a subtree the generator does not
// understand, minus trailing whitespace on each line.
func rawFallback(text string) []layout.Item {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return []layout.Item{layout.Raw(strings.Join(lines, "\n"))}
}

func lineStarts(text string) []uint32 {
	starts := []uint32{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, uint32(i+1)) //nolint:gosec // длина текста уже проверена при построении дерева
		}
	}
	return starts
}

// lineAt returns the zero-based line containing off.
func (g *generator) lineAt(off uint32) int {
	return sort.Search(len(g.lines), func(i int) bool { return g.lines[i] > off }) - 1
}
