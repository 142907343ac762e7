package cargo

import (
	"slices"

	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

// item is an entry with the trivia between it and the previous entry.
type item struct {
	leading []syntax.Green
	entry   *syntax.GreenNode
	key     string
}

// sortSection reorders the entries in elems (the siblings after a header up
// to the next header). Trivia after the last entry stays where it is.
func sortSection(elems []syntax.Green, order func(a, b string) int) ([]syntax.Green, bool) {
	var items []*item
	var pending []syntax.Green
	for _, g := range elems {
		entry, ok := g.(*syntax.GreenNode)
		if !ok || entry.Kind() != token.Entry {
			pending = append(pending, g)
			continue
		}
		items = append(items, &item{leading: pending, entry: entry, key: entryKeyText(entry)})
		pending = nil
	}
	tail := pending

	moved := false
	for _, group := range groups(items) {
		if sortGroup(group, order) {
			moved = true
		}
	}
	if !moved {
		return elems, false
	}

	out := make([]syntax.Green, 0, len(elems))
	for _, it := range items {
		out = append(out, it.leading...)
		out = append(out, it.entry)
	}
	return append(out, tail...), true
}

// groups splits items at every entry whose leading trivia holds a blank line.
// The returned slices share items' backing array, so sorting a group
// reorders items in place.
func groups(items []*item) [][]*item {
	var out [][]*item
	start := 0
	for i := 1; i < len(items); i++ {
		if hasBlankLine(items[i].leading) {
			out = append(out, items[start:i])
			start = i
		}
	}
	if len(items) > 0 {
		out = append(out, items[start:])
	}
	return out
}

// hasBlankLine: a newline token spanning two or more line breaks, or two
// newline tokens with only whitespace between them.
func hasBlankLine(trivia []syntax.Green) bool {
	prevNewline := false
	for _, g := range trivia {
		switch g.Kind() {
		case token.Whitespace:
			continue
		case token.Newline:
			if prevNewline || newlineCount(g) > 1 {
				return true
			}
			prevNewline = true
		default:
			prevNewline = false
		}
	}
	return false
}

func newlineCount(g syntax.Green) int {
	if tok, ok := g.(*syntax.GreenToken); ok {
		return token.CountNewlines(tok.Text())
	}
	return 0
}

// sortGroup sorts one group in place and relocates trivia: the group's
// opening run (blank line and anything above the first comment) stays at
// the top of the group, comments stay with their entry, and the original
// first entry takes the line break the new first entry had.
func sortGroup(group []*item, order func(a, b string) int) bool {
	if len(group) < 2 {
		return false
	}
	before := slices.Clone(group)
	first := group[0]

	groupTrivia, rest := splitAtComment(first.leading)
	first.leading = rest

	slices.SortStableFunc(group, func(a, b *item) int { return order(a.key, b.key) })

	if slices.Equal(before, group) {
		first.leading = append(groupTrivia, rest...)
		return false
	}

	newFirst := group[0]
	run, own := splitAtComment(newFirst.leading)
	newFirst.leading = append(slices.Clone(groupTrivia), own...)
	if newFirst != first {
		first.leading = append(slices.Clone(run), first.leading...)
	}
	return true
}

// splitAtComment splits trivia before its first comment.
func splitAtComment(trivia []syntax.Green) (head, rest []syntax.Green) {
	for i, g := range trivia {
		if g.Kind() == token.Comment {
			return slices.Clone(trivia[:i]), slices.Clone(trivia[i:])
		}
	}
	return slices.Clone(trivia), nil
}
