// Package cargo applies Cargo.toml ordering conventions to a parsed document.
package cargo

import (
	"strings"

	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

// IsCargoTomlFile reports whether the last path segment is exactly
// Cargo.toml. Cargo itself only accepts that spelling.
func IsCargoTomlFile(path string) bool {
	// оба разделителя: путь может прийти из LSP-клиента на Windows
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return path == "Cargo.toml"
}

// ApplyConventions sorts the entries of [package], [dependencies] and
// [dev-dependencies]. Entries separated by a blank line form groups that are
// sorted independently; comments above an entry move with it. The input tree
// is not modified; when nothing moves, root itself is returned.
func ApplyConventions(root *syntax.Element) *syntax.Element {
	green, ok := root.Green().(*syntax.GreenNode)
	if !ok || root.Kind() != token.Root {
		return root
	}
	changed := false
	kids := green.Children()
	for i := 0; i < len(kids); i++ {
		order := orderFor(kids[i])
		if order == nil {
			continue
		}
		end := i + 1
		for end < len(kids) && (kids[end].Kind() == token.Entry || kids[end].Kind().IsTrivia()) {
			end++
		}
		if sorted, moved := sortSection(kids[i+1:end], order); moved {
			green = green.Splice(i+1, end, sorted)
			kids = green.Children()
			changed = true
		}
		i = end - 1
	}
	if !changed {
		return root
	}
	return syntax.NewRoot(green)
}

// orderFor returns the comparator for a section header, or nil when the
// header is not one the conventions cover.
func orderFor(g syntax.Green) func(a, b string) int {
	if g.Kind() != token.TableHeader {
		return nil
	}
	n, ok := g.(*syntax.GreenNode)
	if !ok {
		return nil
	}
	switch headerText(n.Text()) {
	case "[package]":
		return packageOrder
	case "[dependencies]", "[dev-dependencies]":
		return strings.Compare
	}
	return nil
}

// headerText cuts a header node's text after the first `]`, dropping the
// trailing comment stored in the node.
func headerText(text string) string {
	if i := strings.IndexByte(text, ']'); i >= 0 {
		return text[:i+1]
	}
	return text
}

// packageOrder puts name first, version second and description last; other
// keys compare lexically. It is not transitive (a key after "description"
// lexically never moves in front of it), so results depend on the stable
// insertion order of the sort.
func packageOrder(a, b string) int {
	switch {
	case a == "name":
		return -1
	case a == "version" && b == "name":
		return 1
	case a == "version":
		return -1
	case a == "description":
		return 1
	case b == "name", b == "version":
		return 1
	}
	return strings.Compare(a, b)
}

// entryKeyText returns the first segment of an entry's key without quotes.
func entryKeyText(entry *syntax.GreenNode) string {
	for _, child := range entry.Children() {
		if child.Kind() != token.Key {
			continue
		}
		key, ok := child.(*syntax.GreenNode)
		if !ok {
			return ""
		}
		for _, part := range key.Children() {
			tok, ok := part.(*syntax.GreenToken)
			if !ok {
				continue
			}
			switch tok.Kind() {
			case token.Ident:
				return tok.Text()
			case token.BasicString, token.LiteralString:
				return unquote(tok.Text())
			}
		}
	}
	return ""
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
