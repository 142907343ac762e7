package diagfmt

import (
	"encoding/json"
	"io"

	"tomlfmt/internal/syntax"
)

// FormatTree writes the indented syntax tree listing.
func FormatTree(w io.Writer, root *syntax.Element) error {
	if root == nil {
		return nil
	}
	return syntax.Dump(w, root)
}

// NodeJSON is one element of the JSON tree dump. Tokens carry Text,
// nodes carry Children.
type NodeJSON struct {
	Kind     string     `json:"kind"`
	Start    uint32     `json:"start"`
	End      uint32     `json:"end"`
	Text     *string    `json:"text,omitempty"`
	Children []NodeJSON `json:"children,omitempty"`
}

// BuildTree converts el into its JSON form.
func BuildTree(el *syntax.Element) NodeJSON {
	n := NodeJSON{Kind: el.Kind().String(), Start: el.Offset(), End: el.End()}
	if el.IsToken() {
		text := el.Text()
		n.Text = &text
		return n
	}
	for _, c := range el.ChildrenWithTokens() {
		n.Children = append(n.Children, BuildTree(c))
	}
	return n
}

// FormatTreeJSON writes the tree as indented JSON.
func FormatTreeJSON(w io.Writer, root *syntax.Element) error {
	if root == nil {
		return nil
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTree(root))
}
