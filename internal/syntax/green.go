package syntax

import (
	"fmt"
	"strings"

	"tomlfmt/internal/token"

	"fortio.org/safecast"
)

// Green is an immutable, position-independent tree element.
// Green elements are shared freely between trees.
type Green interface {
	Kind() token.Kind
	TextLen() uint32
	writeText(sb *strings.Builder)
}

// GreenToken is a leaf carrying source text.
type GreenToken struct {
	kind token.Kind
	text string
}

// NewToken creates a green token.
func NewToken(kind token.Kind, text string) *GreenToken {
	return &GreenToken{kind: kind, text: text}
}

func (t *GreenToken) Kind() token.Kind { return t.kind }
func (t *GreenToken) Text() string     { return t.text }

func (t *GreenToken) TextLen() uint32 {
	n, err := safecast.Conv[uint32](len(t.text))
	if err != nil {
		panic(fmt.Errorf("token text overflow: %w", err))
	}
	return n
}

func (t *GreenToken) writeText(sb *strings.Builder) { sb.WriteString(t.text) }

// GreenNode is an interior element. Its width is the sum of its children.
type GreenNode struct {
	kind     token.Kind
	children []Green
	width    uint32
}

// NewNode creates a green node that takes ownership of children.
func NewNode(kind token.Kind, children []Green) *GreenNode {
	var width uint32
	for _, c := range children {
		width += c.TextLen()
	}
	return &GreenNode{kind: kind, children: children, width: width}
}

func (n *GreenNode) Kind() token.Kind { return n.kind }
func (n *GreenNode) TextLen() uint32  { return n.width }

// Children returns the child list; callers must not modify it.
func (n *GreenNode) Children() []Green { return n.children }

// Text concatenates the text of every token below n.
func (n *GreenNode) Text() string {
	var sb strings.Builder
	sb.Grow(int(n.width))
	n.writeText(&sb)
	return sb.String()
}

func (n *GreenNode) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		c.writeText(sb)
	}
}

// Splice returns a copy of n whose children [start, end) are replaced by repl.
// Children outside the range are shared with n.
func (n *GreenNode) Splice(start, end int, repl []Green) *GreenNode {
	if start < 0 || end > len(n.children) || start > end {
		panic(fmt.Sprintf("syntax: splice [%d:%d) out of range for %d children", start, end, len(n.children)))
	}
	children := make([]Green, 0, len(n.children)-(end-start)+len(repl))
	children = append(children, n.children[:start]...)
	children = append(children, repl...)
	children = append(children, n.children[end:]...)
	return NewNode(n.kind, children)
}
