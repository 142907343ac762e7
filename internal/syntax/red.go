package syntax

import (
	"tomlfmt/internal/token"
)

// Element is a positioned view of a green element ("red" node or token).
// Elements are created lazily while navigating and cached by their parent,
// so every walk over one tree yields the same pointers.
type Element struct {
	green    Green
	parent   *Element
	index    int
	offset   uint32
	children []*Element
}

// NewRoot creates the red root for a green tree.
func NewRoot(g *GreenNode) *Element {
	return &Element{green: g}
}

func (e *Element) Kind() token.Kind { return e.green.Kind() }
func (e *Element) Green() Green      { return e.green }
func (e *Element) Parent() *Element  { return e.parent }

// Index returns the position of e among its parent's children.
func (e *Element) Index() int { return e.index }

// Offset returns the byte offset of e inside the tree text.
func (e *Element) Offset() uint32 { return e.offset }

// End returns the exclusive end offset of e.
func (e *Element) End() uint32 { return e.offset + e.green.TextLen() }

func (e *Element) IsNode() bool {
	_, ok := e.green.(*GreenNode)
	return ok
}

func (e *Element) IsToken() bool { return !e.IsNode() }

// Text returns the source text covered by e.
func (e *Element) Text() string {
	switch g := e.green.(type) {
	case *GreenToken:
		return g.text
	case *GreenNode:
		return g.Text()
	}
	return ""
}

// ChildrenWithTokens returns every child, nodes and tokens, in source order.
// Tokens have no children.
func (e *Element) ChildrenWithTokens() []*Element {
	gn, ok := e.green.(*GreenNode)
	if !ok {
		return nil
	}
	if e.children == nil && len(gn.children) > 0 {
		e.children = make([]*Element, len(gn.children))
		off := e.offset
		for i, g := range gn.children {
			e.children[i] = &Element{green: g, parent: e, index: i, offset: off}
			off += g.TextLen()
		}
	}
	return e.children
}

// Children returns the child nodes, skipping tokens.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, c := range e.ChildrenWithTokens() {
		if c.IsNode() {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfKind returns the first direct child of kind k, or nil.
func (e *Element) ChildOfKind(k token.Kind) *Element {
	for _, c := range e.ChildrenWithTokens() {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// NextSibling returns the following sibling (node or token), or nil.
func (e *Element) NextSibling() *Element {
	if e.parent == nil {
		return nil
	}
	sibs := e.parent.ChildrenWithTokens()
	if e.index+1 < len(sibs) {
		return sibs[e.index+1]
	}
	return nil
}

// PrevSibling returns the preceding sibling (node or token), or nil.
func (e *Element) PrevSibling() *Element {
	if e.parent == nil || e.index == 0 {
		return nil
	}
	return e.parent.ChildrenWithTokens()[e.index-1]
}

// HasAncestor reports whether any proper ancestor of e has kind k.
func (e *Element) HasAncestor(k token.Kind) bool {
	for p := e.parent; p != nil; p = p.parent {
		if p.Kind() == k {
			return true
		}
	}
	return false
}

// Tokens returns every token below e in source order; a token returns itself.
func (e *Element) Tokens() []*Element {
	if e.IsToken() {
		return []*Element{e}
	}
	var out []*Element
	var walk func(*Element)
	walk = func(el *Element) {
		for _, c := range el.ChildrenWithTokens() {
			if c.IsToken() {
				out = append(out, c)
			} else {
				walk(c)
			}
		}
	}
	walk(e)
	return out
}

// Same reports whether a and b denote the same element: the same green
// element at the same position.
func Same(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.green == b.green && a.offset == b.offset
}
