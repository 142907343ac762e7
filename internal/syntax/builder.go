package syntax

import (
	"tomlfmt/internal/token"
)

// Builder assembles a green tree bottom-up while the parser walks the input.
type Builder struct {
	parents  []frame
	children []Green
}

type frame struct {
	kind  token.Kind
	first int // индекс первого ребёнка в children
}

// Checkpoint remembers a position so a node can later be opened around
// already-emitted children.
type Checkpoint int

// StartNode opens a node of the given kind.
func (b *Builder) StartNode(kind token.Kind) {
	b.parents = append(b.parents, frame{kind: kind, first: len(b.children)})
}

// Checkpoint returns the current child position.
func (b *Builder) Checkpoint() Checkpoint { return Checkpoint(len(b.children)) }

// StartNodeAt opens a node that adopts every child emitted since cp.
func (b *Builder) StartNodeAt(cp Checkpoint, kind token.Kind) {
	if int(cp) > len(b.children) {
		panic("syntax: checkpoint past the end of the child list")
	}
	if n := len(b.parents); n > 0 && b.parents[n-1].first > int(cp) {
		panic("syntax: checkpoint precedes the innermost open node")
	}
	b.parents = append(b.parents, frame{kind: kind, first: int(cp)})
}

// Token appends a token to the innermost open node.
func (b *Builder) Token(kind token.Kind, text string) {
	b.children = append(b.children, NewToken(kind, text))
}

// FinishNode closes the innermost open node.
func (b *Builder) FinishNode() {
	n := len(b.parents)
	if n == 0 {
		panic("syntax: FinishNode without StartNode")
	}
	f := b.parents[n-1]
	b.parents = b.parents[:n-1]
	kids := make([]Green, len(b.children)-f.first)
	copy(kids, b.children[f.first:])
	b.children = b.children[:f.first]
	b.children = append(b.children, NewNode(f.kind, kids))
}

// Depth returns the number of open nodes.
func (b *Builder) Depth() int { return len(b.parents) }

// Finish returns the single remaining root node.
func (b *Builder) Finish() *GreenNode {
	if len(b.parents) != 0 || len(b.children) != 1 {
		panic("syntax: unbalanced builder")
	}
	root, ok := b.children[0].(*GreenNode)
	if !ok {
		panic("syntax: builder root is a token")
	}
	b.children = nil
	return root
}
