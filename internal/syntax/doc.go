// Package syntax holds the lossless TOML syntax tree.
//
// The tree has two layers. Green elements (GreenNode, GreenToken) are
// immutable and carry only kind and text, so subtrees can be shared between
// an original tree and a rewritten one. Elements are the positioned "red"
// view built on demand from a green root; they know their parent, index and
// byte offset.
//
// Comments, whitespace and newlines are ordinary tokens. The free functions
// in trivia.go infer which comment belongs to which element.
package syntax
