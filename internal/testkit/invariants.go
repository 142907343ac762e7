// Package testkit holds structural checks shared by the parser, formatter
// and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

// CheckTreeInvariants verifies a parsed tree against its source text:
//  1. the root is a Root node whose text equals src byte for byte;
//  2. every element starts where its previous sibling ended, and the first
//     child starts at its parent's offset;
//  3. node and token kinds are not mixed up.
func CheckTreeInvariants(root *syntax.Element, src []byte) error {
	if root == nil {
		return fmt.Errorf("nil root")
	}
	if root.Kind() != token.Root {
		return fmt.Errorf("root kind is %s, want %s", root.Kind(), token.Root)
	}
	if root.Offset() != 0 {
		return fmt.Errorf("root offset is %d, want 0", root.Offset())
	}
	n, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("source too large: %w", err)
	}
	if root.End() != n {
		return fmt.Errorf("root ends at %d, source has %d bytes", root.End(), n)
	}
	if text := root.Text(); text != string(src) {
		return fmt.Errorf("tree text differs from source at byte %d", firstDiff(text, string(src)))
	}
	return checkChildren(root)
}

func checkChildren(el *syntax.Element) error {
	off := el.Offset()
	for _, child := range el.ChildrenWithTokens() {
		if child.Offset() != off {
			return fmt.Errorf("%s at %d: expected to start at %d", child.Kind(), child.Offset(), off)
		}
		if child.IsNode() {
			if !child.Kind().IsNode() {
				return fmt.Errorf("node at %d has token kind %s", child.Offset(), child.Kind())
			}
			if err := checkChildren(child); err != nil {
				return err
			}
		} else if child.Kind().IsNode() {
			return fmt.Errorf("token at %d has node kind %s", child.Offset(), child.Kind())
		}
		off = child.End()
	}
	if off != el.End() {
		return fmt.Errorf("%s at %d: children end at %d, node ends at %d", el.Kind(), el.Offset(), off, el.End())
	}
	return nil
}

// CheckEntries verifies that every Entry node has a Key followed by a Value.
// It only holds for trees parsed without errors.
func CheckEntries(root *syntax.Element) error {
	var walk func(el *syntax.Element) error
	walk = func(el *syntax.Element) error {
		for _, child := range el.Children() {
			if child.Kind() == token.Entry {
				key := child.ChildOfKind(token.Key)
				if key == nil {
					return fmt.Errorf("entry at %d has no key", child.Offset())
				}
				value := child.ChildOfKind(token.Value)
				if value == nil {
					return fmt.Errorf("entry at %d has no value", child.Offset())
				}
				if value.Offset() < key.End() {
					return fmt.Errorf("entry at %d: value precedes key", child.Offset())
				}
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

func firstDiff(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
