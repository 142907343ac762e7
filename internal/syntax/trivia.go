package syntax

import (
	"slices"

	"tomlfmt/internal/token"
)

// Sibling scans over trivia. None of them look past the parent of el.

// CommentsOnPreviousLines returns the comments above el: preceding siblings
// are scanned backward across whitespace and newlines, a comment counts only
// when a newline separates it from el, and the scan stops at the first
// non-trivia sibling. The result is in source order.
func CommentsOnPreviousLines(el *Element) []*Element {
	var comments []*Element
	var pending *Element
	for sib := el.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		switch sib.Kind() {
		case token.Whitespace:
			continue
		case token.Newline:
			if pending != nil {
				comments = append(comments, pending)
				pending = nil
			}
			continue
		case token.Comment:
			pending = sib
			continue
		}
		break
	}
	slices.Reverse(comments)
	return comments
}

// TrailingComment returns the comment following el on the same line, across
// whitespace only, or nil.
func TrailingComment(el *Element) *Element {
	for sib := el.NextSibling(); sib != nil; sib = sib.NextSibling() {
		switch sib.Kind() {
		case token.Whitespace:
			continue
		case token.Comment:
			return sib
		}
		return nil
	}
	return nil
}

// HasLeadingBlankLine reports whether an empty line separates el from the
// preceding non-whitespace sibling.
func HasLeadingBlankLine(el *Element) bool {
	return hasBlankLine(el, (*Element).PrevSibling)
}

// HasTrailingBlankLine reports whether an empty line follows el.
func HasTrailingBlankLine(el *Element) bool {
	return hasBlankLine(el, (*Element).NextSibling)
}

// hasBlankLine: a newline token with two or more line breaks, or two newline
// tokens separated only by whitespace, is a blank line.
func hasBlankLine(el *Element, step func(*Element) *Element) bool {
	found := false
	for sib := step(el); sib != nil; sib = step(sib) {
		switch sib.Kind() {
		case token.Whitespace:
			continue
		case token.Newline:
			if found || token.CountNewlines(sib.Text()) > 1 {
				return true
			}
			found = true
			continue
		}
		return false
	}
	return false
}

// IsLastNonTriviaSibling reports whether only trivia follows el in its parent.
func IsLastNonTriviaSibling(el *Element) bool {
	for sib := el.NextSibling(); sib != nil; sib = sib.NextSibling() {
		if !sib.Kind().IsTrivia() {
			return false
		}
	}
	return true
}

// ChildComments returns the direct comment children of el.
func ChildComments(el *Element) []*Element {
	var out []*Element
	for _, c := range el.ChildrenWithTokens() {
		if c.Kind() == token.Comment {
			out = append(out, c)
		}
	}
	return out
}

// StartIncludingLeadingComments returns the offset of the first comment above
// el, or el's own offset when there is none.
func StartIncludingLeadingComments(el *Element) uint32 {
	if comments := CommentsOnPreviousLines(el); len(comments) > 0 {
		return comments[0].Offset()
	}
	return el.Offset()
}

// HasFollowingNewline reports whether el is followed, across whitespace, by a
// newline or a comment.
func HasFollowingNewline(el *Element) bool {
	for sib := el.NextSibling(); sib != nil; sib = sib.NextSibling() {
		switch sib.Kind() {
		case token.Whitespace:
			continue
		case token.Newline, token.Comment:
			return true
		}
		return false
	}
	return false
}

// NextComma returns the comma following el across trivia, or nil.
func NextComma(el *Element) *Element {
	for sib := el.NextSibling(); sib != nil; sib = sib.NextSibling() {
		switch {
		case sib.Kind().IsTrivia():
			continue
		case sib.Kind() == token.Comma:
			return sib
		}
		return nil
	}
	return nil
}
