package token

import (
	"tomlfmt/internal/source"
)

// Token represents a single source token with its location.
// Trivia (whitespace, newlines, comments) are tokens too.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a scalar value literal.
func (t Token) IsLiteral() bool { return t.Kind.IsScalar() }

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Eq, Period, Comma, LBracket, RBracket, LBrace, RBrace:
		return true
	default:
		return false
	}
}

// IsKeyPart reports whether the token may form a key segment.
func (t Token) IsKeyPart() bool {
	return t.Kind == Ident || t.Kind == BasicString || t.Kind == LiteralString
}

// NewlineCount returns the number of line breaks in a Newline token.
func (t Token) NewlineCount() int {
	return CountNewlines(t.Text)
}

// CountNewlines counts '\n' bytes in text.
func CountNewlines(text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n++
		}
	}
	return n
}
