package token_test

import (
	"testing"

	"tomlfmt/internal/source"
	"tomlfmt/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: uint32(len(text))}, Text: text}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.BasicString, token.LiteralString, token.MultiLineBasicString,
		token.MultiLineLiteralString, token.Integer, token.Float, token.Bool,
		token.OffsetDateTime, token.LocalDateTime, token.LocalDate, token.LocalTime,
	}
	for _, k := range lits {
		if !tok(k, "x").IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Comment, token.Eq, token.LBracket, token.Array}
	for _, k := range non {
		if tok(k, "x").IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKindClassification(t *testing.T) {
	for _, k := range []token.Kind{token.Whitespace, token.Newline, token.Comment} {
		if !k.IsTrivia() {
			t.Errorf("%v should be trivia", k)
		}
	}
	for _, k := range []token.Kind{token.Root, token.Entry, token.InlineTable} {
		if !k.IsNode() {
			t.Errorf("%v should be a node kind", k)
		}
	}
	if token.Comma.IsNode() || token.Comma.IsTrivia() {
		t.Errorf("Comma misclassified")
	}
	if !token.TableArrayHeader.IsHeader() || token.Entry.IsHeader() {
		t.Errorf("header classification broken")
	}
}

func TestNewlineCount(t *testing.T) {
	cases := map[string]int{"\n": 1, "\r\n": 1, "\n\n": 2, "\r\n\r\n\n": 3}
	for text, want := range cases {
		if got := tok(token.Newline, text).NewlineCount(); got != want {
			t.Errorf("NewlineCount(%q) = %d, want %d", text, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.TableHeader.String() != "TableHeader" {
		t.Fatalf("unexpected name %q", token.TableHeader.String())
	}
	if token.Kind(250).String() != "Kind(?)" {
		t.Fatalf("out-of-range kind must not panic")
	}
}
