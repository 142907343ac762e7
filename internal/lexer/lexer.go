package lexer

import (
	"tomlfmt/internal/source"
	"tomlfmt/internal/token"
)

// Mode selects how bare runs are classified. TOML keys and values share
// characters (`1234 = 1234`), so the parser tells the lexer which one it expects.
type Mode uint8

const (
	// ModeKey lexes bare keys as Ident and '.' as Period.
	ModeKey Mode = iota
	// ModeValue lexes bare runs as booleans, numbers or date-times.
	ModeValue
)

func (m Mode) String() string {
	if m == ModeValue {
		return "value"
	}
	return "key"
}

// Lexer produces tokens on demand. It keeps no lookahead buffer: the parser
// calls Reset to re-lex from a token start when the mode changes.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

// New creates a lexer positioned at the start of file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Offset returns the byte offset of the next unread byte.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

// Reset moves the lexer to off. Diagnostics for the re-lexed range may be
// reported again; callers are expected to use a deduplicating reporter.
func (lx *Lexer) Reset(off uint32) { lx.cursor.Reset(Mark(off)) }

// Next возвращает следующий токен, включая trivia.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next(mode Mode) token.Token {
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == ' ' || ch == '\t':
		return lx.scanWhitespace()
	case ch == '\n' || ch == '\r':
		return lx.scanNewline()
	case ch == '#':
		return lx.scanComment()
	case ch == '"':
		if lx.cursor.HasPrefix(`"""`) {
			return lx.scanMultiLineBasic()
		}
		return lx.scanBasic()
	case ch == '\'':
		if lx.cursor.HasPrefix(`'''`) {
			return lx.scanMultiLineLiteral()
		}
		return lx.scanLiteral()
	case ch == '.' && mode == ModeKey:
		return lx.punct(token.Period)
	case ch == '=':
		return lx.punct(token.Eq)
	case ch == ',':
		return lx.punct(token.Comma)
	case ch == '[':
		return lx.punct(token.LBracket)
	case ch == ']':
		return lx.punct(token.RBracket)
	case ch == '{':
		return lx.punct(token.LBrace)
	case ch == '}':
		return lx.punct(token.RBrace)
	case mode == ModeKey && isBareKeyByte(ch):
		return lx.scanBareKey()
	case mode == ModeValue && isValueByte(ch):
		return lx.scanValue()
	default:
		return lx.scanUnknown()
	}
}

func (lx *Lexer) punct(k token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.tokenFrom(k, start)
}

func (lx *Lexer) tokenFrom(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// scanUnknown consumes one rune that cannot start any token.
func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	tok := lx.tokenFrom(token.Invalid, start)
	lx.errLex(diagUnknownChar(tok.Text), tok.Span, "unexpected character "+quoteRune(tok.Text))
	return tok
}
