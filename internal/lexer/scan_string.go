package lexer

import (
	"tomlfmt/internal/diag"
	"tomlfmt/internal/token"
)

// scanBasic сканирует "..." с escape-последовательностями.
// Незакрытая строка обрывается на переводе строки; токен всё равно BasicString.
func (lx *Lexer) scanBasic() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '"'
	for {
		if lx.atLineEnd() {
			lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string")
			return lx.tokenFrom(token.BasicString, start)
		}
		switch b := lx.cursor.Peek(); {
		case b == '"':
			lx.cursor.Bump()
			return lx.tokenFrom(token.BasicString, start)
		case b == '\\':
			lx.scanEscape(false)
		case isControl(b):
			lx.reportControl()
		default:
			lx.bumpRune()
		}
	}
}

// scanLiteral сканирует '...' без escape-последовательностей.
func (lx *Lexer) scanLiteral() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''
	for {
		if lx.atLineEnd() {
			lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated literal string")
			return lx.tokenFrom(token.LiteralString, start)
		}
		switch b := lx.cursor.Peek(); {
		case b == '\'':
			lx.cursor.Bump()
			return lx.tokenFrom(token.LiteralString, start)
		case isControl(b):
			lx.reportControl()
		default:
			lx.bumpRune()
		}
	}
}

// scanMultiLineBasic сканирует """...""". Up to two quotes directly before
// the closing delimiter belong to the content, so `""""` closes after one quote.
func (lx *Lexer) scanMultiLineBasic() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(3)
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '"':
			if lx.closeMultiLine('"') {
				return lx.tokenFrom(token.MultiLineBasicString, start)
			}
		case b == '\\':
			lx.scanEscape(true)
		case b == '\n' || lx.cursor.HasPrefix("\r\n"):
			lx.cursor.Bump()
		case isControl(b):
			lx.reportControl()
		default:
			lx.bumpRune()
		}
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated multi-line string")
	return lx.tokenFrom(token.MultiLineBasicString, start)
}

// scanMultiLineLiteral сканирует '''...'''.
func (lx *Lexer) scanMultiLineLiteral() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(3)
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '\'':
			if lx.closeMultiLine('\'') {
				return lx.tokenFrom(token.MultiLineLiteralString, start)
			}
		case b == '\n' || lx.cursor.HasPrefix("\r\n"):
			lx.cursor.Bump()
		case isControl(b):
			lx.reportControl()
		default:
			lx.bumpRune()
		}
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated multi-line literal string")
	return lx.tokenFrom(token.MultiLineLiteralString, start)
}

// closeMultiLine consumes a run of quote bytes. It reports true when the run
// closes the string; runs shorter than three stay in the content.
func (lx *Lexer) closeMultiLine(q byte) bool {
	n := uint32(0)
	for lx.cursor.PeekAt(n) == q {
		n++
	}
	if n < 3 {
		lx.cursor.BumpN(n)
		return false
	}
	if n > 5 {
		at := lx.cursor.Mark()
		lx.cursor.BumpN(n)
		lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(at), "too many quotes at end of multi-line string")
		return true
	}
	lx.cursor.BumpN(n)
	return true
}

// scanEscape validates one escape sequence starting at '\'.
// In multi-line strings a backslash followed by optional blanks and a line end is a line continuation.
func (lx *Lexer) scanEscape(multiLine bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\\'
	b := lx.cursor.Peek()
	switch b {
	case 'b', 't', 'n', 'f', 'r', '"', '\\':
		lx.cursor.Bump()
		return
	case 'u', 'U':
		lx.cursor.Bump()
		want := uint32(4)
		if b == 'U' {
			want = 8
		}
		got := uint32(0)
		for got < want && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			got++
		}
		if got != want {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid unicode escape")
		}
		return
	}
	if multiLine {
		n := uint32(0)
		for c := lx.cursor.PeekAt(n); c == ' ' || c == '\t'; c = lx.cursor.PeekAt(n) {
			n++
		}
		if c := lx.cursor.PeekAt(n); c == '\n' || (c == '\r' && lx.cursor.PeekAt(n+1) == '\n') {
			lx.cursor.BumpN(n)
			return
		}
	}
	if !lx.atLineEnd() {
		lx.bumpRune()
	}
	lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid escape sequence")
}

func (lx *Lexer) atLineEnd() bool {
	return lx.cursor.EOF() || lx.cursor.Peek() == '\n' || lx.cursor.HasPrefix("\r\n")
}

func (lx *Lexer) reportControl() {
	at := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.errLex(diag.LexControlChar, lx.cursor.SpanFrom(at), "control character in string")
}
