package lexer

import (
	"tomlfmt/internal/diag"
	"tomlfmt/internal/token"
)

// scanWhitespace consumes a run of spaces and tabs.
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for b := lx.cursor.Peek(); b == ' ' || b == '\t'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
	return lx.tokenFrom(token.Whitespace, start)
}

// scanNewline coalesces consecutive "\n" and "\r\n" terminators into one token.
// Whitespace between terminators is not part of the run.
// A lone '\r' is reported and lexed as Invalid.
func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	for {
		switch {
		case lx.cursor.Peek() == '\n':
			lx.cursor.Bump()
		case lx.cursor.HasPrefix("\r\n"):
			lx.cursor.BumpN(2)
		default:
			if lx.cursor.Off == uint32(start) {
				lx.cursor.Bump()
				tok := lx.tokenFrom(token.Invalid, start)
				lx.errLex(diag.LexBadNewline, tok.Span, "carriage return must be followed by a line feed")
				return tok
			}
			return lx.tokenFrom(token.Newline, start)
		}
	}
}

// scanComment consumes '#' and the rest of the line, excluding the terminator.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	reported := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || lx.cursor.HasPrefix("\r\n") {
			break
		}
		if isControl(b) && !reported {
			at := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.errLex(diag.LexControlChar, lx.cursor.SpanFrom(at), "control character in comment")
			reported = true
			continue
		}
		lx.bumpRune()
	}
	return lx.tokenFrom(token.Comment, start)
}
