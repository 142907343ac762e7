package parser

import (
	"tomlfmt/internal/diag"
	"tomlfmt/internal/lexer"
	"tomlfmt/internal/token"
)

// parseArray разбирает `[ v, v, ]`. Trivia between values stays at array level;
// every value is wrapped in its own Value node.
func (p *Parser) parseArray() {
	p.b.StartNode(token.Array)
	defer p.b.FinishNode()

	open := p.bump() // '['
	needComma := false
	for {
		tok := p.peek(lexer.ModeValue)
		switch {
		case tok.Kind.IsTrivia():
			p.bump()
		case tok.Kind == token.RBracket:
			p.bump()
			return
		case tok.Kind == token.Comma:
			if !needComma {
				p.errAt(diag.SynExpectValue, tok.Span, "expected a value before `,`")
			}
			p.bump()
			needComma = false
		case tok.Kind == token.EOF:
			diag.ReportError(p.rep, diag.SynUnclosedBracket, p.diagSpan(tok), "unclosed array, expected `]`").
				WithNote(open.Span, "array opened here").
				Emit()
			return
		case tok.Kind.IsScalar() || tok.Kind == token.LBracket || tok.Kind == token.LBrace || tok.Kind == token.Invalid:
			if needComma {
				p.errAt(diag.SynExpectComma, tok.Span, "expected `,` between array values")
			}
			p.b.StartNode(token.Value)
			p.parseValueContent()
			p.b.FinishNode()
			needComma = true
		default:
			p.errAt(diag.SynUnexpectedToken, tok.Span, "unexpected "+describe(tok)+" in array")
			p.bump()
		}
	}
}

// parseInlineTable разбирает `{ k = v, ... }`. Newlines between entries are
// tolerated, comments are not.
func (p *Parser) parseInlineTable() {
	p.b.StartNode(token.InlineTable)
	defer p.b.FinishNode()

	open := p.bump() // '{'
	needComma := false
	afterComma := false
	for {
		tok := p.peek(lexer.ModeKey)
		switch {
		case tok.Kind == token.Whitespace || tok.Kind == token.Newline:
			p.bump()
		case tok.Kind == token.Comment:
			p.errAt(diag.SynCommentInInlineTable, tok.Span, "comments are not allowed in inline tables")
			p.bump()
		case tok.Kind == token.RBrace:
			if afterComma {
				p.errAt(diag.SynTrailingCommaInline, p.last.Span, "trailing comma is not allowed in inline tables")
			}
			p.bump()
			return
		case tok.Kind == token.Comma:
			if !needComma {
				p.errAt(diag.SynExpectKey, tok.Span, "expected a key before `,`")
			}
			p.bump()
			needComma, afterComma = false, true
		case startsKey(tok.Kind):
			if needComma {
				p.errAt(diag.SynExpectComma, tok.Span, "expected `,` between inline table entries")
			}
			p.parseEntry(false)
			needComma, afterComma = true, false
		default:
			diag.ReportError(p.rep, diag.SynUnclosedBrace, p.diagSpan(tok), "unclosed inline table, expected `}`").
				WithNote(open.Span, "inline table opened here").
				Emit()
			return
		}
	}
}
