package parser

import (
	"tomlfmt/internal/diag"
	"tomlfmt/internal/lexer"
	"tomlfmt/internal/token"
)

// parseHeader разбирает `[key]` или `[[key]]` вместе с комментарием в конце строки.
// The double brackets are two adjacent single-bracket tokens.
func (p *Parser) parseHeader() {
	cp := p.b.Checkpoint()
	open := p.bump() // '['
	kind := token.TableHeader
	if next := p.peek(lexer.ModeKey); next.Kind == token.LBracket && next.Span.Start == open.Span.End {
		p.bump()
		kind = token.TableArrayHeader
	}
	p.b.StartNodeAt(cp, kind)
	defer p.b.FinishNode()

	p.eatWhitespace(lexer.ModeKey)
	if tok := p.peek(lexer.ModeKey); tok.Kind == token.RBracket {
		p.errAt(diag.SynEmptyHeader, tok.Span, "table header needs a key")
	} else if !p.parseKey() {
		return
	}
	p.eatWhitespace(lexer.ModeKey)

	closing := "`]`"
	if kind == token.TableArrayHeader {
		closing = "`]]`"
	}
	tok := p.peek(lexer.ModeKey)
	if tok.Kind != token.RBracket {
		diag.ReportError(p.rep, diag.SynUnclosedHeader, p.diagSpan(tok), "expected "+closing+" to close the table header").
			WithNote(open.Span, "header opened here").
			Emit()
		return
	}
	first := p.bump()
	if kind == token.TableArrayHeader {
		if next := p.peek(lexer.ModeKey); next.Kind != token.RBracket || next.Span.Start != first.Span.End {
			p.errAt(diag.SynUnclosedHeader, p.diagSpan(next), "expected `]]` to close the array of tables header")
			return
		}
		p.bump()
	}
	p.trailingComment()
}
