package parser

import (
	"tomlfmt/internal/diag"
	"tomlfmt/internal/lexer"
	"tomlfmt/internal/token"
)

// parseEntry разбирает `key = value`. A top-level entry also takes its
// same-line trailing comment into the Value node.
func (p *Parser) parseEntry(topLevel bool) {
	p.b.StartNode(token.Entry)
	defer p.b.FinishNode()

	if !p.parseKey() {
		return
	}
	p.eatWhitespace(lexer.ModeKey)
	if !p.expect(lexer.ModeKey, token.Eq, diag.SynExpectEquals, "expected `=` after key") {
		return
	}
	p.eatWhitespace(lexer.ModeValue)

	p.b.StartNode(token.Value)
	p.parseValueContent()
	if topLevel {
		p.trailingComment()
	}
	p.b.FinishNode()
}

// parseKey разбирает простой или dotted ключ; пробелы вокруг точек остаются внутри Key.
func (p *Parser) parseKey() bool {
	p.b.StartNode(token.Key)
	defer p.b.FinishNode()

	if !p.parseKeyPart() {
		return false
	}
	for p.peekPastWhitespace(lexer.ModeKey).Kind == token.Period {
		p.eatWhitespace(lexer.ModeKey)
		p.bump() // '.'
		p.eatWhitespace(lexer.ModeKey)
		if !p.parseKeyPart() {
			return false
		}
	}
	return true
}

func (p *Parser) parseKeyPart() bool {
	tok := p.peek(lexer.ModeKey)
	switch tok.Kind {
	case token.Ident, token.BasicString, token.LiteralString:
		p.bump()
		return true
	case token.MultiLineBasicString, token.MultiLineLiteralString:
		p.errAt(diag.SynMultilineKey, tok.Span, "multi-line strings are not allowed in keys")
		p.bump()
		return true
	default:
		p.errAt(diag.SynExpectKey, p.diagSpan(tok), "expected a key, found "+describe(tok))
		return false
	}
}

// parseValueContent разбирает содержимое уже открытого узла Value.
func (p *Parser) parseValueContent() {
	tok := p.peek(lexer.ModeValue)
	switch {
	case tok.Kind.IsScalar():
		p.bump()
	case tok.Kind == token.LBracket:
		p.parseArray()
	case tok.Kind == token.LBrace:
		p.parseInlineTable()
	case tok.Kind == token.Invalid:
		// лексер уже сообщил об ошибке
		p.bump()
	default:
		p.errAt(diag.SynExpectValue, p.diagSpan(tok), "expected a value, found "+describe(tok))
	}
}
