package parser

import (
	"tomlfmt/internal/diag"
	"tomlfmt/internal/lexer"
	"tomlfmt/internal/source"
	"tomlfmt/internal/token"
)

// peek возвращает текущий токен в нужном режиме; при смене режима токен перечитывается.
func (p *Parser) peek(mode lexer.Mode) token.Token {
	if p.has && p.mode == mode {
		return p.cur
	}
	if p.has {
		p.lx.Reset(p.cur.Span.Start)
	}
	p.cur = p.lx.Next(mode)
	p.mode = mode
	p.has = true
	return p.cur
}

// bump — съедает текущий токен и кладёт его в дерево.
// После предыдущего bump токен ещё не прочитан: читаем его в текущем режиме.
func (p *Parser) bump() token.Token {
	if !p.has {
		p.peek(p.mode)
	}
	tok := p.cur
	p.has = false
	if tok.Kind == token.EOF {
		return tok
	}
	p.b.Token(tok.Kind, tok.Text)
	if !tok.Kind.IsTrivia() {
		p.last = tok
	}
	return tok
}

type snapshot struct {
	off  uint32
	cur  token.Token
	mode lexer.Mode
	has  bool
}

// peekPastWhitespace returns the token after an optional whitespace run
// without consuming anything.
func (p *Parser) peekPastWhitespace(mode lexer.Mode) token.Token {
	tok := p.peek(mode)
	if tok.Kind != token.Whitespace {
		return tok
	}
	s := snapshot{off: p.lx.Offset(), cur: p.cur, mode: p.mode, has: p.has}
	p.has = false
	next := p.peek(mode)
	p.lx.Reset(s.off)
	p.cur, p.mode, p.has = s.cur, s.mode, s.has
	return next
}

// eatWhitespace consumes an optional whitespace token.
func (p *Parser) eatWhitespace(mode lexer.Mode) {
	if p.peek(mode).Kind == token.Whitespace {
		p.bump()
	}
}

// expect — ожидаем конкретный токен; если нет — репортим и ничего не съедаем.
func (p *Parser) expect(mode lexer.Mode, k token.Kind, code diag.Code, msg string) bool {
	tok := p.peek(mode)
	if tok.Kind == k {
		p.bump()
		return true
	}
	p.errAt(code, p.diagSpan(tok), msg+", found "+describe(tok))
	return false
}

// diagSpan — для EOF и переводов строки ошибка ставится сразу после последнего токена
func (p *Parser) diagSpan(tok token.Token) source.Span {
	if (tok.Kind == token.EOF || tok.Kind == token.Newline) && p.last.Span.End > 0 {
		return source.Span{File: tok.Span.File, Start: p.last.Span.End, End: p.last.Span.End}
	}
	return tok.Span
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	p.rep.Report(code, diag.SevError, sp, msg, nil)
}

func startsKey(k token.Kind) bool {
	switch k {
	case token.Ident, token.BasicString, token.LiteralString,
		token.MultiLineBasicString, token.MultiLineLiteralString:
		return true
	default:
		return false
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Newline:
		return "new line"
	case token.Whitespace:
		return "whitespace"
	case token.Comment:
		return "comment"
	}
	text := []rune(tok.Text)
	if len(text) > 24 {
		return "`" + string(text[:24]) + "...`"
	}
	return "`" + string(text) + "`"
}

// countingReporter считает ошибки и обрезает поток после MaxErrors.
type countingReporter struct {
	next   diag.Reporter
	max    uint
	errors uint
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		r.errors++
		if r.max != 0 && r.errors > r.max {
			return
		}
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
