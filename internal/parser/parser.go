package parser

import (
	"tomlfmt/internal/diag"
	"tomlfmt/internal/lexer"
	"tomlfmt/internal/source"
	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

type Result struct {
	Green  *syntax.GreenNode
	Root   *syntax.Element
	Errors uint
	Bag    *diag.Bag
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx   *lexer.Lexer
	b    syntax.Builder
	file *source.File
	rep  diag.Reporter

	cur  token.Token // текущий (ещё не съеденный) токен
	mode lexer.Mode  // режим, в котором был получен cur
	has  bool
	last token.Token // последний съеденный значимый токен
}

// ParseFile — входная точка для разбора одного файла.
// The returned tree always covers the whole file, errors or not:
// unexpected tokens are kept where they were found.
func ParseFile(file *source.File, opts Options) Result {
	counter := &countingReporter{next: opts.Reporter, max: opts.MaxErrors}
	// лексер перечитывает токены при смене режима; дубликаты отсекаем до подсчёта
	rep := diag.NewDedupReporter(counter)
	p := Parser{
		lx:   lexer.New(file, lexer.Options{Reporter: rep}),
		file: file,
		rep:  rep,
	}
	p.parseRoot()

	green := p.b.Finish()
	res := Result{
		Green:  green,
		Root:   syntax.NewRoot(green),
		Errors: counter.errors,
	}
	switch r := opts.Reporter.(type) {
	case *diag.BagReporter:
		res.Bag = r.Bag
	case diag.BagReporter:
		res.Bag = r.Bag
	}
	return res
}

// parseRoot — основной цикл верхнего уровня.
func (p *Parser) parseRoot() {
	p.b.StartNode(token.Root)
	for {
		tok := p.peek(lexer.ModeKey)
		switch {
		case tok.Kind == token.EOF:
			p.b.FinishNode()
			return
		case tok.Kind.IsTrivia():
			p.bump()
		case tok.Kind == token.LBracket:
			p.parseHeader()
			p.expectLineEnd()
		case startsKey(tok.Kind):
			p.parseEntry(true)
			p.expectLineEnd()
		default:
			p.errAt(diag.SynUnexpectedToken, tok.Span, "expected a key or a table header, found "+describe(tok))
			p.skipLine()
		}
	}
}

// expectLineEnd requires the current line to end after an entry or header.
// Extra tokens are reported once and kept at root level.
func (p *Parser) expectLineEnd() {
	if p.peek(lexer.ModeKey).Kind == token.Whitespace {
		p.bump()
	}
	tok := p.peek(lexer.ModeKey)
	if tok.Kind == token.Newline || tok.Kind == token.EOF || tok.Kind == token.Comment {
		return
	}
	p.errAt(diag.SynExpectNewline, tok.Span, "expected a new line, found "+describe(tok))
	p.skipLine()
}

// skipLine consumes tokens up to, not including, the next newline.
func (p *Parser) skipLine() {
	for {
		tok := p.peek(lexer.ModeKey)
		if tok.Kind == token.Newline || tok.Kind == token.EOF {
			return
		}
		p.bump()
	}
}

// trailingComment moves a same-line comment (and the blank before it) into
// the currently open node.
func (p *Parser) trailingComment() {
	if p.peekPastWhitespace(lexer.ModeKey).Kind != token.Comment {
		return
	}
	if p.peek(lexer.ModeKey).Kind == token.Whitespace {
		p.bump()
	}
	p.bump()
}
