package lexer

import (
	"regexp"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/token"
)

// scanBareKey сканирует [A-Za-z0-9_-]+ как Ident.
func (lx *Lexer) scanBareKey() token.Token {
	start := lx.cursor.Mark()
	for isBareKeyByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.tokenFrom(token.Ident, start)
}

var (
	reDecInt   = regexp.MustCompile(`^[+-]?(0|[1-9](_?[0-9])*)$`)
	reHexInt   = regexp.MustCompile(`^0x[0-9A-Fa-f](_?[0-9A-Fa-f])*$`)
	reOctInt   = regexp.MustCompile(`^0o[0-7](_?[0-7])*$`)
	reBinInt   = regexp.MustCompile(`^0b[01](_?[01])*$`)
	reFloat    = regexp.MustCompile(`^[+-]?(0|[1-9](_?[0-9])*)(\.[0-9](_?[0-9])*)?([eE][+-]?[0-9](_?[0-9])*)?$`)
	reSpecial  = regexp.MustCompile(`^[+-]?(inf|nan)$`)
	reDate     = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	reTime     = regexp.MustCompile(`^[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?$`)
	reDateTime = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}[Tt ][0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?$`)
	reOffsetDT = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}[Tt ][0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?([Zz]|[+-][0-9]{2}:[0-9]{2})$`)
)

// scanValue сканирует "голое" значение и классифицирует его целиком.
// A date followed by a space and a time ("1979-05-27 07:32:00") is one token.
func (lx *Lexer) scanValue() token.Token {
	start := lx.cursor.Mark()
	lx.bumpValueRun()
	if text := string(lx.file.Content[uint32(start):lx.cursor.Off]); reDate.MatchString(text) &&
		lx.cursor.Peek() == ' ' && isDec(lx.cursor.PeekAt(1)) && isDec(lx.cursor.PeekAt(2)) && lx.cursor.PeekAt(3) == ':' {
		lx.cursor.Bump()
		lx.bumpValueRun()
	}

	tok := lx.tokenFrom(token.Invalid, start)
	tok.Kind = ClassifyValue(tok.Text)
	if tok.Kind == token.Invalid {
		lx.errLex(diag.LexBadValue, tok.Span, "invalid value "+quoteText(tok.Text))
	}
	return tok
}

func (lx *Lexer) bumpValueRun() {
	for isValueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// ClassifyValue maps the text of a bare value to its token kind.
// Unknown text yields token.Invalid.
func ClassifyValue(text string) token.Kind {
	switch {
	case text == "true" || text == "false":
		return token.Bool
	case reDecInt.MatchString(text), reHexInt.MatchString(text),
		reOctInt.MatchString(text), reBinInt.MatchString(text):
		return token.Integer
	case reSpecial.MatchString(text), reFloat.MatchString(text):
		return token.Float
	case reOffsetDT.MatchString(text):
		return token.OffsetDateTime
	case reDateTime.MatchString(text):
		return token.LocalDateTime
	case reDate.MatchString(text):
		return token.LocalDate
	case reTime.MatchString(text):
		return token.LocalTime
	default:
		return token.Invalid
	}
}

func quoteText(text string) string {
	const maxShown = 32
	if len(text) > maxShown {
		text = text[:maxShown] + "…"
	}
	return "`" + text + "`"
}
