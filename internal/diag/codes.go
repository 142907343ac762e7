package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadEscape          Code = 1003
	LexBadValue           Code = 1004
	LexControlChar        Code = 1005
	LexBadNewline         Code = 1006

	// Парсерные
	SynInfo                 Code = 2000
	SynUnexpectedToken      Code = 2001
	SynExpectKey            Code = 2002
	SynExpectEquals         Code = 2003
	SynExpectValue          Code = 2004
	SynUnclosedBracket      Code = 2005
	SynUnclosedBrace        Code = 2006
	SynUnclosedHeader       Code = 2007
	SynExpectComma          Code = 2008
	SynTrailingCommaInline  Code = 2009
	SynCommentInInlineTable Code = 2010
	SynExpectNewline        Code = 2011
	SynMultilineKey         Code = 2012
	SynEmptyHeader          Code = 2013

	// Ввод-вывод и кодировка
	IOInfo           Code = 4000
	IOInvalidUTF8    Code = 4001
	IOReadFailed     Code = 4002
	IOUnsupportedBOM Code = 4003

	// Конфигурация
	CfgInfo         Code = 5000
	CfgUnknownKey   Code = 5001
	CfgInvalidValue Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	LexInfo:                 "Lexical information",
	LexUnknownChar:          "Unknown character",
	LexUnterminatedString:   "Unterminated string",
	LexBadEscape:            "Invalid escape sequence",
	LexBadValue:             "Invalid value",
	LexControlChar:          "Control character not allowed",
	LexBadNewline:           "Bare carriage return",
	SynInfo:                 "Syntax information",
	SynUnexpectedToken:      "Unexpected token",
	SynExpectKey:            "Expected key",
	SynExpectEquals:         "Expected '='",
	SynExpectValue:          "Expected value",
	SynUnclosedBracket:      "Unclosed array",
	SynUnclosedBrace:        "Unclosed inline table",
	SynUnclosedHeader:       "Unclosed table header",
	SynExpectComma:          "Expected ','",
	SynTrailingCommaInline:  "Trailing comma in inline table",
	SynCommentInInlineTable: "Comment in inline table",
	SynExpectNewline:        "Expected newline",
	SynMultilineKey:         "Multi-line string used as key",
	SynEmptyHeader:          "Empty table header",
	IOInfo:                  "I/O information",
	IOInvalidUTF8:           "Invalid UTF-8",
	IOReadFailed:            "Read failed",
	IOUnsupportedBOM:        "Unsupported byte-order mark",
	CfgInfo:                 "Configuration information",
	CfgUnknownKey:           "Unknown configuration key",
	CfgInvalidValue:         "Invalid configuration value",
	ObsInfo:                 "Observability information",
	ObsTimings:              "Timings",
}

// ID returns the stable textual identifier of the code, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	default:
		return fmt.Sprintf("E%04d", ic)
	}
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
