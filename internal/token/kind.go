package token

// Kind is the syntax kind of a token or a tree node. Tokens and nodes share
// one enumeration so that a tree element can be classified with a single switch.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Whitespace is a run of spaces and tabs.
	Whitespace
	// Newline is a run of consecutive line terminators ("\n" or "\r\n").
	Newline
	// Comment spans from '#' to the end of the line, terminator excluded.
	Comment

	// Ident is a bare key.
	Ident
	// BasicString is a "..." string.
	BasicString
	// LiteralString is a '...' string.
	LiteralString
	// MultiLineBasicString is a """...""" string.
	MultiLineBasicString
	// MultiLineLiteralString is a '''...''' string.
	MultiLineLiteralString
	// Integer is a decimal, hex, octal or binary integer.
	Integer
	// Float is a float, including inf and nan.
	Float
	// Bool is true or false.
	Bool
	// OffsetDateTime is a date-time with a zone offset.
	OffsetDateTime
	// LocalDateTime is a date-time without offset.
	LocalDateTime
	// LocalDate is a bare date.
	LocalDate
	// LocalTime is a bare time.
	LocalTime

	// Eq represents '='.
	Eq // =
	// Period represents the dotted-key separator.
	Period // .
	// Comma represents ','.
	Comma // ,
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }

	// Root is the document node.
	Root
	// TableHeader is a "[key]" header node.
	TableHeader
	// TableArrayHeader is a "[[key]]" header node.
	TableArrayHeader
	// Entry is a "key = value" node.
	Entry
	// Key is a possibly dotted key node.
	Key
	// Value wraps one scalar token, Array or InlineTable.
	Value
	// Array is a "[...]" value node.
	Array
	// InlineTable is a "{...}" value node.
	InlineTable

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:                "Invalid",
	EOF:                    "EOF",
	Whitespace:             "Whitespace",
	Newline:                "Newline",
	Comment:                "Comment",
	Ident:                  "Ident",
	BasicString:            "BasicString",
	LiteralString:          "LiteralString",
	MultiLineBasicString:   "MultiLineBasicString",
	MultiLineLiteralString: "MultiLineLiteralString",
	Integer:                "Integer",
	Float:                  "Float",
	Bool:                   "Bool",
	OffsetDateTime:         "OffsetDateTime",
	LocalDateTime:          "LocalDateTime",
	LocalDate:              "LocalDate",
	LocalTime:              "LocalTime",
	Eq:                     "Eq",
	Period:                 "Period",
	Comma:                  "Comma",
	LBracket:               "LBracket",
	RBracket:               "RBracket",
	LBrace:                 "LBrace",
	RBrace:                 "RBrace",
	Root:                   "Root",
	TableHeader:            "TableHeader",
	TableArrayHeader:       "TableArrayHeader",
	Entry:                  "Entry",
	Key:                    "Key",
	Value:                  "Value",
	Array:                  "Array",
	InlineTable:            "InlineTable",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsEOF reports whether the kind is EOF.
func (k Kind) IsEOF() bool { return k == EOF }

// IsTrivia reports whether the kind carries no grammatical meaning.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Newline || k == Comment
}

// IsNode reports whether the kind names a tree node rather than a token.
func (k Kind) IsNode() bool {
	return k >= Root && k < kindCount
}

// IsHeader reports whether the kind is a table or array-of-tables header.
func (k Kind) IsHeader() bool {
	return k == TableHeader || k == TableArrayHeader
}

// IsString reports whether the kind is any of the four string forms.
func (k Kind) IsString() bool {
	switch k {
	case BasicString, LiteralString, MultiLineBasicString, MultiLineLiteralString:
		return true
	default:
		return false
	}
}

// IsMultiLineString reports whether the token may span several lines.
func (k Kind) IsMultiLineString() bool {
	return k == MultiLineBasicString || k == MultiLineLiteralString
}

// IsScalar reports whether the kind is a literal allowed as a value.
func (k Kind) IsScalar() bool {
	switch k {
	case BasicString, LiteralString, MultiLineBasicString, MultiLineLiteralString,
		Integer, Float, Bool, OffsetDateTime, LocalDateTime, LocalDate, LocalTime:
		return true
	default:
		return false
	}
}
