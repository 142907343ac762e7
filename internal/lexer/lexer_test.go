package lexer

import (
	"testing"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/source"
	"tomlfmt/internal/token"
)

type testReporter struct {
	codes []diag.Code
	msgs  []string
}

func (r *testReporter) Report(code diag.Code, _ diag.Severity, _ source.Span, msg string, _ []diag.Note) {
	r.codes = append(r.codes, code)
	r.msgs = append(r.msgs, msg)
}

func makeTestFile(t *testing.T, input string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	id, err := fs.AddVirtual("test.toml", []byte(input))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}
	return fs.Get(id)
}

func makeTestLexer(t *testing.T, input string) (*Lexer, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	return New(makeTestFile(t, input), Options{Reporter: rep}), rep
}

// lexAll лексит всё в одном режиме до EOF.
func lexAll(lx *Lexer, mode Mode) []token.Token {
	var toks []token.Token
	for {
		tok := lx.Next(mode)
		if tok.Kind == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, got []token.Token, want ...token.Kind) {
	t.Helper()
	gk := kindsOf(got)
	if len(gk) != len(want) {
		t.Fatalf("kinds = %v, want %v", gk, want)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (all: %v)", i, gk[i], want[i], gk)
		}
	}
}

func TestKeyModeEntryLine(t *testing.T) {
	lx, rep := makeTestLexer(t, "a.b-c = 1")
	toks := lexAll(lx, ModeKey)
	expectKinds(t, toks,
		token.Ident, token.Period, token.Ident, token.Whitespace,
		token.Eq, token.Whitespace, token.Ident)
	if toks[2].Text != "b-c" {
		t.Fatalf("bare key text = %q", toks[2].Text)
	}
	if len(rep.codes) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.msgs)
	}
}

func TestValueClassification(t *testing.T) {
	tests := []struct {
		text string
		want token.Kind
	}{
		{"true", token.Bool},
		{"false", token.Bool},
		{"42", token.Integer},
		{"-17", token.Integer},
		{"1_000", token.Integer},
		{"0xDEAD_beef", token.Integer},
		{"0o755", token.Integer},
		{"0b1101", token.Integer},
		{"3.14", token.Float},
		{"-0.01", token.Float},
		{"5e+22", token.Float},
		{"6.626e-34", token.Float},
		{"inf", token.Float},
		{"-nan", token.Float},
		{"1979-05-27T07:32:00Z", token.OffsetDateTime},
		{"1979-05-27T00:32:00.999999-07:00", token.OffsetDateTime},
		{"1979-05-27T07:32:00", token.LocalDateTime},
		{"1979-05-27", token.LocalDate},
		{"07:32:00", token.LocalTime},
		{"00:32:00.999999", token.LocalTime},
		{"01", token.Invalid},
		{"1__0", token.Invalid},
		{"tru", token.Invalid},
		{"1.", token.Invalid},
		{".5", token.Invalid},
	}
	for _, tt := range tests {
		if got := ClassifyValue(tt.text); got != tt.want {
			t.Errorf("ClassifyValue(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestValueModeSpaceSeparatedDateTime(t *testing.T) {
	lx, rep := makeTestLexer(t, "1979-05-27 07:32:00Z # c")
	toks := lexAll(lx, ModeValue)
	expectKinds(t, toks, token.OffsetDateTime, token.Whitespace, token.Comment)
	if toks[0].Text != "1979-05-27 07:32:00Z" {
		t.Fatalf("datetime text = %q", toks[0].Text)
	}
	if len(rep.codes) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.msgs)
	}
}

func TestValueModeDateThenWord(t *testing.T) {
	lx, _ := makeTestLexer(t, "1979-05-27 x")
	toks := lexAll(lx, ModeValue)
	if toks[0].Kind != token.LocalDate || toks[0].Text != "1979-05-27" {
		t.Fatalf("first token = %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestInvalidValueReported(t *testing.T) {
	lx, rep := makeTestLexer(t, "nope")
	tok := lx.Next(ModeValue)
	if tok.Kind != token.Invalid {
		t.Fatalf("kind = %v, want Invalid", tok.Kind)
	}
	if len(rep.codes) != 1 || rep.codes[0] != diag.LexBadValue {
		t.Fatalf("codes = %v", rep.codes)
	}
}

func TestNewlinesCoalesce(t *testing.T) {
	lx, _ := makeTestLexer(t, "a\n\r\n\nb")
	toks := lexAll(lx, ModeKey)
	expectKinds(t, toks, token.Ident, token.Newline, token.Ident)
	if toks[1].Text != "\n\r\n\n" || toks[1].NewlineCount() != 3 {
		t.Fatalf("newline token = %q", toks[1].Text)
	}
}

func TestWhitespaceBreaksNewlineRun(t *testing.T) {
	lx, _ := makeTestLexer(t, "\n  \n")
	toks := lexAll(lx, ModeKey)
	expectKinds(t, toks, token.Newline, token.Whitespace, token.Newline)
}

func TestLoneCarriageReturn(t *testing.T) {
	lx, rep := makeTestLexer(t, "a\rb")
	toks := lexAll(lx, ModeKey)
	expectKinds(t, toks, token.Ident, token.Invalid, token.Ident)
	if len(rep.codes) != 1 || rep.codes[0] != diag.LexBadNewline {
		t.Fatalf("codes = %v", rep.codes)
	}
}

func TestCommentStopsBeforeCRLF(t *testing.T) {
	lx, _ := makeTestLexer(t, "# hi\r\nx")
	toks := lexAll(lx, ModeKey)
	expectKinds(t, toks, token.Comment, token.Newline, token.Ident)
	if toks[0].Text != "# hi" {
		t.Fatalf("comment text = %q", toks[0].Text)
	}
}

func TestCommentControlChar(t *testing.T) {
	lx, rep := makeTestLexer(t, "# a\x01b\x02")
	tok := lx.Next(ModeKey)
	if tok.Kind != token.Comment || tok.Text != "# a\x01b\x02" {
		t.Fatalf("comment = %v %q", tok.Kind, tok.Text)
	}
	if len(rep.codes) != 1 || rep.codes[0] != diag.LexControlChar {
		t.Fatalf("codes = %v", rep.codes)
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  token.Kind
	}{
		{"basic", `"a \"q\" \u00e9 \U0001F600"`, token.BasicString},
		{"literal", `'C:\path'`, token.LiteralString},
		{"ml basic", "\"\"\"\nline\\\n   next\"\"\"", token.MultiLineBasicString},
		{"ml basic extra quotes", `"""a"""""`, token.MultiLineBasicString},
		{"ml literal", "'''\nraw \\n\n'''", token.MultiLineLiteralString},
		{"ml literal extra quote", `'''a''''`, token.MultiLineLiteralString},
		{"empty basic", `""`, token.BasicString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, rep := makeTestLexer(t, tt.input)
			tok := lx.Next(ModeValue)
			if tok.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Text != tt.input {
				t.Fatalf("text = %q, want whole input", tok.Text)
			}
			if len(rep.codes) != 0 {
				t.Fatalf("unexpected diagnostics: %v", rep.msgs)
			}
			if next := lx.Next(ModeValue); next.Kind != token.EOF {
				t.Fatalf("expected EOF, got %v", next.Kind)
			}
		})
	}
}

func TestStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unterminated basic", "\"abc\nx", diag.LexUnterminatedString},
		{"unterminated literal", "'abc", diag.LexUnterminatedString},
		{"unterminated ml", `"""abc`, diag.LexUnterminatedString},
		{"bad escape", `"\q"`, diag.LexBadEscape},
		{"short unicode", `"\u12"`, diag.LexBadEscape},
		{"control", "\"a\x00\"", diag.LexControlChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, rep := makeTestLexer(t, tt.input)
			lx.Next(ModeValue)
			if len(rep.codes) == 0 || rep.codes[0] != tt.code {
				t.Fatalf("codes = %v, want %v first", rep.codes, tt.code)
			}
		})
	}
}

func TestUnterminatedBasicStopsAtNewline(t *testing.T) {
	lx, _ := makeTestLexer(t, "\"abc\nx")
	tok := lx.Next(ModeValue)
	if tok.Text != "\"abc" {
		t.Fatalf("text = %q", tok.Text)
	}
	if nl := lx.Next(ModeValue); nl.Kind != token.Newline {
		t.Fatalf("next = %v, want Newline", nl.Kind)
	}
}

func TestResetRelexesInOtherMode(t *testing.T) {
	lx, _ := makeTestLexer(t, "3.14")
	first := lx.Next(ModeKey)
	if first.Kind != token.Ident || first.Text != "3" {
		t.Fatalf("key mode = %v %q", first.Kind, first.Text)
	}
	lx.Reset(first.Span.Start)
	again := lx.Next(ModeValue)
	if again.Kind != token.Float || again.Text != "3.14" {
		t.Fatalf("value mode = %v %q", again.Kind, again.Text)
	}
	if lx.Offset() != 4 {
		t.Fatalf("offset = %d", lx.Offset())
	}
}

func TestUnknownChar(t *testing.T) {
	lx, rep := makeTestLexer(t, "é")
	tok := lx.Next(ModeKey)
	if tok.Kind != token.Invalid || tok.Text != "é" {
		t.Fatalf("tok = %v %q", tok.Kind, tok.Text)
	}
	if len(rep.codes) != 1 || rep.codes[0] != diag.LexUnknownChar {
		t.Fatalf("codes = %v", rep.codes)
	}
}

func TestSpansCoverInput(t *testing.T) {
	input := "[a]\nk = \"v\" # c\n"
	lx, _ := makeTestLexer(t, input)
	var prev uint32
	for _, tok := range lexAll(lx, ModeKey) {
		if tok.Span.Start != prev {
			t.Fatalf("gap before %v at %d (prev end %d)", tok.Kind, tok.Span.Start, prev)
		}
		if input[tok.Span.Start:tok.Span.End] != tok.Text {
			t.Fatalf("text mismatch for %v", tok.Kind)
		}
		prev = tok.Span.End
	}
	if int(prev) != len(input) {
		t.Fatalf("tokens end at %d, input len %d", prev, len(input))
	}
}

func TestEOFRepeats(t *testing.T) {
	lx, _ := makeTestLexer(t, "")
	for range 3 {
		if tok := lx.Next(ModeKey); tok.Kind != token.EOF {
			t.Fatalf("kind = %v, want EOF", tok.Kind)
		}
	}
}
