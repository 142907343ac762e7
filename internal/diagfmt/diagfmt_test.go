package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/source"
	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

func newFile(t *testing.T, path, content string) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id, err := fs.AddVirtual(path, []byte(content))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}
	return fs, id
}

func TestPrettyExcerpt(t *testing.T) {
	fs, id := newFile(t, "t.toml", "name = \"x\n")
	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.LexUnterminatedString,
		Message:  "unterminated string",
		Primary:  source.Span{File: id, Start: 7, End: 9},
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	want := "t.toml:1:8: ERROR LEX1002: unterminated string\n" +
		"1 | name = \"x\n" +
		"  |        ^~\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

// caret под широкими символами должен учитывать ширину колонки
func TestPrettyWideRunes(t *testing.T) {
	fs, id := newFile(t, "t.toml", "k = \"日本\" x\n")
	off := uint32(strings.Index("k = \"日本\" x\n", "x"))
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynExpectNewline,
		Message:  "expected newline",
		Primary:  source.Span{File: id, Start: off, End: off + 1},
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	// "k = "日本" " occupies 11 columns
	if got := lines[2]; got != "  | "+strings.Repeat(" ", 11)+"^" {
		t.Errorf("caret line = %q", got)
	}
}

func TestPrettyContextNotesAndMax(t *testing.T) {
	fs, id := newFile(t, "dir/t.toml", "a = 1\nb = \nc = 3\n")
	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynExpectValue,
		Message:  "expected a value",
		Primary:  source.Span{File: id, Start: 10, End: 11},
		Notes:    []diag.Note{{Span: source.Span{File: id, Start: 6, End: 7}, Msg: "key defined here"}},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.SynUnexpectedToken,
		Message:  "second",
		Primary:  source.Span{File: id, Start: 12, End: 13},
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true, Max: 1})
	out := buf.String()
	for _, want := range []string{
		"dir/t.toml:2:5: ERROR SYN2004: expected a value",
		"1 | a = 1",
		"2 | b = ",
		"3 | c = 3",
		"note: dir/t.toml:2:1: key defined here",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "second") {
		t.Errorf("Max not honoured:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	fs, id := newFile(t, "t.toml", "x\n")
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SynExpectEquals, Message: "m", Primary: source.Span{File: id, Start: 0, End: 1}})

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}

func TestJSON(t *testing.T) {
	fs, id := newFile(t, "t.toml", "a = \n")
	bag := diag.NewBag(2)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynExpectValue,
		Message:  "expected a value",
		Primary:  source.Span{File: id, Start: 3, End: 3},
		Notes:    []diag.Note{{Span: source.Span{File: id, Start: 0, End: 1}, Msg: "n"}},
	})

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SYN2004" {
		t.Fatalf("unexpected output: %+v", out)
	}
	loc := out.Diagnostics[0].Location
	if loc.File != "t.toml" || loc.StartLine != 1 || loc.StartCol != 4 {
		t.Errorf("location = %+v", loc)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Error("notes must be omitted unless requested")
	}

	empty := BuildDiagnosticsOutput(nil, fs, JSONOpts{})
	if empty.Diagnostics == nil || empty.Count != 0 {
		t.Errorf("nil bag should give an empty list, got %+v", empty)
	}
}

func TestFormatTokens(t *testing.T) {
	fs, id := newFile(t, "t.toml", "a = 1\n")
	toks := []token.Token{
		{Kind: token.Ident, Span: source.Span{File: id, Start: 0, End: 1}, Text: "a"},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 6, End: 6}},
		{Kind: token.Ident, Span: source.Span{File: id, Start: 0, End: 1}, Text: "ignored"},
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"a" at 1:1-1:2`) {
		t.Errorf("pretty tokens:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[1].Kind != token.EOF.String() || out[1].Line != 2 {
		t.Errorf("json tokens = %+v", out)
	}
}

func TestFormatTree(t *testing.T) {
	var b syntax.Builder
	b.StartNode(token.Root)
	b.StartNode(token.Entry)
	b.Token(token.Ident, "a")
	b.FinishNode()
	b.FinishNode()
	root := syntax.NewRoot(b.Finish())

	var buf bytes.Buffer
	if err := FormatTree(&buf, root); err != nil {
		t.Fatal(err)
	}
	if buf.String() != syntax.DumpString(root) {
		t.Errorf("tree = %q", buf.String())
	}

	buf.Reset()
	if err := FormatTreeJSON(&buf, root); err != nil {
		t.Fatal(err)
	}
	var n NodeJSON
	if err := json.Unmarshal(buf.Bytes(), &n); err != nil {
		t.Fatal(err)
	}
	if len(n.Children) != 1 || len(n.Children[0].Children) != 1 || *n.Children[0].Children[0].Text != "a" {
		t.Errorf("json tree = %+v", n)
	}
}
