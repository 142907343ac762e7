package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("a.toml", []byte("x = 1\n"), 0)
	id2 := fs.Add("a.toml", []byte("x = 2\n"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("a.toml")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "x = 1\n" {
		t.Errorf("old version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" - LineIdx = [1,3]
	id, err := fs.AddVirtual("a.toml", []byte("a\nb\n"))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		want  string
		flags FileFlags
	}{
		{name: "plain", in: []byte("a = 1\n"), want: "a = 1\n"},
		{name: "utf8 bom", in: []byte("\uFEFF# 1\n# 2\n"), want: "# 1\n# 2\n", flags: FileHadBOM},
		{name: "crlf kept", in: []byte("# 1\r\n# 2\r\n"), want: "# 1\r\n# 2\r\n", flags: FileHasCRLF},
		{name: "utf16le", in: []byte{0xFF, 0xFE, 'a', 0, '=', 0, '1', 0}, want: "a=1", flags: FileHadBOM | FileUTF16},
		{name: "utf16be", in: []byte{0xFE, 0xFF, 0, 'k', 0, '\n'}, want: "k\n", flags: FileHadBOM | FileUTF16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("content mismatch:\nwant %q\ngot  %q", tt.want, got)
			}
			if flags != tt.flags {
				t.Errorf("flags = %b, want %b", flags, tt.flags)
			}
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	in := []byte("a = \"\xff\"\n")
	_, _, err := Decode(in)
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if in[4] != '"' {
		t.Fatalf("input was modified")
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()

	// α занимает 2 байта, колонки считаются в байтах
	id, err := fs.AddVirtual("test.toml", []byte("α\nb"))
	if err != nil {
		t.Fatal(err)
	}
	start, end := fs.Resolve(Span{File: id, Start: 0, End: 4})

	if want := (LineCol{Line: 1, Col: 1}); start != want {
		t.Errorf("expected start %+v, got %+v", want, start)
	}
	if want := (LineCol{Line: 2, Col: 2}); end != want {
		t.Errorf("expected end %+v, got %+v", want, end)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("x.toml", []byte("first\r\nsecond\nthird"), 0)
	f := fs.Get(id)

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	empty := fs.Get(fs.Add("empty.toml", []byte{}, 0))
	if len(empty.LineIdx) != 0 {
		t.Errorf("expected empty LineIdx for empty file, got length %d", len(empty.LineIdx))
	}
	if pos := empty.Position(0); pos != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("Position(0) in empty file = %+v", pos)
	}

	only := fs.Get(fs.Add("only_newline.toml", []byte("\n"), 0))
	if len(only.LineIdx) != 1 || only.LineIdx[0] != 0 {
		t.Errorf("expected LineIdx [0] for file with only newline, got %v", only.LineIdx)
	}
	if pos := only.Position(1); pos != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("Position after newline = %+v", pos)
	}
}

func TestLoadBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa = 1\r\n"), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a = 1\r\n" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileHasCRLF == 0 {
		t.Errorf("unexpected flags %b", file.Flags)
	}
}

func TestLoadInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte{'a', '=', 0xC3, 0x28}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSet().Load(path); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}
