package cargo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/parser"
	"tomlfmt/internal/source"
	"tomlfmt/internal/syntax"
)

func parse(t *testing.T, src string) *syntax.Element {
	t.Helper()
	fs := source.NewFileSet()
	id, err := fs.AddVirtual("Cargo.toml", []byte(src))
	require.NoError(t, err)
	bag := diag.NewBag(8)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	require.False(t, bag.HasErrors(), "unexpected parse errors: %v", bag.Items())
	return res.Root
}

func apply(t *testing.T, src string) string {
	t.Helper()
	root := parse(t, src)
	out := ApplyConventions(root)
	assert.Equal(t, src, root.Text(), "input tree must not change")
	return out.Text()
}

func TestIsCargoTomlFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"Cargo.toml", true},
		{"crates/foo/Cargo.toml", true},
		{`C:\work\foo\Cargo.toml`, true},
		{"cargo.toml", false},
		{"Cargo.toml.bak", false},
		{"Cargo.toml/readme.toml", false},
		{"pyproject.toml", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCargoTomlFile(tt.path), tt.path)
	}
}

func TestPackageOrder(t *testing.T) {
	src := "[package]\ndescription = \"d\"\nversion = \"1\"\nname = \"x\"\nlicense = \"MIT\"\n"
	want := "[package]\nname = \"x\"\nversion = \"1\"\ndescription = \"d\"\nlicense = \"MIT\"\n"
	assert.Equal(t, want, apply(t, src))
}

func TestPackageOrderKnownKeys(t *testing.T) {
	src := "[package]\nedition = \"2021\"\nauthors = []\nversion = \"0.1.0\"\nname = \"x\"\n"
	want := "[package]\nname = \"x\"\nversion = \"0.1.0\"\nauthors = []\nedition = \"2021\"\n"
	assert.Equal(t, want, apply(t, src))
}

func TestDependencyGroups(t *testing.T) {
	src := "[dependencies]\nb = 1\na = 1\n\nd = 1\nc = 1\n"
	want := "[dependencies]\na = 1\nb = 1\n\nc = 1\nd = 1\n"
	assert.Equal(t, want, apply(t, src))
}

func TestCommentsStayWithEntry(t *testing.T) {
	src := "[dev-dependencies]\n# about b\nb = 1\n# about a\na = 1\n"
	want := "[dev-dependencies]\n# about a\na = 1\n# about b\nb = 1\n"
	assert.Equal(t, want, apply(t, src))
}

func TestGroupBlankLineStaysOnTop(t *testing.T) {
	src := "[dependencies]\nz = 1\n\n# y is special\ny = 1\nx = 1\n"
	want := "[dependencies]\nz = 1\n\nx = 1\n# y is special\ny = 1\n"
	assert.Equal(t, want, apply(t, src))
}

func TestTrailingTriviaStays(t *testing.T) {
	src := "[dependencies]\nb = 1\na = 1\n\n# trailing\n\n[other]\nz = 1\ny = 1\n"
	want := "[dependencies]\na = 1\nb = 1\n\n# trailing\n\n[other]\nz = 1\ny = 1\n"
	assert.Equal(t, want, apply(t, src))
}

func TestKeyForms(t *testing.T) {
	src := "[dependencies]\n\"serde\" = \"1\"\nanyhow.workspace = true\n'clap' = \"4\"\n"
	want := "[dependencies]\nanyhow.workspace = true\n'clap' = \"4\"\n\"serde\" = \"1\"\n"
	assert.Equal(t, want, apply(t, src))
}

func TestHeaderWithComment(t *testing.T) {
	src := "[dependencies] # runtime\nb = 1\na = 1\n"
	want := "[dependencies] # runtime\na = 1\nb = 1\n"
	assert.Equal(t, want, apply(t, src))
}

func TestUntouched(t *testing.T) {
	tests := []string{
		"[features]\nb = 1\na = 1\n",
		"[ dependencies ]\nb = 1\na = 1\n",
		"[[package]]\nb = 1\na = 1\n",
		"[target.x.dependencies]\nb = 1\na = 1\n",
		"[package]\n[dependencies]\n",
		"[dependencies]\na = 1\nb = 1\n",
		"b = 1\na = 1\n",
	}
	for _, src := range tests {
		root := parse(t, src)
		out := ApplyConventions(root)
		assert.Same(t, root, out, "%q", src)
		assert.Equal(t, src, out.Text())
	}
}

func TestHasBlankLine(t *testing.T) {
	root := parse(t, "[dependencies]\na = 1\n  \nb = 1\n# c\nd = 1\n")
	// "\n  \n" lexes as two newline tokens around whitespace
	out := ApplyConventions(root)
	assert.Same(t, root, out)

	root = parse(t, "[dependencies]\nc = 1\n  \nb = 1\na = 1\n")
	assert.Equal(t, "[dependencies]\nc = 1\n  \na = 1\nb = 1\n", ApplyConventions(root).Text())
}
