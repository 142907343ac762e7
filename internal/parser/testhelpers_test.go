package parser

import (
	"fmt"
	"strings"
	"testing"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/source"
	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

func parseSource(t *testing.T, input string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id, err := fs.AddVirtual("test.toml", []byte(input))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}
	bag := diag.NewBag(100)
	res := ParseFile(fs.Get(id), Options{Reporter: &diag.BagReporter{Bag: bag}})
	if got := res.Root.Text(); got != input {
		t.Fatalf("tree text differs from input:\n got %q\nwant %q", got, input)
	}
	return res, bag
}

func parseOK(t *testing.T, input string) *syntax.Element {
	t.Helper()
	res, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %s", input, diagnosticsSummary(bag))
	}
	return res.Root
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// kinds lists the kinds of el's direct children.
func kinds(el *syntax.Element) []token.Kind {
	var out []token.Kind
	for _, c := range el.ChildrenWithTokens() {
		out = append(out, c.Kind())
	}
	return out
}

func expectKinds(t *testing.T, el *syntax.Element, want ...token.Kind) {
	t.Helper()
	got := kinds(el)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("%v children = %v, want %v\n%s", el.Kind(), got, want, syntax.DumpString(el))
	}
}
