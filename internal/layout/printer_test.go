package layout

import (
	"errors"
	"testing"
)

func defaultOpts(width int) Options {
	return Options{LineWidth: width, IndentWidth: 2, NewLine: "\n"}
}

func mustPrint(t *testing.T, items []Item, opt Options) string {
	t.Helper()
	out, err := Print(items, opt)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	return out
}

// list builds "[a, b]" with a trailing comma only when broken.
func list(id GroupID, force bool, values ...string) []Item {
	inner := []Item{PossibleNewLine}
	for i, v := range values {
		if i > 0 {
			inner = append(inner, SpaceOrNewLine)
		}
		inner = append(inner, Text(v))
		if i < len(values)-1 {
			inner = append(inner, Text(","))
		} else {
			inner = append(inner, Condition{Name: "trailingComma", Resolve: IsBroken(id), True: []Item{Text(",")}})
		}
	}
	return []Item{
		Text("["),
		Group{ID: id, Break: force, Items: []Item{Indent{Items: inner}, PossibleNewLine}},
		Text("]"),
	}
}

func TestGroupFlatWhenFits(t *testing.T) {
	got := mustPrint(t, list(1, false, "1", "2"), defaultOpts(6))
	if got != "[1, 2]" {
		t.Fatalf("got %q", got)
	}
}

func TestGroupBreaksWhenTooWide(t *testing.T) {
	got := mustPrint(t, list(1, false, "1", "2"), defaultOpts(5))
	want := "[\n  1,\n  2,\n]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestForcedBreak(t *testing.T) {
	got := mustPrint(t, list(1, true, "1"), defaultOpts(80))
	if got != "[\n  1,\n]" {
		t.Fatalf("got %q", got)
	}
}

func TestInnerGroupFitsInsideBrokenOuter(t *testing.T) {
	items := []Item{Text("[")}
	inner := list(2, false, "aaaa", "bbbb")
	items = append(items, Group{ID: 1, Break: true, Items: []Item{
		Indent{Items: append([]Item{PossibleNewLine}, append(inner, Condition{Resolve: IsBroken(1), True: []Item{Text(",")}})...)},
		PossibleNewLine,
	}}, Text("]"))
	got := mustPrint(t, items, defaultOpts(16))
	want := "[\n  [aaaa, bbbb],\n]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpectNewLineAfterSuffix(t *testing.T) {
	items := []Item{Text("a"), Suffix(" # c"), ExpectNewLine, Text("b"), ExpectNewLine, NewLine, Text("c")}
	got := mustPrint(t, items, defaultOpts(80))
	if got != "a # c\nb\nc" {
		t.Fatalf("got %q", got)
	}
}

func TestCommentInsideGroupForcesBreak(t *testing.T) {
	items := []Item{Text("["), Group{ID: 1, Items: []Item{Indent{Items: []Item{
		PossibleNewLine, Text("1"), Text(","), Suffix(" # one"), ExpectNewLine, SpaceOrNewLine, Text("2"),
		Condition{Resolve: IsBroken(1), True: []Item{Text(",")}},
	}}, PossibleNewLine}}, Text("]")}
	got := mustPrint(t, items, defaultOpts(80))
	want := "[\n  1, # one\n  2,\n]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSuffixInRestDoesNotBreakGroup(t *testing.T) {
	items := append(list(1, false, "1", "2"), Suffix(" # a rather long trailing comment"), ExpectNewLine)
	got := mustPrint(t, items, defaultOpts(10))
	if got != "[1, 2] # a rather long trailing comment" {
		t.Fatalf("got %q", got)
	}
}

func TestNoNewLinesKeepsFlat(t *testing.T) {
	items := []Item{Text("t = "), NoNewLines{Items: []Item{Text("{ a = ")}}}
	items = append(items, NoNewLines{Items: list(1, false, "1", "2", "3")}, NoNewLines{Items: []Item{Text(" }")}})
	got := mustPrint(t, items, defaultOpts(5))
	if got != "t = { a = [1, 2, 3] }" {
		t.Fatalf("got %q", got)
	}
}

func TestNoNewLinesHonoursHardBreaks(t *testing.T) {
	got := mustPrint(t, []Item{NoNewLines{Items: []Item{Text("a"), NewLine, Text("b")}}}, defaultOpts(80))
	if got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestRawIsNotIndented(t *testing.T) {
	items := []Item{Indent{Items: []Item{NewLine, Text("s = "), Raw("\"\"\"\r\nline\r\n  two\"\"\""), NewLine, Text("x")}}}
	got := mustPrint(t, items, defaultOpts(80))
	want := "\n  s = \"\"\"\nline\n  two\"\"\"\n  x"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCRLFAndTabs(t *testing.T) {
	opt := Options{LineWidth: 3, IndentWidth: 4, UseTabs: true, NewLine: "\r\n"}
	got := mustPrint(t, list(1, false, "1", "2"), opt)
	if got != "[\r\n\t1,\r\n\t2,\r\n]" {
		t.Fatalf("got %q", got)
	}
}

func TestWideRunesCountDouble(t *testing.T) {
	// "[漢字, 1]" is 9 columns wide
	if got := mustPrint(t, list(1, false, "漢字", "1"), defaultOpts(9)); got != "[漢字, 1]" {
		t.Fatalf("got %q", got)
	}
	if got := mustPrint(t, list(1, false, "漢字", "1"), defaultOpts(8)); got == "[漢字, 1]" {
		t.Fatalf("wide runes should not fit in 8 columns")
	}
}

func TestStartOfLineCondition(t *testing.T) {
	space := Condition{Name: "spaceIfNotStartOfLine", Resolve: Not(IsStartOfLine), True: []Item{Text(" ")}}
	items := []Item{space, Text("#a"), ExpectNewLine, NewLine, Text("x"), space, Text("#b")}
	got := mustPrint(t, items, defaultOpts(80))
	if got != "#a\nx #b" {
		t.Fatalf("got %q", got)
	}

	// a pending line break counts as the start of a line
	items = []Item{Text("x"), space, Text("#a"), ExpectNewLine, space, Text("#b")}
	if got := mustPrint(t, items, defaultOpts(80)); got != "x #a\n#b" {
		t.Fatalf("got %q", got)
	}
}

func TestWrittenSince(t *testing.T) {
	var ids IDs
	start := ids.Marker()
	eof := Condition{Resolve: WrittenSince(start), True: []Item{NewLine}}
	if got := mustPrint(t, []Item{Marker{ID: start}, eof}, defaultOpts(80)); got != "" {
		t.Fatalf("empty document should stay empty, got %q", got)
	}
	if got := mustPrint(t, []Item{Marker{ID: start}, Text("a"), eof}, defaultOpts(80)); got != "a\n" {
		t.Fatalf("got %q", got)
	}
	if got := mustPrint(t, []Item{Marker{ID: start}, Suffix("# c"), ExpectNewLine, eof}, defaultOpts(80)); got != "# c\n" {
		t.Fatalf("pending line break must be written once, got %q", got)
	}

	m := ids.Marker()
	items := []Item{
		Marker{ID: m},
		Condition{Resolve: WrittenSince(m), True: []Item{Text("yes")}, False: []Item{Text("no")}},
		Text("-"),
		Condition{Resolve: WrittenSince(m), True: []Item{Text("yes")}, False: []Item{Text("no")}},
	}
	if got := mustPrint(t, items, defaultOpts(80)); got != "no-yes" {
		t.Fatalf("got %q", got)
	}
}

func TestUnknownGroupIsAnError(t *testing.T) {
	_, err := Print([]Item{Condition{Resolve: IsBroken(42)}}, defaultOpts(80))
	var lerr *LayoutError
	if !errors.As(err, &lerr) || lerr.Kind != LayoutErrUnknownGroup {
		t.Fatalf("err = %v", err)
	}
}

func TestBadOptions(t *testing.T) {
	for _, opt := range []Options{
		{LineWidth: 0, IndentWidth: 2, NewLine: "\n"},
		{LineWidth: 80, IndentWidth: 0, NewLine: "\n"},
		{LineWidth: 80, IndentWidth: 2, NewLine: "\r"},
	} {
		_, err := Print(nil, opt)
		var lerr *LayoutError
		if !errors.As(err, &lerr) || lerr.Kind != LayoutErrBadOptions {
			t.Fatalf("options %+v: err = %v", opt, err)
		}
	}
}

func TestIDsAreDistinct(t *testing.T) {
	var ids IDs
	a, b := ids.Group(), ids.Group()
	if a == 0 || a == b {
		t.Fatalf("group ids %d %d", a, b)
	}
}
