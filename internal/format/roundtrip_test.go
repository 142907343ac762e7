package format

import (
	"math"
	"strings"
	"testing"

	"tomlfmt/internal/config"
)

const mixedDocument = `# top comment
title="example"   # trailing

[owner]
name = "Tom"
dob=1979-05-27T07:32:00-08:00

[database]
ports = [ 8000,8001,
  8002 ]
data = [ ["delta", "phi"], [3.14] ]
temp_targets = { cpu = 79.5, case = 72.0 }
special = [ nan, inf, -inf, 0xdead_beef ]

[[products]]
name="Hammer"
sku  = 738594937

[[products]]  # second
name = "Nail"
`

func TestCheckRoundTrip(t *testing.T) {
	ok, msg := CheckRoundTrip("file.toml", []byte(mixedDocument), config.Default())
	if !ok {
		t.Fatalf("round trip failed: %s", msg)
	}
}

func TestCheckRoundTripRejectsBadInput(t *testing.T) {
	ok, msg := CheckRoundTrip("file.toml", []byte("a = 1\na = 2\n"), config.Default())
	if ok || !strings.Contains(msg, "input does not decode") {
		t.Fatalf("duplicate keys must be reported, got ok=%v msg=%q", ok, msg)
	}
}

func TestSameValue(t *testing.T) {
	nan := math.NaN()
	if !sameValue(map[string]any{"x": nan}, map[string]any{"x": nan}) {
		t.Fatalf("NaN must equal NaN")
	}
	if sameValue(map[string]any{"x": 1.0}, map[string]any{"x": 2.0}) {
		t.Fatalf("different floats compared equal")
	}
	if sameValue([]any{int64(1)}, []any{int64(1), int64(2)}) {
		t.Fatalf("different lengths compared equal")
	}
	if !sameValue([]map[string]any{{"a": "b"}}, []map[string]any{{"a": "b"}}) {
		t.Fatalf("equal tables compared different")
	}
}

func TestFormatMixedDocument(t *testing.T) {
	got := formatString(t, "file.toml", mixedDocument, config.Default())
	want := `# top comment
title = "example" # trailing

[owner]
name = "Tom"
dob = 1979-05-27T07:32:00-08:00

[database]
ports = [8000, 8001, 8002]
data = [["delta", "phi"], [3.14]]
temp_targets = { cpu = 79.5, case = 72.0 }
special = [nan, inf, -inf, 0xdead_beef]

[[products]]
name = "Hammer"
sku = 738594937

[[products]] # second
name = "Nail"
`
	if got != want {
		t.Fatalf("mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}
