package format

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/BurntSushi/toml"

	"tomlfmt/internal/config"
	"tomlfmt/internal/source"
)

// CheckRoundTrip formats src, checks that the result is stable under a second
// pass, and decodes input and output to make sure they hold the same data.
func CheckRoundTrip(path string, src []byte, cfg config.Configuration) (ok bool, msg string) {
	text, _, err := source.Decode(src)
	if err != nil {
		return false, "fmt-check: " + err.Error()
	}
	before, err := decodeTOML(text)
	if err != nil {
		return false, "fmt-check: input does not decode: " + err.Error()
	}

	formatted, _, err := Format(path, src, cfg)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}
	after, err := decodeTOML(formatted)
	if err != nil {
		return false, "fmt-check: output does not decode: " + err.Error()
	}
	if !sameValue(before, after) {
		return false, "fmt-check: decoded data differs after formatting"
	}

	again, changed, err := Format(path, formatted, cfg)
	if err != nil {
		return false, "fmt-check: reformat failed: " + err.Error()
	}
	if changed {
		return false, fmt.Sprintf("fmt-check: output is not stable (%d -> %d bytes)", len(formatted), len(again))
	}
	return true, "fmt-check: OK"
}

func decodeTOML(text []byte) (map[string]any, error) {
	var v map[string]any
	if _, err := toml.Decode(string(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// sameValue is reflect.DeepEqual with NaN equal to NaN and times compared
// by instant and zone name.
func sameValue(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !sameValue(x, y) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !sameValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []map[string]any:
		bv, ok := b.([]map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !sameValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(av) || math.IsNaN(bv) {
			return math.IsNaN(av) && math.IsNaN(bv)
		}
		return av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv) && av.Location().String() == bv.Location().String()
	}
	return reflect.DeepEqual(a, b)
}
