package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fortio.org/safecast"

	"tomlfmt/internal/diag"
)

// Configuration holds the resolved formatting options.
type Configuration struct {
	LineWidth                int         `toml:"lineWidth" yaml:"lineWidth"`
	UseTabs                  bool        `toml:"useTabs" yaml:"useTabs"`
	IndentWidth              int         `toml:"indentWidth" yaml:"indentWidth"`
	NewLineKind              NewLineKind `toml:"newLineKind" yaml:"newLineKind"`
	CommentForceLeadingSpace bool        `toml:"commentForceLeadingSpace" yaml:"commentForceLeadingSpace"`
	CargoApplyConventions    bool        `toml:"cargoApplyConventions" yaml:"cargoApplyConventions"`
}

const (
	KeyLineWidth                = "lineWidth"
	KeyUseTabs                  = "useTabs"
	KeyIndentWidth              = "indentWidth"
	KeyNewLineKind              = "newLineKind"
	KeyCommentForceLeadingSpace = "commentForceLeadingSpace"
	KeyCargoApplyConventions    = "cargoApplyConventions"
)

// MaxIndentWidth caps indentWidth; larger values would make nesting unreadable.
const MaxIndentWidth = 255

// Keys lists every recognised key in the order the default file writes them.
var Keys = []string{
	KeyLineWidth,
	KeyUseTabs,
	KeyIndentWidth,
	KeyNewLineKind,
	KeyCommentForceLeadingSpace,
	KeyCargoApplyConventions,
}

// Default returns the configuration used when no file or flag overrides a key.
func Default() Configuration {
	return Configuration{
		LineWidth:                120,
		UseTabs:                  false,
		IndentWidth:              2,
		NewLineKind:              NewLineLF,
		CommentForceLeadingSpace: true,
		CargoApplyConventions:    true,
	}
}

// Validate reports the first out-of-range field.
func (c Configuration) Validate() error {
	if c.LineWidth <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyLineWidth, c.LineWidth)
	}
	if c.IndentWidth <= 0 || c.IndentWidth > MaxIndentWidth {
		return fmt.Errorf("%s must be in 1..%d, got %d", KeyIndentWidth, MaxIndentWidth, c.IndentWidth)
	}
	if _, err := ParseNewLineKind(string(c.NewLineKind)); err != nil {
		return err
	}
	return nil
}

// Resolve applies raw key/value pairs on top of Default. Unknown keys produce
// warnings; values of the wrong type or out of range produce errors and keep
// the default for that key.
func Resolve(raw map[string]any) (Configuration, []diag.Diagnostic) {
	cfg := Default()
	var diags []diag.Diagnostic
	if err := Apply(&cfg, raw, &diags); err != nil {
		diags = append(diags, invalid("", err.Error()))
	}
	return cfg, diags
}

// Apply overlays raw onto cfg, appending diagnostics for rejected entries.
// Keys are visited in sorted order so diagnostics are stable.
func Apply(cfg *Configuration, raw map[string]any, diags *[]diag.Diagnostic) error {
	if cfg == nil || diags == nil {
		return fmt.Errorf("config: nil destination")
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := raw[key]
		switch key {
		case KeyLineWidth:
			n, err := asInt(value)
			switch {
			case err != nil:
				*diags = append(*diags, invalid(key, err.Error()))
			case n <= 0:
				*diags = append(*diags, invalid(key, fmt.Sprintf("must be positive, got %d", n)))
			default:
				cfg.LineWidth = n
			}
		case KeyIndentWidth:
			n, err := asInt(value)
			switch {
			case err != nil:
				*diags = append(*diags, invalid(key, err.Error()))
			case n <= 0 || n > MaxIndentWidth:
				*diags = append(*diags, invalid(key, fmt.Sprintf("must be in 1..%d, got %d", MaxIndentWidth, n)))
			default:
				cfg.IndentWidth = n
			}
		case KeyUseTabs:
			applyBool(&cfg.UseTabs, key, value, diags)
		case KeyCommentForceLeadingSpace:
			applyBool(&cfg.CommentForceLeadingSpace, key, value, diags)
		case KeyCargoApplyConventions:
			applyBool(&cfg.CargoApplyConventions, key, value, diags)
		case KeyNewLineKind:
			s, ok := value.(string)
			if !ok {
				*diags = append(*diags, invalid(key, fmt.Sprintf("expected string, got %s", typeName(value))))
				continue
			}
			kind, err := ParseNewLineKind(s)
			if err != nil {
				*diags = append(*diags, invalid(key, err.Error()))
				continue
			}
			cfg.NewLineKind = kind
		default:
			*diags = append(*diags, unknown(key))
		}
	}
	return nil
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

func applyBool(dst *bool, key string, value any, diags *[]diag.Diagnostic) {
	b, ok := value.(bool)
	if !ok {
		*diags = append(*diags, invalid(key, fmt.Sprintf("expected boolean, got %s", typeName(value))))
		return
	}
	*dst = b
}

// asInt accepts every integer type the TOML and YAML decoders produce, plus
// floats with no fractional part.
func asInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return convInt(v)
	case uint:
		return convUint(uint64(v))
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return convUint(uint64(v))
	case uint64:
		return convUint(v)
	case float64:
		if math.Trunc(v) != v {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("integer out of range: %v", v)
		}
		return convInt(int64(v))
	}
	return 0, fmt.Errorf("expected integer, got %s", typeName(value))
}

func convInt(v int64) (int, error) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, fmt.Errorf("integer out of range: %d", v)
	}
	return n, nil
}

func convUint(v uint64) (int, error) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, fmt.Errorf("integer out of range: %d", v)
	}
	return n, nil
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64:
		return "float"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", value), "*")
}

func unknown(key string) diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.CfgUnknownKey,
		Message:  fmt.Sprintf("unknown configuration key %q", key),
	}
}

func invalid(key, detail string) diag.Diagnostic {
	msg := detail
	if key != "" {
		msg = fmt.Sprintf("invalid value for %q: %s", key, detail)
	}
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.CfgInvalidValue,
		Message:  msg,
	}
}
