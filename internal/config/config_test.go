package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomlfmt/internal/diag"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 120, cfg.LineWidth)
	assert.Equal(t, 2, cfg.IndentWidth)
	assert.False(t, cfg.UseTabs)
	assert.Equal(t, NewLineLF, cfg.NewLineKind)
	assert.True(t, cfg.CommentForceLeadingSpace)
	assert.True(t, cfg.CargoApplyConventions)
	require.NoError(t, cfg.Validate())
}

func TestResolveOverrides(t *testing.T) {
	cfg, diags := Resolve(map[string]any{
		"lineWidth":                int64(80),
		"indentWidth":              uint64(4),
		"useTabs":                  true,
		"newLineKind":              "CRLF",
		"commentForceLeadingSpace": false,
		"cargoApplyConventions":    false,
	})
	require.Empty(t, diags)
	assert.Equal(t, Configuration{
		LineWidth:   80,
		IndentWidth: 4,
		UseTabs:     true,
		NewLineKind: NewLineCRLF,
	}, cfg)
}

func TestResolveDiagnostics(t *testing.T) {
	cfg, diags := Resolve(map[string]any{
		"lineWidth":   "wide",
		"indentWidth": int64(0),
		"useTabs":     "yes",
		"newLineKind": "mac",
		"colour":      true,
	})
	require.Len(t, diags, 5)
	assert.Equal(t, Default(), cfg)
	assert.True(t, HasErrors(diags))

	byCode := map[diag.Code]int{}
	for _, d := range diags {
		byCode[d.Code]++
	}
	assert.Equal(t, 4, byCode[diag.CfgInvalidValue])
	assert.Equal(t, 1, byCode[diag.CfgUnknownKey])

	// sorted key order
	assert.Contains(t, diags[0].Message, "colour")
	assert.Equal(t, diag.SevWarning, diags[0].Severity)
	assert.Contains(t, diags[1].Message, `"indentWidth"`)
}

func TestResolveIntegerForms(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
		ok    bool
	}{
		{"int", 90, 90, true},
		{"int64", int64(90), 90, true},
		{"uint64", uint64(90), 90, true},
		{"whole float", float64(90), 90, true},
		{"fractional float", 90.5, 0, false},
		{"huge uint64", uint64(1) << 63, 0, false},
		{"negative", int64(-1), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, diags := Resolve(map[string]any{"lineWidth": tt.value})
			if tt.ok {
				require.Empty(t, diags)
				assert.Equal(t, tt.want, cfg.LineWidth)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, diag.CfgInvalidValue, diags[0].Code)
			assert.Equal(t, 120, cfg.LineWidth)
		})
	}
}

func TestNewLineText(t *testing.T) {
	assert.Equal(t, "\n", NewLineLF.Text([]byte("a\r\nb\r\n")))
	assert.Equal(t, "\r\n", NewLineCRLF.Text([]byte("a\nb\n")))
	assert.Equal(t, "\r\n", NewLineAuto.Text([]byte("a\r\nb\r\nc\n")))
	assert.Equal(t, "\n", NewLineAuto.Text([]byte("a\r\nb\n")))
	assert.Equal(t, "\n", NewLineAuto.Text([]byte("no newline")))
	assert.Equal(t, "\r\n", systemNewLine("windows"))
	assert.Equal(t, "\n", systemNewLine("linux"))

	_, err := ParseNewLineKind("cr")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LineWidth = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.IndentWidth = MaxIndentWidth + 1
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.NewLineKind = "cr"
	require.Error(t, cfg.Validate())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tomlfmt.toml", `lineWidth = 80
useTabs = true
newLineKind = 42
extra = 1

[nested]
key = "v"
`)
	cfg, diags, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.LineWidth)
	assert.True(t, cfg.UseTabs)
	assert.Equal(t, NewLineLF, cfg.NewLineKind)

	var unknownKeys, invalid int
	for _, d := range diags {
		switch d.Code {
		case diag.CfgUnknownKey:
			unknownKeys++
		case diag.CfgInvalidValue:
			invalid++
			assert.Contains(t, d.Message, "newLineKind")
		}
	}
	assert.Equal(t, 2, unknownKeys)
	assert.Equal(t, 1, invalid)
}

func TestLoadTOMLSyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tomlfmt.toml", "lineWidth = = 1\n")
	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".tomlfmt.yaml", "lineWidth: 100\nindentWidth: 4\ncargoApplyConventions: false\nbogus: 1\n")
	cfg, diags, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.LineWidth)
	assert.Equal(t, 4, cfg.IndentWidth)
	assert.False(t, cfg.CargoApplyConventions)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CfgUnknownKey, diags[0].Code)
}

func TestMarshalRoundTrip(t *testing.T) {
	want := Default()
	want.LineWidth = 100
	want.NewLineKind = NewLineAuto

	data, err := Marshal(want)
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "tomlfmt.toml", string(data))
	got, diags, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, diags)
	assert.Equal(t, want, got)

	data, err = MarshalYAML(want)
	require.NoError(t, err)
	path = writeFile(t, t.TempDir(), ".tomlfmt.yml", string(data))
	got, diags, err = Load(path)
	require.NoError(t, err)
	require.Empty(t, diags)
	assert.Equal(t, want, got)
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	want := writeFile(t, root, ".tomlfmt.yaml", "lineWidth: 90\n")
	got, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// tomlfmt.toml wins over the yaml file in the same directory
	want = writeFile(t, root, "tomlfmt.toml", "lineWidth = 90\n")
	got, ok, err = Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
