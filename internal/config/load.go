package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"tomlfmt/internal/diag"
)

// FileNames lists the configuration file names Find looks for, in priority order.
var FileNames = []string{
	"tomlfmt.toml",
	".tomlfmt.toml",
	".tomlfmt.yaml",
	".tomlfmt.yml",
}

// fileKeys mirrors Configuration with untyped fields so type errors surface
// as diagnostics from Apply instead of decoder failures.
type fileKeys struct {
	LineWidth                any `toml:"lineWidth"`
	UseTabs                  any `toml:"useTabs"`
	IndentWidth              any `toml:"indentWidth"`
	NewLineKind              any `toml:"newLineKind"`
	CommentForceLeadingSpace any `toml:"commentForceLeadingSpace"`
	CargoApplyConventions    any `toml:"cargoApplyConventions"`
}

func (f *fileKeys) field(key string) any {
	switch key {
	case KeyLineWidth:
		return f.LineWidth
	case KeyUseTabs:
		return f.UseTabs
	case KeyIndentWidth:
		return f.IndentWidth
	case KeyNewLineKind:
		return f.NewLineKind
	case KeyCommentForceLeadingSpace:
		return f.CommentForceLeadingSpace
	case KeyCargoApplyConventions:
		return f.CargoApplyConventions
	}
	return nil
}

// Load reads a configuration file. The returned error covers I/O and syntax
// failures; key-level problems come back as diagnostics.
func Load(path string) (Configuration, []diag.Diagnostic, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return loadTOML(path)
	}
}

func loadTOML(path string) (Configuration, []diag.Diagnostic, error) {
	var keys fileKeys
	meta, err := toml.DecodeFile(path, &keys)
	if err != nil {
		return Default(), nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	raw := make(map[string]any, len(Keys))
	for _, key := range Keys {
		if meta.IsDefined(key) {
			raw[key] = keys.field(key)
		}
	}
	cfg, diags := Resolve(raw)
	for _, key := range meta.Undecoded() {
		// nested keys under an unknown table are covered by the table itself
		if len(key) != 1 {
			continue
		}
		diags = append(diags, unknown(key.String()))
	}
	return cfg, diags, nil
}

func loadYAML(path string) (Configuration, []diag.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Default(), nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	cfg, diags := Resolve(raw)
	return cfg, diags, nil
}

// Find walks up from startDir to locate the nearest configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			info, statErr := os.Stat(candidate)
			if statErr == nil {
				if info.IsDir() {
					continue
				}
				return candidate, true, nil
			}
			if !errors.Is(statErr, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Marshal renders cfg as a tomlfmt.toml document.
func Marshal(cfg Configuration) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# tomlfmt configuration\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML renders cfg as a .tomlfmt.yaml document.
func MarshalYAML(cfg Configuration) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return append([]byte("# tomlfmt configuration\n"), data...), nil
}
