package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tomlfmt/internal/config"
	"tomlfmt/internal/diag"
)

func addConfigFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "use this configuration file instead of searching for one")
	fs.Int("line-width", 0, "override lineWidth")
	fs.Int("indent-width", 0, "override indentWidth")
	fs.Bool("use-tabs", false, "override useTabs")
	fs.String("newline", "", "override newLineKind (auto|lf|crlf|system)")
	fs.Bool("no-cargo-conventions", false, "do not apply Cargo.toml ordering")
	fs.Bool("no-comment-space", false, "do not force a space after '#'")
}

// configOverrides holds the flag values the user set explicitly.
type configOverrides struct {
	raw map[string]any
}

func readConfigOverrides(cmd *cobra.Command) (configOverrides, error) {
	fs := cmd.Flags()
	o := configOverrides{raw: map[string]any{}}
	if fs.Changed("line-width") {
		v, err := fs.GetInt("line-width")
		if err != nil {
			return o, err
		}
		o.raw[config.KeyLineWidth] = v
	}
	if fs.Changed("indent-width") {
		v, err := fs.GetInt("indent-width")
		if err != nil {
			return o, err
		}
		o.raw[config.KeyIndentWidth] = v
	}
	if fs.Changed("use-tabs") {
		v, err := fs.GetBool("use-tabs")
		if err != nil {
			return o, err
		}
		o.raw[config.KeyUseTabs] = v
	}
	if fs.Changed("newline") {
		v, err := fs.GetString("newline")
		if err != nil {
			return o, err
		}
		o.raw[config.KeyNewLineKind] = v
	}
	if fs.Changed("no-cargo-conventions") {
		v, err := fs.GetBool("no-cargo-conventions")
		if err != nil {
			return o, err
		}
		o.raw[config.KeyCargoApplyConventions] = !v
	}
	if fs.Changed("no-comment-space") {
		v, err := fs.GetBool("no-comment-space")
		if err != nil {
			return o, err
		}
		o.raw[config.KeyCommentForceLeadingSpace] = !v
	}
	// значения флагов проверяем сразу, до обхода файлов
	cfg := config.Default()
	var diags []diag.Diagnostic
	if err := config.Apply(&cfg, o.raw, &diags); err != nil {
		return o, err
	}
	if config.HasErrors(diags) {
		return o, fmt.Errorf("invalid flag value: %s", diags[0].Message)
	}
	return o, nil
}

// configLoader resolves the configuration for a formatted file: the nearest
// config file (or --config), then flag overrides. Files are loaded once per
// directory and their diagnostics are printed once.
type configLoader struct {
	explicit  string
	overrides configOverrides
	warn      io.Writer

	mu     sync.Mutex
	byDir  map[string]loadedConfig
	byFile map[string]loadedConfig
}

type loadedConfig struct {
	cfg      config.Configuration
	fromFile bool
	err      error
}

func newConfigLoader(cmd *cobra.Command, warn io.Writer) (*configLoader, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	overrides, err := readConfigOverrides(cmd)
	if err != nil {
		return nil, err
	}
	return &configLoader{
		explicit:  explicit,
		overrides: overrides,
		warn:      warn,
		byDir:     map[string]loadedConfig{},
		byFile:    map[string]loadedConfig{},
	}, nil
}

// Resolve implements driver.ConfigResolver.
func (l *configLoader) Resolve(path string) (config.Configuration, error) {
	lc := l.lookup(path)
	return lc.cfg, lc.err
}

// ForEditor returns the configuration for the language server; fromFile
// tells it whether editor settings may fill in.
func (l *configLoader) ForEditor(path string) (config.Configuration, bool) {
	lc := l.lookup(path)
	if lc.err != nil {
		fmt.Fprintf(l.warn, "tomlfmt: %v\n", lc.err)
		return l.apply(config.Default()), false
	}
	return lc.cfg, lc.fromFile || len(l.overrides.raw) > 0
}

func (l *configLoader) lookup(path string) loadedConfig {
	dir := "."
	if path != "" {
		dir = filepath.Dir(path)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if lc, ok := l.byDir[dir]; ok {
		return lc
	}

	cfgPath := l.explicit
	if cfgPath == "" {
		found, ok, err := config.Find(dir)
		if err != nil {
			lc := loadedConfig{cfg: config.Default(), err: err}
			l.byDir[dir] = lc
			return lc
		}
		if !ok {
			lc := loadedConfig{cfg: l.apply(config.Default())}
			l.byDir[dir] = lc
			return lc
		}
		cfgPath = found
	}

	lc, ok := l.byFile[cfgPath]
	if !ok {
		lc = l.load(cfgPath)
		l.byFile[cfgPath] = lc
	}
	l.byDir[dir] = lc
	return lc
}

func (l *configLoader) load(path string) loadedConfig {
	cfg, diags, err := config.Load(path)
	if err != nil {
		return loadedConfig{cfg: config.Default(), err: err}
	}
	for _, d := range diags {
		fmt.Fprintf(l.warn, "%s: %s %s: %s\n", path, d.Severity, d.Code.ID(), d.Message)
	}
	if config.HasErrors(diags) {
		return loadedConfig{cfg: cfg, err: fmt.Errorf("%s: invalid configuration", path)}
	}
	return loadedConfig{cfg: l.apply(cfg), fromFile: true}
}

func (l *configLoader) apply(cfg config.Configuration) config.Configuration {
	var diags []diag.Diagnostic
	_ = config.Apply(&cfg, l.overrides.raw, &diags)
	return cfg
}
