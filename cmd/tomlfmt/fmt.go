package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tomlfmt/internal/config"
	"tomlfmt/internal/driver"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [path...]",
	Short: "Format TOML files",
	Long: `Format rewrites every .toml file under the given paths (default: the current
directory) in place. Use "-" to read a document from stdin and write the
result to stdout.

Exit status is 0 when nothing needed changing or every file was written,
1 when --check or --diff found unformatted files, and 2 when a file could
not be formatted.`,
	RunE: runFmt,
}

func init() {
	f := fmtCmd.Flags()
	f.Bool("check", false, "report unformatted files without writing them")
	f.Bool("stdout", false, "print formatted documents to stdout instead of rewriting files")
	f.Bool("diff", false, "print a unified diff for unformatted files (implies --check)")
	f.String("format", "text", "report format (text|json)")
	f.Int("jobs", 0, "max parallel workers (0=GOMAXPROCS)")
	f.Bool("cache", false, "skip files already known to be formatted")
	f.Bool("clear-cache", false, "drop cached entries before formatting (implies --cache)")
	f.Bool("verify", false, "check that formatting preserves every value")
	f.String("ui", "auto", "show progress UI (auto|on|off)")
	f.String("stdin-filepath", "", "path used for config lookup and Cargo detection when reading stdin")
	addConfigFlags(f)
}

const (
	exitChanged = 1
	exitFailed  = 2
)

type fmtFlags struct {
	check         bool
	stdout        bool
	diff          bool
	format        string
	jobs          int
	cache         bool
	clearCache    bool
	verify        bool
	ui            uiMode
	stdinPath     string
	quiet         bool
	maxDiagnostic int
}

func readFmtFlags(cmd *cobra.Command) (fmtFlags, error) {
	var f fmtFlags
	var err error
	fs := cmd.Flags()
	if f.check, err = fs.GetBool("check"); err != nil {
		return f, err
	}
	if f.stdout, err = fs.GetBool("stdout"); err != nil {
		return f, err
	}
	if f.diff, err = fs.GetBool("diff"); err != nil {
		return f, err
	}
	if f.format, err = fs.GetString("format"); err != nil {
		return f, err
	}
	if f.jobs, err = fs.GetInt("jobs"); err != nil {
		return f, err
	}
	if f.cache, err = fs.GetBool("cache"); err != nil {
		return f, err
	}
	if f.clearCache, err = fs.GetBool("clear-cache"); err != nil {
		return f, err
	}
	if f.clearCache {
		f.cache = true
	}
	if f.verify, err = fs.GetBool("verify"); err != nil {
		return f, err
	}
	uiStr, err := fs.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.stdinPath, err = fs.GetString("stdin-filepath"); err != nil {
		return f, err
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, err
	}
	if f.maxDiagnostic, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return f, err
	}

	f.format = strings.ToLower(strings.TrimSpace(f.format))
	switch {
	case f.format != "text" && f.format != "json":
		return f, fmt.Errorf("fmt: unsupported output format %q (expected text|json)", f.format)
	case f.stdout && (f.check || f.diff):
		return f, fmt.Errorf("fmt: --stdout cannot be used with --check or --diff")
	case f.stdout && f.format != "text":
		return f, fmt.Errorf("fmt: --stdout is only supported with text output")
	case f.jobs < 0:
		return f, fmt.Errorf("fmt: --jobs must not be negative")
	}
	return f, nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	flags, err := readFmtFlags(cmd)
	if err != nil {
		return err
	}
	loader, err := newConfigLoader(cmd, os.Stderr)
	if err != nil {
		return err
	}
	opts := driver.FormatOptions{
		Check:   flags.check || flags.diff,
		Stdout:  flags.stdout,
		Diff:    flags.diff,
		Verify:  flags.verify,
		Jobs:    flags.jobs,
		Resolve: loader.Resolve,
	}

	if len(args) == 1 && args[0] == "-" {
		return runFmtStdin(cmd.Context(), os.Stdin, cmd.OutOrStdout(), flags, opts)
	}
	for _, arg := range args {
		if arg == "-" {
			return fmt.Errorf("fmt: \"-\" cannot be combined with other paths")
		}
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	if flags.cache && !flags.stdout {
		cache, err := driver.OpenCache("tomlfmt")
		if err == nil && flags.clearCache {
			err = cache.Clear()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "tomlfmt: cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	results, err := formatWithProgress(cmd.Context(), args, flags, opts)
	if err != nil {
		if errors.Is(err, driver.ErrNoFiles) {
			if !flags.quiet {
				fmt.Fprintln(os.Stderr, "tomlfmt: no TOML files found")
			}
			return nil
		}
		return err
	}

	r := newFmtRenderer(cmd.OutOrStdout(), os.Stderr, flags)
	if err := r.render(results); err != nil {
		return err
	}
	return fmtExit(driver.Summarize(results), flags)
}

func formatWithProgress(ctx context.Context, args []string, flags fmtFlags, opts driver.FormatOptions) ([]driver.Result, error) {
	if flags.stdout || flags.quiet || flags.format != "text" || flags.ui == uiModeOff {
		return driver.FormatPaths(ctx, args, opts)
	}
	files, err := driver.CollectFiles(ctx, args)
	if err != nil {
		return nil, err
	}
	if !shouldUseTUI(flags.ui, len(files)) {
		return driver.FormatPaths(ctx, files, opts)
	}
	return runFormatWithUI(ctx, "tomlfmt fmt", files, opts)
}

// runFmtStdin formats one document from in. The formatted text goes to out
// unless --check or --diff is set.
func runFmtStdin(ctx context.Context, in io.Reader, out io.Writer, flags fmtFlags, opts driver.FormatOptions) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("fmt: read stdin: %w", err)
	}
	name := flags.stdinPath
	if name == "" {
		name = "<stdin>"
		// без пути конфиг ищем от текущей директории
		if resolve := opts.Resolve; resolve != nil {
			opts.Resolve = func(string) (config.Configuration, error) { return resolve("") }
		}
	}
	res := driver.FormatSource(ctx, name, src, opts)
	if res.Err != nil {
		res.Path = name
		r := newFmtRenderer(out, os.Stderr, flags)
		r.source = src
		if err := r.render([]driver.Result{res}); err != nil {
			return err
		}
		return &exitError{code: exitFailed}
	}

	switch {
	case flags.diff:
		if res.Changed {
			writeDiff(out, res.Diff)
			return &exitError{code: exitChanged}
		}
	case flags.check:
		if res.Changed {
			if !flags.quiet {
				fmt.Fprintln(out, name)
			}
			return &exitError{code: exitChanged}
		}
	case flags.format == "json":
		r := newFmtRenderer(out, os.Stderr, flags)
		return r.render([]driver.Result{res})
	default:
		if _, err := out.Write(res.Formatted); err != nil {
			return fmt.Errorf("fmt: write stdout: %w", err)
		}
	}
	return nil
}

func fmtExit(sum driver.Summary, flags fmtFlags) error {
	switch {
	case sum.Failed > 0:
		return &exitError{code: exitFailed}
	case (flags.check || flags.diff) && sum.Changed > 0:
		return &exitError{code: exitChanged}
	}
	return nil
}
