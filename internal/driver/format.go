package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"tomlfmt/internal/config"
	"tomlfmt/internal/format"
	"tomlfmt/internal/trace"
)

// ConfigResolver picks the configuration for one path, e.g. by looking up the
// nearest tomlfmt.toml.
type ConfigResolver func(path string) (config.Configuration, error)

// FormatOptions configures FormatPaths and FormatSource.
type FormatOptions struct {
	Check  bool // report only, never write
	Stdout bool // return formatted bytes instead of writing
	Diff   bool // fill Result.Diff for changed files
	Verify bool // run format.CheckRoundTrip on every formatted file
	Jobs   int  // worker count; <=0 means GOMAXPROCS

	Config   config.Configuration
	Resolve  ConfigResolver // overrides Config when set
	Cache    *Cache
	Progress ProgressSink
}

// Result captures what happened to one file.
type Result struct {
	Path      string
	Changed   bool
	Cached    bool   // skipped thanks to the cache
	Formatted []byte // set with Stdout
	Diff      string // set with Diff
	Err       error
	Elapsed   time.Duration
}

// FormatPaths formats every TOML file under paths. Results come back sorted
// by path. A failing file does not stop the others; its error sits in
// Result.Err. The returned error is reserved for collection failures and
// cancellation.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.StartRun(ctx, "fmt")
	defer span.End("")

	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	span.WithExtra("files", fmt.Sprint(len(files)))
	trace.Note(ctx, "collected", fmt.Sprintf("%d files", len(files)))

	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return err
			}
			results[i] = formatFile(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	emit(opts.Progress, Event{Stage: StageWrite, Status: StatusDone})
	return results, nil
}

// FormatSource formats an in-memory document, such as stdin. Nothing is
// written; Formatted is always set on success.
func FormatSource(ctx context.Context, path string, src []byte, opts FormatOptions) Result {
	start := time.Now()
	res := Result{Path: path}
	cfg, err := resolveConfig(path, opts)
	if err != nil {
		res.Err = err
		return res
	}
	out, changed, err := format.FormatContext(ctx, path, src, cfg)
	if err != nil {
		res.Err = err
		return res
	}
	changed = fileChanged(src, out, changed)
	res.Changed = changed
	res.Formatted = out
	if opts.Diff && changed {
		res.Diff = Diff(path, string(src), string(out))
	}
	if opts.Verify {
		if ok, msg := format.CheckRoundTrip(path, src, cfg); !ok {
			res.Err = &VerifyError{Path: path, Msg: msg}
		}
	}
	res.Elapsed = time.Since(start)
	return res
}

// VerifyError reports a round-trip check failure.
type VerifyError struct {
	Path string
	Msg  string
}

func (e *VerifyError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Msg) }

func formatFile(ctx context.Context, path string, opts FormatOptions) (res Result) {
	start := time.Now()
	ctx, span := trace.StartFile(ctx, path)
	res.Path = path
	defer func() {
		res.Elapsed = time.Since(start)
		status := StatusDone
		detail := "unchanged"
		switch {
		case res.Err != nil:
			status, detail = StatusError, res.Err.Error()
		case res.Cached:
			detail = "cached"
		case res.Changed:
			detail = "changed"
		}
		span.End(detail)
		emit(opts.Progress, Event{
			File: path, Stage: StageWrite, Status: status,
			Changed: res.Changed, Cached: res.Cached, Err: res.Err, Elapsed: res.Elapsed,
		})
	}()

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	cfg, err := resolveConfig(path, opts)
	if err != nil {
		res.Err = err
		return res
	}

	key := Key(src, cfg)
	if !opts.Verify && !opts.Stdout {
		if hit, _ := opts.Cache.Formatted(key); hit {
			trace.Note(ctx, "cache", "hit")
			res.Cached = true
			return res
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusWorking})
	out, changed, err := format.FormatContext(ctx, path, src, cfg)
	if err != nil {
		res.Err = err
		return res
	}
	changed = fileChanged(src, out, changed)
	res.Changed = changed
	if opts.Diff && changed {
		res.Diff = Diff(path, string(src), string(out))
	}

	if opts.Verify {
		emit(opts.Progress, Event{File: path, Stage: StageVerify, Status: StatusWorking})
		if ok, msg := format.CheckRoundTrip(path, src, cfg); !ok {
			res.Err = &VerifyError{Path: path, Msg: msg}
			return res
		}
	}

	switch {
	case opts.Stdout:
		res.Formatted = out
		return res
	case opts.Check:
		if !changed {
			_ = opts.Cache.MarkFormatted(key, path, len(src))
		}
		return res
	}

	if changed {
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		if err := writeFilePreservingMode(path, out); err != nil {
			res.Err = err
			return res
		}
		key = Key(out, cfg)
	}
	_ = opts.Cache.MarkFormatted(key, path, len(out))
	return res
}

// fileChanged also counts encoding-only differences: a canonical document
// behind a BOM or in UTF-16 still has to be rewritten on disk.
func fileChanged(src, out []byte, changed bool) bool {
	return changed || !bytes.Equal(src, out)
}

func resolveConfig(path string, opts FormatOptions) (config.Configuration, error) {
	if opts.Resolve == nil {
		return opts.Config, nil
	}
	cfg, err := opts.Resolve(path)
	if err != nil {
		return config.Configuration{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func writeFilePreservingMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode.Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Summary counts outcomes across results.
type Summary struct {
	Total, Changed, Cached, Failed int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Changed:
			s.Changed++
		case r.Cached:
			s.Cached++
		}
	}
	return s
}

// FirstError returns the first per-file error, in path order.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, context.Canceled) {
			return r.Err
		}
	}
	return nil
}
