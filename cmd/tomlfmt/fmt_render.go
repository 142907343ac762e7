package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"tomlfmt/internal/diagfmt"
	"tomlfmt/internal/driver"
	"tomlfmt/internal/format"
)

var (
	diffHeader  = color.New(color.Bold)
	diffHunk    = color.New(color.FgCyan)
	diffAdded   = color.New(color.FgGreen)
	diffRemoved = color.New(color.FgRed)
	pathChanged = color.New(color.FgYellow)
	summaryOK   = color.New(color.FgGreen)
	summaryBad  = color.New(color.FgRed, color.Bold)
)

// fmtRenderer prints fmt results. Reports go to out, problems to errOut.
type fmtRenderer struct {
	out    io.Writer
	errOut io.Writer
	flags  fmtFlags
	source []byte // stdin document, re-parsed for diagnostics
}

func newFmtRenderer(out, errOut io.Writer, flags fmtFlags) *fmtRenderer {
	return &fmtRenderer{out: out, errOut: errOut, flags: flags}
}

func (r *fmtRenderer) render(results []driver.Result) error {
	if r.flags.format == "json" {
		return r.renderJSON(results)
	}
	r.renderText(results)
	return nil
}

func (r *fmtRenderer) renderText(results []driver.Result) {
	for _, res := range results {
		if res.Err != nil {
			r.reportError(res)
			continue
		}
		switch {
		case r.flags.stdout:
			_, _ = r.out.Write(res.Formatted)
		case r.flags.diff:
			if res.Changed {
				writeDiff(r.out, res.Diff)
			}
		case r.flags.check:
			if res.Changed && !r.flags.quiet {
				fmt.Fprintln(r.out, res.Path)
			}
		default:
			if res.Changed && !r.flags.quiet {
				fmt.Fprintf(r.out, "formatted %s\n", pathChanged.Sprint(res.Path))
			}
		}
	}
	if !r.flags.quiet && !r.flags.stdout {
		r.summary(driver.Summarize(results))
	}
}

func (r *fmtRenderer) summary(s driver.Summary) {
	verb := "formatted"
	if r.flags.check || r.flags.diff {
		verb = "need formatting"
	}
	line := fmt.Sprintf("%d %s checked, %d %s", s.Total, plural(s.Total, "file", "files"), s.Changed, verb)
	if s.Cached > 0 {
		line += fmt.Sprintf(", %d cached", s.Cached)
	}
	if s.Failed > 0 {
		fmt.Fprintln(r.errOut, summaryBad.Sprintf("%s, %d failed", line, s.Failed))
		return
	}
	fmt.Fprintln(r.errOut, summaryOK.Sprint(line))
}

// reportError prints a per-file failure. Parse errors are re-parsed so every
// diagnostic shows with its source excerpt.
func (r *fmtRenderer) reportError(res driver.Result) {
	var perr *format.ParseError
	if errors.As(res.Err, &perr) {
		if pr, err := r.reparse(res.Path); err == nil && pr.Bag.Len() > 0 {
			diagfmt.Pretty(r.errOut, pr.Bag, pr.FileSet, diagfmt.PrettyOpts{
				Color:     stderrColor(),
				Context:   1,
				ShowNotes: true,
				Max:       r.flags.maxDiagnostic,
			})
			return
		}
	}
	var verr *driver.VerifyError
	if errors.As(res.Err, &verr) {
		fmt.Fprintf(r.errOut, "%s: verification failed: %s\n", verr.Path, verr.Msg)
		return
	}
	msg := res.Err.Error()
	if !strings.Contains(msg, res.Path) {
		msg = res.Path + ": " + msg
	}
	fmt.Fprintf(r.errOut, "fmt: %s\n", msg)
}

func writeDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			diffHeader.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			diffHunk.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			diffAdded.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			diffRemoved.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

type fmtFileJSON struct {
	Path        string                   `json:"path"`
	Changed     bool                     `json:"changed"`
	Cached      bool                     `json:"cached,omitempty"`
	ElapsedMS   float64                  `json:"elapsed_ms"`
	Diff        string                   `json:"diff,omitempty"`
	Error       string                   `json:"error,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type fmtReportJSON struct {
	Check   bool          `json:"check"`
	Total   int           `json:"total"`
	Changed int           `json:"changed"`
	Cached  int           `json:"cached"`
	Failed  int           `json:"failed"`
	Files   []fmtFileJSON `json:"files"`
}

func (r *fmtRenderer) renderJSON(results []driver.Result) error {
	sum := driver.Summarize(results)
	report := fmtReportJSON{
		Check:   r.flags.check || r.flags.diff,
		Total:   sum.Total,
		Changed: sum.Changed,
		Cached:  sum.Cached,
		Failed:  sum.Failed,
		Files:   make([]fmtFileJSON, 0, len(results)),
	}
	for _, res := range results {
		file := fmtFileJSON{
			Path:      res.Path,
			Changed:   res.Changed,
			Cached:    res.Cached,
			ElapsedMS: float64(res.Elapsed) / float64(time.Millisecond),
			Diff:      res.Diff,
		}
		if res.Err != nil {
			file.Error = res.Err.Error()
			file.Diagnostics = r.diagnosticsJSON(res)
		}
		report.Files = append(report.Files, file)
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (r *fmtRenderer) diagnosticsJSON(res driver.Result) []diagfmt.DiagnosticJSON {
	var perr *format.ParseError
	if !errors.As(res.Err, &perr) {
		return nil
	}
	pr, err := r.reparse(res.Path)
	if err != nil {
		return nil
	}
	out := diagfmt.BuildDiagnosticsOutput(pr.Bag, pr.FileSet, diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		Max:              r.flags.maxDiagnostic,
	})
	return out.Diagnostics
}

func (r *fmtRenderer) reparse(path string) (*driver.ParseResult, error) {
	if r.source != nil {
		return driver.ParseSource(path, r.source, r.flags.maxDiagnostic)
	}
	return driver.Parse(path, r.flags.maxDiagnostic)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
