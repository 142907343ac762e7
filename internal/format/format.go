package format

import (
	"context"
	"errors"
	"fmt"

	"tomlfmt/internal/cargo"
	"tomlfmt/internal/config"
	"tomlfmt/internal/diag"
	"tomlfmt/internal/layout"
	"tomlfmt/internal/observ"
	"tomlfmt/internal/parser"
	"tomlfmt/internal/source"
	"tomlfmt/internal/syntax"
	"tomlfmt/internal/trace"
)

// ErrNilSource is returned when Format is called without input.
var ErrNilSource = errors.New("format: nil source")

// maxParseErrors bounds the diagnostics kept while parsing for formatting;
// only the first one is reported.
const maxParseErrors = 16

// ParseError is the first syntax error of a document that cannot be formatted.
type ParseError struct {
	Path string
	Diag diag.Diagnostic
	Pos  source.LineCol
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Diag.Message)
}

// Format returns the canonical text of src. changed is false when the output
// equals the input with any byte-order mark removed. src is never modified.
func Format(path string, src []byte, cfg config.Configuration) (out []byte, changed bool, err error) {
	return FormatContext(context.Background(), path, src, cfg)
}

// FormatContext is Format with tracing and timing taken from ctx.
func FormatContext(ctx context.Context, path string, src []byte, cfg config.Configuration) (out []byte, changed bool, err error) {
	if src == nil {
		return nil, false, ErrNilSource
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("format: %w", err)
	}
	ph := phasesFrom(ctx)

	file, root, err := parseDocument(ph, path, src)
	if err != nil {
		return nil, false, err
	}

	if cfg.CargoApplyConventions && cargo.IsCargoTomlFile(path) {
		end := ph.begin(trace.PhaseCargoSort)
		root = cargo.ApplyConventions(root)
		end("")
	}

	end := ph.begin(trace.PhaseGenerate)
	items := generate(root, cfg)
	end("")

	end = ph.begin(trace.PhasePrint)
	text, err := layout.Print(items, layout.Options{
		LineWidth:   cfg.LineWidth,
		IndentWidth: cfg.IndentWidth,
		UseTabs:     cfg.UseTabs,
		NewLine:     cfg.NewLineText(file.Content),
	})
	end("")
	if err != nil {
		return nil, false, fmt.Errorf("%s: layout failed: %w", path, err)
	}
	return []byte(text), text != string(file.Content), nil
}

// parseDocument decodes and parses src, failing on the first syntax error.
func parseDocument(ph phases, path string, src []byte) (*source.File, *syntax.Element, error) {
	end := ph.begin(trace.PhaseDecode)
	fs := source.NewFileSet()
	id, err := fs.AddVirtual(path, src)
	end("")
	if err != nil {
		return nil, nil, err
	}
	file := fs.Get(id)

	end = ph.begin(trace.PhaseParse)
	bag := diag.NewBag(maxParseErrors)
	res := parser.ParseFile(file, parser.Options{
		MaxErrors: maxParseErrors,
		Reporter:  &diag.BagReporter{Bag: bag},
	})
	end(fmt.Sprintf("errors=%d", res.Errors))
	if first, ok := bag.FirstError(); ok {
		return nil, nil, &ParseError{Path: path, Diag: first, Pos: file.Position(first.Primary.Start)}
	}
	return file, res.Root, nil
}

// phases reports each formatting step as a trace span and, when a timer is
// attached to the context, as a timed phase.
type phases struct {
	ctx   context.Context
	timer *observ.Timer
}

func phasesFrom(ctx context.Context) phases {
	return phases{ctx: ctx, timer: observ.TimerFromContext(ctx)}
}

func (p phases) begin(phase trace.Phase) func(note string) {
	sp := trace.StartPhase(p.ctx, phase)
	idx := -1
	if p.timer != nil {
		idx = p.timer.Begin(string(phase))
	}
	return func(note string) {
		sp.End(note)
		if p.timer != nil {
			p.timer.End(idx, note)
		}
	}
}
