package driver

import (
	"fortio.org/safecast"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/parser"
	"tomlfmt/internal/source"
	"tomlfmt/internal/syntax"
	"tomlfmt/internal/token"
)

// ParseResult is a parsed document together with everything needed to
// render its diagnostics.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Root    *syntax.Element
	Bag     *diag.Bag
}

// TokenizeResult lists every token of a document, trivia included.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Parse loads and parses path. "-" is not special here; the CLI reads stdin
// and calls ParseSource.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseFile(fs, fs.Get(id), maxDiagnostics)
}

// ParseSource parses an in-memory document.
func ParseSource(name string, src []byte, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.AddVirtual(name, src)
	if err != nil {
		return nil, err
	}
	return parseFile(fs, fs.Get(id), maxDiagnostics)
}

func parseFile(fs *source.FileSet, file *source.File, maxDiagnostics int) (*ParseResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 256
	}
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	res := parser.ParseFile(file, parser.Options{
		MaxErrors: maxErrors,
		Reporter:  &diag.BagReporter{Bag: bag},
	})
	return &ParseResult{FileSet: fs, File: file, Root: res.Root, Bag: bag}, nil
}

// Tokenize returns the tokens of path in source order. Tokens are read off
// the syntax tree, so bare runs are classified as keys or values the same
// way the parser saw them.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	pr, err := Parse(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return tokensOf(pr), nil
}

// TokenizeSource is Tokenize for an in-memory document.
func TokenizeSource(name string, src []byte, maxDiagnostics int) (*TokenizeResult, error) {
	pr, err := ParseSource(name, src, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return tokensOf(pr), nil
}

func tokensOf(pr *ParseResult) *TokenizeResult {
	els := pr.Root.Tokens()
	toks := make([]token.Token, 0, len(els)+1)
	for _, el := range els {
		toks = append(toks, token.Token{
			Kind: el.Kind(),
			Span: source.Span{File: pr.File.ID, Start: el.Offset(), End: el.End()},
			Text: el.Text(),
		})
	}
	end := uint32(0)
	if len(els) > 0 {
		end = els[len(els)-1].End()
	}
	toks = append(toks, token.Token{Kind: token.EOF, Span: source.Span{File: pr.File.ID, Start: end, End: end}})
	return &TokenizeResult{FileSet: pr.FileSet, File: pr.File, Tokens: toks, Bag: pr.Bag}
}
