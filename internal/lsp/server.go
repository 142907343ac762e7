package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"tomlfmt/internal/config"
	"tomlfmt/internal/diag"
	"tomlfmt/internal/driver"
	"tomlfmt/internal/format"
	"tomlfmt/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")

	errNotInitialized = jsonrpc2.NewError(-32002, "server not initialized")
	errShuttingDown   = jsonrpc2.NewError(-32600, "server is shutting down")
)

// ConfigFunc returns the configuration for a document path. fromFile tells
// whether it came from a config file; if not, the editor's tab settings are
// applied on top.
type ConfigFunc func(path string) (cfg config.Configuration, fromFile bool)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Config         ConfigFunc
	MaxDiagnostics int
	Log            io.Writer // nil means stderr
}

// Server handles JSON-RPC for the tomlfmt language server.
type Server struct {
	conn jsonrpc2.Conn
	docs *documentStore

	mu                sync.Mutex
	initialized       bool
	shutdownRequested bool
	exitErr           error
	exited            chan struct{}

	configFor      ConfigFunc
	maxDiagnostics int
	log            io.Writer
}

// NewServer constructs a new LSP server.
func NewServer(opts ServerOptions) *Server {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	configFor := opts.Config
	if configFor == nil {
		configFor = func(string) (config.Configuration, bool) { return config.Default(), false }
	}
	logw := opts.Log
	if logw == nil {
		logw = os.Stderr
	}
	return &Server{
		docs:           newDocumentStore(),
		exited:         make(chan struct{}),
		configFor:      configFor,
		maxDiagnostics: maxDiagnostics,
		log:            logw,
	}
}

// Run serves rwc until the client sends "exit" or closes the stream. It
// returns ErrExit after a clean shutdown, ErrExitWithoutShutdown when exit
// came first, and nil when the stream simply ended.
func (s *Server) Run(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	conn.Go(ctx, s.Handle)

	select {
	case <-s.exited:
		_ = conn.Close()
		<-conn.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.exitErr
	case <-conn.Done():
	case <-ctx.Done():
		_ = conn.Close()
		<-conn.Done()
		return ctx.Err()
	}
	if err := conn.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
		return err
	}
	return nil
}

// Handle is the jsonrpc2.Handler for one incoming message. Messages are
// handled in arrival order.
func (s *Server) Handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.mu.Lock()
	initialized, shuttingDown := s.initialized, s.shutdownRequested
	s.mu.Unlock()

	switch req.Method() {
	case protocol.MethodInitialize:
		return s.handleInitialize(ctx, reply, req)
	case protocol.MethodExit:
		return s.handleExit(ctx, reply)
	}
	if !initialized {
		return reply(ctx, nil, errNotInitialized)
	}
	if shuttingDown {
		return reply(ctx, nil, errShuttingDown)
	}

	switch req.Method() {
	case protocol.MethodInitialized:
		return reply(ctx, nil, nil)
	case protocol.MethodShutdown:
		return s.handleShutdown(ctx, reply)
	case protocol.MethodTextDocumentDidOpen:
		return s.handleDidOpen(ctx, reply, req)
	case protocol.MethodTextDocumentDidChange:
		return s.handleDidChange(ctx, reply, req)
	case protocol.MethodTextDocumentDidSave:
		return reply(ctx, nil, nil)
	case protocol.MethodTextDocumentDidClose:
		return s.handleDidClose(ctx, reply, req)
	case protocol.MethodTextDocumentFormatting:
		return s.handleFormatting(ctx, reply, req)
	}
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	return reply(ctx, &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "tomlfmt",
			Version: version.Version,
		},
	}, nil)
}

func (s *Server) handleShutdown(ctx context.Context, reply jsonrpc2.Replier) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	for _, uri := range s.docs.clear() {
		s.publish(ctx, uri, nil)
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleExit(ctx context.Context, reply jsonrpc2.Replier) error {
	s.mu.Lock()
	select {
	case <-s.exited:
	default:
		s.exitErr = ErrExitWithoutShutdown
		if s.shutdownRequested {
			s.exitErr = ErrExit
		}
		close(s.exited)
	}
	s.mu.Unlock()
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}
	uri := string(params.TextDocument.URI)
	s.docs.put(uri, params.TextDocument.Text, int32(params.TextDocument.Version))
	s.publishDiagnostics(ctx, uri)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}
	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}
	uri := string(params.TextDocument.URI)
	// полная синхронизация: последнее изменение содержит весь текст
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.docs.put(uri, text, int32(params.TextDocument.Version))
	s.publishDiagnostics(ctx, uri)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}
	uri := string(params.TextDocument.URI)
	if s.docs.remove(uri) {
		s.publish(ctx, uri, nil)
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}
	uri := string(params.TextDocument.URI)
	doc, ok := s.docs.get(uri)
	if !ok {
		return reply(ctx, nil, fmt.Errorf("%s: document is not open: %w", uri, jsonrpc2.ErrInvalidParams))
	}
	cfg := s.configForDocument(uri, params.Options)
	edits, err := formatEdits(ctx, documentName(uri), doc.text, cfg)
	if err != nil {
		var perr *format.ParseError
		if errors.As(err, &perr) {
			// документ с ошибками не форматируем; диагностики уже опубликованы
			return reply(ctx, nil, nil)
		}
		s.logf("formatting %s: %v", uri, err)
		return reply(ctx, nil, err)
	}
	return reply(ctx, edits, nil)
}

func (s *Server) configForDocument(uri string, opts protocol.FormattingOptions) config.Configuration {
	cfg, fromFile := s.configFor(uriToPath(uri))
	if fromFile {
		return cfg
	}
	cfg.UseTabs = !opts.InsertSpaces
	if n := int(opts.TabSize); n > 0 && n <= config.MaxIndentWidth {
		cfg.IndentWidth = n
	}
	return cfg
}

// formatEdits returns a single whole-document edit, or an empty list when
// the document is already canonical.
func formatEdits(ctx context.Context, path, text string, cfg config.Configuration) ([]protocol.TextEdit, error) {
	out, changed, err := format.FormatContext(ctx, path, []byte(text), cfg)
	if err != nil {
		return nil, err
	}
	if !changed {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{Range: wholeDocument(text), NewText: string(out)}}, nil
}

func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc, ok := s.docs.get(uri)
	if !ok {
		return
	}
	s.publish(ctx, uri, s.diagnose(uri, doc.text))
}

func (s *Server) diagnose(uri, text string) []protocol.Diagnostic {
	res, err := driver.ParseSource(documentName(uri), []byte(text), s.maxDiagnostics)
	if err != nil {
		// не декодируется (например, битый UTF-8): одна диагностика на начало файла
		return []protocol.Diagnostic{{
			Range:    protocol.Range{},
			Severity: protocol.DiagnosticSeverityError,
			Code:     diag.IOInvalidUTF8.ID(),
			Source:   "tomlfmt",
			Message:  err.Error(),
		}}
	}
	content := string(res.File.Content)
	items := res.Bag.Items()
	out := make([]protocol.Diagnostic, 0, len(items))
	for _, d := range items {
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(content, int(d.Primary.Start)),
				End:   positionAt(content, int(d.Primary.End)),
			},
			Severity: severity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "tomlfmt",
			Message:  d.Message,
		})
	}
	return out
}

func severity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func (s *Server) publish(ctx context.Context, uri string, list []protocol.Diagnostic) {
	if list == nil {
		list = []protocol.Diagnostic{}
	}
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	err := conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: list,
	})
	if err != nil {
		s.logf("publish diagnostics for %s: %v", uri, err)
	}
}

// documentName is the local path for file URIs and the URI itself otherwise.
func documentName(uri string) string {
	if path := uriToPath(uri); path != "" {
		return path
	}
	return uri
}

func decodeParams(req jsonrpc2.Request, v any) error {
	raw := req.Params()
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", req.Method(), jsonrpc2.ErrInvalidParams)
	}
	return nil
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}
