package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/a-h/templ/lsp/uri"
	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/model"
	"github.com/lavigneer/cppquickfix-lsp/pkg/quickfix"
	"github.com/sourcegraph/jsonrpc2"
)

// client is the part of *jsonrpc2.Conn the handler talks back through.
type client interface {
	Notify(ctx context.Context, method string, params any, opts ...jsonrpc2.CallOption) error
	Call(ctx context.Context, method string, params, result any, opts ...jsonrpc2.CallOption) error
}

// session identifies the resolution the collector's pending list belongs to.
type session struct {
	uri      protocol.DocumentURI
	revision int
	offset   int
}

// Handler serves one client. Requests are handled one at a time on the
// connection's goroutine; only the parse goroutine runs alongside it.
type Handler struct {
	connMu sync.RWMutex
	conn   client

	config    *config.Config
	model     *model.Manager
	workspace *Workspace
	collector *quickfix.Collector
	session   session
}

//nolint:ireturn
func NewHandler(ctx context.Context) jsonrpc2.Handler {
	handler := newHandler(ctx, config.Default())
	return jsonrpc2.HandlerWithError(handler.Handle)
}

func newHandler(ctx context.Context, cfg *config.Config) *Handler {
	h := &Handler{
		workspace: NewWorkspace(),
	}
	h.model = model.NewManager(cplusplus.NewParser(), h.onParsed)
	h.configure(cfg)
	go h.model.Run(ctx)
	return h
}

func (h *Handler) configure(cfg *config.Config) {
	h.config = cfg
	h.collector = quickfix.NewCollector(h.model, quickfix.Providers(cfg.QuickFix))
	h.session = session{}
}

func (h *Handler) setClient(conn client) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.conn = conn
}

//nolint:ireturn
func (h *Handler) client() client {
	h.connMu.RLock()
	defer h.connMu.RUnlock()
	return h.conn
}

// Handle implements jsonrpc2.Handler.
//
//nolint:nilnil
func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	slog.Debug("Handling request", "method", req.Method)
	switch req.Method {
	case protocol.MethodInitialize:
		h.setClient(conn)
		return h.handleInitialize(ctx, req)
	case protocol.MethodInitialized:
		return nil, nil
	case protocol.MethodShutdown:
		return nil, nil
	case protocol.MethodExit:
		return nil, conn.Close()
	case protocol.MethodTextDocumentDidOpen:
		return nil, h.handleTextDocumentDidOpen(ctx, req)
	case protocol.MethodTextDocumentDidClose:
		return nil, h.handleTextDocumentDidClose(ctx, req)
	case protocol.MethodTextDocumentDidChange:
		return nil, h.handleTextDocumentDidChange(ctx, req)
	case protocol.MethodTextDocumentDidSave:
		return nil, nil
	case protocol.MethodTextDocumentCodeAction:
		return h.handleTextDocumentCodeAction(ctx, req)
	case protocol.MethodWorkspaceExecuteCommand:
		return h.handleWorkspaceExecuteCommand(ctx, req)
	case MethodASTPath:
		return h.handleASTPath(ctx, req)
	}
	return nil, &jsonrpc2.Error{
		Code:    jsonrpc2.CodeMethodNotFound,
		Message: fmt.Sprintf("method not supported: %s", req.Method),
	}
}

func (h *Handler) handleInitialize(ctx context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.InitializeParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	if err := h.initialize(ctx, params); err != nil {
		return nil, err
	}
	return h.capabilities(), nil
}

func (h *Handler) initialize(ctx context.Context, params protocol.InitializeParams) error {
	start := ""
	if len(params.WorkspaceFolders) > 0 {
		start = uri.New(params.WorkspaceFolders[0].URI).Filename()
	} else if params.RootURI != "" {
		start = uri.New(string(params.RootURI)).Filename()
	}
	if start == "" {
		slog.Info("No workspace folder, using default configuration")
		return nil
	}

	workspaceRoot, err := config.FindWorkspaceRoot(start)
	if err != nil {
		slog.Info("No workspace root found, using default configuration", "path", start)
		return nil
	}
	cfg, err := config.NewWithDefaults(ctx, workspaceRoot)
	if err != nil {
		return err
	}
	h.configure(cfg)

	slog.Debug("Initialized", "workspaceRoot", workspaceRoot, "providers", len(quickfix.Providers(cfg.QuickFix)))
	return nil
}

func (h *Handler) capabilities() protocol.InitializeResult {
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				Change:    protocol.TextDocumentSyncKindFull,
				OpenClose: true,
			},
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{codeActionKindQuickFix},
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandApply},
			},
		},
	}
}

// isCpp reports whether a document is handled by the C++ editor.
func (h *Handler) isCpp(doc *WorkspaceDocument) bool {
	if doc.LanguageID != "" {
		return h.config.Parse.IsCppLanguage(doc.LanguageID)
	}
	return h.config.Parse.IsCppFile(uri.New(string(doc.URI)).Filename())
}

func (h *Handler) editorFor(doc *WorkspaceDocument, offset int) *quickfix.TextEditor {
	kind := quickfix.EditorPlainText
	if h.isCpp(doc) {
		kind = quickfix.EditorCpp
	}
	editor := quickfix.NewTextEditor(string(doc.URI), kind, doc.Text)
	editor.SetCursorPosition(offset)
	return editor
}

func (h *Handler) publish(ctx context.Context, params protocol.PublishDiagnosticsParams) {
	conn := h.client()
	if conn == nil {
		return
	}
	if err := conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, params); err != nil {
		slog.Error("Failed to publish diagnostics", "uri", params.URI, "error", err)
	}
}
