package lsp

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
)

const testURI protocol.DocumentURI = "file:///work/a.cpp"

type fakeClient struct {
	mu          sync.Mutex
	diagnostics []protocol.PublishDiagnosticsParams
	edits       []protocol.ApplyWorkspaceEditParams
}

func (c *fakeClient) Notify(_ context.Context, method string, params any, _ ...jsonrpc2.CallOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if method == protocol.MethodTextDocumentPublishDiagnostics {
		//nolint:forcetypeassert
		c.diagnostics = append(c.diagnostics, params.(protocol.PublishDiagnosticsParams))
	}
	return nil
}

func (c *fakeClient) Call(_ context.Context, method string, params, result any, _ ...jsonrpc2.CallOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if method == protocol.MethodWorkspaceApplyEdit {
		//nolint:forcetypeassert
		c.edits = append(c.edits, params.(protocol.ApplyWorkspaceEditParams))
	}
	return json.Unmarshal([]byte(`{"applied":true}`), result)
}

func (c *fakeClient) appliedEdits() []protocol.ApplyWorkspaceEditParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.ApplyWorkspaceEditParams(nil), c.edits...)
}

func (c *fakeClient) published(docURI protocol.DocumentURI) []protocol.PublishDiagnosticsParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []protocol.PublishDiagnosticsParams
	for _, d := range c.diagnostics {
		if d.URI == docURI {
			out = append(out, d)
		}
	}
	return out
}

// newTestHandler returns a handler whose parse goroutine has already stopped,
// so documents are only parsed when a test asks for it.
func newTestHandler(t *testing.T) (*Handler, *fakeClient) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := newHandler(ctx, config.Default())
	client := &fakeClient{}
	h.setClient(client)
	return h, client
}

func openDocument(t *testing.T, h *Handler, text string) *WorkspaceDocument {
	t.Helper()
	h.didOpen(protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        testURI,
			LanguageID: "cpp",
			Version:    1,
			Text:       text,
		},
	})
	doc, err := h.workspace.Document(testURI)
	require.NoError(t, err)
	return doc
}

func parseDocument(t *testing.T, h *Handler, doc *WorkspaceDocument) {
	t.Helper()
	_, err := h.model.Parse(context.Background(), string(doc.URI), doc.Text.Text(), doc.Text.Revision())
	require.NoError(t, err)
}

func codeActionsAt(t *testing.T, h *Handler, text, marker string) []protocol.CodeAction {
	t.Helper()
	offset := strings.Index(text, marker)
	require.GreaterOrEqual(t, offset, 0)
	actions, err := h.codeActions(context.Background(), protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: uint32(offset)},
			End:   protocol.Position{Line: 0, Character: uint32(offset)},
		},
	})
	require.NoError(t, err)
	return actions
}

func execute(ctx context.Context, h *Handler, action protocol.CodeAction) error {
	return h.executeCommand(ctx, protocol.ExecuteCommandParams{
		Command:   action.Command.Command,
		Arguments: action.Command.Arguments,
	})
}

const swapSource = "bool f(int a, int b){ return a <= b; }"

func TestCodeActionAndApply(t *testing.T) {
	h, client := newTestHandler(t)
	doc := openDocument(t, h, swapSource)
	parseDocument(t, h, doc)

	actions := codeActionsAt(t, h, swapSource, "a <=")
	require.Len(t, actions, 1)
	action := actions[0]
	assert.Equal(t, "Rewrite using >=", action.Title)
	assert.Equal(t, codeActionKindQuickFix, action.Kind)
	require.NotNil(t, action.Command)
	assert.Equal(t, CommandApply, action.Command.Command)
	assert.Equal(t, []any{ApplyArguments{URI: testURI, Revision: 0, Offset: 29, Index: 0}}, action.Command.Arguments)

	require.NoError(t, execute(context.Background(), h, action))
	assert.Equal(t, "bool f(int a, int b){ return b >= a; }", doc.Text.Text())

	require.Eventually(t, func() bool {
		return len(client.appliedEdits()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	edits := client.appliedEdits()[0].Edit.Changes[testURI]
	require.Len(t, edits, 1)
	assert.Equal(t, "b >= a", edits[0].NewText)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 29},
		End:   protocol.Position{Line: 0, Character: 35},
	}, edits[0].Range)
}

func TestExecuteCommandResolvesAgain(t *testing.T) {
	h, client := newTestHandler(t)
	doc := openDocument(t, h, swapSource)
	parseDocument(t, h, doc)

	actions := codeActionsAt(t, h, swapSource, "a <=")
	require.Len(t, actions, 1)
	// A later request elsewhere ends the session the action belongs to.
	assert.Empty(t, codeActionsAt(t, h, swapSource, "bool"))

	require.NoError(t, execute(context.Background(), h, actions[0]))
	assert.Equal(t, "bool f(int a, int b){ return b >= a; }", doc.Text.Text())
	require.Eventually(t, func() bool {
		return len(client.appliedEdits()) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestExecuteCommandOutdatedRevision(t *testing.T) {
	h, client := newTestHandler(t)
	doc := openDocument(t, h, swapSource)
	parseDocument(t, h, doc)

	actions := codeActionsAt(t, h, swapSource, "a <=")
	require.Len(t, actions, 1)

	changed := "bool f(int a, int b){ return a <= b ; }"
	changeDocument(t, h, 2, changed)

	require.NoError(t, execute(context.Background(), h, actions[0]))
	assert.Equal(t, changed, doc.Text.Text())
	assert.Empty(t, client.appliedEdits())
}

func changeDocument(t *testing.T, h *Handler, version int32, text string) {
	t.Helper()
	require.NoError(t, h.didChange(protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                version,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: text}},
	}))
}

func TestCodeActionsParseOnDemand(t *testing.T) {
	h, _ := newTestHandler(t)
	doc := openDocument(t, h, swapSource)

	require.Len(t, codeActionsAt(t, h, swapSource, "a <="), 1)

	changed := "bool f(int a, int b){ return a >= b; }"
	changeDocument(t, h, 2, changed)
	actions := codeActionsAt(t, h, changed, "a >=")
	require.Len(t, actions, 1)
	assert.Equal(t, "Rewrite using <=", actions[0].Title)

	info, ok := h.model.SemanticInfo(string(testURI))
	require.True(t, ok)
	assert.Equal(t, doc.Text.Revision(), info.Revision)
}

func TestCodeActionsRightAfterChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHandler(ctx, config.Default())
	h.setClient(&fakeClient{})

	openDocument(t, h, "int x;")
	for version := int32(2); version <= 21; version++ {
		changeDocument(t, h, version, swapSource)
		require.Len(t, codeActionsAt(t, h, swapSource, "a <="), 1, "version %d", version)
	}
}

func TestCodeActionsPlainText(t *testing.T) {
	h, _ := newTestHandler(t)
	h.didOpen(protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        "file:///work/notes.txt",
			LanguageID: "plaintext",
			Text:       swapSource,
		},
	})
	doc, err := h.workspace.Document("file:///work/notes.txt")
	require.NoError(t, err)
	parseDocument(t, h, doc)

	actions, err := h.codeActions(context.Background(), protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI},
		Range:        protocol.Range{Start: protocol.Position{Character: 29}},
	})
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestExecuteCommandErrors(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	err := h.executeCommand(ctx, protocol.ExecuteCommandParams{Command: "other"})
	require.ErrorIs(t, err, ErrUnknownCommand)

	err = h.executeCommand(ctx, protocol.ExecuteCommandParams{Command: CommandApply})
	require.ErrorIs(t, err, ErrUnknownCommand)

	err = h.executeCommand(ctx, protocol.ExecuteCommandParams{
		Command:   CommandApply,
		Arguments: []any{ApplyArguments{URI: "file:///work/missing.cpp"}},
	})
	require.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = h.codeActions(context.Background(), protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/missing.cpp"},
	})
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestASTPath(t *testing.T) {
	h, _ := newTestHandler(t)
	openDocument(t, h, "int f(){ return 0; }")

	nodes, err := h.astPath(context.Background(), protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Position:     protocol.Position{Line: 0, Character: 16},
	})
	require.NoError(t, err)

	kinds := make([]string, 0, len(nodes))
	for _, n := range nodes {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []string{
		"translation_unit",
		"function_definition",
		"compound_statement",
		"return_statement",
		"number_literal",
	}, kinds)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 16},
		End:   protocol.Position{Line: 0, Character: 17},
	}, nodes[4].Range)

	info, ok := h.model.SemanticInfo(string(testURI))
	require.True(t, ok)
	assert.Equal(t, 0, info.Revision)
}

func TestDidCloseClearsDocument(t *testing.T) {
	h, client := newTestHandler(t)
	doc := openDocument(t, h, swapSource)
	parseDocument(t, h, doc)
	require.Len(t, codeActionsAt(t, h, swapSource, "a <="), 1)

	h.didClose(context.Background(), protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})

	_, err := h.workspace.Document(testURI)
	require.ErrorIs(t, err, ErrDocumentNotFound)
	_, ok := h.model.SemanticInfo(string(testURI))
	assert.False(t, ok)
	assert.Equal(t, session{}, h.session)

	published := client.published(testURI)
	require.NotEmpty(t, published)
	assert.Empty(t, published[len(published)-1].Diagnostics)
}

func TestBackgroundParsePublishesDiagnostics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHandler(ctx, config.Default())
	client := &fakeClient{}
	h.setClient(client)

	openDocument(t, h, "int f( { return; }\n")

	require.Eventually(t, func() bool {
		for _, p := range client.published(testURI) {
			if len(p.Diagnostics) > 0 {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	for _, p := range client.published(testURI) {
		for _, d := range p.Diagnostics {
			assert.Equal(t, diagnosticSource, d.Source)
			assert.Equal(t, protocol.DiagnosticSeverityError, d.Severity)
		}
	}
}

func TestInitializeLoadsWorkspaceConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.ConfigFileName, "quickfix:\n  providers:\n    swap-operands: false\n")

	h, _ := newTestHandler(t)
	require.NoError(t, h.initialize(context.Background(), protocol.InitializeParams{
		RootURI: protocol.DocumentURI("file://" + dir),
	}))
	assert.False(t, h.config.QuickFix.ProviderEnabled("swap-operands", true))

	doc := openDocument(t, h, swapSource)
	parseDocument(t, h, doc)
	assert.Empty(t, codeActionsAt(t, h, swapSource, "a <="))
}
