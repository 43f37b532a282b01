package lsp

import (
	"context"
	"encoding/json"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/sourcegraph/jsonrpc2"
)

func (h *Handler) handleTextDocumentDidOpen(_ context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return err
	}
	h.didOpen(params)
	return nil
}

func (h *Handler) didOpen(params protocol.DidOpenTextDocumentParams) {
	doc := h.workspace.AddDocument(params.TextDocument)
	if h.isCpp(doc) {
		h.model.Schedule(string(doc.URI), doc.Text.Text(), doc.Text.Revision())
	}
}

func (h *Handler) handleTextDocumentDidChange(_ context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return err
	}
	return h.didChange(params)
}

// didChange expects full document sync; the last change carries the text.
func (h *Handler) didChange(params protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	doc, err := h.workspace.UpdateDocument(params.TextDocument, change.Text)
	if err != nil {
		return err
	}
	if h.isCpp(doc) {
		h.model.Schedule(string(doc.URI), doc.Text.Text(), doc.Text.Revision())
	}
	return nil
}

func (h *Handler) handleTextDocumentDidClose(ctx context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return err
	}
	h.didClose(ctx, params)
	return nil
}

func (h *Handler) didClose(ctx context.Context, params protocol.DidCloseTextDocumentParams) {
	docURI := params.TextDocument.URI
	h.workspace.RemoveDocument(docURI)
	h.model.Remove(string(docURI))
	if h.session.uri == docURI {
		h.collector.Reset()
		h.session = session{}
	}
	h.publish(ctx, protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: []protocol.Diagnostic{},
	})
}
