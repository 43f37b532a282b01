package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/cppquickfix-lsp/pkg/model"
	"github.com/lavigneer/cppquickfix-lsp/pkg/quickfix"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
	"github.com/lavigneer/cppquickfix-lsp/pkg/util"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	// CommandApply applies the quick fix selected from a code action list.
	CommandApply = "cppquickfix.apply"
	// MethodASTPath returns the syntax nodes containing a position.
	MethodASTPath = "cppquickfix/astPath"

	codeActionKindQuickFix protocol.CodeActionKind = "quickfix"
)

var ErrUnknownCommand = errors.New("unknown command")

// ApplyArguments is the argument of CommandApply.
type ApplyArguments struct {
	URI      protocol.DocumentURI `json:"uri"`
	Revision int                  `json:"revision"`
	Offset   int                  `json:"offset"`
	Index    int                  `json:"index"`
}

func (h *Handler) handleTextDocumentCodeAction(ctx context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.CodeActionParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	return h.codeActions(ctx, params)
}

func (h *Handler) codeActions(ctx context.Context, params protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	doc, err := h.workspace.Document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset := util.OffsetForPosition(doc.Text, params.Range.Start)
	if !h.resolve(ctx, doc, offset) {
		return []protocol.CodeAction{}, nil
	}

	items := h.collector.Operations()
	actions := make([]protocol.CodeAction, 0, len(items))
	for _, item := range items {
		actions = append(actions, protocol.CodeAction{
			Title: item.Description,
			Kind:  codeActionKindQuickFix,
			Command: &protocol.Command{
				Title:   item.Description,
				Command: CommandApply,
				Arguments: []any{ApplyArguments{
					URI:      doc.URI,
					Revision: doc.Text.Revision(),
					Offset:   offset,
					Index:    item.Index,
				}},
			},
		})
	}
	return actions, nil
}

// resolve starts a collector session at offset and remembers which document
// state it belongs to. A missing or outdated parse is redone on the spot and
// the resolution retried once.
func (h *Handler) resolve(ctx context.Context, doc *WorkspaceDocument, offset int) bool {
	h.session = session{}
	editor := h.editorFor(doc, offset)
	_, err := h.collector.BeginResolution(editor)
	if errors.Is(err, quickfix.ErrStaleSnapshot) || errors.Is(err, quickfix.ErrNotReady) {
		slog.Debug("Parsing before resolving", "uri", doc.URI, "revision", doc.Text.Revision(), "reason", err)
		if _, perr := h.model.Parse(ctx, string(doc.URI), doc.Text.Text(), doc.Text.Revision()); perr != nil {
			slog.Error("Failed to parse", "uri", doc.URI, "error", perr)
			return false
		}
		_, err = h.collector.BeginResolution(editor)
	}
	if err != nil {
		slog.Debug("No quick fixes", "uri", doc.URI, "offset", offset, "reason", err)
		return false
	}
	h.session = session{uri: doc.URI, revision: doc.Text.Revision(), offset: offset}
	return true
}

func (h *Handler) handleWorkspaceExecuteCommand(ctx context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.ExecuteCommandParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	return nil, h.executeCommand(ctx, params)
}

func (h *Handler) executeCommand(ctx context.Context, params protocol.ExecuteCommandParams) error {
	if params.Command != CommandApply {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, params.Command)
	}
	args, err := decodeApplyArguments(params.Arguments)
	if err != nil {
		return err
	}
	doc, err := h.workspace.Document(args.URI)
	if err != nil {
		return err
	}
	if doc.Text.Revision() != args.Revision {
		slog.Info("Dropping quick fix for an outdated document", "uri", args.URI, "revision", args.Revision, "live", doc.Text.Revision())
		h.collector.Reset()
		h.session = session{}
		return nil
	}

	current := session{uri: args.URI, revision: args.Revision, offset: args.Offset}
	if h.session != current || h.collector.Phase() != quickfix.PhaseReady {
		if !h.resolve(ctx, doc, args.Offset) {
			return nil
		}
	}

	before := doc.Text.Text()
	applied := h.collector.ApplyOperation(args.Index)
	h.session = session{}
	if !applied {
		return nil
	}
	after := doc.Text.Text()
	h.model.Schedule(string(doc.URI), after, doc.Text.Revision())

	start, end, text := util.DiffEdit(before, after)
	original := textedit.NewDocument(before)
	h.applyEdit(ctx, protocol.ApplyWorkspaceEditParams{
		Label: "Quick fix",
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				doc.URI: {{
					Range:   util.RangeForOffsets(original, start, end),
					NewText: text,
				}},
			},
		},
	})
	return nil
}

// applyEdit sends the edit without waiting for the reply, which arrives on the
// connection goroutine that is currently busy with this request.
func (h *Handler) applyEdit(ctx context.Context, params protocol.ApplyWorkspaceEditParams) {
	conn := h.client()
	if conn == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		var result struct {
			Applied       bool   `json:"applied"`
			FailureReason string `json:"failureReason,omitempty"`
		}
		if err := conn.Call(ctx, protocol.MethodWorkspaceApplyEdit, params, &result); err != nil {
			slog.Error("Failed to apply quick fix", "error", err)
			return
		}
		if !result.Applied {
			slog.Warn("Client rejected quick fix", "reason", result.FailureReason)
		}
	}()
}

func decodeApplyArguments(arguments []any) (ApplyArguments, error) {
	var args ApplyArguments
	if len(arguments) != 1 {
		return args, fmt.Errorf("%w: expected 1 argument, got %d", ErrUnknownCommand, len(arguments))
	}
	raw, err := json.Marshal(arguments[0])
	if err != nil {
		return args, err
	}
	err = json.Unmarshal(raw, &args)
	return args, err
}

// PathNode is one element of the MethodASTPath response.
type PathNode struct {
	Kind  string         `json:"kind"`
	Range protocol.Range `json:"range"`
}

func (h *Handler) handleASTPath(ctx context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.TextDocumentPositionParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	return h.astPath(ctx, params)
}

// astPath parses on demand when the cached parse is missing or outdated.
func (h *Handler) astPath(ctx context.Context, params protocol.TextDocumentPositionParams) ([]PathNode, error) {
	doc, err := h.workspace.Document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	info, ok := h.model.SemanticInfo(string(doc.URI))
	if !ok || info.Revision != doc.Text.Revision() {
		parsed, err := h.model.Parse(ctx, string(doc.URI), doc.Text.Text(), doc.Text.Revision())
		if err != nil {
			return nil, err
		}
		info = model.SemanticInfo{Revision: doc.Text.Revision(), Doc: parsed}
	}

	editor := h.editorFor(doc, util.OffsetForPosition(doc.Text, params.Position))
	path := quickfix.NewASTPath(info.Doc).ForCursor(editor.TextCursor())
	nodes := make([]PathNode, 0, len(path))
	for _, n := range path {
		nodes = append(nodes, PathNode{
			Kind:  n.Kind(),
			Range: util.RangeFromNode(doc.Text, info.Doc.TranslationUnit(), n),
		})
	}
	return nodes, nil
}
