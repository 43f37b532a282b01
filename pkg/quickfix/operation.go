package quickfix

import (
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

// Operation is a quick fix offered at a cursor. Description has no side
// effects; Apply edits the document and is called at most once.
type Operation interface {
	Description() string
	Apply(cursor textedit.Cursor)
}

// State is what a Provider sees when it is asked for operations.
type State struct {
	Doc        *cplusplus.Document
	Snapshot   *cplusplus.Snapshot
	TextCursor textedit.Cursor
}

// BaseOperation carries the document, snapshot and cursor an operation was
// computed against, and maps token indices to editor positions. Embed it in
// concrete operations.
type BaseOperation struct {
	doc        *cplusplus.Document
	snapshot   *cplusplus.Snapshot
	textCursor textedit.Cursor
}

func NewBaseOperation(state *State) BaseOperation {
	return BaseOperation{
		doc:        state.Doc,
		snapshot:   state.Snapshot,
		textCursor: state.TextCursor,
	}
}

func (op BaseOperation) Document() *cplusplus.Document {
	return op.doc
}

func (op BaseOperation) Snapshot() *cplusplus.Snapshot {
	return op.snapshot
}

func (op BaseOperation) TextCursor() textedit.Cursor {
	return op.textCursor
}

func (op BaseOperation) unit() *cplusplus.TranslationUnit {
	return op.doc.TranslationUnit()
}

func (op BaseOperation) TokenAt(index int) cplusplus.Token {
	return op.unit().TokenAt(index)
}

func (op BaseOperation) TokenStartPosition(index int) (line, column int) {
	return op.unit().GetTokenStartPosition(index)
}

func (op BaseOperation) TokenEndPosition(index int) (line, column int) {
	return op.unit().GetTokenEndPosition(index)
}

// Text returns the source of node as it was when the document was parsed.
func (op BaseOperation) Text(node cplusplus.Node) string {
	return op.unit().Text(node)
}

// positionFor maps a 1-based line and column to an offset in the live
// document. Lines past the end map to the end of the document.
func (op BaseOperation) positionFor(line, column int) int {
	doc := op.textCursor.Document()
	block := doc.FindBlockByNumber(line - 1)
	if !block.IsValid() {
		return doc.Len()
	}
	return block.Position() + column - 1
}

// CursorForNode selects the text of node.
func (op BaseOperation) CursorForNode(node cplusplus.Node) textedit.Cursor {
	startLine, startColumn := op.TokenStartPosition(node.FirstToken())
	endLine, endColumn := op.TokenEndPosition(node.LastToken() - 1)

	tc := textedit.NewCursor(op.textCursor.Document())
	tc.SetPosition(op.positionFor(startLine, startColumn), textedit.MoveAnchor)
	tc.SetPosition(op.positionFor(endLine, endColumn), textedit.KeepAnchor)
	return tc
}

// CursorForToken selects the text of the token at index.
func (op BaseOperation) CursorForToken(index int) textedit.Cursor {
	tk := op.TokenAt(index)
	tc := op.MoveAtStartOfToken(index)
	tc.SetPosition(tc.Position()+tk.Length, textedit.KeepAnchor)
	return tc
}

// MoveAtStartOfToken returns an empty cursor before the token at index.
func (op BaseOperation) MoveAtStartOfToken(index int) textedit.Cursor {
	line, column := op.TokenStartPosition(index)
	tc := op.textCursor
	tc.SetPosition(op.positionFor(line, column), textedit.MoveAnchor)
	return tc
}

// MoveAtEndOfToken returns an empty cursor after the token at index.
func (op BaseOperation) MoveAtEndOfToken(index int) textedit.Cursor {
	tk := op.TokenAt(index)
	line, column := op.TokenStartPosition(index)
	tc := op.textCursor
	tc.SetPosition(op.positionFor(line, column)+tk.Length, textedit.MoveAnchor)
	return tc
}
