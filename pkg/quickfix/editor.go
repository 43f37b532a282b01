package quickfix

import "github.com/lavigneer/cppquickfix-lsp/pkg/textedit"

// EditorKind identifies the kind of editor a handle belongs to.
type EditorKind int

const (
	EditorUnknown EditorKind = iota
	EditorPlainText
	EditorCpp
)

func (k EditorKind) String() string {
	switch k {
	case EditorPlainText:
		return "plaintext"
	case EditorCpp:
		return "cpp"
	}
	return "unknown"
}

// Editor is the handle an editor host passes to the Collector.
type Editor interface {
	Kind() EditorKind
	FileName() string
	Document() *textedit.Document
	TextCursor() textedit.Cursor
	// Position is the offset the host anchors its selection UI at.
	Position() int
}

// TextEditor is an Editor over a textedit.Document.
type TextEditor struct {
	fileName string
	kind     EditorKind
	doc      *textedit.Document
	cursor   textedit.Cursor
}

func NewTextEditor(fileName string, kind EditorKind, doc *textedit.Document) *TextEditor {
	return &TextEditor{
		fileName: fileName,
		kind:     kind,
		doc:      doc,
		cursor:   textedit.NewCursor(doc),
	}
}

func (e *TextEditor) Kind() EditorKind {
	return e.kind
}

func (e *TextEditor) FileName() string {
	return e.fileName
}

func (e *TextEditor) Document() *textedit.Document {
	return e.doc
}

func (e *TextEditor) TextCursor() textedit.Cursor {
	return e.cursor
}

func (e *TextEditor) Position() int {
	return e.cursor.Position()
}

// SetCursorPosition moves the cursor and drops any selection.
func (e *TextEditor) SetCursorPosition(pos int) {
	e.cursor.SetPosition(pos, textedit.MoveAnchor)
}

// SetCursorLineColumn moves the cursor to a 1-based line and column. It
// reports false when the position is outside the document; the column after
// the last character of a line is inside.
func (e *TextEditor) SetCursorLineColumn(line, column int) bool {
	block := e.doc.FindBlockByNumber(line - 1)
	if !block.IsValid() || column < 1 || column > block.Length()+1 {
		return false
	}
	e.SetCursorPosition(block.Position() + column - 1)
	return true
}
