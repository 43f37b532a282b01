package textedit

// MoveMode tells SetPosition whether the anchor follows the position.
type MoveMode int

const (
	MoveAnchor MoveMode = iota
	KeepAnchor
)

// Cursor is a selection in a Document from anchor to position. Cursors are
// values; copies move independently over the same Document.
type Cursor struct {
	doc      *Document
	anchor   int
	position int
}

func NewCursor(doc *Document) Cursor {
	return Cursor{doc: doc}
}

func (c Cursor) Document() *Document {
	return c.doc
}

func (c Cursor) IsNull() bool {
	return c.doc == nil
}

func (c Cursor) Position() int {
	return c.position
}

func (c Cursor) Anchor() int {
	return c.anchor
}

func (c *Cursor) SetPosition(pos int, mode MoveMode) {
	if c.doc == nil {
		return
	}
	pos = c.doc.clamp(pos)
	c.position = pos
	if mode == MoveAnchor {
		c.anchor = pos
	}
}

func (c Cursor) HasSelection() bool {
	return c.anchor != c.position
}

func (c Cursor) SelectionStart() int {
	return min(c.anchor, c.position)
}

func (c Cursor) SelectionEnd() int {
	return max(c.anchor, c.position)
}

func (c Cursor) SelectedText() string {
	if c.doc == nil {
		return ""
	}
	return c.doc.Slice(c.SelectionStart(), c.SelectionEnd())
}

// BlockNumber is the 0-based line of the position.
func (c Cursor) BlockNumber() int {
	if c.doc == nil {
		return 0
	}
	return c.doc.FindBlock(c.position).Number()
}

// ColumnNumber is the 0-based byte column of the position.
func (c Cursor) ColumnNumber() int {
	if c.doc == nil {
		return 0
	}
	return c.position - c.doc.FindBlock(c.position).Position()
}

// InsertText replaces the selection with text and leaves the cursor after it.
func (c *Cursor) InsertText(text string) {
	if c.doc == nil {
		return
	}
	start := c.SelectionStart()
	c.doc.Replace(start, c.SelectionEnd(), text)
	c.anchor = start + len(text)
	c.position = c.anchor
}

func (c *Cursor) RemoveSelectedText() {
	c.InsertText("")
}
