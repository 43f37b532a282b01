package quickfix

import (
	"errors"
	"log/slog"

	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/model"
)

var (
	// ErrUnsupportedEditor is returned for editors that are not C++ editors.
	ErrUnsupportedEditor = errors.New("editor kind not supported")
	// ErrNotReady means no parse exists yet for the document.
	ErrNotReady = errors.New("semantic info not ready")
	// ErrStaleSnapshot means the document changed after its last parse.
	ErrStaleSnapshot = errors.New("outdated semantic info")
	// ErrNoQuickFixes means no provider had anything to offer.
	ErrNoQuickFixes = errors.New("no quick fixes available")
)

// Model is the parse service the Collector reads semantic info from.
type Model interface {
	SemanticInfo(fileName string) (model.SemanticInfo, bool)
	Snapshot() *cplusplus.Snapshot
	Schedule(fileName string, text string, revision int)
}

// Phase is the state of a Collector session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseReady
	PhaseApplying
	PhaseStale
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseReady:
		return "ready"
	case PhaseApplying:
		return "applying"
	case PhaseStale:
		return "stale"
	}
	return "unknown"
}

// Item is one entry of the selection list.
type Item struct {
	Description string
	Index       int
}

// Collector finds the quick fixes available at an editor's cursor and applies
// the one the user picks. It is not safe for concurrent use.
type Collector struct {
	model     Model
	providers []Provider

	editor     Editor
	phase      Phase
	path       []cplusplus.Node
	quickFixes []Operation
}

func NewCollector(m Model, providers []Provider) *Collector {
	return &Collector{model: m, providers: providers}
}

func (c *Collector) SupportsEditor(editor Editor) bool {
	return editor != nil && editor.Kind() == EditorCpp
}

// TriggersCompletion is always false; quick fixes are only shown on request.
func (c *Collector) TriggersCompletion(Editor) bool {
	return false
}

// BeginResolution collects the operations available at the editor's cursor.
// It returns the position the selection list is anchored at, or -1 with the
// reason when nothing can be offered.
func (c *Collector) BeginResolution(editor Editor) (int, error) {
	c.Reset()
	if !c.SupportsEditor(editor) {
		return -1, ErrUnsupportedEditor
	}
	c.editor = editor
	c.phase = PhaseResolving

	live := editor.Document()
	info, ok := c.model.SemanticInfo(editor.FileName())
	if !ok {
		c.phase = PhaseIdle
		c.model.Schedule(editor.FileName(), live.Text(), live.Revision())
		return -1, ErrNotReady
	}
	if info.Revision != live.Revision() {
		slog.Warn("Outdated semantic info, scheduling reparse",
			"file", editor.FileName(), "parsed", info.Revision, "live", live.Revision())
		c.phase = PhaseStale
		c.model.Schedule(editor.FileName(), live.Text(), live.Revision())
		return -1, ErrStaleSnapshot
	}
	if info.Doc.IsEmpty() {
		c.phase = PhaseIdle
		return -1, ErrNoQuickFixes
	}

	cursor := editor.TextCursor()
	c.path = NewASTPath(info.Doc).ForCursor(cursor)
	state := &State{
		Doc:        info.Doc,
		Snapshot:   c.model.Snapshot(),
		TextCursor: cursor,
	}
	for _, p := range c.providers {
		ops := p.Offer(state, c.path)
		slog.Debug("Quick fix provider", "provider", p.Name(), "operations", len(ops))
		c.quickFixes = append(c.quickFixes, ops...)
	}
	if len(c.quickFixes) == 0 {
		c.phase = PhaseIdle
		return -1, ErrNoQuickFixes
	}
	c.phase = PhaseReady
	return editor.Position(), nil
}

// Operations lists the pending operations in the order they were produced.
func (c *Collector) Operations() []Item {
	items := make([]Item, 0, len(c.quickFixes))
	for i, op := range c.quickFixes {
		items = append(items, Item{Description: op.Description(), Index: i})
	}
	return items
}

// Path is the AST path computed by the last successful resolution.
func (c *Collector) Path() []cplusplus.Node {
	return c.path
}

func (c *Collector) Phase() Phase {
	return c.phase
}

// ApplyOperation applies the pending operation at index with the editor's
// current cursor and ends the session. Indices outside the list are ignored.
func (c *Collector) ApplyOperation(index int) bool {
	if c.phase != PhaseReady || index < 0 || index >= len(c.quickFixes) {
		slog.Debug("Ignoring quick fix selection", "index", index, "pending", len(c.quickFixes), "phase", c.phase)
		return false
	}
	op := c.quickFixes[index]
	c.phase = PhaseApplying
	op.Apply(c.editor.TextCursor())
	c.Reset()
	return true
}

// Reset drops the pending operations. Call it whenever a session ends.
func (c *Collector) Reset() {
	c.quickFixes = nil
	c.path = nil
	c.editor = nil
	c.phase = PhaseIdle
}
