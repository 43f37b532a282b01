package quickfix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/model"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

const testFile = "test.cpp"

type fixture struct {
	model  *recordingModel
	doc    *textedit.Document
	editor *TextEditor
}

// newFixture opens text in a C++ editor and parses its current revision.
func newFixture(t *testing.T, text string) *fixture {
	t.Helper()
	f := newUnparsedFixture(text)
	_, err := f.model.Parse(context.Background(), testFile, f.doc.Text(), f.doc.Revision())
	require.NoError(t, err)
	return f
}

func newUnparsedFixture(text string) *fixture {
	doc := textedit.NewDocument(text)
	return &fixture{
		model:  &recordingModel{Manager: model.NewManager(cplusplus.NewParser())},
		doc:    doc,
		editor: NewTextEditor(testFile, EditorCpp, doc),
	}
}

func (f *fixture) parsed(t *testing.T) *cplusplus.Document {
	t.Helper()
	info, ok := f.model.SemanticInfo(testFile)
	require.True(t, ok)
	return info.Doc
}

// recordingModel remembers the revisions it was asked to reparse.
type recordingModel struct {
	*model.Manager
	scheduled []int
}

func (m *recordingModel) Schedule(fileName string, text string, revision int) {
	m.scheduled = append(m.scheduled, revision)
	m.Manager.Schedule(fileName, text, revision)
}

func kinds(path []cplusplus.Node) []string {
	out := make([]string, 0, len(path))
	for _, n := range path {
		out = append(out, n.Kind())
	}
	return out
}
