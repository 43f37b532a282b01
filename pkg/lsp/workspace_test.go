package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func versioned(docURI protocol.DocumentURI, version int32) protocol.VersionedTextDocumentIdentifier {
	return protocol.VersionedTextDocumentIdentifier{
		TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
		Version:                version,
	}
}

func TestWorkspaceDocuments(t *testing.T) {
	w := NewWorkspace()
	doc := w.AddDocument(protocol.TextDocumentItem{URI: testURI, LanguageID: "cpp", Version: 3, Text: "int x;"})

	assert.Equal(t, "cpp", doc.LanguageID)
	assert.Equal(t, 0, doc.Text.Revision())

	updated, err := w.UpdateDocument(versioned(testURI, 4), "int y;")
	require.NoError(t, err)
	assert.Same(t, doc, updated)
	assert.Equal(t, "int y;", doc.Text.Text())
	assert.Equal(t, int32(4), doc.Version)
	assert.Equal(t, 1, doc.Text.Revision())

	_, err = w.UpdateDocument(versioned(testURI, 2), "int z;")
	require.ErrorIs(t, err, ErrOutdatedVersion)
	assert.Equal(t, "int y;", doc.Text.Text())

	_, err = w.UpdateDocument(versioned("file:///work/other.cpp", 1), "")
	require.ErrorIs(t, err, ErrDocumentNotFound)

	w.RemoveDocument(testURI)
	_, err = w.Document(testURI)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}
