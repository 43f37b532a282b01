package lsp

import (
	"errors"
	"fmt"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrOutdatedVersion  = errors.New("outdated document version")
)

// Workspace mirrors the text of the documents the client has open.
type Workspace struct {
	Documents map[protocol.DocumentURI]*WorkspaceDocument
}

func NewWorkspace() *Workspace {
	return &Workspace{
		Documents: make(map[protocol.DocumentURI]*WorkspaceDocument),
	}
}

type WorkspaceDocument struct {
	URI        protocol.DocumentURI
	LanguageID string
	Version    int32
	Text       *textedit.Document
}

func (w *Workspace) AddDocument(item protocol.TextDocumentItem) *WorkspaceDocument {
	d := &WorkspaceDocument{
		URI:        item.URI,
		LanguageID: string(item.LanguageID),
		Version:    item.Version,
		Text:       textedit.NewDocument(item.Text),
	}
	w.Documents[item.URI] = d
	return d
}

func (w *Workspace) Document(docURI protocol.DocumentURI) (*WorkspaceDocument, error) {
	d, ok := w.Documents[docURI]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, docURI)
	}
	return d, nil
}

// UpdateDocument replaces the text of an open document. Every update bumps
// the revision of the mirrored text.
func (w *Workspace) UpdateDocument(docID protocol.VersionedTextDocumentIdentifier, text string) (*WorkspaceDocument, error) {
	d, err := w.Document(docID.URI)
	if err != nil {
		return nil, err
	}
	if d.Version > docID.Version {
		return nil, fmt.Errorf("%w: %s has version %d, got %d", ErrOutdatedVersion, docID.URI, d.Version, docID.Version)
	}
	d.Version = docID.Version
	d.Text.SetText(text)
	return d, nil
}

func (w *Workspace) RemoveDocument(docURI protocol.DocumentURI) {
	delete(w.Documents, docURI)
}
