package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/model"
	"github.com/lavigneer/cppquickfix-lsp/pkg/quickfix"
	"github.com/lavigneer/cppquickfix-lsp/pkg/reporter"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotCppFile       = errors.New("not a C++ file")
	ErrDocumentNotFound = errors.New("document not loaded")
	ErrInvalidPosition  = errors.New("position outside document")
)

// Project holds C++ files loaded from disk and answers path and quick fix
// queries on them without an editor attached.
type Project struct {
	rootPath string
	config   *config.Config
	model    *model.Manager

	mu        sync.Mutex
	documents map[string]*textedit.Document
}

func New(rootPath string, cfg *config.Config) *Project {
	return &Project{
		rootPath:  rootPath,
		config:    cfg,
		model:     model.NewManager(cplusplus.NewParser()),
		documents: make(map[string]*textedit.Document),
	}
}

func (p *Project) Path(name string) string {
	if filepath.IsAbs(name) || p.rootPath == "" {
		return name
	}
	return filepath.Join(p.rootPath, name)
}

// Load reads and parses files concurrently.
func (p *Project) Load(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			return p.AddFile(ctx, name)
		})
	}
	return g.Wait()
}

func (p *Project) AddFile(ctx context.Context, name string) error {
	path := p.Path(name)
	if !p.config.Parse.IsCppFile(path) {
		return fmt.Errorf("%w: %s", ErrNotCppFile, path)
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.AddDocument(ctx, path, string(text))
}

// AddDocument registers text under path and parses it. Reloading a known path
// with different text counts as an edit of that document.
func (p *Project) AddDocument(ctx context.Context, path string, text string) error {
	p.mu.Lock()
	doc, ok := p.documents[path]
	if !ok {
		doc = textedit.NewDocument(text)
		p.documents[path] = doc
	} else if doc.Text() != text {
		doc.SetText(text)
	}
	revision := doc.Revision()
	p.mu.Unlock()

	_, err := p.model.Parse(ctx, path, text, revision)
	return err
}

// Inspect resolves the AST path and the quick fixes at a 1-based position.
func (p *Project) Inspect(name string, line, column int) (reporter.Result, error) {
	path := p.Path(name)
	result := reporter.Result{File: name, Line: line, Column: column}

	p.mu.Lock()
	doc, ok := p.documents[path]
	p.mu.Unlock()
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	editor := quickfix.NewTextEditor(path, quickfix.EditorCpp, doc)
	if !editor.SetCursorLineColumn(line, column) {
		return result, fmt.Errorf("%w: %s:%d:%d", ErrInvalidPosition, name, line, column)
	}

	info, ok := p.model.SemanticInfo(path)
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	unit := info.Doc.TranslationUnit()
	for _, n := range quickfix.NewASTPath(info.Doc).ForCursor(editor.TextCursor()) {
		startLine, startColumn := unit.GetTokenStartPosition(n.FirstToken())
		endLine, endColumn := unit.GetTokenEndPosition(n.LastToken() - 1)
		result.Path = append(result.Path, reporter.PathEntry{
			Kind:        n.Kind(),
			StartLine:   startLine,
			StartColumn: startColumn,
			EndLine:     endLine,
			EndColumn:   endColumn,
		})
	}

	collector := quickfix.NewCollector(p.model, quickfix.Providers(p.config.QuickFix))
	defer collector.Reset()
	if _, err := collector.BeginResolution(editor); err != nil {
		result.Reason = err.Error()
		return result, nil
	}
	for _, item := range collector.Operations() {
		result.QuickFixes = append(result.QuickFixes, item.Description)
	}
	return result, nil
}

// Apply runs the quick fix at index for a 1-based position and returns the
// resulting text. The loaded document is updated and reparsed.
func (p *Project) Apply(ctx context.Context, name string, line, column, index int) (string, error) {
	path := p.Path(name)
	p.mu.Lock()
	doc, ok := p.documents[path]
	p.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	editor := quickfix.NewTextEditor(path, quickfix.EditorCpp, doc)
	if !editor.SetCursorLineColumn(line, column) {
		return "", fmt.Errorf("%w: %s:%d:%d", ErrInvalidPosition, name, line, column)
	}

	collector := quickfix.NewCollector(p.model, quickfix.Providers(p.config.QuickFix))
	if _, err := collector.BeginResolution(editor); err != nil {
		return "", err
	}
	if collector.ApplyOperation(index) {
		if _, err := p.model.Parse(ctx, path, doc.Text(), doc.Revision()); err != nil {
			return "", err
		}
	}
	return doc.Text(), nil
}
