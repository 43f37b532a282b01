package cplusplus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

var ErrParseFailed = errors.New("parse failed")

const (
	kindComment = "comment"
	kindError   = "ERROR"
)

// Parser turns C++ source into Documents. It recycles tree-sitter parsers and
// is safe for concurrent use.
type Parser struct {
	lang *sitter.Language
	pool sync.Pool
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_cpp.Language())
	p := &Parser{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			return sitter.NewParser()
		},
	}
	return p
}

// Parse parses source and stamps the resulting Document with revision.
func (p *Parser) Parse(ctx context.Context, fileName string, source []byte, revision int) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//nolint:forcetypeassert // the pool only holds parsers
	sp := p.pool.Get().(*sitter.Parser)
	defer func() {
		sp.Reset()
		p.pool.Put(sp)
	}()
	if err := sp.SetLanguage(p.lang); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	tree := sp.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, fileName)
	}
	defer tree.Close()

	b := &treeBuilder{source: source}
	nodes := b.visit(tree.RootNode())
	var root Node
	if len(nodes) > 0 {
		root = nodes[0]
	}
	unit := NewTranslationUnit(fileName, source, b.tokens, root)
	return NewDocument(fileName, revision, unit, b.errors), nil
}

// treeBuilder copies a tree-sitter tree into SyntaxNodes. Leaves become tokens
// and only named nodes are kept in the tree; anonymous inner nodes hand their
// named children up to the nearest named ancestor.
type treeBuilder struct {
	source []byte
	tokens []Token
	errors []SyntaxError
}

func (b *treeBuilder) visit(n *sitter.Node) []Node {
	if n == nil || n.Kind() == kindComment {
		return nil
	}
	if n.IsMissing() {
		b.errors = append(b.errors, SyntaxError{
			Offset:  int(n.StartByte()),
			Message: fmt.Sprintf("missing %q", n.Kind()),
		})
	}

	start := len(b.tokens)
	var children []Node
	if n.ChildCount() == 0 {
		if n.EndByte() > n.StartByte() {
			b.tokens = append(b.tokens, Token{
				Kind:   n.Kind(),
				Offset: int(n.StartByte()),
				Length: int(n.EndByte() - n.StartByte()),
			})
		}
	} else {
		for i := uint(0); i < n.ChildCount(); i++ {
			children = append(children, b.visit(n.Child(i))...)
		}
	}
	if n.Kind() == kindError {
		b.errors = append(b.errors, SyntaxError{
			Offset:  int(n.StartByte()),
			Length:  int(n.EndByte() - n.StartByte()),
			Message: "syntax error",
		})
	}

	if !n.IsNamed() {
		return children
	}
	first, last := 0, 0
	if len(b.tokens) > start {
		first = start + 1
		last = len(b.tokens) + 1
	}
	return []Node{NewSyntaxNode(n.Kind(), first, last, children...)}
}
