package quickfix

import (
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

// ASTPath finds the nodes of a document that contain a position, outermost
// first. It can be reused for any number of queries on the same document.
type ASTPath struct {
	doc    *cplusplus.Document
	line   int
	column int
	nodes  []cplusplus.Node
}

func NewASTPath(doc *cplusplus.Document) *ASTPath {
	return &ASTPath{doc: doc}
}

// At returns the path for a 1-based line and column.
func (p *ASTPath) At(line, column int) []cplusplus.Node {
	p.nodes = nil
	p.line = line
	p.column = column
	if p.doc.IsEmpty() {
		return nil
	}
	cplusplus.Walk(p, p.doc.TranslationUnit().AST())
	return p.nodes
}

// ForCursor returns the path at the position of cursor.
func (p *ASTPath) ForCursor(cursor textedit.Cursor) []cplusplus.Node {
	return p.At(cursor.BlockNumber()+1, cursor.ColumnNumber()+1)
}

// Visit keeps node and descends into it only if its span contains the
// target. The start is inclusive and the end exclusive.
//
//nolint:ireturn
func (p *ASTPath) Visit(node cplusplus.Node) cplusplus.Visitor {
	if !cplusplus.HasTokenSpan(node) {
		return nil
	}
	unit := p.doc.TranslationUnit()

	startLine, startColumn := unit.GetTokenStartPosition(node.FirstToken())
	if p.line < startLine || (p.line == startLine && p.column < startColumn) {
		return nil
	}

	endLine, endColumn := unit.GetTokenEndPosition(node.LastToken() - 1)
	if p.line > endLine || (p.line == endLine && p.column >= endColumn) {
		return nil
	}

	p.nodes = append(p.nodes, node)
	return p
}

// Innermost returns the last node of path, or nil.
//
//nolint:ireturn
func Innermost(path []cplusplus.Node) cplusplus.Node {
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// FindInnermost returns the deepest node of the given kind in path.
//
//nolint:ireturn
func FindInnermost(path []cplusplus.Node, kind string) (cplusplus.Node, int) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Kind() == kind {
			return path[i], i
		}
	}
	return nil, -1
}
