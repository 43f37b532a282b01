package cplusplus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "int x;\n  y = 1;\n"
func testUnit() *TranslationUnit {
	source := []byte("int x;\n  y = 1;\n")
	tokens := []Token{
		{Kind: "primitive_type", Offset: 0, Length: 3},
		{Kind: "identifier", Offset: 4, Length: 1},
		{Kind: ";", Offset: 5, Length: 1},
		{Kind: "identifier", Offset: 9, Length: 1},
		{Kind: "=", Offset: 11, Length: 1},
		{Kind: "number_literal", Offset: 13, Length: 1},
		{Kind: ";", Offset: 14, Length: 1},
	}
	root := NewSyntaxNode("translation_unit", 1, 8,
		NewSyntaxNode("declaration", 1, 4),
		NewSyntaxNode("expression_statement", 4, 8),
	)
	return NewTranslationUnit("test.cpp", source, tokens, root)
}

func TestTokenStream(t *testing.T) {
	unit := testUnit()

	assert.Equal(t, 9, unit.TokenCount())
	assert.False(t, unit.TokenAt(0).IsValid())
	assert.True(t, unit.TokenAt(1).IsValid())
	assert.True(t, unit.TokenAt(8).IsEOF())
	assert.Equal(t, 16, unit.TokenAt(8).Begin())
	assert.False(t, unit.TokenAt(42).IsValid())
	assert.False(t, unit.TokenAt(-1).IsValid())
	assert.Equal(t, "int", unit.Spell(1))
	assert.Equal(t, ";", unit.Spell(3))
	assert.Empty(t, unit.Spell(0))
}

func TestGetPosition(t *testing.T) {
	unit := testUnit()
	tests := []struct {
		offset, line, column int
	}{
		{0, 1, 1},
		{5, 1, 6},
		{6, 1, 7},
		{7, 2, 1},
		{9, 2, 3},
		{16, 3, 1},
		{100, 3, 1},
		{-4, 1, 1},
	}
	for _, tt := range tests {
		line, column := unit.GetPosition(tt.offset)
		assert.Equal(t, tt.line, line, "line of offset %d", tt.offset)
		assert.Equal(t, tt.column, column, "column of offset %d", tt.offset)
	}
	assert.Equal(t, 3, unit.LineCount())
}

func TestTokenPositions(t *testing.T) {
	unit := testUnit()

	line, column := unit.GetTokenStartPosition(1)
	assert.Equal(t, []int{1, 1}, []int{line, column})

	// The end position is one past the last character.
	line, column = unit.GetTokenEndPosition(1)
	assert.Equal(t, []int{1, 4}, []int{line, column})

	line, column = unit.GetTokenStartPosition(4)
	assert.Equal(t, []int{2, 3}, []int{line, column})

	line, column = unit.GetTokenEndPosition(7)
	assert.Equal(t, []int{2, 9}, []int{line, column})
}

func TestText(t *testing.T) {
	unit := testUnit()
	children := unit.AST().Children()
	require.Len(t, children, 2)

	assert.Equal(t, "int x;", unit.Text(children[0]))
	assert.Equal(t, "y = 1;", unit.Text(children[1]))
	assert.Empty(t, unit.Text(NewSyntaxNode("placeholder", 0, 0)))
}

func TestHasTokenSpan(t *testing.T) {
	assert.True(t, HasTokenSpan(NewSyntaxNode("n", 1, 2)))
	assert.False(t, HasTokenSpan(NewSyntaxNode("n", 0, 2)))
	assert.False(t, HasTokenSpan(NewSyntaxNode("n", 3, 3)))
	assert.False(t, HasTokenSpan(NewSyntaxNode("n", 4, 2)))
	assert.False(t, HasTokenSpan(nil))
}

type kindCollector struct {
	kinds []string
	skip  string
}

func (c *kindCollector) Visit(node Node) Visitor {
	c.kinds = append(c.kinds, node.Kind())
	if node.Kind() == c.skip {
		return nil
	}
	return c
}

func TestWalk(t *testing.T) {
	root := NewSyntaxNode("a", 1, 5,
		NewSyntaxNode("b", 1, 3, NewSyntaxNode("c", 1, 2)),
		NewSyntaxNode("d", 3, 5, NewSyntaxNode("e", 3, 4)),
	)

	all := &kindCollector{}
	Walk(all, root)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, all.kinds)

	pruned := &kindCollector{skip: "b"}
	Walk(pruned, root)
	assert.Equal(t, []string{"a", "b", "d", "e"}, pruned.kinds)
}

func TestChildOfKind(t *testing.T) {
	root := NewSyntaxNode("if_statement", 1, 5,
		NewSyntaxNode("condition_clause", 2, 4),
		NewSyntaxNode("return_statement", 4, 5),
	)
	assert.Equal(t, "return_statement", ChildOfKind(root, "return_statement").Kind())
	assert.Nil(t, ChildOfKind(root, "else_clause"))
	assert.Nil(t, ChildOfKind(nil, "else_clause"))
}
