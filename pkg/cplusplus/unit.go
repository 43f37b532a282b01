package cplusplus

import (
	"sort"
)

// TranslationUnit owns the source text, the token stream and the syntax tree
// of one parsed file. Token 0 is an invalid sentinel, real tokens start at 1
// and the stream ends with an EOF token.
type TranslationUnit struct {
	fileName    string
	source      []byte
	tokens      []Token
	lineOffsets []int
	ast         Node
}

// NewTranslationUnit builds a unit from the real tokens of source. Node token
// indices in root must already account for the sentinel at index 0.
func NewTranslationUnit(fileName string, source []byte, tokens []Token, root Node) *TranslationUnit {
	all := make([]Token, 0, len(tokens)+2)
	all = append(all, Token{})
	all = append(all, tokens...)
	all = append(all, Token{Kind: KindEOF, Offset: len(source)})

	lineOffsets := []int{0}
	for i, c := range source {
		if c == '\n' {
			lineOffsets = append(lineOffsets, i+1)
		}
	}
	return &TranslationUnit{
		fileName:    fileName,
		source:      source,
		tokens:      all,
		lineOffsets: lineOffsets,
		ast:         root,
	}
}

func (u *TranslationUnit) FileName() string {
	return u.fileName
}

func (u *TranslationUnit) Source() []byte {
	return u.source
}

func (u *TranslationUnit) AST() Node {
	return u.ast
}

// TokenCount includes the sentinel and the EOF token.
func (u *TranslationUnit) TokenCount() int {
	return len(u.tokens)
}

// TokenAt returns the sentinel token for indices outside the stream.
func (u *TranslationUnit) TokenAt(index int) Token {
	if index < 0 || index >= len(u.tokens) {
		return Token{}
	}
	return u.tokens[index]
}

// Spell returns the source text of the token at index.
func (u *TranslationUnit) Spell(index int) string {
	tk := u.TokenAt(index)
	if !tk.IsValid() {
		return ""
	}
	return string(u.source[tk.Begin():tk.End()])
}

// LineCount is the number of lines in the source, counting a trailing empty
// line after the last newline.
func (u *TranslationUnit) LineCount() int {
	return len(u.lineOffsets)
}

// GetPosition maps a byte offset to a 1-based line and column.
func (u *TranslationUnit) GetPosition(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(u.source) {
		offset = len(u.source)
	}
	idx := sort.Search(len(u.lineOffsets), func(i int) bool {
		return u.lineOffsets[i] > offset
	})
	return idx, offset - u.lineOffsets[idx-1] + 1
}

// GetTokenStartPosition is the position of the first character of the token.
func (u *TranslationUnit) GetTokenStartPosition(index int) (line, column int) {
	return u.GetPosition(u.TokenAt(index).Begin())
}

// GetTokenEndPosition is the position one past the last character of the
// token. Spans are one-past-the-end, so callers pass lastToken-1.
func (u *TranslationUnit) GetTokenEndPosition(index int) (line, column int) {
	return u.GetPosition(u.TokenAt(index).End())
}

// Text returns the source covered by the token span of node.
func (u *TranslationUnit) Text(node Node) string {
	if !HasTokenSpan(node) {
		return ""
	}
	begin := u.TokenAt(node.FirstToken()).Begin()
	end := u.TokenAt(node.LastToken() - 1).End()
	if begin > end || end > len(u.source) {
		return ""
	}
	return string(u.source[begin:end])
}
