package util

import (
	"context"
	"unicode/utf8"

	"fortio.org/safecast"
	"github.com/a-h/templ/lsp/protocol"
	"github.com/goccy/go-yaml"
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

const maxUint32 = ^uint32(0)

func toUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

func toInt(n uint32) int {
	v, err := safecast.Conv[int](n)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return v
}

// OffsetForPosition converts an LSP position (0-based line, UTF-16 character)
// to a byte offset. Positions past the end of a line clamp to its end and lines
// past the end of the document clamp to the document end.
func OffsetForPosition(doc *textedit.Document, pos protocol.Position) int {
	block := doc.FindBlockByNumber(toInt(pos.Line))
	if !block.IsValid() {
		return doc.Len()
	}
	text := doc.Slice(block.Position(), block.Position()+block.Length())
	want := toInt(pos.Character)
	units := 0
	off := 0
	for off < len(text) && units < want {
		r, size := utf8.DecodeRuneInString(text[off:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > want {
			break
		}
		units += need
		off += size
	}
	return block.Position() + off
}

// PositionForOffset converts a byte offset to an LSP position.
func PositionForOffset(doc *textedit.Document, offset int) protocol.Position {
	block := doc.FindBlock(offset)
	if offset > doc.Len() {
		offset = doc.Len()
	}
	text := doc.Slice(block.Position(), offset)
	units := 0
	for _, r := range text {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return protocol.Position{
		Line:      toUint32(block.Number()),
		Character: toUint32(units),
	}
}

func RangeForOffsets(doc *textedit.Document, start, end int) protocol.Range {
	return protocol.Range{
		Start: PositionForOffset(doc, start),
		End:   PositionForOffset(doc, end),
	}
}

// NodeOffsets returns the byte range covered by the tokens of node.
func NodeOffsets(unit *cplusplus.TranslationUnit, node cplusplus.Node) (start, end int) {
	if !cplusplus.HasTokenSpan(node) {
		return 0, 0
	}
	return unit.TokenAt(node.FirstToken()).Begin(), unit.TokenAt(node.LastToken() - 1).End()
}

// RangeFromNode is the LSP range of node in doc, which must hold the text the
// unit was parsed from.
func RangeFromNode(doc *textedit.Document, unit *cplusplus.TranslationUnit, node cplusplus.Node) protocol.Range {
	start, end := NodeOffsets(unit, node)
	return RangeForOffsets(doc, start, end)
}

// DiffEdit finds the single replacement that turns before into after by
// trimming their common prefix and suffix.
func DiffEdit(before, after string) (start, end int, text string) {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}
	// Keep the edit on rune boundaries.
	for prefix > 0 && prefix < len(before) && !utf8.RuneStart(before[prefix]) {
		prefix--
	}
	for suffix > 0 && !utf8.RuneStart(before[len(before)-suffix]) {
		suffix--
	}
	return prefix, len(before) - suffix, after[prefix : len(after)-suffix]
}

// MarshalYAML renders v as YAML with multi-line strings in literal style.
func MarshalYAML(ctx context.Context, v any) (string, error) {
	out, err := yaml.MarshalContext(ctx, v, yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
