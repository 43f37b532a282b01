package cplusplus

// Token is a lexical token of a translation unit. Offset is the byte offset of
// the first character in the source.
type Token struct {
	Kind   string
	Offset int
	Length int
}

const (
	// KindInvalid is the kind of the sentinel token at index 0.
	KindInvalid = ""
	// KindEOF is the kind of the zero length token that terminates the stream.
	KindEOF = "eof"
)

func (t Token) Begin() int {
	return t.Offset
}

// End is the offset one past the last character of the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

func (t Token) IsValid() bool {
	return t.Kind != KindInvalid
}

func (t Token) IsEOF() bool {
	return t.Kind == KindEOF
}
