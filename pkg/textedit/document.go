package textedit

import "sort"

// Document is the live text of an editor. Positions are byte offsets and every
// modification increments the revision.
type Document struct {
	text        string
	revision    int
	blockStarts []int
}

func NewDocument(text string) *Document {
	d := &Document{}
	d.reset(text)
	return d
}

func (d *Document) reset(text string) {
	d.text = text
	d.blockStarts = d.blockStarts[:0]
	d.blockStarts = append(d.blockStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			d.blockStarts = append(d.blockStarts, i+1)
		}
	}
}

func (d *Document) Text() string {
	return d.text
}

func (d *Document) Len() int {
	return len(d.text)
}

func (d *Document) Revision() int {
	return d.revision
}

func (d *Document) BlockCount() int {
	return len(d.blockStarts)
}

// SetText replaces the whole content.
func (d *Document) SetText(text string) {
	d.reset(text)
	d.revision++
}

// Replace substitutes the text between start and end. Out of range positions
// are clamped to the document.
func (d *Document) Replace(start, end int, text string) {
	start = d.clamp(start)
	end = d.clamp(end)
	if end < start {
		start, end = end, start
	}
	d.SetText(d.text[:start] + text + d.text[end:])
}

// Slice returns the text between two positions.
func (d *Document) Slice(start, end int) string {
	start = d.clamp(start)
	end = d.clamp(end)
	if end < start {
		start, end = end, start
	}
	return d.text[start:end]
}

// FindBlockByNumber returns the 0-based line number. The block is invalid when
// number is outside the document.
func (d *Document) FindBlockByNumber(number int) Block {
	if number < 0 || number >= len(d.blockStarts) {
		return Block{number: -1, position: -1}
	}
	return d.block(number)
}

// FindBlock returns the block containing pos.
func (d *Document) FindBlock(pos int) Block {
	pos = d.clamp(pos)
	idx := sort.Search(len(d.blockStarts), func(i int) bool {
		return d.blockStarts[i] > pos
	})
	return d.block(idx - 1)
}

func (d *Document) block(number int) Block {
	start := d.blockStarts[number]
	end := len(d.text)
	if number+1 < len(d.blockStarts) {
		end = d.blockStarts[number+1] - 1
	}
	return Block{number: number, position: start, length: end - start, valid: true}
}

func (d *Document) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(d.text) {
		return len(d.text)
	}
	return pos
}

// Block is one line of a Document. Length excludes the line terminator.
type Block struct {
	number   int
	position int
	length   int
	valid    bool
}

func (b Block) IsValid() bool {
	return b.valid
}

func (b Block) Number() int {
	return b.number
}

func (b Block) Position() int {
	return b.position
}

func (b Block) Length() int {
	return b.length
}
