package cplusplus

import (
	"maps"
	"slices"
)

// SyntaxError is a recovery point reported by the parser.
type SyntaxError struct {
	Offset  int
	Length  int
	Message string
}

// Document is one parsed revision of a file. It is never mutated after
// construction.
type Document struct {
	fileName string
	revision int
	unit     *TranslationUnit
	errors   []SyntaxError
}

func NewDocument(fileName string, revision int, unit *TranslationUnit, errors []SyntaxError) *Document {
	return &Document{
		fileName: fileName,
		revision: revision,
		unit:     unit,
		errors:   errors,
	}
}

func (d *Document) FileName() string {
	return d.fileName
}

func (d *Document) Revision() int {
	return d.revision
}

func (d *Document) TranslationUnit() *TranslationUnit {
	return d.unit
}

func (d *Document) SyntaxErrors() []SyntaxError {
	return d.errors
}

// IsEmpty reports whether the document has no syntax tree to search.
func (d *Document) IsEmpty() bool {
	return d == nil || d.unit == nil || d.unit.AST() == nil
}

// Snapshot is an immutable set of Documents keyed by file name. Snapshots are
// shared by pointer; With returns a new Snapshot instead of modifying this one.
type Snapshot struct {
	documents map[string]*Document
}

func NewSnapshot(docs ...*Document) *Snapshot {
	s := &Snapshot{documents: make(map[string]*Document, len(docs))}
	for _, d := range docs {
		s.documents[d.FileName()] = d
	}
	return s
}

func (s *Snapshot) Document(fileName string) (*Document, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.documents[fileName]
	return d, ok
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.documents)
}

func (s *Snapshot) FileNames() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.documents))
}

// With returns a copy of the snapshot in which doc replaces any document with
// the same file name.
func (s *Snapshot) With(doc *Document) *Snapshot {
	next := &Snapshot{documents: make(map[string]*Document, s.Len()+1)}
	if s != nil {
		maps.Copy(next.documents, s.documents)
	}
	next.documents[doc.FileName()] = doc
	return next
}

// Without returns a copy of the snapshot that no longer contains fileName.
func (s *Snapshot) Without(fileName string) *Snapshot {
	next := &Snapshot{documents: make(map[string]*Document, s.Len())}
	if s != nil {
		maps.Copy(next.documents, s.documents)
	}
	delete(next.documents, fileName)
	return next
}
