// Package element defines the record-linkage data model shared by every
// other package: Element values, Records built from them, the Schema that
// describes a Frame's columns, and the Frame snapshots themselves.
package element

import (
	"fmt"
	"strings"

	"github.com/framelattice/tracklink/word"
)

// Kind distinguishes the three Element variants.
type Kind int

const (
	// KindNone marks a missing cell. None never participates in
	// similarity scoring.
	KindNone Kind = iota
	// KindWord is a single-string cell.
	KindWord
	// KindMultiWords is a multi-string cell (one schema field holding a
	// set of words in a single record).
	KindMultiWords
)

// Element is a sum type over {Word, MultiWords, None}.
type Element struct {
	kind  Kind
	word  word.Word
	words []word.Word
}

// None is the missing-value Element.
var None = Element{kind: KindNone}

// NewWord builds a single-word Element.
func NewWord(w word.Word) Element {
	return Element{kind: KindWord, word: w}
}

// NewMultiWords builds a multi-word Element from a non-empty set of words.
// An empty slice is normalized to None.
func NewMultiWords(words []word.Word) Element {
	if len(words) == 0 {
		return None
	}
	cp := make([]word.Word, len(words))
	copy(cp, words)
	return Element{kind: KindMultiWords, words: cp}
}

// Kind reports which variant this Element holds.
func (e Element) Kind() Kind {
	return e.kind
}

// IsNone reports whether the element is missing.
func (e Element) IsNone() bool {
	return e.kind == KindNone
}

// Word returns the single word and true if this is a KindWord element.
func (e Element) Word() (word.Word, bool) {
	if e.kind != KindWord {
		return word.Word{}, false
	}
	return e.word, true
}

// Words returns the word set and true if this is a KindMultiWords element.
func (e Element) Words() ([]word.Word, bool) {
	if e.kind != KindMultiWords {
		return nil, false
	}
	return e.words, true
}

// FieldType enumerates the schema element types a column may hold.
type FieldType int

const (
	// FieldString holds Word|None elements.
	FieldString FieldType = iota
	// FieldMultiStrings holds MultiWords|None elements.
	FieldMultiStrings
)

// FieldSpec names one schema column and its element type.
type FieldSpec struct {
	Name string
	Type FieldType
}

// Schema describes the ordered fields shared by every record in a run.
type Schema []FieldSpec

// NumFields returns the field count.
func (s Schema) NumFields() int {
	return len(s)
}

// Record is an ordered list of Elements, one per schema field.
type Record []Element

// Element returns the value for field index f.
func (r Record) Element(f int) Element {
	return r[f]
}

// Frame is one time-indexed snapshot: a column-major matrix of Elements.
// Columns[field][record] mirrors how tabular ingestion naturally loads
// data, and lets precompute build per-field multisets without transposing.
type Frame struct {
	Index   int
	Schema  Schema
	Columns [][]Element // Columns[field][record]
}

// NumRecords returns the record count, derived from the first column (all
// columns are required to share the same length).
func (f Frame) NumRecords() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0])
}

// Record reconstructs record r as a Record value by reading across columns.
func (f Frame) Record(r int) Record {
	rec := make(Record, len(f.Columns))
	for field := range f.Columns {
		rec[field] = f.Columns[field][r]
	}
	return rec
}

// Column returns the column for field index f.
func (f Frame) Column(field int) []Element {
	return f.Columns[field]
}

// ChainNode references one (frame, record) position. Immutable after
// creation.
type ChainNode struct {
	FrameIdx  int
	RecordIdx int
}

// ParseSchema parses the command-line schema shorthand "name:type,...",
// where type is "string" or "multistrings". Field order in raw becomes
// column order.
func ParseSchema(raw string) (Schema, error) {
	fields := strings.Split(raw, ",")
	schema := make(Schema, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		parts := strings.SplitN(f, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("element: invalid schema field %q, want name:type", f)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("element: invalid schema field %q, empty name", f)
		}
		var t FieldType
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "string":
			t = FieldString
		case "multistrings":
			t = FieldMultiStrings
		default:
			return nil, fmt.Errorf("element: invalid schema field %q, unknown type %q", f, parts[1])
		}
		schema = append(schema, FieldSpec{Name: name, Type: t})
	}
	if len(schema) == 0 {
		return nil, fmt.Errorf("element: schema must declare at least one field")
	}
	return schema, nil
}
