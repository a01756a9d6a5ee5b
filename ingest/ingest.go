// Package ingest is the tabular-input collaborator named in spec §1/§6: it
// discovers per-frame CSV snapshot files on disk and loads them into
// element.Frame values whose column order and element types match a schema.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/framelattice/tracklink/element"
	"github.com/framelattice/tracklink/trackerr"
	"github.com/framelattice/tracklink/word"
)

// Source loads the ordered frame sequence for a tracking run.
type Source struct {
	schema         element.Schema
	multiWordSepar string
}

// NewSource builds a Source for schema. multiwordSeparator splits a
// MultiStrings cell's raw text into its constituent words; an empty
// separator defaults to ",". The caller supplies it (the CLI passes its
// --separator flag); DistanceMetricConfig.LVMultiwordSeparator is not
// consulted.
func NewSource(schema element.Schema, multiwordSeparator string) *Source {
	if multiwordSeparator == "" {
		multiwordSeparator = ","
	}
	return &Source{schema: schema, multiWordSepar: multiwordSeparator}
}

// DiscoverFrameFiles globs root for CSV snapshot files matching pattern
// (e.g. "frames/*.csv") and returns them sorted lexically, which callers
// should name so that lexical order matches frame order (e.g.
// "frame-0000.csv", "frame-0001.csv", ...).
func DiscoverFrameFiles(root, pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(strings.TrimSuffix(root, "/") + "/" + pattern)
	if err != nil {
		return nil, trackerr.Wrap(trackerr.CodeSchemaMismatch, "ingest", "failed to glob frame files", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadFrames reads each path in order into an element.Frame, with Index set
// to its position in the slice.
func (s *Source) LoadFrames(paths []string) ([]element.Frame, error) {
	frames := make([]element.Frame, len(paths))
	for i, p := range paths {
		f, err := s.LoadFrame(i, p)
		if err != nil {
			return nil, err
		}
		frames[i] = f
	}
	return frames, nil
}

// LoadFrame reads one CSV file into a Frame at the given index. The header
// row, if present, is ignored — column order is dictated entirely by the
// schema, per spec §6 ("Ingestion ... must produce Frames whose column
// order matches the schema").
func (s *Source) LoadFrame(index int, path string) (element.Frame, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-controlled frame file path
	if err != nil {
		return element.Frame{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "ingest", "failed to open frame file", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(s.schema)

	columns := make([][]element.Element, len(s.schema))

	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return element.Frame{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "ingest", "failed to parse frame file", err)
		}
		if first {
			first = false
			if looksLikeHeader(row, s.schema) {
				continue
			}
		}
		if len(row) != len(s.schema) {
			return element.Frame{}, trackerr.SchemaMismatch("ingest", fmt.Sprintf(
				"%s: row has %d columns, schema declares %d", path, len(row), len(s.schema)))
		}
		for col, raw := range row {
			columns[col] = append(columns[col], s.parseCell(raw, s.schema[col].Type))
		}
	}

	return element.Frame{Index: index, Schema: s.schema, Columns: columns}, nil
}

// looksLikeHeader reports whether row's values equal the schema's field
// names in order, a common convention for hand-authored CSV snapshots.
func looksLikeHeader(row []string, schema element.Schema) bool {
	if len(row) != len(schema) {
		return false
	}
	for i, spec := range schema {
		if row[i] != spec.Name {
			return false
		}
	}
	return true
}

// parseCell converts one CSV cell to an Element per its schema field type.
// An empty string is None.
func (s *Source) parseCell(raw string, t element.FieldType) element.Element {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return element.None
	}

	switch t {
	case element.FieldMultiStrings:
		parts := strings.Split(raw, s.multiWordSepar)
		words := make([]word.Word, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			words = append(words, word.New(p))
		}
		return element.NewMultiWords(words)
	default:
		return element.NewWord(word.New(raw))
	}
}
