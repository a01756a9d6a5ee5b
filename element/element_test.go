package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelattice/tracklink/word"
)

func TestNoneIsNone(t *testing.T) {
	assert.True(t, None.IsNone())
	assert.Equal(t, KindNone, None.Kind())
	_, ok := None.Word()
	assert.False(t, ok)
	_, ok = None.Words()
	assert.False(t, ok)
}

func TestNewWordRoundTrips(t *testing.T) {
	e := NewWord(word.New("ann"))
	require.False(t, e.IsNone())
	assert.Equal(t, KindWord, e.Kind())
	w, ok := e.Word()
	require.True(t, ok)
	assert.Equal(t, "ann", w.Raw)
	_, ok = e.Words()
	assert.False(t, ok)
}

func TestNewMultiWordsRoundTrips(t *testing.T) {
	e := NewMultiWords([]word.Word{word.New("bob"), word.New("carl")})
	require.False(t, e.IsNone())
	assert.Equal(t, KindMultiWords, e.Kind())
	ws, ok := e.Words()
	require.True(t, ok)
	assert.Len(t, ws, 2)
	_, ok = e.Word()
	assert.False(t, ok)
}

func TestNewMultiWordsEmptyIsNone(t *testing.T) {
	e := NewMultiWords(nil)
	assert.True(t, e.IsNone())
}

func TestNewMultiWordsCopiesInput(t *testing.T) {
	src := []word.Word{word.New("bob")}
	e := NewMultiWords(src)
	src[0] = word.New("mutated")
	ws, _ := e.Words()
	assert.Equal(t, "bob", ws[0].Raw)
}

func TestFrameRecordReadsAcrossColumns(t *testing.T) {
	f := Frame{
		Index: 0,
		Schema: Schema{
			{Name: "name", Type: FieldString},
			{Name: "aliases", Type: FieldMultiStrings},
		},
		Columns: [][]Element{
			{NewWord(word.New("ann")), NewWord(word.New("bob"))},
			{NewMultiWords([]word.Word{word.New("annie")}), None},
		},
	}

	assert.Equal(t, 2, f.NumRecords())
	rec := f.Record(1)
	w, ok := rec.Element(0).Word()
	require.True(t, ok)
	assert.Equal(t, "bob", w.Raw)
	assert.True(t, rec.Element(1).IsNone())
}

func TestParseSchemaParsesOrderedFields(t *testing.T) {
	schema, err := ParseSchema("name:string,aliases:multistrings")
	require.NoError(t, err)
	require.Len(t, schema, 2)
	assert.Equal(t, FieldSpec{Name: "name", Type: FieldString}, schema[0])
	assert.Equal(t, FieldSpec{Name: "aliases", Type: FieldMultiStrings}, schema[1])
	assert.Equal(t, 2, schema.NumFields())
}

func TestParseSchemaRejectsMissingType(t *testing.T) {
	_, err := ParseSchema("name")
	assert.Error(t, err)
}

func TestParseSchemaRejectsUnknownType(t *testing.T) {
	_, err := ParseSchema("name:number")
	assert.Error(t, err)
}

func TestParseSchemaRejectsEmpty(t *testing.T) {
	_, err := ParseSchema("")
	assert.Error(t, err)
}
