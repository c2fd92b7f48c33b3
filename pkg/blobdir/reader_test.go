package blobdir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestDataset lays down a five record dataset with one field of each
// type, a container group and a multiarray child linked to its parent
func writeTestDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store := NewLocalStorage(dir)

	meta := &Metadata{
		ID:         "test_ds",
		Name:       "test_ds",
		RecordType: "scaffold",
		Records:    5,
		Revision:   1,
		Fields: []*FieldMeta{
			{ID: "identifiers", Type: TypeIdentifier, Preload: true},
			{ID: "gc", Type: TypeVariable, Datatype: "float", Scale: "scaleLinear", Range: []float64{0.3, 0.5}},
			{ID: "length", Type: TypeVariable, Datatype: "integer", Scale: "scaleLog", Range: []float64{100, 500}},
			{ID: "taxonomy", Children: []*FieldMeta{
				{ID: "bestsum_phylum", Type: TypeCategory, Data: []*FieldMeta{
					{ID: "bestsum_phylum_positions", Type: TypeMultiArray, Parent: "bestsum_phylum"},
				}},
			}},
		},
		Plot: map[string]string{"x": "gc", "z": "length", "cat": "bestsum_phylum"},
		Assembly: map[string]any{
			"span":           float64(1500),
			"scaffold-count": float64(5),
		},
		Taxon: map[string]any{"name": "Drosophila melanogaster", "taxid": float64(7227)},
	}
	require.NoError(t, WriteDoc(store, "meta.json", meta, true))

	docs := map[string]any{
		"identifiers.json": map[string]any{
			"values": []string{"s1", "s2", "s3", "s4", "s5"},
		},
		"gc.json": map[string]any{
			"values": []float64{0.3, 0.4, 0.5, 0.45, 0.35},
		},
		"length.json": map[string]any{
			"values": []float64{100, 200, 300, 400, 500},
		},
		"bestsum_phylum.json": map[string]any{
			"values": []int{0, 1, 2, 1, 0},
			"keys":   []string{"no-hit", "Arthropoda", "Chordata"},
		},
		"bestsum_phylum_positions.json": map[string]any{
			"values": [][][]any{
				{},
				{{1, 95.5}},
				{{2, 88.0}, {1, 12.0}},
				{{1, 50.0}},
				{},
			},
			"keys":          []string{"no-hit", "Arthropoda", "Chordata"},
			"category_slot": 0,
			"headers":       []string{"name", "score"},
		},
	}
	for name, doc := range docs {
		require.NoError(t, WriteDoc(store, name, doc, false))
	}
	return dir
}

func TestOpenMissingDataset(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpenLoadsMetadata(t *testing.T) {
	r, err := Open(writeTestDataset(t))
	require.NoError(t, err)

	assert.Equal(t, 5, r.Records())
	assert.Equal(t, "test_ds", r.Meta().ID)
	assert.True(t, r.Meta().HasField("bestsum_phylum"))
	assert.True(t, r.Meta().HasField("bestsum_phylum_positions"))

	// registry order is depth-first document order, group nodes included
	assert.Equal(t, []string{
		"identifiers", "gc", "length",
		"taxonomy", "bestsum_phylum", "bestsum_phylum_positions",
	}, r.Meta().ListFields())

	cat, ok := r.Meta().PlotAxis("cat")
	require.True(t, ok)
	assert.Equal(t, "bestsum_phylum", cat)
	_, ok = r.Meta().PlotAxis("y")
	assert.False(t, ok)
}

func TestFetchFieldTypes(t *testing.T) {
	r, err := Open(writeTestDataset(t))
	require.NoError(t, err)

	ident, err := r.Identifiers()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, ident.Values)

	f, err := r.FetchField("length")
	require.NoError(t, err)
	length, ok := f.(*Variable)
	require.True(t, ok)
	assert.Equal(t, TypeVariable, length.Type())
	assert.Equal(t, []float64{100, 200, 300, 400, 500}, length.Values)

	f, err = r.FetchField("bestsum_phylum")
	require.NoError(t, err)
	phylum := f.(*Category)
	assert.Equal(t, []string{"no-hit", "Arthropoda", "Chordata"}, phylum.Keys)
	assert.Equal(t, []int{0, 1, 2, 1, 0}, phylum.Values)

	f, err = r.FetchField("bestsum_phylum_positions")
	require.NoError(t, err)
	positions := f.(*MultiArray)
	assert.Equal(t, 0, positions.CategorySlot)
	assert.Equal(t, []string{"name", "score"}, positions.Headers)
	require.Len(t, positions.Values[2], 2)

	// second fetch comes from the cache
	again, err := r.FetchField("length")
	require.NoError(t, err)
	assert.Same(t, length, again)
}

func TestFetchFieldErrors(t *testing.T) {
	r, err := Open(writeTestDataset(t))
	require.NoError(t, err)

	_, err = r.FetchField("nonexistent")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = r.FetchField("taxonomy")
	assert.Error(t, err)
}

func TestIdentifiersMissing(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir)
	meta := &Metadata{
		ID:      "no_ids",
		Records: 2,
		Fields: []*FieldMeta{
			{ID: "gc", Type: TypeVariable, Datatype: "float"},
		},
	}
	require.NoError(t, WriteDoc(store, "meta.json", meta, true))
	require.NoError(t, WriteDoc(store, "gc.json", map[string]any{"values": []float64{0.1, 0.2}}, false))

	r, err := Open(dir)
	require.NoError(t, err)
	_, err = r.Identifiers()
	assert.True(t, errors.Is(err, ErrIdentifierMissing))
}

func TestFieldLengthMismatchOnLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir)
	meta := &Metadata{
		ID:      "bad",
		Records: 3,
		Fields:  []*FieldMeta{{ID: "gc", Type: TypeVariable, Datatype: "float"}},
	}
	require.NoError(t, WriteDoc(store, "meta.json", meta, true))
	require.NoError(t, WriteDoc(store, "gc.json", map[string]any{"values": []float64{0.1}}, false))

	r, err := Open(dir)
	require.NoError(t, err)
	_, err = r.FetchField("gc")
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestOpenGzippedDataset(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir)
	meta := &Metadata{
		ID:      "gz_ds",
		Records: 2,
		Fields: []*FieldMeta{
			{ID: "identifiers", Type: TypeIdentifier},
		},
	}
	require.NoError(t, WriteDoc(store, "meta.json.gz", meta, true))
	require.NoError(t, WriteDoc(store, "identifiers.json.gz", map[string]any{"values": []string{"a", "b"}}, false))

	r, err := Open(dir)
	require.NoError(t, err)
	ident, err := r.Identifiers()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ident.Values)
}
