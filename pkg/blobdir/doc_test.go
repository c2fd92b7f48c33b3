package blobdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadDoc(t *testing.T) {
	store := NewLocalStorage(t.TempDir())
	in := map[string]any{"values": []float64{1, 2, 3}}
	require.NoError(t, WriteDoc(store, "field.json", in, false))

	var out struct {
		Values []float64 `json:"values"`
	}
	require.NoError(t, ReadDoc(store, "field.json", &out))
	assert.Equal(t, []float64{1, 2, 3}, out.Values)
}

func TestReadDocFallsBackToGzip(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir)
	require.NoError(t, WriteDoc(store, "field.json.gz", map[string]any{"values": []string{"a"}}, false))

	// only the compressed file exists on disk
	_, err := os.Stat(filepath.Join(dir, "field.json"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dir, "field.json.gz"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, data[:2])

	var out struct {
		Values []string `json:"values"`
	}
	require.NoError(t, ReadDoc(store, "field.json", &out))
	assert.Equal(t, []string{"a"}, out.Values)
}

func TestReadDocNotFound(t *testing.T) {
	store := NewLocalStorage(t.TempDir())
	var out map[string]any
	err := ReadDoc(store, "missing.json", &out)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFieldDocCarriesKeysAndSlot(t *testing.T) {
	f, err := NewMultiArray("positions", nil,
		[][]Tuple{{{1, 95.5}}},
		[]string{"no-hit", "Arthropoda"}, 0, []string{"name", "score"}, 1)
	require.NoError(t, err)

	doc, err := fieldDoc(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"no-hit", "Arthropoda"}, doc.Keys)
	require.NotNil(t, doc.CategorySlot)
	assert.Equal(t, 0, *doc.CategorySlot)
	assert.Equal(t, []string{"name", "score"}, doc.Headers)
	assert.JSONEq(t, `[[[1, 95.5]]]`, string(doc.Values))
}
