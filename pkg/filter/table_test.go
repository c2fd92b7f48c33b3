package filter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTablePlotExpansion(t *testing.T) {
	r := newTestReader(t)

	rows, err := BuildTable(r, []int{0, 2}, "plot")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// plot expands to the configured axes in x, z, y, cat order
	assert.Equal(t, []string{"index", "identifiers", "gc", "length", "phylum"}, rows[0])
	assert.Equal(t, []string{"0", "s1", "0.3", "100", "A"}, rows[1])
	assert.Equal(t, []string{"2", "s3", "0.5", "300", "C"}, rows[2])
}

func TestBuildTableAliases(t *testing.T) {
	r := newTestReader(t)

	rows, err := BuildTable(r, []int{4}, "gc=GC,length")
	require.NoError(t, err)
	assert.Equal(t, []string{"index", "identifiers", "GC", "length"}, rows[0])
	assert.Equal(t, []string{"4", "s5", "0.35", "500"}, rows[1])
}

func TestBuildTableMultiArrayCell(t *testing.T) {
	r := newTestReader(t)

	rows, err := BuildTable(r, []int{2}, "hits")
	require.NoError(t, err)
	assert.JSONEq(t, `[["B",2],["C",3]]`, rows[1][2])
}

func TestBuildTableUnknownField(t *testing.T) {
	r := newTestReader(t)
	_, err := BuildTable(r, []int{0}, "nonexistent")
	assert.Error(t, err)
}

func TestWriteTableFormats(t *testing.T) {
	rows := [][]string{
		{"index", "identifiers", "gc"},
		{"0", "s1", "0.3"},
	}
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteTable(csvPath, rows))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "index,identifiers,gc\n0,s1,0.3\n", string(data))

	tsvPath := filepath.Join(dir, "out.tsv")
	require.NoError(t, WriteTable(tsvPath, rows))
	data, err = os.ReadFile(tsvPath)
	require.NoError(t, err)
	assert.Equal(t, "index\tidentifiers\tgc\n0\ts1\t0.3\n", string(data))
}

func TestWriteTableGzip(t *testing.T) {
	rows := [][]string{{"a", "b"}, {"1", "2"}}
	path := filepath.Join(t.TempDir(), "out.tsv.gz")
	require.NoError(t, WriteTable(path, rows))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer gz.Close()

	cr := csv.NewReader(gz)
	cr.Comma = '\t'
	records, err := cr.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rows, records)
}

func TestWriteTableBadPath(t *testing.T) {
	err := WriteTable(filepath.Join(t.TempDir(), "missing", "out.tsv"), nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to create table file"))
}
