package seqio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTextFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFilterTextWhitespace(t *testing.T) {
	path := writeTextFile(t, "cov.txt", "s1\t100\ns2\t200\ns3 300\n")

	outPath, err := FilterText(path, map[string]struct{}{"s1": {}, "s3": {}}, "filtered", TextOptions{Delimiter: "whitespace", IDColumn: 1})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "s1\t100\ns3 300\n", string(data))
}

func TestFilterTextHeaderAndDelimiter(t *testing.T) {
	path := writeTextFile(t, "cov.csv", "id,cov\ns1,10\ns2,20\n")

	outPath, err := FilterText(path, map[string]struct{}{"s2": {}}, "filtered", TextOptions{Delimiter: ",", Header: true, IDColumn: 1})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "id,cov\ns2,20\n", string(data))
}

func TestFilterTextIDColumn(t *testing.T) {
	path := writeTextFile(t, "stats.txt", "100 s1\n200 s2\n")

	outPath, err := FilterText(path, map[string]struct{}{"s2": {}}, "filtered", TextOptions{IDColumn: 2})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "200 s2\n", string(data))
}

func TestFilterTextShortRows(t *testing.T) {
	path := writeTextFile(t, "stats.txt", "100 s1\nshort\n200 s2\n")

	outPath, err := FilterText(path, map[string]struct{}{"s1": {}, "s2": {}, "short": {}}, "filtered", TextOptions{IDColumn: 2})
	require.NoError(t, err)

	// rows without the identifier column are dropped
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "100 s1\n200 s2\n", string(data))
}
