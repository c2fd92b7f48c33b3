package blobdir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructionLengthInvariant(t *testing.T) {
	_, err := NewVariable("gc", &FieldMeta{ID: "gc", Type: TypeVariable}, []float64{0.3, 0.4}, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = NewIdentifier("identifiers", nil, []string{"a", "b"}, 3)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = NewCategory("cat", nil, []int{0, 1, 0}, []string{"x", "y"}, 3)
	assert.NoError(t, err)

	_, err = NewMultiArray("hits", nil, [][]Tuple{{}, {}}, nil, 0, nil, 3)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestKeyIndex(t *testing.T) {
	f, err := NewCategory("phylum", nil, []int{0, 1, 2}, []string{"no-hit", "Arthropoda", "Chordata"}, 3)
	require.NoError(t, err)

	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"Arthropoda", 1, false},
		{"no-hit", 0, false},
		{"1", 1, false},
		{"9", 9, false}, // digit strings bypass the table, even out of range
		{"Nematoda", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.KeyIndex(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryExpand(t *testing.T) {
	f, err := NewCategory("phylum", nil, []int{2, 0, 1}, []string{"no-hit", "Arthropoda", "Chordata"}, 3)
	require.NoError(t, err)

	s, err := f.Expand(0)
	require.NoError(t, err)
	assert.Equal(t, "Chordata", s)

	all, err := f.ExpandAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Chordata", "no-hit", "Arthropoda"}, all)

	bad, err := NewCategory("phylum", nil, []int{5}, []string{"no-hit"}, 1)
	require.NoError(t, err)
	_, err = bad.Expand(0)
	assert.Error(t, err)
}

func TestCategoryFromStrings(t *testing.T) {
	f, err := NewCategoryFromStrings("phylum", nil, []string{"b", "a", "b", "c"}, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, f.Keys)
	assert.Equal(t, []int{0, 1, 0, 2}, f.Values)
}

func TestCategoryFromStringsSeededKeys(t *testing.T) {
	f, err := NewCategoryFromStrings("phylum", nil, []string{"y", "z", "x"}, []string{"x", "y"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, f.Keys)
	assert.Equal(t, []int{1, 2, 0}, f.Values)
}

func TestVariableRangeAndSum(t *testing.T) {
	f, err := NewVariable("length", nil, []float64{300, 100, 500}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 500}, f.Range())
	assert.Equal(t, 900.0, f.Sum())

	empty, err := NewVariable("length", nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, empty.Range())
	assert.Equal(t, 0.0, empty.Sum())
}

func TestMultiArrayExpand(t *testing.T) {
	values := [][]Tuple{
		{},
		{{float64(1), 95.5}},
		{{float64(2), 88.0}, {0, 12.0}},
	}
	f, err := NewMultiArray("positions", nil, values, []string{"no-hit", "Arthropoda", "Chordata"}, 0, []string{"name", "score"}, 3)
	require.NoError(t, err)

	tuples, err := f.Expand(2)
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	assert.Equal(t, "Chordata", tuples[0][0])
	assert.Equal(t, 88.0, tuples[0][1])
	assert.Equal(t, "no-hit", tuples[1][0])

	// source tuples must not be touched by expansion
	assert.Equal(t, float64(2), f.Values[2][0][0])

	all, err := f.ExpandAll()
	require.NoError(t, err)
	assert.Empty(t, all[0])
	assert.Equal(t, "Arthropoda", all[1][0][0])
}

func TestMultiArraySlotIndexErrors(t *testing.T) {
	f, err := NewMultiArray("positions", nil, [][]Tuple{{{0.0}}}, []string{"a"}, 2, nil, 1)
	require.NoError(t, err)
	_, err = f.SlotIndex(Tuple{0.0})
	assert.Error(t, err)

	g, err := NewMultiArray("positions", nil, [][]Tuple{{{"name", 1.0}}}, []string{"a"}, 0, nil, 1)
	require.NoError(t, err)
	_, err = g.SlotIndex(Tuple{"name", 1.0})
	assert.Error(t, err)
}

func TestMultiArrayFromExpanded(t *testing.T) {
	display := [][]Tuple{
		{},
		{{"Chordata", 88.0}, {"Arthropoda", 12.0}},
	}
	f, err := NewMultiArrayFromExpanded("positions", nil, display, []string{"no-hit", "Chordata"}, 0, []string{"name", "score"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"no-hit", "Chordata", "Arthropoda"}, f.Keys)
	assert.Equal(t, 1, f.Values[1][0][0])
	assert.Equal(t, 2, f.Values[1][1][0])
	assert.Equal(t, 12.0, f.Values[1][1][1])

	_, err = NewMultiArrayFromExpanded("positions", nil, [][]Tuple{{{42.0, 1.0}}}, nil, 0, nil, 1)
	assert.Error(t, err)
}
