package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVFieldExtractor(t *testing.T) {
	header := []string{"x1", "label", "x2", "weight"}
	ex, err := NewCSVFieldExtractor(header, "weight", "label")
	require.NoError(t, err)
	assert.Equal(t, 2, ex.Len())
	record := []string{"0.5", "1", "-2", "3"}

	all, err := ex.ExtractAll(record)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, all)

	label, err := ex.Extract(1, record)
	require.NoError(t, err)
	assert.Equal(t, "1", label)

	floats, err := ex.ExtractFloats(record)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, floats)

	_, err = ex.ExtractAll(record[:2])
	assert.ErrorIs(t, err, IndexOutOfBoundsError{})
	_, err = ex.Extract(2, record)
	assert.ErrorIs(t, err, IndexOutOfBoundsError{})

	_, err = NewCSVFieldExtractor(header, "label", "missing")
	assert.ErrorContains(t, err, `"missing"`)
}

func TestCSVComplementExtractor(t *testing.T) {
	header := []string{"x1", "label", "x2", "weight"}
	ex := NewCSVComplementExtractor(header, "label", "weight")
	assert.Equal(t, []int{0, 2}, ex.Indices)
	floats, err := ex.ExtractFloats([]string{"0.5", "1", "-2", "3"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -2}, floats)

	_, err = ex.ExtractFloats([]string{"0.5", "1", "abc", "3"})
	assert.ErrorContains(t, err, `invalid number "abc"`)
}
