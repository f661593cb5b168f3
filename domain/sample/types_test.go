package sample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	set, err := New("widths", "data/widths.txt", []float64{1.5, 2.5, 3.5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "widths", set.Label())
	assert.Equal(t, "data/widths.txt", set.Source())
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, set.Values())
}

func TestNew_RejectsTooFewValues(t *testing.T) {
	_, err := New("short", "", []float64{42}, nil)
	assert.Error(t, err)
}

func TestNew_RejectsNonFinite(t *testing.T) {
	_, err := New("bad", "", []float64{1, math.NaN(), 3}, nil)
	assert.Error(t, err)

	_, err = New("bad", "", []float64{1, math.Inf(1)}, nil)
	assert.Error(t, err)
}

func TestNew_RejectsEmptyLabel(t *testing.T) {
	_, err := New("", "", []float64{1, 2}, nil)
	assert.Error(t, err)
}

func TestNew_CopiesValues(t *testing.T) {
	in := []float64{1, 2, 3}
	set, err := New("s", "", in, nil)
	require.NoError(t, err)

	in[0] = 99
	assert.Equal(t, 1.0, set.Values()[0], "mutating the input must not reach the sample")

	out := set.Values()
	out[1] = 99
	assert.Equal(t, 2.0, set.Values()[1], "mutating the returned slice must not reach the sample")
}

func TestCombine(t *testing.T) {
	a, err := New("a", "", []float64{1, 2}, nil)
	require.NoError(t, err)
	b, err := New("b", "", []float64{3, 4, 5}, nil)
	require.NoError(t, err)

	c, err := Combine([]SampleSet{a, b})
	require.NoError(t, err)
	assert.Equal(t, "Combined", c.Label())
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, c.Values())
	assert.Empty(t, c.Source())
}

func TestCombine_NeedsTwoSets(t *testing.T) {
	a, err := New("a", "", []float64{1, 2}, nil)
	require.NoError(t, err)

	_, err = Combine([]SampleSet{a})
	assert.Error(t, err)
}
