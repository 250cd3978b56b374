package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDataset(t *testing.T, n int) *Dataset {
	t.Helper()
	x := make([][]float32, n)
	y := make([]float32, n)
	for i := range x {
		x[i] = []float32{float32(i), float32(i) * 2}
		y[i] = float32(i)
	}
	ds, err := New(x, y)
	require.NoError(t, err)
	return ds
}

func TestNewValidation(t *testing.T) {
	_, err := New([][]float32{{1}}, []float32{1, 2})
	assert.Error(t, err)

	_, err = New(nil, nil)
	assert.Error(t, err)

	_, err = New([][]float32{{1, 2}, {1}}, []float32{1, 2})
	assert.Error(t, err)
}

func TestCountAndFeatureDim(t *testing.T) {
	ds := newTestDataset(t, 10)
	assert.Equal(t, 10, ds.Count())
	assert.Equal(t, 2, ds.FeatureDim())
}

func TestSplit(t *testing.T) {
	ds := newTestDataset(t, 10)

	train, val, err := ds.Split(0.8)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Count())
	assert.Equal(t, 2, val.Count())

	// Order is preserved: the tail goes to the second part.
	_, label := val.Sample(0)
	assert.Equal(t, float32(8), label)

	_, _, err = ds.Split(0)
	assert.Error(t, err)
	_, _, err = ds.Split(1)
	assert.Error(t, err)
}

func TestShuffleKeepsPairs(t *testing.T) {
	ds := newTestDataset(t, 50)
	ds.Shuffle(12)

	for i := 0; i < ds.Count(); i++ {
		row, label := ds.Sample(i)
		assert.Equal(t, label, row[0])
		assert.Equal(t, label*2, row[1])
	}
}

func TestShuffleDeterminism(t *testing.T) {
	a := newTestDataset(t, 50)
	b := newTestDataset(t, 50)
	a.Shuffle(7)
	b.Shuffle(7)

	for i := 0; i < a.Count(); i++ {
		_, la := a.Sample(i)
		_, lb := b.Sample(i)
		assert.Equal(t, la, lb)
	}
}

func TestBatching(t *testing.T) {
	ds := newTestDataset(t, 10)
	assert.Equal(t, 4, ds.NumBatches(3))

	first, err := ds.Batch(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Size)
	assert.Equal(t, 2, first.FeatureDim)
	assert.Equal(t, []float32{0, 0, 1, 2, 2, 4}, first.Features)
	assert.Equal(t, []float32{0, 1, 2}, first.Labels)

	// The tail batch holds the remaining sample.
	tail, err := ds.Batch(3, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, tail.Size)
	assert.Equal(t, []float32{9}, tail.Labels)

	_, err = ds.Batch(4, 3)
	assert.Error(t, err)
}
