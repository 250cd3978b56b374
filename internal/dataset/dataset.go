// Package dataset implements the in-memory training data container and the
// batching the model trains over.
package dataset

import (
	"fmt"
	"math/rand"
)

// Dataset holds samples fully in memory: one flat float32 feature row and one
// float32 label per sample. Classification labels are float32-encoded class
// indices.
type Dataset struct {
	x [][]float32
	y []float32
}

// New creates a dataset from feature rows and labels. Every row must have the
// same length and there must be exactly one label per row.
func New(x [][]float32, y []float32) (*Dataset, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("dataset: %d feature rows but %d labels", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("dataset: no samples")
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("dataset: row %d has %d features, want %d", i, len(row), width)
		}
	}
	return &Dataset{x: x, y: y}, nil
}

// Count returns the number of samples.
func (d *Dataset) Count() int { return len(d.x) }

// FeatureDim returns the length of each feature row.
func (d *Dataset) FeatureDim() int { return len(d.x[0]) }

// Sample returns the feature row and label at index i. The row is shared, not
// copied.
func (d *Dataset) Sample(i int) ([]float32, float32) { return d.x[i], d.y[i] }

// Labels returns the label slice, shared.
func (d *Dataset) Labels() []float32 { return d.y }

// Split partitions the dataset in order: the first part holds rate of the
// samples, the second the rest. Both share the underlying rows.
func (d *Dataset) Split(rate float64) (*Dataset, *Dataset, error) {
	if rate <= 0 || rate >= 1 {
		return nil, nil, fmt.Errorf("dataset: split rate must be in (0, 1), got %g", rate)
	}
	n := int(rate * float64(len(d.x)))
	if n == 0 || n == len(d.x) {
		return nil, nil, fmt.Errorf("dataset: split rate %g leaves an empty part for %d samples", rate, len(d.x))
	}
	first := &Dataset{x: d.x[:n], y: d.y[:n]}
	second := &Dataset{x: d.x[n:], y: d.y[n:]}
	return first, second, nil
}

// Shuffle reorders samples in place with the given seed, keeping each row
// paired with its label.
func (d *Dataset) Shuffle(seed int64) {
	//nolint:gosec // math/rand is intentional: shuffling needs reproducibility, not entropy
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(d.x), func(i, j int) {
		d.x[i], d.x[j] = d.x[j], d.x[i]
		d.y[i], d.y[j] = d.y[j], d.y[i]
	})
}

// NumBatches returns how many batches of the given size cover the dataset,
// counting a partial tail batch.
func (d *Dataset) NumBatches(batchSize int) int {
	if batchSize <= 0 {
		return 0
	}
	return (len(d.x) + batchSize - 1) / batchSize
}

// Batch holds one mini-batch with features flattened row-major.
type Batch struct {
	Features   []float32 // [Size * FeatureDim]
	Labels     []float32 // [Size]
	Size       int
	FeatureDim int
}

// Batch extracts batch i of the given size. The tail batch may be smaller.
func (d *Dataset) Batch(i, batchSize int) (*Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be positive, got %d", batchSize)
	}
	start := i * batchSize
	if start < 0 || start >= len(d.x) {
		return nil, fmt.Errorf("dataset: batch %d out of range for %d samples", i, len(d.x))
	}
	end := start + batchSize
	if end > len(d.x) {
		end = len(d.x)
	}

	size := end - start
	dim := d.FeatureDim()
	features := make([]float32, size*dim)
	labels := make([]float32, size)
	for j := start; j < end; j++ {
		copy(features[(j-start)*dim:(j-start+1)*dim], d.x[j])
		labels[j-start] = d.y[j]
	}
	return &Batch{Features: features, Labels: labels, Size: size, FeatureDim: dim}, nil
}
