// Package weights reads trained weight arrays from Keras HDF5 files.
package weights

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

// HDF5Reader reads weight datasets from an open HDF5 file. It implements the
// model's WeightReader.
type HDF5Reader struct {
	file *hdf5.File
}

// Open opens a Keras HDF5 weight file for reading.
func Open(path string) (*HDF5Reader, error) {
	file, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("weights: opening %s: %w", path, err)
	}
	return &HDF5Reader{file: file}, nil
}

// Read loads the float32 dataset at path, e.g.
// "conv2d_1/conv2d_1/kernel:0", returning its flat values and stored dims.
func (r *HDF5Reader) Read(path string) (values []float32, dims []int, err error) {
	dataset, err := r.file.OpenDataset(path)
	if err != nil {
		return nil, nil, fmt.Errorf("weights: opening dataset %s: %w", path, err)
	}
	defer dataset.Close()

	space := dataset.Space()
	defer space.Close()

	extents, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, nil, fmt.Errorf("weights: reading dims of %s: %w", path, err)
	}

	n := 1
	dims = make([]int, len(extents))
	for i, d := range extents {
		dims[i] = int(d)
		n *= int(d)
	}

	values = make([]float32, n)
	if err := dataset.Read(&values); err != nil {
		return nil, nil, fmt.Errorf("weights: reading %s: %w", path, err)
	}
	return values, dims, nil
}

// Close closes the underlying file.
func (r *HDF5Reader) Close() error {
	return r.file.Close()
}
