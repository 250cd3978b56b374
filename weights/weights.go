// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package weights reads trained weight arrays from Keras HDF5 files.
package weights

import (
	"github.com/born-ml/deep/internal/weights"
)

// HDF5Reader reads weight datasets from an open HDF5 file.
type HDF5Reader = weights.HDF5Reader

// Open opens a Keras HDF5 weight file for reading.
//
// Example:
//
//	reader, err := weights.Open("mnist_weights.h5")
//	defer reader.Close()
//	err = m.LoadWeights(reader)
func Open(path string) (*HDF5Reader, error) {
	return weights.Open(path)
}
