// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides the in-memory training data container and loaders
// for common datasets.
package dataset

import (
	"github.com/born-ml/deep/internal/dataset"
)

// Dataset holds samples fully in memory: one flat float32 feature row and one
// float32 label per sample.
type Dataset = dataset.Dataset

// Batch holds one mini-batch with features flattened row-major.
type Batch = dataset.Batch

// New creates a dataset from feature rows and labels.
func New(x [][]float32, y []float32) (*Dataset, error) {
	return dataset.New(x, y)
}

// CreateTrainAndTestDatasets loads the MNIST train and test splits from
// dataDir, accepting gzipped or decompressed IDX files.
func CreateTrainAndTestDatasets(dataDir string) (train, test *Dataset, err error) {
	return dataset.CreateTrainAndTestDatasets(dataDir)
}

// LoadMNIST reads one MNIST split from an IDX image file and its label file.
func LoadMNIST(imagesPath, labelsPath string) (*Dataset, error) {
	return dataset.LoadMNIST(imagesPath, labelsPath)
}
