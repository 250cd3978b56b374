// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package keras imports sequential model architectures from Keras JSON
// configuration files.
package keras

import (
	"github.com/born-ml/deep/internal/keras"
	"github.com/born-ml/deep/internal/model"
)

// ModelConfig mirrors the JSON produced by Keras' model.to_json().
type ModelConfig = keras.ModelConfig

// LayerConfig is one layer entry of a model configuration.
type LayerConfig = keras.LayerConfig

// LoadModelConfiguration reads and decodes a Keras model JSON file.
func LoadModelConfiguration(path string) (*ModelConfig, error) {
	return keras.LoadModelConfiguration(path)
}

// LoadSequential reads a Keras model JSON file and reconstructs the model.
// The result is uncompiled.
func LoadSequential[B model.TrainableBackend](backend B, path string) (*model.Sequential[B], error) {
	return keras.LoadSequential(backend, path)
}

// NewSequential reconstructs a model from a decoded configuration.
func NewSequential[B model.TrainableBackend](backend B, config *ModelConfig) (*model.Sequential[B], error) {
	return keras.NewSequential(backend, config)
}
