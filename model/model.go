// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model provides the sequential model API: a stack of layers compiled
// with an optimizer, loss and metrics, trained by mini-batch gradient descent
// on a gradient-tape backend.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	m, err := model.NewSequential(backend,
//		layer.NewInput[*autodiff.Backend[*cpu.Backend]]([]int{28, 28, 1}, "input"),
//		layer.NewFlatten[*autodiff.Backend[*cpu.Backend]]("flatten"),
//		layer.NewDense(10, layer.ActivationLinear,
//			initializer.NewGlorotNormal[*autodiff.Backend[*cpu.Backend]](12),
//			initializer.NewConstant[*autodiff.Backend[*cpu.Backend]](0.1), "output"),
//	)
package model

import (
	"github.com/born-ml/deep/internal/layer"
	"github.com/born-ml/deep/internal/model"
)

// TrainableBackend is the engine capability a model trains on.
type TrainableBackend = model.TrainableBackend

// Sequential is a feed-forward stack of layers.
type Sequential[B TrainableBackend] = model.Sequential[B]

// NewSequential creates a model from an ordered layer stack. The first layer
// must be an Input.
func NewSequential[B TrainableBackend](backend B, layers ...layer.Layer[B]) (*Sequential[B], error) {
	return model.NewSequential(backend, layers...)
}

// TrainConfig configures a Fit call.
type TrainConfig = model.TrainConfig

// History is the append-only training record.
type History = model.History

// BatchTrainingEvent records one training batch.
type BatchTrainingEvent = model.BatchTrainingEvent

// EpochTrainingEvent records one epoch.
type EpochTrainingEvent = model.EpochTrainingEvent

// EvaluationResult holds the loss and metric values of an Evaluate call.
type EvaluationResult = model.EvaluationResult

// Callback observes training progress.
type Callback = model.Callback

// EarlyStopping stops training when the monitored loss stops improving.
type EarlyStopping = model.EarlyStopping

// NewEarlyStopping creates an EarlyStopping callback.
func NewEarlyStopping(patience int, minDelta float64) *EarlyStopping {
	return model.NewEarlyStopping(patience, minDelta)
}

// WeightReader resolves named weight arrays from a trained-model file.
type WeightReader = model.WeightReader

// Lifecycle errors.
var (
	// ErrNotCompiled is returned by methods requiring a compiled model.
	ErrNotCompiled = model.ErrNotCompiled
	// ErrAlreadyInitialized is returned when weights would initialize twice.
	ErrAlreadyInitialized = model.ErrAlreadyInitialized
)
