// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loss provides the loss functions a model can be compiled with.
package loss

import (
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/loss"
)

// Loss computes a differentiable scalar from predictions and ground truth.
type Loss[B tensor.Backend] = loss.Loss[B]

// SoftmaxCrossEntropyWithLogits is the classification loss: softmax fused
// with negative log likelihood over raw logits.
type SoftmaxCrossEntropyWithLogits[B tensor.Backend] = loss.SoftmaxCrossEntropyWithLogits[B]

// NewSoftmaxCrossEntropyWithLogits creates the classification loss.
//
// Example:
//
//	model.Compile(optim.NewAdam[B](0.001, 0.9, 0.999, 1e-07, optim.NewNoClipGradient()),
//		loss.NewSoftmaxCrossEntropyWithLogits[B](), metric.Accuracy)
func NewSoftmaxCrossEntropyWithLogits[B tensor.Backend]() *SoftmaxCrossEntropyWithLogits[B] {
	return loss.NewSoftmaxCrossEntropyWithLogits[B]()
}

// MSE is the mean squared error loss.
type MSE[B tensor.Backend] = loss.MSE[B]

// NewMSE creates a mean squared error loss.
func NewMSE[B tensor.Backend]() *MSE[B] {
	return loss.NewMSE[B]()
}

// MAE is the mean absolute error loss.
type MAE[B tensor.Backend] = loss.MAE[B]

// NewMAE creates a mean absolute error loss.
func NewMAE[B tensor.Backend]() *MAE[B] {
	return loss.NewMAE[B]()
}

// MSLE is the mean squared logarithmic error loss.
type MSLE[B tensor.Backend] = loss.MSLE[B]

// NewMSLE creates a mean squared logarithmic error loss.
func NewMSLE[B tensor.Backend]() *MSLE[B] {
	return loss.NewMSLE[B]()
}

// RMSE is the root mean squared error loss.
type RMSE[B tensor.Backend] = loss.RMSE[B]

// NewRMSE creates a root mean squared error loss.
func NewRMSE[B tensor.Backend]() *RMSE[B] {
	return loss.NewRMSE[B]()
}
