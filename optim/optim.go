// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the optimizer and gradient-clipping configurations a
// model can be compiled with.
package optim

import (
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/optim"
)

// Optimizer configures a weight update rule.
type Optimizer[B tensor.Backend] = optim.Optimizer[B]

// ClipGradient bounds gradients before each optimizer step.
type ClipGradient = optim.ClipGradient

// NoClipGradient leaves gradients untouched.
type NoClipGradient = optim.NoClipGradient

// NewNoClipGradient creates the no-op clipper.
func NewNoClipGradient() *NoClipGradient {
	return optim.NewNoClipGradient()
}

// ClipGradientByValue clamps every gradient element to [-value, value].
type ClipGradientByValue = optim.ClipGradientByValue

// NewClipGradientByValue creates a per-element clipper.
func NewClipGradientByValue(value float32) *ClipGradientByValue {
	return optim.NewClipGradientByValue(value)
}

// ClipGradientByNorm rescales all gradients when their global norm exceeds
// the bound.
type ClipGradientByNorm = optim.ClipGradientByNorm

// NewClipGradientByNorm creates a global-norm clipper.
func NewClipGradientByNorm(maxNorm float32) *ClipGradientByNorm {
	return optim.NewClipGradientByNorm(maxNorm)
}

// SGD is plain stochastic gradient descent.
type SGD[B tensor.Backend] = optim.SGD[B]

// NewSGD creates an SGD configuration.
func NewSGD[B tensor.Backend](lr float32, clip ClipGradient) *SGD[B] {
	return optim.NewSGD[B](lr, clip)
}

// Momentum is SGD with a velocity term.
type Momentum[B tensor.Backend] = optim.Momentum[B]

// NewMomentum creates a momentum SGD configuration.
func NewMomentum[B tensor.Backend](lr, momentum float32, clip ClipGradient) *Momentum[B] {
	return optim.NewMomentum[B](lr, momentum, clip)
}

// Adam is the Adam optimizer with bias correction.
type Adam[B tensor.Backend] = optim.Adam[B]

// NewAdam creates an Adam configuration.
//
// Example:
//
//	opt := optim.NewAdam[B](0.001, 0.9, 0.999, 1e-07, optim.NewNoClipGradient())
func NewAdam[B tensor.Backend](lr, beta1, beta2, epsilon float32, clip ClipGradient) *Adam[B] {
	return optim.NewAdam[B](lr, beta1, beta2, epsilon, clip)
}
