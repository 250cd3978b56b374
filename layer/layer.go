// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layer provides the layer types a sequential model is built from.
package layer

import (
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/initializer"
	"github.com/born-ml/deep/internal/layer"
)

// Layer is a single node of a sequential model.
type Layer[B tensor.Backend] = layer.Layer[B]

// Activation identifies the nonlinearity applied after a layer's linear part.
type Activation = layer.Activation

// Supported activations.
const (
	ActivationLinear  = layer.ActivationLinear
	ActivationRelu    = layer.ActivationRelu
	ActivationSigmoid = layer.ActivationSigmoid
	ActivationTanh    = layer.ActivationTanh
	ActivationSoftmax = layer.ActivationSoftmax
)

// ParseActivation maps a Keras activation name to the internal variant.
func ParseActivation(name string) (Activation, error) {
	return layer.ParseActivation(name)
}

// Padding selects how a convolution treats the input border.
type Padding = layer.Padding

// Supported paddings.
const (
	PaddingValid = layer.PaddingValid
	PaddingSame  = layer.PaddingSame
)

// ParsePadding maps a Keras padding name to the internal variant.
func ParsePadding(name string) (Padding, error) {
	return layer.ParsePadding(name)
}

// Input declares the static shape a model accepts.
type Input[B tensor.Backend] = layer.Input[B]

// NewInput creates an Input layer. Dims excludes the batch axis: either a
// feature count or image dims [height, width, channels].
//
// Example:
//
//	in := layer.NewInput[B]([]int{28, 28, 1}, "input")
func NewInput[B tensor.Backend](dims []int, name string) *Input[B] {
	return layer.NewInput[B](dims, name)
}

// Dense is a fully connected layer.
type Dense[B tensor.Backend] = layer.Dense[B]

// NewDense creates a Dense layer.
//
// Example:
//
//	d := layer.NewDense(84, layer.ActivationTanh,
//		initializer.NewGlorotNormal[B](12), initializer.NewZeros[B](), "dense_1")
func NewDense[B tensor.Backend](
	units int,
	activation Activation,
	kernelInit, biasInit initializer.Initializer[B],
	name string,
) *Dense[B] {
	return layer.NewDense(units, activation, kernelInit, biasInit, name)
}

// Conv2D is a two-dimensional convolution layer.
type Conv2D[B tensor.Backend] = layer.Conv2D[B]

// NewConv2D creates a Conv2D layer. kernelSize is [kh, kw]; stride applies to
// both spatial axes.
func NewConv2D[B tensor.Backend](
	filters int,
	kernelSize [2]int,
	stride int,
	padding Padding,
	activation Activation,
	kernelInit, biasInit initializer.Initializer[B],
	name string,
) *Conv2D[B] {
	return layer.NewConv2D(filters, kernelSize, stride, padding, activation, kernelInit, biasInit, name)
}

// MaxPool2D is a two-dimensional max pooling layer.
type MaxPool2D[B tensor.Backend] = layer.MaxPool2D[B]

// NewMaxPool2D creates a MaxPool2D layer with a square window.
func NewMaxPool2D[B tensor.Backend](poolSize, stride int, name string) *MaxPool2D[B] {
	return layer.NewMaxPool2D[B](poolSize, stride, name)
}

// Flatten collapses all non-batch axes into one.
type Flatten[B tensor.Backend] = layer.Flatten[B]

// NewFlatten creates a Flatten layer.
func NewFlatten[B tensor.Backend](name string) *Flatten[B] {
	return layer.NewFlatten[B](name)
}
