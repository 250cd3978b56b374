// Package loss implements the loss functions a model can be compiled with.
//
// Every loss produces a scalar-shaped [1, 1] (or [1]) tensor through
// operations the engine records on its gradient tape, so Fit can
// differentiate the loss with respect to every weight. The regression losses
// reduce per-element errors by mean across the feature axis and sum across
// the batch axis; since the tape does not record reduce ops directly, the
// reduction is expressed as a matrix product against a constant vector, which
// the tape does record.
package loss

import (
	"fmt"

	"github.com/born-ml/born/tensor"
)

// Loss computes a differentiable scalar from predictions and ground truth.
//
// For classification losses actual holds float32-encoded class indices of
// shape [batch] or [batch, 1]; for regression losses it holds target values
// with the same element count as predicted. Apply panics on shape mismatch,
// matching the engine's forward-op convention.
type Loss[B tensor.Backend] interface {
	Apply(predicted, actual *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
	String() string
}

// reduce collapses a per-element error tensor to a [1, 1] scalar: mean across
// the feature axis, sum across the batch axis.
//
// Implemented as flat [1, n] x (1/features)[n, 1] so the reduction lands on
// the gradient tape.
func reduce[B tensor.Backend](t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := t.Shape()
	features := shape[len(shape)-1]
	n := t.NumElements()
	flat := t.Reshape(1, n)
	weights := tensor.Full[float32, B](tensor.Shape{n, 1}, 1.0/float32(features), t.Backend())
	return flat.MatMul(weights)
}

// alignTargets reshapes actual to predicted's shape. The two must carry the
// same number of elements; actual is commonly [batch] or [batch, 1] against a
// [batch, units] prediction only when units == 1.
func alignTargets[B tensor.Backend](predicted, actual *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if actual.NumElements() != predicted.NumElements() {
		panic(fmt.Sprintf("loss: predictions %v and targets %v have different sizes",
			predicted.Shape(), actual.Shape()))
	}
	return actual.Reshape(predicted.Shape()...)
}
