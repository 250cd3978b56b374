package optim

import (
	"math"

	"github.com/born-ml/born/tensor"
)

// ClipGradient bounds gradients in place before the engine optimizer applies
// them. Apply runs once per training step on the full gradient map.
type ClipGradient interface {
	Apply(grads map[*tensor.RawTensor]*tensor.RawTensor)
	String() string
}

// NoClipGradient leaves gradients untouched.
type NoClipGradient struct{}

// NewNoClipGradient creates the no-op clipper.
func NewNoClipGradient() *NoClipGradient { return &NoClipGradient{} }

func (n *NoClipGradient) Apply(map[*tensor.RawTensor]*tensor.RawTensor) {}

func (n *NoClipGradient) String() string { return "NoClipGradient" }

// ClipGradientByValue clamps every gradient element to [-value, value].
type ClipGradientByValue struct {
	value float32
}

// NewClipGradientByValue creates a per-element clipper.
func NewClipGradientByValue(value float32) *ClipGradientByValue {
	return &ClipGradientByValue{value: value}
}

func (c *ClipGradientByValue) Apply(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, grad := range grads {
		data := grad.AsFloat32()
		for i, v := range data {
			if v > c.value {
				data[i] = c.value
			} else if v < -c.value {
				data[i] = -c.value
			}
		}
	}
}

func (c *ClipGradientByValue) String() string { return "ClipGradientByValue" }

// ClipGradientByNorm rescales all gradients together when their global L2
// norm exceeds the bound, preserving gradient direction.
type ClipGradientByNorm struct {
	maxNorm float32
}

// NewClipGradientByNorm creates a global-norm clipper.
func NewClipGradientByNorm(maxNorm float32) *ClipGradientByNorm {
	return &ClipGradientByNorm{maxNorm: maxNorm}
}

func (c *ClipGradientByNorm) Apply(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	sumSquares := 0.0
	for _, grad := range grads {
		for _, v := range grad.AsFloat32() {
			sumSquares += float64(v) * float64(v)
		}
	}
	norm := math.Sqrt(sumSquares)
	if norm <= float64(c.maxNorm) || norm == 0 {
		return
	}
	scale := float32(float64(c.maxNorm) / norm)
	for _, grad := range grads {
		data := grad.AsFloat32()
		for i := range data {
			data[i] *= scale
		}
	}
}

func (c *ClipGradientByNorm) String() string { return "ClipGradientByNorm" }
