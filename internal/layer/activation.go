package layer

import (
	"fmt"

	"github.com/born-ml/born/tensor"
)

// Activation identifies the nonlinearity applied after a layer's linear part.
//
// The set is closed: it mirrors the activations the underlying engine can
// differentiate through its gradient tape.
type Activation int

const (
	// ActivationLinear applies no nonlinearity.
	ActivationLinear Activation = iota
	// ActivationRelu applies max(0, x).
	ActivationRelu
	// ActivationSigmoid applies 1/(1+exp(-x)).
	ActivationSigmoid
	// ActivationTanh applies the hyperbolic tangent.
	ActivationTanh
	// ActivationSoftmax normalizes the last axis to a probability distribution.
	ActivationSoftmax
)

// String returns the Keras-style name of the activation.
func (a Activation) String() string {
	switch a {
	case ActivationRelu:
		return "relu"
	case ActivationSigmoid:
		return "sigmoid"
	case ActivationTanh:
		return "tanh"
	case ActivationSoftmax:
		return "softmax"
	default:
		return "linear"
	}
}

// ParseActivation maps a Keras activation name to the internal variant.
func ParseActivation(name string) (Activation, error) {
	switch name {
	case "linear", "":
		return ActivationLinear, nil
	case "relu":
		return ActivationRelu, nil
	case "sigmoid":
		return ActivationSigmoid, nil
	case "tanh":
		return ActivationTanh, nil
	case "softmax":
		return ActivationSoftmax, nil
	default:
		return ActivationLinear, fmt.Errorf("%s is not supported yet!", name)
	}
}

// Backend capability interfaces, asserted at runtime. The autodiff-wrapped
// backends implement these and record the operation on the gradient tape.
type (
	reluBackend    interface{ ReLU(*tensor.RawTensor) *tensor.RawTensor }
	sigmoidBackend interface{ Sigmoid(*tensor.RawTensor) *tensor.RawTensor }
	tanhBackend    interface{ Tanh(*tensor.RawTensor) *tensor.RawTensor }
	softmaxBackend interface{ Softmax(*tensor.RawTensor) *tensor.RawTensor }
)

// activate applies the nonlinearity on the tensor's own backend.
func activate[B tensor.Backend](a Activation, t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := t.Backend()
	var raw *tensor.RawTensor
	switch a {
	case ActivationLinear:
		return t
	case ActivationRelu:
		b, ok := any(backend).(reluBackend)
		if !ok {
			panic("activation: backend must implement ReLU (use autodiff.New)")
		}
		raw = b.ReLU(t.Raw())
	case ActivationSigmoid:
		b, ok := any(backend).(sigmoidBackend)
		if !ok {
			panic("activation: backend must implement Sigmoid (use autodiff.New)")
		}
		raw = b.Sigmoid(t.Raw())
	case ActivationTanh:
		b, ok := any(backend).(tanhBackend)
		if !ok {
			panic("activation: backend must implement Tanh (use autodiff.New)")
		}
		raw = b.Tanh(t.Raw())
	case ActivationSoftmax:
		b, ok := any(backend).(softmaxBackend)
		if !ok {
			panic("activation: backend must implement Softmax (use autodiff.New)")
		}
		raw = b.Softmax(t.Raw())
	default:
		panic(fmt.Sprintf("activation: unknown activation %d", a))
	}
	return tensor.New[float32, B](raw, backend)
}
