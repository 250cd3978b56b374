package layer

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Input declares the static shape a sequential model accepts.
//
// Dims excludes the batch axis and uses the user-facing order: either a
// single feature count, e.g. Input(784), or image dims [height, width,
// channels], e.g. Input(28, 28, 1). It carries no weights and performs no
// transformation; the model uses it to establish the shape chain and to
// reshape flat input rows.
type Input[B tensor.Backend] struct {
	dims []int
	name string
}

// NewInput creates an Input layer with the given dims (batch axis excluded).
func NewInput[B tensor.Backend](dims []int, name string) *Input[B] {
	return &Input[B]{dims: append([]int(nil), dims...), name: name}
}

// Dims returns the declared dims in user-facing order.
func (in *Input[B]) Dims() []int { return append([]int(nil), in.dims...) }

func (in *Input[B]) Name() string { return in.name }
func (in *Input[B]) SetName(name string) { in.name = name }
func (in *Input[B]) IsTrainable() bool { return false }
func (in *Input[B]) SetTrainable(bool) {}
func (in *Input[B]) Parameters() []*nn.Parameter[B] { return nil }

func (in *Input[B]) Build(_ B, _ tensor.Shape) error {
	if len(in.dims) != 1 && len(in.dims) != 3 {
		return fmt.Errorf("layer %q: input dims must be [features] or [height, width, channels], got %v", in.name, in.dims)
	}
	for _, d := range in.dims {
		if d <= 0 {
			return fmt.Errorf("layer %q: input dims must be positive, got %v", in.name, in.dims)
		}
	}
	return nil
}

// OutputShape returns the dims in engine order ([channels, height, width]
// for images).
func (in *Input[B]) OutputShape(_ tensor.Shape) (tensor.Shape, error) {
	if len(in.dims) == 3 {
		h, w, c := in.dims[0], in.dims[1], in.dims[2]
		return tensor.Shape{c, h, w}, nil
	}
	return tensor.Shape{in.dims[0]}, nil
}

func (in *Input[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input
}
