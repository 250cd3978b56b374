package layer

import (
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Flatten collapses all non-batch axes into one.
type Flatten[B tensor.Backend] struct {
	name     string
	features int
}

// NewFlatten creates a Flatten layer.
func NewFlatten[B tensor.Backend](name string) *Flatten[B] {
	return &Flatten[B]{name: name}
}

func (f *Flatten[B]) Name() string { return f.name }
func (f *Flatten[B]) SetName(name string) { f.name = name }
func (f *Flatten[B]) IsTrainable() bool { return false }
func (f *Flatten[B]) SetTrainable(bool) {}
func (f *Flatten[B]) Parameters() []*nn.Parameter[B] { return nil }

func (f *Flatten[B]) Build(_ B, inputShape tensor.Shape) error {
	if len(inputShape) == 0 {
		return shapeError(f.name, "non-empty", inputShape)
	}
	f.features = 1
	for _, d := range inputShape {
		f.features *= d
	}
	return nil
}

func (f *Flatten[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) == 0 {
		return nil, shapeError(f.name, "non-empty", inputShape)
	}
	n := 1
	for _, d := range inputShape {
		n *= d
	}
	return tensor.Shape{n}, nil
}

func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	batch := input.Shape()[0]
	return input.Reshape(batch, f.features)
}

func (f *Flatten[B]) String() string {
	return "Flatten()"
}
