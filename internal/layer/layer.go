// Package layer implements the layer variants of a sequential model.
//
// A layer is a named, shape-transforming node. The variant set is closed
// (Input, Dense, Conv2D, MaxPool2D, Flatten): it tracks the Keras
// compatibility table of the config importer and is not a runtime plugin
// point.
//
// Shapes handled by this package never include the batch axis. Image shapes
// are engine order [channels, height, width]; the model converts from the
// user-facing [height, width, channels] at the input boundary.
package layer

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Layer is a single node of a sequential model.
//
// Build runs exactly once, when the owning model is compiled: it validates
// the incoming shape and materializes the layer's weight tensors through its
// initializer strategies. Forward runs once per batch and must use only
// operations the engine records on its gradient tape, so that training can
// differentiate through the whole stack.
type Layer[B tensor.Backend] interface {
	// Name returns the layer name, unique within a model.
	Name() string
	// SetName renames the layer. The model assigns default names before
	// compilation; renaming afterwards breaks weight-file lookup.
	SetName(name string)

	// IsTrainable reports whether the layer's weights receive gradient
	// updates. Frozen layers still participate in forward passes.
	IsTrainable() bool
	// SetTrainable freezes or unfreezes the layer. Takes effect at the next
	// Fit call.
	SetTrainable(trainable bool)

	// Build materializes weights for the given input shape (batch axis
	// excluded). Fails on incompatible shapes or unsupported configuration.
	Build(backend B, inputShape tensor.Shape) error
	// OutputShape derives the output shape for the given input shape.
	OutputShape(inputShape tensor.Shape) (tensor.Shape, error)
	// Forward applies the layer to a batch.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the layer's weight parameters, empty for
	// parameterless layers.
	Parameters() []*nn.Parameter[B]
}

// ParamCount sums the number of weight elements of a layer.
func ParamCount[B tensor.Backend](l Layer[B]) int {
	total := 0
	for _, p := range l.Parameters() {
		total += p.Tensor().NumElements()
	}
	return total
}

func shapeError(layerName string, want string, got tensor.Shape) error {
	return fmt.Errorf("layer %q: expected %s input, got shape %v", layerName, want, got)
}
