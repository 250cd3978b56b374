package layer

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/initializer"
)

// Dense is a fully connected layer: y = activation(x @ kernel + bias).
//
// The kernel is stored in Keras/TensorFlow convention [in_features, units],
// which lets weight files load without transposition and keeps the forward
// pass a single MatMul.
type Dense[B tensor.Backend] struct {
	units      int
	activation Activation
	kernelInit initializer.Initializer[B]
	biasInit   initializer.Initializer[B]
	name       string
	trainable  bool

	inFeatures int
	kernel     *nn.Parameter[B] // [in_features, units]
	bias       *nn.Parameter[B] // [units]
}

// NewDense creates a Dense layer with the given output width, activation and
// initializer strategies.
func NewDense[B tensor.Backend](
	units int,
	activation Activation,
	kernelInit, biasInit initializer.Initializer[B],
	name string,
) *Dense[B] {
	return &Dense[B]{
		units:      units,
		activation: activation,
		kernelInit: kernelInit,
		biasInit:   biasInit,
		name:       name,
		trainable:  true,
	}
}

func (d *Dense[B]) Name() string { return d.name }
func (d *Dense[B]) SetName(name string) { d.name = name }
func (d *Dense[B]) IsTrainable() bool { return d.trainable }
func (d *Dense[B]) SetTrainable(trainable bool) { d.trainable = trainable }

// Units returns the output width.
func (d *Dense[B]) Units() int { return d.units }

// Activation returns the configured nonlinearity.
func (d *Dense[B]) Activation() Activation { return d.activation }

// Kernel returns the kernel parameter, nil before Build.
func (d *Dense[B]) Kernel() *nn.Parameter[B] { return d.kernel }

// Bias returns the bias parameter, nil before Build.
func (d *Dense[B]) Bias() *nn.Parameter[B] { return d.bias }

func (d *Dense[B]) Build(backend B, inputShape tensor.Shape) error {
	if d.units <= 0 {
		return fmt.Errorf("layer %q: units must be positive, got %d", d.name, d.units)
	}
	if len(inputShape) != 1 {
		return shapeError(d.name, "rank-1 (flattened)", inputShape)
	}
	d.inFeatures = inputShape[0]

	kernel := d.kernelInit.Initialize(d.inFeatures, d.units, tensor.Shape{d.inFeatures, d.units}, backend)
	d.kernel = nn.NewParameter(d.name+"/kernel", kernel)

	bias := d.biasInit.Initialize(d.inFeatures, d.units, tensor.Shape{d.units}, backend)
	d.bias = nn.NewParameter(d.name+"/bias", bias)
	return nil
}

func (d *Dense[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 1 {
		return nil, shapeError(d.name, "rank-1 (flattened)", inputShape)
	}
	return tensor.Shape{d.units}, nil
}

func (d *Dense[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := input.MatMul(d.kernel.Tensor())
	out = out.Add(d.bias.Tensor().Reshape(1, d.units))
	return activate(d.activation, out)
}

func (d *Dense[B]) Parameters() []*nn.Parameter[B] {
	return []*nn.Parameter[B]{d.kernel, d.bias}
}

func (d *Dense[B]) String() string {
	return fmt.Sprintf("Dense(units=%d, activation=%s)", d.units, d.activation)
}
