package layer

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/initializer"
)

// Padding selects how a convolution treats the input border.
type Padding int

const (
	// PaddingValid uses no padding; the output shrinks by kernel-1.
	PaddingValid Padding = iota
	// PaddingSame pads so that stride-1 convolutions preserve spatial dims.
	PaddingSame
)

// String returns the Keras-style name of the padding.
func (p Padding) String() string {
	if p == PaddingSame {
		return "same"
	}
	return "valid"
}

// ParsePadding maps a Keras padding name to the internal variant.
func ParsePadding(name string) (Padding, error) {
	switch name {
	case "valid", "":
		return PaddingValid, nil
	case "same":
		return PaddingSame, nil
	default:
		return PaddingValid, fmt.Errorf("%s is not supported yet!", name)
	}
}

// Conv2D is a two-dimensional convolution layer.
//
// The kernel is stored in engine order [filters, in_channels, kh, kw]. Strides
// are symmetric. SAME padding is supported for stride-1 odd square kernels,
// where it reduces to an explicit pad of (k-1)/2.
type Conv2D[B tensor.Backend] struct {
	filters    int
	kernelSize [2]int
	stride     int
	padding    Padding
	activation Activation
	kernelInit initializer.Initializer[B]
	biasInit   initializer.Initializer[B]
	name       string
	trainable  bool

	inChannels int
	pad        int
	kernel     *nn.Parameter[B] // [filters, in_channels, kh, kw]
	bias       *nn.Parameter[B] // [filters]
}

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
	return &Conv2D[B]{
		filters:    filters,
		kernelSize: kernelSize,
		stride:     stride,
		padding:    padding,
		activation: activation,
		kernelInit: kernelInit,
		biasInit:   biasInit,
		name:       name,
		trainable:  true,
	}
}

func (c *Conv2D[B]) Name() string { return c.name }
func (c *Conv2D[B]) SetName(name string) { c.name = name }
func (c *Conv2D[B]) IsTrainable() bool { return c.trainable }
func (c *Conv2D[B]) SetTrainable(trainable bool) { c.trainable = trainable }

// Filters returns the number of output channels.
func (c *Conv2D[B]) Filters() int { return c.filters }

// KernelSize returns [kh, kw].
func (c *Conv2D[B]) KernelSize() [2]int { return c.kernelSize }

// Activation returns the configured nonlinearity.
func (c *Conv2D[B]) Activation() Activation { return c.activation }

// Kernel returns the kernel parameter, nil before Build.
func (c *Conv2D[B]) Kernel() *nn.Parameter[B] { return c.kernel }

// Bias returns the bias parameter, nil before Build.
func (c *Conv2D[B]) Bias() *nn.Parameter[B] { return c.bias }

func (c *Conv2D[B]) validate() error {
	if c.filters <= 0 {
		return fmt.Errorf("layer %q: filters must be positive, got %d", c.name, c.filters)
	}
	if c.kernelSize[0] <= 0 || c.kernelSize[1] <= 0 {
		return fmt.Errorf("layer %q: kernel size must be positive, got %v", c.name, c.kernelSize)
	}
	if c.stride <= 0 {
		return fmt.Errorf("layer %q: stride must be positive, got %d", c.name, c.stride)
	}
	if c.padding == PaddingSame {
		if c.stride != 1 {
			return fmt.Errorf("layer %q: same padding requires stride 1, got %d", c.name, c.stride)
		}
		if c.kernelSize[0] != c.kernelSize[1] || c.kernelSize[0]%2 == 0 {
			return fmt.Errorf("layer %q: same padding requires an odd square kernel, got %v", c.name, c.kernelSize)
		}
	}
	return nil
}

func (c *Conv2D[B]) Build(backend B, inputShape tensor.Shape) error {
	if err := c.validate(); err != nil {
		return err
	}
	if len(inputShape) != 3 {
		return shapeError(c.name, "rank-3 image", inputShape)
	}
	c.inChannels = inputShape[0]
	if c.padding == PaddingSame {
		c.pad = (c.kernelSize[0] - 1) / 2
	}

	kh, kw := c.kernelSize[0], c.kernelSize[1]
	fanIn := c.inChannels * kh * kw
	fanOut := c.filters * kh * kw

	kernel := c.kernelInit.Initialize(fanIn, fanOut, tensor.Shape{c.filters, c.inChannels, kh, kw}, backend)
	c.kernel = nn.NewParameter(c.name+"/kernel", kernel)

	bias := c.biasInit.Initialize(fanIn, fanOut, tensor.Shape{c.filters}, backend)
	c.bias = nn.NewParameter(c.name+"/bias", bias)
	return nil
}

func (c *Conv2D[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if len(inputShape) != 3 {
		return nil, shapeError(c.name, "rank-3 image", inputShape)
	}
	h, w := inputShape[1], inputShape[2]
	pad := 0
	if c.padding == PaddingSame {
		pad = (c.kernelSize[0] - 1) / 2
	}
	outH := (h+2*pad-c.kernelSize[0])/c.stride + 1
	outW := (w+2*pad-c.kernelSize[1])/c.stride + 1
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("layer %q: kernel %v does not fit input %v", c.name, c.kernelSize, inputShape)
	}
	return tensor.Shape{c.filters, outH, outW}, nil
}

func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	raw := backend.Conv2D(input.Raw(), c.kernel.Tensor().Raw(), c.stride, c.pad)
	out := tensor.New[float32, B](raw, backend)
	out = out.Add(c.bias.Tensor().Reshape(1, c.filters, 1, 1))
	return activate(c.activation, out)
}

func (c *Conv2D[B]) Parameters() []*nn.Parameter[B] {
	return []*nn.Parameter[B]{c.kernel, c.bias}
}

func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(filters=%d, kernel=%dx%d, stride=%d, padding=%s, activation=%s)",
		c.filters, c.kernelSize[0], c.kernelSize[1], c.stride, c.padding, c.activation)
}
