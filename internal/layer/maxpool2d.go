package layer

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// MaxPool2D is a two-dimensional max pooling layer.
//
// Pooling windows are square and padding is always VALID: windows that do not
// fit inside the input are dropped.
type MaxPool2D[B tensor.Backend] struct {
	poolSize int
	stride   int
	name     string
}

// NewMaxPool2D creates a MaxPool2D layer with a square window and symmetric
// stride.
func NewMaxPool2D[B tensor.Backend](poolSize, stride int, name string) *MaxPool2D[B] {
	return &MaxPool2D[B]{poolSize: poolSize, stride: stride, name: name}
}

func (m *MaxPool2D[B]) Name() string { return m.name }
func (m *MaxPool2D[B]) SetName(name string) { m.name = name }
func (m *MaxPool2D[B]) IsTrainable() bool { return false }
func (m *MaxPool2D[B]) SetTrainable(bool) {}
func (m *MaxPool2D[B]) Parameters() []*nn.Parameter[B] { return nil }

// PoolSize returns the window side length.
func (m *MaxPool2D[B]) PoolSize() int { return m.poolSize }

// Stride returns the stride.
func (m *MaxPool2D[B]) Stride() int { return m.stride }

func (m *MaxPool2D[B]) Build(_ B, inputShape tensor.Shape) error {
	if m.poolSize <= 0 {
		return fmt.Errorf("layer %q: pool size must be positive, got %d", m.name, m.poolSize)
	}
	if m.stride <= 0 {
		return fmt.Errorf("layer %q: stride must be positive, got %d", m.name, m.stride)
	}
	if len(inputShape) != 3 {
		return shapeError(m.name, "rank-3 image", inputShape)
	}
	return nil
}

func (m *MaxPool2D[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 3 {
		return nil, shapeError(m.name, "rank-3 image", inputShape)
	}
	h, w := inputShape[1], inputShape[2]
	outH := (h-m.poolSize)/m.stride + 1
	outW := (w-m.poolSize)/m.stride + 1
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("layer %q: pool window %d does not fit input %v", m.name, m.poolSize, inputShape)
	}
	return tensor.Shape{inputShape[0], outH, outW}, nil
}

func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	raw := backend.MaxPool2D(input.Raw(), m.poolSize, m.stride)
	return tensor.New[float32, B](raw, backend)
}

func (m *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(pool=%d, stride=%d)", m.poolSize, m.stride)
}
