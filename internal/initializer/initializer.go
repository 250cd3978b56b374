// Package initializer implements weight initialization strategies for layers.
//
// Every initializer is a pure function from (fan_in, fan_out, shape) to a new
// tensor on the given backend. Random variants are deterministic for a fixed
// seed, so a model built twice with the same seeds starts from identical
// weights.
package initializer

import (
	"math/rand"

	"github.com/born-ml/born/tensor"
)

// Initializer produces the starting values for a weight tensor.
//
// fanIn and fanOut describe the connectivity of the layer owning the weight
// (input units and output units for Dense, channel*kernel products for
// Conv2D); variance-scaling initializers use them, constant ones ignore them.
type Initializer[B tensor.Backend] interface {
	// Initialize creates a new tensor of the given shape filled with this
	// strategy's starting values.
	Initialize(fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B]

	String() string
}

// fill allocates a raw tensor and populates it element by element.
func fill[B tensor.Backend](shape tensor.Shape, backend B, value func(i int) float32) *tensor.Tensor[float32, B] {
	raw, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}
	data := raw.AsFloat32()
	for i := range data {
		data[i] = value(i)
	}
	return tensor.New[float32, B](raw, backend)
}

// Zeros initializes all values to zero. Common for biases.
type Zeros[B tensor.Backend] struct{}

// NewZeros creates a Zeros initializer.
func NewZeros[B tensor.Backend]() *Zeros[B] { return &Zeros[B]{} }

func (z *Zeros[B]) Initialize(_, _ int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

func (z *Zeros[B]) String() string { return "Zeros" }

// Ones initializes all values to one.
type Ones[B tensor.Backend] struct{}

// NewOnes creates a Ones initializer.
func NewOnes[B tensor.Backend]() *Ones[B] { return &Ones[B]{} }

func (o *Ones[B]) Initialize(_, _ int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}

func (o *Ones[B]) String() string { return "Ones" }

// Constant initializes all values to a fixed constant.
type Constant[B tensor.Backend] struct {
	value float32
}

// NewConstant creates a Constant initializer with the given value.
func NewConstant[B tensor.Backend](value float32) *Constant[B] {
	return &Constant[B]{value: value}
}

func (c *Constant[B]) Initialize(_, _ int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Full[float32](shape, c.value, backend)
}

func (c *Constant[B]) String() string { return "Constant" }

// RandomNormal draws values from N(mean, stddev²).
type RandomNormal[B tensor.Backend] struct {
	mean   float32
	stddev float32
	seed   int64
}

// NewRandomNormal creates a seeded RandomNormal initializer.
func NewRandomNormal[B tensor.Backend](mean, stddev float32, seed int64) *RandomNormal[B] {
	return &RandomNormal[B]{mean: mean, stddev: stddev, seed: seed}
}

func (r *RandomNormal[B]) Initialize(_, _ int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	//nolint:gosec // math/rand is intentional: weight init needs reproducibility, not entropy
	rng := rand.New(rand.NewSource(r.seed))
	return fill(shape, backend, func(int) float32 {
		return r.mean + float32(rng.NormFloat64())*r.stddev
	})
}

func (r *RandomNormal[B]) String() string { return "RandomNormal" }

// RandomUniform draws values from U(min, max).
type RandomUniform[B tensor.Backend] struct {
	min  float32
	max  float32
	seed int64
}

// NewRandomUniform creates a seeded RandomUniform initializer.
func NewRandomUniform[B tensor.Backend](min, max float32, seed int64) *RandomUniform[B] {
	return &RandomUniform[B]{min: min, max: max, seed: seed}
}

func (r *RandomUniform[B]) Initialize(_, _ int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	//nolint:gosec // math/rand is intentional: weight init needs reproducibility, not entropy
	rng := rand.New(rand.NewSource(r.seed))
	span := r.max - r.min
	return fill(shape, backend, func(int) float32 {
		return r.min + rng.Float32()*span
	})
}

func (r *RandomUniform[B]) String() string { return "RandomUniform" }
