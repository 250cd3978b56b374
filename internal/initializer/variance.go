package initializer

import (
	"math"
	"math/rand"

	"github.com/born-ml/born/tensor"
)

// Variance-scaling family: Glorot, He and LeCun initialization.
//
// Each variant scales the distribution by the layer's connectivity:
//
//	Glorot: scale = 2 / (fan_in + fan_out)
//	He:     scale = 2 / fan_in
//	LeCun:  scale = 1 / fan_in
//
// Normal variants use a truncated normal with stddev sqrt(scale), resampling
// values outside two standard deviations; uniform variants use
// U(-limit, limit) with limit = sqrt(3 * scale).

type varianceMode int

const (
	glorotMode varianceMode = iota
	heMode
	lecunMode
)

func (m varianceMode) scale(fanIn, fanOut int) float64 {
	switch m {
	case heMode:
		return 2.0 / float64(max(fanIn, 1))
	case lecunMode:
		return 1.0 / float64(max(fanIn, 1))
	default:
		return 2.0 / float64(max(fanIn+fanOut, 1))
	}
}

// truncatedNormal resamples until the value lies within two stddevs.
func truncatedNormal(rng *rand.Rand, stddev float64) float32 {
	if stddev == 0 {
		return 0
	}
	for {
		v := rng.NormFloat64() * stddev
		if math.Abs(v) <= 2*stddev {
			return float32(v)
		}
	}
}

func scaledNormal[B tensor.Backend](mode varianceMode, seed int64, fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	//nolint:gosec // math/rand is intentional: weight init needs reproducibility, not entropy
	rng := rand.New(rand.NewSource(seed))
	stddev := math.Sqrt(mode.scale(fanIn, fanOut))
	return fill(shape, backend, func(int) float32 {
		return truncatedNormal(rng, stddev)
	})
}

func scaledUniform[B tensor.Backend](mode varianceMode, seed int64, fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	//nolint:gosec // math/rand is intentional: weight init needs reproducibility, not entropy
	rng := rand.New(rand.NewSource(seed))
	limit := math.Sqrt(3 * mode.scale(fanIn, fanOut))
	return fill(shape, backend, func(int) float32 {
		return float32((rng.Float64()*2 - 1) * limit)
	})
}

// GlorotNormal is Xavier/Glorot truncated-normal initialization.
type GlorotNormal[B tensor.Backend] struct{ seed int64 }

// NewGlorotNormal creates a seeded GlorotNormal initializer.
func NewGlorotNormal[B tensor.Backend](seed int64) *GlorotNormal[B] {
	return &GlorotNormal[B]{seed: seed}
}

func (g *GlorotNormal[B]) Initialize(fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return scaledNormal(glorotMode, g.seed, fanIn, fanOut, shape, backend)
}

func (g *GlorotNormal[B]) String() string { return "GlorotNormal" }

// GlorotUniform is Xavier/Glorot uniform initialization.
type GlorotUniform[B tensor.Backend] struct{ seed int64 }

// NewGlorotUniform creates a seeded GlorotUniform initializer.
func NewGlorotUniform[B tensor.Backend](seed int64) *GlorotUniform[B] {
	return &GlorotUniform[B]{seed: seed}
}

func (g *GlorotUniform[B]) Initialize(fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return scaledUniform(glorotMode, g.seed, fanIn, fanOut, shape, backend)
}

func (g *GlorotUniform[B]) String() string { return "GlorotUniform" }

// HeNormal is He/Kaiming truncated-normal initialization.
type HeNormal[B tensor.Backend] struct{ seed int64 }

// NewHeNormal creates a seeded HeNormal initializer.
func NewHeNormal[B tensor.Backend](seed int64) *HeNormal[B] {
	return &HeNormal[B]{seed: seed}
}

func (h *HeNormal[B]) Initialize(fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return scaledNormal(heMode, h.seed, fanIn, fanOut, shape, backend)
}

func (h *HeNormal[B]) String() string { return "HeNormal" }

// HeUniform is He/Kaiming uniform initialization.
type HeUniform[B tensor.Backend] struct{ seed int64 }

// NewHeUniform creates a seeded HeUniform initializer.
func NewHeUniform[B tensor.Backend](seed int64) *HeUniform[B] {
	return &HeUniform[B]{seed: seed}
}

func (h *HeUniform[B]) Initialize(fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return scaledUniform(heMode, h.seed, fanIn, fanOut, shape, backend)
}

func (h *HeUniform[B]) String() string { return "HeUniform" }

// LeCunNormal is LeCun truncated-normal initialization.
type LeCunNormal[B tensor.Backend] struct{ seed int64 }

// NewLeCunNormal creates a seeded LeCunNormal initializer.
func NewLeCunNormal[B tensor.Backend](seed int64) *LeCunNormal[B] {
	return &LeCunNormal[B]{seed: seed}
}

func (l *LeCunNormal[B]) Initialize(fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return scaledNormal(lecunMode, l.seed, fanIn, fanOut, shape, backend)
}

func (l *LeCunNormal[B]) String() string { return "LeCunNormal" }

// LeCunUniform is LeCun uniform initialization.
type LeCunUniform[B tensor.Backend] struct{ seed int64 }

// NewLeCunUniform creates a seeded LeCunUniform initializer.
func NewLeCunUniform[B tensor.Backend](seed int64) *LeCunUniform[B] {
	return &LeCunUniform[B]{seed: seed}
}

func (l *LeCunUniform[B]) Initialize(fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return scaledUniform(lecunMode, l.seed, fanIn, fanOut, shape, backend)
}

func (l *LeCunUniform[B]) String() string { return "LeCunUniform" }
