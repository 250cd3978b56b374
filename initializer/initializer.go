// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package initializer provides the weight initialization strategies layers
// are configured with.
package initializer

import (
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/initializer"
)

// Initializer produces a layer's initial weight tensor from its connectivity
// and shape.
type Initializer[B tensor.Backend] = initializer.Initializer[B]

// Zeros fills weights with zeros.
type Zeros[B tensor.Backend] = initializer.Zeros[B]

// NewZeros creates a Zeros initializer.
func NewZeros[B tensor.Backend]() *Zeros[B] {
	return initializer.NewZeros[B]()
}

// Ones fills weights with ones.
type Ones[B tensor.Backend] = initializer.Ones[B]

// NewOnes creates a Ones initializer.
func NewOnes[B tensor.Backend]() *Ones[B] {
	return initializer.NewOnes[B]()
}

// Constant fills weights with a fixed value.
type Constant[B tensor.Backend] = initializer.Constant[B]

// NewConstant creates a Constant initializer.
func NewConstant[B tensor.Backend](value float32) *Constant[B] {
	return initializer.NewConstant[B](value)
}

// RandomNormal draws weights from a normal distribution.
type RandomNormal[B tensor.Backend] = initializer.RandomNormal[B]

// NewRandomNormal creates a seeded RandomNormal initializer.
func NewRandomNormal[B tensor.Backend](mean, stddev float32, seed int64) *RandomNormal[B] {
	return initializer.NewRandomNormal[B](mean, stddev, seed)
}

// RandomUniform draws weights uniformly from [min, max).
type RandomUniform[B tensor.Backend] = initializer.RandomUniform[B]

// NewRandomUniform creates a seeded RandomUniform initializer.
func NewRandomUniform[B tensor.Backend](min, max float32, seed int64) *RandomUniform[B] {
	return initializer.NewRandomUniform[B](min, max, seed)
}

// GlorotNormal is Xavier/Glorot truncated-normal initialization.
type GlorotNormal[B tensor.Backend] = initializer.GlorotNormal[B]

// NewGlorotNormal creates a seeded GlorotNormal initializer.
func NewGlorotNormal[B tensor.Backend](seed int64) *GlorotNormal[B] {
	return initializer.NewGlorotNormal[B](seed)
}

// GlorotUniform is Xavier/Glorot uniform initialization.
type GlorotUniform[B tensor.Backend] = initializer.GlorotUniform[B]

// NewGlorotUniform creates a seeded GlorotUniform initializer.
func NewGlorotUniform[B tensor.Backend](seed int64) *GlorotUniform[B] {
	return initializer.NewGlorotUniform[B](seed)
}

// HeNormal is He/Kaiming truncated-normal initialization.
type HeNormal[B tensor.Backend] = initializer.HeNormal[B]

// NewHeNormal creates a seeded HeNormal initializer.
func NewHeNormal[B tensor.Backend](seed int64) *HeNormal[B] {
	return initializer.NewHeNormal[B](seed)
}

// HeUniform is He/Kaiming uniform initialization.
type HeUniform[B tensor.Backend] = initializer.HeUniform[B]

// NewHeUniform creates a seeded HeUniform initializer.
func NewHeUniform[B tensor.Backend](seed int64) *HeUniform[B] {
	return initializer.NewHeUniform[B](seed)
}

// LeCunNormal is LeCun truncated-normal initialization.
type LeCunNormal[B tensor.Backend] = initializer.LeCunNormal[B]

// NewLeCunNormal creates a seeded LeCunNormal initializer.
func NewLeCunNormal[B tensor.Backend](seed int64) *LeCunNormal[B] {
	return initializer.NewLeCunNormal[B](seed)
}

// LeCunUniform is LeCun uniform initialization.
type LeCunUniform[B tensor.Backend] = initializer.LeCunUniform[B]

// NewLeCunUniform creates a seeded LeCunUniform initializer.
func NewLeCunUniform[B tensor.Backend](seed int64) *LeCunUniform[B] {
	return initializer.NewLeCunUniform[B](seed)
}
