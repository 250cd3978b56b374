// Package optim implements the optimizer configurations a model can be
// compiled with.
//
// An Optimizer here is a configuration strategy, not the update rule itself:
// Build materializes an engine optimizer over the parameters that are
// trainable at that moment. Fit rebuilds it on every call, so freezing a
// layer between fits takes effect without touching engine state.
package optim

import (
	"fmt"

	"github.com/born-ml/born/nn"
	bornoptim "github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"
)

// Optimizer configures a weight update rule. Clip returns the gradient
// clipper applied before every engine Step.
type Optimizer[B tensor.Backend] interface {
	Build(params []*nn.Parameter[B], backend B) bornoptim.Optimizer
	Clip() ClipGradient
	String() string
}

// SGD is plain stochastic gradient descent.
type SGD[B tensor.Backend] struct {
	lr   float32
	clip ClipGradient
}

// NewSGD creates an SGD configuration.
func NewSGD[B tensor.Backend](lr float32, clip ClipGradient) *SGD[B] {
	return &SGD[B]{lr: lr, clip: clip}
}

func (s *SGD[B]) Build(params []*nn.Parameter[B], backend B) bornoptim.Optimizer {
	return bornoptim.NewSGD(params, bornoptim.SGDConfig{LR: s.lr}, backend)
}

func (s *SGD[B]) Clip() ClipGradient { return s.clip }

func (s *SGD[B]) String() string { return fmt.Sprintf("SGD(lr=%g)", s.lr) }

// Momentum is SGD with a velocity term.
type Momentum[B tensor.Backend] struct {
	lr       float32
	momentum float32
	clip     ClipGradient
}

// NewMomentum creates a momentum SGD configuration.
func NewMomentum[B tensor.Backend](lr, momentum float32, clip ClipGradient) *Momentum[B] {
	return &Momentum[B]{lr: lr, momentum: momentum, clip: clip}
}

func (m *Momentum[B]) Build(params []*nn.Parameter[B], backend B) bornoptim.Optimizer {
	return bornoptim.NewSGD(params, bornoptim.SGDConfig{LR: m.lr, Momentum: m.momentum}, backend)
}

func (m *Momentum[B]) Clip() ClipGradient { return m.clip }

func (m *Momentum[B]) String() string {
	return fmt.Sprintf("Momentum(lr=%g, momentum=%g)", m.lr, m.momentum)
}

// Adam is the Adam optimizer with bias correction.
type Adam[B tensor.Backend] struct {
	lr      float32
	beta1   float32
	beta2   float32
	epsilon float32
	clip    ClipGradient
}

// NewAdam creates an Adam configuration.
func NewAdam[B tensor.Backend](lr, beta1, beta2, epsilon float32, clip ClipGradient) *Adam[B] {
	return &Adam[B]{lr: lr, beta1: beta1, beta2: beta2, epsilon: epsilon, clip: clip}
}

func (a *Adam[B]) Build(params []*nn.Parameter[B], backend B) bornoptim.Optimizer {
	return bornoptim.NewAdam(params, bornoptim.AdamConfig{
		LR:    a.lr,
		Betas: [2]float32{a.beta1, a.beta2},
		Eps:   a.epsilon,
	}, backend)
}

func (a *Adam[B]) Clip() ClipGradient { return a.clip }

func (a *Adam[B]) String() string {
	return fmt.Sprintf("Adam(lr=%g, beta1=%g, beta2=%g, epsilon=%g)", a.lr, a.beta1, a.beta2, a.epsilon)
}
