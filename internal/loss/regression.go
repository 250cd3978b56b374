package loss

import (
	"math"

	"github.com/born-ml/born/tensor"
)

// msleEpsilon floors inputs of the logarithmic losses away from -1, where
// log(1+x) diverges.
const msleEpsilon = 1e-7

type reluBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

func relu[B tensor.Backend](t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := t.Backend()
	b, ok := any(backend).(reluBackend)
	if !ok {
		panic("loss: backend must implement ReLU (use autodiff.New)")
	}
	return tensor.New[float32, B](b.ReLU(t.Raw()), backend)
}

// absolute computes |t| as relu(t) + relu(-t); both halves stay on the tape.
func absolute[B tensor.Backend](t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	neg := tensor.Zeros[float32, B](t.Shape(), t.Backend()).Sub(t)
	return relu(t).Add(relu(neg))
}

// floorAt clamps t elementwise to at least limit: relu(t - limit) + limit.
func floorAt[B tensor.Backend](t *tensor.Tensor[float32, B], limit float32) *tensor.Tensor[float32, B] {
	bound := tensor.Full[float32, B](t.Shape(), limit, t.Backend())
	return relu(t.Sub(bound)).Add(bound)
}

// MSE is the mean squared error loss.
type MSE[B tensor.Backend] struct{}

// NewMSE creates a mean squared error loss.
func NewMSE[B tensor.Backend]() *MSE[B] { return &MSE[B]{} }

func (m *MSE[B]) Apply(predicted, actual *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	diff := predicted.Sub(alignTargets(predicted, actual))
	return reduce(diff.Mul(diff))
}

func (m *MSE[B]) String() string { return "MSE" }

// MAE is the mean absolute error loss.
type MAE[B tensor.Backend] struct{}

// NewMAE creates a mean absolute error loss.
func NewMAE[B tensor.Backend]() *MAE[B] { return &MAE[B]{} }

func (m *MAE[B]) Apply(predicted, actual *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	diff := predicted.Sub(alignTargets(predicted, actual))
	return reduce(absolute(diff))
}

func (m *MAE[B]) String() string { return "MAE" }

// MSLE is the mean squared logarithmic error loss.
//
// Inputs are floored at a small epsilon before the log, so targets or
// predictions at zero do not produce NaN.
type MSLE[B tensor.Backend] struct{}

// NewMSLE creates a mean squared logarithmic error loss.
func NewMSLE[B tensor.Backend]() *MSLE[B] { return &MSLE[B]{} }

func (m *MSLE[B]) Apply(predicted, actual *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	targets := alignTargets(predicted, actual)
	ones := tensor.Ones[float32, B](predicted.Shape(), predicted.Backend())
	logPred := floorAt(predicted, msleEpsilon).Add(ones).Log()
	logActual := floorAt(targets, msleEpsilon).Add(ones).Log()
	diff := logPred.Sub(logActual)
	return reduce(diff.Mul(diff))
}

func (m *MSLE[B]) String() string { return "MSLE" }

// RMSE is the root mean squared error loss.
//
// The square root is not a taped operation, so RMSE rescales the taped
// squared-error reduction by the constant 1/sqrt(value): the forward value is
// exact and gradients keep the direction of the squared-error gradients.
type RMSE[B tensor.Backend] struct{}

// NewRMSE creates a root mean squared error loss.
func NewRMSE[B tensor.Backend]() *RMSE[B] { return &RMSE[B]{} }

func (r *RMSE[B]) Apply(predicted, actual *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	diff := predicted.Sub(alignTargets(predicted, actual))
	squared := reduce(diff.Mul(diff))

	value := float64(squared.Raw().AsFloat32()[0])
	scale := float32(1.0)
	if value > 0 {
		scale = float32(1.0 / math.Sqrt(value))
	}
	return squared.Mul(tensor.Full[float32, B](tensor.Shape{1, 1}, scale, squared.Backend()))
}

func (r *RMSE[B]) String() string { return "RMSE" }
