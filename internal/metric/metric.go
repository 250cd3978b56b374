// Package metric implements the evaluation metrics a model reports during
// training and evaluation.
//
// Metrics run on the host over batch outputs already copied off the engine.
// They never touch the gradient tape: a metric is an observation, not a
// training signal.
package metric

import (
	"fmt"
	"math"

	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/loss"
)

// logEpsilon floors inputs of the logarithmic metric away from -1, matching
// the corresponding loss.
const logEpsilon = 1e-7

// Metric identifies an evaluation metric. The set is closed.
type Metric int

const (
	// Accuracy is the fraction of samples whose argmax prediction equals the
	// class label.
	Accuracy Metric = iota
	// MAE is the mean absolute error.
	MAE
	// MSE is the mean squared error.
	MSE
	// RMSE is the root mean squared error.
	RMSE
	// MSLE is the mean squared logarithmic error.
	MSLE
)

// String returns the metric's reporting name.
func (m Metric) String() string {
	switch m {
	case Accuracy:
		return "ACCURACY"
	case MAE:
		return "MAE"
	case MSE:
		return "MSE"
	case RMSE:
		return "RMSE"
	case MSLE:
		return "MSLE"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// FromLoss maps a loss to the metric that reports the same quantity.
// Classification losses have no value-compatible metric and return an error.
func FromLoss[B tensor.Backend](l loss.Loss[B]) (Metric, error) {
	switch l.(type) {
	case *loss.MAE[B]:
		return MAE, nil
	case *loss.MSE[B]:
		return MSE, nil
	case *loss.RMSE[B]:
		return RMSE, nil
	case *loss.MSLE[B]:
		return MSLE, nil
	default:
		return Accuracy, fmt.Errorf("metric: no metric corresponds to loss %s", l)
	}
}

// LossFor returns the loss computing the same quantity as the metric, for use
// as a training objective. Accuracy is not differentiable and returns an
// error.
func LossFor[B tensor.Backend](m Metric) (loss.Loss[B], error) {
	switch m {
	case MAE:
		return loss.NewMAE[B](), nil
	case MSE:
		return loss.NewMSE[B](), nil
	case RMSE:
		return loss.NewRMSE[B](), nil
	case MSLE:
		return loss.NewMSLE[B](), nil
	default:
		return nil, fmt.Errorf("metric: %s has no corresponding loss", m)
	}
}

// OfBatch computes the metric over one batch.
//
// predictions is row-major [batch, features]. labels carries either one value
// per sample or, for multi-output regression, one value per element. For
// Accuracy labels are class indices and the result is the correct fraction;
// for the error metrics the result is the mean over all elements.
func (m Metric) OfBatch(predictions, labels []float32, batch, features int) float64 {
	if batch == 0 {
		return 0
	}
	if m == Accuracy {
		return accuracyOf(predictions, labels, batch, features)
	}

	total := 0.0
	for i := 0; i < batch; i++ {
		for j := 0; j < features; j++ {
			p := float64(predictions[i*features+j])
			y := float64(target(labels, i, j, features, batch))
			switch m {
			case MAE:
				total += math.Abs(p - y)
			case MSE, RMSE:
				d := p - y
				total += d * d
			case MSLE:
				d := math.Log1p(math.Max(p, logEpsilon)) - math.Log1p(math.Max(y, logEpsilon))
				total += d * d
			}
		}
	}
	mean := total / float64(batch*features)
	if m == RMSE {
		return math.Sqrt(mean)
	}
	return mean
}

// target resolves the ground truth for element (i, j): element-wise when
// labels cover every output, per-sample otherwise.
func target(labels []float32, i, j, features, batch int) float32 {
	if len(labels) == batch*features && features > 1 {
		return labels[i*features+j]
	}
	return labels[i]
}

func accuracyOf(predictions, labels []float32, batch, features int) float64 {
	correct := 0
	for i := 0; i < batch; i++ {
		best := 0
		for j := 1; j < features; j++ {
			if predictions[i*features+j] > predictions[i*features+best] {
				best = j
			}
		}
		if best == int(labels[i]) {
			correct++
		}
	}
	return float64(correct) / float64(batch)
}
