package metric

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deep/internal/loss"
)

type Backend = *autodiff.Backend[*cpu.Backend]

func TestAccuracy(t *testing.T) {
	predictions := []float32{
		0.9, 0.1, // argmax 0
		0.2, 0.8, // argmax 1
		0.6, 0.4, // argmax 0
	}
	labels := []float32{0, 1, 1}

	got := Accuracy.OfBatch(predictions, labels, 3, 2)
	assert.InDelta(t, 2.0/3.0, got, 1e-9)
}

func TestAccuracyIgnoresScale(t *testing.T) {
	// Rescaling the rows must not change the argmax.
	small := []float32{0.09, 0.01, 0.02, 0.08}
	large := []float32{9, 1, 2, 8}
	labels := []float32{0, 1}

	assert.Equal(t,
		Accuracy.OfBatch(small, labels, 2, 2),
		Accuracy.OfBatch(large, labels, 2, 2))
}

func TestAccuracyPermutationInvariant(t *testing.T) {
	const batch, features = 16, 4
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test data
	predictions := make([]float32, batch*features)
	for i := range predictions {
		predictions[i] = rng.Float32()
	}
	labels := make([]float32, batch)
	for i := range labels {
		labels[i] = float32(rng.Intn(features))
	}
	want := Accuracy.OfBatch(predictions, labels, batch, features)

	// Reordering the samples (with their labels) must not change the accuracy.
	perm := rng.Perm(batch)
	shuffledPredictions := make([]float32, len(predictions))
	shuffledLabels := make([]float32, batch)
	for dst, src := range perm {
		copy(shuffledPredictions[dst*features:(dst+1)*features], predictions[src*features:(src+1)*features])
		shuffledLabels[dst] = labels[src]
	}
	assert.Equal(t, want, Accuracy.OfBatch(shuffledPredictions, shuffledLabels, batch, features))
}

func TestErrorMetrics(t *testing.T) {
	predictions := []float32{1, 3}
	labels := []float32{2, 1}

	assert.InDelta(t, 1.5, MAE.OfBatch(predictions, labels, 2, 1), 1e-9)
	assert.InDelta(t, 2.5, MSE.OfBatch(predictions, labels, 2, 1), 1e-9)
	assert.InDelta(t, math.Sqrt(2.5), RMSE.OfBatch(predictions, labels, 2, 1), 1e-9)
}

func TestMSLEMetricFiniteAtZero(t *testing.T) {
	predictions := []float32{0, 0}
	labels := []float32{0, 0}

	got := MSLE.OfBatch(predictions, labels, 2, 1)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 0.0, got, 1e-9)
}

func TestEmptyBatch(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy.OfBatch(nil, nil, 0, 10))
	assert.Equal(t, 0.0, MSE.OfBatch(nil, nil, 0, 1))
}

func TestFromLoss(t *testing.T) {
	m, err := FromLoss[Backend](loss.NewMSE[Backend]())
	require.NoError(t, err)
	assert.Equal(t, MSE, m)

	m, err = FromLoss[Backend](loss.NewRMSE[Backend]())
	require.NoError(t, err)
	assert.Equal(t, RMSE, m)

	_, err = FromLoss[Backend](loss.NewSoftmaxCrossEntropyWithLogits[Backend]())
	assert.Error(t, err)
}

func TestLossFor(t *testing.T) {
	l, err := LossFor[Backend](MAE)
	require.NoError(t, err)
	assert.Equal(t, "MAE", l.String())

	_, err = LossFor[Backend](Accuracy)
	assert.Error(t, err)
}

func TestMetricNames(t *testing.T) {
	assert.Equal(t, "ACCURACY", Accuracy.String())
	assert.Equal(t, "MAE", MAE.String())
	assert.Equal(t, "MSE", MSE.String())
	assert.Equal(t, "RMSE", RMSE.String())
	assert.Equal(t, "MSLE", MSLE.String())
}
