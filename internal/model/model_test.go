package model

import (
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deep/internal/dataset"
	"github.com/born-ml/deep/internal/initializer"
	"github.com/born-ml/deep/internal/layer"
	"github.com/born-ml/deep/internal/loss"
	"github.com/born-ml/deep/internal/metric"
	"github.com/born-ml/deep/internal/optim"
)

type Backend = *autodiff.Backend[*cpu.Backend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

// newClassifier builds a small two-class dense stack.
func newClassifier(t *testing.T, backend Backend) *Sequential[Backend] {
	t.Helper()
	m, err := NewSequential(backend,
		layer.NewInput[Backend]([]int{2}, "input"),
		layer.NewDense(8, layer.ActivationTanh,
			initializer.NewGlorotNormal[Backend](12), initializer.NewZeros[Backend](), "dense_1"),
		layer.NewDense(2, layer.ActivationLinear,
			initializer.NewGlorotNormal[Backend](12), initializer.NewZeros[Backend](), "dense_2"),
	)
	require.NoError(t, err)
	return m
}

func compileClassifier(t *testing.T, m *Sequential[Backend]) {
	t.Helper()
	err := m.Compile(
		optim.NewAdam[Backend](0.01, 0.9, 0.999, 1e-07, optim.NewNoClipGradient()),
		loss.NewSoftmaxCrossEntropyWithLogits[Backend](),
		metric.Accuracy,
	)
	require.NoError(t, err)
}

// separableDataset is a linearly separable two-class problem: class 1 when
// the first feature exceeds the second.
func separableDataset(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	x := make([][]float32, n)
	y := make([]float32, n)
	for i := range x {
		a := float32(i%7)/7.0 - 0.5
		b := float32(i%5)/5.0 - 0.5
		x[i] = []float32{a, b}
		if a > b {
			y[i] = 1
		}
	}
	ds, err := dataset.New(x, y)
	require.NoError(t, err)
	return ds
}

func TestNewSequentialValidation(t *testing.T) {
	backend := newBackend()

	_, err := NewSequential[Backend](backend)
	assert.Error(t, err)

	_, err = NewSequential[Backend](backend,
		layer.NewFlatten[Backend]("flatten"))
	assert.Error(t, err)

	_, err = NewSequential[Backend](backend,
		layer.NewInput[Backend]([]int{2}, "input"),
		layer.NewInput[Backend]([]int{2}, "input_2"))
	assert.Error(t, err)

	_, err = NewSequential[Backend](backend,
		layer.NewInput[Backend]([]int{2}, "same"),
		layer.NewFlatten[Backend]("same"))
	assert.Error(t, err)
}

func TestDefaultLayerNames(t *testing.T) {
	backend := newBackend()
	m, err := NewSequential(backend,
		layer.NewInput[Backend]([]int{2}, ""),
		layer.NewFlatten[Backend](""),
	)
	require.NoError(t, err)

	layers := m.Layers()
	assert.Equal(t, "layer_1", layers[0].Name())
	assert.Equal(t, "layer_2", layers[1].Name())
}

func TestMethodsRequireCompile(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	ds := separableDataset(t, 20)

	_, err := m.Fit(ds, TrainConfig{Epochs: 1, BatchSize: 4})
	require.Error(t, err)
	assert.Equal(t, "The model is not compiled yet. Compile the model to use this method.", err.Error())

	_, err = m.Evaluate(ds, 4)
	assert.ErrorIs(t, err, ErrNotCompiled)

	_, err = m.Summary()
	assert.ErrorIs(t, err, ErrNotCompiled)

	_, err = m.PredictSoftly([]float32{0, 0})
	assert.ErrorIs(t, err, ErrNotCompiled)

	err = m.Init()
	assert.ErrorIs(t, err, ErrNotCompiled)
}

func TestInitRunsOnce(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)

	require.NoError(t, m.Init())

	err := m.Init()
	require.Error(t, err)
	assert.Equal(t, "Model is initialized already!", err.Error())
}

func TestCompileTwice(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)

	err := m.Compile(
		optim.NewSGD[Backend](0.1, optim.NewNoClipGradient()),
		loss.NewMSE[Backend](),
	)
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)

	table, err := m.Summary()
	require.NoError(t, err)

	assert.Contains(t, table, "dense_1 (Dense)")
	assert.Contains(t, table, "(None, 8)")
	// dense_1: 2*8+8 = 24, dense_2: 8*2+2 = 18.
	assert.Contains(t, table, "Total params: 42")
	assert.Contains(t, table, "Trainable params: 42")
	assert.Contains(t, table, "Non-trainable params: 0")
}

func TestSummaryCountsFrozenParams(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)

	l, ok := m.Layer("dense_1")
	require.True(t, ok)
	l.SetTrainable(false)

	table, err := m.Summary()
	require.NoError(t, err)
	assert.Contains(t, table, "Trainable params: 18")
	assert.Contains(t, table, "Non-trainable params: 24")
}

func TestFitReducesLoss(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 64)

	history, err := m.Fit(ds, TrainConfig{Epochs: 15, BatchSize: 16})
	require.NoError(t, err)

	epochs := history.EpochEvents()
	require.Len(t, epochs, 15)
	assert.Less(t, epochs[len(epochs)-1].LossValue, epochs[0].LossValue)

	last := epochs[len(epochs)-1]
	assert.Greater(t, last.Metrics[metric.Accuracy], 0.5)
}

func TestFitRecordsBatchEvents(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 20)

	history, err := m.Fit(ds, TrainConfig{Epochs: 2, BatchSize: 8})
	require.NoError(t, err)

	// 20 samples at batch 8 make 3 batches per epoch, tail included.
	assert.Len(t, history.BatchEvents(), 6)

	event, ok := history.LastBatchEvent()
	require.True(t, ok)
	assert.Equal(t, 2, event.Epoch)
	assert.Equal(t, 2, event.Batch)
}

func TestFitWithValidation(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 50)

	history, err := m.Fit(ds, TrainConfig{Epochs: 2, BatchSize: 10, ValidationRate: 0.2})
	require.NoError(t, err)

	event, ok := history.LastEpochEvent()
	require.True(t, ok)
	assert.True(t, event.HasValidation)
	assert.Contains(t, event.ValMetrics, metric.Accuracy)
}

func TestFitValidatesConfig(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 20)

	_, err := m.Fit(ds, TrainConfig{Epochs: 0, BatchSize: 4})
	assert.Error(t, err)

	_, err = m.Fit(ds, TrainConfig{Epochs: 1, BatchSize: 0})
	assert.Error(t, err)

	_, err = m.Fit(ds, TrainConfig{Epochs: 1, BatchSize: 4, ValidationRate: 1})
	assert.Error(t, err)
}

func TestFitRejectsMismatchedFeatures(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)

	wide, err := dataset.New([][]float32{{1, 2, 3}, {4, 5, 6}}, []float32{0, 1})
	require.NoError(t, err)

	_, err = m.Fit(wide, TrainConfig{Epochs: 1, BatchSize: 2})
	assert.Error(t, err)

	_, err = m.Evaluate(wide, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "features per sample")
}

func TestFitStartsFreshHistory(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 20)

	_, err := m.Fit(ds, TrainConfig{Epochs: 3, BatchSize: 10})
	require.NoError(t, err)

	history, err := m.Fit(ds, TrainConfig{Epochs: 2, BatchSize: 10})
	require.NoError(t, err)

	// The second call's history covers that call only.
	assert.Len(t, history.EpochEvents(), 2)
	assert.Len(t, history.BatchEvents(), 4)
	assert.Len(t, m.History().EpochEvents(), 2)
}

func TestFrozenLayerKeepsWeights(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	require.NoError(t, m.Init())

	frozen, ok := m.Layer("dense_1")
	require.True(t, ok)
	frozen.SetTrainable(false)

	frozenBefore := append([]float32(nil), frozen.Parameters()[0].Tensor().Raw().AsFloat32()...)
	active, _ := m.Layer("dense_2")
	activeBefore := append([]float32(nil), active.Parameters()[0].Tensor().Raw().AsFloat32()...)

	ds := separableDataset(t, 32)
	_, err := m.Fit(ds, TrainConfig{Epochs: 3, BatchSize: 8})
	require.NoError(t, err)

	assert.Equal(t, frozenBefore, frozen.Parameters()[0].Tensor().Raw().AsFloat32())
	assert.NotEqual(t, activeBefore, active.Parameters()[0].Tensor().Raw().AsFloat32())
}

func TestFitWithAllLayersFrozen(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)

	for _, l := range m.Layers() {
		l.SetTrainable(false)
	}

	_, err := m.Fit(separableDataset(t, 20), TrainConfig{Epochs: 1, BatchSize: 4})
	assert.Error(t, err)
}

func TestPredict(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)

	soft, err := m.PredictSoftly([]float32{0.3, -0.2})
	require.NoError(t, err)
	assert.Len(t, soft, 2)

	class, err := m.Predict([]float32{0.3, -0.2})
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, class)

	_, err = m.Predict([]float32{0.3})
	assert.Error(t, err)
}

func TestPredictAll(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 10)

	classes, err := m.PredictAll(ds, 3)
	require.NoError(t, err)
	require.Len(t, classes, 10)
	for _, c := range classes {
		assert.Contains(t, []int{0, 1}, c)
	}

	// Batch predictions agree with per-sample predictions.
	row, _ := ds.Sample(0)
	single, err := m.Predict(row)
	require.NoError(t, err)
	assert.Equal(t, single, classes[0])

	_, err = m.PredictAll(ds, 0)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 30)

	result, err := m.Evaluate(ds, 7)
	require.NoError(t, err)

	acc, ok := result.Metrics[metric.Accuracy]
	require.True(t, ok)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
	assert.Greater(t, result.LossValue, 0.0)
}

func TestEarlyStopping(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 32)

	// A huge MinDelta means no epoch ever counts as an improvement.
	stopper := NewEarlyStopping(2, 1e9)
	history, err := m.Fit(ds, TrainConfig{Epochs: 50, BatchSize: 8, Callback: stopper})
	require.NoError(t, err)

	assert.Len(t, history.EpochEvents(), 3)
}

func TestCallbackSeesBatches(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	ds := separableDataset(t, 16)

	counter := &countingCallback{}
	_, err := m.Fit(ds, TrainConfig{Epochs: 2, BatchSize: 8, Callback: counter})
	require.NoError(t, err)

	assert.Equal(t, 2, counter.epochBegins)
	assert.Equal(t, 2, counter.epochEnds)
	assert.Equal(t, 4, counter.batches)
}

type countingCallback struct {
	epochBegins int
	epochEnds   int
	batches     int
}

func (c *countingCallback) OnEpochBegin(int, *History) { c.epochBegins++ }

func (c *countingCallback) OnEpochEnd(int, EpochTrainingEvent, *History) bool {
	c.epochEnds++
	return false
}

func (c *countingCallback) OnTrainBatchEnd(int, BatchTrainingEvent, *History) { c.batches++ }

func TestClose(t *testing.T) {
	backend := newBackend()
	m := newClassifier(t, backend)
	compileClassifier(t, m)
	m.Close()

	_, err := m.Fit(separableDataset(t, 20), TrainConfig{Epochs: 1, BatchSize: 4})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotCompiled)
}
