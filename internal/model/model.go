// Package model implements the sequential model: a named stack of layers
// compiled with an optimizer, a loss and metrics, trained by mini-batch
// gradient descent through the engine's gradient tape.
package model

import (
	"errors"
	"fmt"
	"log"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	bornoptim "github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/dataset"
	"github.com/born-ml/deep/internal/layer"
	"github.com/born-ml/deep/internal/loss"
	"github.com/born-ml/deep/internal/metric"
	"github.com/born-ml/deep/internal/optim"
)

// TrainableBackend is the engine capability a model trains on: a full tensor
// backend that records operations on a gradient tape.
type TrainableBackend interface {
	tensor.Backend
	Tape() *autodiff.GradientTape
}

// Lifecycle errors. The messages match the wording trained-model tooling
// built on this API already relies on.
//
//nolint:staticcheck
var (
	ErrNotCompiled        = errors.New("The model is not compiled yet. Compile the model to use this method.")
	ErrAlreadyInitialized = errors.New("Model is initialized already!")
)

// Sequential is a feed-forward stack of layers.
//
// Lifecycle: NewSequential -> Compile -> (Init or LoadWeights) -> Fit /
// Evaluate / Predict -> Close. Init is implicit: training and inference
// initialize weights on first use when neither Init nor LoadWeights ran.
type Sequential[B TrainableBackend] struct {
	backend B
	layers  []layer.Layer[B]

	lossFn    loss.Loss[B]
	optimizer optim.Optimizer[B]
	metrics   []metric.Metric

	// Per-layer output shapes, batch axis excluded, engine order. Filled by
	// Compile.
	outputShapes []tensor.Shape

	compiled    bool
	initialized bool
	closed      bool

	history *History
}

// NewSequential creates a model from an ordered layer stack. The first layer
// must be an Input; unnamed layers get positional default names.
func NewSequential[B TrainableBackend](backend B, layers ...layer.Layer[B]) (*Sequential[B], error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("model: at least an input layer is required")
	}
	if _, ok := layers[0].(*layer.Input[B]); !ok {
		return nil, fmt.Errorf("model: first layer must be an Input layer, got %q", layers[0].Name())
	}
	for i, l := range layers[1:] {
		if _, ok := l.(*layer.Input[B]); ok {
			return nil, fmt.Errorf("model: layer %d is an Input layer, only the first may be", i+1)
		}
	}

	seen := make(map[string]struct{}, len(layers))
	for i, l := range layers {
		if l.Name() == "" {
			l.SetName(fmt.Sprintf("layer_%d", i+1))
		}
		if _, dup := seen[l.Name()]; dup {
			return nil, fmt.Errorf("model: duplicate layer name %q", l.Name())
		}
		seen[l.Name()] = struct{}{}
	}

	return &Sequential[B]{
		backend: backend,
		layers:  layers,
		history: &History{},
	}, nil
}

// Layers returns the layer stack in order.
func (s *Sequential[B]) Layers() []layer.Layer[B] {
	return append([]layer.Layer[B](nil), s.layers...)
}

// Layer finds a layer by name.
func (s *Sequential[B]) Layer(name string) (layer.Layer[B], bool) {
	for _, l := range s.layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// History returns the history of the most recent Fit call, empty before the
// first one.
func (s *Sequential[B]) History() *History { return s.history }

// Compile binds the training configuration and validates the shape chain.
// Weights are not materialized yet; that happens at Init, LoadWeights or the
// first training or inference call.
func (s *Sequential[B]) Compile(optimizer optim.Optimizer[B], lossFn loss.Loss[B], metrics ...metric.Metric) error {
	if s.closed {
		return fmt.Errorf("model: model is closed")
	}
	if s.compiled {
		return fmt.Errorf("model: model is compiled already")
	}
	if optimizer == nil {
		return fmt.Errorf("model: optimizer is required")
	}
	if lossFn == nil {
		return fmt.Errorf("model: loss is required")
	}

	shapes := make([]tensor.Shape, len(s.layers))
	var shape tensor.Shape
	for i, l := range s.layers {
		out, err := l.OutputShape(shape)
		if err != nil {
			return fmt.Errorf("model: compiling layer %q: %w", l.Name(), err)
		}
		shapes[i] = out
		shape = out
	}

	s.optimizer = optimizer
	s.lossFn = lossFn
	s.metrics = append([]metric.Metric(nil), metrics...)
	s.outputShapes = shapes
	s.compiled = true
	return nil
}

// Init materializes weights through the layers' initializer strategies.
// Weights initialize exactly once: a second Init, or an Init after
// LoadWeights, fails.
func (s *Sequential[B]) Init() error {
	if !s.compiled {
		return ErrNotCompiled
	}
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if err := s.buildLayers(); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *Sequential[B]) buildLayers() error {
	var shape tensor.Shape
	for _, l := range s.layers {
		if err := l.Build(s.backend, shape); err != nil {
			return fmt.Errorf("model: building layer %q: %w", l.Name(), err)
		}
		out, err := l.OutputShape(shape)
		if err != nil {
			return fmt.Errorf("model: building layer %q: %w", l.Name(), err)
		}
		shape = out
	}
	return nil
}

func (s *Sequential[B]) ensureInitialized() error {
	if s.initialized {
		return nil
	}
	if err := s.buildLayers(); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// inputDims returns the user-order input dims of the first layer.
func (s *Sequential[B]) inputDims() []int {
	return s.layers[0].(*layer.Input[B]).Dims()
}

func (s *Sequential[B]) expectedFeatures() int {
	n := 1
	for _, d := range s.inputDims() {
		n *= d
	}
	return n
}

// forward runs the stack over a flat [batch, features] tensor. Image inputs
// are unflattened to [batch, h, w, c] and transposed to the engine's
// [batch, c, h, w] before the first real layer.
func (s *Sequential[B]) forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	dims := s.inputDims()
	if len(dims) == 3 {
		batch := x.Shape()[0]
		x = x.Reshape(batch, dims[0], dims[1], dims[2]).Transpose(0, 3, 1, 2)
	}
	for _, l := range s.layers[1:] {
		x = l.Forward(x)
	}
	return x
}

func (s *Sequential[B]) trainableParams() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, l := range s.layers {
		if l.IsTrainable() {
			params = append(params, l.Parameters()...)
		}
	}
	return params
}

// TrainConfig configures a Fit call.
type TrainConfig struct {
	Epochs    int
	BatchSize int
	// ValidationRate is the fraction of samples held out for per-epoch
	// validation, 0 to disable. The holdout is the dataset's tail.
	ValidationRate float64
	Verbose        bool
	Callback       Callback
}

// Fit trains the model on the dataset.
//
// The engine optimizer is rebuilt from the layers that are trainable at call
// time, so weights of frozen layers stay untouched. Each call starts a fresh
// history; the returned history covers this call only.
func (s *Sequential[B]) Fit(ds *dataset.Dataset, config TrainConfig) (*History, error) {
	if s.closed {
		return nil, fmt.Errorf("model: model is closed")
	}
	if !s.compiled {
		return nil, ErrNotCompiled
	}
	if config.Epochs <= 0 {
		return nil, fmt.Errorf("model: epochs must be positive, got %d", config.Epochs)
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("model: batch size must be positive, got %d", config.BatchSize)
	}
	if config.ValidationRate < 0 || config.ValidationRate >= 1 {
		return nil, fmt.Errorf("model: validation rate must be in [0, 1), got %g", config.ValidationRate)
	}
	if ds.FeatureDim() != s.expectedFeatures() {
		return nil, fmt.Errorf("model: dataset has %d features per sample, input layer expects %d",
			ds.FeatureDim(), s.expectedFeatures())
	}
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	s.history = &History{}

	trainDS := ds
	var valDS *dataset.Dataset
	if config.ValidationRate > 0 {
		var err error
		trainDS, valDS, err = ds.Split(1 - config.ValidationRate)
		if err != nil {
			return nil, err
		}
	}

	params := s.trainableParams()
	if len(params) == 0 {
		return nil, fmt.Errorf("model: no trainable parameters, unfreeze a layer before fitting")
	}
	engineOpt := s.optimizer.Build(params, s.backend)
	clip := s.optimizer.Clip()

	tape := s.backend.Tape()
	tape.StartRecording()
	defer tape.StopRecording()

	numBatches := trainDS.NumBatches(config.BatchSize)
	for epoch := 1; epoch <= config.Epochs; epoch++ {
		if config.Callback != nil {
			config.Callback.OnEpochBegin(epoch, s.history)
		}

		acc := newAccumulator(s.metrics)
		for i := 0; i < numBatches; i++ {
			batch, err := trainDS.Batch(i, config.BatchSize)
			if err != nil {
				return nil, err
			}

			engineOpt.ZeroGrad()

			event, err := s.trainBatch(engineOpt, clip, batch, epoch, i)
			if err != nil {
				return nil, err
			}

			s.history.appendBatch(event)
			if config.Callback != nil {
				config.Callback.OnTrainBatchEnd(i, event, s.history)
			}
			acc.add(batch.Size, event.LossValue, event.Metrics)

			tape.Clear()
		}

		epochEvent := EpochTrainingEvent{
			Epoch:     epoch,
			LossValue: acc.meanLoss(),
			Metrics:   acc.meanMetrics(),
		}
		if valDS != nil {
			valLoss, valMetrics, err := s.evaluateOn(valDS, config.BatchSize)
			if err != nil {
				return nil, err
			}
			epochEvent.ValLossValue = valLoss
			epochEvent.ValMetrics = valMetrics
			epochEvent.HasValidation = true
		}
		s.history.appendEpoch(epochEvent)

		if config.Verbose {
			logEpoch(epochEvent, config.Epochs)
		}

		if config.Callback != nil && config.Callback.OnEpochEnd(epoch, epochEvent, s.history) {
			if config.Verbose {
				log.Printf("training stopped early at epoch %d/%d", epoch, config.Epochs)
			}
			break
		}
	}

	return s.history, nil
}

// trainBatch runs one recorded forward/backward/step cycle.
func (s *Sequential[B]) trainBatch(
	engineOpt bornoptim.Optimizer,
	clip optim.ClipGradient,
	batch *dataset.Batch,
	epoch, index int,
) (BatchTrainingEvent, error) {
	x, err := tensor.FromSlice[float32, B](batch.Features, tensor.Shape{batch.Size, batch.FeatureDim}, s.backend)
	if err != nil {
		return BatchTrainingEvent{}, fmt.Errorf("model: batch features: %w", err)
	}
	y, err := tensor.FromSlice[float32, B](batch.Labels, tensor.Shape{batch.Size}, s.backend)
	if err != nil {
		return BatchTrainingEvent{}, fmt.Errorf("model: batch labels: %w", err)
	}

	logits := s.forward(x)
	lossT := s.lossFn.Apply(logits, y)
	lossValue := float64(lossT.Raw().AsFloat32()[0])

	outputGrad, err := tensor.NewRaw(lossT.Shape(), lossT.DType(), s.backend.Device())
	if err != nil {
		return BatchTrainingEvent{}, err
	}
	seed := outputGrad.AsFloat32()
	for i := range seed {
		seed[i] = 1.0
	}

	grads := s.backend.Tape().Backward(outputGrad, s.backend)
	if clip != nil {
		clip.Apply(grads)
	}
	engineOpt.Step(grads)

	return BatchTrainingEvent{
		Epoch:     epoch,
		Batch:     index,
		LossValue: lossValue,
		Metrics:   s.batchMetrics(logits, batch),
	}, nil
}

func (s *Sequential[B]) batchMetrics(logits *tensor.Tensor[float32, B], batch *dataset.Batch) map[metric.Metric]float64 {
	if len(s.metrics) == 0 {
		return nil
	}
	outShape := logits.Shape()
	features := outShape[len(outShape)-1]
	preds := logits.Raw().AsFloat32()

	values := make(map[metric.Metric]float64, len(s.metrics))
	for _, m := range s.metrics {
		values[m] = m.OfBatch(preds, batch.Labels, batch.Size, features)
	}
	return values
}

// EvaluationResult holds the loss and metric values of an Evaluate call.
type EvaluationResult struct {
	LossValue float64
	Metrics   map[metric.Metric]float64
}

// Evaluate computes loss and metrics over the dataset without training.
func (s *Sequential[B]) Evaluate(ds *dataset.Dataset, batchSize int) (*EvaluationResult, error) {
	if s.closed {
		return nil, fmt.Errorf("model: model is closed")
	}
	if !s.compiled {
		return nil, ErrNotCompiled
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("model: batch size must be positive, got %d", batchSize)
	}
	if ds.FeatureDim() != s.expectedFeatures() {
		return nil, fmt.Errorf("model: dataset has %d features per sample, input layer expects %d",
			ds.FeatureDim(), s.expectedFeatures())
	}
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	lossValue, metrics, err := s.evaluateOn(ds, batchSize)
	if err != nil {
		return nil, err
	}
	return &EvaluationResult{LossValue: lossValue, Metrics: metrics}, nil
}

// evaluateOn runs forward-only batches with gradient recording paused.
func (s *Sequential[B]) evaluateOn(ds *dataset.Dataset, batchSize int) (float64, map[metric.Metric]float64, error) {
	tape := s.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	acc := newAccumulator(s.metrics)
	numBatches := ds.NumBatches(batchSize)
	for i := 0; i < numBatches; i++ {
		batch, err := ds.Batch(i, batchSize)
		if err != nil {
			return 0, nil, err
		}
		x, err := tensor.FromSlice[float32, B](batch.Features, tensor.Shape{batch.Size, batch.FeatureDim}, s.backend)
		if err != nil {
			return 0, nil, err
		}
		y, err := tensor.FromSlice[float32, B](batch.Labels, tensor.Shape{batch.Size}, s.backend)
		if err != nil {
			return 0, nil, err
		}

		logits := s.forward(x)
		lossValue := float64(s.lossFn.Apply(logits, y).Raw().AsFloat32()[0])
		acc.add(batch.Size, lossValue, s.batchMetrics(logits, batch))
	}
	return acc.meanLoss(), acc.meanMetrics(), nil
}

// PredictSoftly runs one sample through the stack and returns the raw output
// row (logits for classification heads).
func (s *Sequential[B]) PredictSoftly(input []float32) ([]float32, error) {
	if s.closed {
		return nil, fmt.Errorf("model: model is closed")
	}
	if !s.compiled {
		return nil, ErrNotCompiled
	}
	if len(input) != s.expectedFeatures() {
		return nil, fmt.Errorf("model: input has %d features, input layer expects %d", len(input), s.expectedFeatures())
	}
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	tape := s.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	x, err := tensor.FromSlice[float32, B](input, tensor.Shape{1, len(input)}, s.backend)
	if err != nil {
		return nil, err
	}
	out := s.forward(x)
	return append([]float32(nil), out.Raw().AsFloat32()...), nil
}

// PredictAll runs inference over a whole dataset and returns the argmax class
// per sample.
func (s *Sequential[B]) PredictAll(ds *dataset.Dataset, batchSize int) ([]int, error) {
	if s.closed {
		return nil, fmt.Errorf("model: model is closed")
	}
	if !s.compiled {
		return nil, ErrNotCompiled
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("model: batch size must be positive, got %d", batchSize)
	}
	if ds.FeatureDim() != s.expectedFeatures() {
		return nil, fmt.Errorf("model: dataset has %d features per sample, input layer expects %d",
			ds.FeatureDim(), s.expectedFeatures())
	}
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	tape := s.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	classes := make([]int, 0, ds.Count())
	numBatches := ds.NumBatches(batchSize)
	for i := 0; i < numBatches; i++ {
		batch, err := ds.Batch(i, batchSize)
		if err != nil {
			return nil, err
		}
		x, err := tensor.FromSlice[float32, B](batch.Features, tensor.Shape{batch.Size, batch.FeatureDim}, s.backend)
		if err != nil {
			return nil, err
		}

		logits := s.forward(x)
		outShape := logits.Shape()
		features := outShape[len(outShape)-1]
		preds := logits.Raw().AsFloat32()
		for row := 0; row < batch.Size; row++ {
			best := 0
			for j := 1; j < features; j++ {
				if preds[row*features+j] > preds[row*features+best] {
					best = j
				}
			}
			classes = append(classes, best)
		}
	}
	return classes, nil
}

// Predict runs one sample and returns the index of the strongest output.
func (s *Sequential[B]) Predict(input []float32) (int, error) {
	out, err := s.PredictSoftly(input)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, v := range out {
		if v > out[best] {
			best = i
		}
	}
	return best, nil
}

// Close releases training state. The model must not be used afterwards.
func (s *Sequential[B]) Close() {
	if s.closed {
		return
	}
	s.backend.Tape().Clear()
	s.closed = true
}

func logEpoch(event EpochTrainingEvent, epochs int) {
	line := fmt.Sprintf("epoch %d/%d: loss=%.4f", event.Epoch, epochs, event.LossValue)
	for m, v := range event.Metrics {
		line += fmt.Sprintf(" %s=%.4f", m, v)
	}
	if event.HasValidation {
		line += fmt.Sprintf(" val_loss=%.4f", event.ValLossValue)
		for m, v := range event.ValMetrics {
			line += fmt.Sprintf(" val_%s=%.4f", m, v)
		}
	}
	log.Print(line)
}

// accumulator averages loss and metrics over batches, weighted by batch size
// so partial tail batches do not skew the epoch mean.
type accumulator struct {
	metrics []metric.Metric
	samples int
	loss    float64
	sums    map[metric.Metric]float64
}

func newAccumulator(metrics []metric.Metric) *accumulator {
	return &accumulator{metrics: metrics, sums: make(map[metric.Metric]float64, len(metrics))}
}

func (a *accumulator) add(size int, lossValue float64, metrics map[metric.Metric]float64) {
	a.samples += size
	a.loss += lossValue * float64(size)
	for m, v := range metrics {
		a.sums[m] += v * float64(size)
	}
}

func (a *accumulator) meanLoss() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.loss / float64(a.samples)
}

func (a *accumulator) meanMetrics() map[metric.Metric]float64 {
	if len(a.metrics) == 0 {
		return nil
	}
	means := make(map[metric.Metric]float64, len(a.metrics))
	for _, m := range a.metrics {
		if a.samples > 0 {
			means[m] = a.sums[m] / float64(a.samples)
		} else {
			means[m] = 0
		}
	}
	return means
}
