package loss

import (
	"fmt"

	"github.com/born-ml/born/tensor"
)

// crossEntropyBackend is the engine capability for fused
// softmax-cross-entropy, asserted at runtime. The autodiff-wrapped backends
// implement it and record the operation on the gradient tape.
type crossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// SoftmaxCrossEntropyWithLogits is the classification loss: softmax over the
// logits fused with negative log likelihood, averaged over the batch.
//
// Predictions are raw logits [batch, classes]; the softmax lives inside the
// loss for numerical stability. Actual holds float32-encoded class indices,
// one per sample.
type SoftmaxCrossEntropyWithLogits[B tensor.Backend] struct{}

// NewSoftmaxCrossEntropyWithLogits creates the classification loss.
func NewSoftmaxCrossEntropyWithLogits[B tensor.Backend]() *SoftmaxCrossEntropyWithLogits[B] {
	return &SoftmaxCrossEntropyWithLogits[B]{}
}

func (s *SoftmaxCrossEntropyWithLogits[B]) Apply(predicted, actual *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := predicted.Backend()
	b, ok := any(backend).(crossEntropyBackend)
	if !ok {
		panic("loss: backend must implement CrossEntropy (use autodiff.New)")
	}

	batch := predicted.Shape()[0]
	labels := actual.Raw().AsFloat32()
	if len(labels) != batch {
		panic(fmt.Sprintf("loss: expected %d class labels, got %d", batch, len(labels)))
	}

	targets, err := tensor.NewRaw(tensor.Shape{batch}, tensor.Int32, backend.Device())
	if err != nil {
		panic(err)
	}
	dst := targets.AsInt32()
	for i, label := range labels {
		dst[i] = int32(label)
	}

	raw := b.CrossEntropy(predicted.Raw(), targets)
	return tensor.New[float32, B](raw, backend)
}

func (s *SoftmaxCrossEntropyWithLogits[B]) String() string {
	return "SoftmaxCrossEntropyWithLogits"
}
