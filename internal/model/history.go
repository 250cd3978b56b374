package model

import "github.com/born-ml/deep/internal/metric"

// BatchTrainingEvent records one training batch.
type BatchTrainingEvent struct {
	Epoch     int
	Batch     int
	LossValue float64
	Metrics   map[metric.Metric]float64
}

// EpochTrainingEvent records one epoch: training averages and, when a
// validation split was configured, validation results.
type EpochTrainingEvent struct {
	Epoch         int
	LossValue     float64
	Metrics       map[metric.Metric]float64
	ValLossValue  float64
	ValMetrics    map[metric.Metric]float64
	HasValidation bool
}

// History is the append-only training record a Fit call returns. Each Fit
// call starts its own history; events from earlier calls are discarded.
type History struct {
	batches []BatchTrainingEvent
	epochs  []EpochTrainingEvent
}

// BatchEvents returns all recorded batch events in order.
func (h *History) BatchEvents() []BatchTrainingEvent {
	return append([]BatchTrainingEvent(nil), h.batches...)
}

// EpochEvents returns all recorded epoch events in order.
func (h *History) EpochEvents() []EpochTrainingEvent {
	return append([]EpochTrainingEvent(nil), h.epochs...)
}

// LastBatchEvent returns the most recent batch event. ok is false when no
// batch has run yet.
func (h *History) LastBatchEvent() (event BatchTrainingEvent, ok bool) {
	if len(h.batches) == 0 {
		return BatchTrainingEvent{}, false
	}
	return h.batches[len(h.batches)-1], true
}

// LastEpochEvent returns the most recent epoch event. ok is false when no
// epoch has finished yet.
func (h *History) LastEpochEvent() (event EpochTrainingEvent, ok bool) {
	if len(h.epochs) == 0 {
		return EpochTrainingEvent{}, false
	}
	return h.epochs[len(h.epochs)-1], true
}

func (h *History) appendBatch(event BatchTrainingEvent) {
	h.batches = append(h.batches, event)
}

func (h *History) appendEpoch(event EpochTrainingEvent) {
	h.epochs = append(h.epochs, event)
}
