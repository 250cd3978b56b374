package model

// Callback observes training progress. OnEpochEnd may stop training early by
// returning true.
type Callback interface {
	OnEpochBegin(epoch int, history *History)
	OnEpochEnd(epoch int, event EpochTrainingEvent, history *History) (stop bool)
	OnTrainBatchEnd(batch int, event BatchTrainingEvent, history *History)
}

// EarlyStopping stops training when the monitored loss has not improved by at
// least MinDelta for Patience consecutive epochs. It monitors validation loss
// when a validation split is configured, training loss otherwise.
type EarlyStopping struct {
	Patience int
	MinDelta float64

	best    float64
	wait    int
	started bool
}

// NewEarlyStopping creates an EarlyStopping callback.
func NewEarlyStopping(patience int, minDelta float64) *EarlyStopping {
	return &EarlyStopping{Patience: patience, MinDelta: minDelta}
}

func (e *EarlyStopping) OnEpochBegin(int, *History) {}

func (e *EarlyStopping) OnTrainBatchEnd(int, BatchTrainingEvent, *History) {}

func (e *EarlyStopping) OnEpochEnd(_ int, event EpochTrainingEvent, _ *History) bool {
	monitored := event.LossValue
	if event.HasValidation {
		monitored = event.ValLossValue
	}

	if !e.started || monitored < e.best-e.MinDelta {
		e.started = true
		e.best = monitored
		e.wait = 0
		return false
	}

	e.wait++
	return e.wait >= e.Patience
}
