// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package metric provides the evaluation metrics a model reports.
package metric

import (
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/loss"
	"github.com/born-ml/deep/internal/metric"
)

// Metric identifies an evaluation metric.
type Metric = metric.Metric

// Supported metrics.
const (
	Accuracy = metric.Accuracy
	MAE      = metric.MAE
	MSE      = metric.MSE
	RMSE     = metric.RMSE
	MSLE     = metric.MSLE
)

// FromLoss maps a loss to the metric reporting the same quantity.
func FromLoss[B tensor.Backend](l loss.Loss[B]) (Metric, error) {
	return metric.FromLoss(l)
}

// LossFor returns the loss computing the same quantity as the metric.
func LossFor[B tensor.Backend](m Metric) (loss.Loss[B], error) {
	return metric.LossFor[B](m)
}
