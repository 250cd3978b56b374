package model

import (
	"fmt"

	"github.com/born-ml/born/nn"

	"github.com/born-ml/deep/internal/layer"
)

// LoadWeights initializes the model's weights from a trained-model file.
//
// Weight arrays follow the Keras saved-weight layout: a layer's kernel lives
// at "<name>/<name>/kernel:0" and its bias at "<name>/<name>/bias:0", with
// conv kernels stored [kh, kw, in, out]. With no layer names given every
// weighted layer loads; otherwise only the named ones do, and the rest keep
// their initializer values.
//
// Loading counts as initialization: it runs once, and fails after Init or a
// previous LoadWeights.
func (s *Sequential[B]) LoadWeights(reader WeightReader, layerNames ...string) error {
	if s.closed {
		return fmt.Errorf("model: model is closed")
	}
	if !s.compiled {
		return ErrNotCompiled
	}
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if err := s.buildLayers(); err != nil {
		return err
	}

	targets, err := s.loadTargets(layerNames)
	if err != nil {
		return err
	}

	for _, l := range targets {
		if err := s.loadLayer(reader, l); err != nil {
			return err
		}
	}
	s.initialized = true
	return nil
}

func (s *Sequential[B]) loadTargets(layerNames []string) ([]layer.Layer[B], error) {
	if len(layerNames) == 0 {
		var targets []layer.Layer[B]
		for _, l := range s.layers {
			if len(l.Parameters()) > 0 {
				targets = append(targets, l)
			}
		}
		return targets, nil
	}

	targets := make([]layer.Layer[B], 0, len(layerNames))
	for _, name := range layerNames {
		l, ok := s.Layer(name)
		if !ok {
			return nil, fmt.Errorf("model: layer %q not found", name)
		}
		if len(l.Parameters()) == 0 {
			return nil, fmt.Errorf("model: layer %q has no weights to load", name)
		}
		targets = append(targets, l)
	}
	return targets, nil
}

func (s *Sequential[B]) loadLayer(reader WeightReader, l layer.Layer[B]) error {
	switch t := l.(type) {
	case *layer.Dense[B]:
		if err := s.loadDense(reader, t); err != nil {
			return fmt.Errorf("model: loading layer %q: %w", l.Name(), err)
		}
	case *layer.Conv2D[B]:
		if err := s.loadConv2D(reader, t); err != nil {
			return fmt.Errorf("model: loading layer %q: %w", l.Name(), err)
		}
	default:
		return fmt.Errorf("model: layer %q does not support weight loading", l.Name())
	}
	return nil
}

func weightPath(layerName, kind string) string {
	return fmt.Sprintf("%s/%s/%s:0", layerName, layerName, kind)
}

// loadDense copies a [in, units] kernel and [units] bias as stored: the
// in-memory layout matches the file layout.
func (s *Sequential[B]) loadDense(reader WeightReader, d *layer.Dense[B]) error {
	kernel, dims, err := reader.Read(weightPath(d.Name(), "kernel"))
	if err != nil {
		return err
	}
	if len(dims) != 2 {
		return fmt.Errorf("kernel has %d dims, want 2", len(dims))
	}
	if err := copyInto(d.Kernel(), kernel); err != nil {
		return err
	}

	bias, _, err := reader.Read(weightPath(d.Name(), "bias"))
	if err != nil {
		return err
	}
	return copyInto(d.Bias(), bias)
}

// loadConv2D transposes the stored [kh, kw, in, out] kernel into the engine's
// [out, in, kh, kw] order.
func (s *Sequential[B]) loadConv2D(reader WeightReader, c *layer.Conv2D[B]) error {
	kernel, dims, err := reader.Read(weightPath(c.Name(), "kernel"))
	if err != nil {
		return err
	}
	if len(dims) != 4 {
		return fmt.Errorf("kernel has %d dims, want 4", len(dims))
	}
	kh, kw, in, out := dims[0], dims[1], dims[2], dims[3]
	if len(kernel) != kh*kw*in*out {
		return fmt.Errorf("kernel has %d values, dims %v imply %d", len(kernel), dims, kh*kw*in*out)
	}

	transposed := make([]float32, len(kernel))
	for o := 0; o < out; o++ {
		for i := 0; i < in; i++ {
			for y := 0; y < kh; y++ {
				for x := 0; x < kw; x++ {
					src := ((y*kw+x)*in+i)*out + o
					dst := ((o*in+i)*kh+y)*kw + x
					transposed[dst] = kernel[src]
				}
			}
		}
	}
	if err := copyInto(c.Kernel(), transposed); err != nil {
		return err
	}

	bias, _, err := reader.Read(weightPath(c.Name(), "bias"))
	if err != nil {
		return err
	}
	return copyInto(c.Bias(), bias)
}

func copyInto[B TrainableBackend](param *nn.Parameter[B], values []float32) error {
	dst := param.Tensor().Raw().AsFloat32()
	if len(values) != len(dst) {
		return fmt.Errorf("weight array has %d values, parameter holds %d", len(values), len(dst))
	}
	copy(dst, values)
	return nil
}
