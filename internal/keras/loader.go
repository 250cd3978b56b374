package keras

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/born-ml/deep/internal/initializer"
	"github.com/born-ml/deep/internal/layer"
	"github.com/born-ml/deep/internal/model"
)

// defaultSeed seeds initializers whose config carries no seed, so repeated
// imports of the same file produce identical weights.
const defaultSeed int64 = 12

// LoadModelConfiguration reads and decodes a Keras model JSON file.
func LoadModelConfiguration(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keras: reading model configuration: %w", err)
	}
	var config ModelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("keras: decoding model configuration: %w", err)
	}
	return &config, nil
}

// LoadSequential reads a Keras model JSON file and reconstructs the model.
// The result is uncompiled: bind an optimizer, loss and metrics with Compile
// before use.
func LoadSequential[B model.TrainableBackend](backend B, path string) (*model.Sequential[B], error) {
	config, err := LoadModelConfiguration(path)
	if err != nil {
		return nil, err
	}
	return NewSequential(backend, config)
}

// NewSequential reconstructs a model from a decoded configuration.
func NewSequential[B model.TrainableBackend](backend B, config *ModelConfig) (*model.Sequential[B], error) {
	if config.ClassName != "Sequential" {
		return nil, fmt.Errorf("keras: %s is not supported yet!", config.ClassName)
	}
	if len(config.Config.Layers) == 0 {
		return nil, fmt.Errorf("keras: model configuration has no layers")
	}

	layers := make([]layer.Layer[B], 0, len(config.Config.Layers))
	for i, lc := range config.Config.Layers {
		l, err := convertLayer[B](lc, i == 0)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return model.NewSequential(backend, layers...)
}

func convertLayer[B model.TrainableBackend](lc LayerConfig, first bool) (layer.Layer[B], error) {
	switch lc.ClassName {
	case "InputLayer":
		return convertInput[B](lc.Config)
	case "Dense":
		return convertDense[B](lc.Config)
	case "Conv2D":
		return convertConv2D[B](lc.Config)
	case "MaxPooling2D":
		return convertMaxPooling2D[B](lc.Config)
	case "Flatten":
		return layer.NewFlatten[B](lc.Config.Name), nil
	default:
		if first && len(lc.Config.BatchInputShape) > 0 {
			// Older files fold the input declaration into the first real
			// layer instead of a separate InputLayer entry.
			return nil, fmt.Errorf("keras: first layer %s carries batch_input_shape, expected an InputLayer entry", lc.ClassName)
		}
		return nil, fmt.Errorf("%s is not supported yet!", lc.ClassName)
	}
}

func convertInput[B model.TrainableBackend](p LayerParams) (layer.Layer[B], error) {
	if len(p.BatchInputShape) < 2 {
		return nil, fmt.Errorf("keras: input layer %q has no batch_input_shape", p.Name)
	}
	// Skip the null batch axis.
	dims := make([]int, 0, len(p.BatchInputShape)-1)
	for _, d := range p.BatchInputShape[1:] {
		if d == nil {
			return nil, fmt.Errorf("keras: input layer %q has a free non-batch axis", p.Name)
		}
		dims = append(dims, *d)
	}
	return layer.NewInput[B](dims, p.Name), nil
}

func convertDense[B model.TrainableBackend](p LayerParams) (layer.Layer[B], error) {
	activation, err := layer.ParseActivation(p.Activation)
	if err != nil {
		return nil, err
	}
	kernelInit, err := convertInitializer[B](p.KernelInitializer)
	if err != nil {
		return nil, err
	}
	biasInit, err := convertInitializer[B](p.BiasInitializer)
	if err != nil {
		return nil, err
	}
	return layer.NewDense(p.Units, activation, kernelInit, biasInit, p.Name), nil
}

func convertConv2D[B model.TrainableBackend](p LayerParams) (layer.Layer[B], error) {
	activation, err := layer.ParseActivation(p.Activation)
	if err != nil {
		return nil, err
	}
	padding, err := layer.ParsePadding(p.Padding)
	if err != nil {
		return nil, err
	}
	kernelSize, err := pair(p.KernelSize, "kernel_size", p.Name)
	if err != nil {
		return nil, err
	}
	stride, err := symmetric(p.Strides, 1, "strides", p.Name)
	if err != nil {
		return nil, err
	}
	kernelInit, err := convertInitializer[B](p.KernelInitializer)
	if err != nil {
		return nil, err
	}
	biasInit, err := convertInitializer[B](p.BiasInitializer)
	if err != nil {
		return nil, err
	}
	return layer.NewConv2D(p.Filters, kernelSize, stride, padding, activation, kernelInit, biasInit, p.Name), nil
}

func convertMaxPooling2D[B model.TrainableBackend](p LayerParams) (layer.Layer[B], error) {
	poolPair, err := pair(p.PoolSize, "pool_size", p.Name)
	if err != nil {
		return nil, err
	}
	if poolPair[0] != poolPair[1] {
		return nil, fmt.Errorf("keras: layer %q: anisotropic pool_size %v is not supported", p.Name, p.PoolSize)
	}
	stride, err := symmetric(p.Strides, poolPair[0], "strides", p.Name)
	if err != nil {
		return nil, err
	}
	return layer.NewMaxPool2D[B](poolPair[0], stride, p.Name), nil
}

// pair validates a two-element int field.
func pair(values []int, field, layerName string) ([2]int, error) {
	if len(values) != 2 {
		return [2]int{}, fmt.Errorf("keras: layer %q: %s must have 2 entries, got %v", layerName, field, values)
	}
	return [2]int{values[0], values[1]}, nil
}

// symmetric validates an optional two-element field whose entries must agree,
// falling back to def when absent.
func symmetric(values []int, def int, field, layerName string) (int, error) {
	if len(values) == 0 {
		return def, nil
	}
	if len(values) != 2 {
		return 0, fmt.Errorf("keras: layer %q: %s must have 2 entries, got %v", layerName, field, values)
	}
	if values[0] != values[1] {
		return 0, fmt.Errorf("keras: layer %q: anisotropic %s %v is not supported", layerName, field, values)
	}
	return values[0], nil
}

func convertInitializer[B model.TrainableBackend](ic *InitializerConfig) (initializer.Initializer[B], error) {
	if ic == nil {
		return nil, fmt.Errorf("keras: layer is missing an initializer")
	}
	seed := defaultSeed
	if ic.Config.Seed != nil {
		seed = *ic.Config.Seed
	}
	switch ic.ClassName {
	case "GlorotNormal":
		return initializer.NewGlorotNormal[B](seed), nil
	case "GlorotUniform":
		return initializer.NewGlorotUniform[B](seed), nil
	case "HeNormal":
		return initializer.NewHeNormal[B](seed), nil
	case "HeUniform":
		return initializer.NewHeUniform[B](seed), nil
	case "LeCunNormal", "LecunNormal":
		return initializer.NewLeCunNormal[B](seed), nil
	case "LeCunUniform", "LecunUniform":
		return initializer.NewLeCunUniform[B](seed), nil
	default:
		return nil, fmt.Errorf("%s is not supported yet!", ic.ClassName)
	}
}
